package impl

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// _CacheStat counts what the cached adapter does with its cache.
// All counters are updated atomically.
type _CacheStat struct {
	logger *zap.Logger

	_CacheHit   uint64
	_CacheMis   uint64
	_CacheSet   uint64
	_CacheSkip  uint64
	_CacheDel   uint64
	_CacheClear uint64
}

// Stat returns the counters. Zero values are left out.
func (s *_CacheStat) Stat() map[string]uint64 {
	ret := map[string]uint64{
		"CacheHit":   atomic.LoadUint64(&s._CacheHit),
		"CacheMis":   atomic.LoadUint64(&s._CacheMis),
		"CacheSet":   atomic.LoadUint64(&s._CacheSet),
		"CacheSkip":  atomic.LoadUint64(&s._CacheSkip),
		"CacheDel":   atomic.LoadUint64(&s._CacheDel),
		"CacheClear": atomic.LoadUint64(&s._CacheClear),
	}

	// ignore zero values
	for k, v := range ret {
		if v == 0 {
			delete(ret, k)
		}
	}
	return ret
}

// ------------------------------------------------------------------------------------------------------------------ //

func (s *_CacheStat) CacheGet(path string, size int, err error) {
	if err == nil {
		atomic.AddUint64(&s._CacheHit, 1)
	} else {
		atomic.AddUint64(&s._CacheMis, 1)
	}
	s.logger.Debug("cache get", zap.String("path", path), zap.Int("size", size), zap.Bool("hit", err == nil))
}

func (s *_CacheStat) CacheSet(path string, size int, err error) {
	if err != nil {
		// too large, cache full or invalidated: the content is simply read through next time
		atomic.AddUint64(&s._CacheSkip, 1)
		s.logger.Debug("cache skip", zap.String("path", path), zap.Int("size", size), zap.Error(err))
		return
	}
	atomic.AddUint64(&s._CacheSet, 1)
	s.logger.Debug("cache set", zap.String("path", path), zap.Int("size", size))
}

func (s *_CacheStat) CacheDel(path string) {
	atomic.AddUint64(&s._CacheDel, 1)
	s.logger.Debug("cache del", zap.String("path", path))
}

func (s *_CacheStat) CacheClear(reason string) {
	atomic.AddUint64(&s._CacheClear, 1)
	s.logger.Debug("cache clear", zap.String("reason", reason))
}
