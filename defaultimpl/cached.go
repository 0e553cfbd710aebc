package impl

import (
	"context"
	"errors"
	"sync"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
	"github.com/SchnorcherSepp/storagefs/logging"
	"go.uber.org/zap"
)

// interface check: interf.StatAdapter
var _ interf.StatAdapter = (*_CachedAdapter)(nil)

// errInvalidated rejects content that was read while an invalidation was running.
var errInvalidated = errors.New("invalidated during read")

// _CachedAdapter keeps the content of read files in an interf.Cache.
// Every operation that can change content invalidates the affected paths.
// All other operations are passed to the wrapped adapter.
type _CachedAdapter struct {
	interf.Adapter
	cache interf.Cache
	stat  *_CacheStat

	mux        sync.Mutex
	generation uint64 // incremented by every invalidation
}

// NewCachedAdapter wraps inner with a read cache. A nil logger uses logging.L().
// The cache can be shared by several adapters only if they never use the same paths.
// Content read while an invalidation runs is returned but not cached.
func NewCachedAdapter(inner interf.Adapter, cache interf.Cache, logger *zap.Logger) interf.StatAdapter {
	if logger == nil {
		logger = logging.L()
	}
	return &_CachedAdapter{
		Adapter: inner,
		cache:   cache,
		stat:    &_CacheStat{logger: logger.Named("cache")},
	}
}

func (c *_CachedAdapter) Stat() map[string]uint64 {
	return c.stat.Stat()
}

func (c *_CachedAdapter) Read(ctx context.Context, path string, reporter interf.Reporter) ([]byte, error) {
	path = interf.ResolvePath(path)

	// cache
	data, err := c.cache.Get(path, nil)
	c.stat.CacheGet(path, len(data), err)
	if err == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if data == nil {
			data = []byte{} // empty content
		}
		reporter = reporterOrNop(reporter)
		reporter.Progress(0, len(data))
		reporter.Progress(len(data), len(data))
		return data, nil
	}

	// read through
	c.mux.Lock() // WRITE Lock
	generation := c.generation
	c.mux.Unlock()

	data, err = c.Adapter.Read(ctx, path, reporter)
	if err != nil {
		return nil, err
	}

	c.mux.Lock() // WRITE Lock
	if generation == c.generation {
		err = c.cache.Set(path, data)
	} else {
		err = errInvalidated
	}
	c.mux.Unlock()

	c.stat.CacheSet(path, len(data), err)
	return data, nil
}

func (c *_CachedAdapter) Write(ctx context.Context, path string, contents []byte, visibility interf.Visibility, reporter interf.Reporter) error {
	defer c.invalidate(path)
	return c.Adapter.Write(ctx, path, contents, visibility, reporter)
}

func (c *_CachedAdapter) Delete(ctx context.Context, paths ...string) error {
	defer c.invalidate(paths...)
	return c.Adapter.Delete(ctx, paths...)
}

func (c *_CachedAdapter) DeleteDirectory(ctx context.Context, path string, reporter interf.Reporter) error {
	affected, ok := c.affected(ctx, path, path)
	if !ok {
		defer c.clear("delete directory")
	} else {
		defer c.invalidate(affected...)
	}
	return c.Adapter.DeleteDirectory(ctx, path, reporter)
}

func (c *_CachedAdapter) Copy(ctx context.Context, source, destination string, reporter interf.Reporter) error {
	affected, ok := c.affected(ctx, source, destination)
	if !ok {
		defer c.clear("copy")
	} else {
		defer c.invalidate(affected...)
	}
	return c.Adapter.Copy(ctx, source, destination, reporter)
}

func (c *_CachedAdapter) Move(ctx context.Context, source, destination string, reporter interf.Reporter) error {
	moved, ok1 := c.affected(ctx, source, source)
	targets, ok2 := c.affected(ctx, source, destination)
	if !ok1 || !ok2 {
		defer c.clear("move")
	} else {
		defer c.invalidate(append(moved, targets...)...)
	}
	return c.Adapter.Move(ctx, source, destination, reporter)
}

//--------  Helper  --------------------------------------------------------------------------------------------------//

// affected returns source and all entries below it, rebased to destination.
// ok is false if the entries can't be listed; the whole cache must be cleared then.
func (c *_CachedAdapter) affected(ctx context.Context, source, destination string) ([]string, bool) {
	list, err := c.Adapter.AllFiles(ctx, source)
	if err != nil {
		return nil, false
	}

	ret := make([]string, 0, len(list)+1)
	ret = append(ret, interf.RebasePath(source, source, destination))
	for _, f := range OnlyFiles(list) {
		ret = append(ret, interf.RebasePath(f.Path, source, destination))
	}
	return ret, true
}

func (c *_CachedAdapter) invalidate(paths ...string) {
	c.mux.Lock() // WRITE Lock
	defer c.mux.Unlock()

	c.generation++
	for _, p := range paths {
		if c.cache.Del(p) {
			c.stat.CacheDel(p)
		}
	}
}

func (c *_CachedAdapter) clear(reason string) {
	c.mux.Lock() // WRITE Lock
	defer c.mux.Unlock()

	c.generation++
	c.cache.Clear()
	c.stat.CacheClear(reason)
}
