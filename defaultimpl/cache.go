package impl

import (
	"github.com/SchnorcherSepp/storagefs/interfaces"
	"github.com/coocood/freecache"
	"github.com/oxtoacart/bpool"
)

// interface check: interf.Cache
var _ interf.Cache = (*_Cache)(nil)

// poolSize is the number of buffers kept by the buffer pool.
const poolSize = 64

// @see interf.Cache
//
// Cache stores file content by path for a fast repeated Read().
// If possible, there should only be one common large cache (reuse the object in your program).
type _Cache struct {
	cache *freecache.Cache  // RAM cache for content
	pool  *bpool.BufferPool // buffer pool
	size  int64
}

// NewCache return the default implementation of interf.Cache.
// cacheSizeMB can't be less than interf.MinCacheSizeMB.
func NewCache(cacheSizeMB int) interf.Cache {
	// cache min. size
	if cacheSizeMB < interf.MinCacheSizeMB {
		cacheSizeMB = interf.MinCacheSizeMB
	}

	// init freeCache
	cacheSize := cacheSizeMB * 1024 * 1024
	return &_Cache{
		cache: freecache.NewCache(cacheSize),
		pool:  bpool.NewBufferPool(poolSize),
		size:  int64(cacheSize),
	}
}

// @see interf.Cache
//
// Get returns a copy of the content or a 'not found' error.
// This method doesn't allocate memory when the capacity of buf is greater or equal to the content.
func (c *_Cache) Get(path string, buf []byte) ([]byte, error) {
	return c.cache.GetWithBuf(c.calcCacheKey(path), buf)
}

// @see interf.Cache
//
// Set stores the content in the cache.
// Old data can be deleted if the cache is full. Content larger than MaxCacheEntrySize is rejected.
// The value expires after interf.CacheExpireSeconds.
func (c *_Cache) Set(path string, data []byte) error {
	if len(data) > interf.MaxCacheEntrySize {
		return freecache.ErrLargeEntry
	}
	return c.cache.Set(c.calcCacheKey(path), data, interf.CacheExpireSeconds)
}

// @see interf.Cache
//
// Del removes the content of a single path.
func (c *_Cache) Del(path string) bool {
	return c.cache.Del(c.calcCacheKey(path))
}

// @see interf.Cache
//
// Clear removes all content.
func (c *_Cache) Clear() {
	c.cache.Clear()
}

// @see interf.Cache
//
// Len returns the number of cached paths.
func (c *_Cache) Len() int64 {
	return c.cache.EntryCount()
}

// @see interf.Cache
//
// Pool returns a buffer pool. Buffers are reused and the allocation is reduced.
func (c *_Cache) Pool() *bpool.BufferPool {
	return c.pool
}

// @see interf.Cache
//
// Size returns the max. capacity of this cache in bytes.
func (c *_Cache) Size() int64 {
	return c.size
}

//-----  HELPER  -----------------------------------------------------------------------------------------------------//

// calcCacheKey converts a path into a byte key for freeCache.
func (c *_Cache) calcCacheKey(path string) []byte {
	return []byte(interf.ResolvePath(path))
}
