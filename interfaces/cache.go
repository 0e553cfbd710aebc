package interf

import "github.com/oxtoacart/bpool"

// Cache stores file content by path for a fast repeated Read().
// If possible, there should only be one common large cache (reuse the object in your program).
type Cache interface {

	// Get returns a copy of the content or a 'not found' error.
	// This method doesn't allocate memory when the capacity of buf is greater or equal to the content.
	Get(path string, buf []byte) ([]byte, error)

	// Set stores the content in the cache.
	// Old data can be deleted if the cache is full. Content larger than MaxCacheEntrySize is rejected.
	// The value expires after CacheExpireSeconds.
	Set(path string, data []byte) error

	// Del removes the content of a single path.
	// Returns true if the path was cached.
	Del(path string) bool

	// Clear removes all content.
	Clear()

	// Len returns the number of cached paths.
	Len() int64

	// Pool returns a buffer pool. Buffers are reused and the allocation is reduced.
	//
	// Example of use:
	//   buf := c.Pool().Get()
	//   defer c.Pool().Put(buf)
	Pool() *bpool.BufferPool

	// Size returns the max. capacity of this cache in bytes.
	Size() int64
}
