package interf

// PathSeparator separates the segments of a storage path.
// Storage paths always use this separator, independent of the operating system.
const PathSeparator = "/"

// RootPath is the canonical root of every adapter. The root itself is never stored as an entry.
const RootPath = "/"

// DefaultURL is the base of public locators when an adapter is configured without one.
const DefaultURL = "/"

// CacheExpireSeconds is the default value n. The cache stores content for max. n seconds.
const CacheExpireSeconds = 2 * 24 * 60 * 60 // 2 days

// MinCacheSizeMB is the smallest content cache that can be created.
// freecache needs at least 512 KiB; smaller values are raised to this size.
const MinCacheSizeMB = 1

// MaxCacheEntrySize is the largest content (in bytes) that a cache keeps.
// freecache rejects entries larger than 1/1024 of its size, so bigger files are always read through.
const MaxCacheEntrySize = 16 * 1024 * 1024 // 16 MiB
