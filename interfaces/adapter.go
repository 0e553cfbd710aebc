package interf

import "context"

// Adapter is the central interface to access a storage backend.
// Every backend (memory, local disk, object store, ...) implements it with the same
// externally observable behavior, so callers never need to know which one is active.
//
// All paths are normalized with ResolvePath. Directories are real entries: whenever an
// operation introduces a path, every missing ancestor directory is created first.
//
// Only Read fails for a missing path (ErrFileNotFound). All other operations treat missing
// paths as an empty result or a no-op.
//
// An adapter expects one writer at a time. Bulk operations (DeleteDirectory, Copy, Move) work on
// a snapshot of the matching entries taken when they start and run to completion; the context
// is checked only before the snapshot is taken.
type Adapter interface {

	// Files returns the direct children (files and directories) of path.
	// The result is not recursive.
	Files(ctx context.Context, path string) ([]StorageFile, error)

	// AllFiles returns every entry in path at any depth (see InDirectory).
	AllFiles(ctx context.Context, path string) ([]StorageFile, error)

	// Directories is like Files, but returns only directories.
	Directories(ctx context.Context, path string) ([]StorageFile, error)

	// AllDirectories is like AllFiles, but returns only directories.
	AllDirectories(ctx context.Context, path string) ([]StorageFile, error)

	// MakeDirectory creates path and every missing ancestor as directories with the given visibility.
	// Existing directories are not changed. Calling it twice is not an error.
	MakeDirectory(ctx context.Context, path string, visibility Visibility) error

	// Write creates or replaces the file at path. Missing ancestors are created first (like MakeDirectory).
	// Size, LastModified and Visibility are updated. A failed write changes nothing.
	Write(ctx context.Context, path string, contents []byte, visibility Visibility, reporter Reporter) error

	// Read returns the full content of path.
	// If no entry exists, ErrFileNotFound is returned.
	Read(ctx context.Context, path string, reporter Reporter) ([]byte, error)

	// Exists returns true only if every path exists.
	Exists(ctx context.Context, paths ...string) (bool, error)

	// Delete removes exactly the given paths (not recursive). Missing paths are ignored.
	Delete(ctx context.Context, paths ...string) error

	// DeleteDirectory removes path and everything in it.
	// Progress is reported from 0 to the number of removed entries.
	DeleteDirectory(ctx context.Context, path string, reporter Reporter) error

	// Get returns the metadata of path. If nothing is found, ok is false and err is nil.
	Get(ctx context.Context, path string) (file StorageFile, ok bool, err error)

	// Copy duplicates source and everything in it to destination.
	// Each copy keeps type and visibility and gets a fresh LastModified.
	Copy(ctx context.Context, source, destination string, reporter Reporter) error

	// Move rewrites the path of source and everything in it to destination.
	// All metadata except the path is preserved.
	Move(ctx context.Context, source, destination string, reporter Reporter) error

	// SetVisibility changes the visibility of a single entry. A missing path is ignored.
	SetVisibility(ctx context.Context, path string, visibility Visibility) error

	// URL returns the public locator of path, resolved against the configured base URL.
	URL(ctx context.Context, path string) (string, error)

	// SupportsVisibility reports whether the backend keeps a visibility per entry.
	SupportsVisibility() bool
}

// StatAdapter is an Adapter that counts its internal processes.
type StatAdapter interface {
	Adapter

	// Stat returns the number of times internal processes have been run since initialization.
	// This method is relevant for testing and debugging purposes.
	// The KEY is the internal process, the VALUE is the count.
	Stat() map[string]uint64
}
