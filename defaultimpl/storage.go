package impl

import (
	"context"
	"time"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
)

// StorageOptions configures NewStorage. The zero value uses public visibility for everything.
type StorageOptions struct {
	FileVisibility      interf.Visibility // used by Write, WriteString and WriteFrom
	DirectoryVisibility interf.Visibility // used by MakeDirectory
}

// Storage is the convenience layer above one adapter.
// It fills in default visibilities and reporters and turns metadata lookups into values.
// All paths are passed to the adapter, which normalizes them.
type Storage struct {
	adapter interf.Adapter
	opts    StorageOptions
}

// NewStorage returns a Storage that uses the adapter for all operations.
func NewStorage(adapter interf.Adapter, opts StorageOptions) *Storage {
	return &Storage{
		adapter: adapter,
		opts:    opts,
	}
}

// Adapter returns the wrapped adapter.
func (s *Storage) Adapter() interf.Adapter {
	return s.adapter
}

// Options returns the default visibilities.
func (s *Storage) Options() StorageOptions {
	return s.opts
}

// Files @see interf.Adapter.
func (s *Storage) Files(ctx context.Context, path string) ([]interf.StorageFile, error) {
	return s.adapter.Files(ctx, path)
}

// AllFiles @see interf.Adapter.
func (s *Storage) AllFiles(ctx context.Context, path string) ([]interf.StorageFile, error) {
	return s.adapter.AllFiles(ctx, path)
}

// Directories @see interf.Adapter.
func (s *Storage) Directories(ctx context.Context, path string) ([]interf.StorageFile, error) {
	return s.adapter.Directories(ctx, path)
}

// AllDirectories @see interf.Adapter.
func (s *Storage) AllDirectories(ctx context.Context, path string) ([]interf.StorageFile, error) {
	return s.adapter.AllDirectories(ctx, path)
}

// MakeDirectory creates the directory with the default directory visibility.
func (s *Storage) MakeDirectory(ctx context.Context, path string) error {
	return s.adapter.MakeDirectory(ctx, path, s.opts.DirectoryVisibility)
}

// Write writes contents with the default file visibility. reporter can be nil.
func (s *Storage) Write(ctx context.Context, path string, contents []byte, reporter interf.Reporter) error {
	return s.adapter.Write(ctx, path, contents, s.opts.FileVisibility, reporterOrNop(reporter))
}

// WriteString writes a string with the default file visibility.
func (s *Storage) WriteString(ctx context.Context, path, contents string) error {
	return s.Write(ctx, path, []byte(contents), nil)
}

// Read returns the content. reporter can be nil.
func (s *Storage) Read(ctx context.Context, path string, reporter interf.Reporter) ([]byte, error) {
	return s.adapter.Read(ctx, path, reporterOrNop(reporter))
}

// ReadString returns the content as string.
func (s *Storage) ReadString(ctx context.Context, path string) (string, error) {
	data, err := s.Read(ctx, path, nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Exists returns true only if every path exists.
func (s *Storage) Exists(ctx context.Context, paths ...string) (bool, error) {
	return s.adapter.Exists(ctx, paths...)
}

// Delete @see interf.Adapter.
func (s *Storage) Delete(ctx context.Context, paths ...string) error {
	return s.adapter.Delete(ctx, paths...)
}

// DeleteDirectory @see interf.Adapter. reporter can be nil.
func (s *Storage) DeleteDirectory(ctx context.Context, path string, reporter interf.Reporter) error {
	return s.adapter.DeleteDirectory(ctx, path, reporterOrNop(reporter))
}

// Get @see interf.Adapter.
func (s *Storage) Get(ctx context.Context, path string) (interf.StorageFile, bool, error) {
	return s.adapter.Get(ctx, path)
}

// Copy @see interf.Adapter. reporter can be nil.
func (s *Storage) Copy(ctx context.Context, source, destination string, reporter interf.Reporter) error {
	return s.adapter.Copy(ctx, source, destination, reporterOrNop(reporter))
}

// Move @see interf.Adapter. reporter can be nil.
func (s *Storage) Move(ctx context.Context, source, destination string, reporter interf.Reporter) error {
	return s.adapter.Move(ctx, source, destination, reporterOrNop(reporter))
}

// SetVisibility @see interf.Adapter.
func (s *Storage) SetVisibility(ctx context.Context, path string, visibility interf.Visibility) error {
	return s.adapter.SetVisibility(ctx, path, visibility)
}

// Size returns the size of path or interf.ErrFileNotFound.
func (s *Storage) Size(ctx context.Context, path string) (int64, error) {
	f, err := s.mustGet(ctx, "size", path)
	return f.Size, err
}

// LastModified returns the modification time of path or interf.ErrFileNotFound.
func (s *Storage) LastModified(ctx context.Context, path string) (time.Time, error) {
	f, err := s.mustGet(ctx, "last modified", path)
	return f.LastModified, err
}

// Visibility returns the visibility of path or interf.ErrFileNotFound.
func (s *Storage) Visibility(ctx context.Context, path string) (interf.Visibility, error) {
	f, err := s.mustGet(ctx, "visibility", path)
	return f.Visibility, err
}

// PublicURL @see interf.Adapter.URL.
func (s *Storage) PublicURL(ctx context.Context, path string) (string, error) {
	return s.adapter.URL(ctx, path)
}

//--------  Helper  --------------------------------------------------------------------------------------------------//

func (s *Storage) mustGet(ctx context.Context, op, path string) (interf.StorageFile, error) {
	f, ok, err := s.adapter.Get(ctx, path)
	if err != nil {
		return interf.StorageFile{}, err
	}
	if !ok {
		return interf.StorageFile{}, interf.NewPathError(op, interf.ResolvePath(path), interf.ErrFileNotFound)
	}
	return f, nil
}
