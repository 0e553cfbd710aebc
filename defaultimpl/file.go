package impl

import (
	"time"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
)

// _Entry is one stored entry of the memory adapter: the metadata and the content.
// Content and metadata are kept apart so the metadata can be handed out as a copy
// while the content stays private.
type _Entry struct {
	file     interf.StorageFile
	contents []byte // nil for directories
}

// newFileEntry returns a file entry that owns a copy of contents.
func newFileEntry(path string, contents []byte, visibility interf.Visibility, modTime time.Time) *_Entry {
	f := interf.NewStorageFile(path)
	f.Visibility = visibility
	f.Size = int64(len(contents))
	f.LastModified = modTime
	return &_Entry{
		file:     f,
		contents: cloneBytes(contents),
	}
}

// newDirEntry returns a directory entry without content.
func newDirEntry(path string, visibility interf.Visibility, modTime time.Time) *_Entry {
	f := interf.NewStorageDirectory(path, visibility)
	f.LastModified = modTime
	return &_Entry{file: f}
}

// probe returns a key-only entry for btree lookups.
func probe(path string) *_Entry {
	return &_Entry{file: interf.StorageFile{Path: path}}
}

// entryLess orders entries by path.
func entryLess(a, b *_Entry) bool {
	return a.file.Path < b.file.Path
}

// cloneBytes returns a copy that never shares memory with b. The copy is never nil.
func cloneBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
