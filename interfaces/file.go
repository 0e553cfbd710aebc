package interf

import (
	"fmt"
	"strings"
	"time"
)

// FileType distinguishes files from directories.
type FileType uint8

const (
	// File is a regular entry with content.
	File FileType = iota
	// Directory is an entry without content that groups other entries.
	Directory
)

// String returns "file" or "directory".
func (t FileType) String() string {
	switch t {
	case File:
		return "file"
	case Directory:
		return "directory"
	default:
		return fmt.Sprintf("FileType(%d)", uint8(t))
	}
}

// Visibility is a per-entry access hint. It is independent of the content.
type Visibility uint8

const (
	// Public entries may be exposed through URL().
	Public Visibility = iota
	// Private entries should not be exposed.
	Private
)

// String returns "public" or "private".
func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Private:
		return "private"
	default:
		return fmt.Sprintf("Visibility(%d)", uint8(v))
	}
}

// ParseVisibility converts "public" or "private" (case insensitive) into a Visibility.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return Public, nil
	case "private":
		return Private, nil
	default:
		return Public, fmt.Errorf("invalid visibility %q", s)
	}
}

// StorageFile describes one addressable entry (file or directory) of an adapter.
// It is a plain value: adapters hand out copies, so changing a StorageFile never changes the adapter.
//
// The parent directory is not stored. It is always derived from Path (see Directory()),
// so a renamed entry can't carry a stale directory.
type StorageFile struct {
	Path         string     // absolute, normalized path (see ResolvePath)
	Type         FileType   // File or Directory
	Visibility   Visibility // Public or Private
	Size         int64      // content length in bytes; 0 for directories
	LastModified time.Time  // time of the last content changing write
}

// NewStorageFile returns a file entry for the normalized path.
func NewStorageFile(path string) StorageFile {
	return StorageFile{
		Path: ResolvePath(path),
		Type: File,
	}
}

// NewStorageDirectory returns a directory entry for the normalized path.
func NewStorageDirectory(path string, visibility Visibility) StorageFile {
	return StorageFile{
		Path:       ResolvePath(path),
		Type:       Directory,
		Visibility: visibility,
	}
}

// Name is the last path segment.
// Example: /docs/readme.txt -> readme.txt
func (f StorageFile) Name() string {
	return PathName(f.Path)
}

// Directory is the normalized parent path.
// Example: /docs/readme.txt -> /docs
func (f StorageFile) Directory() string {
	return PathDirectory(f.Path)
}

// Extension returns the file extension without the dot, or an empty string.
// Example: /docs/readme.txt -> txt
func (f StorageFile) Extension() string {
	name := f.Name()
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return ""
	}
	return name[i+1:]
}

// IsFile reports whether the entry is a regular file.
func (f StorageFile) IsFile() bool {
	return f.Type == File
}

// IsDirectory reports whether the entry is a directory.
func (f StorageFile) IsDirectory() bool {
	return f.Type == Directory
}

// InDirectory reports whether the entry is dir itself or a descendant of dir (see InDirectory).
func (f StorageFile) InDirectory(dir string) bool {
	return InDirectory(f.Path, dir)
}

// String is used for logging.
func (f StorageFile) String() string {
	return fmt.Sprintf("%s(%s, %s, %d bytes)", f.Type, f.Path, f.Visibility, f.Size)
}
