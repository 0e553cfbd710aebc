package interf

import (
	"errors"
	"fmt"
	"os"
)

// ErrFileNotFound is returned by Read if no entry exists at the requested path.
// It wraps os.ErrNotExist, so errors.Is(err, os.ErrNotExist) is also true.
var ErrFileNotFound = fmt.Errorf("file not found: %w", os.ErrNotExist)

// ErrIsDirectory is returned if file content is written to a directory entry.
var ErrIsDirectory = errors.New("is a directory")

// ErrNotDirectory is returned if a path needs a directory where a file is stored
// (a parent of a new entry, or the target of MakeDirectory).
var ErrNotDirectory = errors.New("not a directory")

// ErrInvalidPath is returned if a path can't hold the requested entry (like a file at RootPath).
var ErrInvalidPath = errors.New("invalid path")

// PathError records the operation and the path that caused an error.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError returns a *PathError.
func NewPathError(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}
