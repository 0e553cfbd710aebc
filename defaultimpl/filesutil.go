package impl

import (
	"os"
	"sort"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
)

// FileByPath returns the file with the requested path.
// If no file is found, the os.ErrNotExist error is returned.
// The data source is the specified list of files (attribute files).
func FileByPath(files []interf.StorageFile, path string) (interf.StorageFile, error) {
	path = interf.ResolvePath(path)
	for _, f := range files {
		if f.Path == path {
			return f, nil
		}
	}
	return interf.StorageFile{}, os.ErrNotExist
}

// Children returns the direct children of dir (files whose parent is dir).
// The data source is the specified list of files (attribute files).
func Children(files []interf.StorageFile, dir string) []interf.StorageFile {
	dir = interf.ResolvePath(dir)
	return FilterFiles(files, func(f interf.StorageFile) bool {
		return f.Path != dir && f.Directory() == dir
	})
}

// Descendants returns every file below dir at any depth. dir itself is not part of the result.
// The data source is the specified list of files (attribute files).
func Descendants(files []interf.StorageFile, dir string) []interf.StorageFile {
	dir = interf.ResolvePath(dir)
	return FilterFiles(files, func(f interf.StorageFile) bool {
		return f.Path != dir && f.InDirectory(dir)
	})
}

// OnlyDirectories returns the directories of the list.
func OnlyDirectories(files []interf.StorageFile) []interf.StorageFile {
	return FilterFiles(files, interf.StorageFile.IsDirectory)
}

// OnlyFiles returns the regular files of the list.
func OnlyFiles(files []interf.StorageFile) []interf.StorageFile {
	return FilterFiles(files, interf.StorageFile.IsFile)
}

// FilterFiles returns a new list with all files where keep is true.
// The result is never nil.
func FilterFiles(files []interf.StorageFile, keep func(interf.StorageFile) bool) []interf.StorageFile {
	ret := make([]interf.StorageFile, 0, len(files))
	for _, f := range files {
		if keep(f) {
			ret = append(ret, f)
		}
	}
	return ret
}

// SortFiles sorts the list by path (in place) and returns it.
func SortFiles(files []interf.StorageFile) []interf.StorageFile {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// TotalSize returns the sum of all file sizes.
func TotalSize(files []interf.StorageFile) int64 {
	var sum int64
	for _, f := range files {
		sum += f.Size
	}
	return sum
}
