package interf

import (
	"path"
	"strings"
)

// ResolvePath joins the segments and returns one canonical absolute path.
// Repeated separators, "." and ".." are collapsed, a leading separator is enforced
// and a trailing separator is removed. No segments (or only empty ones) resolve to RootPath.
//
// Example: ResolvePath("docs/", "//a", "b.txt") -> /docs/a/b.txt
func ResolvePath(segments ...string) string {
	// path.Join ignores empty segments and cleans the result
	joined := path.Join(segments...)
	return path.Clean(PathSeparator + joined)
}

// PathDirectory returns the immediate parent of p. The parent of RootPath is RootPath.
//
// Example: /docs/a/b.txt -> /docs/a
func PathDirectory(p string) string {
	return path.Dir(ResolvePath(p))
}

// PathDirectories returns the ancestor chain of p, root-first.
// RootPath and p itself are not part of the result.
//
// Example: /docs/a/b.txt -> [/docs, /docs/a]
func PathDirectories(p string) []string {
	p = ResolvePath(p)
	if p == RootPath {
		return nil
	}

	segments := strings.Split(p[1:], PathSeparator)
	dirs := make([]string, 0, len(segments)-1)
	current := ""
	for _, seg := range segments[:len(segments)-1] {
		current += PathSeparator + seg
		dirs = append(dirs, current)
	}
	return dirs
}

// PathName returns the last segment of p. The name of RootPath is empty.
func PathName(p string) string {
	p = ResolvePath(p)
	if p == RootPath {
		return ""
	}
	return path.Base(p)
}

// InDirectory reports whether p is dir itself or a descendant of dir.
// The match respects segment boundaries: /ab/file is NOT in /a.
// Both arguments are normalized first.
func InDirectory(p, dir string) bool {
	p = ResolvePath(p)
	dir = ResolvePath(dir)

	if dir == RootPath || p == dir {
		return true
	}
	return strings.HasPrefix(p, dir+PathSeparator)
}

// RebasePath replaces the leading dir of p with newDir.
// p must be in dir (see InDirectory), otherwise p is returned unchanged.
//
// Example: RebasePath(/a/b/c.txt, /a, /z) -> /z/b/c.txt
func RebasePath(p, dir, newDir string) string {
	p = ResolvePath(p)
	dir = ResolvePath(dir)
	if !InDirectory(p, dir) {
		return p
	}
	if dir == RootPath {
		return ResolvePath(newDir, p)
	}
	return ResolvePath(newDir, strings.TrimPrefix(p, dir))
}

// JoinURL joins a public base with storage paths. A scheme in base (https://, memory://, ...)
// is kept as it is; only the part after the scheme is cleaned.
//
// Example: JoinURL("https://cdn.example.com/files/", "/docs/a.txt") -> https://cdn.example.com/files/docs/a.txt
func JoinURL(base string, paths ...string) string {
	var scheme string
	if i := strings.Index(base, "://"); i != -1 {
		scheme, base = base[:i+3], base[i+3:]
	}

	if scheme == "" {
		return ResolvePath(append([]string{base}, paths...)...)
	}

	joined := path.Join(append([]string{base}, paths...)...)
	return scheme + joined
}
