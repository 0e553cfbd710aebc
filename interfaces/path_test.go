package interf_test

import (
	"sync"
	"testing"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		segments []string
		want     string
	}{
		{nil, "/"},
		{[]string{""}, "/"},
		{[]string{"/"}, "/"},
		{[]string{"//"}, "/"},
		{[]string{"docs"}, "/docs"},
		{[]string{"/docs/"}, "/docs"},
		{[]string{"docs/", "//a", "b.txt"}, "/docs/a/b.txt"},
		{[]string{"/a/./b/../c"}, "/a/c"},
		{[]string{"/../.."}, "/"},
		{[]string{"a", "", "b"}, "/a/b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, interf.ResolvePath(tt.segments...), "%q", tt.segments)
	}
}

func TestResolvePath_Idempotent(t *testing.T) {
	for _, p := range []string{"", "/", "a//b/", "./x/../y", "/docs/readme.txt"} {
		once := interf.ResolvePath(p)
		assert.Equal(t, once, interf.ResolvePath(once), p)
	}
}

func TestPathDirectory(t *testing.T) {
	assert.Equal(t, "/docs/a", interf.PathDirectory("/docs/a/b.txt"))
	assert.Equal(t, "/", interf.PathDirectory("/docs"))
	assert.Equal(t, "/", interf.PathDirectory("/"))
	assert.Equal(t, "/docs", interf.PathDirectory("docs//readme.txt/"))
}

func TestPathDirectories(t *testing.T) {
	assert.Equal(t, []string{"/docs", "/docs/a"}, interf.PathDirectories("/docs/a/b.txt"))
	assert.Equal(t, []string{"/a", "/a/b"}, interf.PathDirectories("a/b/c"))
	assert.Empty(t, interf.PathDirectories("/file.txt"))
	assert.Empty(t, interf.PathDirectories("/"))
}

func TestPathName(t *testing.T) {
	assert.Equal(t, "b.txt", interf.PathName("/docs/a/b.txt"))
	assert.Equal(t, "docs", interf.PathName("docs/"))
	assert.Equal(t, "", interf.PathName("/"))
}

func TestInDirectory(t *testing.T) {
	tests := []struct {
		p, dir string
		want   bool
	}{
		{"/a/x.txt", "/a", true},
		{"/a", "/a", true},
		{"/a/b/c", "/a", true},
		{"/ab/y.txt", "/a", false},
		{"/ab", "/a", false},
		{"/a", "/a/b", false},
		{"/anything", "/", true},
		{"/", "/", true},
		{"a/x.txt", "a/", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, interf.InDirectory(tt.p, tt.dir), "%s in %s", tt.p, tt.dir)
	}
}

func TestRebasePath(t *testing.T) {
	assert.Equal(t, "/z/b/c.txt", interf.RebasePath("/a/b/c.txt", "/a", "/z"))
	assert.Equal(t, "/z", interf.RebasePath("/a", "/a", "/z"))
	assert.Equal(t, "/z/a/b", interf.RebasePath("/a/b", "/", "/z"))
	assert.Equal(t, "/b", interf.RebasePath("/a/b", "/a", "/"))
	assert.Equal(t, "/ab/y", interf.RebasePath("/ab/y", "/a", "/z"), "not in dir")
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/files/docs/a.txt", interf.JoinURL("https://cdn.example.com/files/", "/docs/a.txt"))
	assert.Equal(t, "memory://bucket/x", interf.JoinURL("memory://bucket", "x"))
	assert.Equal(t, "file:///data/x", interf.JoinURL("file:///data", "x"))
	assert.Equal(t, "/docs/a.txt", interf.JoinURL("/", "/docs/a.txt"))
	assert.Equal(t, "/base/docs", interf.JoinURL("base", "docs"))
}

//--------------------------------------------------------------------------------------------------------------------//

func TestRace_Path(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(5)
	for n := 0; n < 5; n++ {
		go func() {
			//------------------------------
			for i := 0; i < 1000; i++ {
				if !interf.InDirectory(interf.ResolvePath("a", "b", "c"), "/a/b") {
					t.Fail()
				}
			}
			//------------------------------
			wg.Done()
		}()
	}
	wg.Wait()
}
