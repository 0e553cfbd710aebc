// Package adaptertest holds the conformance suite that every interf.Adapter must pass.
package adaptertest

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	impl "github.com/SchnorcherSepp/storagefs/defaultimpl"
	interf "github.com/SchnorcherSepp/storagefs/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run runs the conformance suite. newAdapter must return an empty adapter for every call.
func Run(t *testing.T, newAdapter func(t *testing.T) interf.Adapter) {
	ctx := context.Background()

	t.Run("WriteThenRead", func(t *testing.T) {
		a := newAdapter(t)
		r := &impl.ProgressRecorder{}

		require.NoError(t, a.Write(ctx, "/docs/readme.txt", []byte("hello"), interf.Public, r))
		data, err := a.Read(ctx, "/docs/readme.txt", r)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)

		files, err := a.Files(ctx, "/docs")
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "readme.txt", files[0].Name())
		assert.Equal(t, int64(5), files[0].Size)
		assert.True(t, files[0].IsFile())

		dirs, err := a.Directories(ctx, "/")
		require.NoError(t, err)
		require.Len(t, dirs, 1)
		assert.Equal(t, "docs", dirs[0].Name())
	})

	t.Run("ReadNonExistent", func(t *testing.T) {
		data, err := newAdapter(t).Read(ctx, "/missing.txt", nil)
		assert.ErrorIs(t, err, interf.ErrFileNotFound)
		assert.ErrorIs(t, err, os.ErrNotExist, "not found is also os.ErrNotExist")
		assert.Nil(t, data)

		var pathErr *interf.PathError
		require.True(t, errors.As(err, &pathErr))
		assert.Equal(t, "/missing.txt", pathErr.Path)
	})

	t.Run("WriteCreatesAncestors", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/a/b/c.txt", []byte("c"), interf.Private, nil))

		files, err := a.Files(ctx, "/a/b")
		require.NoError(t, err)
		assert.Equal(t, []string{"/a/b/c.txt"}, paths(files))

		dirs, err := a.Directories(ctx, "/a")
		require.NoError(t, err)
		assert.Equal(t, []string{"/a/b"}, paths(dirs))

		for _, p := range []string{"/a", "/a/b"} {
			f, ok, err := a.Get(ctx, p)
			require.NoError(t, err)
			require.True(t, ok, p)
			assert.True(t, f.IsDirectory(), p)
			assert.Equal(t, int64(0), f.Size, p)
			if a.SupportsVisibility() {
				assert.Equal(t, interf.Private, f.Visibility, "new ancestors take the visibility of the write")
			}
		}
	})

	t.Run("WriteOverwrites", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/f.txt", []byte("first"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/f.txt", []byte("2nd"), interf.Private, nil))

		all, err := a.AllFiles(ctx, "/")
		require.NoError(t, err)
		assert.Len(t, all, 1, "one entry per path")

		f, ok, err := a.Get(ctx, "/f.txt")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(3), f.Size)
		if a.SupportsVisibility() {
			assert.Equal(t, interf.Private, f.Visibility)
		}

		data, err := a.Read(ctx, "/f.txt", nil)
		require.NoError(t, err)
		assert.Equal(t, "2nd", string(data))
	})

	t.Run("WriteDoesNotAliasCallerBuffer", func(t *testing.T) {
		a := newAdapter(t)
		buf := []byte("abc")
		require.NoError(t, a.Write(ctx, "/f.txt", buf, interf.Public, nil))
		buf[0] = 'X'

		data, err := a.Read(ctx, "/f.txt", nil)
		require.NoError(t, err)
		assert.Equal(t, "abc", string(data))

		data[1] = 'Y'
		again, err := a.Read(ctx, "/f.txt", nil)
		require.NoError(t, err)
		assert.Equal(t, "abc", string(again), "changing read content must not change the stored content")
	})

	t.Run("WriteToDirectoryFails", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.MakeDirectory(ctx, "/dir", interf.Public))
		err := a.Write(ctx, "/dir", []byte("x"), interf.Public, nil)
		assert.ErrorIs(t, err, interf.ErrIsDirectory)

		f, ok, err := a.Get(ctx, "/dir")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, f.IsDirectory(), "failed write changes nothing")
	})

	t.Run("WriteToRootFails", func(t *testing.T) {
		err := newAdapter(t).Write(ctx, "/", []byte("x"), interf.Public, nil)
		assert.ErrorIs(t, err, interf.ErrInvalidPath)
	})

	t.Run("WriteUnderFileFails", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/d/f.txt", []byte("f"), interf.Public, nil))

		err := a.Write(ctx, "/d/f.txt/child", []byte("c"), interf.Public, nil)
		assert.ErrorIs(t, err, interf.ErrNotDirectory)
		var pathErr *interf.PathError
		require.True(t, errors.As(err, &pathErr))
		assert.Equal(t, "/d/f.txt/child", pathErr.Path)

		err = a.Write(ctx, "/d/f.txt/x/y.txt", []byte("y"), interf.Public, nil)
		assert.ErrorIs(t, err, interf.ErrNotDirectory)

		all, err := a.AllFiles(ctx, "/")
		require.NoError(t, err)
		assert.Equal(t, []string{"/d", "/d/f.txt"}, paths(all), "failed write changes nothing")
		data, err := a.Read(ctx, "/d/f.txt", nil)
		require.NoError(t, err)
		assert.Equal(t, "f", string(data))
		assertParentsAreDirectories(t, a)
	})

	t.Run("MakeDirectoryOnFileFails", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/f.txt", []byte("f"), interf.Public, nil))

		assert.ErrorIs(t, a.MakeDirectory(ctx, "/f.txt", interf.Public), interf.ErrNotDirectory)
		assert.ErrorIs(t, a.MakeDirectory(ctx, "/f.txt/sub", interf.Public), interf.ErrNotDirectory)

		f, ok, err := a.Get(ctx, "/f.txt")
		require.NoError(t, err)
		require.True(t, ok)
		assert.False(t, f.IsDirectory())
		ok, err = a.Exists(ctx, "/f.txt/sub")
		require.NoError(t, err)
		assert.False(t, ok)
		assertParentsAreDirectories(t, a)
	})

	t.Run("ReadEmptyFile", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/e", []byte{}, interf.Public, nil))

		for i := 0; i < 2; i++ {
			data, err := a.Read(ctx, "/e", nil)
			require.NoError(t, err)
			assert.NotNil(t, data, "read %d", i)
			assert.Empty(t, data, "read %d", i)
		}
	})

	t.Run("MakeDirectoryIsIdempotent", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.MakeDirectory(ctx, "/x/y/z", interf.Public))
		require.NoError(t, a.MakeDirectory(ctx, "/x/y/z", interf.Private))
		require.NoError(t, a.MakeDirectory(ctx, "/", interf.Public))

		dirs, err := a.AllDirectories(ctx, "/")
		require.NoError(t, err)
		assert.Equal(t, []string{"/x", "/x/y", "/x/y/z"}, paths(dirs))

		if a.SupportsVisibility() {
			f, _, err := a.Get(ctx, "/x/y/z")
			require.NoError(t, err)
			assert.Equal(t, interf.Public, f.Visibility, "existing directories are not changed")
		}
	})

	t.Run("PathsAreNormalized", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "docs//a/./b.txt", []byte("b"), interf.Public, nil))

		ok, err := a.Exists(ctx, "/docs/a/b.txt", "/docs/a/", "docs")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ExistsIsAllOrNothing", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/p1", []byte("1"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/p2", []byte("2"), interf.Public, nil))

		ok, err := a.Exists(ctx, "/p1", "/p2")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = a.Exists(ctx, "/p1", "/p3")
		require.NoError(t, err)
		assert.False(t, ok, "partial match is failure")

		require.NoError(t, a.Delete(ctx, "/p2"))
		ok, err = a.Exists(ctx, "/p1", "/p2")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = a.Exists(ctx, "/p1", "/p1")
		require.NoError(t, err)
		assert.True(t, ok, "duplicates don't matter")
	})

	t.Run("DeleteIsExactAndIgnoresMissing", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/d/f.txt", []byte("f"), interf.Public, nil))

		require.NoError(t, a.Delete(ctx, "/d", "/missing"))

		ok, err := a.Exists(ctx, "/d")
		require.NoError(t, err)
		assert.False(t, ok)
		ok, err = a.Exists(ctx, "/d/f.txt")
		require.NoError(t, err)
		assert.True(t, ok, "delete is not recursive")
	})

	t.Run("DeleteDirectoryReportsProgress", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/d/1.txt", []byte("1"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/d/sub/2.txt", []byte("2"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/dd/3.txt", []byte("3"), interf.Public, nil))

		r := &impl.ProgressRecorder{}
		require.NoError(t, a.DeleteDirectory(ctx, "/d", r))

		// /d, /d/1.txt, /d/sub, /d/sub/2.txt
		assert.Equal(t, []int{0, 1, 2, 3, 4}, r.Currents())
		for _, s := range r.Steps() {
			assert.Equal(t, 4, s[1])
		}

		all, err := a.AllFiles(ctx, "/")
		require.NoError(t, err)
		assert.Equal(t, []string{"/dd", "/dd/3.txt"}, paths(all), "sibling with the same prefix survives")
	})

	t.Run("DeleteDirectoryMissing", func(t *testing.T) {
		r := &impl.ProgressRecorder{}
		require.NoError(t, newAdapter(t).DeleteDirectory(ctx, "/missing", r))
		assert.Equal(t, [][2]int{{0, 0}}, r.Steps())
	})

	t.Run("GetMissing", func(t *testing.T) {
		f, ok, err := newAdapter(t).Get(ctx, "/missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, interf.StorageFile{}, f)
	})

	t.Run("ListingIsRecursiveOnlyForAll", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/r/1.txt", []byte("1"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/r/s/2.txt", []byte("2"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/rr.txt", []byte("3"), interf.Public, nil))

		files, err := a.Files(ctx, "/r")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"/r/1.txt", "/r/s"}, paths(files))

		all, err := a.AllFiles(ctx, "/r")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"/r/1.txt", "/r/s", "/r/s/2.txt"}, paths(all))

		dirs, err := a.AllDirectories(ctx, "/")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"/r", "/r/s"}, paths(dirs))

		empty, err := a.Files(ctx, "/nothing")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("CopyIsBoundaryAware", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/a/x.txt", []byte("x"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/ab/y.txt", []byte("y"), interf.Public, nil))

		r := &impl.ProgressRecorder{}
		require.NoError(t, a.Copy(ctx, "/a", "/z", r))
		assert.Equal(t, []int{0, 1, 2}, r.Currents(), "/a and /a/x.txt")

		all, err := a.AllFiles(ctx, "/z")
		require.NoError(t, err)
		assert.Equal(t, []string{"/z/x.txt"}, paths(all))

		ok, err := a.Exists(ctx, "/a/x.txt", "/ab/y.txt", "/z", "/z/x.txt")
		require.NoError(t, err)
		assert.True(t, ok, "copy keeps the source")
	})

	t.Run("CopyDoesNotAlias", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/s/f.txt", []byte("source"), interf.Private, nil))
		require.NoError(t, a.Copy(ctx, "/s", "/d", nil))

		f, ok, err := a.Get(ctx, "/d/f.txt")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(6), f.Size)
		if a.SupportsVisibility() {
			assert.Equal(t, interf.Private, f.Visibility, "copy shares the visibility")
		}

		require.NoError(t, a.Write(ctx, "/d/f.txt", []byte("changed"), interf.Private, nil))
		data, err := a.Read(ctx, "/s/f.txt", nil)
		require.NoError(t, err)
		assert.Equal(t, "source", string(data))
	})

	t.Run("CopySingleFile", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/f.txt", []byte("f"), interf.Public, nil))
		require.NoError(t, a.Copy(ctx, "/f.txt", "/deep/g.txt", nil))

		data, err := a.Read(ctx, "/deep/g.txt", nil)
		require.NoError(t, err)
		assert.Equal(t, "f", string(data))

		f, ok, err := a.Get(ctx, "/deep")
		require.NoError(t, err)
		require.True(t, ok, "destination ancestors are materialized")
		assert.True(t, f.IsDirectory())
	})

	t.Run("CopyFileOntoDirectoryFails", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/d/y.txt", []byte("y"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/x.txt", []byte("x"), interf.Public, nil))

		r := &impl.ProgressRecorder{}
		assert.ErrorIs(t, a.Copy(ctx, "/x.txt", "/d", r), interf.ErrIsDirectory)
		assert.Empty(t, r.Currents(), "nothing is copied")

		f, ok, err := a.Get(ctx, "/d")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, f.IsDirectory())
		ok, err = a.Exists(ctx, "/d/y.txt", "/x.txt")
		require.NoError(t, err)
		assert.True(t, ok)
		assertParentsAreDirectories(t, a)
	})

	t.Run("CopyDirectoryOntoFileFails", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/s/a.txt", []byte("a"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/t", []byte("t"), interf.Public, nil))

		assert.ErrorIs(t, a.Copy(ctx, "/s", "/t", nil), interf.ErrNotDirectory)
		assert.ErrorIs(t, a.Copy(ctx, "/s", "/t/sub", nil), interf.ErrNotDirectory)
		assert.ErrorIs(t, a.Copy(ctx, "/s/a.txt", "/t/a.txt", nil), interf.ErrNotDirectory)

		all, err := a.AllFiles(ctx, "/")
		require.NoError(t, err)
		assert.Equal(t, []string{"/s", "/s/a.txt", "/t"}, paths(all))
		data, err := a.Read(ctx, "/t", nil)
		require.NoError(t, err)
		assert.Equal(t, "t", string(data))
		assertParentsAreDirectories(t, a)
	})

	t.Run("MoveOntoOtherTypeFails", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/d/y.txt", []byte("y"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/x.txt", []byte("x"), interf.Public, nil))

		assert.ErrorIs(t, a.Move(ctx, "/x.txt", "/d", nil), interf.ErrIsDirectory)
		assert.ErrorIs(t, a.Move(ctx, "/d", "/x.txt", nil), interf.ErrNotDirectory)
		assert.ErrorIs(t, a.Move(ctx, "/d", "/x.txt/d", nil), interf.ErrNotDirectory)

		all, err := a.AllFiles(ctx, "/")
		require.NoError(t, err)
		assert.Equal(t, []string{"/d", "/d/y.txt", "/x.txt"}, paths(all), "failed move changes nothing")
		assertParentsAreDirectories(t, a)
	})

	t.Run("MovePreservesMetadata", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/m/f.txt", []byte("12345"), interf.Private, nil))
		before, ok, err := a.Get(ctx, "/m/f.txt")
		require.NoError(t, err)
		require.True(t, ok)

		r := &impl.ProgressRecorder{}
		require.NoError(t, a.Move(ctx, "/m", "/n", r))
		assert.Equal(t, []int{0, 1, 2}, r.Currents())

		after, ok, err := a.Get(ctx, "/n/f.txt")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, before.Size, after.Size)
		assert.Equal(t, before.Visibility, after.Visibility)
		assert.True(t, before.LastModified.Equal(after.LastModified), "move is not a write")
		assert.Equal(t, "/n", after.Directory())

		ok, err = a.Exists(ctx, "/m")
		require.NoError(t, err)
		assert.False(t, ok)
		ok, err = a.Exists(ctx, "/m/f.txt")
		require.NoError(t, err)
		assert.False(t, ok)

		data, err := a.Read(ctx, "/n/f.txt", nil)
		require.NoError(t, err)
		assert.Equal(t, "12345", string(data))
	})

	t.Run("MoveIsBoundaryAware", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/a/x.txt", []byte("x"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/ab/y.txt", []byte("y"), interf.Public, nil))
		require.NoError(t, a.Move(ctx, "/a", "/z", nil))

		all, err := a.AllFiles(ctx, "/")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"/ab", "/ab/y.txt", "/z", "/z/x.txt"}, paths(all))
	})

	t.Run("MoveIntoOwnSubtree", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/a/b", []byte("b"), interf.Public, nil))
		require.NoError(t, a.Move(ctx, "/a", "/a/sub", nil))

		all, err := a.AllFiles(ctx, "/")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"/a", "/a/sub", "/a/sub/b"}, paths(all))
	})

	t.Run("SetVisibility", func(t *testing.T) {
		a := newAdapter(t)
		if !a.SupportsVisibility() {
			t.Skip("backend without visibility")
		}
		require.NoError(t, a.Write(ctx, "/v.txt", []byte("v"), interf.Public, nil))
		before, _, err := a.Get(ctx, "/v.txt")
		require.NoError(t, err)

		require.NoError(t, a.SetVisibility(ctx, "/v.txt", interf.Private))
		require.NoError(t, a.SetVisibility(ctx, "/missing", interf.Private))

		after, _, err := a.Get(ctx, "/v.txt")
		require.NoError(t, err)
		assert.Equal(t, interf.Private, after.Visibility)
		assert.True(t, before.LastModified.Equal(after.LastModified))
	})

	t.Run("WriteUpdatesLastModified", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Write(ctx, "/t.txt", []byte("1"), interf.Public, nil))
		first, _, err := a.Get(ctx, "/t.txt")
		require.NoError(t, err)
		assert.False(t, first.LastModified.IsZero())

		time.Sleep(2 * time.Millisecond)
		require.NoError(t, a.Write(ctx, "/t.txt", []byte("2"), interf.Public, nil))
		second, _, err := a.Get(ctx, "/t.txt")
		require.NoError(t, err)
		assert.True(t, second.LastModified.After(first.LastModified))
	})

	t.Run("CanceledContext", func(t *testing.T) {
		a := newAdapter(t)
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		assert.ErrorIs(t, a.Write(canceled, "/c.txt", []byte("c"), interf.Public, nil), context.Canceled)
		ok, err := a.Exists(ctx, "/c.txt")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

// assertParentsAreDirectories checks that every parent of every stored entry is a stored directory.
func assertParentsAreDirectories(t *testing.T, a interf.Adapter) {
	t.Helper()
	ctx := context.Background()

	all, err := a.AllFiles(ctx, interf.RootPath)
	require.NoError(t, err)
	for _, f := range all {
		for _, dir := range interf.PathDirectories(f.Path) {
			if dir == interf.RootPath {
				continue
			}
			parent, ok, err := a.Get(ctx, dir)
			require.NoError(t, err)
			assert.True(t, ok && parent.IsDirectory(), "parent %s of %s must be a directory", dir, f.Path)
		}
	}
}

// paths returns the paths of the files.
func paths(files []interf.StorageFile) []string {
	ret := make([]string, len(files))
	for i, f := range files {
		ret[i] = f.Path
	}
	return ret
}
