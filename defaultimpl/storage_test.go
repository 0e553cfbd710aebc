package impl_test

import (
	"context"
	"testing"

	impl "github.com/SchnorcherSepp/storagefs/defaultimpl"
	interf "github.com/SchnorcherSepp/storagefs/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()
	s := impl.NewStorage(newMemory(t), impl.StorageOptions{
		FileVisibility:      interf.Private,
		DirectoryVisibility: interf.Public,
	})

	require.NoError(t, s.WriteString(ctx, "/docs/readme.txt", "hello"))
	require.NoError(t, s.MakeDirectory(ctx, "/empty"))

	text, err := s.ReadString(ctx, "/docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	size, err := s.Size(ctx, "/docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	vis, err := s.Visibility(ctx, "/docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, interf.Private, vis)

	vis, err = s.Visibility(ctx, "/empty")
	require.NoError(t, err)
	assert.Equal(t, interf.Public, vis)

	mod, err := s.LastModified(ctx, "/docs/readme.txt")
	require.NoError(t, err)
	assert.False(t, mod.IsZero())

	u, err := s.PublicURL(ctx, "docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "/docs/readme.txt", u)

	ok, err := s.Exists(ctx, "/docs", "/docs/readme.txt", "/empty")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStorage_Missing(t *testing.T) {
	ctx := context.Background()
	s := impl.NewStorage(newMemory(t), impl.StorageOptions{})

	_, err := s.Size(ctx, "missing")
	assert.ErrorIs(t, err, interf.ErrFileNotFound)
	assert.EqualError(t, err, "size /missing: file not found: file does not exist")

	_, err = s.LastModified(ctx, "/missing")
	assert.ErrorIs(t, err, interf.ErrFileNotFound)

	_, err = s.Visibility(ctx, "/missing")
	assert.ErrorIs(t, err, interf.ErrFileNotFound)

	_, err = s.ReadString(ctx, "/missing")
	assert.ErrorIs(t, err, interf.ErrFileNotFound)
}

func TestStorage_Passthrough(t *testing.T) {
	ctx := context.Background()
	a := newMemory(t)
	s := impl.NewStorage(a, impl.StorageOptions{})
	assert.Same(t, a, s.Adapter())

	require.NoError(t, s.Write(ctx, "/a/1", []byte("1"), nil))
	require.NoError(t, s.Write(ctx, "/a/b/2", []byte("2"), nil))

	files, err := s.Files(ctx, "/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/1", "/a/b"}, paths(files))

	all, err := s.AllFiles(ctx, "/a")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	dirs, err := s.Directories(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a"}, paths(dirs))

	dirs, err = s.AllDirectories(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/a/b"}, paths(dirs))

	require.NoError(t, s.Copy(ctx, "/a", "/c", nil))
	require.NoError(t, s.Move(ctx, "/c", "/m", nil))
	require.NoError(t, s.SetVisibility(ctx, "/m/1", interf.Private))
	f, ok, err := s.Get(ctx, "/m/1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, interf.Private, f.Visibility)

	data, err := s.Read(ctx, "/m/b/2", nil)
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))

	require.NoError(t, s.Delete(ctx, "/m/1"))
	require.NoError(t, s.DeleteDirectory(ctx, "/a", nil))
	all, err = s.AllFiles(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, []string{"/m", "/m/b", "/m/b/2"}, paths(all))
}
