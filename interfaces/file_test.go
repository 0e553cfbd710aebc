package interf_test

import (
	"errors"
	"os"
	"testing"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageFile(t *testing.T) {
	f := interf.NewStorageFile("docs//guide/chapter-1.txt")

	assert.Equal(t, "/docs/guide/chapter-1.txt", f.Path)
	assert.Equal(t, "chapter-1.txt", f.Name())
	assert.Equal(t, "/docs/guide", f.Directory())
	assert.Equal(t, "txt", f.Extension())
	assert.True(t, f.IsFile())
	assert.False(t, f.IsDirectory())
	assert.Equal(t, interf.Public, f.Visibility)
	assert.True(t, f.InDirectory("/docs"))
	assert.False(t, f.InDirectory("/doc"))
}

func TestNewStorageDirectory(t *testing.T) {
	d := interf.NewStorageDirectory("/private/", interf.Private)

	assert.Equal(t, "/private", d.Path)
	assert.Equal(t, "/", d.Directory())
	assert.True(t, d.IsDirectory())
	assert.Equal(t, interf.Private, d.Visibility)
	assert.Equal(t, int64(0), d.Size)
	assert.Equal(t, "directory(/private, private, 0 bytes)", d.String())
}

func TestStorageFile_Extension(t *testing.T) {
	assert.Equal(t, "gz", interf.NewStorageFile("/a.tar.gz").Extension())
	assert.Equal(t, "", interf.NewStorageFile("/.hidden").Extension())
	assert.Equal(t, "", interf.NewStorageFile("/Makefile").Extension())
}

func TestStorageFile_IsValue(t *testing.T) {
	a := interf.NewStorageFile("/a")
	b := a
	b.Path = "/b"
	assert.Equal(t, "/a", a.Path)
}

func TestParseVisibility(t *testing.T) {
	v, err := interf.ParseVisibility("Private ")
	require.NoError(t, err)
	assert.Equal(t, interf.Private, v)

	v, err = interf.ParseVisibility("public")
	require.NoError(t, err)
	assert.Equal(t, interf.Public, v)

	_, err = interf.ParseVisibility("hidden")
	assert.Error(t, err)
}

func TestStringer(t *testing.T) {
	assert.Equal(t, "file", interf.File.String())
	assert.Equal(t, "directory", interf.Directory.String())
	assert.Equal(t, "FileType(7)", interf.FileType(7).String())
	assert.Equal(t, "public", interf.Public.String())
	assert.Equal(t, "Visibility(9)", interf.Visibility(9).String())
}

func TestPathError(t *testing.T) {
	err := interf.NewPathError("read", "/x", interf.ErrFileNotFound)

	assert.Equal(t, "read /x: file not found: file does not exist", err.Error())
	assert.ErrorIs(t, err, interf.ErrFileNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var pathErr *interf.PathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, "read", pathErr.Op)
}
