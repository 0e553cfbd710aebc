package impl_test

import (
	"context"
	"testing"

	"github.com/SchnorcherSepp/storagefs/adaptertest"
	impl "github.com/SchnorcherSepp/storagefs/defaultimpl"
	interf "github.com/SchnorcherSepp/storagefs/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newCached(t *testing.T) interf.StatAdapter {
	return impl.NewCachedAdapter(newMemory(t), impl.NewCache(interf.MinCacheSizeMB), zaptest.NewLogger(t))
}

func TestCachedAdapter(t *testing.T) {
	adaptertest.Run(t, func(t *testing.T) interf.Adapter {
		return newCached(t)
	})
}

func TestCachedAdapter_Stat(t *testing.T) {
	ctx := context.Background()
	a := newCached(t)
	assert.Empty(t, a.Stat())

	require.NoError(t, a.Write(ctx, "/a.txt", []byte("a"), interf.Public, nil))

	// miss, set, hit
	for i := 0; i < 2; i++ {
		data, err := a.Read(ctx, "/a.txt", nil)
		require.NoError(t, err)
		assert.Equal(t, "a", string(data))
	}
	assert.Equal(t, map[string]uint64{"CacheMis": 1, "CacheSet": 1, "CacheHit": 1}, a.Stat())

	// a write invalidates the cached content
	require.NoError(t, a.Write(ctx, "/a.txt", []byte("b"), interf.Public, nil))
	data, err := a.Read(ctx, "/a.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
	assert.Equal(t, map[string]uint64{"CacheMis": 2, "CacheSet": 2, "CacheHit": 1, "CacheDel": 1}, a.Stat())
}

func TestCachedAdapter_HitReportsProgress(t *testing.T) {
	ctx := context.Background()
	a := newCached(t)
	require.NoError(t, a.Write(ctx, "/a.txt", []byte("abc"), interf.Public, nil))
	_, err := a.Read(ctx, "/a.txt", nil)
	require.NoError(t, err)

	r := &impl.ProgressRecorder{}
	_, err = a.Read(ctx, "/a.txt", r)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 3}, {3, 3}}, r.Steps())
	assert.Equal(t, uint64(1), a.Stat()["CacheHit"])
}

func TestCachedAdapter_SkipLargeContent(t *testing.T) {
	ctx := context.Background()
	a := newCached(t)
	require.NoError(t, a.Write(ctx, "/large", make([]byte, 8*1024), interf.Public, nil))

	for i := 0; i < 2; i++ {
		data, err := a.Read(ctx, "/large", nil)
		require.NoError(t, err)
		assert.Len(t, data, 8*1024)
	}
	assert.Equal(t, map[string]uint64{"CacheMis": 2, "CacheSkip": 2}, a.Stat())
}

func TestCachedAdapter_Invalidation(t *testing.T) {
	ctx := context.Background()

	read := func(a interf.Adapter, p string) string {
		data, err := a.Read(ctx, p, nil)
		require.NoError(t, err, p)
		return string(data)
	}
	missing := func(a interf.Adapter, p string) {
		_, err := a.Read(ctx, p, nil)
		assert.ErrorIs(t, err, interf.ErrFileNotFound, p)
	}

	t.Run("Delete", func(t *testing.T) {
		a := newCached(t)
		require.NoError(t, a.Write(ctx, "/f", []byte("f"), interf.Public, nil))
		read(a, "/f")
		require.NoError(t, a.Delete(ctx, "/f"))
		missing(a, "/f")
	})

	t.Run("DeleteDirectory", func(t *testing.T) {
		a := newCached(t)
		require.NoError(t, a.Write(ctx, "/d/s/f", []byte("f"), interf.Public, nil))
		read(a, "/d/s/f")
		require.NoError(t, a.DeleteDirectory(ctx, "/d", nil))
		missing(a, "/d/s/f")
	})

	t.Run("CopyOverwrites", func(t *testing.T) {
		a := newCached(t)
		require.NoError(t, a.Write(ctx, "/src/f", []byte("new"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/dst/f", []byte("old"), interf.Public, nil))
		assert.Equal(t, "old", read(a, "/dst/f"))
		require.NoError(t, a.Copy(ctx, "/src", "/dst", nil))
		assert.Equal(t, "new", read(a, "/dst/f"))
	})

	t.Run("Move", func(t *testing.T) {
		a := newCached(t)
		require.NoError(t, a.Write(ctx, "/m/f", []byte("moved"), interf.Public, nil))
		require.NoError(t, a.Write(ctx, "/n/f", []byte("old"), interf.Public, nil))
		read(a, "/m/f")
		read(a, "/n/f")
		require.NoError(t, a.Move(ctx, "/m", "/n", nil))
		missing(a, "/m/f")
		assert.Equal(t, "moved", read(a, "/n/f"))
	})
}

func TestCachedAdapter_EmptyContentHit(t *testing.T) {
	ctx := context.Background()
	a := newCached(t)
	require.NoError(t, a.Write(ctx, "/e", []byte{}, interf.Public, nil))

	for i := 0; i < 2; i++ {
		data, err := a.Read(ctx, "/e", nil)
		require.NoError(t, err)
		assert.NotNil(t, data)
		assert.Empty(t, data)
	}
	assert.Equal(t, uint64(1), a.Stat()["CacheHit"])
}

// afterReadAdapter calls afterRead once after the first successful Read of the wrapped adapter.
type afterReadAdapter struct {
	interf.Adapter
	afterRead func()
	done      bool
}

func (a *afterReadAdapter) Read(ctx context.Context, path string, reporter interf.Reporter) ([]byte, error) {
	data, err := a.Adapter.Read(ctx, path, reporter)
	if err == nil && !a.done {
		a.done = true
		a.afterRead()
	}
	return data, err
}

func TestCachedAdapter_WriteDuringReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := &afterReadAdapter{Adapter: newMemory(t)}
	a := impl.NewCachedAdapter(inner, impl.NewCache(interf.MinCacheSizeMB), zaptest.NewLogger(t))
	require.NoError(t, a.Write(ctx, "/f", []byte("old"), interf.Public, nil))

	// the write lands between the inner read and the cache set
	inner.afterRead = func() {
		require.NoError(t, a.Write(ctx, "/f", []byte("new"), interf.Public, nil))
	}

	data, err := a.Read(ctx, "/f", nil)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assert.Equal(t, uint64(1), a.Stat()["CacheSkip"], "stale content is not cached")

	data, err = a.Read(ctx, "/f", nil)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.Equal(t, uint64(1), a.Stat()["CacheSet"])
}
