package metrics

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

func TestInstrument(t *testing.T) {
	adaptertest.Run(t, func(t *testing.T) interf.Adapter {
		return Instrument(impl.NewMemoryAdapter(impl.MemoryOptions{Logger: zaptest.NewLogger(t)}), "test_conformance")
	})
}

func TestInstrument_Records(t *testing.T) {
	ctx := context.Background()
	backend := "test_instrument_records"
	a := Instrument(impl.NewMemoryAdapter(impl.MemoryOptions{Logger: zaptest.NewLogger(t)}), backend)

	r := &impl.ProgressRecorder{}
	require.NoError(t, a.Write(ctx, "/a.txt", []byte("hello"), interf.Public, r))
	_, err := a.Read(ctx, "/a.txt", nil)
	require.NoError(t, err)
	_, err = a.Read(ctx, "/missing", nil)
	require.Error(t, err)
	require.NoError(t, a.Copy(ctx, "/a.txt", "/b.txt", nil))

	// the caller still gets its progress
	assert.Equal(t, [][2]int{{0, 5}, {5, 5}}, r.Steps())

	assert.Equal(t, 1.0, counterValue(t, operationsTotal.WithLabelValues(backend, "write", StatusSuccess)))
	assert.Equal(t, 1.0, counterValue(t, operationsTotal.WithLabelValues(backend, "read", StatusSuccess)))
	assert.Equal(t, 1.0, counterValue(t, operationsTotal.WithLabelValues(backend, "read", StatusNotFound)))
	assert.Equal(t, 5.0, counterValue(t, bytesWritten.WithLabelValues(backend)))
	assert.Equal(t, 5.0, counterValue(t, bytesRead.WithLabelValues(backend)))
	assert.Equal(t, 2.0, counterValue(t, progressEvents.WithLabelValues(backend, "write")))
	assert.Equal(t, 2.0, counterValue(t, progressEvents.WithLabelValues(backend, "copy")), "start and one entry")
	assert.True(t, a.SupportsVisibility())
}
