package impl

import (
	"context"
	"errors"
	"io"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
	"github.com/oxtoacart/bpool"
)

// bufPool is used by WriteFrom to read the content before it is written.
var bufPool = bpool.NewBufferPool(poolSize)

// WriteFrom reads bytes from the io.Reader r and writes them as file content to path.
// The param max limits the read bytes (see io.LimitedReader). max=0 means read until EOF.
// Returns the number of written bytes.
func WriteFrom(ctx context.Context, a interf.Adapter, path string, r io.Reader, max int64, visibility interf.Visibility, reporter interf.Reporter) (int64, error) {
	if r == nil {
		return 0, errors.New("nil reader")
	}

	// limit reader
	if max > 0 {
		r = io.LimitReader(r, max)
	}

	buf := bufPool.Get()
	defer bufPool.Put(buf)

	// read all bytes
	n, err := buf.ReadFrom(r)
	if err != nil {
		return 0, err
	}

	// the adapter keeps its own copy, so the pooled buffer can be reused afterwards
	if err := a.Write(ctx, path, buf.Bytes(), visibility, reporter); err != nil {
		return 0, err
	}
	return n, nil
}
