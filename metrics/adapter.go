package metrics

import (
	"context"
	"time"

	impl "github.com/SchnorcherSepp/storagefs/defaultimpl"
	interf "github.com/SchnorcherSepp/storagefs/interfaces"
)

// interface check: interf.Adapter
var _ interf.Adapter = (*instrumented)(nil)

// instrumented records metrics for every operation of the wrapped adapter.
type instrumented struct {
	inner   interf.Adapter
	backend string
}

// Instrument wraps the adapter. backend is the value of the "backend" label (like "memory").
func Instrument(inner interf.Adapter, backend string) interf.Adapter {
	return &instrumented{inner: inner, backend: backend}
}

func (a *instrumented) Files(ctx context.Context, path string) (list []interf.StorageFile, err error) {
	defer a.track("files", time.Now(), &err)
	return a.inner.Files(ctx, path)
}

func (a *instrumented) AllFiles(ctx context.Context, path string) (list []interf.StorageFile, err error) {
	defer a.track("all_files", time.Now(), &err)
	return a.inner.AllFiles(ctx, path)
}

func (a *instrumented) Directories(ctx context.Context, path string) (list []interf.StorageFile, err error) {
	defer a.track("directories", time.Now(), &err)
	return a.inner.Directories(ctx, path)
}

func (a *instrumented) AllDirectories(ctx context.Context, path string) (list []interf.StorageFile, err error) {
	defer a.track("all_directories", time.Now(), &err)
	return a.inner.AllDirectories(ctx, path)
}

func (a *instrumented) MakeDirectory(ctx context.Context, path string, visibility interf.Visibility) (err error) {
	defer a.track("make_directory", time.Now(), &err)
	return a.inner.MakeDirectory(ctx, path, visibility)
}

func (a *instrumented) Write(ctx context.Context, path string, contents []byte, visibility interf.Visibility, reporter interf.Reporter) (err error) {
	defer a.track("write", time.Now(), &err)
	err = a.inner.Write(ctx, path, contents, visibility, a.reporter("write", reporter))
	if err == nil {
		RecordWrite(a.backend, len(contents))
	}
	return err
}

func (a *instrumented) Read(ctx context.Context, path string, reporter interf.Reporter) (data []byte, err error) {
	defer a.track("read", time.Now(), &err)
	data, err = a.inner.Read(ctx, path, a.reporter("read", reporter))
	if err == nil {
		RecordRead(a.backend, len(data))
	}
	return data, err
}

func (a *instrumented) Exists(ctx context.Context, paths ...string) (ok bool, err error) {
	defer a.track("exists", time.Now(), &err)
	return a.inner.Exists(ctx, paths...)
}

func (a *instrumented) Delete(ctx context.Context, paths ...string) (err error) {
	defer a.track("delete", time.Now(), &err)
	return a.inner.Delete(ctx, paths...)
}

func (a *instrumented) DeleteDirectory(ctx context.Context, path string, reporter interf.Reporter) (err error) {
	defer a.track("delete_directory", time.Now(), &err)
	return a.inner.DeleteDirectory(ctx, path, a.reporter("delete_directory", reporter))
}

func (a *instrumented) Get(ctx context.Context, path string) (f interf.StorageFile, ok bool, err error) {
	defer a.track("get", time.Now(), &err)
	return a.inner.Get(ctx, path)
}

func (a *instrumented) Copy(ctx context.Context, source, destination string, reporter interf.Reporter) (err error) {
	defer a.track("copy", time.Now(), &err)
	return a.inner.Copy(ctx, source, destination, a.reporter("copy", reporter))
}

func (a *instrumented) Move(ctx context.Context, source, destination string, reporter interf.Reporter) (err error) {
	defer a.track("move", time.Now(), &err)
	return a.inner.Move(ctx, source, destination, a.reporter("move", reporter))
}

func (a *instrumented) SetVisibility(ctx context.Context, path string, visibility interf.Visibility) (err error) {
	defer a.track("set_visibility", time.Now(), &err)
	return a.inner.SetVisibility(ctx, path, visibility)
}

func (a *instrumented) URL(ctx context.Context, path string) (url string, err error) {
	defer a.track("url", time.Now(), &err)
	return a.inner.URL(ctx, path)
}

func (a *instrumented) SupportsVisibility() bool {
	return a.inner.SupportsVisibility()
}

// track records the operation. errp points to the named error result.
func (a *instrumented) track(op string, start time.Time, errp *error) {
	RecordOperation(a.backend, op, time.Since(start), *errp)
}

// reporter counts the progress reports of op and forwards them to r (r can be nil).
func (a *instrumented) reporter(op string, r interf.Reporter) interf.Reporter {
	return impl.ReporterFunc(func(current, total int) {
		RecordProgress(a.backend, op)
		if r != nil {
			r.Progress(current, total)
		}
	})
}
