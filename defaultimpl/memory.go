package impl

import (
	"context"
	"sync"
	"time"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
	"github.com/SchnorcherSepp/storagefs/logging"
	"github.com/google/btree"
	"go.uber.org/zap"
)

// interface check: interf.Adapter
var _ interf.Adapter = (*_MemoryAdapter)(nil)

// btreeDegree is the degree of the entry index.
const btreeDegree = 32

// MemoryOptions configures NewMemoryAdapter. The zero value is valid.
type MemoryOptions struct {
	URL    string           // base of public locators (default interf.DefaultURL)
	Logger *zap.Logger      // default logging.L()
	Clock  func() time.Time // default time.Now
}

// @see interf.Adapter
//
// _MemoryAdapter keeps all entries in RAM, ordered by path.
// This implementation is the reference for the adapter semantics and is used for tests and ephemeral storage.
type _MemoryAdapter struct {
	url    string
	logger *zap.Logger
	clock  func() time.Time
	tree   *btree.BTreeG[*_Entry]
	mux    *sync.RWMutex
}

// NewMemoryAdapter return the RAM implementation of interf.Adapter.
// The data are only in RAM and are lost with the adapter.
func NewMemoryAdapter(opts MemoryOptions) interf.Adapter {
	return newMemoryAdapter(opts)
}

func newMemoryAdapter(opts MemoryOptions) *_MemoryAdapter {
	if opts.URL == "" {
		opts.URL = interf.DefaultURL
	}
	if opts.Logger == nil {
		opts.Logger = logging.L()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &_MemoryAdapter{
		url:    opts.URL,
		logger: opts.Logger.Named("memory"),
		clock:  opts.Clock,
		tree:   btree.NewG[*_Entry](btreeDegree, entryLess),
		mux:    new(sync.RWMutex),
	}
}

//-----------  IMPLEMENTATION:  @see interf.Adapter  -----------------------------------------------------------------//

func (a *_MemoryAdapter) SupportsVisibility() bool {
	return true
}

func (a *_MemoryAdapter) URL(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return interf.JoinURL(a.url, interf.ResolvePath(path)), nil
}

func (a *_MemoryAdapter) Files(ctx context.Context, path string) ([]interf.StorageFile, error) {
	return a.list(ctx, path, func(e *_Entry, dir string) bool {
		return e.file.Directory() == dir
	})
}

func (a *_MemoryAdapter) AllFiles(ctx context.Context, path string) ([]interf.StorageFile, error) {
	return a.list(ctx, path, func(e *_Entry, dir string) bool {
		return true
	})
}

func (a *_MemoryAdapter) Directories(ctx context.Context, path string) ([]interf.StorageFile, error) {
	return a.list(ctx, path, func(e *_Entry, dir string) bool {
		return e.file.IsDirectory() && e.file.Directory() == dir
	})
}

func (a *_MemoryAdapter) AllDirectories(ctx context.Context, path string) ([]interf.StorageFile, error) {
	return a.list(ctx, path, func(e *_Entry, dir string) bool {
		return e.file.IsDirectory()
	})
}

func (a *_MemoryAdapter) MakeDirectory(ctx context.Context, path string, visibility interf.Visibility) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = interf.ResolvePath(path)
	if path == interf.RootPath {
		return nil // the root always exists
	}

	a.mux.Lock() // WRITE Lock
	defer a.mux.Unlock()

	if err := a.materialize(append(interf.PathDirectories(path), path), visibility); err != nil {
		return interf.NewPathError("mkdir", path, err)
	}
	return nil
}

func (a *_MemoryAdapter) Write(ctx context.Context, path string, contents []byte, visibility interf.Visibility, reporter interf.Reporter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = interf.ResolvePath(path)
	if path == interf.RootPath {
		return interf.NewPathError("write", path, interf.ErrInvalidPath)
	}
	reporter = reporterOrNop(reporter)
	size := len(contents)
	reporter.Progress(0, size)

	if err := a.write(path, contents, visibility); err != nil {
		return err
	}

	reporter.Progress(size, size)
	a.logger.Debug("write", zap.String("path", path), zap.Int("size", size), zap.Stringer("visibility", visibility))
	return nil
}

func (a *_MemoryAdapter) Read(ctx context.Context, path string, reporter interf.Reporter) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = interf.ResolvePath(path)
	reporter = reporterOrNop(reporter)

	a.mux.RLock() // READ Lock
	e, ok := a.tree.Get(probe(path))
	var data []byte
	if ok {
		data = cloneBytes(e.contents)
	}
	a.mux.RUnlock()

	if !ok {
		return nil, interf.NewPathError("read", path, interf.ErrFileNotFound)
	}

	reporter.Progress(0, len(data))
	reporter.Progress(len(data), len(data))
	return data, nil
}

func (a *_MemoryAdapter) Exists(ctx context.Context, paths ...string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	a.mux.RLock() // READ Lock
	defer a.mux.RUnlock()

	for _, p := range paths {
		if !a.tree.Has(probe(interf.ResolvePath(p))) {
			return false, nil
		}
	}
	return true, nil
}

func (a *_MemoryAdapter) Delete(ctx context.Context, paths ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mux.Lock() // WRITE Lock
	defer a.mux.Unlock()

	for _, p := range paths {
		p = interf.ResolvePath(p)
		if _, ok := a.tree.Delete(probe(p)); ok {
			a.logger.Debug("delete", zap.String("path", p))
		}
	}
	return nil
}

func (a *_MemoryAdapter) DeleteDirectory(ctx context.Context, path string, reporter interf.Reporter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = interf.ResolvePath(path)
	reporter = reporterOrNop(reporter)

	snapshot := a.snapshot(path)
	total := len(snapshot)
	reporter.Progress(0, total)

	for i, e := range snapshot {
		a.mux.Lock() // WRITE Lock
		a.detach(e)
		a.mux.Unlock()
		reporter.Progress(i+1, total)
	}

	a.logger.Debug("delete directory", zap.String("path", path), zap.Int("entries", total))
	return nil
}

func (a *_MemoryAdapter) Get(ctx context.Context, path string) (interf.StorageFile, bool, error) {
	if err := ctx.Err(); err != nil {
		return interf.StorageFile{}, false, err
	}
	path = interf.ResolvePath(path)

	a.mux.RLock() // READ Lock
	defer a.mux.RUnlock()

	e, ok := a.tree.Get(probe(path))
	if !ok {
		return interf.StorageFile{}, false, nil
	}
	return e.file, true, nil
}

func (a *_MemoryAdapter) Copy(ctx context.Context, source, destination string, reporter interf.Reporter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	source = interf.ResolvePath(source)
	destination = interf.ResolvePath(destination)
	reporter = reporterOrNop(reporter)

	snapshot := a.snapshot(source)
	total := len(snapshot)

	a.mux.RLock() // READ Lock
	err := a.conflict("copy", snapshot, source, destination, nil)
	a.mux.RUnlock()
	if err != nil {
		return err
	}

	reporter.Progress(0, total)

	for i, e := range snapshot {
		a.mux.Lock() // WRITE Lock
		if newPath := interf.RebasePath(e.file.Path, source, destination); newPath != interf.RootPath {
			c := &_Entry{file: e.file}
			c.file.Path = newPath
			c.file.LastModified = a.clock()
			if e.contents != nil {
				c.contents = cloneBytes(e.contents)
			}
			if err := a.materialize(interf.PathDirectories(newPath), c.file.Visibility); err != nil {
				a.mux.Unlock()
				return interf.NewPathError("copy", newPath, err)
			}
			a.tree.ReplaceOrInsert(c)
		}
		a.mux.Unlock()

		reporter.Progress(i+1, total)
	}

	a.logger.Debug("copy", zap.String("source", source), zap.String("destination", destination), zap.Int("entries", total))
	return nil
}

func (a *_MemoryAdapter) Move(ctx context.Context, source, destination string, reporter interf.Reporter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	source = interf.ResolvePath(source)
	destination = interf.ResolvePath(destination)
	reporter = reporterOrNop(reporter)

	snapshot := a.snapshot(source)
	total := len(snapshot)

	if source == destination {
		reporter.Progress(0, total)
		for i := range snapshot {
			reporter.Progress(i+1, total)
		}
		return nil
	}

	// detach all entries first, so a destination inside the source can't collide with entries not yet moved
	a.mux.Lock() // WRITE Lock
	leaving := make(map[*_Entry]bool, total)
	for _, e := range snapshot {
		leaving[e] = true
	}
	if err := a.conflict("move", snapshot, source, destination, leaving); err != nil {
		a.mux.Unlock()
		return err
	}
	moving := make(map[*_Entry]bool, total)
	for _, e := range snapshot {
		moving[e] = a.detach(e)
	}
	a.mux.Unlock()

	reporter.Progress(0, total)

	var err error
	for i, e := range snapshot {
		a.mux.Lock() // WRITE Lock
		if newPath := interf.RebasePath(e.file.Path, source, destination); newPath != interf.RootPath && moving[e] {
			if mErr := a.materialize(interf.PathDirectories(newPath), e.file.Visibility); mErr != nil {
				// a concurrent writer stored a file in the way: the entry goes back to its old path
				if err == nil {
					err = interf.NewPathError("move", newPath, mErr)
				}
				newPath = e.file.Path
				_ = a.materialize(interf.PathDirectories(newPath), e.file.Visibility)
			}
			// same identity, only the path changes
			e.file.Path = newPath
			a.tree.ReplaceOrInsert(e)
		}
		a.mux.Unlock()

		reporter.Progress(i+1, total)
	}
	if err != nil {
		return err
	}

	a.logger.Debug("move", zap.String("source", source), zap.String("destination", destination), zap.Int("entries", total))
	return nil
}

func (a *_MemoryAdapter) SetVisibility(ctx context.Context, path string, visibility interf.Visibility) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = interf.ResolvePath(path)

	a.mux.Lock() // WRITE Lock
	defer a.mux.Unlock()

	if e, ok := a.tree.Get(probe(path)); ok {
		e.file.Visibility = visibility
	}
	return nil
}

//--------  Helper  --------------------------------------------------------------------------------------------------//

// list returns the metadata of all entries below path (path itself excluded) where keep is true.
func (a *_MemoryAdapter) list(ctx context.Context, path string, keep func(e *_Entry, dir string) bool) ([]interf.StorageFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = interf.ResolvePath(path)

	a.mux.RLock() // READ Lock
	defer a.mux.RUnlock()

	ret := make([]interf.StorageFile, 0)
	a.ascendDescendants(path, func(e *_Entry) bool {
		if keep(e, path) {
			ret = append(ret, e.file)
		}
		return true
	})
	return ret, nil
}

// snapshot returns path itself (if stored) and all entries below it, ordered by path.
// Parents are always in front of their children.
func (a *_MemoryAdapter) snapshot(path string) []*_Entry {
	a.mux.RLock() // READ Lock
	defer a.mux.RUnlock()

	var ret []*_Entry
	if e, ok := a.tree.Get(probe(path)); ok {
		ret = append(ret, e)
	}
	a.ascendDescendants(path, func(e *_Entry) bool {
		ret = append(ret, e)
		return true
	})
	return ret
}

// ascendDescendants visits every entry below dir (dir itself excluded) in path order.
// All descendants of /a are in the key range ['/a/', '/a0'), because '0' follows '/'.
// The caller must hold a lock.
func (a *_MemoryAdapter) ascendDescendants(dir string, visit func(e *_Entry) bool) {
	if dir == interf.RootPath {
		a.tree.Ascend(visit)
		return
	}
	a.tree.AscendRange(probe(dir+interf.PathSeparator), probe(dir+"0"), visit)
}

// materialize creates every missing directory of dirs. Existing directories are not touched.
// If a file is stored at one of dirs, ErrNotDirectory is returned and nothing is created.
// The caller must hold the write lock.
func (a *_MemoryAdapter) materialize(dirs []string, visibility interf.Visibility) error {
	for _, dir := range dirs {
		if e, ok := a.tree.Get(probe(dir)); ok && !e.file.IsDirectory() {
			return interf.ErrNotDirectory
		}
	}
	for _, dir := range dirs {
		if dir == interf.RootPath || a.tree.Has(probe(dir)) {
			continue
		}
		a.tree.ReplaceOrInsert(newDirEntry(dir, visibility, a.clock()))
		a.logger.Debug("make directory", zap.String("path", dir), zap.Stringer("visibility", visibility))
	}
	return nil
}

// conflict checks that every entry of snapshot can be stored at its path rebased from source to destination:
// a file never replaces a directory (ErrIsDirectory), a directory never replaces a file and
// no parent is a file (ErrNotDirectory). Stored entries in leaving are ignored, they are removed before.
// The caller must hold a lock.
func (a *_MemoryAdapter) conflict(op string, snapshot []*_Entry, source, destination string, leaving map[*_Entry]bool) error {
	for _, e := range snapshot {
		newPath := interf.RebasePath(e.file.Path, source, destination)
		if newPath == interf.RootPath {
			continue
		}
		if cur, ok := a.tree.Get(probe(newPath)); ok && !leaving[cur] && cur.file.IsDirectory() != e.file.IsDirectory() {
			if cur.file.IsDirectory() {
				return interf.NewPathError(op, newPath, interf.ErrIsDirectory)
			}
			return interf.NewPathError(op, newPath, interf.ErrNotDirectory)
		}
		for _, dir := range interf.PathDirectories(newPath) {
			if cur, ok := a.tree.Get(probe(dir)); ok && !leaving[cur] && !cur.file.IsDirectory() {
				return interf.NewPathError(op, newPath, interf.ErrNotDirectory)
			}
		}
	}
	return nil
}

// write creates or replaces the file at path. Nothing is changed if an error is returned.
func (a *_MemoryAdapter) write(path string, contents []byte, visibility interf.Visibility) error {
	a.mux.Lock() // WRITE Lock
	defer a.mux.Unlock()

	e, ok := a.tree.Get(probe(path))
	if ok && e.file.IsDirectory() {
		return interf.NewPathError("write", path, interf.ErrIsDirectory)
	}

	if !ok {
		if err := a.materialize(interf.PathDirectories(path), visibility); err != nil {
			return interf.NewPathError("write", path, err)
		}
		a.tree.ReplaceOrInsert(newFileEntry(path, contents, visibility, a.clock()))
		return nil
	}

	// replace in place; the entry keeps its identity
	e.contents = cloneBytes(contents)
	e.file.Visibility = visibility
	e.file.Size = int64(len(contents))
	e.file.LastModified = a.clock()
	return nil
}

// detach removes e from the index, but only if e is still the entry stored at its path.
// A concurrent write could have replaced it in the meantime.
// The caller must hold the write lock.
func (a *_MemoryAdapter) detach(e *_Entry) bool {
	cur, ok := a.tree.Get(e)
	if !ok || cur != e {
		return false
	}
	a.tree.Delete(e)
	return true
}

// restore inserts an entry as it is (used by LoadSnapshot).
func (a *_MemoryAdapter) restore(e *_Entry) {
	a.mux.Lock() // WRITE Lock
	defer a.mux.Unlock()
	a.tree.ReplaceOrInsert(e)
}
