package impl

import (
	"context"
	"crypto/md5"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"time"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
)

// snapshotVersion changes whenever the snapshot layout changes.
const snapshotVersion = 1

// _Snapshot stores every entry of an adapter, including the content.
// Loading a snapshot restores a memory adapter exactly (paths, metadata and content).
type _Snapshot struct {
	Version int
	Entries []_SnapshotEntry
	Sig     string
}

// _SnapshotEntry is a helper with exported attributes for serialization.
type _SnapshotEntry struct {
	Path         string
	Type         uint8
	Visibility   uint8
	Size         int64
	LastModified time.Time
	Contents     []byte
	Md5          string
}

//--------------------------------------------------------------------------------------------------------------------//

// SaveSnapshot writes all entries of the adapter to a file.
// Any adapter can be saved; the entries are collected through the adapter interface.
// An existing file is replaced only after the new snapshot was written completely.
func SaveSnapshot(ctx context.Context, a interf.Adapter, file string) error {
	list, err := a.AllFiles(ctx, interf.RootPath)
	if err != nil {
		return fmt.Errorf("impl/SaveSnapshot: list: %w", err)
	}

	// create entry list for serialization
	snap := _Snapshot{Version: snapshotVersion}
	for _, f := range SortFiles(list) {
		e := _SnapshotEntry{
			Path:         f.Path,
			Type:         uint8(f.Type),
			Visibility:   uint8(f.Visibility),
			Size:         f.Size,
			LastModified: f.LastModified,
		}
		if f.IsFile() {
			e.Contents, err = a.Read(ctx, f.Path, nil)
			if errors.Is(err, interf.ErrFileNotFound) {
				continue // deleted in the meantime
			}
			if err != nil {
				return fmt.Errorf("impl/SaveSnapshot: %w", err)
			}
			e.Md5 = md5Hex(e.Contents)
		}
		snap.Entries = append(snap.Entries, e)
	}
	snap.Sig = snapshotSig(snap.Entries)

	// create new snapshot file next to the old one
	tmp := file + ".tmp"
	fh, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	// write data (serialize snapshot)
	if err := gob.NewEncoder(fh).Encode(snap); err != nil {
		fh.Close()
		os.Remove(tmp)
		return err
	}
	if err := fh.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	// success
	return os.Rename(tmp, file)
}

// LoadSnapshot returns a new memory adapter with all entries of the snapshot file.
// If the file doesn't exist, an error wrapping os.ErrNotExist is returned.
func LoadSnapshot(file string, opts MemoryOptions) (interf.Adapter, error) {
	// open snapshot file
	fh, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	// load snapshot object
	snap := new(_Snapshot)
	if err := gob.NewDecoder(fh).Decode(snap); err != nil {
		return nil, fmt.Errorf("impl/LoadSnapshot: decode %s: %w", file, err)
	}

	// check version and signature
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("impl/LoadSnapshot: unsupported snapshot version %d", snap.Version)
	}
	if snap.Sig != snapshotSig(snap.Entries) {
		return nil, errors.New("impl/LoadSnapshot: wrong snapshot signature")
	}

	// restore entries
	a := newMemoryAdapter(opts)
	for _, v := range snap.Entries {
		if v.Type == uint8(interf.File) && md5Hex(v.Contents) != v.Md5 {
			return nil, fmt.Errorf("impl/LoadSnapshot: corrupt content of %s", v.Path)
		}
		e := &_Entry{
			file: interf.StorageFile{
				Path:         interf.ResolvePath(v.Path),
				Type:         interf.FileType(v.Type),
				Visibility:   interf.Visibility(v.Visibility),
				Size:         v.Size,
				LastModified: v.LastModified,
			},
		}
		if e.file.IsFile() {
			e.contents = cloneBytes(v.Contents)
		}
		a.restore(e)
	}

	return a, nil
}

//--------  HELPER  --------------------------------------------------------------------------------------------------//

// snapshotSig binds the signature to the list of paths and content hashes.
// Any change to an entry invalidates the snapshot.
func snapshotSig(entries []_SnapshotEntry) string {
	h := md5.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s|%d|%d|%d|%s\n", e.Path, e.Type, e.Visibility, e.Size, e.Md5)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// md5Hex is the hash of the content (hex string).
func md5Hex(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}
