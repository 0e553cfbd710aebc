package impl

import (
	"context"
	"fmt"
	"math/rand"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
)

// InitDemo creates the following test entries (existing files are not overwritten):
//
//   - /docs/readme.txt            (public, "hello")
//   - /docs/guide/chapter-%d.txt  (public, 10 files, text == path)
//   - /private/secret.dat         (private, 64 kB random bytes, seed 1337)
//   - /a/x.txt and /ab/y.txt      (public, siblings sharing a name prefix)
//   - /empty                      (public directory without content)
func InitDemo(ctx context.Context, a interf.Adapter) error {
	files := map[string][]byte{
		"/docs/readme.txt": []byte("hello"),
		"/a/x.txt":         []byte("x"),
		"/ab/y.txt":        []byte("y"),
	}
	for i := 1; i <= 10; i++ {
		p := fmt.Sprintf("/docs/guide/chapter-%d.txt", i)
		files[p] = []byte(p)
	}

	for _, p := range SortFiles(pathsToFiles(files)) {
		if err := writeIfMissing(ctx, a, p.Path, files[p.Path], interf.Public); err != nil {
			return err
		}
	}

	// random test file
	rnd := rand.New(rand.NewSource(1337))
	data := make([]byte, 64*1024)
	rnd.Read(data)
	if err := writeIfMissing(ctx, a, "/private/secret.dat", data, interf.Private); err != nil {
		return err
	}

	return a.MakeDirectory(ctx, "/empty", interf.Public)
}

//--------  Helper  --------------------------------------------------------------------------------------------------//

func writeIfMissing(ctx context.Context, a interf.Adapter, path string, data []byte, visibility interf.Visibility) error {
	ok, err := a.Exists(ctx, path)
	if err != nil || ok {
		return err
	}
	return a.Write(ctx, path, data, visibility, nil)
}

func pathsToFiles(files map[string][]byte) []interf.StorageFile {
	ret := make([]interf.StorageFile, 0, len(files))
	for p := range files {
		ret = append(ret, interf.NewStorageFile(p))
	}
	return ret
}
