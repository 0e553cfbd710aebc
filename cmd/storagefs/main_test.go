package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
)

// cliEnv runs commands against one snapshot file.
type cliEnv struct {
	t        *testing.T
	config   string
	snapshot string
}

func newCLIEnv(t *testing.T) *cliEnv {
	dir := t.TempDir()
	return &cliEnv{
		t:        t,
		config:   filepath.Join(dir, "missing.yaml"),
		snapshot: filepath.Join(dir, "test.snapshot"),
	}
}

// run executes one command and returns stdout and stderr.
func (e *cliEnv) run(stdin string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &stdout
	cmd.ErrWriter = &stderr
	cmd.Reader = strings.NewReader(stdin)

	base := []string{"storagefs", "--config", e.config, "--snapshot", e.snapshot, "--log-level", "error"}
	err := cmd.Run(context.Background(), append(base, args...))
	return stdout.String(), stderr.String(), err
}

func (e *cliEnv) mustRun(args ...string) string {
	out, _, err := e.run("", args...)
	require.NoError(e.t, err, args)
	return out
}

func TestCLI(t *testing.T) {
	e := newCLIEnv(t)

	// an empty storage is not saved by read-only commands
	assert.Contains(t, e.mustRun("ls"), "PATH")
	_, err := os.Stat(e.snapshot)
	assert.ErrorIs(t, err, os.ErrNotExist)

	e.mustRun("demo")
	assert.Equal(t, "hello", e.mustRun("cat", "/docs/readme.txt"))

	// put from stdin
	out, _, err := e.run("from stdin", "put", "new.txt", "-")
	require.NoError(t, err)
	assert.Equal(t, "10 bytes written to /new.txt\n", out)
	assert.Equal(t, "from stdin", e.mustRun("cat", "/new.txt"))

	// put from a local file
	local := filepath.Join(t.TempDir(), "local.txt")
	require.NoError(t, os.WriteFile(local, []byte("local"), 0600))
	e.mustRun("put", "--visibility", "private", "/local.txt", local)
	assert.Contains(t, e.mustRun("stat", "/local.txt"), "private")

	// copy and move
	e.mustRun("cp", "/docs", "/copy")
	assert.Contains(t, e.mustRun("ls", "-R", "/copy"), "/copy/guide/chapter-10.txt")
	e.mustRun("mv", "/copy", "/moved")
	list := e.mustRun("ls", "/")
	assert.Contains(t, list, "/moved")
	assert.NotContains(t, list, "/copy")
	assert.Contains(t, e.mustRun("ls", "-d", "/moved"), "/moved/guide")

	stat := e.mustRun("stat", "/moved/readme.txt")
	assert.Contains(t, stat, "/moved/readme.txt")
	assert.Contains(t, stat, "file")

	// visibility
	e.mustRun("chmod", "private", "/new.txt")
	assert.Contains(t, e.mustRun("stat", "/new.txt"), "private")

	// delete
	e.mustRun("rm", "/new.txt")
	_, _, err = e.run("", "cat", "/new.txt")
	assert.ErrorIs(t, err, interf.ErrFileNotFound)

	_, stderr, err := e.run("", "--progress", "rmdir", "/moved")
	require.NoError(t, err)
	assert.Contains(t, stderr, "rmdir /moved: 0/")
	assert.NotContains(t, e.mustRun("ls", "/"), "/moved")

	assert.Equal(t, "/docs/readme.txt\n", e.mustRun("url", "docs//readme.txt"))
}

func TestCLI_Errors(t *testing.T) {
	e := newCLIEnv(t)

	_, _, err := e.run("", "cat")
	assert.ErrorContains(t, err, "usage: cat <path>")

	_, _, err = e.run("", "cp", "/a")
	assert.ErrorContains(t, err, "usage: cp")

	_, _, err = e.run("", "chmod", "hidden", "/a")
	assert.ErrorContains(t, err, "invalid visibility")

	_, _, err = e.run("", "stat", "/missing")
	assert.ErrorIs(t, err, interf.ErrFileNotFound)
}

func TestCLI_Config(t *testing.T) {
	e := newCLIEnv(t)
	e.config = filepath.Join(t.TempDir(), "config.yaml")
	data := `
storage:
  url: https://cdn.example.com/files
  file_visibility: private
cache:
  enabled: true
  size_mb: 1
`
	require.NoError(t, os.WriteFile(e.config, []byte(data), 0600))

	e.mustRun("put", "/a.txt", "-")
	assert.Contains(t, e.mustRun("stat", "/a.txt"), "private")
	assert.Equal(t, "https://cdn.example.com/files/a.txt\n", e.mustRun("url", "/a.txt"))

	// metrics textfile
	prom := filepath.Join(t.TempDir(), "storagefs.prom")
	require.NoError(t, os.WriteFile(e.config, []byte(data+"metrics:\n  enabled: true\n  textfile: "+prom+"\n"), 0600))
	assert.Equal(t, "", e.mustRun("cat", "/a.txt"))
	text, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(text), `storagefs_operations_total{backend="memory",operation="read",status="success"}`)
	assert.Contains(t, string(text), "storagefs_cache_entries")

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("log:\n  format: xml\n"), 0600))
	e.config = broken
	_, _, err = e.run("", "ls")
	assert.ErrorContains(t, err, "failed to parse config")
}
