package mediafs

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/absfs/absfs"
	"github.com/absfs/memfs"
)

// mustNewMemFS creates a new memfs or panics
func mustNewMemFS() absfs.FileSystem {
	mfs, err := memfs.NewFS()
	if err != nil {
		panic(err)
	}
	return mfs
}

// writeAbsFile writes data to a file in an absfs filesystem
func writeAbsFile(t *testing.T, fs absfs.FileSystem, name string, data []byte) {
	t.Helper()
	if dir := filepath.Dir(name); dir != "/" && dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	f, err := fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// readAbsFile reads a file from an absfs filesystem
func readAbsFile(t *testing.T, fs absfs.FileSystem, name string) []byte {
	t.Helper()
	f, err := fs.Open(name)
	if err != nil {
		t.Fatalf("failed to open %s: %v", name, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return data
}

// TestAbsName tests the adapter's diagnostic name
func TestAbsName(t *testing.T) {
	fs := NewAbs(mustNewMemFS())
	if fs.Name() != "AbsFs" {
		t.Errorf("unexpected name %q", fs.Name())
	}
}

// TestAbsMkdirAllAndStat tests directory creation and metadata lookup
func TestAbsMkdirAllAndStat(t *testing.T) {
	fs := NewAbs(mustNewMemFS())

	if err := fs.MkdirAll("/a/b/c"); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	meta, err := fs.Stat("/a/b/c")
	if err != nil {
		t.Fatalf("failed to stat: %v", err)
	}
	if !meta.IsDir() {
		t.Error("expected a directory")
	}
}

// TestAbsCopy tests copying within a memfs
func TestAbsCopy(t *testing.T) {
	mfs := mustNewMemFS()
	content := bytes.Repeat([]byte("q"), 256)
	writeAbsFile(t, mfs, "/src/data.bin", content)

	fs := NewAbs(mfs)
	if err := fs.MkdirAll("/dst"); err != nil {
		t.Fatalf("failed to create target dir: %v", err)
	}

	n, err := fs.Copy("/src/data.bin", "/dst/data.bin")
	if err != nil {
		t.Fatalf("failed to copy: %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("expected %d bytes, got %d", len(content), n)
	}
	if got := readAbsFile(t, mfs, "/dst/data.bin"); !bytes.Equal(got, content) {
		t.Error("target content differs from source")
	}
}

// TestAbsExists tests the error-swallowing existence check
func TestAbsExists(t *testing.T) {
	mfs := mustNewMemFS()
	writeAbsFile(t, mfs, "/here.txt", []byte("x"))

	fs := NewAbs(mfs)
	if !fs.Exists("/here.txt") {
		t.Error("expected existing file to exist")
	}
	if fs.Exists("/nowhere.txt") {
		t.Error("expected missing path to not exist")
	}
}
