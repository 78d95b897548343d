package mediafs

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
)

// TestAferoAdapter tests the four operations over a MemMapFs
func TestAferoAdapter(t *testing.T) {
	mem := afero.NewMemMapFs()
	content := bytes.Repeat([]byte("m"), 128)
	if err := afero.WriteFile(mem, "/src/pic.jpg", content, 0644); err != nil {
		t.Fatalf("failed to seed source: %v", err)
	}

	fs := NewAfero(mem)
	if fs.Name() != "Afero" {
		t.Errorf("unexpected name %q", fs.Name())
	}

	if err := fs.MkdirAll("/dst/2021/05"); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	meta, err := fs.Stat("/dst/2021/05")
	if err != nil {
		t.Fatalf("failed to stat: %v", err)
	}
	if !meta.IsDir() {
		t.Error("expected a directory")
	}

	n, err := fs.Copy("/src/pic.jpg", "/dst/2021/05/pic.jpg")
	if err != nil {
		t.Fatalf("failed to copy: %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("expected %d bytes, got %d", len(content), n)
	}
	got, err := afero.ReadFile(mem, "/dst/2021/05/pic.jpg")
	if err != nil {
		t.Fatalf("failed to read target: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("target content differs from source")
	}

	if !fs.Exists("/src/pic.jpg") {
		t.Error("expected source to exist")
	}
	if fs.Exists("/src/other.jpg") {
		t.Error("expected missing path to not exist")
	}
}

// TestAferoCopyMissingSource tests error propagation from afero
func TestAferoCopyMissingSource(t *testing.T) {
	fs := NewAfero(afero.NewMemMapFs())
	if _, err := fs.Copy("/missing", "/dst"); err == nil {
		t.Error("expected copy of missing source to fail")
	}
}
