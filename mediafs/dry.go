package mediafs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DryFs simulates mutating operations against an in-memory object map
// instead of real storage. It wraps only a ReadonlyFs, so the compiler
// already rules out the wrapped chain being asked to write anything.
//
// The map starts empty, grows for the lifetime of the instance, and is
// read back through Objects for the end-of-run report. It is guarded by
// a mutex and safe for concurrent callers.
type DryFs struct {
	inner   ReadonlyFs
	mu      sync.RWMutex
	objects map[string]dryObject
}

var _ Fs = (*DryFs)(nil)

// dryObject is one simulated entry: the metadata it would have, and for
// copies the source path it was cloned from.
type dryObject struct {
	meta   Metadata
	source string
}

// DryObject describes one simulated mutation for reporting. Source is
// empty for directories fabricated by MkdirAll.
type DryObject struct {
	Path   string
	Meta   Metadata
	Source string
}

// NewDry wraps fs with a virtual object map. The wrapped filesystem is
// only ever consulted for metadata and existence.
func NewDry(fs ReadonlyFs) *DryFs {
	return &DryFs{
		inner:   fs,
		objects: make(map[string]dryObject),
	}
}

func (d *DryFs) addObject(path string, obj dryObject) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.objects[path] = obj
}

func (d *DryFs) findObject(path string) (dryObject, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	obj, ok := d.objects[path]
	return obj, ok
}

// Objects returns a snapshot of the simulated mutations, sorted by path.
func (d *DryFs) Objects() []DryObject {
	d.mu.RLock()
	defer d.mu.RUnlock()

	objects := make([]DryObject, 0, len(d.objects))
	for path, obj := range d.objects {
		objects = append(objects, DryObject{
			Path:   path,
			Meta:   obj.meta,
			Source: obj.source,
		})
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Path < objects[j].Path
	})
	return objects
}

// Name returns the name of the filesystem.
func (d *DryFs) Name() string {
	return fmt.Sprintf("Dry(%s)", d.inner.Name())
}

// MkdirAll records the directory at path and any missing ancestors in the
// virtual map. It is idempotent for paths that already exist, virtually
// or on the wrapped filesystem.
func (d *DryFs) MkdirAll(path string) error {
	if d.Exists(path) {
		return nil
	}

	parent := filepath.Dir(path)
	if parent == path {
		// Dir stopped making progress: we ran past the root without
		// finding an existing ancestor.
		return fmt.Errorf("cannot get parent path from [%s]: %w", path, ErrNoParent)
	}
	if err := d.MkdirAll(parent); err != nil {
		return err
	}

	d.addObject(path, dryObject{meta: SyntheticDir()})
	return nil
}

// Stat returns metadata for path, consulting the virtual map before the
// wrapped filesystem.
func (d *DryFs) Stat(path string) (Metadata, error) {
	if obj, ok := d.findObject(path); ok {
		return obj.meta, nil
	}
	return d.inner.Stat(path)
}

// Copy records a simulated copy of from into to and returns the source's
// logical size. Unlike a real copy it never overwrites: an existing
// target, virtual or real, is an error and the map stays unchanged.
func (d *DryFs) Copy(from, to string) (int64, error) {
	if d.Exists(to) {
		return 0, fmt.Errorf("object [%s] already exists: %w", to, os.ErrExist)
	}

	meta, err := d.Stat(from)
	if err != nil {
		return 0, err
	}

	d.addObject(to, dryObject{meta: meta, source: from})
	return meta.Size(), nil
}

// Exists reports whether path exists virtually or on the wrapped
// filesystem.
func (d *DryFs) Exists(path string) bool {
	if _, ok := d.findObject(path); ok {
		return true
	}
	return d.inner.Exists(path)
}
