/*
Package mediafs provides a small capability interface for filesystem
operations and a set of composable decorators that add cross-cutting
behavior around it.

# Overview

The Fs interface supports exactly four operations — directory creation,
metadata lookup, copy, and existence check — which is what a copy-based
synchronization tool needs and nothing more. A chain is built by
wrapping a base adapter in decorators; each call threads through the
chain from outermost to innermost, and only the innermost adapter
touches real storage.

# Decorators

  - StdFs: leaf adapter backed by the os package
  - AbsFs / AferoFs: leaf adapters over absfs and afero filesystems
  - ErrorContextFs: path-qualified error context, cause chain preserved
  - StatFs: copied-file and copied-byte counters
  - DryFs: simulates mutations against a virtual object map
  - CowFs: copy-on-write clones with adaptive fallback to byte copies

# Basic Usage

	stats := mediafs.NewStats()
	fs := mediafs.NewStat(
	    mediafs.NewErrorContext(mediafs.NewStd()),
	    stats,
	)

	if err := fs.MkdirAll("/photos/2021/05/01"); err != nil {
	    log.Fatal(err)
	}
	if _, err := fs.Copy("/import/img.jpg", "/photos/2021/05/01/img.jpg"); err != nil {
	    log.Fatal(err)
	}

	fmt.Println(stats.CopiedCount(), stats.CopiedSize())

# Dry Runs

DryFs wraps only a ReadonlyFs, so the compiler already guarantees a dry
run cannot mutate real storage. Simulated mutations land in an
in-memory object map that answers later Exists and Stat calls and is
read back for the end-of-run report:

	dry := mediafs.NewDry(mediafs.NewStd())
	fs := mediafs.NewErrorContext(dry)

	fs.MkdirAll("/photos/2021/05/01")
	fs.Copy("/import/img.jpg", "/photos/2021/05/01/img.jpg")

	for _, obj := range dry.Objects() {
	    // obj.Source is the copy provenance, empty for directories
	}

Unlike a real copy, a simulated copy never overwrites: an existing
target, virtual or real, is rejected with an error satisfying
errors.Is(err, fs.ErrExist).

# Copy-on-Write

CowFs replaces byte copies with reflink clones where the volume
supports them. With ReflinkUnknown it probes as it goes: failed clones
fall back to real copies, and a chain that only ever fails permanently
downgrades to plain copying after a fixed threshold. With
ReflinkSupported a failed clone is a hard error.

# Thread Safety

All operations are synchronous and blocking. Counters and the reflink
state use atomics; the DryFs object map is mutex-guarded. A chain may
be shared across goroutines without external locking.
*/
package mediafs
