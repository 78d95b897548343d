// Package organize walks a source tree, extracts media creation dates,
// and copies each file into a date-derived location under the target.
// All mutation goes through a mediafs.Fs chain, so composing a DryFs
// into the chain turns a run into a faithful simulation.
package organize

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/spf13/afero"

	"mediasort/internal/mediadate"
	"mediasort/mediafs"
)

// Defaults for the organizer's naming scheme.
const (
	DefaultUnrecognizedDir = "unrecognized"
	DefaultDirPattern      = "%Y/%m/%d"
	DefaultFilePattern     = "%Y-%m-%dT%H%M%S"
)

// runStampPattern names the per-run subfolder under the unrecognized
// directory, so repeated runs never collide.
const runStampPattern = "%Y-%m-%dT%H%M%S"

// Config configures an Organizer. Source, Target, and Fs are required;
// everything else has a default.
type Config struct {
	// Source is the directory searched recursively for media files.
	Source string
	// Target is the directory organized media is copied into.
	Target string

	// UnrecognizedDir is the subfolder of Target for files whose
	// creation date cannot be determined.
	UnrecognizedDir string
	// DirPattern is the strftime pattern for the target directory.
	DirPattern string
	// FilePattern is the strftime pattern for the target filename; the
	// source file's extension is appended.
	FilePattern string

	// Fs is the filesystem chain all mutation goes through.
	Fs mediafs.Fs
	// Src enumerates the source tree. Defaults to the host filesystem.
	Src afero.Fs

	Logger *slog.Logger

	// Clock supplies the run timestamp. Defaults to time.Now.
	Clock func() time.Time
	// ExtractDate returns a media file's creation date. Defaults to
	// mediadate dispatch on the file extension.
	ExtractDate func(path string, r io.ReadSeeker) (time.Time, error)
}

// Result reports what a run did beyond the filesystem chain's own
// counters.
type Result struct {
	// Unrecognized lists source files routed to the unrecognized
	// folder, in walk order.
	Unrecognized []string
	// UnrecognizedDir is the stamped folder those files were copied to.
	UnrecognizedDir string
}

// Organizer copies media from a source tree into a date-organized
// target tree. It is single-use: build one per run.
type Organizer struct {
	cfg          Config
	dirPattern   *strftime.Strftime
	filePattern  *strftime.Strftime
	unrecognized string
	createdDirs  map[string]struct{}
}

// New validates cfg, fills defaults, and compiles the naming patterns.
func New(cfg Config) (*Organizer, error) {
	if cfg.Source == "" || cfg.Target == "" {
		return nil, errors.New("source and target directories are required")
	}
	if cfg.Fs == nil {
		return nil, errors.New("a filesystem chain is required")
	}
	if cfg.UnrecognizedDir == "" {
		cfg.UnrecognizedDir = DefaultUnrecognizedDir
	}
	if cfg.DirPattern == "" {
		cfg.DirPattern = DefaultDirPattern
	}
	if cfg.FilePattern == "" {
		cfg.FilePattern = DefaultFilePattern
	}
	if cfg.Src == nil {
		cfg.Src = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.ExtractDate == nil {
		cfg.ExtractDate = func(path string, r io.ReadSeeker) (time.Time, error) {
			return mediadate.ExtractReader(r, filepath.Ext(path))
		}
	}

	dirPattern, err := strftime.New(cfg.DirPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid directory pattern %q: %w", cfg.DirPattern, err)
	}
	filePattern, err := strftime.New(cfg.FilePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", cfg.FilePattern, err)
	}
	runStamp, err := strftime.New(runStampPattern)
	if err != nil {
		return nil, err
	}

	return &Organizer{
		cfg:         cfg,
		dirPattern:  dirPattern,
		filePattern: filePattern,
		unrecognized: filepath.Join(
			cfg.Target, cfg.UnrecognizedDir, runStamp.FormatString(cfg.Clock().UTC())),
		createdDirs: make(map[string]struct{}),
	}, nil
}

// Run walks the source tree and organizes every regular file.
func (o *Organizer) Run() (Result, error) {
	result := Result{UnrecognizedDir: o.unrecognized}

	if err := o.ensureDir(o.cfg.Target); err != nil {
		return result, err
	}

	err := afero.Walk(o.cfg.Src, o.cfg.Source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to enumerate source directory: %w", err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		date, dateErr := o.extractDate(path)
		if dateErr != nil {
			o.cfg.Logger.Debug("no creation date, routing to unrecognized",
				"path", path, "reason", dateErr)
			if err := o.processUnrecognized(path); err != nil {
				return fmt.Errorf("failed to process unrecognized file [%s]: %w", path, err)
			}
			result.Unrecognized = append(result.Unrecognized, path)
			return nil
		}

		if err := o.processFile(path, date); err != nil {
			return fmt.Errorf("failed to process file [%s]: %w", path, err)
		}
		return nil
	})
	return result, err
}

func (o *Organizer) extractDate(path string) (time.Time, error) {
	f, err := o.cfg.Src.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()
	return o.cfg.ExtractDate(path, f)
}

func (o *Organizer) processFile(path string, date time.Time) error {
	date = date.UTC()

	dir := filepath.Join(o.cfg.Target, o.dirPattern.FormatString(date))
	if err := o.ensureDir(dir); err != nil {
		return err
	}

	filename := o.filePattern.FormatString(date)
	if ext := filepath.Ext(path); ext != "" {
		filename += ext
	}
	return o.copyFile(path, dir, filename)
}

func (o *Organizer) processUnrecognized(path string) error {
	if err := o.ensureDir(o.unrecognized); err != nil {
		return err
	}
	return o.copyFile(path, o.unrecognized, filepath.Base(path))
}

// ensureDir creates dir through the chain at most once per run.
func (o *Organizer) ensureDir(dir string) error {
	if _, ok := o.createdDirs[dir]; ok {
		return nil
	}
	if err := o.cfg.Fs.MkdirAll(dir); err != nil {
		return err
	}
	o.createdDirs[dir] = struct{}{}
	return nil
}

// copyFile copies source into dir under filename, resolving collisions.
// An occupied target counts as a duplicate when either the modification
// time or the size matches the source; otherwise _1, _2, ... suffixes
// are tried until a free name is found.
func (o *Organizer) copyFile(source, dir, filename string) error {
	srcMeta, err := o.cfg.Fs.Stat(source)
	if err != nil {
		return err
	}

	base, ext := filename, ""
	if pos := strings.LastIndex(filename, "."); pos >= 0 {
		base, ext = filename[:pos], filename[pos:]
	}

	target := filepath.Join(dir, filename)
	for index := 1; o.cfg.Fs.Exists(target); index++ {
		targetMeta, err := o.cfg.Fs.Stat(target)
		if err != nil {
			return err
		}
		if srcMeta.ModTime().Equal(targetMeta.ModTime()) || srcMeta.Size() == targetMeta.Size() {
			o.cfg.Logger.Info("duplicate has been found",
				"source", source, "target", target)
			return nil
		}
		target = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, index, ext))
	}

	_, err = o.cfg.Fs.Copy(source, target)
	return err
}
