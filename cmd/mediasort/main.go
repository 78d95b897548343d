// Command mediasort organizes a media library by creation date, copying
// media files from a source tree into a date-structured target tree.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"mediasort/mediafs"
	"mediasort/organize"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"Usage: %s [flags] SOURCE TARGET\n\n"+
			"Organize a media library by creation date, copying media files\n"+
			"from SOURCE into a date-structured tree under TARGET.\n\nFlags:\n",
		filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	var (
		unrecognized = flag.String("unrecognized", organize.DefaultUnrecognizedDir,
			"subfolder for media without a readable creation date")
		dirPattern = flag.String("dir-pattern", organize.DefaultDirPattern,
			"strftime pattern for target directories")
		filePattern = flag.String("file-pattern", organize.DefaultFilePattern,
			"strftime pattern for target filenames")
		dryRun = flag.Bool("dry-run", false,
			"simulate the run and report intended mutations without touching storage")
		reflink = flag.String("reflink", "off",
			"copy-on-write clones: auto, always, or off")
		verbose = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(flag.Arg(0), flag.Arg(1), *unrecognized, *dirPattern, *filePattern,
		*reflink, *dryRun, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(source, target, unrecognized, dirPattern, filePattern, reflink string,
	dryRun bool, logger *slog.Logger) error {

	std := mediafs.NewStd()

	// Assemble the chain inside out: base adapter, optional CoW or dry
	// layer, error context, stats.
	var (
		chain mediafs.Fs = std
		dry   *mediafs.DryFs
		cow   *mediafs.CowFs
	)
	switch {
	case dryRun:
		dry = mediafs.NewDry(std)
		chain = dry
	case reflink != "off":
		support := mediafs.ReflinkUnknown
		if reflink == "always" {
			support = mediafs.ReflinkSupported
		} else if reflink != "auto" {
			return fmt.Errorf("invalid -reflink mode %q", reflink)
		}
		var err error
		cow, err = mediafs.NewCow(std, support, mediafs.WithCowLogger(logger))
		if err != nil {
			return err
		}
		chain = cow
	}

	stats := mediafs.NewStats()
	fsys := mediafs.NewStat(mediafs.NewErrorContext(chain), stats)
	logger.Debug("filesystem chain assembled", "name", fsys.Name())

	org, err := organize.New(organize.Config{
		Source:          source,
		Target:          target,
		UnrecognizedDir: unrecognized,
		DirPattern:      dirPattern,
		FilePattern:     filePattern,
		Fs:              fsys,
		Src:             afero.NewOsFs(),
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	result, err := org.Run()
	if err != nil {
		return err
	}

	if dry != nil {
		for _, obj := range dry.Objects() {
			if obj.Source == "" {
				fmt.Printf("mkdir -p %s\n", obj.Path)
			} else {
				fmt.Printf("copy %s -> %s\n", obj.Source, obj.Path)
			}
		}
	}

	logger.Info("run complete",
		"copied_files", stats.CopiedCount(),
		"copied_bytes", stats.CopiedSize(),
		"unrecognized", len(result.Unrecognized))
	if cow != nil {
		logger.Info("reflink summary",
			"successful", cow.SuccessfulReflinks(),
			"failed", cow.FailedReflinks())
	}

	if !dryRun && len(result.Unrecognized) > 0 {
		if err := writeUnknownLog(result.UnrecognizedDir, result.Unrecognized); err != nil {
			return fmt.Errorf("failed to write unknown files log: %w", err)
		}
	}
	return nil
}

// writeUnknownLog records the unrecognized source paths next to their
// copies. The stamped directory already exists: it was created when the
// first unrecognized file was routed there.
func writeUnknownLog(dir string, files []string) error {
	f, err := os.Create(filepath.Join(dir, "unknown_files.log"))
	if err != nil {
		return err
	}
	for _, file := range files {
		if _, err := fmt.Fprintln(f, file); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
