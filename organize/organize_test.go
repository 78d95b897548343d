package organize

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"mediasort/mediafs"
)

// fixedClock pins the run timestamp so the unrecognized folder name is
// predictable.
func fixedClock() time.Time {
	return time.Date(2023, time.June, 15, 12, 0, 0, 0, time.UTC)
}

// dateFromContent is a test extractor: the file's content is its
// creation date in RFC 3339.
func dateFromContent(path string, r io.ReadSeeker) (time.Time, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
}

// newTestOrganizer builds an organizer whose source and target share
// one in-memory filesystem.
func newTestOrganizer(t *testing.T, mem afero.Fs, fsys mediafs.Fs) *Organizer {
	t.Helper()
	org, err := New(Config{
		Source:      "/src",
		Target:      "/dst",
		Fs:          fsys,
		Src:         mem,
		Logger:      slog.Default(),
		Clock:       fixedClock,
		ExtractDate: dateFromContent,
	})
	require.NoError(t, err)
	return org
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{Target: "/dst", Fs: mediafs.NewStd()})
	require.Error(t, err, "missing source must be rejected")

	_, err = New(Config{Source: "/src", Fs: mediafs.NewStd()})
	require.Error(t, err, "missing target must be rejected")

	_, err = New(Config{Source: "/src", Target: "/dst"})
	require.Error(t, err, "missing filesystem must be rejected")

	_, err = New(Config{Source: "/src", Target: "/dst", Fs: mediafs.NewStd(),
		DirPattern: "%Q"})
	require.Error(t, err, "invalid pattern must be rejected")
}

func TestRunOrganizesByDate(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/src/photo.jpg",
		[]byte("2021-05-01T10:00:00Z"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/src/nested/clip.mp4",
		[]byte("2019-12-31T23:59:59Z"), 0644))

	stats := mediafs.NewStats()
	fsys := mediafs.NewStat(mediafs.NewErrorContext(mediafs.NewAfero(mem)), stats)
	org := newTestOrganizer(t, mem, fsys)

	result, err := org.Run()
	require.NoError(t, err)
	require.Empty(t, result.Unrecognized)

	for _, want := range []string{
		"/dst/2021/05/01/2021-05-01T100000.jpg",
		"/dst/2019/12/31/2019-12-31T235959.mp4",
	} {
		_, err := mem.Stat(want)
		require.NoError(t, err, "expected %s to exist", want)
	}

	require.EqualValues(t, 2, stats.CopiedCount())
	require.EqualValues(t, 40, stats.CopiedSize())
}

func TestRunRoutesUnrecognized(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/src/junk.bin",
		[]byte("no date here"), 0644))

	org := newTestOrganizer(t, mem, mediafs.NewAfero(mem))

	result, err := org.Run()
	require.NoError(t, err)
	require.Equal(t, []string{"/src/junk.bin"}, result.Unrecognized)

	wantDir := filepath.Join("/dst", DefaultUnrecognizedDir, "2023-06-15T120000")
	require.Equal(t, wantDir, result.UnrecognizedDir)

	_, err = mem.Stat(filepath.Join(wantDir, "junk.bin"))
	require.NoError(t, err, "expected the file under the stamped folder")
}

func TestRunDetectsDuplicates(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/src/photo.jpg",
		[]byte("2021-05-01T10:00:00Z"), 0644))
	// Same size as the source: the duplicate rule fires on size alone.
	require.NoError(t, afero.WriteFile(mem, "/dst/2021/05/01/2021-05-01T100000.jpg",
		[]byte("xxxxxxxxxxxxxxxxxxxx"), 0644))

	stats := mediafs.NewStats()
	fsys := mediafs.NewStat(mediafs.NewAfero(mem), stats)
	org := newTestOrganizer(t, mem, fsys)

	_, err := org.Run()
	require.NoError(t, err)

	require.EqualValues(t, 0, stats.CopiedCount(), "duplicate must not be copied")
	_, err = mem.Stat("/dst/2021/05/01/2021-05-01T100000_1.jpg")
	require.Error(t, err, "duplicate must not spawn a suffixed copy")
}

func TestRunResolvesCollisions(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/src/photo.jpg",
		[]byte("2021-05-01T10:00:00Z"), 0644))
	// Different size and a pinned old mtime: not a duplicate.
	occupied := "/dst/2021/05/01/2021-05-01T100000.jpg"
	require.NoError(t, afero.WriteFile(mem, occupied, []byte("short"), 0644))
	old := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, mem.Chtimes(occupied, old, old))

	org := newTestOrganizer(t, mem, mediafs.NewAfero(mem))

	_, err := org.Run()
	require.NoError(t, err)

	data, err := afero.ReadFile(mem, "/dst/2021/05/01/2021-05-01T100000_1.jpg")
	require.NoError(t, err)
	require.Equal(t, "2021-05-01T10:00:00Z", string(data))
}

func TestRunDryTouchesNothing(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/src/photo.jpg",
		[]byte("2021-05-01T10:00:00Z"), 0644))

	dry := mediafs.NewDry(mediafs.NewAfero(mem))
	org := newTestOrganizer(t, mem, mediafs.NewErrorContext(dry))

	result, err := org.Run()
	require.NoError(t, err)
	require.Empty(t, result.Unrecognized)

	_, err = mem.Stat("/dst")
	require.Error(t, err, "dry run must not create the target")

	var copies int
	for _, obj := range dry.Objects() {
		if obj.Source != "" {
			copies++
			require.Equal(t, "/src/photo.jpg", obj.Source)
			require.Equal(t, "/dst/2021/05/01/2021-05-01T100000.jpg", obj.Path)
		}
	}
	require.Equal(t, 1, copies)
}
