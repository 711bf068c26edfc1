package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inflammation/internal/config"
	apperrors "inflammation/internal/errors"
	"inflammation/internal/files"
	"inflammation/internal/table"
)

// countingSource counts calls through to the wrapped source
type countingSource struct {
	FileSource
	loads int
}

func (c *countingSource) loadFiles(ctx context.Context, found []files.FileInfo) ([]*table.Table, error) {
	c.loads++
	return c.FileSource.loadFiles(ctx, found)
}

// landingSource drops a new matching file into its directory right after
// each discovery, as a writer racing the load would.
type landingSource struct {
	*CSVSource
	discovered [][]files.FileInfo
	read       [][]files.FileInfo
	landed     int
}

func (l *landingSource) Discover() ([]files.FileInfo, error) {
	found, err := l.CSVSource.Discover()
	if err == nil {
		l.discovered = append(l.discovered, found)
		l.landed++
		name := filepath.Join(l.Dir, fmt.Sprintf("inflammation-9%d.csv", l.landed))
		if werr := os.WriteFile(name, []byte("7,7\n"), 0644); werr != nil {
			return nil, werr
		}
	}
	return found, err
}

func (l *landingSource) loadFiles(ctx context.Context, found []files.FileInfo) ([]*table.Table, error) {
	l.read = append(l.read, found)
	return l.CSVSource.loadFiles(ctx, found)
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(8)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestCachedSource_HitsUntilFilesChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "inflammation-01.csv", "1,2\n")

	inner := &countingSource{FileSource: &CSVSource{Dir: dir}}
	src := NewCachedSource(inner, newTestCache(t), nil)
	ctx := context.Background()

	first, err := src.Load(ctx)
	require.NoError(t, err)
	second, err := src.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.loads)
	assert.True(t, first[0].Equal(second[0], 0))
	assert.NotSame(t, first[0], second[0])

	// rewriting the file changes size and modification time
	require.NoError(t, os.WriteFile(path, []byte("1,2,3\n"), 0644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	third, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.loads)
	assert.Equal(t, 3, third[0].Cols())
}

func TestCachedSource_ReadsWhatItFingerprinted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inflammation-01.csv", "1,2\n")

	inner := &landingSource{CSVSource: &CSVSource{Dir: dir}}
	src := NewCachedSource(inner, newTestCache(t), nil)

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.Len(t, inner.read, 1)
	if diff := cmp.Diff(inner.discovered[0], inner.read[0]); diff != "" {
		t.Errorf("files read differ from files fingerprinted (-discovered +read):\n%s", diff)
	}

	// the late file is gone again, so the first entry must still be exact
	require.NoError(t, os.Remove(filepath.Join(dir, "inflammation-91.csv")))
	again, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, again, 1)
	assert.Len(t, inner.read, 1, "unchanged files must hit the cache")
}

func TestCachedSource_ErrorsAreNotCached(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inflammation-01.csv", "1,x\n")

	inner := &countingSource{FileSource: &CSVSource{Dir: dir}}
	src := NewCachedSource(inner, newTestCache(t), nil)

	for i := 0; i < 2; i++ {
		_, err := src.Load(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrParse)
	}
	assert.Equal(t, 2, inner.loads)
}

func TestCachedSource_NoData(t *testing.T) {
	src := NewCachedSource(&CSVSource{Dir: t.TempDir()}, newTestCache(t), nil)
	_, err := src.Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNoData)
}

func TestCachedSource_KeyedByMode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[{"observations": [1]}]`)
	writeFile(t, dir, "b.json", `[{"observations": [2]}]`)

	cache := newTestCache(t)
	single := NewCachedSource(&JSONSource{Dir: dir}, cache, nil)
	multi := NewCachedSource(&JSONSource{Dir: dir, MultiFile: true}, cache, nil)

	got, err := single.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = multi.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDefaultRegistry_WithCache(t *testing.T) {
	reg := DefaultRegistry(config.Default().Source, WithCache(newTestCache(t)))

	src, err := reg.ForPath(filepath.Join(t.TempDir(), "x.csv"))
	require.NoError(t, err)
	assert.IsType(t, &CachedSource{}, src)
}

func TestNewCache_InvalidSize(t *testing.T) {
	_, err := NewCache(0)
	assert.Error(t, err)
}

func TestFingerprintIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inflammation-01.csv", "1\n")

	before, err := (&CSVSource{Dir: dir}).Discover()
	require.NoError(t, err)
	writeFile(t, dir, "notes.txt", "unrelated")
	after, err := (&CSVSource{Dir: dir}).Discover()
	require.NoError(t, err)

	assert.Equal(t, files.Fingerprint(before), files.Fingerprint(after))
}
