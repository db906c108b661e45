package file

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestStore_Store(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	table := model.StintTable{
		{DriverNumber: 1, StintNumber: 1, Compound: model.CompoundSoft, LapStart: 1, LapEnd: 5, TyreAgeAtStart: null.From(0)},
	}
	require.NoError(t, s.Store(context.Background(), table, "stints", "session_9158"))

	path := filepath.Join(dir, "stints", "session_9158.csv")
	assert.Equal(t, path, s.Path("stints", "session_9158"))
	got := readCSV(t, path)
	require.Len(t, got, 2)
	assert.Equal(t, table.Header(), got[0])
	assert.Equal(t, table.Records()[0], got[1])

	// storing again replaces the file
	require.NoError(t, s.Store(context.Background(), model.StintTable{}, "stints", "session_9158"))
	assert.Len(t, readCSV(t, path), 1)

	entries, err := os.ReadDir(filepath.Join(dir, "stints"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left")
}

func TestStore_InvalidLocation(t *testing.T) {
	s := New(t.TempDir())
	for _, n := range []string{"", "..", "a/b"} {
		assert.Error(t, s.Store(context.Background(), model.RawRows{}, "cat", n), n)
		assert.Error(t, s.Store(context.Background(), model.RawRows{}, n, "name"), n)
	}
}

func TestStore_FetchTime(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := New(dir)
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.Local)
	s.now = func() time.Time { return now }

	got, err := s.ReadLastFetchTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, now, got, "defaults to now")

	recorded := time.Date(2025, 3, 14, 11, 59, 57, 123456000, time.Local)
	require.NoError(t, s.RecordFetchTime(ctx, recorded))
	raw, err := os.ReadFile(filepath.Join(dir, "util", "last_get_date.txt"))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14 11:59:57.123456", string(raw))

	got, err = s.ReadLastFetchTime(ctx)
	require.NoError(t, err)
	assert.True(t, recorded.Equal(got))
}

func TestStore_FetchTimeCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "util"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util", "last_get_date.txt"), []byte("yesterday"), 0o600))
	_, err := New(dir).ReadLastFetchTime(context.Background())
	assert.Error(t, err)
}

func TestStore_FetchTimeWithoutFraction(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "util"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util", "last_get_date.txt"),
		[]byte("2025-03-14 11:59:57\n"), 0o600))
	got, err := New(dir).ReadLastFetchTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 57, got.Second())
}
