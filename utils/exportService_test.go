package utils

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "report.csv")

	err := WriteCSV(path, []string{"Month", "Count"}, [][]string{
		{"2026-01", "4"},
		{"2026-02", "7"},
	})
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Month", "Count"}, records[0])
	assert.Equal(t, []string{"2026-02", "7"}, records[2])
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	require.NoError(t, WriteJSON(path, map[string]int{"total": 3}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total": 3`)
}

func TestListExportsNewestFirst(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "older.csv")
	newer := filepath.Join(dir, "newer.csv")
	require.NoError(t, os.WriteFile(older, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("bb"), 0644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	files, err := ListExports(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "newer.csv", files[0].Filename)
	assert.Equal(t, "older.csv", files[1].Filename)
	assert.Equal(t, int64(2), files[0].Size)
}

func TestListExportsMissingDirectory(t *testing.T) {
	files, err := ListExports(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
