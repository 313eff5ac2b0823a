package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"turnovers/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExport(t *testing.T, dir string, name string, modified time.Time) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(exportHeaderLine), 0o644))
	require.NoError(t, os.Chtimes(path, modified, modified))
	return path
}

func TestFileCleanupService_CleanupExpiredExports(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)

	expired := writeExport(t, dir, "rentals-2026-09-01.csv", now.AddDate(0, 0, -48))
	recent := writeExport(t, dir, "rentals-2026-10-18.csv", now.AddDate(0, 0, -1))
	unrelated := writeExport(t, dir, "notes.txt", now.AddDate(-1, 0, 0))

	service := NewFileCleanupService(config.Config{ExportDir: dir, ExportRetentionDays: 30})

	removed, err := service.CleanupExpiredExports(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NoFileExists(t, expired)
	assert.FileExists(t, recent)
	assert.FileExists(t, unrelated, "only dated exports are managed")
}

func TestFileCleanupService_RetentionDisabled(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	old := writeExport(t, dir, "rentals-2020-01-01.csv", now.AddDate(-5, 0, 0))

	service := NewFileCleanupService(config.Config{ExportDir: dir})

	removed, err := service.CleanupExpiredExports(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.FileExists(t, old)
}

func TestFileCleanupService_ListStoredExports(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	writeExport(t, dir, "rentals-2026-10-18.csv", now.Add(-time.Hour))
	writeExport(t, dir, "rentals-2026-10-17.csv", now.Add(-48*time.Hour))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "rentals-archive.csv"), 0o755))

	service := NewFileCleanupService(config.Config{ExportDir: dir})

	files, err := service.ListStoredExports(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "rentals-2026-10-17.csv"), files[0].Path)
	assert.Equal(t, filepath.Join(dir, "rentals-2026-10-18.csv"), files[1].Path)
}

func TestFileCleanupService_MissingDirectory(t *testing.T) {
	service := NewFileCleanupService(config.Config{
		ExportDir:           filepath.Join(t.TempDir(), "missing"),
		ExportRetentionDays: 7,
	})

	files, err := service.ListStoredExports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)

	removed, err := service.CleanupExpiredExports(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
