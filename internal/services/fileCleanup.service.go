package services

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"turnovers/config"

	logger "github.com/Bparsons0904/goLogger"
)

type FileCleanupService struct {
	exportDir     string
	retentionDays int
	log           logger.Logger
}

func NewFileCleanupService(config config.Config) *FileCleanupService {
	return &FileCleanupService{
		exportDir:     config.ExportDir,
		retentionDays: config.ExportRetentionDays,
		log:           logger.New("fileCleanupService"),
	}
}

type StoredFile struct {
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// ListStoredExports returns the dated CSV exports, oldest first.
func (fcs *FileCleanupService) ListStoredExports(ctx context.Context) ([]StoredFile, error) {
	log := fcs.log.Function("ListStoredExports")

	entries, err := os.ReadDir(fcs.exportDir)
	if os.IsNotExist(err) {
		log.Debug("Export directory does not exist", "directory", fcs.exportDir)
		return []StoredFile{}, nil
	}
	if err != nil {
		return nil, log.Err("failed to read export directory", err, "directory", fcs.exportDir)
	}

	files := make([]StoredFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isDatedExport(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, log.Err("failed to stat export", err, "file", entry.Name())
		}

		files = append(files, StoredFile{
			Path:       filepath.Join(fcs.exportDir, entry.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.Before(files[j].ModifiedAt)
	})

	return files, nil
}

// CleanupExpiredExports removes exports last modified more than the retention
// window before now. A retention of zero keeps every export.
func (fcs *FileCleanupService) CleanupExpiredExports(ctx context.Context, now time.Time) (int, error) {
	log := fcs.log.Function("CleanupExpiredExports")

	if fcs.retentionDays == 0 {
		log.Info("Export retention disabled, nothing to cleanup")
		return 0, nil
	}

	files, err := fcs.ListStoredExports(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := now.AddDate(0, 0, -fcs.retentionDays)

	var removeErrors []error
	removed := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		if !file.ModifiedAt.Before(cutoff) {
			continue
		}

		if err := os.Remove(file.Path); err != nil {
			removeErrors = append(removeErrors, err)
			log.Er("failed to remove export", err, "path", file.Path)
			continue
		}
		removed++
	}

	if len(removeErrors) > 0 {
		return removed, log.Err("failed to cleanup some exports", removeErrors[0], "errorCount", len(removeErrors))
	}

	log.Info("Expired exports cleaned up", "directory", fcs.exportDir, "removed", removed)
	return removed, nil
}

func isDatedExport(name string) bool {
	return strings.HasPrefix(name, ExportFilePrefix) && strings.HasSuffix(name, ExportFileSuffix)
}
