package initialize

import (
	"os"
	"turnovers/config"

	logger "github.com/Bparsons0904/goLogger"
)

// InitializeStorage creates the export directory the daily export job writes to.
func InitializeStorage(config config.Config, log logger.Logger) error {
	log = log.Function("InitializeStorage")

	if config.ExportDir == "" {
		log.Info("No export directory configured, skipping")
		return nil
	}

	if err := os.MkdirAll(config.ExportDir, 0o755); err != nil {
		return log.Err("failed to create export directory", err, "directory", config.ExportDir)
	}

	log.Info("Export directory ready", "directory", config.ExportDir)
	return nil
}
