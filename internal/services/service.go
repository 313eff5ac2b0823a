package services

import (
	"turnovers/config"
	"turnovers/internal/database"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Export      *ExportService
	FileCleanup *FileCleanupService
}

func New(db database.DB, config config.Config) (Service, error) {
	location, err := config.Location()
	if err != nil {
		return Service{}, err
	}

	return Service{
		Transaction: NewTransactionService(db),
		Scheduler:   NewSchedulerService(location),
		Export:      NewExportService(),
		FileCleanup: NewFileCleanupService(config),
	}, nil
}
