package jobs

import (
	"turnovers/config"
	"turnovers/internal/database"
	"turnovers/internal/repositories"
	"turnovers/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	DailyExport  = services.DailyExport
	DailyCleanup = services.DailyCleanup
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
	repos repositories.Repository,
	db database.DB,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	location, err := config.Location()
	if err != nil {
		return log.Err("failed to resolve timezone", err, "timezone", config.Timezone)
	}

	dailyExportJob := NewDailyExportJob(
		repos.Turnover,
		services.Export,
		db.SQL,
		config.ExportDir,
		location,
		DailyExport,
	)
	if err := schedulerService.AddJob(dailyExportJob); err != nil {
		return log.Err("failed to register daily export job", err)
	}

	fileCleanupJob := NewFileCleanupJob(services.FileCleanup, DailyCleanup)
	if err := schedulerService.AddJob(fileCleanupJob); err != nil {
		return log.Err("failed to register export cleanup job", err)
	}

	log.Info("Registered jobs", "count", schedulerService.GetJobCount())
	return nil
}
