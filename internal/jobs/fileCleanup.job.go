package jobs

import (
	"context"
	"time"
	"turnovers/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const ExportCleanupJobName = "ExportCleanup"

type exportCleaner interface {
	CleanupExpiredExports(ctx context.Context, now time.Time) (int, error)
}

type FileCleanupJob struct {
	fileCleanup exportCleaner
	log         logger.Logger
	schedule    services.Schedule
	now         func() time.Time
}

func NewFileCleanupJob(
	fileCleanup exportCleaner,
	schedule services.Schedule,
) *FileCleanupJob {
	log := logger.New("fileCleanupJob")
	log.Info("Creating new export cleanup job", "schedule", schedule.String())

	return &FileCleanupJob{
		fileCleanup: fileCleanup,
		log:         log,
		schedule:    schedule,
		now:         time.Now,
	}
}

func (j *FileCleanupJob) Name() string {
	return ExportCleanupJobName
}

func (j *FileCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting scheduled export cleanup")

	removed, err := j.fileCleanup.CleanupExpiredExports(ctx, j.now())
	if err != nil {
		return log.Err("scheduled cleanup failed", err)
	}

	log.Info("Scheduled export cleanup completed", "removed", removed)
	return nil
}

func (j *FileCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
