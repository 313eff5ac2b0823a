package jobs

import (
	"context"
	"time"
	. "turnovers/internal/models"
	"turnovers/internal/services"
	"turnovers/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const DailyExportJobName = "DailyTurnoverExport"

type turnoverLister interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Turnover, error)
}

type exportWriter interface {
	WriteFile(ctx context.Context, dir string, date string, turnovers []*Turnover) (string, error)
}

// DailyExportJob writes the full turnover list to a dated CSV file so a copy
// of each day's schedule survives outside the database.
type DailyExportJob struct {
	turnovers turnoverLister
	exporter  exportWriter
	db        *gorm.DB
	exportDir string
	location  *time.Location
	schedule  services.Schedule
	now       func() time.Time
	log       logger.Logger
}

func NewDailyExportJob(
	turnovers turnoverLister,
	exporter exportWriter,
	db *gorm.DB,
	exportDir string,
	location *time.Location,
	schedule services.Schedule,
) *DailyExportJob {
	log := logger.New("dailyExportJob")
	log.Info("Creating new daily export job", "schedule", schedule.String(), "directory", exportDir)

	if location == nil {
		location = time.UTC
	}

	return &DailyExportJob{
		turnovers: turnovers,
		exporter:  exporter,
		db:        db,
		exportDir: exportDir,
		location:  location,
		schedule:  schedule,
		now:       time.Now,
		log:       log,
	}
}

func (j *DailyExportJob) Name() string {
	return DailyExportJobName
}

func (j *DailyExportJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	turnovers, err := j.turnovers.GetAll(ctx, j.db)
	if err != nil {
		return log.Err("failed to load turnovers", err)
	}

	date := utils.DayOffset(j.now(), j.location, 0)
	path, err := j.exporter.WriteFile(ctx, j.exportDir, date, turnovers)
	if err != nil {
		return log.Err("failed to write daily export", err, "date", date)
	}

	log.Info("Daily export completed", "path", path, "rows", len(turnovers))
	return nil
}

func (j *DailyExportJob) Schedule() services.Schedule {
	return j.schedule
}
