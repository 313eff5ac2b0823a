package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"turnovers/config"
	"turnovers/internal/database"
	. "turnovers/internal/models"
	"turnovers/internal/repositories"
	"turnovers/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubLister struct {
	turnovers []*Turnover
	err       error
}

func (s stubLister) GetAll(context.Context, *gorm.DB) ([]*Turnover, error) {
	return s.turnovers, s.err
}

type stubCleaner struct {
	removed  int
	err      error
	calledAt time.Time
}

func (s *stubCleaner) CleanupExpiredExports(_ context.Context, now time.Time) (int, error) {
	s.calledAt = now
	return s.removed, s.err
}

func TestDailyExportJob_Execute(t *testing.T) {
	dir := t.TempDir()
	lister := stubLister{turnovers: []*Turnover{
		{Property: "Benjamin", CheckIn: "2026-10-19", Extras: []string{"Agua"}},
	}}

	job := NewDailyExportJob(lister, services.NewExportService(), nil, dir, time.UTC, DailyExport)
	job.now = func() time.Time { return time.Date(2026, 10, 19, 2, 0, 0, 0, time.UTC) }

	require.NoError(t, job.Execute(context.Background()))

	contents, err := os.ReadFile(filepath.Join(dir, "rentals-2026-10-19.csv"))
	require.NoError(t, err)

	lines := strings.Split(string(contents), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `Benjamin,2026-10-19,,,,0,"Agua",,false`, lines[1])

	assert.Equal(t, DailyExportJobName, job.Name())
	assert.Equal(t, services.DailyExport, job.Schedule())
}

func TestDailyExportJob_Execute_UsesLocationDate(t *testing.T) {
	dir := t.TempDir()
	location, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	job := NewDailyExportJob(stubLister{}, services.NewExportService(), nil, dir, location, DailyExport)
	job.now = func() time.Time { return time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC) }

	require.NoError(t, job.Execute(context.Background()))

	_, err = os.Stat(filepath.Join(dir, "rentals-2026-10-19.csv"))
	assert.NoError(t, err)
}

func TestDailyExportJob_Execute_ListError(t *testing.T) {
	dbErr := errors.New("connection refused")
	job := NewDailyExportJob(stubLister{err: dbErr}, services.NewExportService(), nil, t.TempDir(), time.UTC, DailyExport)

	assert.ErrorIs(t, job.Execute(context.Background()), dbErr)
}

func TestFileCleanupJob_Execute(t *testing.T) {
	cleaner := &stubCleaner{removed: 3}
	job := NewFileCleanupJob(cleaner, DailyCleanup)
	fixed := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	require.NoError(t, job.Execute(context.Background()))
	assert.Equal(t, fixed, cleaner.calledAt)
	assert.Equal(t, ExportCleanupJobName, job.Name())
	assert.Equal(t, services.DailyCleanup, job.Schedule())
}

func TestFileCleanupJob_Execute_Error(t *testing.T) {
	cleanupErr := errors.New("permission denied")
	job := NewFileCleanupJob(&stubCleaner{err: cleanupErr}, DailyCleanup)

	assert.ErrorIs(t, job.Execute(context.Background()), cleanupErr)
}

func TestRegisterAllJobs(t *testing.T) {
	cfg := config.Config{
		SchedulerEnabled:    true,
		Timezone:            "UTC",
		ExportDir:           t.TempDir(),
		ExportRetentionDays: 30,
	}
	scheduler := services.NewSchedulerService(time.UTC)
	t.Cleanup(func() { _ = scheduler.Stop() })

	svc := services.Service{
		Export:      services.NewExportService(),
		FileCleanup: services.NewFileCleanupService(cfg),
	}
	repos := repositories.Repository{Turnover: repositories.NewTurnoverRepository(nil)}

	require.NoError(t, RegisterAllJobs(scheduler, cfg, svc, repos, database.DB{}))
	assert.Equal(t, 2, scheduler.GetJobCount())
}

func TestRegisterAllJobs_Disabled(t *testing.T) {
	scheduler := services.NewSchedulerService(time.UTC)
	t.Cleanup(func() { _ = scheduler.Stop() })

	err := RegisterAllJobs(scheduler, config.Config{}, services.Service{}, repositories.Repository{}, database.DB{})
	require.NoError(t, err)
	assert.Zero(t, scheduler.GetJobCount())
}
