package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
)

type Schedule int

const (
	DailyExport Schedule = iota
	DailyCleanup
)

// dailyAt holds the local wall clock time of each daily schedule. Cleanup runs
// after the export so the fresh file is never pruned.
var dailyAt = map[Schedule]string{
	DailyExport:  "02:00",
	DailyCleanup: "03:00",
}

func (s Schedule) String() string {
	if at, ok := dailyAt[s]; ok {
		return "daily@" + at
	}
	return fmt.Sprintf("schedule(%d)", int(s))
}

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      map[string]Job
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewSchedulerService creates a scheduler whose daily times are interpreted in loc.
func NewSchedulerService(loc *time.Location) *SchedulerService {
	if loc == nil {
		loc = time.UTC
	}

	ctx, cancel := context.WithCancel(context.Background())

	scheduler := gocron.NewScheduler(loc)
	scheduler.TagsUnique()

	return &SchedulerService{
		scheduler: scheduler,
		jobs:      make(map[string]Job),
		log:       logger.New("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// AddJob registers job under its name. A run still in progress when the next
// one is due is not overlapped.
func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	if _, exists := s.jobs[job.Name()]; exists {
		return log.Error("job already registered", "job", job.Name())
	}

	at, daily := dailyAt[job.Schedule()]
	if !daily {
		return log.Error("unsupported schedule", "job", job.Name(), "schedule", job.Schedule().String())
	}

	_, err := s.scheduler.Every(1).Day().At(at).Tag(job.Name()).SingletonMode().Do(s.run, job)
	if err != nil {
		return log.Err("failed to register job with scheduler", err, "job", job.Name())
	}

	s.jobs[job.Name()] = job
	log.Info("Job registered", "job", job.Name(), "schedule", job.Schedule().String())

	return nil
}

func (s *SchedulerService) run(job Job) {
	log := s.log.Function("run")
	started := time.Now()

	if err := job.Execute(s.ctx); err != nil {
		log.Er("Scheduled job failed", err, "job", job.Name())
		return
	}

	log.Info("Scheduled job finished", "job", job.Name(), "duration", time.Since(started))
}

func (s *SchedulerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started {
		return nil
	}

	if len(s.jobs) == 0 {
		log.Info("No jobs registered, scheduler not started")
		return nil
	}

	s.scheduler.StartAsync()
	s.started = true

	for _, scheduled := range s.scheduler.Jobs() {
		log.Info("Job scheduled", "tags", scheduled.Tags(), "nextRun", scheduled.NextRun())
	}

	return nil
}

// Stop cancels the context handed to running jobs and stops the scheduler.
func (s *SchedulerService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()

	if !s.started {
		return nil
	}

	s.scheduler.Stop()
	s.started = false

	s.log.Function("Stop").Info("Scheduler stopped")
	return nil
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) GetJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// TriggerJobByName runs a registered job immediately and waits for it.
func (s *SchedulerService) TriggerJobByName(ctx context.Context, jobName string) error {
	s.mu.Lock()
	job, ok := s.jobs[jobName]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("job not found: %s", jobName)
	}

	s.log.Function("TriggerJobByName").Info("Manually triggering job", "job", jobName)
	return job.Execute(ctx)
}
