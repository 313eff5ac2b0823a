package app

import (
	"turnovers/config"
	"turnovers/internal/controllers"
	"turnovers/internal/database"
	"turnovers/internal/handlers/middleware"
	"turnovers/internal/jobs"
	"turnovers/internal/repositories"
	"turnovers/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	services, err := services.New(db, config)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	repos := repositories.New(db)

	controllers, err := controllers.New(services, repos, config, db)
	if err != nil {
		return &App{}, log.Err("failed to create controllers", err)
	}

	if err := jobs.RegisterAllJobs(services.Scheduler, config, services, repos, db); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:    db,
		Middleware:  middleware.New(config),
		Config:      config,
		Services:    services,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	missing := map[string]bool{
		"transactionService": a.Services.Transaction == nil,
		"schedulerService":   a.Services.Scheduler == nil,
		"exportService":      a.Services.Export == nil,
		"fileCleanupService": a.Services.FileCleanup == nil,
		"turnoverRepository": a.Repos.Turnover == nil,
		"turnoverController": a.Controllers.Turnover == nil,
	}

	for name, isMissing := range missing {
		if isMissing {
			return log.ErrMsg("nil check failed: " + name)
		}
	}

	return nil
}

// StartScheduler starts background jobs; a scheduler without jobs stays idle.
func (a *App) StartScheduler() error {
	if a.Services.Scheduler == nil {
		return nil
	}
	return a.Services.Scheduler.Start()
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
