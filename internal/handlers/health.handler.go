package handlers

import (
	"context"
	"time"
	"turnovers/config"
	"turnovers/internal/database"
	"turnovers/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

const healthCheckTimeout = 2 * time.Second

func HealthHandler(
	router fiber.Router,
	config config.Config,
	db database.DB,
	scheduler *services.SchedulerService,
) {
	log := logger.New("handlers").File("health_handler").Function("health")

	router.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
		defer cancel()

		status := "ok"
		code := fiber.StatusOK
		if err := db.Ping(ctx); err != nil {
			log.Er("health check failed", err)
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}

		schedulerStatus := "stopped"
		if scheduler != nil && scheduler.IsRunning() {
			schedulerStatus = "running"
		}

		return c.Status(code).JSON(fiber.Map{
			"status":    status,
			"version":   config.GeneralVersion,
			"service":   "turnovers_api",
			"scheduler": schedulerStatus,
		})
	})
}
