package handlers

import (
	"errors"
	"turnovers/internal/app"
	turnoverController "turnovers/internal/controllers/turnovers"
	"turnovers/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	HealthHandler(api, app.Config, app.Database, app.Services.Scheduler)
	NewTurnoverHandler(*app, api).Register()

	page, err := NewPageHandler(*app, router)
	if err != nil {
		return err
	}
	page.Register()

	return nil
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, turnoverController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, turnoverController.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// errorMessage exposes validation and not-found details to the client and
// hides everything else behind fallback.
func errorMessage(err error, fallback string) string {
	if errorStatus(err) == fiber.StatusInternalServerError {
		return fallback
	}
	return err.Error()
}
