package handlers

import (
	"turnovers/internal/app"
	turnoverController "turnovers/internal/controllers/turnovers"
	"turnovers/internal/handlers/middleware"
	"turnovers/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TurnoverHandler struct {
	Handler
	turnoverController turnoverController.TurnoverControllerInterface
}

func NewTurnoverHandler(app app.App, router fiber.Router) *TurnoverHandler {
	log := logger.New("handlers").File("turnover_handler")
	return &TurnoverHandler{
		turnoverController: app.Controllers.Turnover,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TurnoverHandler) Register() {
	h.router.Get("/catalog", h.getCatalog)

	turnovers := h.router.Group("/turnovers")
	turnovers.Get("", h.listTurnovers)
	turnovers.Post("", h.createTurnover)
	turnovers.Get("/upcoming", h.getUpcoming)
	turnovers.Get("/export", h.exportTurnovers)
	turnovers.Get("/:id", h.getTurnover)
	turnovers.Put("/:id", h.replaceTurnover)
	turnovers.Patch("/:id/toggle", h.toggleTurnover)
}

func (h *TurnoverHandler) getCatalog(c *fiber.Ctx) error {
	return c.JSON(h.turnoverController.Catalog())
}

func (h *TurnoverHandler) listTurnovers(c *fiber.Ctx) error {
	turnovers, err := h.turnoverController.List(c.UserContext())
	if err != nil {
		return h.errorResponse(c, err, "Failed to list turnovers")
	}

	return c.JSON(fiber.Map{
		"turnovers": turnovers,
	})
}

func (h *TurnoverHandler) createTurnover(c *fiber.Ctx) error {
	var req turnoverController.TurnoverRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	turnover, err := h.turnoverController.Create(c.UserContext(), &req)
	if err != nil {
		return h.errorResponse(c, err, "Failed to create turnover")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"turnover": turnover,
	})
}

func (h *TurnoverHandler) getUpcoming(c *fiber.Ctx) error {
	upcoming, err := h.turnoverController.Upcoming(c.UserContext())
	if err != nil {
		return h.errorResponse(c, err, "Failed to load upcoming turnovers")
	}

	return c.JSON(upcoming)
}

func (h *TurnoverHandler) exportTurnovers(c *fiber.Ctx) error {
	data, err := h.turnoverController.Export(c.UserContext())
	if err != nil {
		return h.errorResponse(c, err, "Failed to export turnovers")
	}

	c.Attachment(services.ExportFileName)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(data)
}

func (h *TurnoverHandler) getTurnover(c *fiber.Ctx) error {
	turnoverID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid turnover ID",
		})
	}

	turnover, err := h.turnoverController.Get(c.UserContext(), turnoverID)
	if err != nil {
		return h.errorResponse(c, err, "Failed to get turnover")
	}

	return c.JSON(fiber.Map{
		"turnover": turnover,
	})
}

func (h *TurnoverHandler) replaceTurnover(c *fiber.Ctx) error {
	turnoverID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid turnover ID",
		})
	}

	var req turnoverController.TurnoverRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	turnover, err := h.turnoverController.Replace(c.UserContext(), turnoverID, &req)
	if err != nil {
		return h.errorResponse(c, err, "Failed to update turnover")
	}

	return c.JSON(fiber.Map{
		"turnover": turnover,
	})
}

func (h *TurnoverHandler) toggleTurnover(c *fiber.Ctx) error {
	turnoverID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid turnover ID",
		})
	}

	turnover, err := h.turnoverController.ToggleCompleted(c.UserContext(), turnoverID)
	if err != nil {
		return h.errorResponse(c, err, "Failed to toggle turnover")
	}

	return c.JSON(fiber.Map{
		"turnover": turnover,
	})
}

func (h *TurnoverHandler) errorResponse(c *fiber.Ctx, err error, fallback string) error {
	status := errorStatus(err)
	body := fiber.Map{
		"error": errorMessage(err, fallback),
	}

	if status == fiber.StatusInternalServerError {
		h.log.TraceFromContext(c.UserContext()).Function("errorResponse").Er(fallback, err, "path", c.Path())
		if traceID := middleware.GetTraceID(c); traceID != "" {
			body["traceId"] = traceID
		}
	}

	return c.Status(status).JSON(body)
}
