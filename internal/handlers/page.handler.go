package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"slices"
	"strings"
	"turnovers/internal/app"
	turnoverController "turnovers/internal/controllers/turnovers"
	. "turnovers/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

var panelTitles = map[string]string{
	"today":            "Para Hoy",
	"tomorrow":         "Para Mañana",
	"dayAfterTomorrow": "Para Pasado Mañana",
}

type PageHandler struct {
	Handler
	turnoverController turnoverController.TurnoverControllerInterface
	page               *template.Template
}

type pageData struct {
	Upcoming  *turnoverController.UpcomingTurnovers
	Turnovers []*Turnover
	Catalog   Catalog
	Error     string
}

// cardData feeds the card template. Only history cards carry the
// turnover-<id> anchor, so a record shown in a panel too keeps a unique id.
type cardData struct {
	Turnover *Turnover
	Catalog  Catalog
	Anchored bool
}

func NewPageHandler(app app.App, router fiber.Router) (*PageHandler, error) {
	log := logger.New("handlers").File("page_handler")

	page, err := parsePageTemplate()
	if err != nil {
		return nil, log.Err("failed to parse page template", err)
	}

	return &PageHandler{
		turnoverController: app.Controllers.Turnover,
		page:               page,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}, nil
}

func parsePageTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"panelTitle": func(key string) string {
			if title, ok := panelTitles[key]; ok {
				return title
			}
			return key
		},
		"joinExtras": func(extras []string) string {
			return strings.Join(extras, ", ")
		},
		"hasExtra": func(extras []string, extra string) bool {
			return slices.Contains(extras, extra)
		},
		"cardData": func(turnover *Turnover, catalog Catalog, anchored bool) cardData {
			return cardData{Turnover: turnover, Catalog: catalog, Anchored: anchored}
		},
	}

	return template.New("index.html").Funcs(funcMap).ParseFS(templateFS, "templates/index.html")
}

func (h *PageHandler) Register() {
	h.router.Get("/", h.middleware.PageSecurity(), h.index)

	turnovers := h.router.Group("/turnovers", h.middleware.PageSecurity())
	turnovers.Post("", h.createTurnover)
	turnovers.Post("/:id", h.replaceTurnover)
	turnovers.Post("/:id/toggle", h.toggleTurnover)
}

func (h *PageHandler) index(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "")
}

func (h *PageHandler) createTurnover(c *fiber.Ctx) error {
	req, err := formRequest(c)
	if err == nil {
		_, err = h.turnoverController.Create(c.UserContext(), req)
	}
	if err != nil {
		return h.render(c, errorStatus(err), errorMessage(err, "No se pudo registrar la vivienda"))
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *PageHandler) replaceTurnover(c *fiber.Ctx) error {
	turnoverID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.render(c, fiber.StatusBadRequest, "Identificador no válido")
	}

	req, err := formRequest(c)
	if err == nil {
		_, err = h.turnoverController.Replace(c.UserContext(), turnoverID, req)
	}
	if err != nil {
		return h.render(c, errorStatus(err), errorMessage(err, "No se pudo guardar el registro"))
	}

	return c.Redirect("/#turnover-"+turnoverID.String(), fiber.StatusSeeOther)
}

func (h *PageHandler) toggleTurnover(c *fiber.Ctx) error {
	turnoverID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.render(c, fiber.StatusBadRequest, "Identificador no válido")
	}

	if _, err := h.turnoverController.ToggleCompleted(c.UserContext(), turnoverID); err != nil {
		return h.render(c, errorStatus(err), errorMessage(err, "No se pudo actualizar el registro"))
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *PageHandler) render(c *fiber.Ctx, status int, errMsg string) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("render")
	ctx := c.UserContext()

	upcoming, err := h.turnoverController.Upcoming(ctx)
	if err != nil {
		log.Er("failed to load upcoming turnovers", err)
		return c.Status(fiber.StatusInternalServerError).SendString("No se pudieron cargar los registros")
	}

	turnovers, err := h.turnoverController.List(ctx)
	if err != nil {
		log.Er("failed to load turnovers", err)
		return c.Status(fiber.StatusInternalServerError).SendString("No se pudieron cargar los registros")
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, pageData{
		Upcoming:  upcoming,
		Turnovers: turnovers,
		Catalog:   h.turnoverController.Catalog(),
		Error:     errMsg,
	}); err != nil {
		log.Er("failed to render page", err)
		return c.Status(fiber.StatusInternalServerError).SendString("No se pudo mostrar la página")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// formRequest reads a turnover from an urlencoded form. Extras arrive as one
// value per checked box.
func formRequest(c *fiber.Ctx) (*turnoverController.TurnoverRequest, error) {
	hours := decimal.Zero
	if raw := strings.TrimSpace(c.FormValue("cleaningHours")); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid cleaningHours %q", turnoverController.ErrValidation, raw)
		}
		hours = parsed
	}

	extras := []string{}
	for _, value := range c.Request().PostArgs().PeekMulti("extras") {
		extras = append(extras, string(value))
	}

	return &turnoverController.TurnoverRequest{
		Property:      c.FormValue("property"),
		CheckIn:       c.FormValue("checkIn"),
		CheckInTime:   c.FormValue("checkInTime"),
		CheckOut:      c.FormValue("checkOut"),
		CheckOutTime:  c.FormValue("checkOutTime"),
		CleaningHours: hours,
		Extras:        extras,
		Worker:        c.FormValue("worker"),
	}, nil
}
