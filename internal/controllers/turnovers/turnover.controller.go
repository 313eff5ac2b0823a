package turnoverController

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"turnovers/internal/database"
	. "turnovers/internal/models"
	"turnovers/internal/repositories"
	"turnovers/internal/services"
	"turnovers/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	UpcomingDays     = 3
	MaxCleaningHours = 24
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")

	halfHourSteps = decimal.NewFromInt(2)
)

// Transactor runs fn inside a database transaction.
type Transactor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

type TurnoverRequest struct {
	Property      string          `json:"property"`
	CheckIn       string          `json:"checkIn"`
	CheckInTime   string          `json:"checkInTime"`
	CheckOut      string          `json:"checkOut"`
	CheckOutTime  string          `json:"checkOutTime"`
	CleaningHours decimal.Decimal `json:"cleaningHours"`
	Extras        []string        `json:"extras"`
	Worker        string          `json:"worker"`
	Completed     *bool           `json:"completed,omitempty"`
}

type UpcomingPanel struct {
	Key       string      `json:"key"`
	Date      string      `json:"date"`
	Turnovers []*Turnover `json:"turnovers"`
}

type UpcomingTurnovers struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Panels      []UpcomingPanel `json:"panels"`
}

// Panel returns the panel for the given day offset (0 is today).
func (u UpcomingTurnovers) Panel(offset int) UpcomingPanel {
	if offset < 0 || offset >= len(u.Panels) {
		return UpcomingPanel{}
	}
	return u.Panels[offset]
}

var panelKeys = [UpcomingDays]string{"today", "tomorrow", "dayAfterTomorrow"}

type TurnoverControllerInterface interface {
	Create(ctx context.Context, request *TurnoverRequest) (*Turnover, error)
	List(ctx context.Context) ([]*Turnover, error)
	Get(ctx context.Context, turnoverID uuid.UUID) (*Turnover, error)
	Replace(ctx context.Context, turnoverID uuid.UUID, request *TurnoverRequest) (*Turnover, error)
	ToggleCompleted(ctx context.Context, turnoverID uuid.UUID) (*Turnover, error)
	Upcoming(ctx context.Context) (*UpcomingTurnovers, error)
	Export(ctx context.Context) ([]byte, error)
	Catalog() Catalog
}

type TurnoverController struct {
	turnoverRepo  repositories.TurnoverRepository
	transactor    Transactor
	exportService *services.ExportService
	db            database.DB
	location      *time.Location
	now           func() time.Time
	log           logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
	location *time.Location,
) TurnoverControllerInterface {
	return NewWithDependencies(repos.Turnover, services.Transaction, services.Export, db, location, time.Now)
}

func NewWithDependencies(
	turnoverRepo repositories.TurnoverRepository,
	transactor Transactor,
	exportService *services.ExportService,
	db database.DB,
	location *time.Location,
	now func() time.Time,
) *TurnoverController {
	if location == nil {
		location = time.UTC
	}

	return &TurnoverController{
		turnoverRepo:  turnoverRepo,
		transactor:    transactor,
		exportService: exportService,
		db:            db,
		location:      location,
		now:           now,
		log:           logger.New("turnoverController"),
	}
}

func (c *TurnoverController) Create(ctx context.Context, request *TurnoverRequest) (*Turnover, error) {
	log := c.log.TraceFromContext(ctx).Function("Create")

	if err := validateRequest(request); err != nil {
		log.Warn("invalid turnover request", "error", err)
		return nil, err
	}

	turnover := &Turnover{}
	applyRequest(turnover, request)
	turnover.Completed = false

	if err := c.turnoverRepo.Create(ctx, c.db.SQL, turnover); err != nil {
		return nil, log.Err("failed to create turnover", err, "property", turnover.Property)
	}

	c.turnoverRepo.RefreshSnapshot(ctx, c.db.SQL)

	log.Info("Turnover created", "turnoverID", turnover.ID, "property", turnover.Property)

	return turnover, nil
}

func (c *TurnoverController) List(ctx context.Context) ([]*Turnover, error) {
	log := c.log.TraceFromContext(ctx).Function("List")

	turnovers, err := c.turnoverRepo.GetAll(ctx, c.db.SQL)
	if err != nil {
		return nil, log.Err("failed to list turnovers", err)
	}

	return turnovers, nil
}

func (c *TurnoverController) Get(ctx context.Context, turnoverID uuid.UUID) (*Turnover, error) {
	log := c.log.TraceFromContext(ctx).Function("Get")

	turnover, err := c.turnoverRepo.GetByID(ctx, c.db.SQL, turnoverID)
	if err != nil {
		return nil, notFoundOr(log, err, "failed to get turnover", turnoverID)
	}

	return turnover, nil
}

// Replace overwrites every editable field of the turnover with turnoverID. The
// identifier never changes and the completion flag is kept unless the request
// sets it.
func (c *TurnoverController) Replace(
	ctx context.Context,
	turnoverID uuid.UUID,
	request *TurnoverRequest,
) (*Turnover, error) {
	log := c.log.TraceFromContext(ctx).Function("Replace")

	if err := validateRequest(request); err != nil {
		log.Warn("invalid turnover request", "turnoverID", turnoverID, "error", err)
		return nil, err
	}

	var updated *Turnover
	err := c.transactor.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		existing, err := c.turnoverRepo.GetByID(ctx, tx, turnoverID)
		if err != nil {
			return err
		}

		applyRequest(existing, request)

		updated, err = c.turnoverRepo.Replace(ctx, tx, existing)
		return err
	})
	if err != nil {
		return nil, notFoundOr(log, err, "failed to replace turnover", turnoverID)
	}

	c.turnoverRepo.RefreshSnapshot(ctx, c.db.SQL)
	log.Info("Turnover replaced", "turnoverID", turnoverID)

	return updated, nil
}

func (c *TurnoverController) ToggleCompleted(
	ctx context.Context,
	turnoverID uuid.UUID,
) (*Turnover, error) {
	log := c.log.TraceFromContext(ctx).Function("ToggleCompleted")

	var toggled *Turnover
	err := c.transactor.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		toggled, err = c.turnoverRepo.ToggleCompleted(ctx, tx, turnoverID)
		return err
	})
	if err != nil {
		return nil, notFoundOr(log, err, "failed to toggle turnover", turnoverID)
	}

	c.turnoverRepo.RefreshSnapshot(ctx, c.db.SQL)
	log.Info("Turnover completion toggled", "turnoverID", turnoverID, "completed", toggled.Completed)

	return toggled, nil
}

// Upcoming groups turnovers into panels for today and the following two days,
// using calendar dates in the configured location.
func (c *TurnoverController) Upcoming(ctx context.Context) (*UpcomingTurnovers, error) {
	log := c.log.TraceFromContext(ctx).Function("Upcoming")

	turnovers, err := c.turnoverRepo.GetAll(ctx, c.db.SQL)
	if err != nil {
		return nil, log.Err("failed to load turnovers", err)
	}

	now := c.now()
	upcoming := &UpcomingTurnovers{
		GeneratedAt: now,
		Panels:      make([]UpcomingPanel, 0, UpcomingDays),
	}

	for offset := range UpcomingDays {
		date := utils.DayOffset(now, c.location, offset)
		upcoming.Panels = append(upcoming.Panels, UpcomingPanel{
			Key:       panelKeys[offset],
			Date:      date,
			Turnovers: FilterByDate(turnovers, date),
		})
	}

	return upcoming, nil
}

func (c *TurnoverController) Export(ctx context.Context) ([]byte, error) {
	log := c.log.TraceFromContext(ctx).Function("Export")

	turnovers, err := c.turnoverRepo.GetAll(ctx, c.db.SQL)
	if err != nil {
		return nil, log.Err("failed to load turnovers", err)
	}

	data, err := c.exportService.BuildCSV(turnovers)
	if err != nil {
		return nil, log.Err("failed to build export", err, "rows", len(turnovers))
	}

	log.Info("Turnovers exported", "rows", len(turnovers))
	return data, nil
}

func (c *TurnoverController) Catalog() Catalog {
	return DefaultCatalog()
}

func validateRequest(request *TurnoverRequest) error {
	if request == nil {
		return fmt.Errorf("%w: request body is required", ErrValidation)
	}

	request.Property = strings.TrimSpace(request.Property)
	request.Worker = strings.TrimSpace(request.Worker)
	request.CheckIn = strings.TrimSpace(request.CheckIn)
	request.CheckInTime = strings.TrimSpace(request.CheckInTime)
	request.CheckOut = strings.TrimSpace(request.CheckOut)
	request.CheckOutTime = strings.TrimSpace(request.CheckOutTime)
	request.Extras = NormalizeExtras(request.Extras)

	if request.Property == "" {
		return fmt.Errorf("%w: property is required", ErrValidation)
	}

	if !IsProperty(request.Property) {
		return fmt.Errorf("%w: unknown property %q", ErrValidation, request.Property)
	}

	if request.Worker != "" && !IsWorker(request.Worker) {
		return fmt.Errorf("%w: unknown worker %q", ErrValidation, request.Worker)
	}

	for _, extra := range request.Extras {
		if !IsExtra(extra) {
			return fmt.Errorf("%w: unknown extra %q", ErrValidation, extra)
		}
	}

	for _, date := range []string{request.CheckIn, request.CheckOut} {
		if err := utils.ValidateDate(date); err != nil {
			return fmt.Errorf("%w: %s", ErrValidation, err)
		}
	}

	for _, clock := range []*string{&request.CheckInTime, &request.CheckOutTime} {
		normalized, err := utils.NormalizeClock(*clock)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrValidation, err)
		}
		*clock = normalized
	}

	// ISO dates order lexically.
	if request.CheckIn != "" && request.CheckOut != "" && request.CheckOut < request.CheckIn {
		return fmt.Errorf("%w: checkOut cannot be before checkIn", ErrValidation)
	}

	if request.CleaningHours.IsNegative() {
		return fmt.Errorf("%w: cleaningHours cannot be negative", ErrValidation)
	}

	if request.CleaningHours.GreaterThan(decimal.NewFromInt(MaxCleaningHours)) {
		return fmt.Errorf("%w: cleaningHours cannot exceed %d", ErrValidation, MaxCleaningHours)
	}

	if !request.CleaningHours.Mul(halfHourSteps).IsInteger() {
		return fmt.Errorf("%w: cleaningHours must be in half hour steps", ErrValidation)
	}

	return nil
}

func applyRequest(turnover *Turnover, request *TurnoverRequest) {
	turnover.Property = request.Property
	turnover.CheckIn = request.CheckIn
	turnover.CheckInTime = request.CheckInTime
	turnover.CheckOut = request.CheckOut
	turnover.CheckOutTime = request.CheckOutTime
	turnover.CleaningHours = request.CleaningHours
	turnover.Extras = append([]string{}, request.Extras...)

	turnover.Worker = nil
	if request.Worker != "" {
		worker := request.Worker
		turnover.Worker = &worker
	}

	if request.Completed != nil {
		turnover.Completed = *request.Completed
	}
}

func notFoundOr(log logger.Logger, err error, msg string, turnoverID uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("turnover not found", "turnoverID", turnoverID)
		return fmt.Errorf("%w: turnover %s", ErrNotFound, turnoverID)
	}
	return log.Err(msg, err, "turnoverID", turnoverID)
}
