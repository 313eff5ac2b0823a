package repositories

import (
	"context"
	"fmt"
	"time"
	"turnovers/internal/constants"
	"turnovers/internal/database"
	. "turnovers/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// replaceColumns are the columns a full-record edit may overwrite. The ID and
// creation time are never part of an edit.
var replaceColumns = []string{
	"property",
	"check_in",
	"check_in_time",
	"check_out",
	"check_out_time",
	"cleaning_hours",
	"extras",
	"worker",
	"completed",
	"updated_at",
}

type TurnoverRepository interface {
	Create(ctx context.Context, tx *gorm.DB, turnover *Turnover) error
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Turnover, error)
	GetByID(ctx context.Context, tx *gorm.DB, turnoverID uuid.UUID) (*Turnover, error)
	Replace(ctx context.Context, tx *gorm.DB, turnover *Turnover) (*Turnover, error)
	ToggleCompleted(ctx context.Context, tx *gorm.DB, turnoverID uuid.UUID) (*Turnover, error)
	RefreshSnapshot(ctx context.Context, tx *gorm.DB)
}

type turnoverRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewTurnoverRepository(cache database.CacheClient) TurnoverRepository {
	return &turnoverRepository{
		cache: cache,
		log:   logger.New("turnoverRepository"),
	}
}

func (r *turnoverRepository) Create(ctx context.Context, tx *gorm.DB, turnover *Turnover) error {
	log := r.log.Function("Create")

	if err := gorm.G[Turnover](tx).Create(ctx, turnover); err != nil {
		return log.Err("failed to create turnover", err, "property", turnover.Property)
	}

	return nil
}

// GetAll returns every turnover in insertion order. UUIDv7 identifiers break
// ties between rows created within the same timestamp.
//
// The snapshot is read and filled under the generation seen before the query.
// A fill never overwrites an existing snapshot, and a fill that raced a write
// lands under a generation RefreshSnapshot has already moved past.
func (r *turnoverRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*Turnover, error) {
	log := r.log.Function("GetAll")

	generation, cached := r.currentGeneration(ctx)
	if cached {
		turnovers, found, err := r.snapshot(ctx, generation).Get()
		if err != nil {
			log.Warn("failed to get turnover snapshot from cache", "error", err)
		}

		if found {
			log.Debug("Turnovers retrieved from cache", "count", len(turnovers), "generation", generation)
			return turnovers, nil
		}
	}

	turnovers, err := r.load(ctx, tx)
	if err != nil {
		return nil, log.Err("failed to get turnovers", err)
	}

	if cached {
		if err := r.snapshot(ctx, generation).WithNX().Set(turnovers); err != nil {
			log.Warn("failed to fill turnover snapshot", "error", err, "generation", generation)
		}
	}

	log.Debug("Turnovers retrieved from database", "count", len(turnovers))

	return turnovers, nil
}

func (r *turnoverRepository) load(ctx context.Context, tx *gorm.DB) ([]*Turnover, error) {
	turnovers, err := gorm.G[*Turnover](tx).
		Order("created_at ASC, id ASC").
		Find(ctx)
	if err != nil {
		return nil, err
	}

	if turnovers == nil {
		turnovers = []*Turnover{}
	}
	return turnovers, nil
}

func (r *turnoverRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	turnoverID uuid.UUID,
) (*Turnover, error) {
	log := r.log.Function("GetByID")

	turnover, err := gorm.G[*Turnover](tx).
		Where("id = ?", turnoverID).
		First(ctx)
	if err != nil {
		return nil, log.Err("failed to get turnover", err, "turnoverID", turnoverID)
	}

	return turnover, nil
}

func (r *turnoverRepository) Replace(
	ctx context.Context,
	tx *gorm.DB,
	turnover *Turnover,
) (*Turnover, error) {
	log := r.log.Function("Replace")

	result := tx.WithContext(ctx).
		Model(&Turnover{}).
		Where("id = ?", turnover.ID).
		Select(replaceColumns).
		Updates(map[string]any{
			"property":       turnover.Property,
			"check_in":       turnover.CheckIn,
			"check_in_time":  turnover.CheckInTime,
			"check_out":      turnover.CheckOut,
			"check_out_time": turnover.CheckOutTime,
			"cleaning_hours": turnover.CleaningHours,
			"extras":         turnover.Extras,
			"worker":         turnover.Worker,
			"completed":      turnover.Completed,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, log.Err("failed to replace turnover", result.Error, "turnoverID", turnover.ID)
	}

	if result.RowsAffected == 0 {
		return nil, log.Err("turnover not found", gorm.ErrRecordNotFound, "turnoverID", turnover.ID)
	}

	return r.GetByID(ctx, tx, turnover.ID)
}

func (r *turnoverRepository) ToggleCompleted(
	ctx context.Context,
	tx *gorm.DB,
	turnoverID uuid.UUID,
) (*Turnover, error) {
	log := r.log.Function("ToggleCompleted")

	result := tx.WithContext(ctx).
		Model(&Turnover{}).
		Where("id = ?", turnoverID).
		Updates(map[string]any{
			"completed":  gorm.Expr("NOT completed"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, log.Err("failed to toggle turnover", result.Error, "turnoverID", turnoverID)
	}

	if result.RowsAffected == 0 {
		return nil, log.Err("turnover not found", gorm.ErrRecordNotFound, "turnoverID", turnoverID)
	}

	return r.GetByID(ctx, tx, turnoverID)
}

// RefreshSnapshot starts a new snapshot generation and stores the collection
// under it. Call it after the write has committed. Cache failures are logged
// and never fail the write.
func (r *turnoverRepository) RefreshSnapshot(ctx context.Context, tx *gorm.DB) {
	if r.cache == nil {
		return
	}

	log := r.log.Function("RefreshSnapshot")

	generation, err := r.generationCounter(ctx).Incr()
	if err != nil {
		log.Warn("failed to advance turnover snapshot generation", "error", err)
		return
	}

	turnovers, err := r.load(ctx, tx)
	if err != nil {
		log.Warn("failed to reload turnovers for snapshot", "error", err, "generation", generation)
		return
	}

	if err := r.snapshot(ctx, generation).Set(turnovers); err != nil {
		log.Warn("failed to store turnover snapshot", "error", err, "generation", generation)
		return
	}

	if err := r.snapshot(ctx, generation-1).Delete(); err != nil {
		log.Debug("failed to drop previous turnover snapshot", "error", err, "generation", generation-1)
	}

	log.Debug("Turnover snapshot refreshed", "count", len(turnovers), "generation", generation)
}

// currentGeneration reports false when the cache is absent or unreachable.
func (r *turnoverRepository) currentGeneration(ctx context.Context) (int64, bool) {
	if r.cache == nil {
		return 0, false
	}

	generation, _, err := r.generationCounter(ctx).Get()
	if err != nil {
		r.log.Function("currentGeneration").Warn("failed to read turnover snapshot generation", "error", err)
		return 0, false
	}

	return generation, true
}

func (r *turnoverRepository) generationCounter(ctx context.Context) *database.CacheBuilder[int64] {
	return database.NewCacheBuilder[int64](r.cache, constants.TurnoverGenerationKey).
		WithContext(ctx).
		WithTimeout(constants.TurnoverCacheTimeout).
		WithHash(constants.TurnoverCachePrefix)
}

func (r *turnoverRepository) snapshot(ctx context.Context, generation int64) *database.CacheBuilder[[]*Turnover] {
	key := fmt.Sprintf("%s:%d", constants.TurnoverSnapshotKey, generation)

	return database.NewCacheBuilder[[]*Turnover](r.cache, key).
		WithContext(ctx).
		WithTimeout(constants.TurnoverCacheTimeout).
		WithTTL(constants.TurnoverCacheExpiry).
		WithHash(constants.TurnoverCachePrefix)
}
