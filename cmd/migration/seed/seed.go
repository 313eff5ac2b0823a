package seed

import (
	"context"
	"time"
	. "turnovers/internal/models"
	"turnovers/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

// SampleTurnovers builds development data spread around today so every
// upcoming panel has something to show.
func SampleTurnovers(now time.Time, location *time.Location) []*Turnover {
	day := func(offset int) string {
		return utils.DayOffset(now, location, offset)
	}

	return []*Turnover{
		{
			Property:      "La perla A4",
			CheckIn:       day(-3),
			CheckInTime:   "16:00",
			CheckOut:      day(0),
			CheckOutTime:  "11:00",
			CleaningHours: decimal.RequireFromString("2.5"),
			Extras:        []string{"Agua", "Vino"},
			Worker:        stringPtr("Rosa"),
		},
		{
			Property:      "Marbella",
			CheckIn:       day(0),
			CheckInTime:   "17:00",
			CheckOut:      day(4),
			CheckOutTime:  "10:00",
			CleaningHours: decimal.NewFromInt(3),
			Extras:        []string{"Papel"},
			Worker:        stringPtr("Nicole"),
		},
		{
			Property:      "Benjamin",
			CheckIn:       day(1),
			CheckInTime:   "15:30",
			CheckOut:      day(5),
			CleaningHours: decimal.RequireFromString("1.5"),
			Extras:        []string{},
		},
		{
			Property:      "Mar azul",
			CheckIn:       day(-6),
			CheckOut:      day(2),
			CheckOutTime:  "12:00",
			CleaningHours: decimal.NewFromInt(4),
			Extras:        []string{"Agua", "Vino", "Papel"},
			Worker:        stringPtr("Joan"),
		},
		{
			Property:      "La ola estudio",
			CheckIn:       day(-10),
			CheckOut:      day(-7),
			CleaningHours: decimal.NewFromInt(2),
			Extras:        []string{"Agua"},
			Worker:        stringPtr("Rosa"),
			Completed:     true,
		},
	}
}

func Seed(db *gorm.DB, now time.Time, location *time.Location, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	turnovers := SampleTurnovers(now, location)
	for _, turnover := range turnovers {
		if err := gorm.G[Turnover](db).Create(context.Background(), turnover); err != nil {
			return log.Err("failed to create turnover", err, "property", turnover.Property)
		}
		log.Debug("Seeded turnover", "property", turnover.Property, "turnoverID", turnover.ID)
	}

	log.Info("Seeding complete", "count", len(turnovers))
	return nil
}
