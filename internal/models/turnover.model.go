package models

import (
	"slices"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Turnover struct {
	BaseUUIDModel
	Property      string                      `gorm:"type:varchar(100);not null;index" json:"property"`
	CheckIn       string                      `gorm:"type:varchar(10);index"            json:"checkIn"`
	CheckInTime   string                      `gorm:"type:varchar(5)"                   json:"checkInTime"`
	CheckOut      string                      `gorm:"type:varchar(10);index"            json:"checkOut"`
	CheckOutTime  string                      `gorm:"type:varchar(5)"                   json:"checkOutTime"`
	CleaningHours decimal.Decimal             `gorm:"type:numeric(5,1);not null"        json:"cleaningHours"`
	Extras        datatypes.JSONSlice[string] `gorm:"type:jsonb"                        json:"extras"`
	Worker        *string                     `gorm:"type:varchar(50)"                  json:"worker,omitempty"`
	Completed     bool                        `gorm:"not null;default:false"            json:"completed"`
}

// OccursOn reports whether the turnover checks in or out on date (YYYY-MM-DD).
func (t Turnover) OccursOn(date string) bool {
	if date == "" {
		return false
	}
	return t.CheckIn == date || t.CheckOut == date
}

func (t Turnover) WorkerName() string {
	if t.Worker == nil {
		return ""
	}
	return *t.Worker
}

// FilterByDate keeps the turnovers occurring on date, preserving order.
func FilterByDate(turnovers []*Turnover, date string) []*Turnover {
	result := make([]*Turnover, 0)
	for _, turnover := range turnovers {
		if turnover.OccursOn(date) {
			result = append(result, turnover)
		}
	}
	return result
}

// NormalizeExtras returns the selected extras in catalog order without duplicates.
// Unknown names are kept after the catalog entries so validation can report them.
func NormalizeExtras(selected []string) []string {
	result := make([]string, 0, len(selected))
	for _, extra := range Extras {
		if slices.Contains(selected, extra) {
			result = append(result, extra)
		}
	}
	for _, extra := range selected {
		if !IsExtra(extra) && !slices.Contains(result, extra) {
			result = append(result, extra)
		}
	}
	return result
}
