package models

import (
	"time"

	"github.com/shopspring/decimal"

	"ledgercast/internal/month"
)

// RecordKind distinguishes the two projection record lifecycles. The
// shapes are identical; forecasts and scenarios only conflict with
// other records of the same kind.
type RecordKind string

const (
	RecordKindForecast RecordKind = "forecast"
	RecordKindScenario RecordKind = "scenario"
)

// RecordStatus is the lifecycle state of a projection record
type RecordStatus string

const (
	RecordStatusActive RecordStatus = "active"
	RecordStatusPaused RecordStatus = "paused"
)

// ProjectionMethod names the calculation used to project monthly values
type ProjectionMethod string

const (
	MethodGrowthRate  ProjectionMethod = "growth_rate"
	MethodFixedAmount ProjectionMethod = "fixed_amount"
)

// ProjectionRecord is a persisted forecast or scenario definition: a
// set of target account rows, a month range, and a projection method
// with its parameters. No two active records of the same kind may
// share both an account and an overlapping month range.
type ProjectionRecord struct {
	Base
	UserID         string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind           RecordKind       `gorm:"not null;index" json:"kind"`
	Name           string           `gorm:"not null" json:"name"`
	AccountIDs     []string         `gorm:"serializer:json" json:"account_ids"`
	Method         ProjectionMethod `gorm:"not null" json:"method"`
	GrowthRate     *decimal.Decimal `gorm:"type:numeric(9,4)" json:"growth_rate,omitempty"`
	FixedAmount    *decimal.Decimal `gorm:"type:numeric(18,2)" json:"fixed_amount,omitempty"`
	BaselineMonths int              `gorm:"default:3" json:"baseline_months"`
	StartDate      time.Time        `gorm:"not null" json:"start_date"`
	EndDate        time.Time        `gorm:"not null" json:"end_date"`
	Status         RecordStatus     `gorm:"not null;default:active" json:"status"`
}

// Start returns the first month of the record's range.
func (r *ProjectionRecord) Start() month.Month {
	return month.FromTime(r.StartDate)
}

// End returns the last month of the record's range.
func (r *ProjectionRecord) End() month.Month {
	return month.FromTime(r.EndDate)
}

// IsActive reports whether the record participates in overlap checks
// and value application.
func (r *ProjectionRecord) IsActive() bool {
	return r.Status == RecordStatusActive
}

// Targets reports whether the record references the given row.
func (r *ProjectionRecord) Targets(rowID string) bool {
	for _, id := range r.AccountIDs {
		if id == rowID {
			return true
		}
	}
	return false
}
