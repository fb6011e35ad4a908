package models

import "github.com/shopspring/decimal"

// MonthlyValue holds one month's value for a financial row. At most one
// value exists per (row, year, month).
type MonthlyValue struct {
	Base
	RowID       string          `gorm:"type:uuid;not null;uniqueIndex:idx_row_year_month" json:"row_id"`
	Year        int             `gorm:"not null;uniqueIndex:idx_row_year_month" json:"year"`
	Month       int             `gorm:"not null;uniqueIndex:idx_row_year_month" json:"month"`
	Value       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"value"`
	IsProjected bool            `gorm:"default:false" json:"is_projected"`
}
