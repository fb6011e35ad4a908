// Package ledger holds the in-memory chart-of-accounts aggregate for a
// single user's workbook. All mutation goes through named operations on
// the Ledger so the single-writer discipline stays enforceable: raw
// values come from user edits, projected values come from the
// forecast applicator, and nothing else touches a row's cells.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ledgercast/internal/models"
	"ledgercast/internal/month"
)

var (
	// ErrRowNotFound is returned when a row id does not resolve.
	ErrRowNotFound = errors.New("financial row not found")
	// ErrNotCalculated is returned when a formula evaluation is
	// requested for a category that has no formula.
	ErrNotCalculated = errors.New("category is not calculated")
)

// Ledger is the categorized chart of accounts with monthly values,
// assembled from a fully preloaded category tree.
type Ledger struct {
	categories []models.Category
	rows       map[string]*models.FinancialRow
	values     map[string]map[month.Month]*models.MonthlyValue
}

// New builds a ledger over the given category tree. Subcategories,
// rows, and values must already be loaded.
func New(categories []models.Category) *Ledger {
	l := &Ledger{
		categories: categories,
		rows:       make(map[string]*models.FinancialRow),
		values:     make(map[string]map[month.Month]*models.MonthlyValue),
	}
	for ci := range categories {
		cat := &categories[ci]
		for si := range cat.Subcategories {
			sub := &cat.Subcategories[si]
			for ri := range sub.Rows {
				row := &sub.Rows[ri]
				l.rows[row.ID] = row
				cells := make(map[month.Month]*models.MonthlyValue, len(row.Values))
				for vi := range row.Values {
					v := &row.Values[vi]
					cells[month.New(v.Year, time.Month(v.Month))] = v
				}
				l.values[row.ID] = cells
			}
		}
	}
	return l
}

// Categories returns the category tree backing the ledger.
func (l *Ledger) Categories() []models.Category {
	return l.categories
}

// Row resolves a financial row by id.
func (l *Ledger) Row(id string) (*models.FinancialRow, bool) {
	row, ok := l.rows[id]
	return row, ok
}

// ValueAt returns the stored monthly value for a row, if present.
func (l *Ledger) ValueAt(rowID string, m month.Month) (*models.MonthlyValue, bool) {
	v, ok := l.values[rowID][m]
	return v, ok
}

// Value returns the row's value for the month, or zero when no value
// has been recorded.
func (l *Ledger) Value(rowID string, m month.Month) decimal.Decimal {
	if v, ok := l.values[rowID][m]; ok {
		return v.Value
	}
	return decimal.Zero
}

// SetValue upserts a monthly value on a row and returns the affected
// record for persistence by the caller.
func (l *Ledger) SetValue(rowID string, m month.Month, value decimal.Decimal, projected bool) (*models.MonthlyValue, error) {
	row, ok := l.rows[rowID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}

	if existing, ok := l.values[rowID][m]; ok {
		existing.Value = value
		existing.IsProjected = projected
		return existing, nil
	}

	v := &models.MonthlyValue{
		RowID:       row.ID,
		Year:        m.Year,
		Month:       int(m.Month),
		Value:       value,
		IsProjected: projected,
	}
	if l.values[rowID] == nil {
		l.values[rowID] = make(map[month.Month]*models.MonthlyValue)
	}
	l.values[rowID][m] = v
	return v, nil
}

// SubcategoryTotal sums the subcategory's rows for the month.
func (l *Ledger) SubcategoryTotal(sub *models.Subcategory, m month.Month) decimal.Decimal {
	total := decimal.Zero
	for i := range sub.Rows {
		total = total.Add(l.Value(sub.Rows[i].ID, m))
	}
	return total
}

// CategoryTotal sums a non-calculated category's rows for the month.
// For calculated categories use CalculatedTotal.
func (l *Ledger) CategoryTotal(cat *models.Category, m month.Month) decimal.Decimal {
	total := decimal.Zero
	for i := range cat.Subcategories {
		total = total.Add(l.SubcategoryTotal(&cat.Subcategories[i], m))
	}
	return total
}

// TypeTotal sums every row of the given type across the ledger.
func (l *Ledger) TypeTotal(t models.RowType, m month.Month) decimal.Decimal {
	total := decimal.Zero
	for _, row := range l.rows {
		if row.Type == t {
			total = total.Add(l.Value(row.ID, m))
		}
	}
	return total
}

// Series returns the twelve monthly type totals for a calendar year.
func (l *Ledger) Series(t models.RowType, year int) []decimal.Decimal {
	out := make([]decimal.Decimal, 12)
	for i := 0; i < 12; i++ {
		out[i] = l.TypeTotal(t, month.New(year, time.Month(i+1)))
	}
	return out
}
