package forecast

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ledgercast/internal/ledger"
	"ledgercast/internal/models"
	"ledgercast/internal/month"
)

// ErrRecordNotActive is returned when applying a paused record.
var ErrRecordNotActive = errors.New("record is not active")

// Baseline derives the starting value for a compounding projection:
// the mean of the row's non-projected values over the n months
// immediately preceding start. Projected cells are skipped so that
// re-applying a record never feeds on its own output. With no usable
// history the baseline is zero.
func Baseline(l *ledger.Ledger, rowID string, start month.Month, n int) decimal.Decimal {
	if n <= 0 {
		n = 1
	}

	var (
		sum   decimal.Decimal
		found int64
	)
	for i := 1; i <= n; i++ {
		v, ok := l.ValueAt(rowID, start.Add(-i))
		if !ok || v.IsProjected {
			continue
		}
		sum = sum.Add(v.Value)
		found++
	}
	if found == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(found))
}

// Apply writes a record's projected values into the ledger for every
// (account, month) pair in its range, replacing any existing cell.
// This is safe only because the overlap detector guarantees no other
// active record owns any of those cells. Applying the same record
// twice is idempotent. The written values are returned for
// persistence.
func Apply(l *ledger.Ledger, rec *models.ProjectionRecord) ([]*models.MonthlyValue, error) {
	if !rec.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotActive, rec.ID)
	}

	m, err := MethodFor(rec)
	if err != nil {
		return nil, err
	}

	months := month.Range(rec.Start(), rec.End())
	if len(months) == 0 {
		return nil, fmt.Errorf("record %s has an empty month range", rec.ID)
	}

	var written []*models.MonthlyValue
	for _, rowID := range rec.AccountIDs {
		if _, ok := l.Row(rowID); !ok {
			return nil, fmt.Errorf("%w: %s", ledger.ErrRowNotFound, rowID)
		}

		baseline := Baseline(l, rowID, rec.Start(), rec.BaselineMonths)
		values := m.Project(baseline, len(months))
		for k, target := range months {
			v, err := l.SetValue(rowID, target, values[k], true)
			if err != nil {
				return nil, err
			}
			written = append(written, v)
		}
	}
	return written, nil
}
