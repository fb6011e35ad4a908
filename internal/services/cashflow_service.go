package services

import (
	"gorm.io/gorm"

	"github.com/shopspring/decimal"

	"ledgercast/internal/cashflow"
	apperrors "ledgercast/internal/errors"
	"ledgercast/internal/models"
	"ledgercast/internal/month"
)

// maxSimulationMonths caps the simulation horizon at five years.
const maxSimulationMonths = 60

// cashflowService feeds workbook rollups into the cash-flow simulator.
type cashflowService struct {
	db       *gorm.DB
	workbook WorkbookServicer
}

// NewCashflowService creates a new CashflowServicer.
func NewCashflowService(db *gorm.DB, workbook WorkbookServicer) CashflowServicer {
	return &cashflowService{db: db, workbook: workbook}
}

// Simulate builds the revenue, COGS, and operating-expense series from
// the user's workbook for the requested window and runs the simulator.
// The simulation reads whatever the workbook holds for those months,
// raw and projected values alike.
func (s *cashflowService) Simulate(userID string, input SimulationInput) ([]cashflow.Projection, error) {
	if input.Months < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "simulation needs at least one month")
	}
	if input.Months > maxSimulationMonths {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "simulation horizon exceeds five years")
	}

	l, err := s.workbook.LoadLedger(userID)
	if err != nil {
		return nil, err
	}

	series := cashflow.MonthlySeries{
		Revenue: make([]decimal.Decimal, 0, input.Months),
		COGS:    make([]decimal.Decimal, 0, input.Months),
		Opex:    make([]decimal.Decimal, 0, input.Months),
	}
	for _, m := range month.Range(input.Start, input.Start.Add(input.Months-1)) {
		series.Revenue = append(series.Revenue, l.TypeTotal(models.RowTypeSalesRevenue, m))
		series.COGS = append(series.COGS, l.TypeTotal(models.RowTypeCOGS, m))
		series.Opex = append(series.Opex, l.TypeTotal(models.RowTypeOperatingExpenses, m))
	}

	projections, err := cashflow.Simulate(series, input.Config, input.OpeningCash)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return projections, nil
}
