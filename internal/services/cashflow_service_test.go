package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledgercast/internal/cashflow"
	"ledgercast/internal/models"
	"ledgercast/internal/month"
	"ledgercast/internal/testutil"
)

func TestSimulateFromWorkbook(t *testing.T) {
	t.Run("builds_series_from_rollups", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		workbook := NewWorkbookService(db)
		svc := NewCashflowService(db, workbook)
		user := testutil.CreateTestUser(t, db)

		revCat := testutil.CreateTestCategory(t, db, user.ID, models.RowTypeSalesRevenue)
		revSub := testutil.CreateTestSubcategory(t, db, user.ID, revCat.ID)
		revRow := testutil.CreateTestRow(t, db, user.ID, revCat, revSub)

		cogsCat := testutil.CreateTestCategory(t, db, user.ID, models.RowTypeCOGS)
		cogsSub := testutil.CreateTestSubcategory(t, db, user.ID, cogsCat.ID)
		cogsRow := testutil.CreateTestRow(t, db, user.ID, cogsCat, cogsSub)

		opexCat := testutil.CreateTestCategory(t, db, user.ID, models.RowTypeOperatingExpenses)
		opexSub := testutil.CreateTestSubcategory(t, db, user.ID, opexCat.ID)
		opexRow := testutil.CreateTestRow(t, db, user.ID, opexCat, opexSub)

		for m := 1; m <= 3; m++ {
			testutil.CreateTestMonthlyValue(t, db, revRow.ID, 2026, m, "3000")
			testutil.CreateTestMonthlyValue(t, db, cogsRow.ID, 2026, m, "1200")
			testutil.CreateTestMonthlyValue(t, db, opexRow.ID, 2026, m, "600")
		}

		out, err := svc.Simulate(user.ID, SimulationInput{
			Start:       month.New(2026, time.January),
			Months:      3,
			OpeningCash: decimal.NewFromInt(10000),
		})
		testutil.AssertNoError(t, err)

		if len(out) != 3 {
			t.Fatalf("expected 3 months, got %d", len(out))
		}
		for _, p := range out {
			if !p.OperatingCashFlow.Equal(decimal.NewFromInt(1200)) {
				t.Errorf("month %d: expected operating cash flow 1200, got %s", p.Month, p.OperatingCashFlow)
			}
		}
		if !out[2].ClosingCash.Equal(decimal.NewFromInt(13600)) {
			t.Errorf("expected closing cash 13600, got %s", out[2].ClosingCash)
		}
	})

	t.Run("empty_workbook_simulates_zeroes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		workbook := NewWorkbookService(db)
		svc := NewCashflowService(db, workbook)
		user := testutil.CreateTestUser(t, db)

		out, err := svc.Simulate(user.ID, SimulationInput{
			Start:       month.New(2026, time.January),
			Months:      2,
			OpeningCash: decimal.NewFromInt(500),
		})
		testutil.AssertNoError(t, err)

		if !out[1].ClosingCash.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected untouched cash 500, got %s", out[1].ClosingCash)
		}
	})

	t.Run("invalid_horizon", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		workbook := NewWorkbookService(db)
		svc := NewCashflowService(db, workbook)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Simulate(user.ID, SimulationInput{Start: month.New(2026, time.January), Months: 0})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Simulate(user.ID, SimulationInput{Start: month.New(2026, time.January), Months: 61})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("credit_policy_flows_through", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		workbook := NewWorkbookService(db)
		svc := NewCashflowService(db, workbook)
		user := testutil.CreateTestUser(t, db)

		opexCat := testutil.CreateTestCategory(t, db, user.ID, models.RowTypeOperatingExpenses)
		opexSub := testutil.CreateTestSubcategory(t, db, user.ID, opexCat.ID)
		opexRow := testutil.CreateTestRow(t, db, user.ID, opexCat, opexSub)
		testutil.CreateTestMonthlyValue(t, db, opexRow.ID, 2026, 1, "80000")

		out, err := svc.Simulate(user.ID, SimulationInput{
			Start:       month.New(2026, time.January),
			Months:      1,
			OpeningCash: decimal.NewFromInt(100000),
			Config: cashflow.Config{
				MinimumCash: decimal.NewFromInt(50000),
				CreditLimit: decimal.NewFromInt(100000),
			},
		})
		testutil.AssertNoError(t, err)

		if !out[0].CreditDrawings.Equal(decimal.NewFromInt(30000)) {
			t.Errorf("expected draw 30000, got %s", out[0].CreditDrawings)
		}
	})
}
