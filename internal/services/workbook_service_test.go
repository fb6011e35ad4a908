package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledgercast/internal/models"
	"ledgercast/internal/month"
	"ledgercast/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "Revenue", "revenue", models.RowTypeSalesRevenue, false, "", 0)
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected non-empty category ID")
		}
		if cat.Key != "revenue" {
			t.Errorf("expected key revenue, got %s", cat.Key)
		}
		if cat.IsCalculated {
			t.Error("expected plain category")
		}
	})

	t.Run("calculated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "Gross Profit", "gross_profit", "", true, "sales_revenue - cogs", 1)
		testutil.AssertNoError(t, err)

		if !cat.IsCalculated {
			t.Error("expected calculated category")
		}
		if cat.Formula != "sales_revenue - cogs" {
			t.Errorf("unexpected formula %q", cat.Formula)
		}
	})

	t.Run("calculated_without_formula", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Bad", "bad", "", true, "", 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Revenue", "revenue", models.RowTypeSalesRevenue, false, "", 0)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, "Revenue Again", "revenue", models.RowTypeSalesRevenue, false, "", 1)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestCreateSubcategoryAndRow(t *testing.T) {
	t.Run("row_inherits_category_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.RowTypeOperatingExpenses)

		sub, err := svc.CreateSubcategory(user.ID, cat.ID, "Staff Costs", 0)
		testutil.AssertNoError(t, err)

		row, err := svc.CreateRow(user.ID, sub.ID, "Salaries", 0)
		testutil.AssertNoError(t, err)

		if row.Type != models.RowTypeOperatingExpenses {
			t.Errorf("expected row type operating_expenses, got %s", row.Type)
		}
		if row.CategoryID != cat.ID {
			t.Errorf("expected category %s, got %s", cat.ID, row.CategoryID)
		}
	})

	t.Run("no_subcategories_under_calculated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user := testutil.CreateTestUser(t, db)
		calc := testutil.CreateTestCalculatedCategory(t, db, user.ID, "sales_revenue - cogs")

		_, err := svc.CreateSubcategory(user.ID, calc.ID, "Should Fail", 0)
		testutil.AssertAppError(t, err, "CALCULATED_CATEGORY")
	})

	t.Run("wrong_user_subcategory", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user2.ID, models.RowTypeCOGS)
		sub := testutil.CreateTestSubcategory(t, db, user2.ID, cat.ID)

		_, err := svc.CreateRow(user1.ID, sub.ID, "Not Mine", 0)
		testutil.AssertAppError(t, err, "SUBCATEGORY_NOT_FOUND")
	})
}

func TestSetRowValue(t *testing.T) {
	t.Run("insert_and_overwrite", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.RowTypeSalesRevenue)
		sub := testutil.CreateTestSubcategory(t, db, user.ID, cat.ID)
		row := testutil.CreateTestRow(t, db, user.ID, cat, sub)

		m := month.New(2026, time.March)
		_, err := svc.SetRowValue(user.ID, row.ID, m, decimal.NewFromInt(1500))
		testutil.AssertNoError(t, err)

		_, err = svc.SetRowValue(user.ID, row.ID, m, decimal.NewFromInt(1800))
		testutil.AssertNoError(t, err)

		values, err := svc.GetRowValues(user.ID, row.ID, 2026)
		testutil.AssertNoError(t, err)
		if len(values) != 1 {
			t.Fatalf("expected a single value after overwrite, got %d", len(values))
		}
		if !values[0].Value.Equal(decimal.NewFromInt(1800)) {
			t.Errorf("expected 1800, got %s", values[0].Value)
		}
	})

	t.Run("edit_clears_projected_flag", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.RowTypeSalesRevenue)
		sub := testutil.CreateTestSubcategory(t, db, user.ID, cat.ID)
		row := testutil.CreateTestRow(t, db, user.ID, cat, sub)

		projected := &models.MonthlyValue{
			RowID: row.ID, Year: 2026, Month: 4,
			Value: decimal.NewFromInt(999), IsProjected: true,
		}
		if err := db.Create(projected).Error; err != nil {
			t.Fatalf("failed to seed projected value: %v", err)
		}

		_, err := svc.SetRowValue(user.ID, row.ID, month.New(2026, time.April), decimal.NewFromInt(1234))
		testutil.AssertNoError(t, err)

		values, err := svc.GetRowValues(user.ID, row.ID, 2026)
		testutil.AssertNoError(t, err)
		if len(values) != 1 {
			t.Fatalf("expected a single value, got %d", len(values))
		}
		if values[0].IsProjected {
			t.Error("expected direct edit to clear the projected flag")
		}
	})

	t.Run("unknown_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.SetRowValue(user.ID, "missing", month.New(2026, time.January), decimal.NewFromInt(1))
		testutil.AssertAppError(t, err, "ROW_NOT_FOUND")
	})
}

func TestDeleteRow(t *testing.T) {
	t.Run("deletes_row_and_values", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.RowTypeOperatingExpenses)
		sub := testutil.CreateTestSubcategory(t, db, user.ID, cat.ID)
		row := testutil.CreateTestRow(t, db, user.ID, cat, sub)
		testutil.CreateTestMonthlyValue(t, db, row.ID, 2026, 1, "500")

		testutil.AssertNoError(t, svc.DeleteRow(user.ID, row.ID))

		_, err := svc.GetRowByID(user.ID, row.ID)
		testutil.AssertAppError(t, err, "ROW_NOT_FOUND")
	})

	t.Run("row_targeted_by_active_record", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.RowTypeSalesRevenue)
		sub := testutil.CreateTestSubcategory(t, db, user.ID, cat.ID)
		row := testutil.CreateTestRow(t, db, user.ID, cat, sub)

		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestRecord(t, db, user.ID, models.RecordKindForecast, []string{row.ID}, start, end)

		err := svc.DeleteRow(user.ID, row.ID)
		testutil.AssertAppError(t, err, "ROW_IN_USE")
	})

	t.Run("paused_record_does_not_block", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkbookService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.RowTypeSalesRevenue)
		sub := testutil.CreateTestSubcategory(t, db, user.ID, cat.ID)
		row := testutil.CreateTestRow(t, db, user.ID, cat, sub)

		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		rec := testutil.CreateTestRecord(t, db, user.ID, models.RecordKindForecast, []string{row.ID}, start, end)
		if err := db.Model(rec).Update("status", models.RecordStatusPaused).Error; err != nil {
			t.Fatalf("failed to pause record: %v", err)
		}

		testutil.AssertNoError(t, svc.DeleteRow(user.ID, row.ID))
	})
}

func TestWorkbookRollup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewWorkbookService(db)
	user := testutil.CreateTestUser(t, db)

	revenue, err := svc.CreateCategory(user.ID, "Revenue", "revenue", models.RowTypeSalesRevenue, false, "", 0)
	testutil.AssertNoError(t, err)
	cogs, err := svc.CreateCategory(user.ID, "Cost of Sales", "cost_of_sales", models.RowTypeCOGS, false, "", 1)
	testutil.AssertNoError(t, err)
	_, err = svc.CreateCategory(user.ID, "Gross Profit", "gross_profit", "", true, "sales_revenue - cogs", 2)
	testutil.AssertNoError(t, err)

	revSub, err := svc.CreateSubcategory(user.ID, revenue.ID, "Services", 0)
	testutil.AssertNoError(t, err)
	cogsSub, err := svc.CreateSubcategory(user.ID, cogs.ID, "Direct Costs", 0)
	testutil.AssertNoError(t, err)

	revRow, err := svc.CreateRow(user.ID, revSub.ID, "Consulting", 0)
	testutil.AssertNoError(t, err)
	cogsRow, err := svc.CreateRow(user.ID, cogsSub.ID, "Subcontractors", 0)
	testutil.AssertNoError(t, err)

	testutil.CreateTestMonthlyValue(t, db, revRow.ID, 2026, 1, "5000")
	testutil.CreateTestMonthlyValue(t, db, revRow.ID, 2026, 2, "6000")
	testutil.CreateTestMonthlyValue(t, db, cogsRow.ID, 2026, 1, "2000")

	rollups, err := svc.Rollup(user.ID, 2026)
	testutil.AssertNoError(t, err)

	if len(rollups) != 3 {
		t.Fatalf("expected 3 category rollups, got %d", len(rollups))
	}
	if !rollups[0].Annual.Equal(decimal.NewFromInt(11000)) {
		t.Errorf("expected revenue annual 11000, got %s", rollups[0].Annual)
	}
	// Gross profit: January 3000, February 6000.
	if !rollups[2].Monthly[0].Equal(decimal.NewFromInt(3000)) {
		t.Errorf("expected gross profit 3000 in January, got %s", rollups[2].Monthly[0])
	}
	if !rollups[2].Annual.Equal(decimal.NewFromInt(9000)) {
		t.Errorf("expected gross profit annual 9000, got %s", rollups[2].Annual)
	}
}
