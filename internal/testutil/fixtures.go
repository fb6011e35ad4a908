package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"ledgercast/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     fmt.Sprintf("Test User %d", nextID()),
		Role:     models.UserRoleStaff,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a plain (non-calculated) category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, rowType models.RowType) *models.Category {
	t.Helper()

	n := nextID()
	category := &models.Category{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Category %d", n),
		Key:          fmt.Sprintf("test_category_%d", n),
		Type:         rowType,
		DisplayOrder: int(n),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestCalculatedCategory creates a calculated category with the given formula.
func CreateTestCalculatedCategory(t *testing.T, db *gorm.DB, userID, formula string) *models.Category {
	t.Helper()

	n := nextID()
	category := &models.Category{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Calculated %d", n),
		Key:          fmt.Sprintf("test_calculated_%d", n),
		IsCalculated: true,
		Formula:      formula,
		DisplayOrder: int(n),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test calculated category: %v", err)
	}
	return category
}

// CreateTestSubcategory creates a subcategory in the given category.
func CreateTestSubcategory(t *testing.T, db *gorm.DB, userID, categoryID string) *models.Subcategory {
	t.Helper()

	sub := &models.Subcategory{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       fmt.Sprintf("Test Subcategory %d", nextID()),
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test subcategory: %v", err)
	}
	return sub
}

// CreateTestRow creates a financial row in the given subcategory.
func CreateTestRow(t *testing.T, db *gorm.DB, userID string, cat *models.Category, sub *models.Subcategory) *models.FinancialRow {
	t.Helper()

	row := &models.FinancialRow{
		UserID:        userID,
		CategoryID:    cat.ID,
		SubcategoryID: sub.ID,
		Name:          fmt.Sprintf("Test Row %d", nextID()),
		Type:          cat.Type,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test row: %v", err)
	}
	return row
}

// CreateTestMonthlyValue creates a raw (non-projected) monthly value for a row.
func CreateTestMonthlyValue(t *testing.T, db *gorm.DB, rowID string, year, monthNum int, value string) *models.MonthlyValue {
	t.Helper()

	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", value, err)
	}
	mv := &models.MonthlyValue{
		RowID: rowID,
		Year:  year,
		Month: monthNum,
		Value: d,
	}
	if err := db.Create(mv).Error; err != nil {
		t.Fatalf("failed to create test monthly value: %v", err)
	}
	return mv
}

// CreateTestRecord creates an active growth-rate record targeting the given rows.
func CreateTestRecord(t *testing.T, db *gorm.DB, userID string, kind models.RecordKind, accountIDs []string, start, end time.Time) *models.ProjectionRecord {
	t.Helper()

	rate := decimal.NewFromInt(5)
	rec := &models.ProjectionRecord{
		UserID:         userID,
		Kind:           kind,
		Name:           fmt.Sprintf("Test Record %d", nextID()),
		AccountIDs:     accountIDs,
		Method:         models.MethodGrowthRate,
		GrowthRate:     &rate,
		BaselineMonths: 3,
		StartDate:      start,
		EndDate:        end,
		Status:         models.RecordStatusActive,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("failed to create test record: %v", err)
	}
	return rec
}

// CreateTestQuote creates a draft quote with two line items.
func CreateTestQuote(t *testing.T, db *gorm.DB, userID string) *models.Quote {
	t.Helper()

	quote := &models.Quote{
		UserID:     userID,
		ClientName: fmt.Sprintf("Test Client %d", nextID()),
		Status:     models.QuoteStatusDraft,
		TaxRate:    decimal.NewFromInt(10),
		Items: []models.QuoteItem{
			{Description: "Bookkeeping", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(120)},
			{Description: "BAS lodgement", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(350), DisplayOrder: 1},
		},
	}
	if err := db.Create(quote).Error; err != nil {
		t.Fatalf("failed to create test quote: %v", err)
	}
	return quote
}
