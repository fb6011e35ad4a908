package services

import (
	"time"

	"github.com/shopspring/decimal"

	"ledgercast/internal/cashflow"
	"ledgercast/internal/forecast"
	"ledgercast/internal/ledger"
	"ledgercast/internal/models"
	"ledgercast/internal/month"
	"ledgercast/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string, role models.UserRole) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// WorkbookServicer defines the contract for the chart-of-accounts tree
// and its monthly values.
type WorkbookServicer interface {
	CreateCategory(userID, name, key string, rowType models.RowType, isCalculated bool, formula string, displayOrder int) (*models.Category, error)
	GetWorkbook(userID string) ([]models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, formula string, isExpanded *bool, displayOrder *int) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error

	CreateSubcategory(userID, categoryID, name string, displayOrder int) (*models.Subcategory, error)
	UpdateSubcategory(userID, subcategoryID, name string, displayOrder *int) (*models.Subcategory, error)
	DeleteSubcategory(userID, subcategoryID string) error

	CreateRow(userID, subcategoryID, name string, displayOrder int) (*models.FinancialRow, error)
	GetRowByID(userID, rowID string) (*models.FinancialRow, error)
	UpdateRow(userID, rowID, name string, displayOrder *int) (*models.FinancialRow, error)
	DeleteRow(userID, rowID string) error

	SetRowValue(userID, rowID string, m month.Month, value decimal.Decimal) (*models.MonthlyValue, error)
	GetRowValues(userID, rowID string, year int) ([]models.MonthlyValue, error)

	LoadLedger(userID string) (*ledger.Ledger, error)
	Rollup(userID string, year int) ([]ledger.CategoryRollup, error)
}

// RecordInput carries the client-supplied fields of a projection record.
type RecordInput struct {
	Kind           models.RecordKind
	Name           string
	AccountIDs     []string
	Method         models.ProjectionMethod
	GrowthRate     *decimal.Decimal
	FixedAmount    *decimal.Decimal
	BaselineMonths int
	Start          month.Month
	End            month.Month
}

// ForecastServicer defines the contract for forecast and scenario
// record lifecycles and projection application.
type ForecastServicer interface {
	CreateRecord(userID string, input RecordInput) (*models.ProjectionRecord, error)
	GetUserRecords(userID string, kind models.RecordKind, page pagination.PageRequest) (*pagination.PageResponse[models.ProjectionRecord], error)
	GetRecordByID(userID, recordID string) (*models.ProjectionRecord, error)
	UpdateRecord(userID, recordID string, input RecordInput) (*models.ProjectionRecord, error)
	DeleteRecord(userID, recordID string) error
	PauseRecord(userID, recordID string) (*models.ProjectionRecord, error)
	ActivateRecord(userID, recordID string) (*models.ProjectionRecord, error)
	CheckOverlap(userID string, kind models.RecordKind, accountIDs []string, start, end month.Month, excludeID string) (*forecast.OverlapResult, error)
	ApplyRecord(userID, recordID string) ([]models.MonthlyValue, error)
}

// SimulationInput selects the ledger window and assumptions for a
// cash-flow simulation run.
type SimulationInput struct {
	Start       month.Month
	Months      int
	OpeningCash decimal.Decimal
	Config      cashflow.Config
}

// CashflowServicer defines the contract for cash-flow simulation over
// the workbook's rollups.
type CashflowServicer interface {
	Simulate(userID string, input SimulationInput) ([]cashflow.Projection, error)
}

// QuoteItemInput is one client-supplied quote line.
type QuoteItemInput struct {
	Description  string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	DisplayOrder int
}

// QuoteInput carries the client-supplied fields of a quote.
type QuoteInput struct {
	ClientName  string
	ClientEmail string
	TaxRate     decimal.Decimal
	Notes       string
	ValidUntil  *time.Time
	Items       []QuoteItemInput
}

// QuoteServicer defines the contract for client quote management.
type QuoteServicer interface {
	CreateQuote(userID string, input QuoteInput) (*models.Quote, error)
	GetUserQuotes(userID string, status *models.QuoteStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Quote], error)
	GetQuoteByID(userID, quoteID string) (*models.Quote, error)
	UpdateQuote(userID, quoteID string, input QuoteInput) (*models.Quote, error)
	UpdateQuoteStatus(userID, quoteID string, status models.QuoteStatus) (*models.Quote, error)
	DeleteQuote(userID, quoteID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	GetLogs(page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
