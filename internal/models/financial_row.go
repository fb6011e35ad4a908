package models

// RowType classifies a financial row within the profit-and-loss structure
type RowType string

const (
	RowTypeSalesRevenue      RowType = "sales_revenue"
	RowTypeCOGS              RowType = "cogs"
	RowTypeOperatingExpenses RowType = "operating_expenses"
	RowTypeOtherIncome       RowType = "other_income"
	RowTypeFinancialExpenses RowType = "financial_expenses"
	RowTypeOtherExpenses     RowType = "other_expenses"
	RowTypeIncomeTaxExpense  RowType = "income_tax_expense"
)

// RowTypes lists every valid row type.
var RowTypes = []RowType{
	RowTypeSalesRevenue,
	RowTypeCOGS,
	RowTypeOperatingExpenses,
	RowTypeOtherIncome,
	RowTypeFinancialExpenses,
	RowTypeOtherExpenses,
	RowTypeIncomeTaxExpense,
}

// FinancialRow is a single account line in the workbook. Its monthly
// values are mutated either by direct user edits or by an applied
// forecast/scenario record, never both for the same month.
type FinancialRow struct {
	Base
	UserID        string  `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID    string  `gorm:"type:uuid;not null;index" json:"category_id"`
	SubcategoryID string  `gorm:"type:uuid;not null;index" json:"subcategory_id"`
	Name          string  `gorm:"not null" json:"name"`
	Type          RowType `gorm:"not null" json:"type"`
	DisplayOrder  int     `gorm:"default:0" json:"display_order"`

	// Relationships
	Values []MonthlyValue `gorm:"foreignKey:RowID" json:"values,omitempty"`
}
