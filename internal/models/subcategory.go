package models

// Subcategory groups financial rows within a category
type Subcategory struct {
	Base
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID   string `gorm:"type:uuid;not null;index" json:"category_id"`
	Name         string `gorm:"not null" json:"name"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`

	// Relationships
	Rows []FinancialRow `gorm:"foreignKey:SubcategoryID" json:"rows,omitempty"`
}
