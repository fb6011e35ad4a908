package models

// Category is a top-level grouping in the chart of accounts. Calculated
// categories hold no rows of their own; their monthly total is derived
// from the Formula expression over other categories' totals.
type Category struct {
	Base
	UserID       string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string  `gorm:"not null" json:"name"`
	Key          string  `gorm:"not null;index" json:"key"`
	Type         RowType `json:"type,omitempty"`
	IsCalculated bool    `gorm:"default:false" json:"is_calculated"`
	IsExpanded   bool    `gorm:"default:true" json:"is_expanded"`
	Formula      string  `json:"formula,omitempty"`
	DisplayOrder int     `gorm:"default:0" json:"display_order"`

	// Relationships
	Subcategories []Subcategory `gorm:"foreignKey:CategoryID" json:"subcategories,omitempty"`
}
