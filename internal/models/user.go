package models

import "time"

// UserRole represents the role of a staff member
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleStaff UserRole = "staff"
)

// User represents a staff member of the practice
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	Name        string     `gorm:"not null" json:"name"`
	Role        UserRole   `gorm:"not null;default:staff" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// RefreshTokenHash stores the SHA-256 digest of the latest refresh
	// token so stolen database contents cannot mint sessions.
	RefreshTokenHash string `gorm:"index" json:"-"`

	// Relationships
	Categories []Category         `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Records    []ProjectionRecord `gorm:"foreignKey:UserID" json:"records,omitempty"`
	Quotes     []Quote            `gorm:"foreignKey:UserID" json:"quotes,omitempty"`
}
