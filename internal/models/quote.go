package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus represents the lifecycle state of a client quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusDeclined QuoteStatus = "declined"
)

// Quote represents a quote prepared for a client of the practice
type Quote struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientName  string          `gorm:"not null" json:"client_name"`
	ClientEmail string          `json:"client_email"`
	Status      QuoteStatus     `gorm:"not null;default:draft" json:"status"`
	TaxRate     decimal.Decimal `gorm:"type:numeric(9,4)" json:"tax_rate"`
	Notes       string          `json:"notes,omitempty"`
	ValidUntil  *time.Time      `json:"valid_until,omitempty"`

	// Relationships
	Items []QuoteItem `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
}

// QuoteItem is a single line on a quote
type QuoteItem struct {
	Base
	QuoteID      string          `gorm:"type:uuid;not null;index" json:"quote_id"`
	Description  string          `gorm:"not null" json:"description"`
	Quantity     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_price"`
	DisplayOrder int             `gorm:"default:0" json:"display_order"`
}

// Amount returns quantity times unit price for the line.
func (i *QuoteItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Subtotal sums the line amounts of the quote.
func (q *Quote) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range q.Items {
		total = total.Add(q.Items[i].Amount())
	}
	return total
}

// Tax returns the tax on the subtotal at the quote's rate (percent).
func (q *Quote) Tax() decimal.Decimal {
	return q.Subtotal().Mul(q.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
}

// Total returns subtotal plus tax.
func (q *Quote) Total() decimal.Decimal {
	return q.Subtotal().Add(q.Tax())
}
