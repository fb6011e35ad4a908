package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "ledgercast/internal/errors"
	"ledgercast/internal/models"
	"ledgercast/internal/pagination"
)

// quoteService handles client quote business logic.
type quoteService struct {
	db *gorm.DB
}

// NewQuoteService creates a new QuoteServicer.
func NewQuoteService(db *gorm.DB) QuoteServicer {
	return &quoteService{db: db}
}

func buildItems(inputs []QuoteItemInput) []models.QuoteItem {
	items := make([]models.QuoteItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, models.QuoteItem{
			Description:  in.Description,
			Quantity:     in.Quantity,
			UnitPrice:    in.UnitPrice,
			DisplayOrder: in.DisplayOrder,
		})
	}
	return items
}

// CreateQuote creates a draft quote with its line items.
func (s *quoteService) CreateQuote(userID string, input QuoteInput) (*models.Quote, error) {
	if input.ClientName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "client name is required")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a quote needs at least one line item")
	}
	if input.TaxRate.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tax rate cannot be negative")
	}

	quote := &models.Quote{
		UserID:      userID,
		ClientName:  input.ClientName,
		ClientEmail: input.ClientEmail,
		Status:      models.QuoteStatusDraft,
		TaxRate:     input.TaxRate,
		Notes:       input.Notes,
		ValidUntil:  input.ValidUntil,
		Items:       buildItems(input.Items),
	}

	if err := s.db.Create(quote).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return quote, nil
}

// GetUserQuotes retrieves a paginated list of the user's quotes,
// optionally filtered by status, newest first.
func (s *quoteService) GetUserQuotes(userID string, status *models.QuoteStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Quote], error) {
	page.Defaults()

	base := s.db.Model(&models.Quote{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var quotes []models.Quote
	if err := base.Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, created_at")
		}).
		Find(&quotes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(quotes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetQuoteByID retrieves a quote with its items for a specific user
func (s *quoteService) GetQuoteByID(userID, quoteID string) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.Where("id = ? AND user_id = ?", quoteID, userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, created_at")
		}).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrQuoteNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &quote, nil
}

// UpdateQuote replaces the details and line items of a draft quote.
// Quotes that have been sent or answered are immutable records of what
// the client saw.
func (s *quoteService) UpdateQuote(userID, quoteID string, input QuoteInput) (*models.Quote, error) {
	quote, err := s.GetQuoteByID(userID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != models.QuoteStatusDraft {
		return nil, apperrors.ErrQuoteNotEditable
	}
	if input.ClientName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "client name is required")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a quote needs at least one line item")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		quote.ClientName = input.ClientName
		quote.ClientEmail = input.ClientEmail
		quote.TaxRate = input.TaxRate
		quote.Notes = input.Notes
		quote.ValidUntil = input.ValidUntil
		quote.Items = buildItems(input.Items)
		for i := range quote.Items {
			quote.Items[i].QuoteID = quote.ID
		}

		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(quote).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// validStatusTransitions maps each quote status to its allowed successors.
var validStatusTransitions = map[models.QuoteStatus][]models.QuoteStatus{
	models.QuoteStatusDraft:    {models.QuoteStatusSent},
	models.QuoteStatusSent:     {models.QuoteStatusAccepted, models.QuoteStatusDeclined},
	models.QuoteStatusAccepted: {},
	models.QuoteStatusDeclined: {},
}

// UpdateQuoteStatus moves a quote along its lifecycle.
func (s *quoteService) UpdateQuoteStatus(userID, quoteID string, status models.QuoteStatus) (*models.Quote, error) {
	quote, err := s.GetQuoteByID(userID, quoteID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range validStatusTransitions[quote.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid status transition")
	}

	if err := s.db.Model(quote).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	quote.Status = status
	return quote, nil
}

// DeleteQuote soft-deletes a quote and its items.
func (s *quoteService) DeleteQuote(userID, quoteID string) error {
	quote, err := s.GetQuoteByID(userID, quoteID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(quote).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
