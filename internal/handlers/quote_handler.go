package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ledgercast/internal/errors"
	"ledgercast/internal/models"
	"ledgercast/internal/pagination"
	"ledgercast/internal/services"
)

// QuoteHandler handles client quote requests
type QuoteHandler struct {
	quoteService services.QuoteServicer
	auditService services.AuditServicer
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService services.QuoteServicer, auditService services.AuditServicer) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService, auditService: auditService}
}

// QuoteItemRequest represents one line of a quote payload
type QuoteItemRequest struct {
	Description  string          `json:"description" binding:"required,max=500"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	DisplayOrder int             `json:"display_order"`
}

// QuoteRequest represents the quote create/update payload
type QuoteRequest struct {
	ClientName  string             `json:"client_name" binding:"required,max=200"`
	ClientEmail string             `json:"client_email" binding:"omitempty,email"`
	TaxRate     decimal.Decimal    `json:"tax_rate"`
	Notes       string             `json:"notes" binding:"max=2000"`
	ValidUntil  *time.Time         `json:"valid_until"`
	Items       []QuoteItemRequest `json:"items" binding:"required,min=1,dive"`
}

// QuoteStatusRequest represents a quote status transition
type QuoteStatusRequest struct {
	Status string `json:"status" binding:"required,quote_status"`
}

// QuoteListQuery represents quote list filters
type QuoteListQuery struct {
	pagination.PageRequest
	Status string `form:"status" binding:"omitempty,quote_status"`
}

func (r *QuoteRequest) toInput() services.QuoteInput {
	items := make([]services.QuoteItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, services.QuoteItemInput{
			Description:  item.Description,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			DisplayOrder: item.DisplayOrder,
		})
	}
	return services.QuoteInput{
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		TaxRate:     r.TaxRate,
		Notes:       r.Notes,
		ValidUntil:  r.ValidUntil,
		Items:       items,
	}
}

// quoteResponse wraps a quote with its computed totals.
func quoteResponse(quote *models.Quote) gin.H {
	return gin.H{
		"quote":    quote,
		"subtotal": quote.Subtotal(),
		"tax":      quote.Tax(),
		"total":    quote.Total(),
	}
}

// Create creates a draft quote
// @Summary     Create quote
// @Tags        quotes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body QuoteRequest true "Quote data"
// @Success     201 {object} map[string]interface{} "Created quote with totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	quote, err := h.quoteService.CreateQuote(userID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "quote", quote.ID, c.ClientIP(), nil)
	c.JSON(http.StatusCreated, quoteResponse(quote))
}

// List returns the user's quotes
// @Summary     List quotes
// @Tags        quotes
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       status query string false "Filter by status"
// @Success     200 {object} pagination.PageResponse[models.Quote] "Quotes"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query QuoteListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.QuoteStatus
	if query.Status != "" {
		s := models.QuoteStatus(query.Status)
		status = &s
	}

	result, err := h.quoteService.GetUserQuotes(userID, status, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns one quote with totals
// @Summary     Get quote
// @Tags        quotes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Quote ID"
// @Success     200 {object} map[string]interface{} "Quote with totals"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /quotes/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	quoteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	quote, err := h.quoteService.GetQuoteByID(userID, quoteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, quoteResponse(quote))
}

// Update replaces a draft quote's details and items
// @Summary     Update quote
// @Tags        quotes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Quote ID"
// @Param       request body QuoteRequest true "New quote data"
// @Success     200 {object} map[string]interface{} "Updated quote with totals"
// @Failure     400 {object} ErrorResponse "Quote not editable"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /quotes/{id} [put]
func (h *QuoteHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	quoteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	quote, err := h.quoteService.UpdateQuote(userID, quoteID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "quote", quote.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, quoteResponse(quote))
}

// UpdateStatus moves a quote along its lifecycle
// @Summary     Update quote status
// @Tags        quotes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Quote ID"
// @Param       request body QuoteStatusRequest true "New status"
// @Success     200 {object} map[string]interface{} "Updated quote with totals"
// @Failure     400 {object} ErrorResponse "Invalid transition"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /quotes/{id}/status [put]
func (h *QuoteHandler) UpdateStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	quoteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req QuoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	quote, err := h.quoteService.UpdateQuoteStatus(userID, quoteID, models.QuoteStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "status_change", "quote", quote.ID, c.ClientIP(), map[string]interface{}{
		"status": req.Status,
	})
	c.JSON(http.StatusOK, quoteResponse(quote))
}

// Delete removes a quote
// @Summary     Delete quote
// @Tags        quotes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Quote ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	quoteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.quoteService.DeleteQuote(userID, quoteID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "quote", quoteID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}
