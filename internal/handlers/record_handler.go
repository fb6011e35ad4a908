package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ledgercast/internal/errors"
	"ledgercast/internal/models"
	"ledgercast/internal/pagination"
	"ledgercast/internal/services"
)

// RecordHandler handles forecast and scenario requests. The same
// handler serves both kinds; routes bind the kind at registration.
type RecordHandler struct {
	forecastService services.ForecastServicer
	auditService    services.AuditServicer
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(forecastService services.ForecastServicer, auditService services.AuditServicer) *RecordHandler {
	return &RecordHandler{forecastService: forecastService, auditService: auditService}
}

// RecordRequest represents the create/update payload for a record
type RecordRequest struct {
	Name           string           `json:"name" binding:"required,max=200"`
	AccountIDs     []string         `json:"account_ids" binding:"required,min=1,dive,uuid"`
	Method         string           `json:"method" binding:"required,projection_method"`
	GrowthRate     *decimal.Decimal `json:"growth_rate"`
	FixedAmount    *decimal.Decimal `json:"fixed_amount"`
	BaselineMonths int              `json:"baseline_months" binding:"omitempty,min=1,max=24"`
	StartMonth     string           `json:"start_month" binding:"required,year_month"`
	EndMonth       string           `json:"end_month" binding:"required,year_month"`
}

// CheckOverlapRequest represents a standalone overlap probe
type CheckOverlapRequest struct {
	AccountIDs []string `json:"account_ids" binding:"required,min=1,dive,uuid"`
	StartMonth string   `json:"start_month" binding:"required,year_month"`
	EndMonth   string   `json:"end_month" binding:"required,year_month"`
	ExcludeID  string   `json:"exclude_id" binding:"omitempty,uuid"`
}

func (r *RecordRequest) toInput(kind models.RecordKind) (services.RecordInput, error) {
	start, err := parseMonth(r.StartMonth, "start_month")
	if err != nil {
		return services.RecordInput{}, err
	}
	end, err := parseMonth(r.EndMonth, "end_month")
	if err != nil {
		return services.RecordInput{}, err
	}
	return services.RecordInput{
		Kind:           kind,
		Name:           r.Name,
		AccountIDs:     r.AccountIDs,
		Method:         models.ProjectionMethod(r.Method),
		GrowthRate:     r.GrowthRate,
		FixedAmount:    r.FixedAmount,
		BaselineMonths: r.BaselineMonths,
		Start:          start,
		End:            end,
	}, nil
}

// Create creates a record of the given kind
// @Summary     Create forecast or scenario
// @Description Create a record. Fails with OVERLAP_CONFLICT when another active record of the same kind claims the accounts and months.
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecordRequest true "Record definition"
// @Success     201 {object} models.ProjectionRecord "Created record"
// @Failure     400 {object} ErrorResponse "Invalid input or unsupported method"
// @Failure     409 {object} ErrorResponse "Overlap conflict"
// @Router      /forecasts [post]
func (h *RecordHandler) Create(kind models.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := getUserID(c)
		if err != nil {
			respondWithError(c, err)
			return
		}

		var req RecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		input, err := req.toInput(kind)
		if err != nil {
			respondWithError(c, err)
			return
		}

		record, err := h.forecastService.CreateRecord(userID, input)
		if err != nil {
			respondWithError(c, err)
			return
		}

		h.auditService.Log(userID, "create", string(kind), record.ID, c.ClientIP(), nil)
		c.JSON(http.StatusCreated, record)
	}
}

// List returns the user's records of the given kind
// @Summary     List forecasts or scenarios
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.ProjectionRecord] "Records"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /forecasts [get]
func (h *RecordHandler) List(kind models.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := getUserID(c)
		if err != nil {
			respondWithError(c, err)
			return
		}

		var page pagination.PageRequest
		if err := c.ShouldBindQuery(&page); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}

		result, err := h.forecastService.GetUserRecords(userID, kind, page)
		if err != nil {
			respondWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// CheckOverlap probes a candidate account/month claim
// @Summary     Check overlap
// @Description Report which active records of this kind conflict with the candidate accounts and month range
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CheckOverlapRequest true "Candidate claim"
// @Success     200 {object} forecast.OverlapResult "Overlap report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /forecasts/check-overlap [post]
func (h *RecordHandler) CheckOverlap(kind models.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := getUserID(c)
		if err != nil {
			respondWithError(c, err)
			return
		}

		var req CheckOverlapRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		start, err := parseMonth(req.StartMonth, "start_month")
		if err != nil {
			respondWithError(c, err)
			return
		}
		end, err := parseMonth(req.EndMonth, "end_month")
		if err != nil {
			respondWithError(c, err)
			return
		}

		result, err := h.forecastService.CheckOverlap(userID, kind, req.AccountIDs, start, end, req.ExcludeID)
		if err != nil {
			respondWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// Get returns one record
// @Summary     Get record
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     200 {object} models.ProjectionRecord "Record"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /records/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.forecastService.GetRecordByID(userID, recordID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// Update replaces a record's definition
// @Summary     Update record
// @Tags        records
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Param       request body RecordRequest true "New definition"
// @Success     200 {object} models.ProjectionRecord "Updated record"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Overlap conflict"
// @Router      /records/{id} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	// Kind is fixed at creation; the service keeps the stored kind.
	input, err := req.toInput("")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.forecastService.UpdateRecord(userID, recordID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", string(record.Kind), record.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, record)
}

// Delete removes a record, leaving its projected values in place
// @Summary     Delete record
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /records/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.forecastService.DeleteRecord(userID, recordID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "record", recordID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}

// Pause takes a record out of overlap checks and application
// @Summary     Pause record
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     200 {object} models.ProjectionRecord "Paused record"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /records/{id}/pause [post]
func (h *RecordHandler) Pause(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.forecastService.PauseRecord(userID, recordID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "pause", string(record.Kind), record.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, record)
}

// Activate resumes a paused record after re-checking its claim
// @Summary     Activate record
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     200 {object} models.ProjectionRecord "Active record"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Overlap conflict"
// @Router      /records/{id}/activate [post]
func (h *RecordHandler) Activate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.forecastService.ActivateRecord(userID, recordID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "activate", string(record.Kind), record.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, record)
}

// Apply projects the record's values into the workbook
// @Summary     Apply record
// @Description Project the record's method over its month range and persist the values
// @Tags        records
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     200 {object} map[string]interface{} "Written values"
// @Failure     400 {object} ErrorResponse "Record not active or unsupported method"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /records/{id}/apply [post]
func (h *RecordHandler) Apply(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	recordID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	written, err := h.forecastService.ApplyRecord(userID, recordID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "apply", "record", recordID, c.ClientIP(), map[string]interface{}{
		"values_written": len(written),
	})
	c.JSON(http.StatusOK, gin.H{"applied": len(written), "values": written})
}
