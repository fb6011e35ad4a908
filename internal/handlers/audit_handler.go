package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ledgercast/internal/errors"
	"ledgercast/internal/pagination"
	"ledgercast/internal/services"
)

// AuditHandler serves the admin-only audit trail.
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List returns recorded audit entries across all users
// @Summary     List audit log entries
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Audit entries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin role required"
// @Router      /admin/audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.auditService.GetLogs(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
