package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ledgercast/internal/errors"
	"ledgercast/internal/models"
	"ledgercast/internal/services"
)

// WorkbookHandler handles chart-of-accounts and monthly value requests
type WorkbookHandler struct {
	workbookService services.WorkbookServicer
	auditService    services.AuditServicer
}

// NewWorkbookHandler creates a new WorkbookHandler
func NewWorkbookHandler(workbookService services.WorkbookServicer, auditService services.AuditServicer) *WorkbookHandler {
	return &WorkbookHandler{workbookService: workbookService, auditService: auditService}
}

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Key          string `json:"key" binding:"required,max=100"`
	Type         string `json:"type" binding:"omitempty,row_type"`
	IsCalculated bool   `json:"is_calculated"`
	Formula      string `json:"formula" binding:"max=500"`
	DisplayOrder int    `json:"display_order"`
}

// UpdateCategoryRequest represents the category update payload
type UpdateCategoryRequest struct {
	Name         string `json:"name" binding:"omitempty,max=200"`
	Formula      string `json:"formula" binding:"omitempty,max=500"`
	IsExpanded   *bool  `json:"is_expanded"`
	DisplayOrder *int   `json:"display_order"`
}

// CreateSubcategoryRequest represents the subcategory creation payload
type CreateSubcategoryRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	DisplayOrder int    `json:"display_order"`
}

// UpdateSubcategoryRequest represents the subcategory update payload
type UpdateSubcategoryRequest struct {
	Name         string `json:"name" binding:"omitempty,max=200"`
	DisplayOrder *int   `json:"display_order"`
}

// CreateRowRequest represents the row creation payload
type CreateRowRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	DisplayOrder int    `json:"display_order"`
}

// UpdateRowRequest represents the row update payload
type UpdateRowRequest struct {
	Name         string `json:"name" binding:"omitempty,max=200"`
	DisplayOrder *int   `json:"display_order"`
}

// SetValueRequest represents a direct monthly value edit
type SetValueRequest struct {
	Month string          `json:"month" binding:"required,year_month"`
	Value decimal.Decimal `json:"value" binding:"required"`
}

// GetWorkbook returns the user's full category tree
// @Summary     Get workbook
// @Description Get the full category/subcategory/row tree
// @Tags        workbook
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Category "Category tree"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /workbook [get]
func (h *WorkbookHandler) GetWorkbook(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.workbookService.GetWorkbook(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetRollup returns per-category monthly totals for a year
// @Summary     Get annual rollup
// @Description Get per-category and per-subcategory totals for a calendar year
// @Tags        workbook
// @Produce     json
// @Security    BearerAuth
// @Param       year query int true "Calendar year"
// @Success     200 {object} map[string]interface{} "Rollups"
// @Failure     400 {object} ErrorResponse "Invalid year or formula"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /workbook/rollup [get]
func (h *WorkbookHandler) GetRollup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1900 || year > 3000 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
		return
	}

	rollups, err := h.workbookService.Rollup(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "categories": rollups})
}

// CreateCategory creates a category
// @Summary     Create category
// @Tags        workbook
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category data"
// @Success     201 {object} models.Category "Created category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories [post]
func (h *WorkbookHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.workbookService.CreateCategory(userID, req.Name, req.Key,
		models.RowType(req.Type), req.IsCalculated, req.Formula, req.DisplayOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "category", category.ID, c.ClientIP(), nil)
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory updates a category
// @Summary     Update category
// @Tags        workbook
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Param       request body UpdateCategoryRequest true "Fields to update"
// @Success     200 {object} models.Category "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /categories/{id} [put]
func (h *WorkbookHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.workbookService.UpdateCategory(userID, categoryID, req.Name, req.Formula, req.IsExpanded, req.DisplayOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "category", category.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category and its contents
// @Summary     Delete category
// @Tags        workbook
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Row targeted by an active record"
// @Router      /categories/{id} [delete]
func (h *WorkbookHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.workbookService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "category", categoryID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}

// CreateSubcategory creates a subcategory under a category
// @Summary     Create subcategory
// @Tags        workbook
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Param       request body CreateSubcategoryRequest true "Subcategory data"
// @Success     201 {object} models.Subcategory "Created subcategory"
// @Failure     400 {object} ErrorResponse "Calculated categories cannot hold rows"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id}/subcategories [post]
func (h *WorkbookHandler) CreateSubcategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sub, err := h.workbookService.CreateSubcategory(userID, categoryID, req.Name, req.DisplayOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "subcategory", sub.ID, c.ClientIP(), nil)
	c.JSON(http.StatusCreated, sub)
}

// UpdateSubcategory updates a subcategory
// @Summary     Update subcategory
// @Tags        workbook
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subcategory ID"
// @Param       request body UpdateSubcategoryRequest true "Fields to update"
// @Success     200 {object} models.Subcategory "Updated subcategory"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /subcategories/{id} [put]
func (h *WorkbookHandler) UpdateSubcategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	subcategoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sub, err := h.workbookService.UpdateSubcategory(userID, subcategoryID, req.Name, req.DisplayOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// DeleteSubcategory deletes a subcategory and its rows
// @Summary     Delete subcategory
// @Tags        workbook
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subcategory ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Row targeted by an active record"
// @Router      /subcategories/{id} [delete]
func (h *WorkbookHandler) DeleteSubcategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	subcategoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.workbookService.DeleteSubcategory(userID, subcategoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "subcategory", subcategoryID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}

// CreateRow creates a financial row under a subcategory
// @Summary     Create row
// @Tags        workbook
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subcategory ID"
// @Param       request body CreateRowRequest true "Row data"
// @Success     201 {object} models.FinancialRow "Created row"
// @Failure     404 {object} ErrorResponse "Subcategory not found"
// @Router      /subcategories/{id}/rows [post]
func (h *WorkbookHandler) CreateRow(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	subcategoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	row, err := h.workbookService.CreateRow(userID, subcategoryID, req.Name, req.DisplayOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "row", row.ID, c.ClientIP(), nil)
	c.JSON(http.StatusCreated, row)
}

// UpdateRow updates a row
// @Summary     Update row
// @Tags        workbook
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Row ID"
// @Param       request body UpdateRowRequest true "Fields to update"
// @Success     200 {object} models.FinancialRow "Updated row"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /rows/{id} [put]
func (h *WorkbookHandler) UpdateRow(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	rowID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	row, err := h.workbookService.UpdateRow(userID, rowID, req.Name, req.DisplayOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// DeleteRow deletes a row and its values
// @Summary     Delete row
// @Tags        workbook
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Row ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Row targeted by an active record"
// @Router      /rows/{id} [delete]
func (h *WorkbookHandler) DeleteRow(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	rowID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.workbookService.DeleteRow(userID, rowID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "row", rowID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}

// SetRowValue writes a raw monthly value into a row
// @Summary     Set row value
// @Description Write a raw monthly value. Direct edits clear the projected flag.
// @Tags        workbook
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Row ID"
// @Param       request body SetValueRequest true "Month and value"
// @Success     200 {object} models.MonthlyValue "Stored value"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Row not found"
// @Router      /rows/{id}/values [put]
func (h *WorkbookHandler) SetRowValue(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	rowID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	m, err := parseMonth(req.Month, "month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	value, err := h.workbookService.SetRowValue(userID, rowID, m, req.Value)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "set_value", "row", rowID, c.ClientIP(), map[string]interface{}{
		"month": req.Month,
		"value": req.Value.String(),
	})
	c.JSON(http.StatusOK, value)
}

// GetRowValues lists a row's values for a year
// @Summary     Get row values
// @Tags        workbook
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Row ID"
// @Param       year query int true "Calendar year"
// @Success     200 {array} models.MonthlyValue "Values"
// @Failure     404 {object} ErrorResponse "Row not found"
// @Router      /rows/{id}/values [get]
func (h *WorkbookHandler) GetRowValues(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	rowID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		year = time.Now().Year()
	}

	values, err := h.workbookService.GetRowValues(userID, rowID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "values": values})
}
