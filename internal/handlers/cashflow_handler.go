package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ledgercast/internal/cashflow"
	apperrors "ledgercast/internal/errors"
	"ledgercast/internal/services"
)

// CashflowHandler handles cash-flow simulation requests
type CashflowHandler struct {
	cashflowService services.CashflowServicer
}

// NewCashflowHandler creates a new CashflowHandler
func NewCashflowHandler(cashflowService services.CashflowServicer) *CashflowHandler {
	return &CashflowHandler{cashflowService: cashflowService}
}

// SimulateRequest represents the simulation payload. The revenue,
// COGS, and operating-expense series come from the caller's workbook;
// everything else is a simulation assumption.
type SimulateRequest struct {
	StartMonth  string          `json:"start_month" binding:"required,year_month"`
	Months      int             `json:"months" binding:"required,min=1,max=60"`
	OpeningCash decimal.Decimal `json:"opening_cash"`

	DaysReceivables int `json:"days_receivables" binding:"omitempty,min=0,max=365"`
	DaysPayables    int `json:"days_payables" binding:"omitempty,min=0,max=365"`
	DaysInventory   int `json:"days_inventory" binding:"omitempty,min=0,max=365"`
	CollectionDelay int `json:"collection_delay" binding:"omitempty,min=0,max=12"`
	PaymentDelay    int `json:"payment_delay" binding:"omitempty,min=0,max=12"`

	Capex        []cashflow.ScheduleEntry `json:"capex"`
	LoanPayments []cashflow.LoanPayment   `json:"loan_payments"`

	MinimumCash      decimal.Decimal `json:"minimum_cash"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	AnnualCreditRate decimal.Decimal `json:"annual_credit_rate"`
}

// Simulate runs a cash-flow simulation over the workbook
// @Summary     Simulate cash flow
// @Description Run a month-by-month cash-flow simulation over the workbook's revenue, COGS, and operating-expense rollups
// @Tags        cashflow
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SimulateRequest true "Simulation assumptions"
// @Success     200 {object} map[string]interface{} "Monthly projections"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /cashflow/simulate [post]
func (h *CashflowHandler) Simulate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	start, err := parseMonth(req.StartMonth, "start_month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	projections, err := h.cashflowService.Simulate(userID, services.SimulationInput{
		Start:       start,
		Months:      req.Months,
		OpeningCash: req.OpeningCash,
		Config: cashflow.Config{
			DaysReceivables:  req.DaysReceivables,
			DaysPayables:     req.DaysPayables,
			DaysInventory:    req.DaysInventory,
			CollectionDelay:  req.CollectionDelay,
			PaymentDelay:     req.PaymentDelay,
			Capex:            req.Capex,
			LoanPayments:     req.LoanPayments,
			MinimumCash:      req.MinimumCash,
			CreditLimit:      req.CreditLimit,
			AnnualCreditRate: req.AnnualCreditRate,
		},
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start_month": req.StartMonth,
		"months":      req.Months,
		"projections": projections,
	})
}
