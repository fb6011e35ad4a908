package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ledgercast/internal/errors"
	"ledgercast/internal/tvm"
)

// CalculatorHandler serves the practice's standalone financial calculators
type CalculatorHandler struct{}

// NewCalculatorHandler creates a new CalculatorHandler
func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{}
}

// LoanPaymentRequest represents the loan calculator payload
type LoanPaymentRequest struct {
	Principal  float64 `json:"principal" binding:"required,gt=0"`
	AnnualRate float64 `json:"annual_rate" binding:"gte=0,lte=100"`
	TermMonths int     `json:"term_months" binding:"required,min=1,max=600"`
}

// FutureValueRequest represents the savings calculator payload
type FutureValueRequest struct {
	Present             float64 `json:"present" binding:"gte=0"`
	MonthlyContribution float64 `json:"monthly_contribution" binding:"gte=0"`
	AnnualRate          float64 `json:"annual_rate" binding:"gte=0,lte=100"`
	Months              int     `json:"months" binding:"required,min=1,max=600"`
}

// SavingsGoalRequest represents the savings goal calculator payload
type SavingsGoalRequest struct {
	Present             float64 `json:"present" binding:"gte=0"`
	MonthlyContribution float64 `json:"monthly_contribution" binding:"gte=0"`
	AnnualRate          float64 `json:"annual_rate" binding:"gte=0,lte=100"`
	Target              float64 `json:"target" binding:"required,gt=0"`
}

// LoanPayment calculates a monthly amortized loan payment
// @Summary     Loan payment calculator
// @Tags        calculators
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body LoanPaymentRequest true "Loan terms"
// @Success     200 {object} map[string]interface{} "Monthly payment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /calculators/loan-payment [post]
func (h *CalculatorHandler) LoanPayment(c *gin.Context) {
	var req LoanPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := tvm.LoanPayment(req.Principal, req.AnnualRate, req.TermMonths)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"monthly_payment": payment,
		"total_paid":      payment * float64(req.TermMonths),
		"total_interest":  payment*float64(req.TermMonths) - req.Principal,
	})
}

// FutureValue calculates the future value of a contribution stream
// @Summary     Future value calculator
// @Tags        calculators
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body FutureValueRequest true "Savings plan"
// @Success     200 {object} map[string]interface{} "Future value"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /calculators/future-value [post]
func (h *CalculatorHandler) FutureValue(c *gin.Context) {
	var req FutureValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	value := tvm.FutureValue(req.Present, req.MonthlyContribution, req.AnnualRate, req.Months)
	contributed := req.Present + req.MonthlyContribution*float64(req.Months)

	c.JSON(http.StatusOK, gin.H{
		"future_value":   value,
		"contributed":    contributed,
		"interest_earned": value - contributed,
	})
}

// SavingsGoal calculates the months needed to reach a savings target
// @Summary     Savings goal calculator
// @Tags        calculators
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SavingsGoalRequest true "Savings goal"
// @Success     200 {object} map[string]interface{} "Months to target"
// @Failure     400 {object} ErrorResponse "Target unreachable"
// @Router      /calculators/savings-goal [post]
func (h *CalculatorHandler) SavingsGoal(c *gin.Context) {
	var req SavingsGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	months, err := tvm.MonthsToTarget(req.Present, req.MonthlyContribution, req.AnnualRate, req.Target)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"months": months,
		"years":  float64(months) / 12.0,
	})
}
