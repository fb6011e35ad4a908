// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var yearMonthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("year_month", validateYearMonth)
		_ = v.RegisterValidation("row_type", validateRowType)
		_ = v.RegisterValidation("projection_method", validateProjectionMethod)
		_ = v.RegisterValidation("quote_status", validateQuoteStatus)
		_ = v.RegisterValidation("user_role", validateUserRole)
	}
}

// validateYearMonth accepts "2026-03" style month identifiers.
func validateYearMonth(fl validator.FieldLevel) bool {
	return yearMonthRegex.MatchString(fl.Field().String())
}

func validateRowType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "sales_revenue", "cogs", "operating_expenses", "other_income",
		"financial_expenses", "other_expenses", "income_tax_expense":
		return true
	}
	return false
}

// validateProjectionMethod accepts any method a record may carry.
// Whether the method has a backing calculation is decided at apply
// time, not at binding time.
func validateProjectionMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "growth_rate", "fixed_amount", "seasonal",
		"percentage_of_revenue", "exponential_smoothing":
		return true
	}
	return false
}

func validateQuoteStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "draft", "sent", "accepted", "declined":
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "admin", "staff":
		return true
	}
	return false
}
