// Package tvm provides the closed-form time-value-of-money
// calculations behind the practice's financial calculators: loan
// payments, future value of a contribution stream, and the number of
// months needed to reach a savings target.
package tvm

import (
	"errors"
	"math"
)

const (
	percentageMultiplier = 100.0
	monthsPerYear        = 12.0
)

var (
	// ErrUnreachableTarget is returned when contributions and growth
	// can never reach the requested target.
	ErrUnreachableTarget = errors.New("target can never be reached")
	// ErrInvalidTerm is returned for non-positive loan terms.
	ErrInvalidTerm = errors.New("term must be at least one month")
)

// LoanPayment calculates the monthly payment for an amortized loan
// using the standard annuity formula. annualRate is a percentage
// (7.5 means 7.5% per year).
func LoanPayment(principal, annualRate float64, termMonths int) (float64, error) {
	if termMonths < 1 {
		return 0, ErrInvalidTerm
	}
	if annualRate == 0 {
		return principal / float64(termMonths), nil
	}

	monthlyRate := annualRate / (percentageMultiplier * monthsPerYear)
	power := math.Pow(1.0+monthlyRate, float64(termMonths))
	return principal * monthlyRate * power / (power - 1.0), nil
}

// FutureValue calculates the value of an initial balance plus a
// monthly contribution stream after the given number of months, with
// interest compounding monthly at annualRate percent.
func FutureValue(present, monthlyContribution, annualRate float64, months int) float64 {
	if months <= 0 {
		return present
	}
	monthlyRate := annualRate / (percentageMultiplier * monthsPerYear)
	if monthlyRate == 0 {
		return present + monthlyContribution*float64(months)
	}

	growth := math.Pow(1.0+monthlyRate, float64(months))
	return present*growth + monthlyContribution*(growth-1.0)/monthlyRate
}

// MonthsToTarget calculates how many whole months of contributions are
// needed for a balance to reach target. Returns 0 when the balance
// already meets the target.
func MonthsToTarget(present, monthlyContribution, annualRate, target float64) (int, error) {
	if present >= target {
		return 0, nil
	}

	monthlyRate := annualRate / (percentageMultiplier * monthsPerYear)
	if monthlyRate == 0 {
		if monthlyContribution <= 0 {
			return 0, ErrUnreachableTarget
		}
		return int(math.Ceil((target - present) / monthlyContribution)), nil
	}

	// Balance shrinking or flat despite growth: contributions must be
	// covering at least the gap's interest for the target to be
	// reachable.
	if monthlyContribution <= 0 && present <= 0 {
		return 0, ErrUnreachableTarget
	}

	// Solve present*(1+r)^n + c*((1+r)^n - 1)/r >= target for n.
	r := monthlyRate
	c := monthlyContribution
	numerator := target + c/r
	denominator := present + c/r
	if denominator <= 0 || numerator/denominator <= 0 {
		return 0, ErrUnreachableTarget
	}

	n := math.Log(numerator/denominator) / math.Log(1.0+r)
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0, ErrUnreachableTarget
	}
	return int(math.Ceil(n)), nil
}
