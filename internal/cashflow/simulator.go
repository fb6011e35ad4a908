// Package cashflow implements the sequential cash-flow simulation that
// consumes the ledger's monthly revenue, COGS, and operating-expense
// rollups. Simulate is a pure function of its inputs, but each month's
// result depends on the prior month's closing cash and credit-line
// balance, so months are computed strictly in order.
package cashflow

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrSeriesMismatch is returned when the revenue, COGS, and opex
// series are not the same length.
var ErrSeriesMismatch = errors.New("monthly series lengths differ")

var (
	thirty  = decimal.NewFromInt(30)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// ScheduleEntry is a one-off cash outflow planned for a simulation
// month (1-based).
type ScheduleEntry struct {
	Month       int             `json:"month" binding:"required,min=1"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// LoanPaymentType splits debt service into principal and interest
type LoanPaymentType string

const (
	LoanPaymentPrincipal LoanPaymentType = "principal"
	LoanPaymentInterest  LoanPaymentType = "interest"
)

// LoanPayment is a scheduled debt-service payment for a simulation
// month (1-based).
type LoanPayment struct {
	Month  int             `json:"month" binding:"required,min=1"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Type   LoanPaymentType `json:"type" binding:"required,oneof=principal interest"`
}

// Config holds the working-capital assumptions, timing offsets,
// schedules, and credit-line policy for a simulation run. It is
// simulation input, never persisted ledger state.
type Config struct {
	DaysReceivables int `json:"days_receivables"`
	DaysPayables    int `json:"days_payables"`
	DaysInventory   int `json:"days_inventory"`

	// Months between booking revenue/costs and the cash moving.
	CollectionDelay int `json:"collection_delay"`
	PaymentDelay    int `json:"payment_delay"`

	Capex        []ScheduleEntry `json:"capex,omitempty"`
	LoanPayments []LoanPayment   `json:"loan_payments,omitempty"`

	MinimumCash decimal.Decimal `json:"minimum_cash"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	// AnnualCreditRate is a fraction (0.12 means 12% per year).
	AnnualCreditRate decimal.Decimal `json:"annual_credit_rate"`
}

// MonthlySeries carries the ledger rollups feeding the simulation.
// All three series must have the same length.
type MonthlySeries struct {
	Revenue []decimal.Decimal `json:"revenue"`
	COGS    []decimal.Decimal `json:"cogs"`
	Opex    []decimal.Decimal `json:"opex"`
}

// Projection is one simulated month. Fully derived output, never a
// source of truth.
type Projection struct {
	Month int `json:"month"`

	CashFromSales     decimal.Decimal `json:"cash_from_sales"`
	CashForCOGS       decimal.Decimal `json:"cash_for_cogs"`
	CashForOpex       decimal.Decimal `json:"cash_for_opex"`
	OperatingCashFlow decimal.Decimal `json:"operating_cash_flow"`

	Receivables          decimal.Decimal `json:"receivables"`
	Payables             decimal.Decimal `json:"payables"`
	Inventory            decimal.Decimal `json:"inventory"`
	WorkingCapitalChange decimal.Decimal `json:"working_capital_change"`

	Capex             decimal.Decimal `json:"capex"`
	InvestingCashFlow decimal.Decimal `json:"investing_cash_flow"`

	PrincipalPayment decimal.Decimal `json:"principal_payment"`
	InterestPayment  decimal.Decimal `json:"interest_payment"`

	CreditDrawings decimal.Decimal `json:"credit_drawings"`
	CreditInterest decimal.Decimal `json:"credit_interest"`
	CreditUsed     decimal.Decimal `json:"credit_used"`

	NetCashFlow decimal.Decimal `json:"net_cash_flow"`
	ClosingCash decimal.Decimal `json:"closing_cash"`

	CashConversionCycle int             `json:"cash_conversion_cycle"`
	OperatingCashMargin decimal.Decimal `json:"operating_cash_margin"`

	// BelowMinimum flags months where cash ends under the configured
	// minimum even after drawing on the credit line. Insolvency is a
	// reportable state, not a simulation failure.
	BelowMinimum bool `json:"below_minimum"`
}

// Simulate runs the month-by-month cash-flow projection. Identical
// inputs always produce identical output.
func Simulate(series MonthlySeries, cfg Config, openingCash decimal.Decimal) ([]Projection, error) {
	n := len(series.Revenue)
	if len(series.COGS) != n || len(series.Opex) != n {
		return nil, ErrSeriesMismatch
	}

	ccc := cfg.DaysReceivables + cfg.DaysInventory - cfg.DaysPayables

	out := make([]Projection, 0, n)
	cash := openingCash
	creditUsed := decimal.Zero
	prevReceivables := decimal.Zero
	prevPayables := decimal.Zero
	prevInventory := decimal.Zero

	for i := 0; i < n; i++ {
		p := Projection{Month: i + 1, CashConversionCycle: ccc}

		// 1. Cash timing: collections and payments lag bookings.
		p.CashFromSales = lagged(series.Revenue, i, cfg.CollectionDelay)
		p.CashForCOGS = lagged(series.COGS, i, cfg.PaymentDelay)
		p.CashForOpex = lagged(series.Opex, i, cfg.PaymentDelay)
		p.OperatingCashFlow = p.CashFromSales.Sub(p.CashForCOGS).Sub(p.CashForOpex)

		// 2. Working capital carried at days-outstanding rates.
		dailyRevenue := series.Revenue[i].Div(thirty)
		dailyCOGS := series.COGS[i].Div(thirty)
		p.Receivables = dailyRevenue.Mul(decimal.NewFromInt(int64(cfg.DaysReceivables)))
		p.Payables = dailyCOGS.Mul(decimal.NewFromInt(int64(cfg.DaysPayables)))
		p.Inventory = dailyCOGS.Mul(decimal.NewFromInt(int64(cfg.DaysInventory)))
		p.WorkingCapitalChange = p.Receivables.Sub(prevReceivables).
			Add(p.Inventory.Sub(prevInventory)).
			Sub(p.Payables.Sub(prevPayables))

		// 3. Investing.
		p.Capex = scheduled(cfg.Capex, i+1)
		p.InvestingCashFlow = p.Capex.Neg()

		// 4. Debt service.
		p.PrincipalPayment, p.InterestPayment = loanService(cfg.LoanPayments, i+1)
		netBeforeCredit := p.OperatingCashFlow.
			Sub(p.WorkingCapitalChange).
			Add(p.InvestingCashFlow).
			Sub(p.PrincipalPayment).
			Sub(p.InterestPayment)

		// 5. Credit-line policy: draw up to the remaining headroom to
		// keep cash at the minimum. If the shortfall exceeds the
		// headroom, cash is allowed to fall below the minimum.
		cash = cash.Add(netBeforeCredit)
		if cash.LessThan(cfg.MinimumCash) {
			shortfall := cfg.MinimumCash.Sub(cash)
			headroom := cfg.CreditLimit.Sub(creditUsed)
			if headroom.IsNegative() {
				headroom = decimal.Zero
			}
			p.CreditDrawings = decimal.Min(shortfall, headroom)
			creditUsed = creditUsed.Add(p.CreditDrawings)
			cash = cash.Add(p.CreditDrawings)
		}

		// 6. Interest accrues on the full drawn balance.
		p.CreditInterest = creditUsed.Mul(cfg.AnnualCreditRate.Div(twelve))
		cash = cash.Sub(p.CreditInterest)
		p.CreditUsed = creditUsed

		// 7. Reported net cash flow.
		p.NetCashFlow = p.OperatingCashFlow.
			Sub(p.WorkingCapitalChange).
			Add(p.InvestingCashFlow).
			Add(p.CreditDrawings.Sub(p.PrincipalPayment).Sub(p.InterestPayment).Sub(p.CreditInterest))

		// 8. Ratios.
		if series.Revenue[i].IsPositive() {
			p.OperatingCashMargin = p.OperatingCashFlow.Div(series.Revenue[i]).Mul(hundred)
		}

		p.ClosingCash = cash
		p.BelowMinimum = cash.LessThan(cfg.MinimumCash)

		prevReceivables = p.Receivables
		prevPayables = p.Payables
		prevInventory = p.Inventory
		out = append(out, p)
	}
	return out, nil
}

// lagged returns series[i-delay], or zero before the series begins.
// Negative delays are treated as no delay.
func lagged(series []decimal.Decimal, i, delay int) decimal.Decimal {
	if delay < 0 {
		delay = 0
	}
	idx := i - delay
	if idx < 0 {
		return decimal.Zero
	}
	return series[idx]
}

func scheduled(entries []ScheduleEntry, month int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Month == month {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func loanService(payments []LoanPayment, month int) (principal, interest decimal.Decimal) {
	for _, p := range payments {
		if p.Month != month {
			continue
		}
		switch p.Type {
		case LoanPaymentPrincipal:
			principal = principal.Add(p.Amount)
		case LoanPaymentInterest:
			interest = interest.Add(p.Amount)
		}
	}
	return principal, interest
}
