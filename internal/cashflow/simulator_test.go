package cashflow

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func flatSeries(n int, revenue, cogs, opex string) MonthlySeries {
	s := MonthlySeries{
		Revenue: make([]decimal.Decimal, n),
		COGS:    make([]decimal.Decimal, n),
		Opex:    make([]decimal.Decimal, n),
	}
	for i := 0; i < n; i++ {
		s.Revenue[i] = dec(revenue)
		s.COGS[i] = dec(cogs)
		s.Opex[i] = dec(opex)
	}
	return s
}

func TestSimulateSeriesMismatch(t *testing.T) {
	s := flatSeries(12, "100", "50", "20")
	s.COGS = s.COGS[:11]

	if _, err := Simulate(s, Config{}, decimal.Zero); err != ErrSeriesMismatch {
		t.Errorf("expected ErrSeriesMismatch, got %v", err)
	}
}

func TestSimulateOperatingCashFlow(t *testing.T) {
	s := flatSeries(3, "3000", "1200", "600")

	out, err := Simulate(s, Config{}, dec("10000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 months, got %d", len(out))
	}

	for _, p := range out {
		if !p.OperatingCashFlow.Equal(dec("1200")) {
			t.Errorf("month %d: expected operating cash flow 1200, got %s", p.Month, p.OperatingCashFlow)
		}
	}
	// 1200 / 3000 * 100
	if !out[0].OperatingCashMargin.Equal(dec("40")) {
		t.Errorf("expected margin 40, got %s", out[0].OperatingCashMargin)
	}
	if !out[2].ClosingCash.Equal(dec("13600")) {
		t.Errorf("expected closing cash 13600, got %s", out[2].ClosingCash)
	}
}

func TestSimulateCollectionAndPaymentDelays(t *testing.T) {
	s := flatSeries(3, "3000", "1200", "600")
	cfg := Config{CollectionDelay: 1, PaymentDelay: 2}

	out, err := Simulate(s, cfg, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !out[0].CashFromSales.IsZero() || !out[0].CashForCOGS.IsZero() {
		t.Errorf("month 1: expected no cash movement yet, got sales=%s cogs=%s", out[0].CashFromSales, out[0].CashForCOGS)
	}
	if !out[1].CashFromSales.Equal(dec("3000")) {
		t.Errorf("month 2: expected collections 3000, got %s", out[1].CashFromSales)
	}
	if !out[2].CashForCOGS.Equal(dec("1200")) || !out[2].CashForOpex.Equal(dec("600")) {
		t.Errorf("month 3: expected payments 1200/600, got %s/%s", out[2].CashForCOGS, out[2].CashForOpex)
	}
}

func TestSimulateNegativeDelays(t *testing.T) {
	s := flatSeries(3, "3000", "1200", "600")
	cfg := Config{CollectionDelay: -1, PaymentDelay: -2}

	out, err := Simulate(s, cfg, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cash cannot move before the work happens.
	for _, p := range out {
		if !p.CashFromSales.Equal(dec("3000")) {
			t.Errorf("month %d: expected collections 3000, got %s", p.Month, p.CashFromSales)
		}
		if !p.CashForCOGS.Equal(dec("1200")) || !p.CashForOpex.Equal(dec("600")) {
			t.Errorf("month %d: expected payments 1200/600, got %s/%s", p.Month, p.CashForCOGS, p.CashForOpex)
		}
	}
}

func TestSimulateWorkingCapital(t *testing.T) {
	s := flatSeries(2, "3000", "1500", "0")
	cfg := Config{DaysReceivables: 30, DaysPayables: 60, DaysInventory: 15}

	out, err := Simulate(s, cfg, dec("100000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := out[0]
	if !first.Receivables.Equal(dec("3000")) || !first.Payables.Equal(dec("3000")) || !first.Inventory.Equal(dec("750")) {
		t.Errorf("unexpected carrying values: recv=%s pay=%s inv=%s", first.Receivables, first.Payables, first.Inventory)
	}
	// First month builds working capital from zero.
	if !first.WorkingCapitalChange.Equal(dec("750")) {
		t.Errorf("expected working capital change 750, got %s", first.WorkingCapitalChange)
	}
	// Flat series: no further change.
	if !out[1].WorkingCapitalChange.IsZero() {
		t.Errorf("expected zero working capital change, got %s", out[1].WorkingCapitalChange)
	}
}

func TestSimulateCapexAndLoanService(t *testing.T) {
	s := flatSeries(3, "5000", "2000", "1000")
	cfg := Config{
		Capex: []ScheduleEntry{
			{Month: 2, Amount: dec("10000"), Description: "server upgrade"},
			{Month: 2, Amount: dec("2500"), Description: "fitout"},
		},
		LoanPayments: []LoanPayment{
			{Month: 3, Amount: dec("800"), Type: LoanPaymentPrincipal},
			{Month: 3, Amount: dec("200"), Type: LoanPaymentInterest},
		},
	}

	out, err := Simulate(s, cfg, dec("50000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !out[0].Capex.IsZero() {
		t.Errorf("month 1: expected no capex, got %s", out[0].Capex)
	}
	if !out[1].Capex.Equal(dec("12500")) || !out[1].InvestingCashFlow.Equal(dec("-12500")) {
		t.Errorf("month 2: expected capex 12500, got %s", out[1].Capex)
	}
	if !out[2].PrincipalPayment.Equal(dec("800")) || !out[2].InterestPayment.Equal(dec("200")) {
		t.Errorf("month 3: expected loan service 800/200, got %s/%s", out[2].PrincipalPayment, out[2].InterestPayment)
	}
	// 2000 - 800 - 200
	if !out[2].NetCashFlow.Equal(dec("1000")) {
		t.Errorf("month 3: expected net cash flow 1000, got %s", out[2].NetCashFlow)
	}
}

// The credit draw never exceeds the remaining headroom, and drawn
// credit never exceeds the limit. Running out of credit is a flagged
// state, not an error.
func TestSimulateCreditLineClamp(t *testing.T) {
	s := flatSeries(3, "0", "0", "80000")
	cfg := Config{
		MinimumCash: dec("50000"),
		CreditLimit: dec("100000"),
	}

	out, err := Simulate(s, cfg, dec("100000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	limit := cfg.CreditLimit
	used := decimal.Zero
	for _, p := range out {
		headroom := limit.Sub(used)
		if p.CreditDrawings.GreaterThan(headroom) {
			t.Errorf("month %d: draw %s exceeds headroom %s", p.Month, p.CreditDrawings, headroom)
		}
		used = used.Add(p.CreditDrawings)
		if p.CreditUsed.GreaterThan(limit) {
			t.Errorf("month %d: credit used %s exceeds limit", p.Month, p.CreditUsed)
		}
	}

	// Month 1: cash 20000, draw 30000. Month 2: cash -30000, draw the
	// remaining 70000 even though the shortfall is 80000.
	if !out[1].CreditDrawings.Equal(dec("70000")) {
		t.Errorf("expected clamped draw 70000, got %s", out[1].CreditDrawings)
	}
	if !out[1].CreditUsed.Equal(dec("100000")) {
		t.Errorf("expected credit fully drawn, got %s", out[1].CreditUsed)
	}
	if !out[1].BelowMinimum || !out[2].BelowMinimum {
		t.Error("expected below-minimum flag once credit is exhausted")
	}
	if !out[2].CreditDrawings.IsZero() {
		t.Errorf("expected no draw with zero headroom, got %s", out[2].CreditDrawings)
	}
}

func TestSimulateCreditInterest(t *testing.T) {
	s := flatSeries(2, "0", "0", "60000")
	cfg := Config{
		MinimumCash:      dec("50000"),
		CreditLimit:      dec("200000"),
		AnnualCreditRate: dec("0.12"),
	}

	out, err := Simulate(s, cfg, dec("100000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Month 1: cash 40000, draw 10000; interest = 10000 * 0.01 = 100.
	if !out[0].CreditDrawings.Equal(dec("10000")) {
		t.Fatalf("expected draw 10000, got %s", out[0].CreditDrawings)
	}
	if !out[0].CreditInterest.Equal(dec("100")) {
		t.Errorf("expected credit interest 100, got %s", out[0].CreditInterest)
	}
	// Interest pushed cash 100 under the minimum.
	if !out[0].ClosingCash.Equal(dec("49900")) {
		t.Errorf("expected closing cash 49900, got %s", out[0].ClosingCash)
	}
	if !out[0].BelowMinimum {
		t.Error("expected below-minimum flag after interest deduction")
	}
}

func TestSimulateCashConversionCycleConstant(t *testing.T) {
	s := flatSeries(12, "4000", "1600", "900")
	cfg := Config{DaysReceivables: 45, DaysPayables: 30, DaysInventory: 10}

	out, err := Simulate(s, cfg, dec("25000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range out {
		if p.CashConversionCycle != 25 {
			t.Errorf("month %d: expected cash conversion cycle 25, got %d", p.Month, p.CashConversionCycle)
		}
	}
}

// A single catastrophic month draws the full credit line and lands on
// zero cash. The month is flagged rather than treated as an error.
func TestSimulateInsolvencyScenario(t *testing.T) {
	s := MonthlySeries{
		Revenue: []decimal.Decimal{decimal.Zero},
		COGS:    []decimal.Decimal{decimal.Zero},
		Opex:    []decimal.Decimal{dec("200000")},
	}
	cfg := Config{
		MinimumCash: dec("50000"),
		CreditLimit: dec("100000"),
	}

	out, err := Simulate(s, cfg, dec("100000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := out[0]
	if !p.OperatingCashFlow.Equal(dec("-200000")) {
		t.Errorf("expected operating cash flow -200000, got %s", p.OperatingCashFlow)
	}
	if !p.CreditDrawings.Equal(dec("100000")) {
		t.Errorf("expected full credit draw 100000, got %s", p.CreditDrawings)
	}
	if !p.ClosingCash.IsZero() {
		t.Errorf("expected closing cash 0, got %s", p.ClosingCash)
	}
	if !p.BelowMinimum {
		t.Error("expected deficiency flag at zero cash")
	}
	if !p.OperatingCashMargin.IsZero() {
		t.Errorf("expected zero margin on zero revenue, got %s", p.OperatingCashMargin)
	}
}

func TestSimulateDeterminism(t *testing.T) {
	s := flatSeries(12, "3333.33", "1234.56", "789.01")
	cfg := Config{
		DaysReceivables:  42,
		DaysPayables:     28,
		DaysInventory:    7,
		CollectionDelay:  1,
		PaymentDelay:     1,
		Capex:            []ScheduleEntry{{Month: 5, Amount: dec("9999.99")}},
		LoanPayments:     []LoanPayment{{Month: 4, Amount: dec("1500"), Type: LoanPaymentPrincipal}},
		MinimumCash:      dec("5000"),
		CreditLimit:      dec("50000"),
		AnnualCreditRate: dec("0.095"),
	}

	a, err := Simulate(s, cfg, dec("7500"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Simulate(s, cfg, dec("7500"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical projections for identical inputs")
	}
	for i := range a {
		if a[i].ClosingCash.String() != b[i].ClosingCash.String() {
			t.Errorf("month %d: closing cash differs: %s vs %s", i+1, a[i].ClosingCash, b[i].ClosingCash)
		}
	}
}
