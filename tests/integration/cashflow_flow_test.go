package integration

import (
	"net/http"
	"testing"
)

func TestCashflowFlow(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "treasurer@practice.test", "password123")

	_, _, revenueRow := app.buildWorkbook(t, token, "revenue", "sales_revenue")
	_, _, cogsRow := app.buildWorkbook(t, token, "cogs", "cogs")
	_, _, opexRow := app.buildWorkbook(t, token, "opex", "operating_expenses")

	for _, ym := range []string{"2026-01", "2026-02", "2026-03"} {
		app.setMonthValue(t, token, revenueRow, ym, "2000")
		app.setMonthValue(t, token, cogsRow, ym, "500")
		app.setMonthValue(t, token, opexRow, ym, "300")
	}

	t.Run("simulation tracks operating cash", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/cashflow/simulate",
			`{"start_month":"2026-01","months":3,"opening_cash":"10000"}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		result := parseJSON(t, rec)
		projections := result["projections"].([]interface{})
		if len(projections) != 3 {
			t.Fatalf("expected 3 projections, got %d", len(projections))
		}

		first := projections[0].(map[string]interface{})
		if first["operating_cash_flow"].(string) != "1200" {
			t.Errorf("expected operating cash flow 1200, got %v", first["operating_cash_flow"])
		}

		last := projections[2].(map[string]interface{})
		if last["closing_cash"].(string) != "13600" {
			t.Errorf("expected closing cash 13600, got %v", last["closing_cash"])
		}
	})

	t.Run("credit line covers a capex shortfall", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/cashflow/simulate",
			`{"start_month":"2026-01","months":2,"opening_cash":"1000","minimum_cash":"500","credit_limit":"50000","capex":[{"month":1,"amount":"5000","description":"new server"}]}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		projections := parseJSON(t, rec)["projections"].([]interface{})
		first := projections[0].(map[string]interface{})

		// Opening 1000 + 1200 operating - 5000 capex leaves -2800;
		// the draw restores the 500 floor.
		if first["credit_drawings"].(string) != "3300" {
			t.Errorf("expected credit draw 3300, got %v", first["credit_drawings"])
		}
		if first["closing_cash"].(string) != "500" {
			t.Errorf("expected closing cash at the minimum, got %v", first["closing_cash"])
		}
	})

	t.Run("horizon is capped", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/cashflow/simulate",
			`{"start_month":"2026-01","months":61,"opening_cash":"10000"}`, token)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestCalculators(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "advisor@practice.test", "password123")

	t.Run("loan payment", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/calculators/loan-payment",
			`{"principal":300000,"annual_rate":6,"term_months":360}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		payment := parseJSON(t, rec)["monthly_payment"].(float64)
		if payment < 1798 || payment > 1799 {
			t.Errorf("expected payment near 1798.65, got %f", payment)
		}
	})

	t.Run("zero-rate loan is a straight division", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/calculators/loan-payment",
			`{"principal":12000,"annual_rate":0,"term_months":12}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		payment := parseJSON(t, rec)["monthly_payment"].(float64)
		if payment != 1000 {
			t.Errorf("expected payment 1000, got %f", payment)
		}
	})

	t.Run("unreachable savings goal", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/calculators/savings-goal",
			`{"present":100,"monthly_contribution":0,"annual_rate":0,"target":10000}`, token)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}
