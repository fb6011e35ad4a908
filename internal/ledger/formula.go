package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ledgercast/internal/models"
	"ledgercast/internal/month"
)

// Formulas are additive expressions over snake_case terms, e.g.
// "sales_revenue - cogs" or "gross_profit - operating_expenses".
// A term resolves to a row-type total, or to another category by key
// (calculated categories evaluate recursively).

type formulaTerm struct {
	name     string
	negative bool
}

func parseFormula(expr string) ([]formulaTerm, error) {
	var terms []formulaTerm
	negative := false
	for _, field := range strings.Fields(expr) {
		switch field {
		case "+":
			// sign already positive for the next term
		case "-":
			negative = true
		default:
			terms = append(terms, formulaTerm{name: field, negative: negative})
			negative = false
		}
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty formula %q", expr)
	}
	return terms, nil
}

// CalculatedTotal evaluates a calculated category's formula for the
// given month.
func (l *Ledger) CalculatedTotal(cat *models.Category, m month.Month) (decimal.Decimal, error) {
	if !cat.IsCalculated || cat.Formula == "" {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNotCalculated, cat.Key)
	}
	return l.evalFormula(cat.Formula, m, map[string]bool{cat.Key: true})
}

func (l *Ledger) evalFormula(expr string, m month.Month, visited map[string]bool) (decimal.Decimal, error) {
	terms, err := parseFormula(expr)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, term := range terms {
		value, err := l.resolveTerm(term.name, m, visited)
		if err != nil {
			return decimal.Zero, err
		}
		if term.negative {
			total = total.Sub(value)
		} else {
			total = total.Add(value)
		}
	}
	return total, nil
}

func (l *Ledger) resolveTerm(name string, m month.Month, visited map[string]bool) (decimal.Decimal, error) {
	for _, t := range models.RowTypes {
		if string(t) == name {
			return l.TypeTotal(t, m), nil
		}
	}

	for i := range l.categories {
		cat := &l.categories[i]
		if cat.Key != name {
			continue
		}
		if !cat.IsCalculated {
			return l.CategoryTotal(cat, m), nil
		}
		if visited[name] {
			return decimal.Zero, fmt.Errorf("formula cycle at %q", name)
		}
		visited[name] = true
		return l.evalFormula(cat.Formula, m, visited)
	}

	return decimal.Zero, fmt.Errorf("unknown formula term %q", name)
}
