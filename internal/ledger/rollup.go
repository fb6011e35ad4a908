package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"ledgercast/internal/month"
)

// SubcategoryRollup aggregates one subcategory's rows for a year.
type SubcategoryRollup struct {
	SubcategoryID string            `json:"subcategory_id"`
	Name          string            `json:"name"`
	Monthly       []decimal.Decimal `json:"monthly"`
	Annual        decimal.Decimal   `json:"annual"`
}

// CategoryRollup aggregates one category's monthly totals for a year.
// Calculated categories carry formula-derived totals and no
// subcategory breakdown.
type CategoryRollup struct {
	CategoryID    string              `json:"category_id"`
	Key           string              `json:"key"`
	Name          string              `json:"name"`
	IsCalculated  bool                `json:"is_calculated"`
	Monthly       []decimal.Decimal   `json:"monthly"`
	Annual        decimal.Decimal     `json:"annual"`
	Subcategories []SubcategoryRollup `json:"subcategories,omitempty"`
}

// Rollup computes the per-category monthly totals for a calendar year,
// in category display order.
func (l *Ledger) Rollup(year int) ([]CategoryRollup, error) {
	out := make([]CategoryRollup, 0, len(l.categories))
	for i := range l.categories {
		cat := &l.categories[i]
		r := CategoryRollup{
			CategoryID:   cat.ID,
			Key:          cat.Key,
			Name:         cat.Name,
			IsCalculated: cat.IsCalculated,
			Monthly:      make([]decimal.Decimal, 12),
		}

		for mi := 0; mi < 12; mi++ {
			m := month.New(year, time.Month(mi+1))
			if cat.IsCalculated {
				v, err := l.CalculatedTotal(cat, m)
				if err != nil {
					return nil, err
				}
				r.Monthly[mi] = v
			} else {
				r.Monthly[mi] = l.CategoryTotal(cat, m)
			}
			r.Annual = r.Annual.Add(r.Monthly[mi])
		}

		if !cat.IsCalculated {
			for si := range cat.Subcategories {
				sub := &cat.Subcategories[si]
				sr := SubcategoryRollup{
					SubcategoryID: sub.ID,
					Name:          sub.Name,
					Monthly:       make([]decimal.Decimal, 12),
				}
				for mi := 0; mi < 12; mi++ {
					sr.Monthly[mi] = l.SubcategoryTotal(sub, month.New(year, time.Month(mi+1)))
					sr.Annual = sr.Annual.Add(sr.Monthly[mi])
				}
				r.Subcategories = append(r.Subcategories, sr)
			}
		}

		out = append(out, r)
	}
	return out, nil
}
