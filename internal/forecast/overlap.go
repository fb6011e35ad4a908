// Package forecast implements the forecast/scenario application engine:
// conflict detection between competing record definitions and the
// projection of monthly values onto ledger rows.
package forecast

import (
	"ledgercast/internal/models"
	"ledgercast/internal/month"
)

// OverlapResult reports the outcome of an overlap check. When
// HasOverlap is true, Records holds every conflicting record and
// AccountIDs the union of account ids shared with them.
type OverlapResult struct {
	HasOverlap bool                      `json:"has_overlap"`
	Records    []models.ProjectionRecord `json:"records,omitempty"`
	AccountIDs []string                  `json:"account_ids,omitempty"`
}

// CheckOverlap reports whether a candidate (account set, month range)
// conflicts with any existing active record. A record conflicts when
// it shares at least one account id with the candidate and its
// inclusive month range intersects the candidate's. Paused records
// never conflict; excludeID skips the record being edited. The check
// is a pure query: callers run it before every create, edit, or
// activation and reject the whole operation on a conflict.
func CheckOverlap(accountIDs []string, start, end month.Month, existing []models.ProjectionRecord, excludeID string) OverlapResult {
	result := OverlapResult{}
	if len(accountIDs) == 0 {
		return result
	}

	candidate := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		candidate[id] = true
	}

	shared := make(map[string]bool)
	for i := range existing {
		rec := &existing[i]
		if !rec.IsActive() || rec.ID == excludeID {
			continue
		}

		var common []string
		for _, id := range rec.AccountIDs {
			if candidate[id] {
				common = append(common, id)
			}
		}
		if len(common) == 0 {
			continue
		}
		if !month.Overlaps(start, end, rec.Start(), rec.End()) {
			continue
		}

		result.HasOverlap = true
		result.Records = append(result.Records, *rec)
		for _, id := range common {
			if !shared[id] {
				shared[id] = true
				result.AccountIDs = append(result.AccountIDs, id)
			}
		}
	}
	return result
}
