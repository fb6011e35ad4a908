package services

import (
	"testing"

	"ledgercast/internal/pagination"
	"ledgercast/internal/testutil"
)

func TestAuditServiceGetLogs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)

	svc.Log(user.ID, "create", "category", "", "127.0.0.1", nil)
	svc.Log(user.ID, "update", "category", "", "127.0.0.1", map[string]interface{}{"name": "Revenue"})
	svc.Log(user.ID, "delete", "row", "", "127.0.0.1", nil)

	result, err := svc.GetLogs(pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)

	if result.TotalItems != 3 {
		t.Errorf("expected 3 entries, got %d", result.TotalItems)
	}
	if result.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", result.TotalPages)
	}
	if len(result.Data) != 2 {
		t.Fatalf("expected 2 entries on the first page, got %d", len(result.Data))
	}
	for _, entry := range result.Data {
		if entry.UserID != user.ID {
			t.Errorf("expected entries for %s, got %s", user.ID, entry.UserID)
		}
	}
}
