package lending

import (
	"testing"
	"time"
)

func TestSelectApprovable_OnlyTodaysPending(t *testing.T) {
	loc := time.FixedZone("test", -7*3600)
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, loc)
	today := time.Date(2026, 10, 15, 0, 0, 0, 0, loc)
	yesterday := today.AddDate(0, 0, -1)

	logs := []LogEntry{
		{ID: "a", Status: StatusPending, BorrowDate: today},
		{ID: "b", Status: StatusPending, BorrowDate: yesterday},
		{ID: "c", Status: StatusBorrowed, BorrowDate: today},
		{ID: "d", Status: StatusPending, BorrowDate: today.Add(23 * time.Hour)},
		{ID: "e", Status: StatusPending},
	}
	got := SelectApprovable(logs, now, loc)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "d" {
		t.Fatalf("unexpected selection %+v", got)
	}

	patch := ApprovalPatch("Alex")
	after := patch.Apply(got[0])
	if after.Status != StatusBorrowed || after.ClearedBy != "Alex" {
		t.Errorf("unexpected approved entry %+v", after)
	}
	if _, err := Transition(got[0], StatusBorrowed, "Alex"); err != nil {
		t.Errorf("approval must be a valid single transition: %v", err)
	}
}

func TestSelectApprovable_UsesLocationForDayBoundary(t *testing.T) {
	loc := time.FixedZone("plus10", 10*3600)
	// 23:00 UTC on the 14th is already the 15th in loc.
	borrow := time.Date(2026, 10, 14, 23, 0, 0, 0, time.UTC)
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, loc)
	got := SelectApprovable([]LogEntry{{ID: "x", Status: StatusPending, BorrowDate: borrow}}, now, loc)
	if len(got) != 1 {
		t.Fatalf("expected entry to be selected, got %d", len(got))
	}
}

func TestSelectApprovable_Empty(t *testing.T) {
	if got := SelectApprovable(nil, time.Now(), time.Local); len(got) != 0 {
		t.Fatalf("expected empty selection, got %d", len(got))
	}
}
