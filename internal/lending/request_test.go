package lending

import (
	"errors"
	"testing"
	"time"
)

func TestBuildRequest_OneEntryPerDistinctItem(t *testing.T) {
	req := Request{
		Requestor:  "Dana",
		Purpose:    "site survey",
		BorrowDate: "2026-10-15",
		ReturnDate: "2026-10-17",
		Items:      []string{"Drone", "Tripod", "Drone", " Tripod ", "GPS"},
	}
	entries, err := BuildRequest(req, time.UTC)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	want := []string{"Drone", "Tripod", "GPS"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	borrow := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	ret := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	for i, e := range entries {
		if e.Item != want[i] {
			t.Errorf("entry %d: item %q, want %q", i, e.Item, want[i])
		}
		if e.Status != StatusPending {
			t.Errorf("entry %d: status %s, want PENDING", i, e.Status)
		}
		if e.ClearedBy != "" {
			t.Errorf("entry %d: clearedBy %q, want empty", i, e.ClearedBy)
		}
		if e.Requestor != "Dana" || e.Purpose != "site survey" {
			t.Errorf("entry %d: unexpected requestor/purpose %+v", i, e)
		}
		if !e.BorrowDate.Equal(borrow) || !e.ReturnDate.Equal(ret) {
			t.Errorf("entry %d: unexpected dates %v %v", i, e.BorrowDate, e.ReturnDate)
		}
		if e.ID != "" {
			t.Errorf("entry %d: id should be left to the store, got %q", i, e.ID)
		}
	}
}

func TestBuildRequest_Validation(t *testing.T) {
	valid := Request{
		Requestor:  "Dana",
		Purpose:    "site survey",
		BorrowDate: "2026-10-15",
		ReturnDate: "2026-10-17",
		Items:      []string{"Drone"},
	}

	tests := []struct {
		name  string
		edit  func(r *Request)
		field string
	}{
		{"missing requestor", func(r *Request) { r.Requestor = "  " }, "requestor"},
		{"missing purpose", func(r *Request) { r.Purpose = "" }, "purpose"},
		{"no items", func(r *Request) { r.Items = nil }, "items"},
		{"only blank items", func(r *Request) { r.Items = []string{"", " "} }, "items"},
		{"missing borrow date", func(r *Request) { r.BorrowDate = "" }, "borrowDate"},
		{"malformed borrow date", func(r *Request) { r.BorrowDate = "15/10/2026" }, "borrowDate"},
		{"malformed return date", func(r *Request) { r.ReturnDate = "2026-13-01" }, "returnDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			req.Items = append([]string(nil), valid.Items...)
			tt.edit(&req)
			entries, err := BuildRequest(req, time.UTC)
			if entries != nil {
				t.Errorf("expected no entries, got %d", len(entries))
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestItemSet_AddIsIdempotent(t *testing.T) {
	s := NewItemSet()
	s.Add("Drone")
	s.Add("Drone")
	s.Add("Tripod")
	s.Remove("Drone")
	s.Remove("Missing")
	s.Add("Drone")

	got := s.Names()
	if len(got) != 2 || got[0] != "Tripod" || got[1] != "Drone" {
		t.Fatalf("unexpected names %v", got)
	}
}
