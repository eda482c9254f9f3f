package lending

import (
	"testing"
	"time"
)

func TestSearch(t *testing.T) {
	logs := []LogEntry{
		{ID: "1", Requestor: "Dana Reyes", Item: "Drone", Purpose: "survey", Status: StatusPending,
			BorrowDate: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Requestor: "Lee", Item: "Tripod", Purpose: "Photo shoot", Status: StatusBorrowed, ClearedBy: "Alex"},
	}

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"1", "2"}},
		{"dana", []string{"1"}},
		{"TRIPOD", []string{"2"}},
		{"alex", []string{"2"}},
		{"borrowed", []string{"2"}},
		{"3/4/2026", []string{"1"}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := Search(logs, tt.term)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("result %d: id %s, want %s", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Time{}); got != "N/A" {
		t.Errorf("zero date: %q", got)
	}
	if got := FormatDate(time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)); got != "1/9/2026" {
		t.Errorf("FormatDate: %q", got)
	}
}
