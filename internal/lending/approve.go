package lending

import "time"

// SelectApprovable returns the PENDING entries whose borrow date falls on the
// calendar day of now in loc. Input order is preserved.
func SelectApprovable(logs []LogEntry, now time.Time, loc *time.Location) []LogEntry {
	var out []LogEntry
	for _, e := range logs {
		if e.Status != StatusPending || e.BorrowDate.IsZero() {
			continue
		}
		if SameDay(e.BorrowDate, now, loc) {
			out = append(out, e)
		}
	}
	return out
}

// ApprovalPatch is the update bulk approval applies to every selected entry.
// Selected entries are all PENDING, so it equals Transition(e, BORROWED, actor).
func ApprovalPatch(actor string) Patch {
	st := StatusBorrowed
	return Patch{Status: &st, ClearedBy: &actor}
}
