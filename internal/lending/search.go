package lending

import "strings"

// Search filters logs by a case-insensitive substring over the displayed
// columns, dates included in their M/D/YYYY form. An empty term matches all.
func Search(logs []LogEntry, term string) []LogEntry {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return logs
	}
	out := []LogEntry{}
	for _, e := range logs {
		if matches(e, term) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e LogEntry, term string) bool {
	fields := []string{e.Requestor, e.Item, e.Purpose, string(e.Status), e.ClearedBy}
	if !e.BorrowDate.IsZero() {
		fields = append(fields, FormatDate(e.BorrowDate))
	}
	if !e.ReturnDate.IsZero() {
		fields = append(fields, FormatDate(e.ReturnDate))
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
