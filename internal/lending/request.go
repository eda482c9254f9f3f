package lending

import (
	"strings"
	"time"
)

// DateLayout is the wire format for borrow and return dates.
const DateLayout = "2006-01-02"

// Request is a single submission: one requestor borrowing one or more items
// for the same purpose and date range.
type Request struct {
	Requestor  string   `json:"requestor"`
	Purpose    string   `json:"purpose"`
	BorrowDate string   `json:"borrowDate"`
	ReturnDate string   `json:"returnDate"`
	Items      []string `json:"items"`
}

// ItemSet keeps selected item names unique in selection order.
// Adding an already selected name is a no-op.
type ItemSet struct {
	names []string
	seen  map[string]struct{}
}

func NewItemSet(names ...string) *ItemSet {
	s := &ItemSet{seen: make(map[string]struct{})}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s *ItemSet) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if _, ok := s.seen[name]; ok {
		return
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
}

func (s *ItemSet) Remove(name string) {
	name = strings.TrimSpace(name)
	if _, ok := s.seen[name]; !ok {
		return
	}
	delete(s.seen, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

func (s *ItemSet) Len() int {
	return len(s.names)
}

func (s *ItemSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(field, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, &ValidationError{Field: field, Message: "date is required"}
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Message: "invalid date, expected YYYY-MM-DD"}
	}
	return t, nil
}

// BuildRequest validates a submission and returns one PENDING entry per
// distinct item. Entries carry no id; the store assigns them on create.
func BuildRequest(req Request, loc *time.Location) ([]LogEntry, error) {
	requestor := strings.TrimSpace(req.Requestor)
	if requestor == "" {
		return nil, &ValidationError{Field: "requestor", Message: "requestor name is required"}
	}
	purpose := strings.TrimSpace(req.Purpose)
	if purpose == "" {
		return nil, &ValidationError{Field: "purpose", Message: "purpose is required"}
	}
	items := NewItemSet(req.Items...)
	if items.Len() == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one item must be selected"}
	}
	borrow, err := ParseDate("borrowDate", req.BorrowDate, loc)
	if err != nil {
		return nil, err
	}
	ret, err := ParseDate("returnDate", req.ReturnDate, loc)
	if err != nil {
		return nil, err
	}

	entries := make([]LogEntry, 0, items.Len())
	for _, name := range items.Names() {
		entries = append(entries, LogEntry{
			Requestor:  requestor,
			Item:       name,
			Purpose:    purpose,
			BorrowDate: borrow,
			ReturnDate: ret,
			Status:     StatusPending,
			ClearedBy:  "",
		})
	}
	return entries, nil
}
