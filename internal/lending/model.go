package lending

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusBorrowed Status = "BORROWED"
	StatusReturned Status = "RETURNED"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusPending, StatusBorrowed, StatusReturned}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusBorrowed, StatusReturned:
		return true
	}
	return false
}

// ParseStatus accepts any letter case, e.g. "borrowed".
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", s)}
	}
	return st, nil
}

// LogEntry is one audit record of a single item borrowed by one requestor.
// Item is a copy of the equipment name taken at request time, not a reference.
type LogEntry struct {
	ID         string    `json:"id"`
	Requestor  string    `json:"requestor"`
	Item       string    `json:"item"`
	Purpose    string    `json:"purpose"`
	BorrowDate time.Time `json:"borrowDate"`
	ReturnDate time.Time `json:"returnDate"`
	Status     Status    `json:"status"`
	ClearedBy  string    `json:"clearedBy"`
}

type EquipmentItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type CollateralItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Quantity int    `json:"quantity"`
	Remarks  string `json:"remarks"`
}

// AdminUser is an account in the admin registry. Username uniqueness is
// enforced when accounts are created.
type AdminUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate checks the fields required for create and update.
func (e EquipmentItem) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return &ValidationError{Field: "name", Message: "equipment name is required"}
	}
	if strings.TrimSpace(e.ImageURL) == "" {
		return &ValidationError{Field: "imageUrl", Message: "image URL is required"}
	}
	return nil
}

func (c CollateralItem) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "collateral name is required"}
	}
	if strings.TrimSpace(c.Location) == "" {
		return &ValidationError{Field: "location", Message: "location is required"}
	}
	if c.Quantity < 0 {
		return &ValidationError{Field: "quantity", Message: "quantity must not be negative"}
	}
	return nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay compares calendar days in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a.In(loc)).Equal(StartOfDay(b.In(loc)))
}

// FormatDate renders a date the way the logbook displays it (M/D/YYYY).
// Zero times render as "N/A".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("1/2/2006")
}
