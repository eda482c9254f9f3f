package lending

import (
	"fmt"
	"strings"
)

// Patch is a partial update of a log entry. Nil fields are left untouched.
type Patch struct {
	Status    *Status `json:"status,omitempty"`
	ClearedBy *string `json:"clearedBy,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Status == nil && p.ClearedBy == nil
}

// Apply returns e with the patch merged in.
func (p Patch) Apply(e LogEntry) LogEntry {
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.ClearedBy != nil {
		e.ClearedBy = *p.ClearedBy
	}
	return e
}

// Transition computes the partial update moving entry to the target status.
//
// Any status may be set to any other status; the selector administrators use
// has never been restricted. Only PENDING -> BORROWED stamps ClearedBy with the
// acting admin. Setting the current status again yields an empty patch.
func Transition(entry LogEntry, to Status, actor string) (Patch, error) {
	if !to.Valid() {
		return Patch{}, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", to)}
	}
	if entry.Status == to {
		return Patch{}, nil
	}
	p := Patch{Status: &to}
	if entry.Status == StatusPending && to == StatusBorrowed {
		actor = strings.TrimSpace(actor)
		if actor == "" {
			return Patch{}, &ValidationError{Field: "clearedBy", Message: "acting administrator is required to approve a request"}
		}
		p.ClearedBy = &actor
	}
	return p, nil
}

// CanDelete guards the only destructive operation on log entries.
func CanDelete(entry LogEntry) error {
	if entry.Status == StatusBorrowed {
		return &PreconditionError{Message: "cannot delete an item currently on loan"}
	}
	return nil
}
