package storage

import (
	"time"

	"equipment-logbook/internal/lending"
)

type logRow struct {
	ID         string    `db:"id"`
	Requestor  string    `db:"requestor"`
	Item       string    `db:"item"`
	Purpose    string    `db:"purpose"`
	BorrowDate time.Time `db:"borrow_date"`
	ReturnDate time.Time `db:"return_date"`
	Status     string    `db:"status"`
	ClearedBy  string    `db:"cleared_by"`
}

func (r logRow) entry() lending.LogEntry {
	return lending.LogEntry{
		ID:         r.ID,
		Requestor:  r.Requestor,
		Item:       r.Item,
		Purpose:    r.Purpose,
		BorrowDate: r.BorrowDate,
		ReturnDate: r.ReturnDate,
		Status:     lending.Status(r.Status),
		ClearedBy:  r.ClearedBy,
	}
}

type equipmentRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	ImageURL string `db:"image_url"`
}

type collateralRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Location string `db:"location"`
	Quantity int    `db:"quantity"`
	Remarks  string `db:"remarks"`
}

type adminRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r adminRow) admin() lending.AdminUser {
	return lending.AdminUser{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

// LogUpdate is a partial update of one log entry inside a batch.
type LogUpdate struct {
	ID    string
	Patch lending.Patch
}

// LogBatch groups creates and partial updates applied in one transaction.
type LogBatch struct {
	Create []lending.LogEntry
	Update []LogUpdate
}

func (b LogBatch) Empty() bool {
	return len(b.Create) == 0 && len(b.Update) == 0
}
