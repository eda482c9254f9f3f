package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"equipment-logbook/internal/lending"
)

func newMockProvider(t *testing.T) (*SQLProvider, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLProviderFromDB(sqlx.NewDb(db, "sqlite3"), "sqlite3"), mock
}

func TestSQLProvider_ListLogs(t *testing.T) {
	p, mock := newMockProvider(t)
	borrow := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM logs ORDER BY borrow_date DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "requestor", "item", "purpose", "borrow_date", "return_date", "status", "cleared_by"}).
			AddRow("01J", "Dana", "Drone", "survey", borrow, borrow.AddDate(0, 0, 2), "BORROWED", "Alex"))

	logs, err := p.ListLogs(context.Background())
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != lending.StatusBorrowed || logs[0].ClearedBy != "Alex" {
		t.Errorf("unexpected logs: %+v", logs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSQLProvider_GetLog_NotFound(t *testing.T) {
	p, mock := newMockProvider(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM logs WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := p.GetLog(context.Background(), "missing")
	if !errors.Is(err, lending.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLProvider_UpdateLog_OnlyChangedFields(t *testing.T) {
	p, mock := newMockProvider(t)
	ctx := context.Background()

	returned := lending.StatusReturned
	mock.ExpectExec(regexp.QuoteMeta("UPDATE logs SET status = ? WHERE id = ?")).
		WithArgs("RETURNED", "a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := p.UpdateLog(ctx, "a", lending.Patch{Status: &returned}); err != nil {
		t.Fatalf("UpdateLog: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE logs SET status = ?, cleared_by = ? WHERE id = ?")).
		WithArgs("BORROWED", "Alex", "b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := p.UpdateLog(ctx, "b", lending.ApprovalPatch("Alex")); err != nil {
		t.Fatalf("UpdateLog: %v", err)
	}

	// Empty patches issue no statement.
	if err := p.UpdateLog(ctx, "c", lending.Patch{}); err != nil {
		t.Fatalf("UpdateLog(empty): %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSQLProvider_DeleteLog_NotFound(t *testing.T) {
	p, mock := newMockProvider(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM logs WHERE id = ?")).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := p.DeleteLog(context.Background(), "gone"); !errors.Is(err, lending.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLProvider_ApplyLogBatch_RollsBack(t *testing.T) {
	p, mock := newMockProvider(t)
	entry := lending.LogEntry{Requestor: "Dana", Item: "Drone", Purpose: "survey", Status: lending.StatusPending}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO logs")).
		WithArgs(sqlmock.AnyArg(), "Dana", "Drone", "survey", sqlmock.AnyArg(), sqlmock.AnyArg(), "PENDING", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE logs SET")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	approve := lending.ApprovalPatch("Alex")
	_, err := p.ApplyLogBatch(context.Background(), LogBatch{
		Create: []lending.LogEntry{entry},
		Update: []LogUpdate{{ID: "x", Patch: approve}},
	})
	if err == nil {
		t.Fatal("expected batch failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSQLProvider_ApplyLogBatch_AssignsIDs(t *testing.T) {
	p, mock := newMockProvider(t)

	mock.ExpectBegin()
	for i := 0; i < 2; i++ {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO logs")).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	created, err := p.ApplyLogBatch(context.Background(), LogBatch{Create: []lending.LogEntry{
		{Item: "Drone", Status: lending.StatusPending},
		{Item: "Tripod", Status: lending.StatusPending},
	}})
	if err != nil {
		t.Fatalf("ApplyLogBatch: %v", err)
	}
	if len(created) != 2 || created[0].ID == "" || created[0].ID == created[1].ID {
		t.Fatalf("unexpected ids: %+v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSchemaMigration_Statements(t *testing.T) {
	m := SchemaMigration{SQL: "-- comment\nCREATE TABLE a (\n  id TEXT\n);\n\nCREATE INDEX i ON a (id);\n"}
	got := m.Statements()
	if len(got) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(got), got)
	}
	if got[1] != "CREATE INDEX i ON a (id)" {
		t.Errorf("unexpected statement %q", got[1])
	}
}
