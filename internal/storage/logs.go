package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"equipment-logbook/internal/lending"
)

const logColumns = "id, requestor, item, purpose, borrow_date, return_date, status, cleared_by"

func (p *SQLProvider) ListLogs(ctx context.Context) ([]lending.LogEntry, error) {
	var rows []logRow
	if err := p.db.SelectContext(ctx, &rows, "SELECT "+logColumns+" FROM logs ORDER BY borrow_date DESC, id DESC"); err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	out := make([]lending.LogEntry, len(rows))
	for i, r := range rows {
		out[i] = r.entry()
	}
	return out, nil
}

func (p *SQLProvider) GetLog(ctx context.Context, id string) (lending.LogEntry, error) {
	var r logRow
	if err := p.get(ctx, &r, "SELECT "+logColumns+" FROM logs WHERE id = ?", id); err != nil {
		return lending.LogEntry{}, err
	}
	return r.entry(), nil
}

func (p *SQLProvider) UpdateLog(ctx context.Context, id string, patch lending.Patch) error {
	return p.updateLog(ctx, p.db, id, patch)
}

// updateLog writes only the fields present in patch.
func (p *SQLProvider) updateLog(ctx context.Context, ex sqlx.ExecerContext, id string, patch lending.Patch) error {
	if patch.Empty() {
		return nil
	}
	var (
		sets []string
		args []any
	)
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if patch.ClearedBy != nil {
		sets = append(sets, "cleared_by = ?")
		args = append(args, *patch.ClearedBy)
	}
	args = append(args, id)
	return p.exec(ctx, ex, "UPDATE logs SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
}

func (p *SQLProvider) DeleteLog(ctx context.Context, id string) error {
	return p.exec(ctx, p.db, "DELETE FROM logs WHERE id = ?", id)
}

func (p *SQLProvider) insertLog(ctx context.Context, ex sqlx.ExecerContext, e lending.LogEntry) error {
	_, err := ex.ExecContext(ctx, p.q("INSERT INTO logs ("+logColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)"),
		e.ID, e.Requestor, e.Item, e.Purpose, e.BorrowDate.UTC(), e.ReturnDate.UTC(), string(e.Status), e.ClearedBy)
	return err
}

func (p *SQLProvider) ApplyLogBatch(ctx context.Context, batch LogBatch) ([]lending.LogEntry, error) {
	if batch.Empty() {
		return nil, nil
	}

	created := make([]lending.LogEntry, 0, len(batch.Create))
	for _, e := range batch.Create {
		id, err := p.logIDs.New()
		if err != nil {
			return nil, fmt.Errorf("generate log id: %w", err)
		}
		e.ID = id
		created = append(created, e)
	}

	err := p.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, e := range created {
			if err := p.insertLog(ctx, tx, e); err != nil {
				return fmt.Errorf("insert log for %q: %w", e.Item, err)
			}
		}
		for _, u := range batch.Update {
			if err := p.updateLog(ctx, tx, u.ID, u.Patch); err != nil {
				return fmt.Errorf("update log %s: %w", u.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Applied log batch", "created", len(created), "updated", len(batch.Update))
	return created, nil
}
