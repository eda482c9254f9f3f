package logbook

import (
	"context"
	"fmt"
	"strings"

	"equipment-logbook/internal/lending"
	"equipment-logbook/internal/storage"
)

// SubmitRequest stores one PENDING entry per requested item in a single
// batch, then notifies in the background. Notification failures never fail
// the request.
func (s *Service) SubmitRequest(ctx context.Context, req lending.Request) ([]lending.LogEntry, error) {
	entries, err := lending.BuildRequest(req, s.loc)
	if err != nil {
		return nil, s.record("submit", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.store.ApplyLogBatch(ctx, storage.LogBatch{Create: entries})
	if err != nil {
		return nil, s.record("submit", lending.WrapStore("create request", err))
	}
	s.record("submit", nil)
	s.logger.Info("Request submitted", "requestor", entries[0].Requestor, "items", len(created))

	s.notify(created)
	s.afterWrite(ctx, "submit")
	return created, nil
}

// ChangeStatus moves one entry to status on behalf of actor. Setting the
// current status again writes nothing and asks nothing.
func (s *Service) ChangeStatus(ctx context.Context, id string, to lending.Status, actor string, confirm Confirm) (lending.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.store.GetLog(ctx, id)
	if err != nil {
		return lending.LogEntry{}, s.record("status", lending.WrapStore("get log", err))
	}
	patch, err := lending.Transition(entry, to, actor)
	if err != nil {
		return entry, s.record("status", err)
	}
	if patch.Empty() {
		return entry, nil
	}

	prompt := fmt.Sprintf("Change status of %q for %s from %s to %s?", entry.Item, entry.Requestor, entry.Status, to)
	if err := confirmed(confirm, prompt); err != nil {
		return entry, s.record("status", err)
	}
	if err := s.store.UpdateLog(ctx, id, patch); err != nil {
		return entry, s.record("status", lending.WrapStore("update log", err))
	}
	s.record("status", nil)
	s.logger.Info("Status changed", "id", id, "from", entry.Status, "to", to, "actor", actor)

	s.afterWrite(ctx, "status")
	return patch.Apply(entry), nil
}

// DeleteEntry removes an entry that is not on loan.
func (s *Service) DeleteEntry(ctx context.Context, id string, confirm Confirm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.store.GetLog(ctx, id)
	if err != nil {
		return s.record("delete", lending.WrapStore("get log", err))
	}
	if err := lending.CanDelete(entry); err != nil {
		return s.record("delete", err)
	}
	prompt := fmt.Sprintf("Delete the %s entry of %q for %s?", strings.ToLower(string(entry.Status)), entry.Item, entry.Requestor)
	if err := confirmed(confirm, prompt); err != nil {
		return s.record("delete", err)
	}
	if err := s.store.DeleteLog(ctx, id); err != nil {
		return s.record("delete", lending.WrapStore("delete log", err))
	}
	s.record("delete", nil)
	s.logger.Info("Log entry deleted", "id", id)

	s.afterWrite(ctx, "delete")
	return nil
}

// PendingToday lists the snapshot entries bulk approval would select now.
func (s *Service) PendingToday() []lending.LogEntry {
	return lending.SelectApprovable(s.Snapshot().Logs, s.now(), s.loc)
}

// ApproveToday marks every PENDING entry borrowed today as BORROWED, cleared
// by actor, in one batch. It returns how many entries were approved; zero
// means nothing was selected and nothing was asked or written.
func (s *Service) ApproveToday(ctx context.Context, actor string, confirm Confirm) (int, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return 0, s.record("approve_today", &lending.ValidationError{Field: "clearedBy", Message: "acting administrator is required to approve requests"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	selected := lending.SelectApprovable(s.Snapshot().Logs, s.now(), s.loc)
	if len(selected) == 0 {
		return 0, nil
	}

	prompt := fmt.Sprintf("Approve %s borrowed today?", plural(len(selected), "pending request"))
	if err := confirmed(confirm, prompt); err != nil {
		return 0, s.record("approve_today", err)
	}

	patch := lending.ApprovalPatch(actor)
	batch := storage.LogBatch{Update: make([]storage.LogUpdate, len(selected))}
	for i, e := range selected {
		batch.Update[i] = storage.LogUpdate{ID: e.ID, Patch: patch}
	}
	if _, err := s.store.ApplyLogBatch(ctx, batch); err != nil {
		return 0, s.record("approve_today", lending.WrapStore("approve today", err))
	}
	s.record("approve_today", nil)
	s.logger.Info("Approved today's requests", "count", len(selected), "actor", actor)

	s.afterWrite(ctx, "approve_today")
	return len(selected), nil
}
