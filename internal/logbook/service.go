// Package logbook coordinates the lending workflow. It owns the in-memory
// snapshot of the store, serializes mutations and refetches after each one.
package logbook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"equipment-logbook/internal/access"
	"equipment-logbook/internal/email"
	"equipment-logbook/internal/lending"
	"equipment-logbook/internal/metrics"
	"equipment-logbook/internal/storage"
)

// Store is the persistence the coordinator needs.
type Store interface {
	ListLogs(ctx context.Context) ([]lending.LogEntry, error)
	GetLog(ctx context.Context, id string) (lending.LogEntry, error)
	UpdateLog(ctx context.Context, id string, patch lending.Patch) error
	DeleteLog(ctx context.Context, id string) error
	ApplyLogBatch(ctx context.Context, batch storage.LogBatch) ([]lending.LogEntry, error)

	ListEquipment(ctx context.Context) ([]lending.EquipmentItem, error)
	GetEquipment(ctx context.Context, id string) (lending.EquipmentItem, error)
	CreateEquipment(ctx context.Context, item lending.EquipmentItem) (lending.EquipmentItem, error)
	UpdateEquipment(ctx context.Context, item lending.EquipmentItem) error
	DeleteEquipment(ctx context.Context, id string) error

	ListCollaterals(ctx context.Context) ([]lending.CollateralItem, error)
	GetCollateral(ctx context.Context, id string) (lending.CollateralItem, error)
	CreateCollateral(ctx context.Context, item lending.CollateralItem) (lending.CollateralItem, error)
	UpdateCollateral(ctx context.Context, item lending.CollateralItem) error
	DeleteCollateral(ctx context.Context, id string) error
}

// Confirm asks the operator to approve a mutation described by prompt.
type Confirm func(prompt string) bool

// Confirmed approves every prompt. Used for --yes and confirmed API calls.
func Confirmed(string) bool { return true }

// Declined rejects every prompt.
func Declined(string) bool { return false }

// Snapshot is the full state last read from the store.
type Snapshot struct {
	Logs        []lending.LogEntry       `json:"logs"`
	Equipment   []lending.EquipmentItem  `json:"equipment"`
	Collaterals []lending.CollateralItem `json:"collaterals"`
	Admins      []lending.AdminUser      `json:"admins"`
	FetchedAt   time.Time                `json:"fetchedAt"`
}

type Options struct {
	// Location decides calendar days. Defaults to time.Local.
	Location *time.Location
	// NotifyTimeout bounds a single notification delivery.
	NotifyTimeout time.Duration
	// Now overrides the clock in tests.
	Now func() time.Time
}

type Service struct {
	store    Store
	admins   *access.Registry
	notifier email.Notifier

	loc           *time.Location
	notifyTimeout time.Duration
	now           func() time.Time

	// mu serializes mutations and the refetch that follows them.
	mu sync.Mutex

	snapMu sync.RWMutex
	snap   Snapshot

	notifications sync.WaitGroup
	logger        *slog.Logger
}

func NewService(store Store, admins *access.Registry, notifier email.Notifier, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if notifier == nil {
		notifier = email.NopNotifier{}
	}
	return &Service{
		store:         store,
		admins:        admins,
		notifier:      notifier,
		loc:           opts.Location,
		notifyTimeout: opts.NotifyTimeout,
		now:           opts.Now,
		logger:        slog.With("component", "logbook"),
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Refresh refetches every collection. On failure the previous snapshot is kept.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh(ctx)
}

func (s *Service) refresh(ctx context.Context) (Snapshot, error) {
	logs, err := s.store.ListLogs(ctx)
	if err != nil {
		return s.Snapshot(), lending.WrapStore("fetch logs", err)
	}
	equipment, err := s.store.ListEquipment(ctx)
	if err != nil {
		return s.Snapshot(), lending.WrapStore("fetch equipment", err)
	}
	collaterals, err := s.store.ListCollaterals(ctx)
	if err != nil {
		return s.Snapshot(), lending.WrapStore("fetch collaterals", err)
	}
	var admins []lending.AdminUser
	if s.admins != nil {
		if admins, err = s.admins.List(ctx); err != nil {
			return s.Snapshot(), err
		}
	}

	for i := range logs {
		logs[i].BorrowDate = logs[i].BorrowDate.In(s.loc)
		logs[i].ReturnDate = logs[i].ReturnDate.In(s.loc)
	}

	snap := Snapshot{
		Logs:        logs,
		Equipment:   equipment,
		Collaterals: collaterals,
		Admins:      admins,
		FetchedAt:   s.now(),
	}
	s.snapMu.Lock()
	s.snap = snap
	s.snapMu.Unlock()

	metrics.ObserveDashboard(lending.Aggregate(snap.Logs, snap.Equipment, snap.FetchedAt))
	return snap, nil
}

// afterWrite refetches once a write went through. The write stands even if
// the refetch fails; the stale snapshot is kept and the failure logged.
func (s *Service) afterWrite(ctx context.Context, op string) {
	if _, err := s.refresh(ctx); err != nil {
		s.logger.Error("Refetch after write failed", "op", op, "error", err)
	}
}

// Snapshot returns the last fetched state.
func (s *Service) Snapshot() Snapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap
}

// Logs returns the snapshot's log entries matching term, newest first.
func (s *Service) Logs(term string) []lending.LogEntry {
	return lending.Search(s.Snapshot().Logs, term)
}

func (s *Service) Dashboard() lending.Dashboard {
	snap := s.Snapshot()
	return lending.Aggregate(snap.Logs, snap.Equipment, s.now())
}

// Wait blocks until in-flight notifications finish.
func (s *Service) Wait() {
	s.notifications.Wait()
}

func (s *Service) notify(entries []lending.LogEntry) {
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyRequest(ctx, entries); err != nil {
			metrics.NotificationFailures.Inc()
			s.logger.Error("Failed to send request notification", "requestor", entries[0].Requestor, "items", len(entries), "error", err)
		}
	}()
}

func confirmed(confirm Confirm, prompt string) error {
	if confirm == nil || !confirm(prompt) {
		return lending.ErrNotConfirmed
	}
	return nil
}

func (s *Service) record(op string, err error) error {
	metrics.RecordMutation(op, err)
	if err != nil {
		s.logger.Debug("Mutation rejected", "op", op, "error", err)
	}
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
