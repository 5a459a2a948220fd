// Package ledger is the canonical implementation of the client-side ledger
// model: categories, their transactions, the monthly goal and payment
// reminders, all persisted as whole JSON snapshots through a kv.Store.
//
// Mutations are serialized by a single mutex and complete, including the
// persistence write, before returning. Two processes sharing a store are
// last-writer-wins; the service makes no attempt to merge.
package ledger

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"cebim/internal/core"
	"cebim/internal/kv"
	"cebim/internal/log"
	"cebim/internal/notify"
)

type Service struct {
	store  kv.Store
	ids    *IDSource
	notif  notify.Listener
	logger *log.Logger
	now    func() time.Time

	mu       sync.Mutex // serializes read-modify-write mutations
	degraded atomic.Bool
}

// New builds a Service over the given store. notif may be nil when no view
// needs change signals.
func New(store kv.Store, notif notify.Listener, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{
		store:  store,
		ids:    NewIDSource(),
		notif:  notif,
		logger: logger.WithComponent(log.ComponentLedger),
		now:    time.Now,
	}
}

// Degraded reports whether the last storage access failed. While degraded,
// reads serve the empty snapshot and writes are rejected; the flag clears
// as soon as storage answers again.
func (s *Service) Degraded() bool {
	return s.degraded.Load()
}

// Snapshot reads the full persisted state: categories, the per-category
// transaction fan-out, the goal if set, and reminders. Returns
// kv.ErrUnavailable when storage was unreachable during the read.
func (s *Service) Snapshot(ctx context.Context) (core.Snapshot, error) {
	snap := core.Snapshot{
		Categories: s.Categories(ctx),
	}
	for _, c := range snap.Categories {
		snap.Transactions = append(snap.Transactions, s.categoryTransactions(ctx, c.ID)...)
	}
	if goal, ok := s.Goal(ctx); ok {
		snap.Goal = &goal
	}
	snap.Reminders = s.Reminders(ctx)
	if s.Degraded() {
		return snap, kv.ErrUnavailable
	}
	return snap, nil
}

// readJSON loads and decodes the snapshot under key into v. A storage
// failure flips the degraded flag and leaves v untouched (the empty
// snapshot); a corrupt value is treated the same way but logged louder.
func (s *Service) readJSON(ctx context.Context, key string, v any) bool {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.degraded.Store(true)
		s.logger.WarnContext(ctx, "Storage read failed, serving empty snapshot",
			log.FieldKey, key, log.FieldError, err)
		return false
	}
	s.degraded.Store(false)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.ErrorContext(ctx, "Corrupt snapshot ignored",
			log.FieldKey, key, log.FieldError, err)
		return false
	}
	return true
}

// saveJSON overwrites the snapshot under key. A storage failure drops the
// write and surfaces kv.ErrUnavailable.
func (s *Service) saveJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, key, string(raw)); err != nil {
		s.degraded.Store(true)
		s.logger.ErrorContext(ctx, "Storage write dropped",
			log.FieldKey, key, log.FieldError, err)
		return kv.ErrUnavailable
	}
	s.degraded.Store(false)
	return nil
}

func (s *Service) deleteKey(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		s.degraded.Store(true)
		s.logger.ErrorContext(ctx, "Storage delete dropped",
			log.FieldKey, key, log.FieldError, err)
		return kv.ErrUnavailable
	}
	s.degraded.Store(false)
	return nil
}

func (s *Service) changed() {
	if s.notif != nil {
		s.notif.Changed()
	}
}
