package store

import (
	"context"

	"github.com/pkg/errors"
)

// op is one mutation waiting in the outbox.
type op struct {
	desc    string
	localID string // id handed out for a local create, "" otherwise

	// remote replays the mutation, returning the server id of created records.
	remote func(ctx context.Context, ids map[string]string) (string, error)
	// local applies the mutation to a collection set. It must tolerate missing records.
	local func(d *Snapshot, ids map[string]string)
}

// enqueue applies o locally and queues it.
func (s *Store) enqueue(o *op) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, o)
	o.local(&s.view, s.ids)
	s.log.Info("queued " + o.desc)
}

// SyncReport summarizes one outbox replay.
type SyncReport struct {
	Replayed int `json:"replayed"`
	Pending  int `json:"pending"`
}

// SyncStatus describes the outbox and backend activity.
type SyncStatus struct {
	Pending   []string `json:"pending"`
	Busy      bool     `json:"busy"`
	LastError string   `json:"lastError,omitempty"`
}

func (s *Store) SyncStatus() SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := SyncStatus{
		Pending:   make([]string, 0, len(s.pending)),
		Busy:      s.status.Busy(),
		LastError: s.status.LastError(),
	}
	for _, o := range s.pending {
		st.Pending = append(st.Pending, o.desc)
	}
	return st
}

// Sync replays the outbox in order, stopping at the first failure, then refreshes the collections.
func (s *Store) Sync(ctx context.Context) (SyncReport, error) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	replayed, rerr := s.replay(ctx)
	ferr := s.refresh(ctx)

	s.mu.RLock()
	report := SyncReport{Replayed: replayed, Pending: len(s.pending)}
	s.mu.RUnlock()

	if rerr != nil {
		return report, errors.Wrap(rerr, "replaying outbox")
	}
	return report, errors.Wrap(ferr, "refreshing")
}

// replay sends the queued mutations. Callers hold syncMu.
func (s *Store) replay(ctx context.Context) (int, error) {
	var replayed int
	for {
		s.mu.RLock()
		if len(s.pending) == 0 {
			s.mu.RUnlock()
			return replayed, nil
		}
		o := s.pending[0]
		ids := make(map[string]string, len(s.ids))
		for k, v := range s.ids {
			ids[k] = v
		}
		s.mu.RUnlock()

		if err := ctx.Err(); err != nil {
			return replayed, err
		}
		serverID, err := o.remote(ctx, ids)
		if err != nil && !IsRemoteError(err) {
			// the backend answered but can never accept it, e.g. a payment above the balance
			s.mu.Lock()
			s.pending = s.pending[1:]
			s.rebuild()
			s.mu.Unlock()
			s.log.Error("dropped "+o.desc, err)
			continue
		}
		if err != nil {
			return replayed, errors.Wrap(err, o.desc)
		}

		s.mu.Lock()
		if o.localID != "" && serverID != "" {
			s.ids[o.localID] = serverID
		}
		s.pending = s.pending[1:]
		o.local(&s.base, s.ids)
		s.rebuild()
		s.mu.Unlock()

		s.log.Info("synced " + o.desc)
		replayed++
	}
}

// drain replays the outbox ahead of a new mutation, so that older mutations reach the backend first.
// It reports false when some are still waiting: the new mutation must then queue behind them.
func (s *Store) drain(ctx context.Context) bool {
	s.mu.RLock()
	n := len(s.pending)
	s.mu.RUnlock()
	if n == 0 {
		return true
	}

	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	if _, err := s.replay(ctx); err != nil {
		s.log.Warn("outbox replay stopped", err)
		return false
	}
	return true
}

// remoteID drains the outbox then returns the server id of id.
// ok is false when the mutation must be queued.
func (s *Store) remoteID(ctx context.Context, id string) (rid string, ok bool) {
	if !s.drain(ctx) {
		return "", false
	}
	rid = s.resolve(id)
	return rid, !IsLocalID(rid)
}
