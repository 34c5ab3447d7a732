package session

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starwatch/voyager/internal/journal"
	"github.com/starwatch/voyager/internal/logging"
	"github.com/starwatch/voyager/internal/model"
	"github.com/starwatch/voyager/internal/store"
)

// Session is the read-only façade (C7) callers use to watch a commander's
// progress: it owns the store, the live SessionState, and the
// backfill-then-tail ingestion loop, generalized from the teacher's
// SQLiteRepository (store-backed reads with a background-refresh
// dedup guard) and Worker (start/stop/running-bool lifecycle) into "one
// journal directory, one running ingestion loop".
type Session struct {
	db     *store.Store
	notify *notifier

	mu    sync.RWMutex
	state *model.SessionState

	machine *machine
}

// Open creates a Session backed by the sqlite file at dbPath, creating
// its schema if absent.
func Open(dbPath string) (*Session, error) {
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	n := newNotifier()
	state := model.NewSessionState()
	return &Session{
		db:      db,
		notify:  n,
		state:   state,
		machine: newMachine(db, state, n),
	}, nil
}

// Close releases the underlying store.
func (s *Session) Close() error {
	return s.db.Close()
}

// State returns a snapshot of the current session state. Callers must
// not mutate the returned value; it aliases internal slices for
// cheapness the same way the teacher's read views do.
func (s *Session) State() model.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.state
}

// Subscribe returns the notification channel for kind k; a receive
// indicates the session state may have changed and State should be
// re-read.
func (s *Session) Subscribe(k Kind) <-chan struct{} {
	return s.notify.Subscribe(k)
}

func (s *Session) applyLine(line []byte) error {
	ev, ok := journal.DecodeLine(line)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.machine.Apply(ev); err != nil {
		return fmt.Errorf("applying %s event: %w", ev.Tag, err)
	}
	return nil
}

// Backfill replays every journal file in dir from the start, in
// chronological order, before any live tailing begins — the "catch up
// from the commander's full history" entry point.
func (s *Session) Backfill(dir string) error {
	paths, err := journal.AllJournals(dir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := journal.ReadOnce(p, s.applyLine); err != nil {
			return err
		}
	}
	return nil
}

// Watch backfills dir, then tails the latest journal file until ctx is
// cancelled. The two phases run sequentially, not concurrently: the
// tailed file's already-backfilled lines are harmlessly re-applied
// (I1/I2/I6 make every handler idempotent against replays).
func (s *Session) Watch(ctx context.Context, dir string) error {
	if err := s.Backfill(dir); err != nil {
		return err
	}

	latest, err := journal.LatestJournal(dir)
	if err != nil {
		return err
	}
	if latest == "" {
		logging.Info("no journal files found, nothing to tail")
		return nil
	}
	return s.tailFile(ctx, latest)
}

// WatchFile backfills and then tails a single, caller-pinned journal
// file, for the CLI's --file override.
func (s *Session) WatchFile(ctx context.Context, path string) error {
	if err := s.BackfillFile(path); err != nil {
		return err
	}
	return s.tailFile(ctx, path)
}

// BackfillFile replays a single journal file from the start without
// tailing, for one-shot reporting commands pinned to one file.
func (s *Session) BackfillFile(path string) error {
	return journal.ReadOnce(path, s.applyLine)
}

func (s *Session) tailFile(ctx context.Context, path string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return journal.Tail(ctx, path, s.applyLine)
	})
	return g.Wait()
}

// RouteRemaining reports the count of unvisited hops in the current
// plotted route (C8).
func (s *Session) RouteRemaining() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return routeRemaining(s.state.Route)
}

// RouteNext returns the next unvisited route hop, if any (C8).
func (s *Session) RouteNext() (model.RouteItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return routeNext(s.state.Route)
}

// RouteRemainingDistance sums distance over unvisited route hops, in
// light-years (C8).
func (s *Session) RouteRemainingDistance() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return routeRemainingDistance(s.state.Route)
}

// MassacreTallies aggregates the active kill-mission ledger into one
// counter per (destination system, faction) pair (C9).
func (s *Session) MassacreTallies() []model.MassacreTally {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.MassacreTallies(s.state.Missions)
}
