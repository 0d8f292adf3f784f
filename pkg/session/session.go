// Package session coordinates the reducer, projector, and history stack
// into an interactive editing session: a serializable action log applied
// to a base configuration, re-projected (possibly asynchronously) under
// a correctness-preserving concurrency guard.
//
// # Concurrency model
//
// There is a single logical writer: all mutation flows through the
// dispatch family and is serialized by the store's mutex. The recompute
// step may suspend (metadata resolution takes a context), so dispatch
// returns before the new snapshot exists; callers observe
// IsProjecting() and must not assume a snapshot synchronously.
//
// Ordering is guaranteed by a monotonic projection token: every
// recompute captures the token at dispatch time, and a completed
// projection is discarded when the token has moved on. A later
// dispatch's effect is therefore never overwritten by an earlier,
// slower-resolving one. That token check is the only concurrency
// primitive the data path needs, because configurations and actions are
// immutable values handed to a pure projector. History and selection
// mutate synchronously under the mutex and are never subject to the
// race; only snapshot output is token-guarded.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shelfwise/planogram/pkg/action"
	"github.com/shelfwise/planogram/pkg/metadata"
	"github.com/shelfwise/planogram/pkg/observability"
	"github.com/shelfwise/planogram/pkg/planogram"
	"github.com/shelfwise/planogram/pkg/snapshot"
)

// ErrNotReady is returned by operations that need an initialized
// session before Initialize has completed.
var ErrNotReady = errors.New("session not initialized")

// Subscriber receives each newly installed snapshot. Subscribers are
// called synchronously after a still-current projection succeeds, in
// subscription order, off the dispatching goroutine.
type Subscriber func(*snapshot.Snapshot)

// Store is the session engine. Create with New, then Initialize to
// project the base configuration before dispatching.
type Store struct {
	mu sync.Mutex

	base      planogram.Config
	provider  metadata.Provider
	reducer   *action.Reducer
	projector *snapshot.Projector
	history   *History
	logger    *log.Logger

	snapshot   *snapshot.Snapshot
	selection  []string
	projecting bool
	token      uint64
	ready      bool

	subs   map[int]Subscriber
	nextID int
}

// New creates an uninitialized session store over a base configuration.
func New(base planogram.Config, provider metadata.Provider, reducer *action.Reducer, projector *snapshot.Projector, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		base:      base.Clone(),
		provider:  provider,
		reducer:   reducer,
		projector: projector,
		history:   NewHistory(),
		logger:    logger,
		subs:      make(map[int]Subscriber),
	}
}

// Initialize resolves metadata and projects the base configuration
// synchronously, moving the session to ready. Dispatching before
// Initialize returns ErrNotReady.
func (s *Store) Initialize(ctx context.Context) error {
	meta, err := metadata.Resolve(ctx, s.provider, s.base)
	if err != nil {
		return err
	}
	snap, err := s.projector.Project(s.base.Clone(), meta, snapshot.SessionInfo{})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.reducer.SetMetadata(meta)
	s.snapshot = snap
	s.ready = true
	s.mu.Unlock()
	return nil
}

// Snapshot returns the current snapshot, or nil before initialization.
// The snapshot is immutable; callers may hold it across dispatches.
func (s *Store) Snapshot() *snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// IsProjecting reports whether a recompute is in flight.
func (s *Store) IsProjecting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projecting
}

// CanUndo reports whether an undo step exists.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether a redo step exists.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Subscribe registers fn for snapshot updates and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Dispatch pushes an action onto history and starts a recompute.
func (s *Store) Dispatch(ctx context.Context, a action.Action) error {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return ErrNotReady
	}
	s.history.Push(a)
	observability.Session().OnDispatch(ctx, string(a.Kind), false, s.history.Len())
	s.recomputeLocked(ctx)
	s.mu.Unlock()
	return nil
}

// DispatchSquashed is Dispatch for continuous gestures: when the
// previous history entry is a transient action on the same product, the
// new action replaces it instead of appending, so a whole drag is one
// undo step.
func (s *Store) DispatchSquashed(ctx context.Context, a action.Action) error {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return ErrNotReady
	}
	squashed := s.history.PushSquash(a)
	observability.Session().OnDispatch(ctx, string(a.Kind), squashed, s.history.Len())
	s.recomputeLocked(ctx)
	s.mu.Unlock()
	return nil
}

// Undo moves one entry from past to future and recomputes. Undo never
// consults data validity: it replays the shortened action log, so an
// invalid-but-renderable state is as undoable as a valid one.
func (s *Store) Undo(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready || !s.history.Undo() {
		return false
	}
	observability.Session().OnUndo(ctx, s.history.Len())
	s.recomputeLocked(ctx)
	return true
}

// Redo moves one entry from future back to past and recomputes.
func (s *Store) Redo(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready || !s.history.Redo() {
		return false
	}
	observability.Session().OnRedo(ctx, s.history.Len())
	s.recomputeLocked(ctx)
	return true
}

// Commit promotes the current derived configuration to the new base and
// clears history, so the state can be persisted without carrying
// pending undo steps forward. The derived config is computed
// synchronously from the action log. Validity is not consulted: an
// invalid-but-renderable layout can become the committed baseline.
func (s *Store) Commit(ctx context.Context) planogram.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	derived := s.reducer.Reduce(s.base, s.history.Past()).Config
	derived.UpdatedAt = time.Now().UTC()
	count := s.history.Len()
	s.base = derived
	s.history.Clear()
	observability.Session().OnCommit(ctx, count)
	s.recomputeLocked(ctx)
	return derived.Clone()
}

// SetSelection overlays a selection onto the current snapshot without
// re-projecting, and notifies subscribers with the overlaid snapshot.
func (s *Store) SetSelection(ids []string) {
	s.mu.Lock()
	s.selection = append([]string(nil), ids...)
	if s.snapshot == nil {
		s.mu.Unlock()
		return
	}
	snap := s.snapshot.WithSelection(ids)
	s.snapshot = snap
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Selection returns the current selection.
func (s *Store) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selection...)
}

// recomputeLocked starts an asynchronous re-projection for the current
// action log. Caller holds the mutex. The captured token decides, on
// completion, whether the result is still current; stale results are
// discarded, never installed.
func (s *Store) recomputeLocked(ctx context.Context) {
	s.token++
	token := s.token
	s.projecting = true

	base := s.base.Clone()
	actions := s.history.Past()
	actionCount := s.history.Len()
	dirty := actionCount > 0
	selection := append([]string(nil), s.selection...)

	go s.project(ctx, token, base, actions, actionCount, dirty, selection)
}

func (s *Store) project(ctx context.Context, token uint64, base planogram.Config, actions []action.Action, actionCount int, dirty bool, selection []string) {
	observability.Projection().OnProjectionStart(ctx, token, len(base.Products))
	start := time.Now()

	// Suspension point: metadata resolution may block on a slow
	// provider. Everything after it is pure computation.
	meta, err := metadata.Resolve(ctx, s.provider, base)
	if err != nil {
		s.finishErr(ctx, token, err, start)
		return
	}

	derived := s.reducer.WithMetadata(meta).Reduce(base, actions).Config

	snap, err := s.projector.Project(derived, meta, snapshot.SessionInfo{
		Dirty:       dirty,
		ActionCount: actionCount,
		Selection:   selection,
	})
	if err != nil {
		s.finishErr(ctx, token, err, start)
		return
	}

	s.mu.Lock()
	if token != s.token {
		s.mu.Unlock()
		observability.Projection().OnProjectionStale(ctx, token)
		s.logger.Debug("discarded stale projection", "token", token)
		return
	}
	s.snapshot = snap
	s.reducer.SetMetadata(meta)
	s.projecting = false
	subs := s.subscribersLocked()
	s.mu.Unlock()

	observability.Projection().OnProjectionComplete(ctx, token, len(snap.Instances), time.Since(start), nil)
	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) finishErr(ctx context.Context, token uint64, err error, start time.Time) {
	s.mu.Lock()
	if token == s.token {
		s.projecting = false
	}
	s.mu.Unlock()
	observability.Projection().OnProjectionComplete(ctx, token, 0, time.Since(start), err)
	s.logger.Error("projection failed", "token", token, "err", err)
}

func (s *Store) subscribersLocked() []Subscriber {
	out := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
