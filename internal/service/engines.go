package service

import (
	"context"
	"sync"

	"github.com/AdamBeresnev/tourney-engine/internal/bracket"
	"github.com/AdamBeresnev/tourney-engine/internal/store"
	"github.com/google/uuid"
)

// Engines caches the live state of every tournament this process has
// touched. The store stays the source of truth: a cache miss rebuilds
// the tournament by replaying its stored results. Entries carry their
// own lock because bracket.Tournament is not safe for concurrent use.
type Engines struct {
	store *store.TournamentStore
	mu    sync.Mutex
	live  map[uuid.UUID]*liveEntry
}

type liveEntry struct {
	mu sync.Mutex
	t  *bracket.Tournament
}

func NewEngines(store *store.TournamentStore) *Engines {
	return &Engines{store: store, live: make(map[uuid.UUID]*liveEntry)}
}

func (e *Engines) add(t *bracket.Tournament) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.live[t.ID] = &liveEntry{t: t}
}

// evict drops a cached tournament so the next access replays it from
// the store. Used after a failed persist, when the in-memory state has
// run ahead of the database.
func (e *Engines) evict(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.live, id)
}

// With runs fn while holding the tournament's lock, loading it from the
// store first if this process has not seen it yet. Errors from fn pass
// through unchanged so callers can match sentinels.
func (e *Engines) With(ctx context.Context, id uuid.UUID, fn func(*bracket.Tournament) error) error {
	e.mu.Lock()
	entry, ok := e.live[id]
	if !ok {
		entry = &liveEntry{}
		e.live[id] = entry
	}
	e.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.t == nil {
		t, err := e.load(ctx, id)
		if err != nil {
			e.evict(id)
			return err
		}
		entry.t = t
	}
	return fn(entry.t)
}

// load rebuilds a tournament from its stored roster and results. Match
// ids derive from the tournament id, so the replay resolves the exact
// matches that were persisted.
func (e *Engines) load(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	row, err := e.store.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	players, err := e.store.GetParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	matches, err := e.store.GetMatches(ctx, id)
	if err != nil {
		return nil, err
	}

	results := make([]bracket.Result, 0, len(matches))
	for _, m := range matches {
		if m.Resolved() {
			results = append(results, bracket.Result{MatchID: m.ID, WinnerID: *m.Winner})
		}
	}

	opts := []bracket.Option{bracket.WithID(row.ID)}
	if row.Type == bracket.Swiss {
		opts = append(opts, bracket.WithRounds(row.RoundsTotal))
	}
	return bracket.Replay(row.Type, row.Name, players, results, opts...)
}
