package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/AdamBeresnev/tourney-engine/internal/bracket"
	"github.com/AdamBeresnev/tourney-engine/internal/live"
	"github.com/AdamBeresnev/tourney-engine/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	engines *Engines
	hub     *live.Hub
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore, engines *Engines, hub *live.Hub) *MatchService {
	return &MatchService{db: db, store: store, engines: engines, hub: hub}
}

type ResolveResult struct {
	Match     *bracket.Match   `json:"match"`
	NextRound []bracket.Match  `json:"next_round,omitempty"`
	Outcome   *bracket.Outcome `json:"outcome,omitempty"`
}

type MatchList struct {
	Pending  []bracket.Match `json:"pending"`
	Finished []bracket.Match `json:"finished"`
}

// ResolveMatch records a winner. If that resolution completes the
// round, the next one is paired and persisted in the same step, so
// callers never drive rounds explicitly.
func (s *MatchService) ResolveMatch(ctx context.Context, tournamentID, matchID uuid.UUID, winnerID int) (*ResolveResult, error) {
	var res ResolveResult
	err := s.engines.With(ctx, tournamentID, func(t *bracket.Tournament) error {
		if err := t.Resolve(matchID, winnerID); err != nil {
			return err
		}
		var resolved bracket.Match
		for _, m := range t.Matches() {
			if m.ID == matchID {
				resolved = *m
				break
			}
		}

		var opened []*bracket.Match
		if t.Status() == bracket.TournamentStarted && t.RoundComplete() {
			ms, err := t.NextRound()
			if err != nil {
				return err
			}
			opened = ms
		}

		if err := s.persist(ctx, t, []bracket.Match{resolved}, matchValues(opened)); err != nil {
			s.engines.evict(t.ID)
			return err
		}

		res.Match = &resolved
		res.NextRound = matchValues(opened)
		res.Outcome = t.Outcome()

		s.hub.Publish(t.ID, live.Event{Type: live.EventMatchResolved, Payload: resolved})
		if len(opened) > 0 {
			s.hub.Publish(t.ID, live.Event{Type: live.EventRoundStarted, Payload: map[string]any{
				"round":   t.Round(),
				"matches": matchValues(opened),
			}})
		}
		if out := t.Outcome(); out != nil {
			s.hub.Publish(t.ID, live.Event{Type: live.EventTournamentCompleted, Payload: out})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// RunTournament simulates the remainder of the tournament with a
// seeded coin-flip decider and persists every result. A zero seed picks
// one from the clock.
func (s *MatchService) RunTournament(ctx context.Context, tournamentID uuid.UUID, seed int64) (*bracket.Outcome, error) {
	var out *bracket.Outcome
	err := s.engines.With(ctx, tournamentID, func(t *bracket.Tournament) error {
		if t.Status() == bracket.TournamentCompleted {
			return bracket.ErrTournamentComplete
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		existing := len(t.Matches())
		pending := make(map[uuid.UUID]bool)
		for _, m := range t.Pending() {
			pending[m.ID] = true
		}

		o, err := t.Start(bracket.NewRandomDecider(rand.New(rand.NewSource(seed))))
		if err != nil {
			return err
		}

		var updated, created []bracket.Match
		for _, m := range t.Matches() {
			switch {
			case pending[m.ID]:
				updated = append(updated, *m)
			case m.Seq >= existing:
				created = append(created, *m)
			}
		}
		if err := s.persist(ctx, t, updated, created); err != nil {
			s.engines.evict(t.ID)
			return err
		}

		out = o
		slog.Info("tournament simulated", "id", t.ID, "winner", o.Winner.ID, "seed", seed)
		s.hub.Publish(t.ID, live.Event{Type: live.EventTournamentCompleted, Payload: o})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListMatches returns the stored matches split into pending and
// finished, both in creation order.
func (s *MatchService) ListMatches(ctx context.Context, tournamentID uuid.UUID) (*MatchList, error) {
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	matches, err := s.store.GetMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	list := &MatchList{}
	for _, m := range matches {
		if m.Resolved() {
			list.Finished = append(list.Finished, m)
		} else {
			list.Pending = append(list.Pending, m)
		}
	}
	return list, nil
}

// persist writes one engine step in a single transaction: resolved
// matches, newly created ones, the refreshed participant records and
// the tournament row itself.
func (s *MatchService) persist(ctx context.Context, t *bracket.Tournament, updated, created []bracket.Match) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range updated {
		if err := s.store.UpdateMatch(ctx, tx, &updated[i]); err != nil {
			return fmt.Errorf("failed to update match: %w", err)
		}
	}
	if err := s.store.CreateMatches(ctx, tx, created); err != nil {
		return fmt.Errorf("failed to create matches: %w", err)
	}
	if err := s.store.UpdateParticipants(ctx, tx, participantRows(t)); err != nil {
		return fmt.Errorf("failed to update participants: %w", err)
	}
	if err := s.store.UpdateTournament(ctx, tx, tournamentRow(t)); err != nil {
		return fmt.Errorf("failed to update tournament: %w", err)
	}
	return tx.Commit()
}
