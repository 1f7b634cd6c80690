package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AdamBeresnev/tourney-engine/internal/bracket"
	"github.com/AdamBeresnev/tourney-engine/internal/store"
	"github.com/AdamBeresnev/tourney-engine/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

type TournamentService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	engines *Engines
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, engines *Engines) *TournamentService {
	return &TournamentService{db: db, store: store, engines: engines}
}

type PlayerInput struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TournamentData struct {
	Tournament   *store.TournamentRow  `json:"tournament"`
	Participants []bracket.Participant `json:"participants"`
	Bracket      BracketView           `json:"bracket"`
	Standings    []bracket.Standing    `json:"standings"`
	Outcome      *bracket.Outcome      `json:"outcome,omitempty"`
}

// CreateTournament validates the roster, opens round one through the
// engine and persists the tournament, its participants and the opened
// matches in one transaction.
func (s *TournamentService) CreateTournament(ctx context.Context, name string, typ bracket.TournamentType, players []PlayerInput, rounds int) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("tournament name is empty: %w", bracket.ErrInvalidRoster)
	}

	roster := make([]bracket.Participant, 0, len(players))
	for _, p := range players {
		pname := strings.TrimSpace(p.Name)
		if pname == "" {
			return uuid.Nil, fmt.Errorf("participant %d has no name: %w", p.ID, bracket.ErrInvalidRoster)
		}
		roster = append(roster, bracket.Participant{ID: p.ID, Name: pname})
	}

	var opts []bracket.Option
	if rounds > 0 {
		opts = append(opts, bracket.WithRounds(rounds))
	}
	t, err := bracket.New(typ, name, roster, opts...)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, tournamentRow(t)); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	if err := s.store.CreateParticipants(ctx, tx, participantRows(t)); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create participants: %w", err)
	}
	if err := s.store.CreateMatches(ctx, tx, matchValues(t.Matches())); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create matches: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	s.engines.add(t)
	slog.Info("tournament created", "id", t.ID, "type", t.Type, "participants", len(roster))
	return t.ID, nil
}

// GetTournamentData assembles the full read model for one tournament.
// The three store reads are independent and run concurrently; standings
// and outcome come from the live engine.
func (s *TournamentService) GetTournamentData(ctx context.Context, id uuid.UUID) (*TournamentData, error) {
	var (
		row          *store.TournamentRow
		participants []bracket.Participant
		matches      []bracket.Match
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		row, err = s.store.GetTournament(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = s.store.GetParticipants(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.store.GetMatches(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := &TournamentData{
		Tournament:   row,
		Participants: participants,
		Bracket:      NewBracketView(matches),
	}
	err := s.engines.With(ctx, id, func(t *bracket.Tournament) error {
		data.Standings = t.Standings()
		data.Outcome = t.Outcome()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Standings snapshots the current ranking without the rest of the read
// model.
func (s *TournamentService) Standings(ctx context.Context, id uuid.UUID) ([]bracket.Standing, error) {
	var rows []bracket.Standing
	err := s.engines.With(ctx, id, func(t *bracket.Tournament) error {
		rows = t.Standings()
		return nil
	})
	return rows, err
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]store.TournamentRow, error) {
	return s.store.ListTournaments(ctx)
}

func tournamentRow(t *bracket.Tournament) *store.TournamentRow {
	row := &store.TournamentRow{
		ID:           t.ID,
		Name:         t.Name,
		Type:         t.Type,
		Status:       t.Status(),
		RoundsTotal:  t.RoundsTotal(),
		CurrentRound: t.Round(),
	}
	if out := t.Outcome(); out != nil {
		row.WinnerID = utils.Ptr(out.Winner.ID)
	}
	return row
}

func participantRows(t *bracket.Tournament) []store.ParticipantRow {
	ps := t.Participants()
	rows := make([]store.ParticipantRow, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, store.ParticipantRow{TournamentID: t.ID, Participant: *p})
	}
	return rows
}

func matchValues(ms []*bracket.Match) []bracket.Match {
	out := make([]bracket.Match, 0, len(ms))
	for _, m := range ms {
		out = append(out, *m)
	}
	return out
}
