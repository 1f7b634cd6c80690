package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/tourney-engine/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("not found")

// TournamentRow is the persisted projection of a tournament. The engine
// owns the live state, rows exist for listing and for replay on reload.
type TournamentRow struct {
	ID           uuid.UUID                `db:"id" json:"id"`
	Name         string                   `db:"name" json:"name"`
	Type         bracket.TournamentType   `db:"tournament_type" json:"type"`
	Status       bracket.TournamentStatus `db:"status" json:"status"`
	RoundsTotal  int                      `db:"rounds_total" json:"rounds_total,omitempty"`
	CurrentRound int                      `db:"current_round" json:"current_round"`
	WinnerID     *int                     `db:"winner_id" json:"winner_id,omitempty"`
	CreatedAt    time.Time                `db:"created_at" json:"created_at"`
}

// ParticipantRow scopes a participant to its tournament for storage.
type ParticipantRow struct {
	TournamentID uuid.UUID `db:"tournament_id"`
	bracket.Participant
}

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, row *TournamentRow) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, name, tournament_type, status, rounds_total, current_round, winner_id)
        VALUES (:id, :name, :tournament_type, :status, :rounds_total, :current_round, :winner_id)`, row)
	return err
}

func (s *TournamentStore) CreateParticipants(ctx context.Context, tx *sqlx.Tx, rows []ParticipantRow) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO participants (tournament_id, player_id, name, seed, wins, losses, byes)
            VALUES (:tournament_id, :player_id, :name, :seed, :wins, :losses, :byes)`, rows)
	return err
}

func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO matches (id, tournament_id, bracket_side, round_number, match_order, player_1, player_2, winner, status, seq)
		VALUES (:id, :tournament_id, :bracket_side, :round_number, :match_order, :player_1, :player_2, :winner, :status, :seq)`, matches)
	return err
}

func (s *TournamentStore) UpdateMatch(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE matches SET winner = :winner, status = :status WHERE id = :id`, match)
	return err
}

func (s *TournamentStore) UpdateParticipants(ctx context.Context, tx *sqlx.Tx, rows []ParticipantRow) error {
	for _, row := range rows {
		_, err := tx.NamedExecContext(ctx, `UPDATE participants SET wins = :wins, losses = :losses, byes = :byes
			WHERE tournament_id = :tournament_id AND player_id = :player_id`, row)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *TournamentStore) UpdateTournament(ctx context.Context, tx *sqlx.Tx, row *TournamentRow) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE tournaments SET status = :status, current_round = :current_round, winner_id = :winner_id
		WHERE id = :id`, row)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*TournamentRow, error) {
	var row TournamentRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM tournaments WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tournament %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context) ([]TournamentRow, error) {
	var rows []TournamentRow
	err := s.db.SelectContext(ctx, &rows, "SELECT * FROM tournaments ORDER BY created_at DESC, id")
	return rows, err
}

func (s *TournamentStore) GetParticipants(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Participant, error) {
	var rows []ParticipantRow
	err := s.db.SelectContext(ctx, &rows, "SELECT * FROM participants WHERE tournament_id = ? ORDER BY seed ASC", tournamentID)
	if err != nil {
		return nil, err
	}
	participants := make([]bracket.Participant, 0, len(rows))
	for _, row := range rows {
		participants = append(participants, row.Participant)
	}
	return participants, nil
}

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches, "SELECT * FROM matches WHERE tournament_id = ? ORDER BY seq ASC", tournamentID)
	return matches, err
}
