package bracket

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchFinished MatchStatus = "finished"
)

type BracketSide string

const (
	WinnersSide BracketSide = "winners"
	LosersSide  BracketSide = "losers"
	FinalsSide  BracketSide = "finals"
)

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"-"`

	// Position in the bracket, used to group the view and to key replays
	Side  BracketSide `db:"bracket_side" json:"side"`
	Round int         `db:"round_number" json:"round"`
	Order int         `db:"match_order" json:"order"`

	Player1 int  `db:"player_1" json:"player_1"`
	Player2 *int `db:"player_2" json:"player_2,omitempty"`

	Winner *int        `db:"winner" json:"winner,omitempty"`
	Status MatchStatus `db:"status" json:"status"`

	Seq       int       `db:"seq" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// IsBye reports whether the match records an unopposed advance.
func (m *Match) IsBye() bool { return m.Player2 == nil }

func (m *Match) Resolved() bool { return m.Status == MatchFinished }

func (m *Match) HasParticipant(id int) bool {
	return m.Player1 == id || (m.Player2 != nil && *m.Player2 == id)
}

// Loser returns the defeated participant. The second return is false for
// byes and unresolved matches.
func (m *Match) Loser() (int, bool) {
	if !m.Resolved() || m.Winner == nil || m.Player2 == nil {
		return 0, false
	}
	if *m.Winner == m.Player1 {
		return *m.Player2, true
	}
	return m.Player1, true
}

// newMatchID derives a stable id from the match position so a replayed
// tournament regenerates the ids of the original run.
func newMatchID(tournamentID uuid.UUID, side BracketSide, round, order int) uuid.UUID {
	return uuid.NewSHA1(tournamentID, []byte(fmt.Sprintf("%s/%d/%d", side, round, order)))
}
