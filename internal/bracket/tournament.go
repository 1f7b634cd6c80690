// Package bracket implements the pairing and advancement engine for
// single elimination, double elimination and Swiss tournaments. A
// Tournament owns all of its state in memory and is driven round by
// round: callers resolve every pending match, then advance. Results come
// from the caller, the engine only routes them.
package bracket

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentStarted   TournamentStatus = "started"
	TournamentCompleted TournamentStatus = "completed"
)

type TournamentType string

const (
	SingleElimination TournamentType = "single"
	DoubleElimination TournamentType = "double"
	Swiss             TournamentType = "swiss"
)

func ParseTournamentType(s string) (TournamentType, error) {
	switch t := TournamentType(s); t {
	case SingleElimination, DoubleElimination, Swiss:
		return t, nil
	}
	return "", fmt.Errorf("unknown tournament type %q", s)
}

// engine is the variant-specific pairing strategy. next consumes the
// completed round (nil on the opening call) and returns either the
// following round's matches or the terminal outcome, never both.
type engine interface {
	next(t *Tournament, prev []*Match) ([]*Match, *Outcome)
}

// Standing is a read-only snapshot row ordered by wins, ties broken by
// seed order.
type Standing struct {
	Rank   int    `json:"rank"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Byes   int    `json:"byes"`
}

// Outcome is the terminal result. Winner is the champion for the
// elimination types and the ranking leader for Swiss. AutoWin marks a
// tournament decided without any match being played.
type Outcome struct {
	Winner  Participant `json:"winner"`
	Ranking []Standing  `json:"ranking"`
	AutoWin bool        `json:"auto_win,omitempty"`
}

// Tournament is the aggregate driving one competition. It is not safe
// for concurrent use, callers serialize access per instance.
type Tournament struct {
	ID   uuid.UUID
	Name string
	Type TournamentType

	status  TournamentStatus
	reg     *Registry
	eng     engine
	round   int
	rounds  int
	current []*Match
	all     []*Match
	byID    map[uuid.UUID]*Match
	seq     int
	outcome *Outcome
}

type Option func(*Tournament)

// WithID fixes the tournament id instead of generating one. Match ids
// derive from it, so replays must reuse the stored id.
func WithID(id uuid.UUID) Option {
	return func(t *Tournament) { t.ID = id }
}

// WithRounds fixes the Swiss round count. Values below 1 fall back to
// the default of ceil(log2(n)). Ignored by the elimination types.
func WithRounds(n int) Option {
	return func(t *Tournament) { t.rounds = n }
}

// New validates the roster, builds the engine for typ and opens the
// first round. A roster of one completes immediately with an automatic
// win.
func New(typ TournamentType, name string, players []Participant, opts ...Option) (*Tournament, error) {
	reg, err := newRegistry(players)
	if err != nil {
		return nil, err
	}
	t := &Tournament{
		ID:     uuid.New(),
		Name:   name,
		Type:   typ,
		status: TournamentStarted,
		reg:    reg,
		byID:   make(map[uuid.UUID]*Match),
	}
	for _, opt := range opts {
		opt(t)
	}
	switch typ {
	case SingleElimination:
		t.eng = &singleElim{}
	case DoubleElimination:
		t.eng = &doubleElim{}
	case Swiss:
		if t.rounds < 1 {
			t.rounds = defaultSwissRounds(reg.Len())
		}
		t.eng = newSwiss(t.rounds)
	default:
		return nil, fmt.Errorf("unknown tournament type %q", typ)
	}
	if reg.Len() == 1 {
		// a lone entrant wins without a single match being created
		t.complete(&Outcome{Winner: *reg.All()[0], AutoWin: true})
		return t, nil
	}
	ms, out := t.eng.next(t, nil)
	if out != nil {
		t.complete(out)
		return t, nil
	}
	t.open(ms)
	return t, nil
}

// Resolve records winnerID as the winner of the given match and updates
// both records. Validation happens before any mutation, so a failed call
// leaves the tournament untouched.
func (t *Tournament) Resolve(matchID uuid.UUID, winnerID int) error {
	m, ok := t.byID[matchID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMatch, matchID)
	}
	if m.Resolved() {
		return ErrMatchResolved
	}
	if !m.HasParticipant(winnerID) {
		return ErrInvalidWinner
	}
	m.Winner = &winnerID
	m.Status = MatchFinished
	winner, _ := t.reg.Get(winnerID)
	winner.Wins++
	if id, ok := m.Loser(); ok {
		loser, _ := t.reg.Get(id)
		loser.Losses++
	}
	return nil
}

// NextRound pairs the following round once every match of the current
// one is resolved. When the engine reaches its terminal condition it
// returns no matches and the tournament completes; the result is then
// available from Outcome.
func (t *Tournament) NextRound() ([]*Match, error) {
	if t.status == TournamentCompleted {
		return nil, ErrTournamentComplete
	}
	if !t.RoundComplete() {
		return nil, ErrRoundNotComplete
	}
	ms, out := t.eng.next(t, t.current)
	if out != nil {
		t.complete(out)
		return nil, nil
	}
	t.open(ms)
	return ms, nil
}

// Start drives the tournament to completion, asking d to decide every
// pending match in turn.
func (t *Tournament) Start(d Decider) (*Outcome, error) {
	for t.status != TournamentCompleted {
		for _, m := range t.Pending() {
			winner, err := d.Decide(m)
			if err != nil {
				return nil, fmt.Errorf("decide match %s: %w", m.ID, err)
			}
			if err := t.Resolve(m.ID, winner); err != nil {
				return nil, err
			}
		}
		if _, err := t.NextRound(); err != nil {
			return nil, err
		}
	}
	return t.outcome, nil
}

func (t *Tournament) Status() TournamentStatus { return t.status }

// Round is the number of rounds opened so far. For double elimination
// each bracket phase counts as one round.
func (t *Tournament) Round() int { return t.round }

// RoundsTotal is the configured Swiss round count, zero for the
// elimination types.
func (t *Tournament) RoundsTotal() int {
	if t.Type != Swiss {
		return 0
	}
	return t.rounds
}

// Outcome returns the terminal result, nil while the tournament runs.
func (t *Tournament) Outcome() *Outcome { return t.outcome }

func (t *Tournament) Participants() []*Participant { return t.reg.All() }

// Pending returns the unresolved matches of the current round in pairing
// order.
func (t *Tournament) Pending() []*Match {
	var ms []*Match
	for _, m := range t.current {
		if !m.Resolved() {
			ms = append(ms, m)
		}
	}
	return ms
}

// Matches returns every match created so far in creation order,
// resolved or not.
func (t *Tournament) Matches() []*Match {
	ms := make([]*Match, len(t.all))
	copy(ms, t.all)
	return ms
}

// History returns the resolved matches in creation order.
func (t *Tournament) History() []*Match {
	ms := make([]*Match, 0, len(t.all))
	for _, m := range t.all {
		if m.Resolved() {
			ms = append(ms, m)
		}
	}
	return ms
}

func (t *Tournament) RoundComplete() bool {
	for _, m := range t.current {
		if !m.Resolved() {
			return false
		}
	}
	return true
}

// Standings snapshots all participants ordered by wins descending, ties
// kept in seed order.
func (t *Tournament) Standings() []Standing {
	ps := t.reg.All()
	rows := make([]Standing, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, Standing{
			ID:     p.ID,
			Name:   p.Name,
			Wins:   p.Wins,
			Losses: p.Losses,
			Byes:   p.Byes,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Wins > rows[j].Wins
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func (t *Tournament) open(ms []*Match) {
	t.round++
	t.current = ms
	for _, m := range ms {
		t.byID[m.ID] = m
		t.all = append(t.all, m)
	}
}

func (t *Tournament) complete(out *Outcome) {
	out.Ranking = t.Standings()
	t.outcome = out
	t.status = TournamentCompleted
	t.current = nil
}

// newMatch hands out the next match with its stable id and creation
// sequence number.
func (t *Tournament) newMatch(side BracketSide, round, order, p1 int, p2 *int) *Match {
	m := &Match{
		ID:           newMatchID(t.ID, side, round, order),
		TournamentID: t.ID,
		Side:         side,
		Round:        round,
		Order:        order,
		Player1:      p1,
		Player2:      p2,
		Status:       MatchPending,
		Seq:          t.seq,
	}
	t.seq++
	return m
}
