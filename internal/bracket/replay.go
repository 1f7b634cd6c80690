package bracket

import (
	"fmt"

	"github.com/google/uuid"
)

// Result is one stored match outcome used to rebuild a tournament.
type Result struct {
	MatchID  uuid.UUID
	WinnerID int
}

// Replay reconstructs a tournament by pairing from scratch and feeding
// the stored results back in. Pairing is deterministic and match ids
// derive from the bracket position, so the rebuilt state is identical to
// the run that produced the results. Missing results leave the
// tournament parked mid-round, exactly where it stopped.
func Replay(typ TournamentType, name string, players []Participant, results []Result, opts ...Option) (*Tournament, error) {
	t, err := New(typ, name, players, opts...)
	if err != nil {
		return nil, err
	}
	winners := make(map[uuid.UUID]int, len(results))
	for _, r := range results {
		winners[r.MatchID] = r.WinnerID
	}
	for t.status == TournamentStarted {
		for _, m := range t.Pending() {
			w, ok := winners[m.ID]
			if !ok {
				continue
			}
			if err := t.Resolve(m.ID, w); err != nil {
				return nil, fmt.Errorf("replay match %s: %w", m.ID, err)
			}
		}
		if !t.RoundComplete() {
			break
		}
		if _, err := t.NextRound(); err != nil {
			return nil, err
		}
	}
	return t, nil
}
