package bracket

import "math"

// swiss pairs by current score each round and never repeats a pairing
// while any repeat-free matching exists. Odd fields rotate a scored bye
// to the lowest-standing entrant still without one.
type swiss struct {
	rounds int
	faced  map[[2]int]bool
}

func newSwiss(rounds int) *swiss {
	return &swiss{rounds: rounds, faced: make(map[[2]int]bool)}
}

// defaultSwissRounds matches the depth of a single-elimination bracket,
// enough for an undefeated leader to emerge.
func defaultSwissRounds(n int) int {
	return int(math.Ceil(math.Log2(float64(n))))
}

func (e *swiss) next(t *Tournament, prev []*Match) ([]*Match, *Outcome) {
	if prev != nil && t.round >= e.rounds {
		lead := t.Standings()[0]
		winner, _ := t.reg.Get(lead.ID)
		return nil, &Outcome{Winner: *winner}
	}

	order := make([]int, 0, t.reg.Len())
	for _, s := range t.Standings() {
		order = append(order, s.ID)
	}
	round := t.round + 1

	byeID, hasBye := 0, false
	if len(order)%2 == 1 {
		byeID, hasBye = e.pickBye(t, order), true
		order = removeID(order, byeID)
	}

	pairs := pairAvoidingRematch(order, e.faced)
	if pairs == nil {
		// every complete pairing would repeat, fall back to neighbors
		pairs = adjacentPairs(order)
	}
	var ms []*Match
	for i, pr := range pairs {
		p2 := pr[1]
		ms = append(ms, t.newMatch(WinnersSide, round, i, pr[0], &p2))
		e.faced[pairKey(pr[0], pr[1])] = true
	}
	if hasBye {
		ms = append(ms, e.scoredBye(t, round, len(pairs), byeID))
	}
	return ms, nil
}

// pickBye chooses the lowest-standing participant without a bye yet,
// falling back to the lowest-standing outright once everyone had one.
func (e *swiss) pickBye(t *Tournament, order []int) int {
	for i := len(order) - 1; i >= 0; i-- {
		p, _ := t.reg.Get(order[i])
		if p.Byes == 0 {
			return order[i]
		}
	}
	return order[len(order)-1]
}

// scoredBye records an unopposed win. Byes never enter the pairing
// history, so they cannot block future pairings.
func (e *swiss) scoredBye(t *Tournament, round, order, id int) *Match {
	m := t.newMatch(WinnersSide, round, order, id, nil)
	m.Winner = &id
	m.Status = MatchFinished
	p, _ := t.reg.Get(id)
	p.Wins++
	p.Byes++
	return m
}

// pairAvoidingRematch searches for a complete pairing of ids with no
// pair in faced. ids arrive ordered by standing, so each unpaired leader
// tries the nearest-scored opponents first and any forced crossover
// lands in the adjacent score group. Returns nil when every complete
// pairing needs a rematch.
func pairAvoidingRematch(ids []int, faced map[[2]int]bool) [][2]int {
	if len(ids) == 0 {
		return [][2]int{}
	}
	lead := ids[0]
	for i := 1; i < len(ids); i++ {
		if faced[pairKey(lead, ids[i])] {
			continue
		}
		rest := make([]int, 0, len(ids)-2)
		rest = append(rest, ids[1:i]...)
		rest = append(rest, ids[i+1:]...)
		if tail := pairAvoidingRematch(rest, faced); tail != nil {
			return append([][2]int{{lead, ids[i]}}, tail...)
		}
	}
	return nil
}

func adjacentPairs(ids []int) [][2]int {
	pairs := make([][2]int, 0, len(ids)/2)
	for i := 0; i+1 < len(ids); i += 2 {
		pairs = append(pairs, [2]int{ids[i], ids[i+1]})
	}
	return pairs
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
