package bracket

// singleElim pairs the advancing pool in order, index 2i against 2i+1.
// An odd pool gives its last entrant a bye: they advance without a match
// being created and rejoin behind the round's winners.
type singleElim struct {
	bye *int
}

func (e *singleElim) next(t *Tournament, prev []*Match) ([]*Match, *Outcome) {
	var pool []int
	if prev == nil {
		pool = t.reg.IDs()
	} else {
		for _, m := range prev {
			pool = append(pool, *m.Winner)
		}
		if e.bye != nil {
			pool = append(pool, *e.bye)
			e.bye = nil
		}
	}
	if len(pool) == 1 {
		winner, _ := t.reg.Get(pool[0])
		return nil, &Outcome{Winner: *winner}
	}
	ms, bye := pairPool(t, pool, WinnersSide, t.round+1)
	e.bye = bye
	return ms, nil
}

// pairPool pairs a bracket pool 2i against 2i+1. The returned bye is the
// unpaired last entrant of an odd pool, nil otherwise.
func pairPool(t *Tournament, pool []int, side BracketSide, round int) ([]*Match, *int) {
	var ms []*Match
	for i := 0; i+1 < len(pool); i += 2 {
		p2 := pool[i+1]
		ms = append(ms, t.newMatch(side, round, i/2, pool[i], &p2))
	}
	if len(pool)%2 == 0 {
		return ms, nil
	}
	last := pool[len(pool)-1]
	p, _ := t.reg.Get(last)
	p.Byes++
	return ms, &last
}
