package bracket

// doubleElim runs the winners and losers brackets as alternating phases
// so the losers of winners round N drop into losers round N. Survivors
// keep their order and fresh drops queue behind them. One loss sends a
// participant down, a second eliminates them.
//
// The grand final pits the two bracket finalists. When the losers
// finalist takes it, both stand at one loss and a single reset match
// decides the title.
type doubleElim struct {
	wb []int
	lb []int

	wbBye *int
	lbBye *int

	wbRound  int
	lbRound  int
	finRound int
	lastSide BracketSide
}

func (e *doubleElim) next(t *Tournament, prev []*Match) ([]*Match, *Outcome) {
	switch {
	case prev == nil:
		e.wb = t.reg.IDs()
	case e.lastSide == WinnersSide:
		var winners []int
		for _, m := range prev {
			winners = append(winners, *m.Winner)
			if id, ok := m.Loser(); ok {
				e.lb = append(e.lb, id)
			}
		}
		if e.wbBye != nil {
			winners = append(winners, *e.wbBye)
			e.wbBye = nil
		}
		// drops queued above keep the winners-bracket match order
		e.wb = winners
	case e.lastSide == LosersSide:
		var winners []int
		for _, m := range prev {
			winners = append(winners, *m.Winner)
		}
		if e.lbBye != nil {
			winners = append(winners, *e.lbBye)
			e.lbBye = nil
		}
		e.lb = winners
	case e.lastSide == FinalsSide:
		m := prev[0]
		if e.finRound == 2 || *m.Winner == m.Player1 {
			winner, _ := t.reg.Get(*m.Winner)
			return nil, &Outcome{Winner: *winner}
		}
		// losers finalist took the first grand final, bracket resets
		e.finRound = 2
		p2 := *m.Player2
		return []*Match{t.newMatch(FinalsSide, 2, 0, m.Player1, &p2)}, nil
	}

	if len(e.wb) == 1 && len(e.lb) == 1 {
		e.finRound = 1
		e.lastSide = FinalsSide
		p2 := e.lb[0]
		return []*Match{t.newMatch(FinalsSide, 1, 0, e.wb[0], &p2)}, nil
	}
	if (e.lastSide == WinnersSide && len(e.lb) > 1) || len(e.wb) == 1 {
		return e.pairLosers(t), nil
	}
	return e.pairWinners(t), nil
}

func (e *doubleElim) pairWinners(t *Tournament) []*Match {
	e.wbRound++
	e.lastSide = WinnersSide
	ms, bye := pairPool(t, e.wb, WinnersSide, e.wbRound)
	e.wbBye = bye
	return ms
}

func (e *doubleElim) pairLosers(t *Tournament) []*Match {
	e.lbRound++
	e.lastSide = LosersSide
	ms, bye := pairPool(t, e.lb, LosersSide, e.lbRound)
	e.lbBye = bye
	return ms
}
