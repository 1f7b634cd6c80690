package service

import (
	"sort"

	"github.com/AdamBeresnev/tourney-engine/internal/bracket"
)

// RoundView is one rendered round, matches in pairing order.
type RoundView struct {
	Round   int             `json:"round"`
	Matches []bracket.Match `json:"matches"`
}

// BracketView groups a tournament's matches by bracket side and round
// for API responses. Single elimination and Swiss only populate the
// winners side.
type BracketView struct {
	Winners []RoundView `json:"winners,omitempty"`
	Losers  []RoundView `json:"losers,omitempty"`
	Finals  []RoundView `json:"finals,omitempty"`
}

func NewBracketView(matches []bracket.Match) BracketView {
	bySide := make(map[bracket.BracketSide]map[int][]bracket.Match)
	for _, m := range matches {
		rounds, ok := bySide[m.Side]
		if !ok {
			rounds = make(map[int][]bracket.Match)
			bySide[m.Side] = rounds
		}
		rounds[m.Round] = append(rounds[m.Round], m)
	}
	return BracketView{
		Winners: roundViews(bySide[bracket.WinnersSide]),
		Losers:  roundViews(bySide[bracket.LosersSide]),
		Finals:  roundViews(bySide[bracket.FinalsSide]),
	}
}

func roundViews(rounds map[int][]bracket.Match) []RoundView {
	if len(rounds) == 0 {
		return nil
	}
	nums := make([]int, 0, len(rounds))
	for n := range rounds {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	views := make([]RoundView, 0, len(nums))
	for _, n := range nums {
		ms := rounds[n]
		sort.Slice(ms, func(i, j int) bool { return ms[i].Order < ms[j].Order })
		views = append(views, RoundView{Round: n, Matches: ms})
	}
	return views
}
