package bracket

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoubleEliminationAdvancement(t *testing.T) {
	tourney, err := New(DoubleElimination, "Test", players(4))
	require.NoError(t, err)

	wb1 := tourney.Pending()
	require.Len(t, wb1, 2)
	assert.Equal(t, WinnersSide, wb1[0].Side)
	require.NoError(t, tourney.Resolve(wb1[0].ID, 1))
	require.NoError(t, tourney.Resolve(wb1[1].ID, 3))

	// both round 1 losers drop into the losers bracket
	lb1, err := tourney.NextRound()
	require.NoError(t, err)
	require.Len(t, lb1, 1)
	assert.Equal(t, LosersSide, lb1[0].Side)
	assert.Equal(t, 2, lb1[0].Player1)
	assert.Equal(t, 4, *lb1[0].Player2)
	require.NoError(t, tourney.Resolve(lb1[0].ID, 2))

	wb2, err := tourney.NextRound()
	require.NoError(t, err)
	require.Len(t, wb2, 1)
	assert.Equal(t, WinnersSide, wb2[0].Side)
	assert.Equal(t, 2, wb2[0].Round)
	require.NoError(t, tourney.Resolve(wb2[0].ID, 1))

	// the winners final loser meets the losers bracket survivor
	lb2, err := tourney.NextRound()
	require.NoError(t, err)
	require.Len(t, lb2, 1)
	assert.Equal(t, LosersSide, lb2[0].Side)
	assert.Equal(t, 2, lb2[0].Player1)
	assert.Equal(t, 3, *lb2[0].Player2)
	require.NoError(t, tourney.Resolve(lb2[0].ID, 2))

	final, err := tourney.NextRound()
	require.NoError(t, err)
	require.Len(t, final, 1)
	assert.Equal(t, FinalsSide, final[0].Side)
	assert.Equal(t, 1, final[0].Player1)
	assert.Equal(t, 2, *final[0].Player2)
	require.NoError(t, tourney.Resolve(final[0].ID, 1))

	_, err = tourney.NextRound()
	require.NoError(t, err)
	assert.Equal(t, TournamentCompleted, tourney.Status())
	assert.Equal(t, 1, tourney.Outcome().Winner.ID)
}

func TestDoubleEliminationBracketReset(t *testing.T) {
	tourney, err := New(DoubleElimination, "Test", players(2))
	require.NoError(t, err)

	wb := tourney.Pending()
	require.Len(t, wb, 1)
	require.NoError(t, tourney.Resolve(wb[0].ID, 1))

	final, err := tourney.NextRound()
	require.NoError(t, err)
	require.Len(t, final, 1)
	assert.Equal(t, FinalsSide, final[0].Side)

	// losers finalist takes the first grand final, forcing a reset
	require.NoError(t, tourney.Resolve(final[0].ID, 2))

	reset, err := tourney.NextRound()
	require.NoError(t, err)
	require.Len(t, reset, 1, "expected a bracket reset match")
	assert.Equal(t, FinalsSide, reset[0].Side)
	assert.Equal(t, 2, reset[0].Round)
	require.NoError(t, tourney.Resolve(reset[0].ID, 1))

	_, err = tourney.NextRound()
	require.NoError(t, err)
	assert.Equal(t, TournamentCompleted, tourney.Status())
	assert.Equal(t, 1, tourney.Outcome().Winner.ID)

	for _, p := range tourney.Participants() {
		switch p.ID {
		case 1:
			assert.Equal(t, 1, p.Losses)
		case 2:
			assert.Equal(t, 2, p.Losses)
		}
	}
}

func TestDoubleEliminationNoResetWhenChampionHolds(t *testing.T) {
	tourney, err := New(DoubleElimination, "Test", players(2))
	require.NoError(t, err)

	wb := tourney.Pending()
	require.NoError(t, tourney.Resolve(wb[0].ID, 1))

	final, err := tourney.NextRound()
	require.NoError(t, err)
	require.NoError(t, tourney.Resolve(final[0].ID, 1))

	_, err = tourney.NextRound()
	require.NoError(t, err)
	assert.Equal(t, TournamentCompleted, tourney.Status())
	assert.Len(t, tourney.History(), 2, "an undefeated champion needs no reset match")
}

func TestDoubleEliminationTwoLossElimination(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 6, 7, 8, 9} {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			tourney, err := New(DoubleElimination, "Test", players(n))
			require.NoError(t, err)

			out, err := tourney.Start(NewRandomDecider(rand.New(rand.NewSource(int64(n)))))
			require.NoError(t, err)

			for _, p := range tourney.Participants() {
				if p.ID == out.Winner.ID {
					assert.LessOrEqual(t, p.Losses, 1, "the champion survives at most one loss")
					continue
				}
				assert.Equal(t, 2, p.Losses, "player %d should be out on exactly two losses", p.ID)
			}
		})
	}
}

func TestDoubleElimination_ByeHandling(t *testing.T) {
	tourney, err := New(DoubleElimination, "Test", players(5))
	require.NoError(t, err)

	// 5 entrants leave the winners bracket odd, the last one sits out
	wb1 := tourney.Pending()
	require.Len(t, wb1, 2)
	for _, m := range wb1 {
		assert.NotEqual(t, 5, m.Player1)
		assert.NotEqual(t, 5, *m.Player2)
	}

	out, err := tourney.Start(NewRandomDecider(rand.New(rand.NewSource(3))))
	require.NoError(t, err)
	require.NotNil(t, out)

	total := 0
	for _, p := range tourney.Participants() {
		total += p.Byes
	}
	assert.Greater(t, total, 0, "odd pools must have produced byes")
}
