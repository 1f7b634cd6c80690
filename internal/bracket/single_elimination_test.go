package bracket

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleEliminationFourPlayerBracket(t *testing.T) {
	tourney, err := New(SingleElimination, "Test", players(4))
	require.NoError(t, err)

	round1 := tourney.Pending()
	require.Len(t, round1, 2)
	assert.Equal(t, 1, round1[0].Player1)
	assert.Equal(t, 2, *round1[0].Player2)
	assert.Equal(t, 3, round1[1].Player1)
	assert.Equal(t, 4, *round1[1].Player2)

	require.NoError(t, tourney.Resolve(round1[0].ID, 1))
	require.NoError(t, tourney.Resolve(round1[1].ID, 3))

	round2, err := tourney.NextRound()
	require.NoError(t, err)
	require.Len(t, round2, 1)
	assert.Equal(t, 1, round2[0].Player1)
	assert.Equal(t, 3, *round2[0].Player2)

	require.NoError(t, tourney.Resolve(round2[0].ID, 3))
	_, err = tourney.NextRound()
	require.NoError(t, err)

	assert.Equal(t, TournamentCompleted, tourney.Status())
	require.NotNil(t, tourney.Outcome())
	assert.Equal(t, 3, tourney.Outcome().Winner.ID)
	assert.Equal(t, 0, tourney.Outcome().Winner.Losses)
	assert.Equal(t, 2, tourney.Round())
}

func TestSingleEliminationRoundCount(t *testing.T) {
	testCases := []struct {
		name           string
		numPlayers     int
		expectedRounds int
	}{
		{"1 player", 1, 0},
		{"2 players", 2, 1},
		{"3 players", 3, 2},
		{"4 players", 4, 2},
		{"5 players", 5, 3},
		{"8 players", 8, 3},
		{"9 players", 9, 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tourney, err := New(SingleElimination, "Test", players(tc.numPlayers))
			require.NoError(t, err)

			out, err := tourney.Start(NewRandomDecider(rand.New(rand.NewSource(1))))
			require.NoError(t, err)

			assert.Equal(t, tc.expectedRounds, tourney.Round())
			assert.Equal(t, 0, out.Winner.Losses, "a single elimination champion never loses")
		})
	}
}

func TestSingleEliminationOneLossEliminates(t *testing.T) {
	tourney, err := New(SingleElimination, "Test", players(8))
	require.NoError(t, err)

	out, err := tourney.Start(NewRandomDecider(rand.New(rand.NewSource(7))))
	require.NoError(t, err)

	for _, p := range tourney.Participants() {
		if p.ID == out.Winner.ID {
			assert.Equal(t, 0, p.Losses)
			continue
		}
		assert.Equal(t, 1, p.Losses, "player %d", p.ID)
	}
}

func TestSingleEliminationByeAdvances(t *testing.T) {
	tourney, err := New(SingleElimination, "Test", players(5))
	require.NoError(t, err)

	// the odd player out gets no round 1 match at all
	round1 := tourney.Pending()
	require.Len(t, round1, 2)
	for _, m := range round1 {
		assert.False(t, m.IsBye())
		assert.NotEqual(t, 5, m.Player1)
		assert.NotEqual(t, 5, *m.Player2)
	}

	out, err := tourney.Start(firstWins)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Winner.ID)
	assert.Equal(t, 3, tourney.Round())
	assert.Len(t, tourney.History(), 4)

	for _, p := range tourney.Participants() {
		if p.ID == 5 {
			assert.Equal(t, 2, p.Byes, "player 5 rides byes to the final")
			assert.Equal(t, 1, p.Losses)
		}
	}
}
