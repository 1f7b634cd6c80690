package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayRebuildsIdenticalState(t *testing.T) {
	for _, typ := range []TournamentType{SingleElimination, DoubleElimination, Swiss} {
		t.Run(string(typ), func(t *testing.T) {
			orig, err := New(typ, "Replayed", players(6), WithRounds(3))
			require.NoError(t, err)

			// play two rounds, then stop mid-tournament
			for round := 0; round < 2; round++ {
				for _, m := range orig.Pending() {
					require.NoError(t, orig.Resolve(m.ID, m.Player1))
				}
				_, err = orig.NextRound()
				require.NoError(t, err)
			}
			require.Equal(t, TournamentStarted, orig.Status())

			var results []Result
			for _, m := range orig.History() {
				results = append(results, Result{MatchID: m.ID, WinnerID: *m.Winner})
			}

			replayed, err := Replay(typ, "Replayed", players(6), results, WithID(orig.ID), WithRounds(3))
			require.NoError(t, err)

			assert.Equal(t, orig.Round(), replayed.Round())
			assert.Equal(t, orig.Status(), replayed.Status())
			assert.Equal(t, orig.Standings(), replayed.Standings())

			origPending := orig.Pending()
			replayedPending := replayed.Pending()
			require.Equal(t, len(origPending), len(replayedPending))
			for i := range origPending {
				assert.Equal(t, origPending[i].ID, replayedPending[i].ID, "stable ids must survive the replay")
				assert.Equal(t, origPending[i].Player1, replayedPending[i].Player1)
			}
		})
	}
}

func TestReplayCompletedTournament(t *testing.T) {
	orig, err := New(DoubleElimination, "Done", players(5))
	require.NoError(t, err)
	_, err = orig.Start(firstWins)
	require.NoError(t, err)

	var results []Result
	for _, m := range orig.History() {
		results = append(results, Result{MatchID: m.ID, WinnerID: *m.Winner})
	}

	replayed, err := Replay(DoubleElimination, "Done", players(5), results, WithID(orig.ID))
	require.NoError(t, err)

	assert.Equal(t, TournamentCompleted, replayed.Status())
	require.NotNil(t, replayed.Outcome())
	assert.Equal(t, orig.Outcome().Winner.ID, replayed.Outcome().Winner.ID)
	assert.Equal(t, orig.Standings(), replayed.Standings())
}

func TestReplayWithoutResultsReopensRoundOne(t *testing.T) {
	orig, err := New(Swiss, "Fresh", players(5))
	require.NoError(t, err)

	replayed, err := Replay(Swiss, "Fresh", players(5), nil, WithID(orig.ID))
	require.NoError(t, err)

	assert.Equal(t, 1, replayed.Round())
	assert.Equal(t, len(orig.Pending()), len(replayed.Pending()))
}
