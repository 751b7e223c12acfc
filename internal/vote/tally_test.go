package vote

import (
	"bossbot/internal/boss"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTally(t *testing.T) *Tally {
	pool := []boss.Boss{{Name: "Zulrah"}, {Name: "Vorkath"}, {Name: "Obor"}, {Name: "Bryophyta"}}
	tally, err := NewTally(pool, DEFAULT_MARKERS)
	require.NoError(t, err)
	return tally
}

func TestNewTallyNeedsOneMarkerPerCandidate(t *testing.T) {
	_, err := NewTally([]boss.Boss{{Name: "Zulrah"}}, DEFAULT_MARKERS)
	assert.Error(t, err)
}

func TestCastUnknownMarker(t *testing.T) {
	tally := newTally(t)
	assert.False(t, tally.Cast("alice", "👍"))
	assert.Equal(t, 0, tally.Voters())
	_, ok := tally.Winner()
	assert.False(t, ok)
}

func TestLastVoteWins(t *testing.T) {
	tally := newTally(t)
	require.True(t, tally.Cast("alice", "🇦"))
	require.True(t, tally.Cast("alice", "🇨"))

	assert.Equal(t, []int{0, 0, 1, 0}, tally.Counts())
	marker, ok := tally.PreviousChoice("alice")
	require.True(t, ok)
	assert.Equal(t, "🇨", marker)

	winner, ok := tally.Winner()
	require.True(t, ok)
	assert.Equal(t, "Obor", winner.Name)
}

func TestWithdrawNeedsTheSameMarker(t *testing.T) {
	tally := newTally(t)
	require.True(t, tally.Cast("alice", "🇧"))

	assert.False(t, tally.Withdraw("alice", "🇦"))
	assert.False(t, tally.Withdraw("bob", "🇧"))
	assert.Equal(t, 1, tally.Voters())

	assert.True(t, tally.Withdraw("alice", "🇧"))
	assert.Equal(t, 0, tally.Voters())
	_, ok := tally.PreviousChoice("alice")
	assert.False(t, ok)
}

func TestWinner(t *testing.T) {
	tests := []struct {
		name    string
		ballots map[string]string
		winner  string
	}{
		{name: "majority", ballots: map[string]string{"a": "🇦", "b": "🇦", "c": "🇦", "d": "🇧", "e": "🇧", "f": "🇨", "g": "🇨"}, winner: "Zulrah"},
		{name: "tie goes to the first candidate", ballots: map[string]string{"a": "🇩", "b": "🇩", "c": "🇧", "d": "🇧"}, winner: "Vorkath"},
		{name: "single vote", ballots: map[string]string{"a": "🇩"}, winner: "Bryophyta"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tally := newTally(t)
			for voter, marker := range tc.ballots {
				require.True(t, tally.Cast(voter, marker))
			}
			winner, ok := tally.Winner()
			require.True(t, ok)
			assert.Equal(t, tc.winner, winner.Name)
		})
	}
}

func TestConcurrentVotes(t *testing.T) {
	tally := newTally(t)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			voter := fmt.Sprintf("voter%d", i)
			tally.Cast(voter, DEFAULT_MARKERS[i%4])
			tally.Cast(voter, DEFAULT_MARKERS[(i+1)%4])
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, tally.Voters())
	assert.Equal(t, []int{25, 25, 25, 25}, tally.Counts())
	winner, ok := tally.Winner()
	require.True(t, ok)
	assert.Equal(t, "Zulrah", winner.Name)
}
