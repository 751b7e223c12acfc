package vote

import (
	"bossbot/internal/boss"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Regional indicators A to D, one per candidate
var DEFAULT_MARKERS = []string{"🇦", "🇧", "🇨", "🇩"}

type Ballot struct {
	Boss   boss.Boss
	Marker string
}

// Votes of one voting window. A voter holds at most one ballot
type Tally struct {
	mu         sync.Mutex
	id         uuid.UUID
	candidates []boss.Boss
	markers    []string
	ballots    map[string]Ballot
}

// Bind every boss of the pool to the marker in the same position
func NewTally(pool []boss.Boss, markers []string) (*Tally, error) {
	if len(pool) != len(markers) {
		return nil, fmt.Errorf("%d candidates for %d markers", len(pool), len(markers))
	}
	tally := &Tally{
		id:         uuid.New(),
		candidates: append([]boss.Boss(nil), pool...),
		markers:    append([]string(nil), markers...),
		ballots:    map[string]Ballot{},
	}
	log.Info().Msg(fmt.Sprintf("Voting window %s opened with %d candidates", tally.id, len(pool)))
	return tally, nil
}

func (tally *Tally) ID() uuid.UUID {
	return tally.id
}

func (tally *Tally) Candidates() []boss.Boss {
	return append([]boss.Boss(nil), tally.candidates...)
}

func (tally *Tally) Markers() []string {
	return append([]string(nil), tally.markers...)
}

func (tally *Tally) candidate(marker string) (int, bool) {
	for i, m := range tally.markers {
		if m == marker {
			return i, true
		}
	}
	return 0, false
}

// Record the vote of a voter, replacing the previous one.
// Returns false if the marker is not one of the candidates
func (tally *Tally) Cast(voter string, marker string) bool {

	tally.mu.Lock()
	defer tally.mu.Unlock()

	index, ok := tally.candidate(marker)
	if !ok {
		log.Debug().Msg(fmt.Sprintf("Window %s: ignoring marker %s from %s", tally.id, marker, voter))
		return false
	}
	tally.ballots[voter] = Ballot{Boss: tally.candidates[index], Marker: marker}
	log.Info().Msg(fmt.Sprintf("Window %s: %s votes for %s", tally.id, voter, tally.candidates[index].Name))
	return true
}

// Remove the vote of a voter, only if it was cast with this marker
func (tally *Tally) Withdraw(voter string, marker string) bool {

	tally.mu.Lock()
	defer tally.mu.Unlock()

	ballot, ok := tally.ballots[voter]
	if !ok || ballot.Marker != marker {
		return false
	}
	delete(tally.ballots, voter)
	log.Info().Msg(fmt.Sprintf("Window %s: %s withdrew the vote for %s", tally.id, voter, ballot.Boss.Name))
	return true
}

func (tally *Tally) PreviousChoice(voter string) (string, bool) {

	tally.mu.Lock()
	defer tally.mu.Unlock()

	ballot, ok := tally.ballots[voter]
	return ballot.Marker, ok
}

// Votes per candidate, in pool order
func (tally *Tally) Counts() []int {

	tally.mu.Lock()
	defer tally.mu.Unlock()

	return tally.counts()
}

func (tally *Tally) counts() []int {
	counts := make([]int, len(tally.candidates))
	for _, ballot := range tally.ballots {
		if index, ok := tally.candidate(ballot.Marker); ok {
			counts[index]++
		}
	}
	return counts
}

// The candidate with most votes. Ties go to the first candidate
// of the pool. No winner without ballots
func (tally *Tally) Winner() (boss.Boss, bool) {

	tally.mu.Lock()
	defer tally.mu.Unlock()

	if len(tally.ballots) == 0 {
		return boss.Boss{}, false
	}

	counts := tally.counts()
	best := 0
	for i := range counts {
		if counts[i] > counts[best] {
			best = i
		}
	}
	log.Info().Msg(fmt.Sprintf("Window %s: %s wins with %d of %d votes", tally.id, tally.candidates[best].Name, counts[best], len(tally.ballots)))
	return tally.candidates[best], true
}

func (tally *Tally) Voters() int {

	tally.mu.Lock()
	defer tally.mu.Unlock()

	return len(tally.ballots)
}
