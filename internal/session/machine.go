package session

import (
	"bossbot/internal/boss"
	"bossbot/internal/common"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyVoting          = common.NewError(common.PreconditionError, "voting is already open")
	ErrAlreadyClosed          = common.NewError(common.PreconditionError, "voting is already closed")
	ErrNoWinner               = common.NewError(common.ValidationError, "no boss to close voting with")
	ErrNoBossSelected         = common.NewError(common.PreconditionError, "no boss to open tracking with")
	ErrNotTracking            = common.NewError(common.PreconditionError, "tracking is not active")
	ErrInsufficientCandidates = common.NewError(common.ResourceError, "not enough bosses to generate a pool")
)

// The machine owns the session and applies the transitions of the
// weekly event. A transition works on a copy of the session, saves it,
// and only then replaces the current session
type Machine struct {
	mu      sync.RWMutex
	session Session
	store   Store
	now     func() time.Time
}

// Create a machine with the session found in the store
func NewMachine(store Store) (*Machine, error) {
	session, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Machine{session: session, store: store, now: time.Now}, nil
}

// A copy of the current session
func (m *Machine) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Clone()
}

func (m *Machine) apply(name string, transition func(s *Session) error) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.session.Clone()
	if err := transition(&next); err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not %s: %s", name, err))
		return err
	}

	if err := m.store.Save(next); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not save session after %s: %s", name, err))
		return common.Wrap(common.ResourceError, "could not save session", err)
	}
	m.session = next
	log.Info().Msg(fmt.Sprintf("Session is now in phase %s after %s", next.Phase, name))
	return nil
}

func (m *Machine) stamp(s *Session) {
	now := m.now()
	s.PhaseStart = &now
}

// Open voting with 4 bosses from the catalog that were not used recently
func (m *Machine) OpenVoting(catalog []boss.Boss, rng *rand.Rand) error {
	return m.apply("open voting", func(s *Session) error {
		if s.VotingActive() {
			return ErrAlreadyVoting
		}

		pool, err := drawPool(s, catalog, rng)
		if err != nil {
			return err
		}

		s.LastBoss = s.CurrentBoss
		s.CurrentBoss = nil
		s.BossPool = pool
		s.Phase = PHASE_VOTING
		m.stamp(s)
		return nil
	})
}

// Draw the candidates among the bosses not in the history.
// If there are not enough of those, the history starts over
func drawPool(s *Session, catalog []boss.Boss, rng *rand.Rand) ([]boss.Boss, error) {

	eligible := eligibleBosses(catalog, s.UsedBosses)
	if len(eligible) < boss.POOL_SIZE {
		log.Info().Msg(fmt.Sprintf("Only %d bosses left outside the history, clearing it", len(eligible)))
		s.UsedBosses = nil
		eligible = eligibleBosses(catalog, nil)
	}
	if len(eligible) < boss.POOL_SIZE {
		return nil, ErrInsufficientCandidates
	}

	pool := make([]boss.Boss, 0, boss.POOL_SIZE)
	for _, i := range rng.Perm(len(eligible))[:boss.POOL_SIZE] {
		pool = append(pool, eligible[i])
	}
	return pool, nil
}

// Distinct bosses of the catalog that are not in the history
func eligibleBosses(catalog []boss.Boss, used []boss.Boss) []boss.Boss {
	eligible := []boss.Boss{}
	for _, b := range catalog {
		if boss.Contains(used, b) || boss.Contains(eligible, b) {
			continue
		}
		eligible = append(eligible, b)
	}
	return eligible
}

// Close voting with the boss that won
func (m *Machine) CloseVoting(winner *boss.Boss) error {
	return m.apply("close voting", func(s *Session) error {
		if s.Phase == PHASE_VOTING_CLOSED {
			return ErrAlreadyClosed
		}
		if winner == nil {
			return ErrNoWinner
		}

		if s.CurrentBoss != nil {
			s.LastBoss = s.CurrentBoss
		}
		selected := *winner
		s.CurrentBoss = &selected
		s.BossPool = nil
		s.Phase = PHASE_VOTING_CLOSED
		m.stamp(s)
		return nil
	})
}

// Open tracking for the provided boss, or the current one if nil
func (m *Machine) OpenTracking(selected *boss.Boss) error {
	return m.apply("open tracking", func(s *Session) error {
		if selected == nil && s.CurrentBoss == nil {
			return ErrNoBossSelected
		}

		if selected != nil {
			current := *selected
			s.CurrentBoss = &current
		}
		s.UsedBosses = append(s.UsedBosses, *s.CurrentBoss)
		last := *s.CurrentBoss
		s.LastBoss = &last
		s.BossPool = nil
		s.Phase = PHASE_TRACKING
		m.stamp(s)
		return nil
	})
}

func (m *Machine) CloseTracking() error {
	return m.apply("close tracking", func(s *Session) error {
		if !s.TrackingActive() {
			return ErrNotTracking
		}

		s.LastBoss = s.CurrentBoss
		s.CurrentBoss = nil
		s.BossPool = nil
		s.Phase = PHASE_TRACKING_CLOSED
		m.stamp(s)
		return nil
	})
}

// Back to no session. Bosses and history are kept
func (m *Machine) Reset() error {
	return m.apply("reset session", func(s *Session) error {
		s.BossPool = nil
		s.Phase = PHASE_NO_SESSION
		m.stamp(s)
		return nil
	})
}

// Allow every boss to be drawn again
func (m *Machine) ClearHistory() error {
	return m.apply("clear used bosses", func(s *Session) error {
		s.UsedBosses = nil
		return nil
	})
}
