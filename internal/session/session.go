package session

import (
	"bossbot/internal/boss"
	"bossbot/internal/common"
	"fmt"
	"time"
)

type Phase string

const (
	PHASE_NO_SESSION      Phase = "no_session"
	PHASE_VOTING          Phase = "voting"
	PHASE_VOTING_CLOSED   Phase = "voting_closed"
	PHASE_TRACKING        Phase = "tracking"
	PHASE_TRACKING_CLOSED Phase = "tracking_closed"
)

var phaseNames = map[Phase]string{
	PHASE_NO_SESSION:      "No Session",
	PHASE_VOTING:          "Open Voting",
	PHASE_VOTING_CLOSED:   "Close Voting",
	PHASE_TRACKING:        "Open Tracking",
	PHASE_TRACKING_CLOSED: "Close Tracking",
}

func (phase Phase) String() string {
	if name, ok := phaseNames[phase]; ok {
		return name
	}
	return string(phase)
}

func (phase Phase) Valid() bool {
	_, ok := phaseNames[phase]
	return ok
}

// State of the weekly event. The only writer is the Machine
type Session struct {
	Phase       Phase       `json:"phase"`
	CurrentBoss *boss.Boss  `json:"current_boss"`
	LastBoss    *boss.Boss  `json:"last_boss"`
	BossPool    []boss.Boss `json:"boss_pool"`
	UsedBosses  []boss.Boss `json:"used_bosses"`
	PhaseStart  *time.Time  `json:"phase_start_time"`
}

func NewSession() Session {
	return Session{Phase: PHASE_NO_SESSION}
}

func (s Session) VotingActive() bool {
	return s.Phase == PHASE_VOTING
}

func (s Session) TrackingActive() bool {
	return s.Phase == PHASE_TRACKING
}

// Deep copy, so that transitions can work on a copy and be discarded
func (s Session) Clone() Session {
	clone := Session{Phase: s.Phase}
	if s.CurrentBoss != nil {
		current := *s.CurrentBoss
		clone.CurrentBoss = &current
	}
	if s.LastBoss != nil {
		last := *s.LastBoss
		clone.LastBoss = &last
	}
	if s.PhaseStart != nil {
		start := *s.PhaseStart
		clone.PhaseStart = &start
	}
	clone.BossPool = append([]boss.Boss(nil), s.BossPool...)
	clone.UsedBosses = append([]boss.Boss(nil), s.UsedBosses...)
	return clone
}

// Check the invariants of a session loaded from storage
func (s Session) Validate() error {
	if !s.Phase.Valid() {
		return common.NewError(common.ValidationError, fmt.Sprintf("unknown session phase %q", s.Phase))
	}
	if s.VotingActive() {
		if len(s.BossPool) != boss.POOL_SIZE {
			return common.NewError(common.ValidationError, fmt.Sprintf("voting session has a pool of %d bosses", len(s.BossPool)))
		}
		for i := range s.BossPool {
			for j := i + 1; j < len(s.BossPool); j++ {
				if s.BossPool[i].Is(s.BossPool[j]) {
					return common.NewError(common.ValidationError, fmt.Sprintf("boss %s is twice in the pool", s.BossPool[i].Name))
				}
			}
		}
	} else if len(s.BossPool) != 0 {
		return common.NewError(common.ValidationError, fmt.Sprintf("session in phase %s has a boss pool", s.Phase))
	}
	return nil
}

// Optional boss, for messages
func Describe(b *boss.Boss) string {
	if b == nil {
		return "None"
	}
	return b.String()
}
