package bot

import (
	"bossbot/internal/boss"
	"bossbot/internal/common"
	"bossbot/internal/player"
	"bossbot/internal/session"
	"bossbot/internal/vote"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrVotingActive    = common.NewError(common.PreconditionError, "voting is active")
	ErrVotingInactive  = common.NewError(common.PreconditionError, "voting is not active")
	ErrTrackingActive  = common.NewError(common.PreconditionError, "tracking is active")
	ErrUnknownBoss     = common.NewError(common.ValidationError, "boss not found")
	ErrNoBossToDisplay = common.NewError(common.PreconditionError, "no current or previous boss")
)

// Draw a new pool and post it in the voting channel
func (bot *Bot) OpenVoting(ctx context.Context) error {

	bot.mu.Lock()
	defer bot.mu.Unlock()

	if bot.machine.Session().VotingActive() {
		bot.console("Cannot open voting: %s", ErrVotingActive)
		return ErrVotingActive
	}
	if err := bot.machine.OpenVoting(bot.catalog, bot.rng); err != nil {
		bot.console("Cannot open voting: %s", err)
		return err
	}
	if err := bot.postVote(); err != nil {
		bot.console("Voting opened but the vote could not be posted: %s", err)
		return err
	}
	bot.console("Voting opened for %s", strings.Join(bossNames(bot.machine.Session().BossPool), ", "))
	bot.updateLeaderboard(ctx, true)
	return nil
}

// Start a tally over the current pool and post the vote message
func (bot *Bot) postVote() error {

	pool := bot.machine.Session().BossPool
	tally, err := vote.NewTally(pool, bot.markers)
	if err != nil {
		return err
	}

	bot.tallyMu.Lock()
	bot.tally = tally
	bot.voteMessageId = ""
	bot.tallyMu.Unlock()

	channelId := bot.config.Discord.VotingChannelID
	bot.clearChannel(channelId)
	message, err := VotingOpen(pool, bot.markers).Send(channelId, bot.discord)
	if err != nil {
		return fmt.Errorf("could not send vote message: %w", err)
	}

	bot.tallyMu.Lock()
	bot.voteMessageId = message.ID
	bot.tallyMu.Unlock()

	for _, marker := range bot.markers {
		if err := bot.discord.MessageReactionAdd(channelId, message.ID, marker); err != nil {
			log.Error().Msg(fmt.Sprintf("Could not add reaction %s to the vote: %s", marker, err))
		}
	}
	return nil
}

// Close voting with the most voted boss
func (bot *Bot) CloseVoting(ctx context.Context) error {

	bot.mu.Lock()
	defer bot.mu.Unlock()

	s := bot.machine.Session()
	if !s.VotingActive() {
		bot.console("Cannot close voting: %s", ErrVotingInactive)
		return ErrVotingInactive
	}

	// Without votes the first candidate wins
	bot.tallyMu.Lock()
	winner, ok := boss.Boss{}, false
	if bot.tally != nil {
		winner, ok = bot.tally.Winner()
	}
	bot.tallyMu.Unlock()
	if !ok {
		if len(s.BossPool) == 0 {
			bot.console("Cannot close voting: %s", session.ErrNoWinner)
			return session.ErrNoWinner
		}
		winner = s.BossPool[0]
		log.Info().Msg(fmt.Sprintf("No votes were cast, %s wins", winner.Name))
	}

	bot.clearChannel(bot.config.Discord.VotingChannelID)
	if err := bot.machine.CloseVoting(&winner); err != nil {
		bot.console("Cannot close voting: %s", err)
		return err
	}

	bot.tallyMu.Lock()
	bot.tally = nil
	bot.voteMessageId = ""
	bot.tallyMu.Unlock()

	bot.sendResponses(bot.config.Discord.VotingChannelID, []Response{VotingClosed(winner, bot.config.Paths.Image(winner.Image))})
	bot.console("Voting closed, the winner is %s", winner.Name)
	bot.updateLeaderboard(ctx, true)
	return nil
}

// Start tracking the boss provided, or the current boss if the name is empty
func (bot *Bot) OpenTracking(ctx context.Context, bossName string) error {

	bot.mu.Lock()
	defer bot.mu.Unlock()

	s := bot.machine.Session()
	switch {
	case s.TrackingActive():
		bot.console("Cannot start tracking: %s", ErrTrackingActive)
		return ErrTrackingActive
	case s.VotingActive():
		bot.console("Cannot start tracking: %s", ErrVotingActive)
		return ErrVotingActive
	}

	var selected *boss.Boss
	if bossName != "" {
		found, ok := bot.catalog.Find(bossName)
		if !ok {
			bot.console("Cannot start tracking: %s: %s", ErrUnknownBoss, bossName)
			return fmt.Errorf("%w: %s", ErrUnknownBoss, bossName)
		}
		selected = &found
	} else if s.CurrentBoss == nil {
		bot.console("Cannot start tracking: %s", session.ErrNoBossSelected)
		return session.ErrNoBossSelected
	}

	// Everybody starts from zero
	bot.refreshAll(ctx, true)
	if err := bot.machine.OpenTracking(selected); err != nil {
		bot.console("Cannot start tracking: %s", err)
		return err
	}
	bot.console("Tracking started for %s", session.Describe(bot.machine.Session().CurrentBoss))
	bot.updateLeaderboard(ctx, false)
	bot.startPeriodicUpdates()
	return nil
}

// Stop tracking after a last update of every player
func (bot *Bot) CloseTracking(ctx context.Context) error {

	bot.mu.Lock()
	defer bot.mu.Unlock()

	bot.stopPeriodicUpdates()
	if !bot.machine.Session().TrackingActive() {
		bot.console("Cannot stop tracking: %s", session.ErrNotTracking)
		return session.ErrNotTracking
	}

	bot.refreshAll(ctx, false)
	if err := bot.machine.CloseTracking(); err != nil {
		bot.console("Cannot stop tracking: %s", err)
		return err
	}
	bot.console("Tracking stopped")
	bot.updateLeaderboard(ctx, false)
	return nil
}

// Force the session back to no session
func (bot *Bot) Reset(ctx context.Context) error {

	bot.mu.Lock()
	defer bot.mu.Unlock()

	bot.stopPeriodicUpdates()
	if err := bot.machine.Reset(); err != nil {
		bot.console("Cannot reset the session: %s", err)
		return err
	}

	bot.tallyMu.Lock()
	bot.tally = nil
	bot.voteMessageId = ""
	bot.tallyMu.Unlock()

	bot.console("Session reset")
	bot.updateLeaderboard(ctx, false)
	return nil
}

// Resume the session found on disk after a (re)connection
func (bot *Bot) Ready(ctx context.Context) {

	bot.mu.Lock()
	defer bot.mu.Unlock()

	s := bot.machine.Session()
	log.Info().Msg(fmt.Sprintf("Resuming session in phase %s", s.Phase))

	// A reconnection keeps the votes already cast
	bot.tallyMu.Lock()
	voting := bot.tally != nil
	bot.tallyMu.Unlock()

	switch {
	case s.TrackingActive():
		bot.startPeriodicUpdates()
	case s.VotingActive() && !voting:
		if err := bot.postVote(); err != nil {
			bot.console("Could not post the vote again: %s", err)
		}
	}
	bot.updateLeaderboard(ctx, false)
}

func (bot *Bot) startPeriodicUpdates() {
	bot.stopPeriodicUpdates()
	frequency := bot.config.Api.BulkUpdateFrequency()
	bot.updates = common.NewTimedExecutor(frequency, bot.periodicUpdate)
	bot.updates.Start(bot.base)
	log.Info().Msg(fmt.Sprintf("Updating every player each %s", frequency))
}

func (bot *Bot) stopPeriodicUpdates() {
	if bot.updates == nil {
		return
	}
	bot.updates.Stop()
	bot.updates = nil
}

func (bot *Bot) periodicUpdate(ctx context.Context) {

	bot.mu.Lock()
	defer bot.mu.Unlock()

	// Tracking may have stopped while waiting for the lock
	if ctx.Err() != nil || !bot.machine.Session().TrackingActive() {
		return
	}
	bot.updateLeaderboard(ctx, true)
}

// Refresh every player, resetting the baseline when asked to
func (bot *Bot) refreshAll(ctx context.Context, resetBaseline bool) {

	bot.console("Updating all players...")
	report, err := bot.refresher.RefreshAll(ctx, resetBaseline)
	switch {
	case errors.Is(err, player.ErrNoPlayers):
		bot.console("No players to update")
		return
	case err != nil:
		bot.console("Could not update the players: %s", err)
		return
	}

	message := fmt.Sprintf("Updated %d players", len(report.Refreshed))
	if len(report.Failed) > 0 {
		failed := []string{}
		for name := range report.Failed {
			failed = append(failed, name)
		}
		sort.Strings(failed)
		message += fmt.Sprintf(", could not update %s", strings.Join(failed, ", "))
	}
	bot.console(message)
}

// The boss the leaderboard is about, and how to present it
func leaderboardBoss(s session.Session) (*boss.Boss, string) {
	switch {
	case s.TrackingActive() && s.CurrentBoss != nil:
		return s.CurrentBoss, "Current Boss:"
	case s.LastBoss != nil:
		return s.LastBoss, "Last Boss:"
	case s.CurrentBoss != nil:
		return s.CurrentBoss, "Next Boss:"
	}
	return nil, ""
}

// Render the leaderboard again, updating the players first if asked to
func (bot *Bot) updateLeaderboard(ctx context.Context, refresh bool) {

	channelId := bot.config.Discord.LeaderboardChannelID
	s := bot.machine.Session()
	shown, label := leaderboardBoss(s)
	if shown == nil {
		log.Info().Msg(fmt.Sprintf("Cannot render the leaderboard: %s", ErrNoBossToDisplay))
		bot.clearChannel(channelId)
		bot.sendResponses(channelId, []Response{NoLeaderboard()})
		return
	}

	if refresh {
		bot.refreshAll(ctx, !s.TrackingActive())
	}

	standings := player.Leaderboard(bot.refresher.Roster().Players(), shown.APIKey)
	bot.clearChannel(channelId)
	bot.sendResponses(channelId, []Response{Leaderboard(s.TrackingActive(), label, *shown, standings, bot.config.Paths.Image(shown.Image))})
}
