package player

import (
	"bossbot/internal/common"
	"bossbot/internal/wiseoldman"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

var ErrMismatch = common.NewError(common.UpstreamError, "stats returned for another player")

// Source of kill count snapshots
type Provider interface {
	FetchPlayer(ctx context.Context, username string) (wiseoldman.Snapshot, error)
}

// Fetches snapshots for the players of the roster and merges them in.
// Every fetch goes through the same gate
type Refresher struct {
	roster   *Roster
	provider Provider
	gate     *common.RateLimiter
}

type RefreshReport struct {
	Refreshed []string
	Failed    map[string]error
}

func NewRefresher(roster *Roster, provider Provider, gate *common.RateLimiter) *Refresher {
	return &Refresher{roster: roster, provider: provider, gate: gate}
}

func (refresher *Refresher) Roster() *Roster {
	return refresher.roster
}

func (refresher *Refresher) fetch(ctx context.Context, externalName string) (wiseoldman.Snapshot, error) {

	var snapshot wiseoldman.Snapshot
	err := refresher.gate.Do(ctx, func() error {
		var err error
		snapshot, err = refresher.provider.FetchPlayer(ctx, externalName)
		return err
	})
	if err != nil {
		return wiseoldman.Snapshot{}, err
	}

	// The provider may answer with stale data of another player
	if NormalizeName(snapshot.Username) != NormalizeName(externalName) {
		log.Warn().Msg(fmt.Sprintf("Asked for %s and got %s", externalName, snapshot.Username))
		return wiseoldman.Snapshot{}, fmt.Errorf("%s instead of %s: %w", snapshot.Username, externalName, ErrMismatch)
	}
	return snapshot, nil
}

// Fetch the latest kills of a registered player and merge them in.
// If the fetch or the save fails the player keeps its records
func (refresher *Refresher) Refresh(ctx context.Context, externalName string, resetBaseline bool) (Player, error) {

	externalName = NormalizeName(externalName)
	if _, ok := refresher.roster.ByExternalName(externalName); !ok {
		return Player{}, fmt.Errorf("%s: %w", externalName, ErrPlayerNotFound)
	}

	snapshot, err := refresher.fetch(ctx, externalName)
	if err != nil {
		return Player{}, err
	}

	p, err := refresher.roster.update(externalName, func(p *Player) {
		p.Merge(snapshot, resetBaseline)
	})
	if err != nil {
		return Player{}, err
	}
	log.Info().Msg(fmt.Sprintf("Refreshed %d bosses of player %s (baseline reset: %t)", len(snapshot.Bosses), externalName, resetBaseline))
	return p, nil
}

// Refresh every player concurrently. One failed player does not
// stop the others, the call fails only if no player was refreshed
func (refresher *Refresher) RefreshAll(ctx context.Context, resetBaseline bool) (RefreshReport, error) {

	players := refresher.roster.Players()
	if len(players) == 0 {
		return RefreshReport{}, ErrNoPlayers
	}

	type RefreshResult struct {
		Name  string
		Error error
	}
	results := make(chan RefreshResult, len(players))
	var wg sync.WaitGroup
	for _, p := range players {
		wg.Add(1)
		go func(ch chan<- RefreshResult) {
			defer wg.Done()
			_, err := refresher.Refresh(ctx, p.ExternalName, resetBaseline)
			ch <- RefreshResult{Name: p.ExternalName, Error: err}
		}(results)
	}
	wg.Wait()
	close(results)

	// Gather the results
	report := RefreshReport{Failed: map[string]error{}}
	errs := []error{}
	for result := range results {
		if result.Error != nil {
			log.Warn().Msg(fmt.Sprintf("Could not refresh player %s: %s", result.Name, result.Error))
			report.Failed[result.Name] = result.Error
			errs = append(errs, result.Error)
			continue
		}
		report.Refreshed = append(report.Refreshed, result.Name)
	}
	sort.Strings(report.Refreshed)
	log.Info().Msg(fmt.Sprintf("Refreshed %d of %d players", len(report.Refreshed), len(players)))

	if len(report.Refreshed) == 0 {
		return report, common.Wrap(common.UpstreamError, "no player could be refreshed", errors.Join(errs...))
	}
	return report, nil
}

// Link a Discord user to a player of the stats provider. The player
// must exist upstream, and its current kills become the baseline
func (refresher *Refresher) Link(ctx context.Context, discordID string, discordName string, externalName string) (Player, error) {

	externalName = NormalizeName(externalName)
	if externalName == "" {
		return Player{}, ErrInvalidName
	}

	// Check both identities are free before asking upstream
	if linked, ok := refresher.roster.ByDiscordID(discordID); ok {
		return Player{}, fmt.Errorf("%s is linked to %s: %w", discordName, linked.ExternalName, ErrDiscordLinked)
	}
	if linked, ok := refresher.roster.ByExternalName(externalName); ok {
		return Player{}, fmt.Errorf("%s is linked to %s: %w", externalName, linked.DiscordName, ErrNameLinked)
	}

	snapshot, err := refresher.fetch(ctx, externalName)
	if err != nil {
		return Player{}, err
	}

	p := Player{DiscordID: discordID, DiscordName: discordName, ExternalName: externalName}
	p.Merge(snapshot, true)
	if err := refresher.roster.Add(p); err != nil {
		return Player{}, err
	}
	return p, nil
}
