package bot

import (
	"bossbot/internal/common"
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Text shown to the user for an error, depending on its kind
func describeError(err error) string {
	kind, ok := common.KindOf(err)
	if !ok {
		return fmt.Sprintf("Something went wrong: %s", err)
	}
	switch kind {
	case common.ValidationError:
		return fmt.Sprintf("Invalid input: %s", err)
	case common.UpstreamError:
		return fmt.Sprintf("Could not get the data from Wise Old Man: %s", err)
	case common.ResourceError:
		return fmt.Sprintf("Could not save the changes: %s", err)
	default:
		return err.Error()
	}
}

func (bot *Bot) setName(ctx context.Context, author *discordgo.User, externalName string) []Response {

	p, err := bot.refresher.Link(ctx, author.ID, author.Username, externalName)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not link %s to %s: %s", author.Username, externalName, err))
		return TextMessage([]string{describeError(err)})
	}
	bot.console("%s is now linked to %s", p.DiscordName, p.ExternalName)
	return TextMessage([]string{fmt.Sprintf("Linked %s to %s", p.DiscordName, p.ExternalName)})
}

func (bot *Bot) clearName(externalName string) []Response {

	removed, err := bot.refresher.Roster().Remove(externalName)
	if err != nil {
		return TextMessage([]string{describeError(err)})
	}
	return TextMessage([]string{fmt.Sprintf("Removed the link of %s to %s", removed.ExternalName, removed.DiscordName)})
}

func (bot *Bot) status() []Response {

	s := bot.machine.Session()

	bot.tallyMu.Lock()
	defer bot.tallyMu.Unlock()
	if bot.tally == nil {
		return StatusMessage(s, nil, nil)
	}
	return StatusMessage(s, bot.tally.Counts(), bot.tally.Markers())
}

func (bot *Bot) noSession(ctx context.Context) []Response {

	if err := bot.Reset(ctx); err != nil {
		return TextMessage([]string{describeError(err)})
	}
	return nil
}

func (bot *Bot) update(ctx context.Context, channelId string, name string) []Response {

	p, ok := bot.refresher.Roster().Find(name)
	if !ok {
		return TextMessage([]string{fmt.Sprintf("Player %s is not registered", name)})
	}

	bot.sendResponses(channelId, TextMessage([]string{fmt.Sprintf("Updating %s...", p.ExternalName)}))
	tracking := bot.machine.Session().TrackingActive()
	p, err := bot.refresher.Refresh(ctx, p.ExternalName, !tracking)
	if err != nil {
		return TextMessage([]string{describeError(err)})
	}
	return PlayerStats(p)
}

func (bot *Bot) stats(name string) []Response {

	p, ok := bot.refresher.Roster().Find(name)
	if !ok {
		return TextMessage([]string{fmt.Sprintf("Player %s is not registered", name)})
	}
	return PlayerStats(p)
}

func (bot *Bot) clearUsedBosses() []Response {

	if err := bot.machine.ClearHistory(); err != nil {
		return TextMessage([]string{describeError(err)})
	}
	return TextMessage([]string{"Every boss can be drawn again"})
}
