package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Whether a reaction is on the vote of the current voting window.
// Must be called with the tally lock held
func (bot *Bot) onVote(reaction *discordgo.MessageReaction) bool {
	if reaction.UserID == bot.selfId || bot.tally == nil {
		return false
	}
	if reaction.ChannelID != bot.config.Discord.VotingChannelID && bot.config.Discord.VotingChannelID != "" {
		return false
	}
	if bot.voteMessageId != "" && reaction.MessageID != bot.voteMessageId {
		return false
	}
	return bot.machine.Session().VotingActive()
}

func (bot *Bot) ReactionAdded(reaction *discordgo.MessageReaction) {

	bot.tallyMu.Lock()
	defer bot.tallyMu.Unlock()

	if !bot.onVote(reaction) {
		return
	}
	marker := reaction.Emoji.Name

	// Only the markers of the candidates count
	if _, ok := indexOf(bot.tally.Markers(), marker); !ok {
		log.Info().Msg(fmt.Sprintf("Removing reaction %s of user %s, not a candidate", marker, reaction.UserID))
		bot.removeReaction(reaction, marker)
		return
	}

	// Only linked players vote
	p, ok := bot.refresher.Roster().ByDiscordID(reaction.UserID)
	if !ok {
		bot.removeReaction(reaction, marker)
		bot.console("Removed the vote of user %s, not linked to any player", reaction.UserID)
		return
	}

	// One vote per player, the last one counts
	if previous, ok := bot.tally.PreviousChoice(reaction.UserID); ok && previous != marker {
		bot.removeReaction(reaction, previous)
	}
	if bot.tally.Cast(reaction.UserID, marker) {
		log.Info().Msg(fmt.Sprintf("%s voted %s", p.ExternalName, marker))
	}
}

func (bot *Bot) ReactionRemoved(reaction *discordgo.MessageReaction) {

	bot.tallyMu.Lock()
	defer bot.tallyMu.Unlock()

	if !bot.onVote(reaction) {
		return
	}
	if !bot.tally.Withdraw(reaction.UserID, reaction.Emoji.Name) {
		log.Debug().Msg(fmt.Sprintf("Reaction %s of user %s removed, no ballot withdrawn", reaction.Emoji.Name, reaction.UserID))
		return
	}
	log.Info().Msg(fmt.Sprintf("User %s withdrew vote %s", reaction.UserID, reaction.Emoji.Name))
}

func (bot *Bot) removeReaction(reaction *discordgo.MessageReaction, marker string) {
	if err := bot.discord.MessageReactionRemove(reaction.ChannelID, reaction.MessageID, marker, reaction.UserID); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not remove reaction %s of user %s: %s", marker, reaction.UserID, err))
	}
}

func indexOf(items []string, item string) (int, bool) {
	for i, other := range items {
		if other == item {
			return i, true
		}
	}
	return -1, false
}
