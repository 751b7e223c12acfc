package bot

import (
	"bossbot/internal/boss"
	"bossbot/internal/common"
	"bossbot/internal/config"
	"bossbot/internal/player"
	"bossbot/internal/session"
	"bossbot/internal/vote"
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Most messages removed when a channel is cleared
const CLEAR_LIMIT = 1000

type Bot struct {
	config    config.Config
	discord   Discord
	selfId    string
	base      context.Context
	catalog   boss.Catalog
	machine   *session.Machine
	refresher *player.Refresher
	rng       *rand.Rand
	markers   []string
	scheduler *cron.Cron

	// Serializes the lifecycle logic
	mu      sync.Mutex
	updates *common.TimedExecutor

	// Votes of the current voting window
	tallyMu       sync.Mutex
	tally         *vote.Tally
	voteMessageId string
}

func CreateBot(config config.Config, catalog boss.Catalog, machine *session.Machine, refresher *player.Refresher, rng *rand.Rand) *Bot {

	var bot Bot

	bot.config = config
	bot.base = context.Background()
	// Core components
	bot.catalog = catalog
	bot.machine = machine
	bot.refresher = refresher
	bot.rng = rng
	bot.markers = vote.DEFAULT_MARKERS

	return &bot
}

// Connect to Discord and serve until the context is done
func (bot *Bot) Run(ctx context.Context) error {

	bot.base = ctx

	// Create session
	discord, err := discordgo.New("Bot " + bot.config.Discord.Token)
	if err != nil {
		return fmt.Errorf("could not create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMessageReactions | discordgo.IntentMessageContent
	bot.discord = discord

	// Event handlers
	discord.AddHandler(bot.onReady)
	discord.AddHandler(bot.onMessage)
	discord.AddHandler(bot.onReactionAdd)
	discord.AddHandler(bot.onReactionRemove)

	// Weekly schedule
	scheduler, err := bot.Schedule()
	if err != nil {
		return err
	}

	// Open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()

	scheduler.Start()
	log.Info().Msg("Bot running, waiting for the context to be done")
	<-ctx.Done()

	log.Info().Msg("Stopping the bot")
	<-scheduler.Stop().Done()
	bot.mu.Lock()
	bot.stopPeriodicUpdates()
	bot.mu.Unlock()
	return nil
}

func (bot *Bot) onReady(discord *discordgo.Session, ready *discordgo.Ready) {
	bot.selfId = ready.User.ID
	log.Info().Msg(fmt.Sprintf("Logged in as %s", ready.User.Username))
	bot.Ready(bot.base)
}

func (bot *Bot) onMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	bot.Receive(message.Message)
}

func (bot *Bot) onReactionAdd(discord *discordgo.Session, reaction *discordgo.MessageReactionAdd) {
	bot.ReactionAdded(reaction.MessageReaction)
}

func (bot *Bot) onReactionRemove(discord *discordgo.Session, reaction *discordgo.MessageReactionRemove) {
	bot.ReactionRemoved(reaction.MessageReaction)
}

func (bot *Bot) Receive(message *discordgo.Message) {

	// Reject my own messages and the ones of other bots
	if message.Author == nil || message.Author.ID == bot.selfId || message.Author.Bot {
		return
	}

	// Parse the input provided and call the appropriate function
	parseResult := Parse(message.Content, bot.config.Discord.Prefix)
	switch parseResult.parseid {
	case PARSEID_NO_BOT_PREFIX:
		return
	case PARSEID_OK:
	default:
		// The command is invalid input, so it contains an error message
		log.Info().Msg(fmt.Sprintf("Wrong input: '%s'. Reason: %s", message.Content, parseResult.errorMessage))
		bot.sendResponses(message.ChannelID, InputNotValid(parseResult.errorMessage))
		return
	}

	// Check who can use the command and where
	info := commandInfo(parseResult.command)
	if info.admin {
		if !bot.isAdmin(message.Author) {
			log.Info().Msg(fmt.Sprintf("Ignoring command %s from %s, not an admin", info.name, message.Author.Username))
			return
		}
		if !sameChannel(bot.config.Discord.ConsoleChannelID, message.ChannelID) {
			return
		}
	}
	if parseResult.command == COMMAND_SET_NAME && !sameChannel(bot.config.Discord.SetNameChannelID, message.ChannelID) {
		return
	}
	log.Info().Msg(fmt.Sprintf("Command understood: %s", message.Content))

	ctx := bot.base
	var responses []Response
	switch parseResult.command {
	case COMMAND_SET_NAME:
		responses = bot.setName(ctx, message.Author, parseResult.arguments)
	case COMMAND_CLEAR_NAME:
		responses = bot.clearName(parseResult.arguments)
	case COMMAND_STATUS:
		responses = bot.status()
	case COMMAND_SESSION_DETAILS:
		responses = SessionDetails(bot.machine.Session())
	case COMMAND_OPEN_VOTING:
		bot.OpenVoting(ctx)
	case COMMAND_CLOSE_VOTING:
		bot.CloseVoting(ctx)
	case COMMAND_START_TRACKING:
		bot.OpenTracking(ctx, parseResult.arguments)
	case COMMAND_STOP_TRACKING:
		bot.CloseTracking(ctx)
	case COMMAND_NO_SESSION:
		responses = bot.noSession(ctx)
	case COMMAND_UPDATE:
		responses = bot.update(ctx, message.ChannelID, parseResult.arguments)
	case COMMAND_STATS:
		responses = bot.stats(parseResult.arguments)
	case COMMAND_LIST_BOSSES:
		responses = BossList(bot.catalog)
	case COMMAND_LIST_USERS:
		responses = UserList(bot.refresher.Roster().Players())
	case COMMAND_CLEAR_USED_BOSSES:
		responses = bot.clearUsedBosses()
	case COMMAND_CLEAR_VOTING:
		bot.clearChannel(bot.config.Discord.VotingChannelID)
	case COMMAND_CLEAR_LEADERBOARD:
		bot.clearChannel(bot.config.Discord.LeaderboardChannelID)
	case COMMAND_CLEAR_CONSOLE:
		bot.clearChannel(message.ChannelID)
	case COMMAND_HELP:
		responses = HelpMessage(bot.config.Discord.Prefix)
	default:
		panic(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
	}
	bot.sendResponses(message.ChannelID, responses)
}

func (bot *Bot) sendResponses(channelId string, responses []Response) *discordgo.Message {
	var last *discordgo.Message
	for _, response := range responses {
		message, err := response.Send(channelId, bot.discord)
		if err != nil {
			log.Error().Msg(fmt.Sprintf("Could not send message to channel %s: %s", channelId, err))
			continue
		}
		last = message
	}
	return last
}

// Log a message and mirror it to the console channel
func (bot *Bot) console(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Info().Msg(message)
	if bot.config.Discord.ConsoleChannelID == "" {
		return
	}
	bot.sendResponses(bot.config.Discord.ConsoleChannelID, TextMessage(strings.Split(message, "\n")))
}

// Delete the messages of a channel, newest first
func (bot *Bot) clearChannel(channelId string) {

	if channelId == "" {
		return
	}

	deleted := 0
	for deleted < CLEAR_LIMIT {
		messages, err := bot.discord.ChannelMessages(channelId, 100, "", "", "")
		if err != nil {
			log.Error().Msg(fmt.Sprintf("Could not read messages of channel %s: %s", channelId, err))
			return
		}
		if len(messages) == 0 {
			break
		}
		for _, message := range messages {
			if err := bot.discord.ChannelMessageDelete(channelId, message.ID); err != nil {
				log.Error().Msg(fmt.Sprintf("Could not delete message %s: %s", message.ID, err))
				return
			}
			deleted++
		}
	}
	log.Debug().Msg(fmt.Sprintf("Deleted %d messages from channel %s", deleted, channelId))
}

func (bot *Bot) isAdmin(user *discordgo.User) bool {
	for _, admin := range bot.config.Discord.Admins {
		if strings.EqualFold(admin, user.Username) || admin == user.ID {
			return true
		}
	}
	return false
}

// A channel that is not configured accepts everything
func sameChannel(desired string, channelId string) bool {
	return desired == "" || desired == "0" || desired == channelId
}
