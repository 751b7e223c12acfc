package bot

import (
	"bossbot/internal/boss"
	"bossbot/internal/player"
	"bossbot/internal/session"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// Use "teal" color for the bot
const color int = 0x008080

// Longest message Discord accepts
const MESSAGE_LIMIT = 2000

// Group the lines in messages that fit in Discord.
// A line longer than a message is cut
func SplitMessage(lines []string) []string {

	messages := []string{}
	message := ""
	flush := func() {
		if message != "" {
			messages = append(messages, message)
			message = ""
		}
	}

	for _, line := range lines {
		for len(line)+1 > MESSAGE_LIMIT {
			cut := MESSAGE_LIMIT - 1
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			flush()
			messages = append(messages, line[:cut]+"\n")
			line = line[cut:]
		}
		if len(message)+len(line)+1 > MESSAGE_LIMIT {
			flush()
		}
		message += line + "\n"
	}
	flush()
	return messages
}

func TextMessage(lines []string) []Response {
	responses := []Response{}
	for _, message := range SplitMessage(lines) {
		responses = append(responses, ResponseString{message})
	}
	return responses
}

func InputNotValid(errorMessage string) []Response {

	return []Response{ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}}
}

func HelpMessage(prefix string) []Response {

	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	for _, info := range commandInfos {
		name := prefix + info.name
		if info.usage != "" {
			name += " " + info.usage
		}
		value := info.help
		if len(info.aliases) > 0 {
			value += fmt.Sprintf(" (also `%s%s`)", prefix, strings.Join(info.aliases, "`, `"+prefix))
		}
		if info.admin {
			value += ". Admins only"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("`%s`", name),
			Value:  value,
			Inline: false,
		})
	}
	return []Response{ResponseEmbed{MessageEmbed: embed}}
}

func VotingOpen(pool []boss.Boss, markers []string) Response {

	lines := []string{"Boss Pool:"}
	for i, b := range pool {
		lines = append(lines, fmt.Sprintf("%s : %s", markers[i], b.String()))
	}
	embed := discordgo.MessageEmbed{
		Title:       "Voting is now Open! Vote for the next boss!",
		Description: strings.Join(lines, "\n"),
		Color:       color,
	}
	return ResponseEmbed{MessageEmbed: embed}
}

func VotingClosed(winner boss.Boss, image string) Response {

	embed := discordgo.MessageEmbed{
		Title:       "Voting is now Closed! The winning boss is...",
		Description: winner.String(),
		Color:       color,
	}
	return ResponseEmbed{MessageEmbed: embed, image: image}
}

func NoLeaderboard() Response {
	return ResponseString{"Leaderboard:\nNo current or previous boss data"}
}

func Leaderboard(tracking bool, label string, shown boss.Boss, standings []player.Standing, image string) Response {

	title := "Tracking is Inactive"
	if tracking {
		title = "Tracking is Active"
	}
	title += fmt.Sprintf("\n%s %s", label, shown.String())

	lines := []string{"Leaderboard:"}
	if len(standings) == 0 {
		lines = append(lines, "No data to display")
	}
	for _, standing := range standings {
		lines = append(lines, fmt.Sprintf("     Kills: %02d -- %s | %s", standing.Record.TrackedKills, standing.Player.DiscordName, standing.Player.ExternalName))
	}

	// Embed descriptions are longer than messages, keep the first chunk
	description := SplitMessage(lines)[0]
	embed := discordgo.MessageEmbed{Title: title, Description: description, Color: color}
	return ResponseEmbed{MessageEmbed: embed, image: image}
}

func StatusMessage(s session.Session, counts []int, markers []string) []Response {

	lines := []string{"Session Status:"}
	switch {
	case s.VotingActive():
		lines = append(lines, "Voting Active", "Boss Pool:")
		for i, b := range s.BossPool {
			line := "\t" + b.String()
			if i < len(counts) && i < len(markers) {
				line = fmt.Sprintf("\t%s %s (%d votes)", markers[i], b.String(), counts[i])
			}
			lines = append(lines, line)
		}
	case s.TrackingActive():
		lines = append(lines, "Tracking Active", fmt.Sprintf("Current Boss: %s", session.Describe(s.CurrentBoss)))
	default:
		lines = append(lines,
			fmt.Sprintf("No Session Active (%s)", s.Phase),
			fmt.Sprintf("Current boss: %s", session.Describe(s.CurrentBoss)),
			fmt.Sprintf("Last boss: %s", session.Describe(s.LastBoss)),
		)
	}
	return TextMessage(lines)
}

func SessionDetails(s session.Session) []Response {

	start := "None"
	if s.PhaseStart != nil {
		start = s.PhaseStart.Format(time.DateTime)
	}

	lines := []string{
		"Session Details:",
		fmt.Sprintf("Phase: %s", s.Phase),
		fmt.Sprintf("Tracking Active: %t", s.TrackingActive()),
		fmt.Sprintf("Voting Active: %t", s.VotingActive()),
		fmt.Sprintf("Current Boss: %s", session.Describe(s.CurrentBoss)),
		fmt.Sprintf("Last Boss: %s", session.Describe(s.LastBoss)),
		"Boss Pool:",
	}
	lines = append(lines, indented(bossNames(s.BossPool))...)
	lines = append(lines, fmt.Sprintf("Start Time: %s", start), "Used Bosses:")
	lines = append(lines, indented(bossNames(s.UsedBosses))...)
	return TextMessage(lines)
}

func bossNames(bosses []boss.Boss) []string {
	names := make([]string, len(bosses))
	for i, b := range bosses {
		names[i] = b.Name
	}
	return names
}

func indented(items []string) []string {
	if len(items) == 0 {
		return []string{"\tNone"}
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "\t" + item
	}
	return lines
}

func PlayerStats(p player.Player) []Response {

	lines := []string{fmt.Sprintf("Player: %s | %s", p.ExternalName, p.DiscordName)}
	for _, record := range p.Bosses {
		lines = append(lines, fmt.Sprintf("%s | %d | %d", record.BossName, record.LifetimeKills, record.TrackedKills))
	}
	return TextMessage(lines)
}

func BossList(catalog boss.Catalog) []Response {

	items := make([]string, len(catalog))
	for i, b := range catalog {
		items[i] = b.String()
	}
	return TextMessage(append([]string{"Bosses:"}, indented(items)...))
}

func UserList(players []player.Player) []Response {

	items := make([]string, len(players))
	for i, p := range players {
		items[i] = fmt.Sprintf("%s | %s", p.DiscordName, p.ExternalName)
	}
	return TextMessage(append([]string{"User Associations (Discord | OSRS):"}, indented(items)...))
}
