package bot

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	COMMAND_SET_NAME = iota
	COMMAND_CLEAR_NAME
	COMMAND_STATUS
	COMMAND_SESSION_DETAILS
	COMMAND_OPEN_VOTING
	COMMAND_CLOSE_VOTING
	COMMAND_START_TRACKING
	COMMAND_STOP_TRACKING
	COMMAND_NO_SESSION
	COMMAND_UPDATE
	COMMAND_STATS
	COMMAND_LIST_BOSSES
	COMMAND_LIST_USERS
	COMMAND_CLEAR_USED_BOSSES
	COMMAND_CLEAR_VOTING
	COMMAND_CLEAR_LEADERBOARD
	COMMAND_CLEAR_CONSOLE
	COMMAND_HELP
)

const (
	PARSEID_OK = iota
	PARSEID_NO_BOT_PREFIX
	PARSEID_NO_COMMAND
	PARSEID_COMMAND_NOT_RECOGNISED
	PARSEID_NO_INPUT
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_NO_INPUT:               "Command `%s` requires an argument",
}

const (
	ARGUMENT_NONE = iota
	ARGUMENT_REQUIRED
	ARGUMENT_OPTIONAL
)

type CommandInfo struct {
	name     string
	aliases  []string
	command  int
	argument int
	admin    bool
	usage    string
	help     string
}

// Commands in the order they appear in the help message
var commandInfos = []CommandInfo{
	{name: "set_name", command: COMMAND_SET_NAME, argument: ARGUMENT_REQUIRED, usage: "<osrs name>", help: "Link your Discord account to your OSRS name"},
	{name: "clear_name", aliases: []string{"remove"}, command: COMMAND_CLEAR_NAME, argument: ARGUMENT_REQUIRED, admin: true, usage: "<osrs name>", help: "Remove the link of an OSRS name"},
	{name: "status", command: COMMAND_STATUS, admin: true, help: "View the status of the session"},
	{name: "session_details", command: COMMAND_SESSION_DETAILS, admin: true, help: "View every detail of the session"},
	{name: "open_voting", command: COMMAND_OPEN_VOTING, admin: true, help: "Force-open voting"},
	{name: "close_voting", command: COMMAND_CLOSE_VOTING, admin: true, help: "Force-close voting"},
	{name: "start_tracking", command: COMMAND_START_TRACKING, argument: ARGUMENT_OPTIONAL, admin: true, usage: "[boss name]", help: "Force-start tracking the current boss, or the one provided"},
	{name: "stop_tracking", command: COMMAND_STOP_TRACKING, admin: true, help: "Force-stop tracking"},
	{name: "no_session", command: COMMAND_NO_SESSION, admin: true, help: "Force the session to 'no session'"},
	{name: "update", command: COMMAND_UPDATE, argument: ARGUMENT_REQUIRED, admin: true, usage: "<osrs or discord name>", help: "Update the kills of a player"},
	{name: "stats", command: COMMAND_STATS, argument: ARGUMENT_REQUIRED, admin: true, usage: "<osrs or discord name>", help: "View the kills of a player"},
	{name: "list_bosses", command: COMMAND_LIST_BOSSES, admin: true, help: "List every boss"},
	{name: "list_users", command: COMMAND_LIST_USERS, admin: true, help: "List every player link"},
	{name: "clear_used_bosses", command: COMMAND_CLEAR_USED_BOSSES, admin: true, help: "Allow the bosses used recently to be drawn again"},
	{name: "clear_voting", command: COMMAND_CLEAR_VOTING, admin: true, help: "Clear the voting channel"},
	{name: "clear_leaderboard", command: COMMAND_CLEAR_LEADERBOARD, admin: true, help: "Clear the leaderboard channel"},
	{name: "clear_console", command: COMMAND_CLEAR_CONSOLE, admin: true, help: "Clear the console channel"},
	{name: "help", command: COMMAND_HELP, help: "Print the usage of the different commands"},
}

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
	arguments    string
}

func findCommand(name string) (CommandInfo, bool) {
	for _, info := range commandInfos {
		if info.name == name {
			return info, true
		}
		for _, alias := range info.aliases {
			if alias == name {
				return info, true
			}
		}
	}
	return CommandInfo{}, false
}

func commandInfo(command int) CommandInfo {
	for _, info := range commandInfos {
		if info.command == command {
			return info
		}
	}
	panic(fmt.Sprintf("Command %d is not one of the possible ones", command))
}

func Parse(message string, prefix string) ParseResult {

	// The message has to start with the bot prefix
	if !strings.HasPrefix(message, prefix) {
		log.Debug().Msg("Reject message not intended for the bot")
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}

	// Get the command if valid
	words := strings.Fields(message[len(prefix):])
	if len(words) == 0 {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	commandString := strings.ToLower(words[0])
	arguments := strings.Join(words[1:], " ")

	// Match the command
	info, ok := findCommand(commandString)
	if !ok {
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}

	switch info.argument {
	case ARGUMENT_NONE:
		return ParseResult{command: info.command, parseid: PARSEID_OK}
	case ARGUMENT_REQUIRED:
		if arguments == "" {
			parseid := PARSEID_NO_INPUT
			return ParseResult{command: info.command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
		}
	}
	return ParseResult{command: info.command, parseid: PARSEID_OK, arguments: arguments}
}
