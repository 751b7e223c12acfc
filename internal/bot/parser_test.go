package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {

	tests := []struct {
		message   string
		parseid   int
		command   int
		arguments string
	}{
		{"hello", PARSEID_NO_BOT_PREFIX, 0, ""},
		{"!", PARSEID_NO_COMMAND, 0, ""},
		{"!   ", PARSEID_NO_COMMAND, 0, ""},
		{"!dance", PARSEID_COMMAND_NOT_RECOGNISED, 0, ""},
		{"!set_name", PARSEID_NO_INPUT, COMMAND_SET_NAME, ""},
		{"!set_name   Lynx   Titan ", PARSEID_OK, COMMAND_SET_NAME, "Lynx Titan"},
		{"!SET_NAME zezima", PARSEID_OK, COMMAND_SET_NAME, "zezima"},
		{"!remove zezima", PARSEID_OK, COMMAND_CLEAR_NAME, "zezima"},
		{"!clear_name zezima", PARSEID_OK, COMMAND_CLEAR_NAME, "zezima"},
		{"!status ignored words", PARSEID_OK, COMMAND_STATUS, ""},
		{"!start_tracking", PARSEID_OK, COMMAND_START_TRACKING, ""},
		{"!start_tracking Vorkath", PARSEID_OK, COMMAND_START_TRACKING, "Vorkath"},
		{"!update", PARSEID_NO_INPUT, COMMAND_UPDATE, ""},
		{"!help", PARSEID_OK, COMMAND_HELP, ""},
	}

	for _, tc := range tests {
		t.Run(tc.message, func(t *testing.T) {
			result := Parse(tc.message, "!")
			assert.Equal(t, tc.parseid, result.parseid)
			assert.Equal(t, tc.command, result.command)
			assert.Equal(t, tc.arguments, result.arguments)
			if tc.parseid == PARSEID_OK || tc.parseid == PARSEID_NO_BOT_PREFIX {
				assert.Empty(t, result.errorMessage)
			} else {
				assert.NotEmpty(t, result.errorMessage)
			}
		})
	}
}

func TestParseLongPrefix(t *testing.T) {
	result := Parse("boss! stats zezima", "boss!")
	assert.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, COMMAND_STATS, result.command)
	assert.Equal(t, "zezima", result.arguments)

	assert.Equal(t, PARSEID_NO_BOT_PREFIX, Parse("!stats zezima", "boss!").parseid)
}

func TestCommandTable(t *testing.T) {
	seen := map[string]bool{}
	for command := COMMAND_SET_NAME; command <= COMMAND_HELP; command++ {
		info := commandInfo(command)
		assert.Equal(t, command, info.command)
		for _, name := range append([]string{info.name}, info.aliases...) {
			assert.False(t, seen[name], "%s is used twice", name)
			seen[name] = true
		}
	}

	// Everybody can link a name and ask for help
	assert.False(t, commandInfo(COMMAND_SET_NAME).admin)
	assert.False(t, commandInfo(COMMAND_HELP).admin)
	assert.True(t, commandInfo(COMMAND_CLEAR_NAME).admin)
	assert.Panics(t, func() { commandInfo(COMMAND_HELP + 1) })
}
