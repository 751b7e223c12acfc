package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configJson = `{
    "discord": {
        "token": "file-token",
        "voting_channel_id": "1001",
        "leaderboard_channel_id": "1002",
        "set_name_channel_id": "1003",
        "console_channel_id": "1004",
        "admins": ["clanleader", "123456789"]
    },
    "event": {
        "vote_open": {"day": "monday", "time": "09:30"},
        "vote_close": {"day": "Tue", "time": "21:00"}
    },
    "api": {
        "url": "https://api.wiseoldman.net/v2",
        "contact": "clanleader#0001",
        "bulk_update_frequency_minutes": 15,
        "update_ratelimit_seconds": 6
    },
    "paths": {"data_dir": "/var/lib/bossbot"},
    "log_level": "debug"
}`

func clearEnvironment(t *testing.T) {
	for _, key := range []string{"BOSSBOT_CONFIG", "BOSSBOT_TOKEN", "BOSSBOT_DATA_DIR", "BOSSBOT_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, name string, content string) string {
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	return filename
}

func TestLoad(t *testing.T) {
	clearEnvironment(t)
	config, err := Load(writeConfig(t, "config.json", configJson))
	require.NoError(t, err)

	assert.Equal(t, "file-token", config.Discord.Token)
	assert.Equal(t, "1001", config.Discord.VotingChannelID)
	assert.Equal(t, "1004", config.Discord.ConsoleChannelID)
	assert.Equal(t, []string{"clanleader", "123456789"}, config.Discord.Admins)
	assert.Equal(t, "!", config.Discord.Prefix)

	assert.Equal(t, Moment{Day: "monday", Time: "09:30"}, config.Event.VoteOpen)
	assert.Equal(t, Moment{Day: "Tue", Time: "21:00"}, config.Event.VoteClose)
	// Defaults for the moments not in the file
	assert.Equal(t, Moment{Day: "friday", Time: "17:55"}, config.Event.TrackingStop)

	assert.Equal(t, 15*time.Minute, config.Api.BulkUpdateFrequency())
	assert.Equal(t, 6*time.Second, config.Api.RateLimit())
	assert.Equal(t, "clanleader#0001", config.Api.Contact)

	assert.Equal(t, filepath.Join("/var/lib/bossbot", "session_data.json"), config.Paths.SessionFile())
	assert.Equal(t, filepath.Join("/var/lib/bossbot", "player_data.json"), config.Paths.PlayerFile())
	assert.Equal(t, filepath.Join("/var/lib/bossbot", "local_bosses.json"), config.Paths.CatalogFile())
	assert.Equal(t, filepath.Join("assets", "images", "zulrah.png"), config.Paths.Image("zulrah.png"))
	assert.Equal(t, "", config.Paths.Image(""))
	assert.Equal(t, zerolog.DebugLevel, config.Level())
}

func TestLoadToml(t *testing.T) {
	clearEnvironment(t)
	filename := writeConfig(t, "config.toml", `
log_level = "warn"

[discord]
token = "toml-token"
admins = ["clanleader"]

[api]
bulk_update_frequency_minutes = 10
`)
	config, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, "toml-token", config.Discord.Token)
	assert.Equal(t, 10*time.Minute, config.Api.BulkUpdateFrequency())
	assert.Equal(t, zerolog.WarnLevel, config.Level())
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnvironment(t)
	filename := writeConfig(t, "config.json", configJson)
	t.Setenv("BOSSBOT_CONFIG", filename)
	t.Setenv("BOSSBOT_TOKEN", "env-token")
	t.Setenv("BOSSBOT_DATA_DIR", "/tmp/bossbot")
	t.Setenv("BOSSBOT_LOG_LEVEL", "error")

	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-token", config.Discord.Token)
	assert.Equal(t, "/tmp/bossbot", config.Paths.DataDir)
	assert.Equal(t, zerolog.ErrorLevel, config.Level())
	assert.Equal(t, "1001", config.Discord.VotingChannelID)
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnvironment(t)
	missing := filepath.Join(t.TempDir(), "config.json")

	_, err := Load(missing)
	assert.ErrorContains(t, err, "token")

	t.Setenv("BOSSBOT_TOKEN", "env-token")
	config, err := Load(missing)
	require.NoError(t, err)
	assert.Equal(t, "data", config.Paths.DataDir)
	assert.Equal(t, 30*time.Minute, config.Api.BulkUpdateFrequency())
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnvironment(t)
	_, err := Load(writeConfig(t, "config.json", `{"discord": `))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnvironment(t)

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no prefix", mutate: func(c *Config) { c.Discord.Prefix = " " }, wantErr: "prefix"},
		{name: "bad day", mutate: func(c *Config) { c.Event.VoteOpen.Day = "someday" }, wantErr: "vote_open"},
		{name: "bad time", mutate: func(c *Config) { c.Event.TrackingStart.Time = "25:00" }, wantErr: "tracking_start"},
		{name: "bad url", mutate: func(c *Config) { c.Api.Url = "not a url" }, wantErr: "api url"},
		{name: "no frequency", mutate: func(c *Config) { c.Api.BulkUpdateFrequencyMinutes = 0 }, wantErr: "frequency"},
		{name: "negative rate limit", mutate: func(c *Config) { c.Api.UpdateRateLimitSeconds = -1 }, wantErr: "rate limit"},
		{name: "no data dir", mutate: func(c *Config) { c.Paths.DataDir = "" }, wantErr: "data directory"},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config, err := Load(writeConfig(t, "config.json", configJson))
			require.NoError(t, err)
			tc.mutate(&config)
			err = config.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestCronSpec(t *testing.T) {
	tests := []struct {
		moment Moment
		spec   string
		valid  bool
	}{
		{Moment{"monday", "09:30"}, "30 9 * * 1", true},
		{Moment{"Sunday", "00:00"}, "0 0 * * 0", true},
		{Moment{"sat", "23:59"}, "59 23 * * 6", true},
		{Moment{" Friday ", "7:05"}, "5 7 * * 5", true},
		{Moment{"fr", "10:00"}, "", false},
		{Moment{"monday", "10"}, "", false},
		{Moment{"monday", "10:60"}, "", false},
		{Moment{"monday", "aa:00"}, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.moment.String(), func(t *testing.T) {
			spec, err := tc.moment.CronSpec()
			if !tc.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.spec, spec)
		})
	}
}
