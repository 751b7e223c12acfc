package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	DEFAULT_CONFIG_FILE = "config.json"
	SESSION_FILE        = "session_data.json"
	PLAYER_FILE         = "player_data.json"
	CATALOG_FILE        = "local_bosses.json"
)

// Channel ids are Discord snowflakes, kept as strings.
// An empty channel id accepts commands from any channel
type Discord struct {
	Token                string   `mapstructure:"token"`
	VotingChannelID      string   `mapstructure:"voting_channel_id"`
	LeaderboardChannelID string   `mapstructure:"leaderboard_channel_id"`
	SetNameChannelID     string   `mapstructure:"set_name_channel_id"`
	ConsoleChannelID     string   `mapstructure:"console_channel_id"`
	Admins               []string `mapstructure:"admins"`
	Prefix               string   `mapstructure:"prefix"`
}

type Event struct {
	VoteOpen      Moment `mapstructure:"vote_open"`
	VoteClose     Moment `mapstructure:"vote_close"`
	TrackingStart Moment `mapstructure:"tracking_start"`
	TrackingStop  Moment `mapstructure:"tracking_stop"`
}

type Api struct {
	Url                        string `mapstructure:"url"`
	Contact                    string `mapstructure:"contact"`
	BulkUpdateFrequencyMinutes int    `mapstructure:"bulk_update_frequency_minutes"`
	UpdateRateLimitSeconds     int    `mapstructure:"update_ratelimit_seconds"`
}

type Paths struct {
	DataDir  string `mapstructure:"data_dir"`
	ImageDir string `mapstructure:"image_dir"`
}

type Config struct {
	Discord  Discord `mapstructure:"discord"`
	Event    Event   `mapstructure:"event"`
	Api      Api     `mapstructure:"api"`
	Paths    Paths   `mapstructure:"paths"`
	LogLevel string  `mapstructure:"log_level"`
}

// Overrides read from the process environment
type Environment struct {
	ConfigFile string `env:"BOSSBOT_CONFIG" envDefault:"config.json"`
	Token      string `env:"BOSSBOT_TOKEN"`
	DataDir    string `env:"BOSSBOT_DATA_DIR"`
	LogLevel   string `env:"BOSSBOT_LOG_LEVEL"`
}

func LoadEnvironment() (Environment, error) {
	var environment Environment
	if err := env.Parse(&environment); err != nil {
		return Environment{}, fmt.Errorf("parse env: %w", err)
	}
	return environment, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("discord.prefix", "!")
	v.SetDefault("event.vote_open.day", "friday")
	v.SetDefault("event.vote_open.time", "18:00")
	v.SetDefault("event.vote_close.day", "saturday")
	v.SetDefault("event.vote_close.time", "18:00")
	v.SetDefault("event.tracking_start.day", "saturday")
	v.SetDefault("event.tracking_start.time", "18:05")
	v.SetDefault("event.tracking_stop.day", "friday")
	v.SetDefault("event.tracking_stop.time", "17:55")
	v.SetDefault("api.url", "https://api.wiseoldman.net/v2")
	v.SetDefault("api.bulk_update_frequency_minutes", 30)
	v.SetDefault("api.update_ratelimit_seconds", 5)
	v.SetDefault("paths.data_dir", "data")
	v.SetDefault("paths.image_dir", filepath.Join("assets", "images"))
	v.SetDefault("log_level", "info")
}

// Load the config file (JSON, TOML or YAML, by extension), apply the
// environment overrides and validate the result.
// If filename is empty the file named by BOSSBOT_CONFIG is used
func Load(filename string) (Config, error) {

	environment, err := LoadEnvironment()
	if err != nil {
		return Config{}, err
	}
	if filename == "" {
		filename = environment.ConfigFile
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(filename)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config file %s: %w", filename, err)
		}
		log.Warn().Msg(fmt.Sprintf("Config file %s not found, using defaults and environment", filename))
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("decode config file %s: %w", filename, err)
	}
	config.override(environment)

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (config *Config) override(environment Environment) {
	if environment.Token != "" {
		config.Discord.Token = environment.Token
	}
	if environment.DataDir != "" {
		config.Paths.DataDir = environment.DataDir
	}
	if environment.LogLevel != "" {
		config.LogLevel = environment.LogLevel
	}
}

func (config *Config) Validate() error {

	if strings.TrimSpace(config.Discord.Token) == "" {
		return errors.New("discord token is not set")
	}
	if strings.TrimSpace(config.Discord.Prefix) == "" {
		return errors.New("command prefix is empty")
	}

	moments := map[string]Moment{
		"vote_open":      config.Event.VoteOpen,
		"vote_close":     config.Event.VoteClose,
		"tracking_start": config.Event.TrackingStart,
		"tracking_stop":  config.Event.TrackingStop,
	}
	for name, moment := range moments {
		if _, err := moment.CronSpec(); err != nil {
			return fmt.Errorf("event %s: %w", name, err)
		}
	}

	if parsed, err := url.Parse(config.Api.Url); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api url %q is not valid", config.Api.Url)
	}
	if config.Api.BulkUpdateFrequencyMinutes <= 0 {
		return fmt.Errorf("bulk update frequency must be positive, got %d", config.Api.BulkUpdateFrequencyMinutes)
	}
	if config.Api.UpdateRateLimitSeconds < 0 {
		return fmt.Errorf("update rate limit cannot be negative, got %d", config.Api.UpdateRateLimitSeconds)
	}

	if config.Paths.DataDir == "" {
		return errors.New("data directory is not set")
	}
	if _, err := zerolog.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

func (config *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func (api Api) BulkUpdateFrequency() time.Duration {
	return time.Duration(api.BulkUpdateFrequencyMinutes) * time.Minute
}

func (api Api) RateLimit() time.Duration {
	return time.Duration(api.UpdateRateLimitSeconds) * time.Second
}

func (paths Paths) SessionFile() string {
	return filepath.Join(paths.DataDir, SESSION_FILE)
}

func (paths Paths) PlayerFile() string {
	return filepath.Join(paths.DataDir, PLAYER_FILE)
}

func (paths Paths) CatalogFile() string {
	return filepath.Join(paths.DataDir, CATALOG_FILE)
}

// Path of a boss image, empty if the boss has none
func (paths Paths) Image(name string) string {
	if name == "" {
		return ""
	}
	return filepath.Join(paths.ImageDir, name)
}
