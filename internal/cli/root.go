package cli

import (
	"bossbot/internal/config"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "bossbot",
		Short:         "Discord bot running the boss of the week of an OSRS clan",
		Long:          "bossbot runs a weekly vote among four bosses in a Discord server, then tracks the kills of every clan member on the winner through Wise Old Man.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default $BOSSBOT_CONFIG or config.json)")

	load := func() (config.Config, error) {
		cfg, err := config.Load(configFile)
		if err != nil {
			return config.Config{}, err
		}
		setupLogger(cfg.Level())
		return cfg, nil
	}

	rootCmd.AddCommand(
		newRunCmd(load),
		newBossesCmd(load),
		newSessionCmd(load),
	)

	return rootCmd
}

func setupLogger(level zerolog.Level) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
	zerolog.SetGlobalLevel(level)
}
