package cli

import (
	"bossbot/internal/boss"
	"bossbot/internal/bot"
	"bossbot/internal/common"
	"bossbot/internal/config"
	"bossbot/internal/player"
	"bossbot/internal/session"
	"bossbot/internal/wiseoldman"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Time to stay away from Wise Old Man after it rate limits us
const RATE_LIMIT_COOLDOWN = time.Minute

type loader func() (config.Config, error)

func newRunCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and run the weekly event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
}

func run(ctx context.Context, cfg config.Config) error {

	log.Info().Msg(fmt.Sprintf("Starting bossbot with data in %s", cfg.Paths.DataDir))

	// Bosses
	catalog, err := boss.LoadCatalog(cfg.Paths.CatalogFile())
	if err != nil {
		return err
	}

	// Session
	machine, err := session.NewMachine(session.NewFileStore(cfg.Paths.SessionFile()))
	if err != nil {
		return err
	}

	// Players and their stats
	roster, err := player.LoadRoster(cfg.Paths.PlayerFile())
	if err != nil {
		return err
	}
	client := wiseoldman.NewClient(cfg.Api.Url, cfg.Api.Contact)
	gate := common.NewRateLimiter(RATE_LIMIT_COOLDOWN, common.Every(cfg.Api.RateLimit()))
	refresher := player.NewRefresher(roster, client, gate)

	// Run bot
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))
	b := bot.CreateBot(cfg, catalog, machine, refresher, rng)
	return b.Run(ctx)
}
