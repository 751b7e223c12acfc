package cli

import (
	"bossbot/internal/boss"
	"bossbot/internal/session"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newBossesCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "bosses",
		Short: "Validate the boss catalog and list it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			catalog, err := boss.LoadCatalog(cfg.Paths.CatalogFile())
			if err != nil {
				return err
			}
			for _, b := range catalog {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", b.String(), b.APIKey); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newSessionCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Print the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			s, err := session.NewFileStore(cfg.Paths.SessionFile()).Load()
			if err != nil {
				return err
			}

			start := "None"
			if s.PhaseStart != nil {
				start = s.PhaseStart.Format(time.DateTime)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Phase: %s (since %s)\n", s.Phase, start)
			fmt.Fprintf(out, "Current boss: %s\n", session.Describe(s.CurrentBoss))
			fmt.Fprintf(out, "Last boss: %s\n", session.Describe(s.LastBoss))
			for _, b := range s.BossPool {
				fmt.Fprintf(out, "Candidate: %s\n", b.Name)
			}
			_, err = fmt.Fprintf(out, "Used bosses: %d\n", len(s.UsedBosses))
			return err
		},
	}
}
