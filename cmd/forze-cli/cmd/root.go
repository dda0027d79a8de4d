package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"forzestats-backend/lib/configutil"
	"forzestats-backend/lib/telemetry"
	"forzestats-backend/services/teamstats"
)

var svc *teamstats.Service

var rootCmd = &cobra.Command{
	Use:   "forze-cli",
	Short: "forze-cli inspects FORZE Reload match data from the terminal.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(false)
		cfg, err := configutil.ReadConfig[teamstats.Config]("config.json5")
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		svc = teamstats.NewService(cfg)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
