package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(overviewCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints lifetime team statistics from the FACEIT API.",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := svc.FaceitStats(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Stat", "Value"})
		t.AppendRows([]table.Row{
			{"Team", resp.Team.Name},
			{"Level", resp.Team.Level},
			{"Total Matches", resp.Stats.TotalMatches},
			{"Wins", resp.Stats.Wins},
			{"Losses", resp.Stats.Losses},
			{"Win Rate", fmt.Sprintf("%.1f%%", resp.Stats.WinRate)},
			{"Avg K/D", fmt.Sprintf("%.2f", resp.Stats.AverageKDRatio)},
			{"Current Streak", resp.Stats.CurrentStreak},
			{"Est. Rating", resp.Rating},
		})
		t.Render()

		if resp.Fallback {
			fmt.Println("warning: upstream unavailable, showing fallback data")
		}
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Prints aggregated form across both data sources.",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := svc.Overview(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}
		agg := resp.Aggregate

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Stat", "Value"})
		t.AppendRows([]table.Row{
			{"Matches", agg.TotalMatches},
			{"Wins", agg.Wins},
			{"Losses", agg.Losses},
			{"Win Rate", fmt.Sprintf("%.1f%%", agg.WinRate)},
			{"Current Streak", agg.CurrentStreak},
			{"Max Win Streak", agg.MaxWinStreak},
			{"Max Loss Streak", agg.MaxLossStreak},
		})
		t.Render()
	},
}
