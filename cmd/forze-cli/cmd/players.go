package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(searchCmd)
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Prints lifetime FACEIT statistics for every roster member.",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := svc.Players(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Nickname", "Level", "Elo", "Matches", "Win Rate", "K/D"})
		for _, p := range resp.Players {
			t.AppendRow(table.Row{
				p.Nickname,
				p.SkillLevel,
				p.EloRating,
				p.TotalMatches,
				fmt.Sprintf("%.1f%%", p.WinRate),
				fmt.Sprintf("%.2f", p.AverageKDRatio),
			})
		}
		t.Render()
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Searches FACEIT teams by name, useful for finding the team id to configure.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		results, err := svc.SearchTeams(cmd.Context(), args[0])
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Team ID", "Name"})
		for _, r := range results {
			t.AppendRow(table.Row{r.TeamID, r.Name})
		}
		t.Render()
	},
}
