package cmd

import (
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(upcomingCmd)
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Prints the current team lineup.",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := svc.Roster(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Nickname", "Status", "Rating 3.0"})
		for _, p := range resp.Players {
			t.AppendRow(table.Row{p.Nickname, p.Status, p.Rating30})
		}
		t.Render()
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Prints scheduled matches.",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := svc.Upcoming(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Date", "Event", "Opponent"})
		for _, m := range resp.Matches {
			t.AppendRow(table.Row{m.Date, m.Event, m.Opponent})
		}
		t.Render()
	},
}
