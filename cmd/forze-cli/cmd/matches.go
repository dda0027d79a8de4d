package cmd

import (
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var fromApi bool

func init() {
	matchesCmd.Flags().BoolVar(&fromApi, "api", false, "Read match history from the FACEIT API instead of HLTV.")
	rootCmd.AddCommand(matchesCmd)
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Prints recent match results.",
	Run: func(cmd *cobra.Command, args []string) {
		fetch := svc.Matches
		if fromApi {
			fetch = svc.FaceitMatches
		}
		resp, err := fetch(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Date", "Event", "Opponent", "Map", "Score", "W/L"})
		for _, m := range resp.Matches {
			t.AppendRow(table.Row{m.Date, m.Event, m.Opponent, m.Map, m.Score, m.Result})
		}
		t.Render()
	},
}
