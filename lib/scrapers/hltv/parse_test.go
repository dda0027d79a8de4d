package hltv

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const matchesPage = `<html><body>
<table>
<tbody>
<tr>
	<td>28/09/24</td>
	<td><a href="/events/7551/cct-season-2">CCT Season 2</a></td>
	<td>Group A</td>
	<td><a href="/stats/teams/4411/rival">Rival Esports</a></td>
	<td><a href="/stats/maps/32/mirage">Mirage</a></td>
	<td>16 - 12</td>
</tr>
<tr>
	<td>27/09/24</td>
	<td>Qualifier</td>
	<td>Playoffs</td>
	<td>NoLink Team</td>
	<td>de_train</td>
	<td>9 - 16</td>
</tr>
<tr>
	<td>spacer</td>
</tr>
<tr>
	<td>not-a-date</td>
	<td>Event</td>
	<td>x</td>
	<td>Opp</td>
	<td>Nuke</td>
	<td>16 - 3</td>
</tr>
<tr>
	<td>26/09/24</td>
	<td>Event</td>
	<td>x</td>
	<td>Opp</td>
	<td>Nuke</td>
	<td>forfeit</td>
</tr>
</tbody>
</table>
</body></html>`

func TestParseMatches(t *testing.T) {
	rows, err := ParseMatches(matchesPage)
	require.NoError(t, err)

	expected := []MatchRow{
		{
			Date:          "28/09/24",
			DateISO:       "2024-09-28",
			Event:         "CCT Season 2",
			Opponent:      "Rival Esports",
			Map:           "Mirage",
			OurScore:      16,
			OpponentScore: 12,
			Won:           true,
		},
		{
			Date:          "27/09/24",
			DateISO:       "2024-09-27",
			Event:         "Qualifier",
			Opponent:      "NoLink Team",
			Map:           "de_train",
			OurScore:      9,
			OpponentScore: 16,
			Won:           false,
		},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestParseMatchesNoTable(t *testing.T) {
	rows, err := ParseMatches("<html><body>no table here</body></html>")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestParseMatchesIsRestartable(t *testing.T) {
	first, err := ParseMatches(matchesPage)
	require.NoError(t, err)
	second, err := ParseMatches(matchesPage)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestToISOFromDDMMYY(t *testing.T) {
	cases := []struct {
		in     string
		expect string
	}{
		{"28/09/24", "2024-09-28"},
		{"01/01/20", "2020-01-01"},
		{"2024-09-28", ""},
		{"28/9/24", ""},
		{"", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.expect, toISOFromDDMMYY(c.in), "input %q", c.in)
	}
}

const teamPage = `<html><body>
<div class="teamProfile">
<table>
<tbody>
<tr>
	<td><a href="/player/101/alpha">alpha</a></td>
	<td><span class="player-status starter">STARTER</span></td>
	<td>RU</td>
	<td>1.13</td>
</tr>
<tr>
	<td>bravo</td>
	<td>BENCHED</td>
	<td>RU</td>
	<td>0.97</td>
</tr>
<tr>
	<td>-</td>
	<td></td>
	<td></td>
	<td></td>
</tr>
</tbody>
</table>
</div>
<div id="upcoming_matches_box">
<table>
<tbody>
<tr>
	<td>2024-10-02 18:00</td>
	<td><a href="/events/8000/x">ESEA</a></td>
	<td><a href="/team/900/challenger">Challenger</a></td>
</tr>
<tr>
	<td>-</td>
	<td>TBD</td>
	<td>TBD</td>
</tr>
</tbody>
</table>
</div>
</body></html>`

func TestParseRoster(t *testing.T) {
	players, err := ParseRoster(teamPage)
	require.NoError(t, err)

	expected := []Player{
		{ID: "player_0", Nickname: "alpha", Status: "STARTER", Rating30: "1.13"},
		{ID: "player_1", Nickname: "bravo", Status: "BENCHED", Rating30: "0.97"},
	}
	require.Equal(t, expected, players)
}

func TestParseUpcoming(t *testing.T) {
	upcoming, err := ParseUpcoming(teamPage)
	require.NoError(t, err)

	expected := []UpcomingMatch{
		{ID: "upcoming_0", Date: "2024-10-02 18:00", Event: "ESEA", Opponent: "Challenger"},
	}
	require.Equal(t, expected, upcoming)
}
