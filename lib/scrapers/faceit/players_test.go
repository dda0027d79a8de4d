package faceit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func testClient(t *testing.T, handler http.Handler) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseUrl: srv.URL,
		ApiKey:  "test-key",
		TeamID:  ourTeam,
		Game:    "cs2",
	})
}

func TestPlayerInfo(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/players/p1", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		writeJSON(w, `{
			"nickname": "zorte",
			"country": "ru",
			"games": {"cs2": {"faceit_elo": 2100, "skill_level": 10}}
		}`)
	}))

	info, err := client.PlayerInfo(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, "zorte", info.Nickname)
	require.Equal(t, 2100, info.FaceitElo)
	require.Equal(t, 10, info.SkillLevel)
}

func TestPlayerInfoDefaultsElo(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"nickname": "fresh", "country": "ru", "games": {}}`)
	}))

	info, err := client.PlayerInfo(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, 1000, info.FaceitElo, "no tracked game falls back to the base elo")
	require.Equal(t, 0, info.SkillLevel)
}

func playerStatsHandler(t *testing.T, statsBody string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/players/p1/stats/cs2":
			writeJSON(w, statsBody)
		case "/players/p1":
			writeJSON(w, `{
				"nickname": "zorte",
				"country": "ru",
				"games": {"cs2": {"faceit_elo": 1800, "skill_level": 9}}
			}`)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
}

func TestPlayerStatsSkillLevelFromSegments(t *testing.T) {
	client := testClient(t, playerStatsHandler(t, `{
		"lifetime": {
			"Matches": "120", "Wins": "70",
			"Win Rate %": "58.3", "Average K/D Ratio": "1.12",
			"Skill Level": "7"
		},
		"segments": [
			{"type": "Map", "stats": {"Skill Level": "8"}},
			{"type": "Map", "stats": {"Skill Level": "10"}},
			{"type": "Weapon", "stats": {"Skill Level": "99"}}
		]
	}`))

	stats, err := client.PlayerStats(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, 10, stats.SkillLevel, "highest map segment wins over lifetime")
	require.Equal(t, "zorte", stats.Nickname)
	require.Equal(t, 1800, stats.EloRating)
	require.Equal(t, 120, stats.TotalMatches)
	require.Equal(t, 50, stats.Losses)
	require.Equal(t, 58.3, stats.WinRate)
}

func TestPlayerStatsSkillLevelFromLifetime(t *testing.T) {
	client := testClient(t, playerStatsHandler(t, `{
		"lifetime": {
			"Matches": "120", "Wins": "70",
			"Win Rate %": "58.3", "Average K/D Ratio": "1.12",
			"Skill Level": "7"
		},
		"segments": []
	}`))

	stats, err := client.PlayerStats(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, 7, stats.SkillLevel)
}

func TestPlayerStatsSkillLevelHeuristic(t *testing.T) {
	client := testClient(t, playerStatsHandler(t, `{
		"lifetime": {
			"Matches": "120", "Wins": "70",
			"Win Rate %": "58.3", "Average K/D Ratio": "1.12"
		},
		"segments": []
	}`))

	stats, err := client.PlayerStats(context.Background(), "p1")
	require.NoError(t, err)
	// int(58.3/10 + 1.12*2) = 8, clamped to [1, 10]
	require.Equal(t, 8, stats.SkillLevel)
}

func TestSearchTeam(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/teams", r.URL.Path)
		require.Equal(t, "FORZE", r.URL.Query().Get("nickname"))
		require.Equal(t, "cs2", r.URL.Query().Get("game"))
		writeJSON(w, `{"items": [
			{"team_id": "t1", "name": "FORZE Reload"},
			{"team_id": "t2", "name": "FORZE Academy"}
		]}`)
	}))

	results, err := client.SearchTeam(context.Background(), "FORZE")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "t1", results[0].TeamID)
	require.Equal(t, "FORZE Reload", results[0].Name)
}
