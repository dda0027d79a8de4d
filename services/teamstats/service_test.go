package teamstats

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"forzestats-backend/lib/scrapers/faceit"
	"forzestats-backend/lib/scrapers/hltv"
	"forzestats-backend/lib/telemetry"
)

const resultsPage = `<html><body><table>
<tbody>
<tr>
  <td>28/09/24</td>
  <td><a href="/events/100/cup">Cup</a></td>
  <td>x</td>
  <td><a href="/stats/teams/200/rival">Rival</a></td>
  <td><a href="/maps/mirage">Mirage</a></td>
  <td>16 - 12</td>
</tr>
<tr>
  <td>27/09/24</td>
  <td><a href="/events/100/cup">Cup</a></td>
  <td>x</td>
  <td><a href="/stats/teams/201/other">Other</a></td>
  <td><a href="/maps/nuke">Nuke</a></td>
  <td>9 - 16</td>
</tr>
</tbody>
</table></body></html>`

type fakeFetcher struct {
	page  string
	err   error
	calls int
}

func (f *fakeFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.page, nil
}

func newScrapeService(fetcher hltv.Fetcher, clock Clock) *Service {
	return NewServiceWithDeps(
		nil,
		fetcher,
		hltv.Config{TeamID: 12857, TeamSlug: "forze-reload"},
		faceit.DefaultPagination(),
		NewCache(clock),
		fixedNormalizer(),
	)
}

func TestServiceMatchesCachesAcrossCalls(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/teamstats")
	defer cleanup()

	fetcher := &fakeFetcher{page: resultsPage}
	clock := &fakeClock{now: time.Date(2024, 9, 30, 12, 0, 0, 0, time.UTC)}
	svc := newScrapeService(fetcher, clock.Now)

	first, err := svc.Matches(context.Background())
	require.NoError(t, err)
	require.False(t, first.Cached)
	require.Len(t, first.Matches, 2)
	require.Equal(t, Win, first.Matches[0].Result)
	require.Equal(t, "Rival", first.Matches[0].Opponent)

	second, err := svc.Matches(context.Background())
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, 1, fetcher.calls, "second call must hit the cache")
}

func TestServiceMatchesServesStaleOnFailure(t *testing.T) {
	fetcher := &fakeFetcher{page: resultsPage}
	clock := &fakeClock{now: time.Date(2024, 9, 30, 12, 0, 0, 0, time.UTC)}
	svc := newScrapeService(fetcher, clock.Now)

	_, err := svc.Matches(context.Background())
	require.NoError(t, err)

	clock.Advance(time.Hour)
	fetcher.err = errors.New("blocked")

	resp, err := svc.Matches(context.Background())
	require.NoError(t, err)
	require.True(t, resp.Cached)
	require.True(t, resp.Fallback)
	require.Len(t, resp.Matches, 2)
}

func TestServiceMatchesErrorsWithNothingCached(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("blocked")}
	clock := &fakeClock{now: time.Date(2024, 9, 30, 12, 0, 0, 0, time.UTC)}
	svc := newScrapeService(fetcher, clock.Now)

	_, err := svc.Matches(context.Background())
	require.Error(t, err)
}

func TestServiceRosterAndUpcomingShareFetcher(t *testing.T) {
	fetcher := &fakeFetcher{page: `<html><body>
<div class="teamProfile"><table><tbody>
<tr><td><a href="/player/1/one">one</a></td><td>STARTER</td><td>x</td><td>1.10</td></tr>
</tbody></table></div>
<div id="upcoming_matches_box"><table><tbody>
<tr><td>2024-10-02 18:00</td><td>Cup</td><td>Rival</td></tr>
</tbody></table></div>
</body></html>`}
	clock := &fakeClock{now: time.Date(2024, 9, 30, 12, 0, 0, 0, time.UTC)}
	svc := newScrapeService(fetcher, clock.Now)

	roster, err := svc.Roster(context.Background())
	require.NoError(t, err)
	require.Len(t, roster.Players, 1)
	require.Equal(t, "one", roster.Players[0].Nickname)

	upcoming, err := svc.Upcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, upcoming.Matches, 1)
	require.Equal(t, "Rival", upcoming.Matches[0].Opponent)
}

func TestServicePlayers(t *testing.T) {
	teamInfoCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/teams/our-team":
			teamInfoCalls++
			fmt.Fprint(w, `{
				"team_id": "our-team", "name": "FORZE Reload",
				"members": [
					{"user_id": "p1", "nickname": "one"},
					{"user_id": "p2", "nickname": "two"}
				],
				"games": {"cs2": {"skill_level": 10}}
			}`)
		case "/players/p1/stats/cs2":
			fmt.Fprint(w, `{
				"lifetime": {
					"Matches": "100", "Wins": "60",
					"Win Rate %": "60", "Average K/D Ratio": "1.1",
					"Skill Level": "9"
				},
				"segments": []
			}`)
		case "/players/p1":
			fmt.Fprint(w, `{
				"nickname": "one", "country": "ru",
				"games": {"cs2": {"faceit_elo": 1900, "skill_level": 9}}
			}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := faceit.NewClient(faceit.Config{
		BaseUrl: srv.URL,
		ApiKey:  "test-key",
		TeamID:  "our-team",
		Game:    "cs2",
	})
	clock := &fakeClock{now: time.Date(2024, 9, 30, 12, 0, 0, 0, time.UTC)}
	svc := NewServiceWithDeps(
		client,
		&fakeFetcher{},
		hltv.Config{},
		faceit.DefaultPagination(),
		NewCache(clock.Now),
		fixedNormalizer(),
	)

	resp, err := svc.Players(context.Background())
	require.NoError(t, err)
	require.False(t, resp.Cached)
	require.Len(t, resp.Players, 1, "player whose stats endpoint fails is dropped")
	require.Equal(t, "one", resp.Players[0].Nickname)
	require.Equal(t, 9, resp.Players[0].SkillLevel)
	require.Equal(t, 1900, resp.Players[0].EloRating)

	cached, err := svc.Players(context.Background())
	require.NoError(t, err)
	require.True(t, cached.Cached)
	require.Equal(t, 1, teamInfoCalls, "second call served from cache")
}

func TestPlaceholderStats(t *testing.T) {
	resp := PlaceholderStats()
	require.True(t, resp.Fallback)
	require.Equal(t, "FORZE Reload", resp.Team.Name)
	require.Equal(t, 156, resp.Stats.TotalMatches)
	require.GreaterOrEqual(t, resp.Rating, 500)
	require.LessOrEqual(t, resp.Rating, 2000)
	require.Len(t, resp.RecentMatches, 4, "fallback payload carries the recent-form sample")
}

func TestFaceitStatsFallsBackToPlaceholder(t *testing.T) {
	// a client without credentials fails every request before any
	// network round trip
	client := faceit.NewClient(faceit.Config{TeamID: "our-team"})
	clock := &fakeClock{now: time.Date(2024, 9, 30, 12, 0, 0, 0, time.UTC)}
	svc := NewServiceWithDeps(
		client,
		&fakeFetcher{},
		hltv.Config{},
		faceit.DefaultPagination(),
		NewCache(clock.Now),
		fixedNormalizer(),
	)

	resp, err := svc.FaceitStats(context.Background())
	require.NoError(t, err, "stats endpoint degrades instead of erroring")
	require.True(t, resp.Fallback)
	require.Equal(t, "FORZE Reload", resp.Team.Name)
	require.Len(t, resp.RecentMatches, 4)
	for _, m := range resp.RecentMatches {
		require.Equal(t, m.Result, ResultFor(m.OurScore, m.OpponentScore))
	}
}

func TestPlaceholderMatches(t *testing.T) {
	matches := PlaceholderMatches()
	require.Len(t, matches, 4)
	for _, m := range matches {
		require.NotEmpty(t, m.ID)
		require.Equal(t, m.Result, ResultFor(m.OurScore, m.OpponentScore))
	}
}
