package teamstats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"forzestats-backend/lib/scrapers/faceit"
	"forzestats-backend/lib/scrapers/hltv"
)

var tracer = otel.Tracer("services/teamstats")

type Config struct {
	Port       int                     `json:"port"`
	Faceit     faceit.Config           `json:"faceit"`
	Hltv       hltv.Config             `json:"hltv"`
	Pagination faceit.PaginationConfig `json:"pagination"`
}

// Service aggregates team statistics from the API and the scraped
// site behind a shared TTL cache. All fetch paths degrade to stale
// cache, and the stats path further degrades to a static snapshot,
// so the dashboard stays up through upstream outages.
type Service struct {
	faceit     *faceit.Client
	fetcher    hltv.Fetcher
	hltvCfg    hltv.Config
	pagination faceit.PaginationConfig
	cache      *Cache
	norm       Normalizer
}

func NewService(cfg Config) *Service {
	pagination := cfg.Pagination
	if pagination.PageSize == 0 {
		pagination = faceit.DefaultPagination()
	}
	return &Service{
		faceit:     faceit.NewClient(cfg.Faceit),
		fetcher:    hltv.NewFetcher(cfg.Hltv, 10*time.Minute),
		hltvCfg:    cfg.Hltv,
		pagination: pagination,
		cache:      NewCache(nil),
		norm:       NewNormalizer(cfg.Faceit.TeamID),
	}
}

// NewServiceWithDeps injects fakes for tests.
func NewServiceWithDeps(client *faceit.Client, fetcher hltv.Fetcher, hltvCfg hltv.Config, pagination faceit.PaginationConfig, cache *Cache, norm Normalizer) *Service {
	return &Service{
		faceit:     client,
		fetcher:    fetcher,
		hltvCfg:    hltvCfg,
		pagination: pagination,
		cache:      cache,
		norm:       norm,
	}
}

func (s *Service) Cache() *Cache {
	return s.cache
}

type MatchesResponse struct {
	Matches   []Match   `json:"matches"`
	Cached    bool      `json:"cached"`
	Fallback  bool      `json:"fallback,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
}

type RosterResponse struct {
	Players   []hltv.Player `json:"players"`
	Cached    bool          `json:"cached"`
	Fallback  bool          `json:"fallback,omitempty"`
	FetchedAt time.Time     `json:"fetchedAt"`
}

type UpcomingResponse struct {
	Matches   []hltv.UpcomingMatch `json:"matches"`
	Cached    bool                 `json:"cached"`
	Fallback  bool                 `json:"fallback,omitempty"`
	FetchedAt time.Time            `json:"fetchedAt"`
}

type StatsResponse struct {
	Team   faceit.TeamInfo  `json:"team"`
	Stats  faceit.TeamStats `json:"stats"`
	Rating int              `json:"estimatedRating"`
	// populated only on the placeholder payload, a recent-form
	// sample so the dashboard charts stay filled during an outage
	RecentMatches []Match   `json:"recentMatches,omitempty"`
	Cached        bool      `json:"cached"`
	Fallback      bool      `json:"fallback,omitempty"`
	FetchedAt     time.Time `json:"fetchedAt"`
}

type CombinedResponse struct {
	Stats   StatsResponse   `json:"stats"`
	Matches MatchesResponse `json:"matches"`
}

type OverviewResponse struct {
	Aggregate TeamAggregate `json:"aggregate"`
	Matches   []Match       `json:"matches"`
	FetchedAt time.Time     `json:"fetchedAt"`
}

// Matches serves the scraped results table.
func (s *Service) Matches(ctx context.Context) (MatchesResponse, error) {
	ctx, span := tracer.Start(ctx, "Matches")
	defer span.End()

	const key = "matches"
	if v, ok := s.cache.Get(CategoryHltvMatches, key); ok {
		_, fetchedAt, _ := s.cache.GetStale(CategoryHltvMatches, key)
		return MatchesResponse{Matches: v.([]Match), Cached: true, FetchedAt: fetchedAt}, nil
	}

	matches, err := s.scrapeMatches(ctx)
	if err != nil {
		if v, fetchedAt, ok := s.cache.GetStale(CategoryHltvMatches, key); ok {
			slog.WarnContext(ctx, "match scrape failed, serving stale cache", "err", err)
			return MatchesResponse{Matches: v.([]Match), Cached: true, Fallback: true, FetchedAt: fetchedAt}, nil
		}
		return MatchesResponse{}, err
	}
	s.cache.Set(CategoryHltvMatches, key, matches)
	return MatchesResponse{Matches: matches, FetchedAt: s.cache.now()}, nil
}

func (s *Service) scrapeMatches(ctx context.Context) ([]Match, error) {
	page, err := s.fetcher.FetchPage(ctx, s.hltvCfg.MatchesURL())
	if err != nil {
		return nil, err
	}
	rows, err := hltv.ParseMatches(page)
	if err != nil {
		return nil, err
	}
	return Dedupe(s.norm.NormalizeRows(rows)), nil
}

// Roster serves the scraped team lineup.
func (s *Service) Roster(ctx context.Context) (RosterResponse, error) {
	ctx, span := tracer.Start(ctx, "Roster")
	defer span.End()

	const key = "roster"
	if v, ok := s.cache.Get(CategoryHltvRoster, key); ok {
		_, fetchedAt, _ := s.cache.GetStale(CategoryHltvRoster, key)
		return RosterResponse{Players: v.([]hltv.Player), Cached: true, FetchedAt: fetchedAt}, nil
	}

	page, err := s.fetcher.FetchPage(ctx, s.hltvCfg.TeamURL())
	var players []hltv.Player
	if err == nil {
		players, err = hltv.ParseRoster(page)
	}
	if err != nil {
		if v, fetchedAt, ok := s.cache.GetStale(CategoryHltvRoster, key); ok {
			slog.WarnContext(ctx, "roster scrape failed, serving stale cache", "err", err)
			return RosterResponse{Players: v.([]hltv.Player), Cached: true, Fallback: true, FetchedAt: fetchedAt}, nil
		}
		return RosterResponse{}, err
	}
	s.cache.Set(CategoryHltvRoster, key, players)
	return RosterResponse{Players: players, FetchedAt: s.cache.now()}, nil
}

// Upcoming serves scheduled matches from the team profile page.
func (s *Service) Upcoming(ctx context.Context) (UpcomingResponse, error) {
	ctx, span := tracer.Start(ctx, "Upcoming")
	defer span.End()

	const key = "upcoming"
	if v, ok := s.cache.Get(CategoryHltvUpcoming, key); ok {
		_, fetchedAt, _ := s.cache.GetStale(CategoryHltvUpcoming, key)
		return UpcomingResponse{Matches: v.([]hltv.UpcomingMatch), Cached: true, FetchedAt: fetchedAt}, nil
	}

	page, err := s.fetcher.FetchPage(ctx, s.hltvCfg.TeamURL())
	var upcoming []hltv.UpcomingMatch
	if err == nil {
		upcoming, err = hltv.ParseUpcoming(page)
	}
	if err != nil {
		if v, fetchedAt, ok := s.cache.GetStale(CategoryHltvUpcoming, key); ok {
			slog.WarnContext(ctx, "upcoming scrape failed, serving stale cache", "err", err)
			return UpcomingResponse{Matches: v.([]hltv.UpcomingMatch), Cached: true, Fallback: true, FetchedAt: fetchedAt}, nil
		}
		return UpcomingResponse{}, err
	}
	s.cache.Set(CategoryHltvUpcoming, key, upcoming)
	return UpcomingResponse{Matches: upcoming, FetchedAt: s.cache.now()}, nil
}

// FaceitStats serves lifetime team statistics. This endpoint backs the
// headline numbers on the dashboard so it falls back to a static
// snapshot rather than erroring.
func (s *Service) FaceitStats(ctx context.Context) (StatsResponse, error) {
	ctx, span := tracer.Start(ctx, "FaceitStats")
	defer span.End()

	const key = "stats"
	if v, ok := s.cache.Get(CategoryFaceitStats, key); ok {
		resp := v.(StatsResponse)
		resp.Cached = true
		return resp, nil
	}

	team, err := s.faceit.TeamInfo(ctx)
	var stats faceit.TeamStats
	if err == nil {
		stats, err = s.faceit.TeamStats(ctx)
	}
	if err != nil {
		if v, fetchedAt, ok := s.cache.GetStale(CategoryFaceitStats, key); ok {
			slog.WarnContext(ctx, "stats fetch failed, serving stale cache", "err", err)
			resp := v.(StatsResponse)
			resp.Cached = true
			resp.Fallback = true
			resp.FetchedAt = fetchedAt
			return resp, nil
		}
		slog.WarnContext(ctx, "stats fetch failed with no cache, serving placeholder", "err", err)
		return PlaceholderStats(), nil
	}
	resp := StatsResponse{
		Team:      team,
		Stats:     stats,
		Rating:    EstimateRating(stats.WinRate, stats.AverageKDRatio),
		FetchedAt: s.cache.now(),
	}
	s.cache.Set(CategoryFaceitStats, key, resp)
	return resp, nil
}

// FaceitMatches serves the normalized API match history. Expensive:
// a cold call walks the paginated history and enriches every match,
// which is why its result is cached as a whole.
func (s *Service) FaceitMatches(ctx context.Context) (MatchesResponse, error) {
	ctx, span := tracer.Start(ctx, "FaceitMatches")
	defer span.End()

	const key = "matches"
	if v, ok := s.cache.Get(CategoryFaceitMatches, key); ok {
		_, fetchedAt, _ := s.cache.GetStale(CategoryFaceitMatches, key)
		return MatchesResponse{Matches: v.([]Match), Cached: true, FetchedAt: fetchedAt}, nil
	}

	matches, err := s.fetchFaceitMatches(ctx)
	if err != nil {
		if v, fetchedAt, ok := s.cache.GetStale(CategoryFaceitMatches, key); ok {
			slog.WarnContext(ctx, "history fetch failed, serving stale cache", "err", err)
			return MatchesResponse{Matches: v.([]Match), Cached: true, Fallback: true, FetchedAt: fetchedAt}, nil
		}
		return MatchesResponse{}, err
	}
	s.cache.Set(CategoryFaceitMatches, key, matches)
	return MatchesResponse{Matches: matches, FetchedAt: s.cache.now()}, nil
}

func (s *Service) fetchFaceitMatches(ctx context.Context) ([]Match, error) {
	records, err := s.faceit.AllMatches(ctx, s.pagination)
	if err != nil {
		return nil, err
	}
	records = DedupeRecords(records)

	details := s.faceit.EnrichMatches(ctx, s.pagination, records)
	byID := make(map[string]faceit.MatchDetails, len(details))
	for _, d := range details {
		byID[d.MatchID] = d
	}

	matches := make([]Match, 0, len(records))
	for i, rec := range records {
		if d, found := byID[rec.ExtractID()]; found {
			matches = append(matches, s.norm.NormalizeDetails(d))
			continue
		}
		m, ok := s.norm.Normalize(rec, SourceAPI)
		if !ok {
			slog.DebugContext(ctx, "dropping unrecognized history record", "index", i)
			continue
		}
		if m.ID == "" {
			m.ID = fmt.Sprintf("api_%d", i)
		}
		matches = append(matches, m)
	}
	return Dedupe(GroupMaps(matches)), nil
}

type PlayersResponse struct {
	Players   []faceit.PlayerStats `json:"players"`
	Cached    bool                 `json:"cached"`
	Fallback  bool                 `json:"fallback,omitempty"`
	FetchedAt time.Time            `json:"fetchedAt"`
}

// Players serves lifetime statistics for every member of the roster.
// Individual player failures shrink the list rather than failing the
// whole request.
func (s *Service) Players(ctx context.Context) (PlayersResponse, error) {
	ctx, span := tracer.Start(ctx, "Players")
	defer span.End()

	const key = "players"
	if v, ok := s.cache.Get(CategoryFaceitPlayers, key); ok {
		_, fetchedAt, _ := s.cache.GetStale(CategoryFaceitPlayers, key)
		return PlayersResponse{Players: v.([]faceit.PlayerStats), Cached: true, FetchedAt: fetchedAt}, nil
	}

	team, err := s.faceit.TeamInfo(ctx)
	if err != nil {
		if v, fetchedAt, ok := s.cache.GetStale(CategoryFaceitPlayers, key); ok {
			slog.WarnContext(ctx, "player fetch failed, serving stale cache", "err", err)
			return PlayersResponse{Players: v.([]faceit.PlayerStats), Cached: true, Fallback: true, FetchedAt: fetchedAt}, nil
		}
		return PlayersResponse{}, err
	}

	players := make([]faceit.PlayerStats, 0, len(team.Members))
	for _, member := range team.Members {
		stats, err := s.faceit.PlayerStats(ctx, member.UserID)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch player stats, dropping",
				"player", member.Nickname, "err", err)
			continue
		}
		if stats.Nickname == "" || stats.Nickname == "Unknown" {
			stats.Nickname = member.Nickname
		}
		players = append(players, stats)
	}
	s.cache.Set(CategoryFaceitPlayers, key, players)
	return PlayersResponse{Players: players, FetchedAt: s.cache.now()}, nil
}

// SearchTeams looks up teams by name, operator tooling for finding the
// team id to configure.
func (s *Service) SearchTeams(ctx context.Context, name string) ([]faceit.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "SearchTeams")
	defer span.End()

	return s.faceit.SearchTeam(ctx, name)
}

// FaceitInfo reports upstream API liveness and match-count metadata.
func (s *Service) FaceitInfo(ctx context.Context) (faceit.ApiInfo, error) {
	ctx, span := tracer.Start(ctx, "FaceitInfo")
	defer span.End()

	const key = "info"
	if v, ok := s.cache.Get(CategoryFaceitInfo, key); ok {
		return v.(faceit.ApiInfo), nil
	}
	info, err := s.faceit.Info(ctx)
	if err != nil {
		return faceit.ApiInfo{}, err
	}
	s.cache.Set(CategoryFaceitInfo, key, info)
	return info, nil
}

// Combined serves stats and matches in one payload for the dashboard
// landing view.
func (s *Service) Combined(ctx context.Context) (CombinedResponse, error) {
	ctx, span := tracer.Start(ctx, "Combined")
	defer span.End()

	stats, err := s.FaceitStats(ctx)
	if err != nil {
		return CombinedResponse{}, err
	}
	matches, err := s.FaceitMatches(ctx)
	if err != nil {
		return CombinedResponse{}, err
	}
	return CombinedResponse{Stats: stats, Matches: matches}, nil
}

// Overview aggregates both sources into headline numbers. A source
// being down shrinks the sample instead of failing the endpoint, but
// both being down is an error.
func (s *Service) Overview(ctx context.Context) (OverviewResponse, error) {
	ctx, span := tracer.Start(ctx, "Overview")
	defer span.End()

	var all []Match
	scraped, errScraped := s.Matches(ctx)
	if errScraped == nil {
		all = append(all, scraped.Matches...)
	} else {
		slog.WarnContext(ctx, "overview: scraped matches unavailable", "err", errScraped)
	}
	api, errApi := s.FaceitMatches(ctx)
	if errApi == nil {
		all = append(all, api.Matches...)
	} else {
		slog.WarnContext(ctx, "overview: api matches unavailable", "err", errApi)
	}
	if errScraped != nil && errApi != nil {
		return OverviewResponse{}, errScraped
	}
	return OverviewResponse{
		Aggregate: Aggregate(all),
		Matches:   all,
		FetchedAt: s.cache.now(),
	}, nil
}
