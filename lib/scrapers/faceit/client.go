package faceit

import (
	"context"
	"fmt"
	"strconv"

	"forzestats-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/faceit")

const DefaultBaseUrl = "https://open.faceit.com/data/v4"

// the public stats api used only to probe match counts, it sits on a
// different host than the data api and needs no credentials
const statsApiUrl = "https://www.faceit.com/api/stats/v1/stats/time/teams"

type Config struct {
	BaseUrl string `json:"base_url"`
	// server-side api key, used by most endpoints
	ApiKey string `json:"api_key"`
	// client-side key, the player history endpoint rejects the
	// server-side one
	ClientSideKey string `json:"client_side_key"`
	TeamID        string `json:"team_id"`
	TeamName      string `json:"team_name"`
	Game          string `json:"game"`
}

type Client struct {
	http *resty.Client
	cfg  Config
}

func NewClient(cfg Config) *Client {
	if cfg.BaseUrl == "" {
		cfg.BaseUrl = DefaultBaseUrl
	}
	if cfg.Game == "" {
		cfg.Game = "cs2"
	}
	http := restyutil.NewClient(restyutil.Options{
		BaseUrl:    cfg.BaseUrl,
		RetryCount: 2,
	}, "scrapers/faceit/http")
	return &Client{http: http, cfg: cfg}
}

func (c *Client) TeamID() string {
	return c.cfg.TeamID
}

type requestError struct {
	Status int
	Body   string
}

func (e requestError) Error() string {
	return fmt.Sprintf("faceit api: status %d: %s", e.Status, e.Body)
}

// performs a GET against the data api, picking the credential the
// endpoint demands. non-2xx statuses come back as requestError so the
// caller can tell "request failed" apart from "empty result".
func (c *Client) get(ctx context.Context, endpoint string, query map[string]string, useClientKey bool, out any) error {
	key := c.cfg.ApiKey
	if useClientKey {
		key = c.cfg.ClientSideKey
	}
	if key == "" {
		return fmt.Errorf("faceit api key is not configured")
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(key).
		SetQueryParams(query).
		SetResult(out).
		Get(endpoint)
	if err != nil {
		return err
	}
	if res.IsError() {
		return requestError{Status: res.StatusCode(), Body: res.String()}
	}
	return nil
}

type Member struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
}

type TeamInfo struct {
	ID      string
	Name    string
	Avatar  string
	Game    string
	Region  string
	Country string
	Level   int
	Leader  string
	Members []Member
}

type gameEntry struct {
	GameID     string `json:"game_id"`
	SkillLevel int    `json:"skill_level"`
}

func (c *Client) TeamInfo(ctx context.Context) (TeamInfo, error) {
	ctx, span := tracer.Start(ctx, "TeamInfo")
	defer span.End()

	var wire struct {
		TeamID  string               `json:"team_id"`
		Name    string               `json:"name"`
		Avatar  string               `json:"avatar"`
		Region  string               `json:"region"`
		Country string               `json:"country"`
		Leader  string               `json:"leader"`
		Members []Member             `json:"members"`
		Games   map[string]gameEntry `json:"games"`
	}
	err := c.get(ctx, "/teams/"+c.cfg.TeamID, nil, false, &wire)
	if err != nil {
		return TeamInfo{}, err
	}

	info := TeamInfo{
		ID:      wire.TeamID,
		Name:    wire.Name,
		Avatar:  wire.Avatar,
		Game:    c.cfg.Game,
		Region:  wire.Region,
		Country: wire.Country,
		Leader:  wire.Leader,
		Members: wire.Members,
	}
	if game, ok := wire.Games[c.cfg.Game]; ok {
		info.Level = game.SkillLevel
	}
	return info, nil
}

type TeamStats struct {
	TotalMatches   int     `json:"totalMatches"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	WinRate        float64 `json:"winRate"`
	AverageKDRatio float64 `json:"averageKDRatio"`
	CurrentStreak  string  `json:"currentStreak"`
	MaxWinStreak   int     `json:"maxWinStreak"`
}

func (c *Client) TeamStats(ctx context.Context) (TeamStats, error) {
	ctx, span := tracer.Start(ctx, "TeamStats")
	defer span.End()

	var wire struct {
		Lifetime map[string]any `json:"lifetime"`
	}
	err := c.get(ctx, "/teams/"+c.cfg.TeamID+"/stats/"+c.cfg.Game, nil, false, &wire)
	if err != nil {
		return TeamStats{}, err
	}

	lifetime := wire.Lifetime
	matches := lifetimeInt(lifetime, "Matches")
	wins := lifetimeInt(lifetime, "Wins")
	return TeamStats{
		TotalMatches:   matches,
		Wins:           wins,
		Losses:         matches - wins,
		WinRate:        lifetimeFloat(lifetime, "Win Rate %"),
		AverageKDRatio: lifetimeFloat(lifetime, "Team Average K/D Ratio"),
		CurrentStreak:  lifetimeString(lifetime, "Current Win Streak", "0"),
		MaxWinStreak:   lifetimeInt(lifetime, "Longest Win Streak"),
	}, nil
}

type SearchResult struct {
	TeamID string `json:"team_id"`
	Name   string `json:"name"`
}

func (c *Client) SearchTeam(ctx context.Context, name string) ([]SearchResult, error) {
	ctx, span := tracer.Start(ctx, "SearchTeam")
	defer span.End()

	var wire struct {
		Items []SearchResult `json:"items"`
	}
	err := c.get(ctx, "/search/teams", map[string]string{
		"nickname": name,
		"game":     c.cfg.Game,
		"offset":   "0",
		"limit":    "10",
	}, false, &wire)
	if err != nil {
		return nil, err
	}
	return wire.Items, nil
}

// ApiInfo probes the public stats api for the total recorded match
// count without paging through it.
type ApiInfo struct {
	ApiStatus    string `json:"apiStatus"`
	TotalCount   string `json:"totalCount"`
	LastModified string `json:"lastModified"`
}

func (c *Client) Info(ctx context.Context) (ApiInfo, error) {
	ctx, span := tracer.Start(ctx, "Info")
	defer span.End()

	url := fmt.Sprintf("%s/%s/games/%s", statsApiUrl, c.cfg.TeamID, c.cfg.Game)
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"page": "0", "size": "1"}).
		Get(url)
	if err != nil {
		return ApiInfo{}, err
	}
	if res.IsError() {
		return ApiInfo{}, requestError{Status: res.StatusCode(), Body: res.String()}
	}

	info := ApiInfo{
		ApiStatus:    "Available",
		TotalCount:   res.Header().Get("x-total-count"),
		LastModified: res.Header().Get("last-modified"),
	}
	if info.TotalCount == "" {
		info.TotalCount = "Unknown"
	}
	if info.LastModified == "" {
		info.LastModified = "Unknown"
	}
	return info, nil
}

func lifetimeString(lifetime map[string]any, key, fallback string) string {
	v, ok := lifetime[key]
	if !ok {
		return fallback
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return fallback
}

func lifetimeInt(lifetime map[string]any, key string) int {
	switch v := lifetime[key].(type) {
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	case float64:
		return int(v)
	}
	return 0
}

func lifetimeFloat(lifetime map[string]any, key string) float64 {
	switch v := lifetime[key].(type) {
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	case float64:
		return v
	}
	return 0
}
