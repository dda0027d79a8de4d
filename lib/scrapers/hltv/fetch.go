package hltv

import (
	"context"
	"fmt"
	"time"

	"forzestats-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/hltv")

const DefaultBaseUrl = "https://www.hltv.org"

type Config struct {
	BaseUrl  string `json:"base_url"`
	TeamID   int    `json:"team_id"`
	TeamSlug string `json:"team_slug"`
	// drive a headless browser instead of plain http, needed when
	// the target serves javascript challenges
	UseBrowser bool `json:"use_browser"`
}

func (c Config) baseUrl() string {
	if c.BaseUrl == "" {
		return DefaultBaseUrl
	}
	return c.BaseUrl
}

func (c Config) MatchesURL() string {
	return fmt.Sprintf("%s/stats/teams/matches/%d/%s?csVersion=CS2", c.baseUrl(), c.TeamID, c.TeamSlug)
}

func (c Config) TeamURL() string {
	return fmt.Sprintf("%s/team/%d/%s", c.baseUrl(), c.TeamID, c.TeamSlug)
}

// Fetcher retrieves the rendered markup of one page. implementations
// must surface navigation and timeout failures as errors, a loaded but
// empty page is not an error.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// HttpFetcher fetches pages over plain http with the bot-protection
// bypass transport.
type HttpFetcher struct {
	http *resty.Client
}

func NewHttpFetcher() HttpFetcher {
	return HttpFetcher{
		http: restyutil.NewClient(restyutil.Options{
			CloudflareBypass: true,
			RetryCount:       2,
		}, "scrapers/hltv/http"),
	}
}

func (f HttpFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	res, err := f.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("hltv: %s for %s", res.Status(), url)
	}
	return res.String(), nil
}

// CachedFetcher keeps rendered pages around for a while so repeated
// dashboard loads don't hammer the target.
type CachedFetcher struct {
	inner Fetcher
	pages *lru.LRU[string, string]
}

func NewCachedFetcher(inner Fetcher, ttl time.Duration) CachedFetcher {
	return CachedFetcher{
		inner: inner,
		pages: lru.NewLRU[string, string](32, nil, ttl),
	}
}

func (f CachedFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	cached, hit := f.pages.Get(url)
	if hit {
		return cached, nil
	}
	html, err := f.inner.FetchPage(ctx, url)
	if err != nil {
		return "", err
	}
	f.pages.Add(url, html)
	return html, nil
}

func NewFetcher(cfg Config, pageTTL time.Duration) Fetcher {
	var inner Fetcher
	if cfg.UseBrowser {
		inner = NewBrowserFetcher()
	} else {
		inner = NewHttpFetcher()
	}
	if pageTTL <= 0 {
		return inner
	}
	return NewCachedFetcher(inner, pageTTL)
}
