package faceit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

var ErrNotOurMatch = errors.New("faceit: configured team does not play in this match")

type PaginationConfig struct {
	PageSize int `json:"page_size"`
	// hard safety cap against unbounded paging even when the
	// upstream keeps returning data
	MaxPages            int `json:"max_pages"`
	MaxConsecutiveEmpty int `json:"max_consecutive_empty"`
	// politeness delays, keep them configurable but never zero them
	// out against a live upstream
	PageDelayMs   int `json:"page_delay_ms"`
	DetailDelayMs int `json:"detail_delay_ms"`
	// how far back history records are kept
	WindowDays int `json:"window_days"`
}

func DefaultPagination() PaginationConfig {
	return PaginationConfig{
		PageSize:            100,
		MaxPages:            40,
		MaxConsecutiveEmpty: 1,
		PageDelayMs:         200,
		DetailDelayMs:       100,
		WindowDays:          90,
	}
}

func (c PaginationConfig) pageDelay() time.Duration {
	return time.Duration(c.PageDelayMs) * time.Millisecond
}

func (c PaginationConfig) detailDelay() time.Duration {
	return time.Duration(c.DetailDelayMs) * time.Millisecond
}

type pageFunc func(ctx context.Context, offset, limit int) ([]RawMatch, error)

// fetchPaged walks offset pages strictly in order until the empty-page
// threshold or the page cap is hit. a failed page aborts the whole run
// instead of silently skipping, the caller decides what to fall back
// to.
func fetchPaged(ctx context.Context, cfg PaginationConfig, fetch pageFunc) ([]RawMatch, error) {
	var all []RawMatch
	offset := 0
	consecutiveEmpty := 0

	for page := 0; page < cfg.MaxPages; page++ {
		items, err := fetch(ctx, offset, cfg.PageSize)
		if err != nil {
			return nil, err
		}

		if len(items) == 0 {
			consecutiveEmpty++
			if consecutiveEmpty >= cfg.MaxConsecutiveEmpty {
				break
			}
		} else {
			consecutiveEmpty = 0
			all = append(all, items...)
		}
		offset += cfg.PageSize

		if page+1 < cfg.MaxPages {
			if err := sleepCtx(ctx, cfg.pageDelay()); err != nil {
				return nil, err
			}
		}
	}

	return all, nil
}

// AllMatches runs the full pagination over the team captain's history.
// records are keyed to the captain because faceit has no first-class
// team history endpoint.
func (c *Client) AllMatches(ctx context.Context, cfg PaginationConfig) ([]RawMatch, error) {
	ctx, span := tracer.Start(ctx, "AllMatches")
	defer span.End()

	info, err := c.TeamInfo(ctx)
	if err != nil {
		return nil, err
	}
	if len(info.Members) == 0 {
		slog.WarnContext(ctx, "team roster is empty, no history to walk", "team_id", c.cfg.TeamID)
		return nil, nil
	}

	captain := info.Members[0]
	for _, m := range info.Members {
		if m.UserID == info.Leader {
			captain = m
			break
		}
	}
	slog.InfoContext(ctx, "walking captain history", "captain", captain.Nickname)

	since := time.Now().AddDate(0, 0, -cfg.WindowDays)
	matches, err := fetchPaged(ctx, cfg, func(ctx context.Context, offset, limit int) ([]RawMatch, error) {
		return c.TeamMatches(ctx, captain.UserID, offset, limit, since)
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("matches", len(matches)))
	return matches, nil
}

// EnrichMatches is the second sequential pass: full detail for each
// summary record. one failed detail drops that item, it never aborts
// the rest of the pass.
func (c *Client) EnrichMatches(ctx context.Context, cfg PaginationConfig, records []RawMatch) []MatchDetails {
	ctx, span := tracer.Start(ctx, "EnrichMatches")
	defer span.End()

	var detailed []MatchDetails
	for i, record := range records {
		id := record.ExtractID()
		if id == "" {
			slog.WarnContext(ctx, "history record has no match id, dropping", "index", i)
			continue
		}

		details, err := c.MatchDetails(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch match details, dropping", "match_id", id, "err", err)
		} else {
			detailed = append(detailed, details)
		}

		if i+1 < len(records) {
			if err := sleepCtx(ctx, cfg.detailDelay()); err != nil {
				break
			}
		}
	}

	span.SetAttributes(
		attribute.Int("records", len(records)),
		attribute.Int("detailed", len(detailed)),
	)
	return detailed
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
