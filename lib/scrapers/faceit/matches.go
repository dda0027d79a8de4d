package faceit

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// one item of the player history endpoint. the api has shipped at
// least two incompatible shapes for these over the years, so they stay
// dynamic until normalization.
type RawMatch map[string]any

func (m RawMatch) String(key string) string {
	s, _ := m[key].(string)
	return s
}

func (m RawMatch) Map(key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func (m RawMatch) Float(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// ExtractID pulls the source match identifier out of a raw record,
// trying the known field spellings in priority order.
func (m RawMatch) ExtractID() string {
	if id := m.String("match_id"); id != "" {
		return id
	}
	if nested := m.Map("_id"); nested != nil {
		if id, ok := nested["matchId"].(string); ok && id != "" {
			return id
		}
	}
	return m.String("matchId")
}

// IsTeamMatch is the single predicate deciding whether a history
// record is a finished match of the configured team. precedence:
// 1. a teams mapping must be present
// 2. one faction's team_id must equal ours
// 3. the match must be finished
// 4. the match must have started within the window
func IsTeamMatch(m RawMatch, teamID string, since time.Time) bool {
	teams := m.Map("teams")
	if teams == nil {
		return false
	}

	ours := false
	for _, v := range teams {
		faction, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if faction["team_id"] == teamID {
			ours = true
			break
		}
	}
	if !ours {
		return false
	}

	if finished, ok := m.Float("finished"); ok && finished == 0 {
		return false
	}

	if startedAt, ok := m.Float("started_at"); ok {
		if time.Unix(int64(startedAt), 0).Before(since) {
			return false
		}
	}

	return true
}

type MapPick struct {
	Name string `json:"name"`
}

// MatchDetails is the enriched per-match record from /matches/{id},
// carrying total scores and the played map list that history items
// lack.
type MatchDetails struct {
	MatchID     string    `json:"matchId"`
	Opponent    string    `json:"opponent"`
	OurScore    int       `json:"ourScore"`
	OppScore    int       `json:"oppScore"`
	IsWin       bool      `json:"isWin"`
	TotalMaps   int       `json:"totalMaps"`
	Competition string    `json:"competition"`
	StartedAt   time.Time `json:"startedAt"`
	MapPicks    []string  `json:"mapPicks"`
}

func (c *Client) MatchDetails(ctx context.Context, matchID string) (MatchDetails, error) {
	ctx, span := tracer.Start(ctx, "MatchDetails")
	defer span.End()
	span.SetAttributes(attribute.String("match_id", matchID))

	var wire struct {
		Teams map[string]struct {
			FactionID string `json:"faction_id"`
			TeamID    string `json:"team_id"`
			Name      string `json:"name"`
		} `json:"teams"`
		Results struct {
			Winner string         `json:"winner"`
			Score  map[string]int `json:"score"`
		} `json:"results"`
		Voting struct {
			MapPick []string `json:"map_pick"`
		} `json:"voting"`
		CompetitionName string `json:"competition_name"`
		StartedAt       int64  `json:"started_at"`
	}
	err := c.get(ctx, "/matches/"+matchID, nil, false, &wire)
	if err != nil {
		return MatchDetails{}, err
	}

	ourFaction := ""
	for key, team := range wire.Teams {
		if team.FactionID == c.cfg.TeamID || team.TeamID == c.cfg.TeamID {
			ourFaction = key
			break
		}
	}
	if ourFaction == "" {
		span.SetStatus(codes.Error, "our team is not part of this match")
		return MatchDetails{}, ErrNotOurMatch
	}

	oppFaction := "faction1"
	if ourFaction == "faction1" {
		oppFaction = "faction2"
	}
	opponent := wire.Teams[oppFaction].Name
	if opponent == "" {
		opponent = "Unknown"
	}

	ourScore := wire.Results.Score[ourFaction]
	oppScore := wire.Results.Score[oppFaction]

	details := MatchDetails{
		MatchID:     matchID,
		Opponent:    opponent,
		OurScore:    ourScore,
		OppScore:    oppScore,
		IsWin:       ourScore > oppScore,
		TotalMaps:   len(wire.Voting.MapPick),
		Competition: wire.CompetitionName,
		MapPicks:    wire.Voting.MapPick,
	}
	if details.Competition == "" {
		details.Competition = "FACEIT"
	}
	if wire.StartedAt > 0 {
		details.StartedAt = time.Unix(wire.StartedAt, 0)
	}
	return details, nil
}

// TeamMatches fetches one page of the captain's match history and
// keeps only records passing IsTeamMatch.
func (c *Client) TeamMatches(ctx context.Context, playerID string, offset, limit int, since time.Time) ([]RawMatch, error) {
	ctx, span := tracer.Start(ctx, "TeamMatches")
	defer span.End()
	span.SetAttributes(
		attribute.Int("offset", offset),
		attribute.Int("limit", limit),
	)

	var wire struct {
		Items []RawMatch `json:"items"`
	}
	err := c.get(ctx, "/players/"+playerID+"/history", map[string]string{
		"offset": strconv.Itoa(offset),
		"limit":  strconv.Itoa(limit),
	}, true, &wire)
	if err != nil {
		return nil, err
	}

	var matches []RawMatch
	for _, m := range wire.Items {
		if !IsTeamMatch(m, c.cfg.TeamID, since) {
			slog.DebugContext(ctx, "skipping history record", "match_id", m.ExtractID())
			continue
		}
		matches = append(matches, m)
	}
	span.SetAttributes(
		attribute.Int("fetched", len(wire.Items)),
		attribute.Int("kept", len(matches)),
	)
	return matches, nil
}
