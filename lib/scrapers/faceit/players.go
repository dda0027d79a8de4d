package faceit

import (
	"context"
)

type PlayerInfo struct {
	Nickname   string `json:"nickname"`
	Country    string `json:"country"`
	FaceitElo  int    `json:"faceitElo"`
	SkillLevel int    `json:"skillLevel"`
}

func (c *Client) PlayerInfo(ctx context.Context, playerID string) (PlayerInfo, error) {
	ctx, span := tracer.Start(ctx, "PlayerInfo")
	defer span.End()

	var wire struct {
		Nickname string `json:"nickname"`
		Country  string `json:"country"`
		Games    map[string]struct {
			FaceitElo  int `json:"faceit_elo"`
			SkillLevel int `json:"skill_level"`
		} `json:"games"`
	}
	err := c.get(ctx, "/players/"+playerID, nil, false, &wire)
	if err != nil {
		return PlayerInfo{}, err
	}

	info := PlayerInfo{
		Nickname:  wire.Nickname,
		Country:   wire.Country,
		FaceitElo: 1000,
	}
	if game, ok := wire.Games[c.cfg.Game]; ok {
		if game.FaceitElo > 0 {
			info.FaceitElo = game.FaceitElo
		}
		info.SkillLevel = game.SkillLevel
	}
	return info, nil
}

type PlayerStats struct {
	Nickname           string  `json:"nickname"`
	Country            string  `json:"country"`
	SkillLevel         int     `json:"skillLevel"`
	EloRating          int     `json:"eloRating"`
	TotalMatches       int     `json:"totalMatches"`
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	WinRate            float64 `json:"winRate"`
	AverageKDRatio     float64 `json:"averageKDRatio"`
	TotalKills         int     `json:"totalKills"`
	TotalAssists       int     `json:"totalAssists"`
	AverageKills       float64 `json:"averageKills"`
	AverageDeaths      float64 `json:"averageDeaths"`
	AverageAssists     float64 `json:"averageAssists"`
	MVPs               int     `json:"mvps"`
	Headshots          int     `json:"headshots"`
	HeadshotPercentage float64 `json:"headshotPercentage"`
}

// PlayerStats resolves a player's lifetime stats. the skill level is
// not reliably present in one place across accounts, so it falls
// through: per-map segments, then the lifetime value, then a heuristic
// from win rate and K/D.
func (c *Client) PlayerStats(ctx context.Context, playerID string) (PlayerStats, error) {
	ctx, span := tracer.Start(ctx, "PlayerStats")
	defer span.End()

	var wire struct {
		Lifetime map[string]any `json:"lifetime"`
		Segments []struct {
			Type  string         `json:"type"`
			Stats map[string]any `json:"stats"`
		} `json:"segments"`
	}
	err := c.get(ctx, "/players/"+playerID+"/stats/"+c.cfg.Game, nil, false, &wire)
	if err != nil {
		return PlayerStats{}, err
	}

	lifetime := wire.Lifetime
	winRate := lifetimeFloat(lifetime, "Win Rate %")
	avgKD := lifetimeFloat(lifetime, "Average K/D Ratio")
	matches := lifetimeInt(lifetime, "Matches")
	wins := lifetimeInt(lifetime, "Wins")

	skillLevel := 0
	for _, seg := range wire.Segments {
		if seg.Type != "Map" {
			continue
		}
		level := lifetimeInt(seg.Stats, "Skill Level")
		if level > skillLevel {
			skillLevel = level
		}
	}
	if skillLevel == 0 {
		skillLevel = lifetimeInt(lifetime, "Skill Level")
	}
	if skillLevel == 0 && matches > 0 {
		base := int(winRate/10 + avgKD*2)
		skillLevel = min(10, max(1, base))
	}

	info, err := c.PlayerInfo(ctx, playerID)
	if err != nil {
		// player profile failures should not void the stats we
		// already have
		info = PlayerInfo{Nickname: "Unknown", Country: "Unknown", FaceitElo: 1000}
	}

	return PlayerStats{
		Nickname:           info.Nickname,
		Country:            info.Country,
		SkillLevel:         skillLevel,
		EloRating:          info.FaceitElo,
		TotalMatches:       matches,
		Wins:               wins,
		Losses:             matches - wins,
		WinRate:            winRate,
		AverageKDRatio:     avgKD,
		TotalKills:         lifetimeInt(lifetime, "Total Kills with extended stats"),
		TotalAssists:       lifetimeInt(lifetime, "Total Assists"),
		AverageKills:       lifetimeFloat(lifetime, "Average Kills"),
		AverageDeaths:      lifetimeFloat(lifetime, "Average Deaths"),
		AverageAssists:     lifetimeFloat(lifetime, "Average Assists"),
		MVPs:               lifetimeInt(lifetime, "MVPs"),
		Headshots:          lifetimeInt(lifetime, "Headshots"),
		HeadshotPercentage: lifetimeFloat(lifetime, "Headshots %"),
	}, nil
}
