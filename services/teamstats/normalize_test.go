package teamstats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"forzestats-backend/lib/scrapers/faceit"
	"forzestats-backend/lib/scrapers/hltv"
	"forzestats-backend/lib/timezone"
)

func fixedNormalizer() Normalizer {
	fixed := time.Date(2024, 9, 30, 12, 0, 0, 0, timezone.Location)
	return Normalizer{
		TeamID: "our-team",
		Now:    func() time.Time { return fixed },
	}
}

func TestNormalizeStructured(t *testing.T) {
	n := fixedNormalizer()
	raw := faceit.RawMatch{
		"match_id": "m1",
		"teams": map[string]any{
			"faction1": map[string]any{"team_id": "our-team", "name": "FORZE Reload"},
			"faction2": map[string]any{"name": "Rival"},
		},
		"results": map[string]any{
			"score": map[string]any{"faction1": float64(16), "faction2": float64(10)},
		},
		"started_at":       float64(1700000000),
		"competition_name": "Cup",
	}

	m, ok := n.Normalize(raw, SourceAPI)
	require.True(t, ok)
	require.Equal(t, "m1", m.ID)
	require.Equal(t, Win, m.Result)
	require.Equal(t, 16, m.OurScore)
	require.Equal(t, 10, m.OpponentScore)
	require.Equal(t, "16:10", m.Score)
	require.Equal(t, "Rival", m.Opponent)
	require.Equal(t, "Cup", m.Event)
	require.False(t, m.DateUnknown)
	require.Equal(t, "15.11.2023", m.Date)
}

func TestNormalizePositional(t *testing.T) {
	n := fixedNormalizer()
	raw := faceit.RawMatch{
		"match_id": "m2",
		"i1":       "Mirage",
		"i17":      "0",
		"i18":      "12-16",
		"i19":      "Rival",
	}

	m, ok := n.Normalize(raw, SourceAPI)
	require.True(t, ok)
	require.Equal(t, Loss, m.Result)
	require.Equal(t, 12, m.OurScore)
	require.Equal(t, 16, m.OpponentScore)
	require.Equal(t, "Mirage", m.Map)
	require.Equal(t, "Rival", m.Opponent)
	require.True(t, m.DateUnknown)
}

func TestNormalizeEqualScoresCountAsLoss(t *testing.T) {
	n := fixedNormalizer()
	raw := faceit.RawMatch{
		"match_id": "m3",
		"teams": map[string]any{
			"faction1": map[string]any{"team_id": "our-team"},
			"faction2": map[string]any{"name": "Rival"},
		},
		"results": map[string]any{
			"score": map[string]any{"faction1": float64(13), "faction2": float64(13)},
		},
	}

	m, ok := n.Normalize(raw, SourceAPI)
	require.True(t, ok)
	require.Equal(t, Loss, m.Result)
}

func TestNormalizeRejectsUnusableRecords(t *testing.T) {
	n := fixedNormalizer()

	_, ok := n.Normalize(faceit.RawMatch{"something": "else"}, SourceAPI)
	require.False(t, ok, "unrecognized shape")

	_, ok = n.Normalize(faceit.RawMatch{
		"i1":  "Mirage",
		"i19": "Rival",
	}, SourceAPI)
	require.False(t, ok, "no score anywhere")

	_, ok = n.Normalize(faceit.RawMatch{
		"teams": map[string]any{
			"faction1": map[string]any{"team_id": "somebody-else"},
		},
	}, SourceAPI)
	require.False(t, ok, "our team not on a faction")
}

func TestNormalizeIsDeterministic(t *testing.T) {
	n := fixedNormalizer()
	raw := faceit.RawMatch{
		"match_id": "m4",
		"i1":       "Nuke",
		"i18":      "9-16",
		"i19":      "Rival",
	}

	first, ok := n.Normalize(raw, SourceAPI)
	require.True(t, ok)
	second, ok := n.Normalize(raw, SourceAPI)
	require.True(t, ok)
	require.Equal(t, first, second)
}

func TestNormalizeAllSynthesizesIDs(t *testing.T) {
	n := fixedNormalizer()
	records := []faceit.RawMatch{
		{"i1": "Mirage", "i18": "16-10", "i19": "A"},
		{"i1": "Nuke", "i18": "10-16", "i19": "B"},
	}

	matches := n.NormalizeAll(records, SourceAPI)
	require.Len(t, matches, 2)
	require.Equal(t, "api_0", matches[0].ID)
	require.Equal(t, "api_1", matches[1].ID)
}

func TestNormalizeRow(t *testing.T) {
	n := fixedNormalizer()
	row := hltv.MatchRow{
		Date:          "28/09/24",
		DateISO:       "2024-09-28",
		Event:         "CCT Season 2",
		Opponent:      "Rival Esports",
		Map:           "Mirage",
		OurScore:      16,
		OpponentScore: 12,
		Won:           true,
	}

	m := n.NormalizeRow(row, 0)
	require.Equal(t, "stats_0", m.ID)
	require.Equal(t, "28.09.2024", m.Date)
	require.Equal(t, Win, m.Result)
	require.Equal(t, "16:12", m.Score)
	require.Equal(t, SourceHTML, m.Source)
}

func TestNormalizeDetails(t *testing.T) {
	n := fixedNormalizer()
	d := faceit.MatchDetails{
		MatchID:     "m5",
		Opponent:    "Rival",
		OurScore:    2,
		OppScore:    1,
		IsWin:       true,
		TotalMaps:   3,
		Competition: "Cup",
		StartedAt:   time.Date(2024, 9, 20, 18, 0, 0, 0, timezone.Location),
		MapPicks:    []string{"Mirage", "Nuke", "Inferno"},
	}

	m := n.NormalizeDetails(d)
	require.Equal(t, "Best of 3", m.Map)
	require.Equal(t, 3, m.BestOf)
	require.Equal(t, 3, m.TotalMaps)
	require.Equal(t, Win, m.Result)
	require.Equal(t, "2:1", m.Score)
	require.Equal(t, "20.09.2024", m.Date)

	single := faceit.MatchDetails{
		MatchID:   "m6",
		OurScore:  16,
		OppScore:  9,
		TotalMaps: 1,
		MapPicks:  []string{"Ancient"},
		StartedAt: time.Date(2024, 9, 21, 18, 0, 0, 0, timezone.Location),
	}
	m = n.NormalizeDetails(single)
	require.Equal(t, "Ancient", m.Map)
	require.Equal(t, 1, m.BestOf)
}
