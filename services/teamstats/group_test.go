package teamstats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func perMapRecord(id, mapName string, our, opp int) Match {
	return Match{
		ID:            id,
		DateISO:       "2024-09-10T18:00:00+03:00",
		Event:         "Cup",
		Opponent:      "Rival",
		Map:           mapName,
		OurScore:      our,
		OpponentScore: opp,
		Score:         scoreLine(our, opp),
		Result:        ResultFor(our, opp),
		BestOf:        1,
		TotalMaps:     1,
		Source:        SourceAPI,
		competitionID: "comp-1",
	}
}

func TestGroupMapsFoldsSeries(t *testing.T) {
	matches := []Match{
		perMapRecord("a", "Mirage", 16, 10),
		perMapRecord("b", "Nuke", 9, 16),
		perMapRecord("c", "Inferno", 16, 14),
	}

	got := GroupMaps(matches)
	require.Len(t, got, 1)
	series := got[0]
	require.Equal(t, "a", series.ID)
	require.Equal(t, 3, series.TotalMaps)
	require.Equal(t, 3, series.BestOf)
	require.Equal(t, "Best of 3", series.Map)
	require.Equal(t, Win, series.Result)
	require.Equal(t, "2:1", series.Score)
	require.Len(t, series.MapResults, 3)
	require.False(t, series.MapResults[1].Won)
}

func TestGroupMapsLeavesDistinctMatchesAlone(t *testing.T) {
	other := perMapRecord("x", "Mirage", 16, 10)
	other.Opponent = "Somebody Else"
	matches := []Match{
		perMapRecord("a", "Mirage", 16, 10),
		other,
	}

	got := GroupMaps(matches)
	require.Len(t, got, 2, "different opponents never merge")
}

func TestGroupMapsRequiresDistinctMaps(t *testing.T) {
	matches := []Match{
		perMapRecord("a", "Mirage", 16, 10),
		perMapRecord("b", "Mirage", 10, 16),
	}

	got := GroupMaps(matches)
	require.Len(t, got, 2, "two games on the same map are separate matches")
}

func TestGroupMapsSkipsRecordsWithoutCompetition(t *testing.T) {
	a := perMapRecord("a", "Mirage", 16, 10)
	b := perMapRecord("b", "Nuke", 9, 16)
	a.competitionID = ""
	b.competitionID = ""

	got := GroupMaps([]Match{a, b})
	require.Len(t, got, 2)
}

func TestGroupMapsLeavesSeriesRecordsAlone(t *testing.T) {
	series := perMapRecord("a", "Best of 3", 2, 1)
	series.TotalMaps = 3
	series.BestOf = 3

	got := GroupMaps([]Match{series, perMapRecord("b", "Nuke", 9, 16)})
	require.Len(t, got, 2, "already-folded series must not regroup")
}

func TestBestOfForMaps(t *testing.T) {
	require.Equal(t, 1, BestOfForMaps(1))
	require.Equal(t, 3, BestOfForMaps(2))
	require.Equal(t, 3, BestOfForMaps(3))
	require.Equal(t, 5, BestOfForMaps(4))
	require.Equal(t, 5, BestOfForMaps(5))
	require.Equal(t, 7, BestOfForMaps(7))
}
