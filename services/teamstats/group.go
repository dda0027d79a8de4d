package teamstats

import (
	"fmt"
	"strings"
)

type groupKey struct {
	competition string
	day         string
	opponent    string
	event       string
}

// GroupMaps folds per-map records into one series record. Some history
// responses list every played map as its own match, detectable because
// the records share a competition id, day and opponent but differ by
// map. Records that do not fit that pattern pass through untouched.
func GroupMaps(matches []Match) []Match {
	var order []groupKey
	groups := make(map[groupKey][]int)
	for i, m := range matches {
		if !groupable(m) {
			continue
		}
		k := groupKey{m.competitionID, dayOf(m.DateISO), m.Opponent, m.Event}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	folded := make(map[int]Match)
	drop := make(map[int]bool)
	for _, k := range order {
		idxs := groups[k]
		if len(idxs) < 2 || !distinctMaps(matches, idxs) {
			continue
		}
		series := foldSeries(matches, idxs)
		folded[idxs[0]] = series
		for _, i := range idxs[1:] {
			drop[i] = true
		}
	}

	out := make([]Match, 0, len(matches))
	for i, m := range matches {
		if drop[i] {
			continue
		}
		if series, ok := folded[i]; ok {
			out = append(out, series)
			continue
		}
		out = append(out, m)
	}
	return out
}

func groupable(m Match) bool {
	return m.competitionID != "" && m.TotalMaps <= 1 && len(m.MapResults) == 0
}

func distinctMaps(matches []Match, idxs []int) bool {
	first := matches[idxs[0]].Map
	for _, i := range idxs[1:] {
		if matches[i].Map != first {
			return true
		}
	}
	return false
}

func foldSeries(matches []Match, idxs []int) Match {
	series := matches[idxs[0]]
	series.MapResults = make([]MapResult, 0, len(idxs))
	ourWins := 0
	for _, i := range idxs {
		m := matches[i]
		won := m.OurScore > m.OpponentScore
		if won {
			ourWins++
		}
		series.MapResults = append(series.MapResults, MapResult{
			Map:           m.Map,
			OurScore:      m.OurScore,
			OpponentScore: m.OpponentScore,
			Won:           won,
		})
	}
	series.TotalMaps = len(idxs)
	series.BestOf = BestOfForMaps(len(idxs))
	series.Map = fmt.Sprintf("Best of %d", series.BestOf)
	series.OurScore = ourWins
	series.OpponentScore = len(idxs) - ourWins
	series.Score = scoreLine(series.OurScore, series.OpponentScore)
	series.Result = ResultFor(series.OurScore, series.OpponentScore)
	return series
}

func dayOf(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return strings.TrimSpace(iso)
}
