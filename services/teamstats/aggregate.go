package teamstats

import (
	"math"
	"slices"
	"strings"
)

type SourceBreakdown struct {
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"winRate"`
}

type TeamAggregate struct {
	TotalMatches int     `json:"totalMatches"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"winRate"` // percentage, one decimal
	// signed run of identical results starting at the most recent
	// match, positive for wins and negative for losses
	CurrentStreak int                        `json:"currentStreak"`
	MaxWinStreak  int                        `json:"maxWinStreak"`
	MaxLossStreak int                        `json:"maxLossStreak"`
	BySource      map[Source]SourceBreakdown `json:"bySource"`
}

// Aggregate folds matches into headline team numbers. Win/loss totals
// count every match, streaks only run over matches with a trusted
// date because streak order is meaningless otherwise.
func Aggregate(matches []Match) TeamAggregate {
	agg := TeamAggregate{BySource: make(map[Source]SourceBreakdown)}
	for _, m := range matches {
		agg.TotalMatches++
		b := agg.BySource[m.Source]
		b.Matches++
		if m.Result == Win {
			agg.Wins++
			b.Wins++
		} else {
			agg.Losses++
			b.Losses++
		}
		agg.BySource[m.Source] = b
	}
	agg.WinRate = winRate(agg.Wins, agg.TotalMatches)
	for src, b := range agg.BySource {
		b.WinRate = winRate(b.Wins, b.Matches)
		agg.BySource[src] = b
	}

	dated := make([]Match, 0, len(matches))
	for _, m := range matches {
		if !m.DateUnknown {
			dated = append(dated, m)
		}
	}
	slices.SortStableFunc(dated, func(a, b Match) int {
		return strings.Compare(b.DateISO, a.DateISO)
	})
	agg.CurrentStreak = currentStreak(dated)
	agg.MaxWinStreak, agg.MaxLossStreak = maxStreaks(dated)
	return agg
}

func winRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(total)*1000) / 10
}

func currentStreak(dated []Match) int {
	if len(dated) == 0 {
		return 0
	}
	run := 0
	first := dated[0].Result
	for _, m := range dated {
		if m.Result != first {
			break
		}
		run++
	}
	if first == Loss {
		return -run
	}
	return run
}

func maxStreaks(dated []Match) (maxWin, maxLoss int) {
	run := 0
	var last Result
	for _, m := range dated {
		if m.Result == last {
			run++
		} else {
			run = 1
			last = m.Result
		}
		if last == Win && run > maxWin {
			maxWin = run
		}
		if last == Loss && run > maxLoss {
			maxLoss = run
		}
	}
	return maxWin, maxLoss
}

// EstimateRating approximates a ladder rating from headline form when
// the source exposes none. Clamped so a coincidentally perfect or
// hopeless sample does not produce silly numbers.
func EstimateRating(winRatePct, avgKD float64) int {
	rating := 1000 + (winRatePct-50)*10 + (avgKD-1)*200
	if rating < 500 {
		rating = 500
	}
	if rating > 2000 {
		rating = 2000
	}
	return int(math.Round(rating))
}
