package teamstats

import "fmt"

type Source string

const (
	SourceAPI  Source = "FACEIT"
	SourceHTML Source = "HLTV"
)

type Result string

const (
	Win  Result = "W"
	Loss Result = "L"
)

// ResultFor classifies a score line. equal scores count as a loss, the
// upstream never records ties and historically leaned this way, so the
// asymmetry is deliberate and load-bearing for consumers.
func ResultFor(ourScore, opponentScore int) Result {
	if ourScore > opponentScore {
		return Win
	}
	return Loss
}

type MapResult struct {
	Map           string `json:"map"`
	OurScore      int    `json:"our"`
	OpponentScore int    `json:"opp"`
	Won           bool   `json:"won"`
}

// Match is the canonical record every source normalizes into. this is
// the contract the dashboard depends on, renames here break charts.
type Match struct {
	ID      string `json:"id"`
	Date    string `json:"date"`    // display string, DD.MM.YYYY
	DateISO string `json:"dateISO"` // sortable ISO-8601
	// set when the source date could not be parsed and Date/DateISO
	// hold the processing time instead. such matches are excluded
	// from streak math.
	DateUnknown   bool        `json:"dateUnknown,omitempty"`
	Event         string      `json:"event"`
	Opponent      string      `json:"opponent"`
	Map           string      `json:"map"`
	OurScore      int         `json:"our"`
	OpponentScore int         `json:"opp"`
	Score         string      `json:"result"` // "16:12"
	Result        Result      `json:"wl"`
	BestOf        int         `json:"bestOf"`
	TotalMaps     int         `json:"totalMaps"`
	MapResults    []MapResult `json:"maps,omitempty"`
	Source        Source      `json:"source"`

	// grouping key for sources that report one record per map,
	// internal only
	competitionID string
}

func scoreLine(our, opp int) string {
	return fmt.Sprintf("%d:%d", our, opp)
}

// BestOfForMaps derives the series format from the played map count.
// unexpected counts pass through verbatim rather than guessing.
func BestOfForMaps(maps int) int {
	switch {
	case maps <= 1:
		return 1
	case maps <= 3:
		return 3
	case maps <= 5:
		return 5
	default:
		return maps
	}
}
