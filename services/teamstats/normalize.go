package teamstats

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"forzestats-backend/lib/scrapers/faceit"
	"forzestats-backend/lib/scrapers/hltv"
	"forzestats-backend/lib/timezone"
)

var scoreTextRegex = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)

// positional fields scanned for a textual score, in priority order.
// map iteration is unordered so the fallback has to be explicit to
// keep normalization deterministic.
var scoreTextFields = []string{"i18", "score", "result"}

// Normalizer turns raw source records into canonical matches. Now is
// injectable so records with unparseable dates normalize the same way
// across runs under test.
type Normalizer struct {
	TeamID string
	Now    func() time.Time
}

func NewNormalizer(teamID string) Normalizer {
	return Normalizer{TeamID: teamID, Now: timezone.Now}
}

type recordShape int

const (
	shapeUnknown recordShape = iota
	shapeStructured
	shapePositional
)

func detectShape(raw faceit.RawMatch) recordShape {
	if raw.Map("teams") != nil {
		return shapeStructured
	}
	for _, k := range []string{"i1", "i17", "i18"} {
		if _, ok := raw[k]; ok {
			return shapePositional
		}
	}
	return shapeUnknown
}

// Normalize converts one raw API record. Records whose shape cannot be
// recognized, or that carry no usable score, are rejected rather than
// guessed at.
func (n Normalizer) Normalize(raw faceit.RawMatch, source Source) (Match, bool) {
	var m Match
	var ok bool
	switch detectShape(raw) {
	case shapeStructured:
		m, ok = n.normalizeStructured(raw)
	case shapePositional:
		m, ok = n.normalizePositional(raw)
	default:
		return Match{}, false
	}
	if !ok {
		return Match{}, false
	}
	m.ID = raw.ExtractID()
	m.Source = source
	m.Score = scoreLine(m.OurScore, m.OpponentScore)
	m.Result = ResultFor(m.OurScore, m.OpponentScore)
	if m.BestOf == 0 {
		m.BestOf = 1
	}
	if m.TotalMaps == 0 {
		m.TotalMaps = 1
	}
	n.fillDate(&m, raw)
	return m, true
}

// NormalizeAll normalizes a batch, synthesizing positional ids for
// records the source left unidentified.
func (n Normalizer) NormalizeAll(records []faceit.RawMatch, source Source) []Match {
	matches := make([]Match, 0, len(records))
	for i, raw := range records {
		m, ok := n.Normalize(raw, source)
		if !ok {
			continue
		}
		if m.ID == "" {
			m.ID = fmt.Sprintf("api_%d", i)
		}
		matches = append(matches, m)
	}
	return matches
}

func (n Normalizer) normalizeStructured(raw faceit.RawMatch) (Match, bool) {
	teams := raw.Map("teams")
	var ourKey, oppKey string
	for key, v := range teams {
		faction, _ := v.(map[string]any)
		if faction == nil {
			continue
		}
		id, _ := faction["team_id"].(string)
		if id == n.TeamID {
			ourKey = key
		}
	}
	if ourKey == "" {
		return Match{}, false
	}
	for key := range teams {
		if key != ourKey {
			oppKey = key
		}
	}

	m := Match{
		Event:    "Unknown",
		Opponent: "Unknown",
		Map:      "Unknown",
	}
	if oppKey != "" {
		if faction, _ := teams[oppKey].(map[string]any); faction != nil {
			if name, _ := faction["name"].(string); name != "" {
				m.Opponent = name
			} else if nick, _ := faction["nickname"].(string); nick != "" {
				m.Opponent = nick
			}
		}
	}
	if name := raw.String("competition_name"); name != "" {
		m.Event = name
	}
	m.competitionID = competitionKey(raw)

	our, opp, ok := structuredScore(raw, ourKey, oppKey)
	if !ok {
		our, opp, ok = textualScore(raw)
	}
	if !ok {
		return Match{}, false
	}
	m.OurScore, m.OpponentScore = our, opp
	return m, true
}

func structuredScore(raw faceit.RawMatch, ourKey, oppKey string) (int, int, bool) {
	results := raw.Map("results")
	if results == nil {
		return 0, 0, false
	}
	score, _ := results["score"].(map[string]any)
	if score == nil {
		return 0, 0, false
	}
	our, okOur := scoreNumber(score[ourKey])
	opp, okOpp := scoreNumber(score[oppKey])
	if !okOur || !okOpp {
		return 0, 0, false
	}
	return our, opp, true
}

func scoreNumber(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		return parsed, err == nil
	default:
		return 0, false
	}
}

func textualScore(raw faceit.RawMatch) (int, int, bool) {
	for _, field := range scoreTextFields {
		text := raw.String(field)
		if text == "" {
			continue
		}
		groups := scoreTextRegex.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		our, _ := strconv.Atoi(groups[1])
		opp, _ := strconv.Atoi(groups[2])
		return our, opp, true
	}
	return 0, 0, false
}

func (n Normalizer) normalizePositional(raw faceit.RawMatch) (Match, bool) {
	m := Match{
		Event:    "Unknown",
		Opponent: "Unknown",
		Map:      "Unknown",
	}
	if name := raw.String("i1"); name != "" {
		m.Map = name
	}
	if opp := raw.String("i19"); opp != "" {
		m.Opponent = opp
	}
	if event := raw.String("competition_name"); event != "" {
		m.Event = event
	}
	m.competitionID = competitionKey(raw)

	our, okOur := scoreNumber(raw["i20"])
	opp, okOpp := scoreNumber(raw["i21"])
	if !okOur || !okOpp {
		var ok bool
		our, opp, ok = textualScore(raw)
		if !ok {
			return Match{}, false
		}
	}
	m.OurScore, m.OpponentScore = our, opp
	return m, true
}

func competitionKey(raw faceit.RawMatch) string {
	if id := raw.String("competition_id"); id != "" {
		return id
	}
	if f, ok := raw["competition_id"].(float64); ok {
		return strconv.FormatInt(int64(f), 10)
	}
	return ""
}

func (n Normalizer) fillDate(m *Match, raw faceit.RawMatch) {
	for _, field := range []string{"started_at", "finished_at", "date"} {
		if epoch, ok := raw[field].(float64); ok && epoch > 0 {
			t := time.Unix(int64(epoch), 0).In(timezone.Location)
			m.Date = timezone.FormatDisplay(t)
			m.DateISO = t.Format(time.RFC3339)
			return
		}
	}
	if text := raw.String("date"); text != "" {
		if t, err := time.ParseInLocation("02/01/06", text, timezone.Location); err == nil {
			m.Date = timezone.FormatDisplay(t)
			m.DateISO = t.Format("2006-01-02")
			return
		}
	}
	now := n.Now()
	m.Date = timezone.FormatDisplay(now)
	m.DateISO = now.Format(time.RFC3339)
	m.DateUnknown = true
}

// NormalizeRow converts one scraped results-table row. Rows already
// passed score and date validation in the parser.
func (n Normalizer) NormalizeRow(row hltv.MatchRow, index int) Match {
	m := Match{
		ID:            fmt.Sprintf("stats_%d", index),
		Date:          row.Date,
		DateISO:       row.DateISO,
		Event:         row.Event,
		Opponent:      row.Opponent,
		Map:           row.Map,
		OurScore:      row.OurScore,
		OpponentScore: row.OpponentScore,
		BestOf:        1,
		TotalMaps:     1,
		Source:        SourceHTML,
	}
	if t, err := time.ParseInLocation("2006-01-02", row.DateISO, timezone.Location); err == nil {
		m.Date = timezone.FormatDisplay(t)
	}
	if m.Event == "" {
		m.Event = "Unknown"
	}
	if m.Opponent == "" {
		m.Opponent = "Unknown"
	}
	if m.Map == "" {
		m.Map = "Unknown"
	}
	m.Score = scoreLine(m.OurScore, m.OpponentScore)
	m.Result = ResultFor(m.OurScore, m.OpponentScore)
	return m
}

// NormalizeRows converts a scraped page, newest rows first as HLTV
// serves them.
func (n Normalizer) NormalizeRows(rows []hltv.MatchRow) []Match {
	matches := make([]Match, 0, len(rows))
	for i, row := range rows {
		matches = append(matches, n.NormalizeRow(row, i))
	}
	return matches
}

// NormalizeDetails converts an enriched per-match detail record. These
// carry authoritative series scores and replace the history summary
// for the same match id.
func (n Normalizer) NormalizeDetails(d faceit.MatchDetails) Match {
	totalMaps := d.TotalMaps
	if totalMaps == 0 {
		totalMaps = 1
	}
	m := Match{
		ID:            d.MatchID,
		Event:         d.Competition,
		Opponent:      d.Opponent,
		OurScore:      d.OurScore,
		OpponentScore: d.OppScore,
		BestOf:        BestOfForMaps(totalMaps),
		TotalMaps:     totalMaps,
		Source:        SourceAPI,
	}
	if m.Event == "" {
		m.Event = "Unknown"
	}
	if m.Opponent == "" {
		m.Opponent = "Unknown"
	}
	if totalMaps == 1 && len(d.MapPicks) == 1 {
		m.Map = d.MapPicks[0]
	} else {
		m.Map = fmt.Sprintf("Best of %d", m.BestOf)
	}
	if !d.StartedAt.IsZero() {
		t := d.StartedAt.In(timezone.Location)
		m.Date = timezone.FormatDisplay(t)
		m.DateISO = t.Format(time.RFC3339)
	} else {
		now := n.Now()
		m.Date = timezone.FormatDisplay(now)
		m.DateISO = now.Format(time.RFC3339)
		m.DateUnknown = true
	}
	m.Score = scoreLine(m.OurScore, m.OpponentScore)
	m.Result = ResultFor(m.OurScore, m.OpponentScore)
	return m
}
