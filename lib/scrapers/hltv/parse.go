package hltv

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"forzestats-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// the map pool vocabulary used to tell a map cell apart from other
// link text in a row
var mapNameRegex = regexp.MustCompile(`(?i)^(Ancient|Anubis|Dust ?2|Inferno|Mirage|Nuke|Overpass|Train|Vertigo|Tuscan|Cache|Cobblestone|Season)$`)

var (
	dateRegex  = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{2})$`)
	scoreRegex = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
)

// MatchRow is one row of the stats matches table, already validated:
// the date parsed and a score was found.
type MatchRow struct {
	Date          string // DD/MM/YY as displayed
	DateISO       string // YYYY-MM-DD
	Event         string
	Opponent      string
	Map           string
	OurScore      int
	OpponentScore int
	Won           bool
}

// two-digit years only ever mean 20xx here, the site did not exist
// before 2000
func toISOFromDDMMYY(d string) string {
	m := dateRegex.FindStringSubmatch(d)
	if m == nil {
		return ""
	}
	year, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%d-%s-%s", 2000+year, m[2], m[1])
}

// ParseMatches extracts match rows from the stats page markup. a
// document without a matches table legitimately yields no rows (a team
// with no recorded matches), so that is not an error. rows that don't
// look like matches (too few cells, no parseable date or score) are
// skipped silently, the table mixes in header and spacer rows.
func ParseMatches(html string) ([]MatchRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var rows []MatchRow
	doc.Find("table").First().Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := htmlutil.CellTexts(tr)
		if len(cells) < 6 {
			return
		}

		date := cells[0]
		dateISO := toISOFromDDMMYY(date)
		if dateISO == "" {
			return
		}

		anchors := htmlutil.GetAnchors(tr)

		event := cells[1]
		for _, a := range anchors {
			if strings.HasPrefix(a.Href, "/events/") || strings.HasPrefix(a.Href, "/event/") {
				event = a.Name
				break
			}
		}

		opponent := cells[3]
		for _, a := range anchors {
			if strings.HasPrefix(a.Href, "/stats/teams/") {
				opponent = a.Name
				break
			}
		}

		mapName := cells[4]
		for _, a := range anchors {
			if mapNameRegex.MatchString(a.Name) {
				mapName = a.Name
				break
			}
		}

		score := scoreRegex.FindStringSubmatch(strings.Join(cells, " "))
		if score == nil {
			return
		}
		our, err := strconv.Atoi(score[1])
		if err != nil {
			return
		}
		opp, err := strconv.Atoi(score[2])
		if err != nil {
			return
		}

		rows = append(rows, MatchRow{
			Date:          date,
			DateISO:       dateISO,
			Event:         event,
			Opponent:      opponent,
			Map:           mapName,
			OurScore:      our,
			OpponentScore: opp,
			Won:           our > opp,
		})
	})

	return rows, nil
}

type Player struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Status   string `json:"status"`
	Rating30 string `json:"rating30"`
}

// ParseRoster extracts the player table from the team profile page.
func ParseRoster(html string) ([]Player, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var players []Player
	doc.Find(".teamProfile tbody tr").Each(func(i int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 4 {
			return
		}

		nickname := htmlutil.CleanText(tds.Eq(0).Find("a").First().Text())
		if nickname == "" {
			nickname = htmlutil.CleanText(tds.Eq(0).Text())
		}
		if nickname == "" || nickname == "-" {
			return
		}

		status := "N/A"
		statusText := htmlutil.CleanText(tds.Eq(1).Text())
		switch {
		case strings.Contains(statusText, "STARTER") || strings.Contains(statusText, "BENCHED"):
			status = statusText
		case tds.Eq(1).Find(".player-status.starter").Length() > 0:
			status = "STARTER"
		case tds.Eq(1).Find(".player-status.benched").Length() > 0:
			status = "BENCHED"
		}

		rating := "N/A"
		if f, err := strconv.ParseFloat(htmlutil.CleanText(tds.Eq(3).Text()), 64); err == nil {
			rating = strconv.FormatFloat(f, 'f', 2, 64)
		}

		players = append(players, Player{
			ID:       fmt.Sprintf("player_%d", i),
			Nickname: nickname,
			Status:   status,
			Rating30: rating,
		})
	})

	return players, nil
}

type UpcomingMatch struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Event    string `json:"event"`
	Opponent string `json:"opponent"`
}

// ParseUpcoming extracts scheduled matches from the team profile page.
func ParseUpcoming(html string) ([]UpcomingMatch, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var upcoming []UpcomingMatch
	doc.Find("#upcoming_matches_box tbody tr").Each(func(i int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 3 {
			return
		}

		date := htmlutil.CleanText(tds.Eq(0).Text())
		if date == "" || date == "-" || len(date) <= 5 {
			return
		}

		event := htmlutil.CleanText(tds.Eq(1).Find("a").First().Text())
		if event == "" {
			event = htmlutil.CleanText(tds.Eq(1).Text())
		}
		if event == "" {
			event = "N/A"
		}

		opponent := htmlutil.CleanText(tds.Eq(2).Find("a").First().Text())
		if opponent == "" {
			opponent = htmlutil.CleanText(tds.Eq(2).Text())
		}
		if opponent == "" || opponent == "-" {
			return
		}

		upcoming = append(upcoming, UpcomingMatch{
			ID:       fmt.Sprintf("upcoming_%d", i),
			Date:     date,
			Event:    event,
			Opponent: opponent,
		})
	})

	return upcoming, nil
}
