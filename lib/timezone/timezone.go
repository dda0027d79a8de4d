package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Moscow")
	if err != nil {
		panic(err)
	}
}

// force the timezone the dashboard audience lives in, our servers
// sometimes end up in other regions which disturbs date math based
// on <time.Time>.Year()/Month()/Day()
func Now() time.Time {
	return time.Now().In(Location)
}

// display format used by the dashboard tables
func FormatDisplay(t time.Time) string {
	return t.In(Location).Format("02.01.2006")
}
