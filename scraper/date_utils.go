package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// portalLocation is the fixed timezone of the LETUS portal. Every parsed
// deadline carries this zone, never the machine's local zone.
var portalLocation = loadPortalLocation()

func loadPortalLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// duePattern recognizes one due-date notation. Patterns are tried in a fixed
// order; the first whose regexp matches and whose fields are in range wins.
type duePattern struct {
	name  string
	re    *regexp.Regexp
	build func(m []string, now time.Time) (time.Time, bool)
}

var months = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

var duePatterns = []duePattern{
	{
		// 2024年7月5日 15:30
		name: "japanese absolute",
		re:   regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日\s*(\d{1,2}):(\d{2})`),
		build: func(m []string, _ time.Time) (time.Time, bool) {
			return buildDue(atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]), atoi(m[5]))
		},
	},
	{
		// 5 August 2025 at 9:15 PM
		name: "english absolute",
		re:   regexp.MustCompile(`(?i)(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4}).*?(\d{1,2}):(\d{2})\s*(AM|PM)`),
		build: func(m []string, _ time.Time) (time.Time, bool) {
			month, ok := months[strings.ToLower(m[2])]
			if !ok {
				return time.Time{}, false
			}
			hour := atoi(m[4]) % 12
			if strings.EqualFold(m[6], "PM") {
				hour += 12
			}
			return buildDue(atoi(m[3]), month, atoi(m[1]), hour, atoi(m[5]))
		},
	},
	{
		// 2024/07/05 15:30 — the portal renders numeric dates year first,
		// month before day.
		name: "numeric",
		re:   regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})\s+(\d{1,2}):(\d{2})`),
		build: func(m []string, _ time.Time) (time.Time, bool) {
			return buildDue(atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]), atoi(m[5]))
		},
	},
	{
		// today 23:59 / Tomorrow, 8:00
		name: "english relative",
		re:   regexp.MustCompile(`(?i)\b(today|tomorrow)\b\D*?(\d{1,2}):(\d{2})`),
		build: func(m []string, now time.Time) (time.Time, bool) {
			day := now.In(portalLocation)
			if strings.EqualFold(m[1], "tomorrow") {
				day = day.AddDate(0, 0, 1)
			}
			return buildDue(day.Year(), int(day.Month()), day.Day(), atoi(m[2]), atoi(m[3]))
		},
	},
	{
		// 本日 23:59 / 明日 8:00
		name: "japanese relative",
		re:   regexp.MustCompile(`(本日|今日|明日)\s*(\d{1,2}):(\d{2})`),
		build: func(m []string, now time.Time) (time.Time, bool) {
			day := now.In(portalLocation)
			if m[1] == "明日" {
				day = day.AddDate(0, 0, 1)
			}
			return buildDue(day.Year(), int(day.Month()), day.Day(), atoi(m[2]), atoi(m[3]))
		},
	},
}

// ParseDueDate normalizes raw timeline text to a deadline in the portal
// timezone. now anchors relative phrasings like "tomorrow". The second return
// is false when no pattern recognizes the text.
func ParseDueDate(text string, now time.Time) (time.Time, bool) {
	for _, p := range duePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if due, ok := p.build(m, now); ok {
			return due, true
		}
	}
	return time.Time{}, false
}

// buildDue rejects out-of-range fields instead of letting time.Date normalize
// them into a different day.
func buildDue(year, month, day, hour, minute int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, portalLocation), true
}

// atoi converts a string to an integer.
func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}
