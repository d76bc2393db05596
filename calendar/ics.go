// Package calendar renders check results as an iCalendar feed that calendar
// apps can subscribe to.
package calendar

import (
	"fmt"
	"os"
	"strings"

	ics "github.com/arran4/golang-ical"

	"letus-checker/scraper"
)

// BuildCalendar converts the due assignments into VEVENTs, one per deadline.
// Unparsed entries carry no usable time and are left out of the feed; they are
// reported through the notifier instead.
func BuildCalendar(result scraper.CheckResult) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//letus-checker//EN")

	for _, a := range result.Due {
		event := cal.AddEvent(eventUID(a))
		event.SetDtStampTime(a.DueAt)
		event.SetStartAt(a.DueAt)
		event.SetEndAt(a.DueAt)
		event.SetSummary(a.Title)
		event.SetDescription(fmt.Sprintf("%s\n%s", a.Course, a.SourceText))
		if a.Link != "" {
			event.SetURL(a.Link)
		}
	}
	return cal
}

// WriteICS serializes the feed to the given path.
func WriteICS(result scraper.CheckResult, path string) error {
	cal := BuildCalendar(result)
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("error writing ics file: %v", err)
	}
	return nil
}

// eventUID builds a stable identifier so re-running the check does not
// duplicate events in subscribing calendars.
func eventUID(a scraper.Assignment) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, a.Title)
	return fmt.Sprintf("%d-%s@letus-checker", a.DueAt.Unix(), slug)
}
