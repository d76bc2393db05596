package scraper

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	timelineSelector     = `[data-region="timeline"]`
	timelineItemSelector = `[data-region="timeline-item"]`

	missingTitle  = "(untitled assignment)"
	missingCourse = "(unknown course)"
)

// ExtractDue parses the rendered dashboard page into assignment records,
// normalizes each due date to the portal timezone and keeps exactly the
// assignments with now <= due < now+lookahead. The lower bound is inclusive,
// the upper bound exclusive, so an item due exactly at the window edge is
// picked up by the next check instead of being reported twice.
//
// A single unrecognized date never fails the batch; such records end up in
// CheckResult.Unparsed. ExtractDue returns ErrPageStructure only when the
// timeline region itself is missing, meaning the page layout changed.
func ExtractDue(page string, now time.Time, lookahead time.Duration) (CheckResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return CheckResult{}, fmt.Errorf("parsing dashboard HTML: %w", ErrPageStructure)
	}
	if doc.Find(timelineSelector).Length() == 0 {
		return CheckResult{}, fmt.Errorf("timeline region not found: %w", ErrPageStructure)
	}

	var result CheckResult
	deadline := now.Add(lookahead)
	doc.Find(timelineItemSelector).Each(func(i int, s *goquery.Selection) {
		a := parseTimelineItem(s, now)
		if a.DueAt.IsZero() {
			result.Unparsed = append(result.Unparsed, a)
			return
		}
		if a.DueAt.Before(now) || !a.DueAt.Before(deadline) {
			return
		}
		result.Due = append(result.Due, a)
	})

	sort.Slice(result.Due, func(i, j int) bool {
		if !result.Due[i].DueAt.Equal(result.Due[j].DueAt) {
			return result.Due[i].DueAt.Before(result.Due[j].DueAt)
		}
		return result.Due[i].Title < result.Due[j].Title
	})

	return result, nil
}

// parseTimelineItem extracts one assignment from a timeline entry. Missing
// title or course text is substituted with a placeholder; only the date text
// decides whether the record counts as parsed.
func parseTimelineItem(s *goquery.Selection, now time.Time) Assignment {
	sourceText := squashSpace(s.Text())

	title := squashSpace(s.Find("a").First().Text())
	if title == "" {
		title = missingTitle
	}
	course := squashSpace(s.Find("small").First().Text())
	if course == "" {
		course = missingCourse
	}
	link, _ := s.Find("a").First().Attr("href")

	a := Assignment{
		Title:      title,
		Course:     course,
		Link:       link,
		SourceText: sourceText,
	}
	if due, ok := ParseDueDate(sourceText, now); ok {
		a.DueAt = due
	}
	return a
}

// squashSpace collapses runs of whitespace, including newlines from nested
// markup, into single spaces.
func squashSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
