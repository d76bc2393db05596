package scraper

import "time"

// Credentials are held only for the duration of one login and are never logged.
type Credentials struct {
	Username string
	Password string
}

// Assignment represents one entry scraped from the dashboard timeline.
// A zero DueAt means the date text could not be recognized; SourceText keeps
// the raw text verbatim for diagnostics.
type Assignment struct {
	Title      string
	Course     string
	Link       string
	DueAt      time.Time
	SourceText string
}

// CheckResult holds the outcome of one deadline check. Due is sorted ascending
// by DueAt, ties broken by Title. Unparsed holds entries whose date text
// matched no known pattern; they are reported, never silently dropped.
type CheckResult struct {
	Due      []Assignment
	Unparsed []Assignment
}
