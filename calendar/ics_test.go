package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letus-checker/scraper"
)

var jst = time.FixedZone("JST", 9*60*60)

func TestBuildCalendar(t *testing.T) {
	result := scraper.CheckResult{
		Due: []scraper.Assignment{
			{
				Title:      "Report 1",
				Course:     "Physics",
				Link:       "https://letus.ed.tus.ac.jp/mod/assign/view.php?id=42",
				DueAt:      time.Date(2024, 5, 1, 23, 59, 0, 0, jst),
				SourceText: "Report 1 2024年5月1日 23:59",
			},
		},
		Unparsed: []scraper.Assignment{
			{Title: "Mystery quiz", SourceText: "Mystery quiz 期限未定"},
		},
	}

	serialized := BuildCalendar(result).Serialize()
	assert.Contains(t, serialized, "BEGIN:VEVENT")
	assert.Contains(t, serialized, "SUMMARY:Report 1")
	assert.Contains(t, serialized, "mod/assign/view.php")
	// Entries without a recognized due time never make it into the feed.
	assert.NotContains(t, serialized, "Mystery quiz")
}

func TestWriteICS(t *testing.T) {
	result := scraper.CheckResult{
		Due: []scraper.Assignment{
			{Title: "Report 1", Course: "Physics", DueAt: time.Date(2024, 5, 1, 23, 59, 0, 0, jst)},
		},
	}

	path := filepath.Join(t.TempDir(), "deadlines.ics")
	require.NoError(t, WriteICS(result, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DTSTART")
	assert.Contains(t, string(data), "END:VCALENDAR")
}
