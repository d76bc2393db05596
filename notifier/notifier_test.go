package notifier

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letus-checker/scraper"
)

var jst = time.FixedZone("JST", 9*60*60)

func sampleResult() scraper.CheckResult {
	return scraper.CheckResult{
		Due: []scraper.Assignment{
			{
				Title:  "Report 1",
				Course: "Physics",
				DueAt:  time.Date(2024, 5, 1, 23, 59, 0, 0, jst),
			},
		},
		Unparsed: []scraper.Assignment{
			{
				Title:      "Mystery quiz",
				Course:     "Chemistry",
				SourceText: "Mystery quiz 期限未定",
			},
		},
	}
}

func TestRenderMessage(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, jst)
	msg := RenderMessage(sampleResult(), now)

	assert.Contains(t, msg, "未提出課題 1 件")
	assert.Contains(t, msg, "Report 1")
	assert.Contains(t, msg, "[Physics]")
	assert.Contains(t, msg, "5/1 23:59")
	assert.Contains(t, msg, "あと 23h")
	assert.Contains(t, msg, "読み取れなかった項目 1 件")
	assert.Contains(t, msg, "Mystery quiz 期限未定")
}

func TestSendDeliversBearerToken(t *testing.T) {
	var gotAuth, gotMessage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseForm())
		gotMessage = r.PostForm.Get("message")
	}))
	defer srv.Close()

	n := New("secret-token")
	n.Endpoint = srv.URL
	require.NoError(t, n.Send("hello"))

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "hello", gotMessage)
}

func TestSendReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := New("bad-token")
	n.Endpoint = srv.URL
	err := n.Send("hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
