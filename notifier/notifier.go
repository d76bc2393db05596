// Package notifier delivers check results as a push notification over the
// LINE Notify webhook API.
package notifier

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"letus-checker/scraper"
)

const defaultEndpoint = "https://notify-api.line.me/api/notify"

type Notifier struct {
	Endpoint string
	Token    string
	client   *http.Client
}

func New(token string) *Notifier {
	return &Notifier{
		Endpoint: defaultEndpoint,
		Token:    token,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Send pushes a text message to the configured channel.
func (n *Notifier) Send(message string) error {
	form := url.Values{"message": {message}}
	req, err := http.NewRequest("POST", n.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("error creating notify request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.Token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending notification: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notify failed, status code: %d, response: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// RenderMessage formats a check result the way it is pushed to LINE: one line
// per due assignment with course, due time and hours remaining, then a note
// listing entries whose date text could not be read.
func RenderMessage(result scraper.CheckResult, now time.Time) string {
	lines := []string{fmt.Sprintf("⚠ LETUS: 未提出課題 %d 件", len(result.Due))}
	for _, a := range result.Due {
		hrs := int(a.DueAt.Sub(now).Hours())
		lines = append(lines, fmt.Sprintf("• %s [%s] %s (あと %dh)",
			a.Title, a.Course, a.DueAt.Format("1/2 15:04"), hrs))
	}
	if len(result.Unparsed) > 0 {
		lines = append(lines, fmt.Sprintf("※ 期限を読み取れなかった項目 %d 件:", len(result.Unparsed)))
		for _, a := range result.Unparsed {
			lines = append(lines, "  - "+a.SourceText)
		}
	}
	return strings.Join(lines, "\n")
}
