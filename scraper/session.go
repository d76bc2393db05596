package scraper

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

// navTimeoutMs bounds every page navigation. A page that has not loaded by
// then is reported as a transport failure, not waited on forever.
const navTimeoutMs = 30_000

const (
	loginLinkSelector = "text=Log in"
	usernameSelector  = `input[name="j_username"], input[name="username"]`
	passwordSelector  = `input[name="j_password"], input[name="password"]`

	loginErrorMarker = "ログインエラー"
)

// Session drives one authenticated browser page against the portal. It is
// scoped to a single check: acquire, log in, fetch, Close. Close must run on
// every exit path.
type Session struct {
	page         playwright.Page
	dashboardURL string
	log          zerolog.Logger
}

// NewSession opens a fresh page on the given browser.
func NewSession(browser playwright.Browser, dashboardURL string, log zerolog.Logger) (*Session, error) {
	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", ErrTransport)
	}
	return &Session{page: page, dashboardURL: dashboardURL, log: log}, nil
}

// Close releases the browser page. Safe to call more than once.
func (s *Session) Close() {
	if s.page != nil {
		s.page.Close()
		s.page = nil
	}
}

// Login navigates to the dashboard and completes the login form flow. When
// the browser profile already carries a valid session the form is skipped.
// Returns ErrLoginRejected when the portal refuses the credentials and
// ErrTransport when a page does not load in time.
func (s *Session) Login(creds Credentials) error {
	if err := s.navigate(s.dashboardURL); err != nil {
		return err
	}

	count, err := s.page.Locator(timelineSelector).Count()
	if err == nil && count > 0 {
		s.log.Debug().Msg("session already authenticated, skipping login form")
		return nil
	}

	s.log.Debug().Str("user", creds.Username).Msg("submitting login form")
	if err := s.page.Click(loginLinkSelector, playwright.PageClickOptions{Timeout: playwright.Float(navTimeoutMs)}); err != nil {
		return fmt.Errorf("reaching login form: %w", ErrTransport)
	}
	if err := s.page.Fill(usernameSelector, creds.Username); err != nil {
		return fmt.Errorf("filling username: %w", ErrTransport)
	}
	if err := s.page.Fill(passwordSelector, creds.Password); err != nil {
		return fmt.Errorf("filling password: %w", ErrTransport)
	}
	if err := s.page.Keyboard().Press("Enter"); err != nil {
		return fmt.Errorf("submitting login form: %w", ErrTransport)
	}
	if err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(navTimeoutMs),
	}); err != nil {
		return fmt.Errorf("waiting for login to settle: %w", ErrTransport)
	}

	content, err := s.page.Content()
	if err != nil {
		return fmt.Errorf("reading post-login page: %w", ErrTransport)
	}
	if strings.Contains(content, loginErrorMarker) {
		return fmt.Errorf("portal refused credentials for %q: %w", creds.Username, ErrLoginRejected)
	}
	return nil
}

// FetchListing loads the dashboard and returns its rendered HTML once the
// timeline region has appeared. The timeline is filled in by script after the
// load event, so waiting for the selector rather than the load state is what
// guarantees the assignments are actually in the markup.
func (s *Session) FetchListing() (string, error) {
	if err := s.navigate(s.dashboardURL); err != nil {
		return "", err
	}
	if _, err := s.page.WaitForSelector(timelineSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(navTimeoutMs),
	}); err != nil {
		return "", fmt.Errorf("timeline did not load: %w", ErrTransport)
	}
	content, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("reading dashboard page: %w", ErrTransport)
	}
	return content, nil
}

// IsSubmitted visits an assignment page and reports whether it was already
// handed in, so submitted work is not re-alerted.
func (s *Session) IsSubmitted(link string) (bool, error) {
	if link == "" {
		return false, nil
	}
	if err := s.navigate(link); err != nil {
		return false, err
	}
	content, err := s.page.Content()
	if err != nil {
		return false, fmt.Errorf("reading assignment page: %w", ErrTransport)
	}
	return strings.Contains(content, "提出済") || strings.Contains(content, "Submitted for grading"), nil
}

func (s *Session) navigate(url string) error {
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(navTimeoutMs),
	}); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, ErrTransport)
	}
	return nil
}

// ObtainListing covers the whole session lifecycle for callers that only need
// the raw listing: log in, fetch the dashboard, tear the page down.
func ObtainListing(browser playwright.Browser, creds Credentials, dashboardURL string, log zerolog.Logger) (string, error) {
	session, err := NewSession(browser, dashboardURL, log)
	if err != nil {
		return "", err
	}
	defer session.Close()

	if err := session.Login(creds); err != nil {
		return "", err
	}
	return session.FetchListing()
}
