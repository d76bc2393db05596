package config

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything one check run needs. Credentials may be left empty
// in the file and resolved from the environment or the OS keyring instead;
// keeping them out of config.json is the recommended setup.
type Config struct {
	DashboardURL   string `json:"dashboard_url"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	LineToken      string `json:"line_token"`
	DueWithinHours int    `json:"due_within_hours"`
	WatchMinutes   int    `json:"watch_minutes"`
	ICSPath        string `json:"ics_path"`
	GithubToken    string `json:"github_token"`
	GithubRepo     string `json:"github_repo"`
	GithubPath     string `json:"github_path"`
	LogLevel       string `json:"log_level"`
	LogFormat      string `json:"log_format"`

	// SkipSubmittedCheck skips visiting each assignment page to see whether
	// it was already handed in, saving one page load per deadline.
	SkipSubmittedCheck bool `json:"skip_submitted_check"`
}

const defaultDashboardURL = "https://letus.ed.tus.ac.jp/my/"

// LoadConfig reads the JSON config file, then applies environment overrides.
// A missing file is not an error: everything can come from the environment.
// A .env file is loaded first if present.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DashboardURL:   defaultDashboardURL,
		DueWithinHours: 48,
		LogLevel:       "info",
		LogFormat:      "pretty",
	}

	file, err := os.Open(filename)
	if err == nil {
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	overrideString(&cfg.DashboardURL, "LETUS_DASHBOARD_URL")
	overrideString(&cfg.Username, "LETUS_USERNAME")
	overrideString(&cfg.Password, "LETUS_PASSWORD")
	overrideString(&cfg.LineToken, "LINE_NOTIFY_TOKEN")
	overrideInt(&cfg.DueWithinHours, "LETUS_DUE_WITHIN_HOURS")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.LogFormat, "LOG_FORMAT")

	return cfg, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
