package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"letus-checker/calendar"
	"letus-checker/config"
	"letus-checker/logger"
	"letus-checker/notifier"
	"letus-checker/scraper"
	"letus-checker/secrets"
	"letus-checker/uploader"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	configure := flag.Bool("configure", false, "store credentials in the OS keyring and exit")
	clearCreds := flag.Bool("clear-credentials", false, "remove stored credentials from the OS keyring and exit")
	dueWithin := flag.Int("due-within", 0, "deadline window in hours (overrides config)")
	watch := flag.Int("watch", 0, "continuous mode: check every N minutes")
	quiet := flag.Bool("quiet", false, "suppress output when nothing is due")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if *configure {
		if err := runConfigure(); err != nil {
			log.Fatal().Err(err).Msg("configure failed")
		}
		return
	}
	if *clearCreds {
		if err := secrets.Clear(); err != nil {
			log.Fatal().Err(err).Msg("clearing credentials failed")
		}
		fmt.Println("Stored credentials removed.")
		return
	}

	if *dueWithin > 0 {
		cfg.DueWithinHours = *dueWithin
	}
	if *watch > 0 {
		cfg.WatchMinutes = *watch
	}

	creds, err := resolveCredentials(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("no credentials available")
	}

	if cfg.WatchMinutes > 0 {
		interval := time.Duration(cfg.WatchMinutes) * time.Minute
		log.Info().Int("minutes", cfg.WatchMinutes).Msg("watching LETUS")
		for {
			if err := runCheck(cfg, creds, *quiet, log); err != nil {
				if errors.Is(err, scraper.ErrLoginRejected) {
					log.Fatal().Err(err).Msg("credentials rejected, stopping watch")
				}
				log.Error().Err(err).Msg("check failed, retrying next cycle")
			}
			time.Sleep(interval)
		}
	}

	if err := runCheck(cfg, creds, *quiet, log); err != nil {
		log.Fatal().Err(err).Msg("check failed")
	}
}

// runCheck performs one full sequential check: fetch the dashboard, extract
// deadlines inside the lookahead window, drop already-submitted work, then
// push the summary out.
func runCheck(cfg *config.Config, creds scraper.Credentials, quiet bool, log zerolog.Logger) error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("starting playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}
	defer browser.Close()

	now := time.Now()
	lookahead := time.Duration(cfg.DueWithinHours) * time.Hour

	var result scraper.CheckResult
	if cfg.SkipSubmittedCheck {
		page, err := scraper.ObtainListing(browser, creds, cfg.DashboardURL, log)
		if err != nil {
			return err
		}
		result, err = scraper.ExtractDue(page, now, lookahead)
		if err != nil {
			return err
		}
	} else {
		session, err := scraper.NewSession(browser, cfg.DashboardURL, log)
		if err != nil {
			return err
		}
		defer session.Close()

		if err := session.Login(creds); err != nil {
			return err
		}
		page, err := session.FetchListing()
		if err != nil {
			return err
		}
		result, err = scraper.ExtractDue(page, now, lookahead)
		if err != nil {
			return err
		}
		result.Due = dropSubmitted(session, result.Due, log)
	}

	log.Info().
		Int("due", len(result.Due)).
		Int("unparsed", len(result.Unparsed)).
		Msg("check finished")

	if len(result.Due) == 0 && len(result.Unparsed) == 0 {
		if !quiet {
			fmt.Println("No deadlines soon.")
		}
		return nil
	}

	message := notifier.RenderMessage(result, now)
	if cfg.LineToken != "" {
		if err := notifier.New(cfg.LineToken).Send(message); err != nil {
			log.Error().Err(err).Msg("notification failed")
		}
	} else {
		fmt.Println(message)
	}

	if cfg.ICSPath != "" {
		if err := calendar.WriteICS(result, cfg.ICSPath); err != nil {
			log.Error().Err(err).Msg("ics export failed")
		} else if cfg.GithubToken != "" {
			if err := uploader.UploadToGitHub(cfg.GithubToken, cfg.GithubRepo, cfg.GithubPath, cfg.ICSPath); err != nil {
				log.Error().Err(err).Msg("feed upload failed")
			}
		}
	}

	return nil
}

// dropSubmitted filters out assignments that were already handed in. A fetch
// failure on a single assignment page keeps the record: over-reporting beats
// hiding a real deadline.
func dropSubmitted(session *scraper.Session, due []scraper.Assignment, log zerolog.Logger) []scraper.Assignment {
	kept := due[:0]
	for _, a := range due {
		submitted, err := session.IsSubmitted(a.Link)
		if err != nil {
			log.Warn().Err(err).Str("title", a.Title).Msg("could not check submission state")
			kept = append(kept, a)
			continue
		}
		if !submitted {
			kept = append(kept, a)
		}
	}
	return kept
}

// resolveCredentials prefers config/env values and falls back to the OS
// keyring populated by -configure.
func resolveCredentials(cfg *config.Config) (scraper.Credentials, error) {
	creds := scraper.Credentials{Username: cfg.Username, Password: cfg.Password}
	if creds.Username == "" {
		creds.Username = secrets.Get(secrets.KeyUsername)
	}
	if creds.Password == "" {
		creds.Password = secrets.Get(secrets.KeyPassword)
	}
	if cfg.LineToken == "" {
		cfg.LineToken = secrets.Get(secrets.KeyLineToken)
	}
	if creds.Username == "" || creds.Password == "" {
		return scraper.Credentials{}, errors.New("credentials not stored; run with -configure first")
	}
	return creds, nil
}

// runConfigure interactively stores the portal credentials and the optional
// LINE token in the OS keyring.
func runConfigure() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Student ID (LETUS username): ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	fmt.Print("LINE Notify token (optional): ")
	token, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	if err := secrets.Save(secrets.KeyUsername, strings.TrimSpace(username)); err != nil {
		return err
	}
	if err := secrets.Save(secrets.KeyPassword, string(password)); err != nil {
		return err
	}
	if t := strings.TrimSpace(token); t != "" {
		if err := secrets.Save(secrets.KeyLineToken, t); err != nil {
			return err
		}
	}

	fmt.Println("Saved to the OS keyring.")
	return nil
}
