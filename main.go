package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saravenpi/switchboard/internal/adminapi"
	"github.com/saravenpi/switchboard/internal/config"
	"github.com/saravenpi/switchboard/internal/dispatch"
	"github.com/saravenpi/switchboard/internal/history"
	"github.com/saravenpi/switchboard/internal/twin"
	"github.com/saravenpi/switchboard/internal/ui"
)

const version = "1.0.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "-v", "--version":
			fmt.Printf("Switchboard v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		case "config":
			exitOn(runConfig())
			return
		case "history":
			exitOn(runHistory(os.Args[2:]))
			return
		case "twin":
			exitOn(runTwin(os.Args[2:]))
			return
		case "user":
			if len(os.Args) < 3 {
				fmt.Println("Usage: switchboard user <id>")
				os.Exit(1)
			}
			exitOn(runConsole(os.Args[2]))
			return
		default:
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	exitOn(runConsole(""))
}

func exitOn(err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// runConsole starts the TUI, on the main menu or, given userID, straight on
// that user's actions panel.
func runConsole(userID string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	client := adminapi.NewClient(adminapi.Options{
		BaseURL:    cfg.APIURL,
		Tokens:     cfg.Tokens(),
		AuthScheme: cfg.AuthScheme,
		Timeout:    cfg.Timeout(),
		Logger:     logger,
	})

	var hist ui.HistoryStore
	if cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			logger.Warn("history disabled", "err", err)
		} else {
			defer store.Close()
			hist = store
		}
	}

	app := ui.NewApp(client, hist, logger)
	var initial tea.Model = ui.NewMenuModel(app)
	if userID != "" {
		initial = ui.NewActionsModel(app, dispatch.Payload{UserID: userID})
	}

	logger.Info("console started", "api", cfg.APIURL, "deep_link", userID != "")
	p := tea.NewProgram(initial, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// openLog routes the standard logger and a slog handler to the log file; the
// terminal belongs to the TUI.
func openLog(cfg *config.Config) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(cfg.LogFile, "switchboard")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}

func runConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	out, err := cfg.Redacted().YAML()
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n%s", config.DefaultPath(), out)
	return nil
}

func runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fs.Int("limit", 50, "Number of entries to show")
	mobile := fs.String("mobile", "", "Only entries for this phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var entries []history.Entry
	if *mobile != "" {
		entries, err = store.ForMobile(ctx, *mobile, *limit)
	} else {
		entries, err = store.Recent(ctx, *limit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No history yet.")
		return nil
	}
	for _, e := range entries {
		result := "ok"
		if !e.OK {
			result = "failed"
			if e.Message != "" {
				result += ": " + e.Message
			}
		}
		fmt.Printf("%s  %-20s %-14s %-16s %s\n",
			e.At.Local().Format(time.DateTime), e.Action, e.MobileNumber, e.Detail, result)
	}
	return nil
}

func runTwin(args []string) error {
	fs := flag.NewFlagSet("twin", flag.ContinueOnError)
	port := fs.Int("port", 8787, "HTTP listen port")
	token := fs.String("token", "", "Required admin token (empty accepts any)")
	envelope := fs.Bool("envelope", false, "Wrap list responses in {\"data\": ...}")
	maxActive := fs.Int("max-active", 0, "Cap on users with forwarding active (0 = none)")
	fail := fs.Bool("fail", false, "Reject every forwarding status change")
	latency := fs.Duration("latency", 0, "Simulated latency per request")
	users := fs.Int("users", 25, "Number of seeded users")
	messages := fs.Int("messages", 60, "Number of seeded messages")
	seedFile := fs.String("seed-file", "", "Path to JSON fixture for initial state")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	store := twin.NewStore()
	if *seedFile != "" {
		data, err := os.ReadFile(*seedFile)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}
		if err := store.LoadState(data); err != nil {
			return err
		}
	} else {
		store.Seed(*users, *messages)
	}

	h := twin.NewHandler(store, twin.Config{
		Token:      *token,
		Envelope:   *envelope,
		MaxActive:  *maxActive,
		FailStatus: *fail,
		Latency:    *latency,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := twin.Serve(ctx, fmt.Sprintf(":%d", *port), h.Router(), logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printHelp() {
	help := `Switchboard - Messaging Service Admin Console

Usage:
  switchboard                Start the console
  switchboard user <id>      Open the actions panel of one user
  switchboard history        Print the local audit log (-limit N, -mobile NUMBER)
  switchboard config         Print the effective configuration (token redacted)
  switchboard twin           Run an in-memory admin API for local use
  switchboard version        Show version information
  switchboard help           Show this help message

Navigation:
  ↑/↓ or j/k        Navigate lists
  ←/→               Previous/next page
  /                 Search the current list
  Enter             Select/Open item
  r                 Reload the current list
  ESC               Go back
  q                 Quit from the menu
  ctrl+c            Force quit

Actions panel:
  1                 View Form Data (user profile)
  2                 View Messages (sent or received by the user)
  3                 Call Forwarding (ctrl+s save, ctrl+a activate, ctrl+d deactivate)
  4                 Message Forward (tab switch field, ctrl+s send)

Configuration:
  ~/.switchboard/config.yml, then ./.env, then the environment:
  SWITCHBOARD_API_URL        Admin API base URL (required)
  SWITCHBOARD_TOKEN          Admin token
  SWITCHBOARD_TOKEN_FILE     File holding the admin token, re-read on every request
  SWITCHBOARD_AUTH_SCHEME    Optional Authorization scheme, e.g. Bearer
  SWITCHBOARD_TIMEOUT_SECONDS Request timeout (default 10)
  SWITCHBOARD_LOG_FILE       Log file (default ~/.switchboard/switchboard.log)
  SWITCHBOARD_HISTORY_DB     Audit log database (default ~/.switchboard/history.db)
  SWITCHBOARD_DEBUG          Debug logging

Twin flags:
  -port, -token, -envelope, -max-active, -fail, -latency, -users, -messages, -seed-file
`
	fmt.Print(help)
}
