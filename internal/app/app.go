package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/focus/internal/config"
	"github.com/five82/focus/internal/history"
	"github.com/five82/focus/internal/prefs"
	"github.com/five82/focus/internal/state"
	"github.com/five82/focus/internal/timer"
	"github.com/five82/focus/internal/ui"
)

// Options configure the focus application.
type Options struct {
	ConfigPath   string
	PrefsPath    string  // empty uses default ~/.config/focus/prefs.toml
	HistoryPath  string  // empty uses the config value
	LogFile      string  // empty uses the config value
	FocusMinutes float64 // zero uses the config value
	BreakMinutes float64 // zero uses the config value
}

// LoadConfig resolves the effective configuration with command line overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.FocusMinutes > 0 {
		cfg.FocusMinutes = opts.FocusMinutes
	}
	if opts.BreakMinutes > 0 {
		cfg.BreakMinutes = opts.BreakMinutes
	}
	if opts.HistoryPath != "" {
		path, err := config.ExpandPath(opts.HistoryPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("history path: %w", err)
		}
		cfg.HistoryPath = path
	}
	if opts.LogFile != "" {
		path, err := config.ExpandPath(opts.LogFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("log file: %w", err)
		}
		cfg.LogFile = path
	}
	return cfg, nil
}

// Run boots the focus TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	// The TUI owns the terminal, so logs go to a file or nowhere.
	if cfg.LogFile != "" {
		logFile, err := tea.LogToFile(cfg.LogFile, "focus")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	sessions, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer sessions.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keeper := timer.New(timer.Options{})
	defer keeper.Close()

	store := &state.Store{}
	wake := make(chan struct{}, 1)

	recorder := NewRecorder(sessions, func(history.Session) {
		select {
		case wake <- struct{}{}:
		default:
		}
	})
	recorderDone := make(chan struct{})
	go func() {
		defer close(recorderDone)
		recorder.Run(ctx, keeper.Subscribe(64))
	}()

	// Start background poller; its first pass populates the store.
	pollerDone := StartPoller(ctx, store, sessions, defaultPollInterval, wake)

	uiErr := ui.Run(ctx, ui.Options{
		Timer:        keeper,
		Store:        store,
		FocusMinutes: cfg.FocusMinutes,
		BreakMinutes: cfg.BreakMinutes,
		ThemeName:    userPrefs.Theme,
		AutoBreak:    userPrefs.AutoBreak,
		PrefsPath:    opts.PrefsPath,
	})
	interrupted := ctx.Err() != nil

	// Teardown order: stop the interval so it is logged, drain the recorder,
	// stop the poller, then let the deferred history Close run.
	keeper.Stop()
	keeper.Close()
	<-recorderDone
	cancel()
	<-pollerDone

	if errors.Is(uiErr, tea.ErrProgramKilled) && interrupted {
		return nil
	}
	return uiErr
}
