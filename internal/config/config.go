package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the interval lengths and file locations focus uses.
type Config struct {
	FocusMinutes float64
	BreakMinutes float64
	HistoryPath  string
	LogFile      string
}

const (
	defaultConfigPath   = "~/.config/focus/config.toml"
	defaultHistoryPath  = "~/.local/share/focus/history.db"
	defaultFocusMinutes = 25
	defaultBreakMinutes = 5
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		FocusMinutes: defaultFocusMinutes,
		BreakMinutes: defaultBreakMinutes,
		HistoryPath:  mustExpand(defaultHistoryPath),
	}
}

// Load locates and parses the focus config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		FocusMinutes float64 `toml:"focus_minutes"`
		BreakMinutes float64 `toml:"break_minutes"`
		HistoryPath  string  `toml:"history_path"`
		LogFile      string  `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if validMinutes(raw.FocusMinutes) {
		cfg.FocusMinutes = raw.FocusMinutes
	}
	if validMinutes(raw.BreakMinutes) {
		cfg.BreakMinutes = raw.BreakMinutes
	}

	if historyPath := strings.TrimSpace(raw.HistoryPath); historyPath != "" {
		cfg.HistoryPath = mustExpand(historyPath)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	return cfg, nil
}

// ExpandPath resolves ~ and relative paths the same way Load does.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func validMinutes(m float64) bool {
	return m > 0 && !math.IsInf(m, 0) && !math.IsNaN(m)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
