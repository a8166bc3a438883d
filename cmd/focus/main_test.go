package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/five82/focus/internal/history"
	"github.com/five82/focus/internal/timer"
)

func seedHistory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = store.Close() }()

	now := time.Now()
	sessions := []history.Session{
		{Mode: "focus", Outcome: history.OutcomeCompleted, PlannedSeconds: 1500, ElapsedSeconds: 1500,
			StartedAt: now.Add(-40 * time.Minute), EndedAt: now.Add(-15 * time.Minute)},
		{Mode: "break", Outcome: history.OutcomeStopped, PlannedSeconds: 300, ElapsedSeconds: 90,
			StartedAt: now.Add(-15 * time.Minute), EndedAt: now.Add(-13*time.Minute - 30*time.Second)},
	}
	for _, s := range sessions {
		if _, err := store.Record(context.Background(), s); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "missing.toml")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestHistoryCmd_Table(t *testing.T) {
	db := seedHistory(t)

	out, err := execute(t, "--history", db, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Fatalf("header = %q", lines[0])
	}
	// Newest first.
	if !strings.Contains(lines[1], "break") || !strings.Contains(lines[1], "1m30s") {
		t.Fatalf("first row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "focus") || !strings.Contains(lines[2], "25m") {
		t.Fatalf("second row = %q", lines[2])
	}
}

func TestHistoryCmd_JSONLimit(t *testing.T) {
	db := seedHistory(t)

	out, err := execute(t, "--history", db, "history", "--format", "json", "--limit", "1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var sessions []history.Session
	if err := json.Unmarshal([]byte(out), &sessions); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if len(sessions) != 1 || sessions[0].Mode != "break" || sessions[0].ElapsedSeconds != 90 {
		t.Fatalf("sessions = %#v", sessions)
	}
}

func TestHistoryCmd_EmptyYAML(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")

	out, err := execute(t, "--history", db, "history", "--format", "yaml")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("output = %q, want []", out)
	}
}

func TestHistoryCmd_ModeFilter(t *testing.T) {
	db := seedHistory(t)

	out, err := execute(t, "--history", db, "history", "--mode", " Break ", "--format", "json")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var sessions []history.Session
	if err := json.Unmarshal([]byte(out), &sessions); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if len(sessions) != 1 || sessions[0].Mode != "break" {
		t.Fatalf("sessions = %#v, want only the break", sessions)
	}

	out, err = execute(t, "--history", db, "history", "--mode", "focus")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if strings.Contains(out, "break") || !strings.Contains(out, "focus") {
		t.Fatalf("focus-only table = %q", out)
	}
}

func TestHistoryCmd_RejectsBadFlags(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	if _, err := execute(t, "--history", db, "history", "--format", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if _, err := execute(t, "--history", db, "history", "--limit", "0"); err == nil {
		t.Fatal("expected error for zero limit")
	}
	for _, mode := range []string{"idle", "completed", "nap"} {
		_, err := execute(t, "--history", db, "history", "--mode", mode)
		if !errors.Is(err, timer.ErrInvalidArgument) {
			t.Fatalf("--mode %s: err = %v, want ErrInvalidArgument", mode, err)
		}
	}
}

func TestSummaryCmd(t *testing.T) {
	// Sessions end a quarter hour ago; skip the window where that is yesterday.
	if now := time.Now(); now.Sub(history.StartOfDay(now)) < time.Hour {
		t.Skip("too close to midnight for a same-day summary")
	}
	db := seedHistory(t)

	out, err := execute(t, "--history", db, "summary", "--format", "yaml")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	var summary history.Summary
	if err := yaml.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	want := history.Summary{FocusSessions: 1, BreakSessions: 1, Completed: 1, FocusMinutes: 25, BreakMinutes: 1}
	if summary != want {
		t.Fatalf("summary = %#v, want %#v", summary, want)
	}

	out, err = execute(t, "--history", db, "summary")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(out, "focus") || !strings.Contains(out, "25 min") {
		t.Fatalf("table output = %q", out)
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{45, "45s"},
		{90, "1m30s"},
		{1500, "25m"},
		{3605, "60m05s"},
	}
	for _, tt := range tests {
		if got := formatSeconds(tt.in); got != tt.want {
			t.Fatalf("formatSeconds(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
