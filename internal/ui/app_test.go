package ui

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/focus/internal/clock"
	"github.com/five82/focus/internal/history"
	"github.com/five82/focus/internal/prefs"
	"github.com/five82/focus/internal/state"
	"github.com/five82/focus/internal/timer"
)

func newTestModel(t *testing.T, autoBreak bool) (Model, *timer.Timer, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC))
	tm := timer.New(timer.Options{Clock: fake})
	t.Cleanup(tm.Close)

	m := New(Options{
		Timer:        tm,
		Store:        &state.Store{},
		FocusMinutes: 25,
		BreakMinutes: 5,
		AutoBreak:    autoBreak,
		PrefsPath:    filepath.Join(t.TempDir(), "prefs.toml"),
	})
	return m, tm, fake
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func TestKeys_DriveTimer(t *testing.T) {
	m, tm, fake := newTestModel(t, false)

	m = update(t, m, runes("f"))
	if st := tm.Snapshot(); st.Mode != timer.ModeFocus || !st.Running || st.Remaining != 1500 {
		t.Fatalf("after f: %+v", st)
	}
	if m.timerState.Mode != timer.ModeFocus {
		t.Fatalf("model mode = %s, want focus", m.timerState.Mode)
	}

	fake.Advance(3 * time.Second)
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if st := tm.Snapshot(); !st.Paused || st.Remaining != 1497 {
		t.Fatalf("after space: %+v", st)
	}

	m = update(t, m, runes("r"))
	if st := tm.Snapshot(); st.Running || st.Remaining != 1500 || st.Mode != timer.ModeFocus {
		t.Fatalf("after r: %+v", st)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if st := tm.Snapshot(); !st.Running || st.Remaining != 1500 {
		t.Fatalf("after enter: %+v", st)
	}

	m = update(t, m, runes("b"))
	if st := tm.Snapshot(); st.Mode != timer.ModeBreak || st.Remaining != 300 {
		t.Fatalf("after b: %+v", st)
	}

	m = update(t, m, runes("s"))
	if st := tm.Snapshot(); st != timer.IdleState() {
		t.Fatalf("after s: %+v", st)
	}
	if m.timerState != timer.IdleState() {
		t.Fatalf("model state = %+v, want idle", m.timerState)
	}
}

func TestRestart_WithNothingArmedShowsError(t *testing.T) {
	m, _, _ := newTestModel(t, false)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.noticeErr || m.notice == "" {
		t.Fatalf("notice = %q (err=%v), want error notice", m.notice, m.noticeErr)
	}
}

func TestStart_InvalidDurationShowsError(t *testing.T) {
	m, tm, _ := newTestModel(t, false)
	m.focusMinutes = 0

	m = update(t, m, runes("f"))
	if !m.noticeErr || !strings.Contains(m.notice, "invalid argument") {
		t.Fatalf("notice = %q, want invalid argument", m.notice)
	}
	if tm.Snapshot().Running {
		t.Fatal("timer started with zero duration")
	}
}

// drainUntil feeds queued timer events to the model until one of type want
// has been handled. Events must already be buffered.
func drainUntil(t *testing.T, m Model, want timer.EventType) Model {
	t.Helper()
	for {
		msg := waitForEventCmd(m.events)()
		ev, ok := msg.(timerEventMsg)
		if !ok {
			t.Fatalf("unexpected message %T", msg)
		}
		m = update(t, m, ev)
		if ev.Type == want {
			return m
		}
	}
}

func TestCompletion_AutoBreakStartsBreak(t *testing.T) {
	m, tm, fake := newTestModel(t, true)
	m.focusMinutes = 0.05

	m = update(t, m, runes("f"))
	fake.Advance(3 * time.Second)
	m = drainUntil(t, m, timer.EventCompleted)

	st := tm.Snapshot()
	if st.Mode != timer.ModeBreak || !st.Running || st.Remaining != 300 {
		t.Fatalf("timer after focus completion = %+v, want running break", st)
	}
	if m.timerState != st {
		t.Fatalf("model state = %+v, want %+v", m.timerState, st)
	}
	if m.notice != "focus complete, break started" {
		t.Fatalf("notice = %q", m.notice)
	}
}

func TestCompletion_QueuedBehindNewFocusKeepsFocus(t *testing.T) {
	m, tm, fake := newTestModel(t, true)
	m.focusMinutes = 0.05

	m = update(t, m, runes("f"))
	fake.Advance(3 * time.Second)
	// A new focus interval starts before the completion is handled.
	m = update(t, m, runes("f"))
	m = drainUntil(t, m, timer.EventCompleted)

	st := tm.Snapshot()
	if st.Mode != timer.ModeFocus || !st.Running || st.Remaining != 3 {
		t.Fatalf("timer = %+v, want the new focus interval untouched", st)
	}
	if m.timerState != st {
		t.Fatalf("model state = %+v, want %+v", m.timerState, st)
	}
	if strings.Contains(m.notice, "break started") {
		t.Fatalf("notice = %q, want no auto-break", m.notice)
	}
}

func TestTimerEvent_QueuedTickShowsCurrentState(t *testing.T) {
	m, tm, fake := newTestModel(t, false)

	m = update(t, m, runes("f"))
	fake.Advance(2 * time.Second)
	m = update(t, m, runes("s"))

	// Started and tick events from the stopped interval are still queued.
	m = drainUntil(t, m, timer.EventTick)
	if m.timerState != tm.Snapshot() || m.timerState != timer.IdleState() {
		t.Fatalf("model state = %+v, want idle", m.timerState)
	}
}

func TestCompletion_WithoutAutoBreakStaysCompleted(t *testing.T) {
	m, tm, fake := newTestModel(t, false)
	// Short enough that every tick fits the subscriber buffer.
	m.focusMinutes = 0.5

	m = update(t, m, runes("f"))
	fake.Advance(30 * time.Second)
	m = drainUntil(t, m, timer.EventCompleted)

	if st := tm.Snapshot(); st.Mode != timer.ModeCompleted || st.Running {
		t.Fatalf("timer = %+v, want completed", st)
	}
	if m.timerState.Progress() != 100 {
		t.Fatalf("progress = %v, want 100", m.timerState.Progress())
	}
	if !strings.Contains(m.notice, "focus complete") {
		t.Fatalf("notice = %q", m.notice)
	}
}

func TestTimerClose_EndsEventLoop(t *testing.T) {
	m, tm, _ := newTestModel(t, false)
	tm.Close()

	msg := waitForEventCmd(m.events)()
	if _, ok := msg.(timerClosedMsg); !ok {
		t.Fatalf("message = %T, want timerClosedMsg", msg)
	}
	next, cmd := m.Update(msg)
	if cmd != nil {
		t.Fatal("closed event loop scheduled another wait")
	}
	if next.(Model).events != nil {
		t.Fatal("events channel retained after close")
	}
}

func TestThemeAndAutoBreak_PersistToPrefs(t *testing.T) {
	m, _, _ := newTestModel(t, false)

	m = update(t, m, runes("T"))
	m = update(t, m, runes("a"))
	if m.theme.Name != "Kanagawa" || !m.autoBreak {
		t.Fatalf("theme=%s autoBreak=%v", m.theme.Name, m.autoBreak)
	}

	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Theme != "Kanagawa" || !saved.AutoBreak {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestHelp_AnyKeyCloses(t *testing.T) {
	m, tm, _ := newTestModel(t, false)

	m = update(t, m, runes("?"))
	if !m.showHelp {
		t.Fatal("help not shown")
	}
	m = update(t, m, runes("f"))
	if m.showHelp {
		t.Fatal("help still shown")
	}
	if tm.Snapshot().Running {
		t.Fatal("key that closed help also started the timer")
	}
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t, false)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestView_RendersClockAndSummary(t *testing.T) {
	m, _, _ := newTestModel(t, false)
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View before size = %q", got)
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, runes("f"))
	m = update(t, m, snapshotMsg(state.Snapshot{
		HasSummary: true,
		Day:        history.StartOfDay(time.Now()),
		Today:      history.Summary{FocusSessions: 3, FocusMinutes: 75, Completed: 2},
		Recent: []history.Session{
			{ID: 1, Mode: "focus", Outcome: history.OutcomeCompleted, ElapsedSeconds: 1500},
		},
	}))

	view := m.View()
	for _, want := range []string{"25:00", "FOCUS", "3 focus", "1h15m", "completed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestView_DegradedHistory(t *testing.T) {
	m, _, _ := newTestModel(t, false)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m = update(t, m, snapshotMsg(state.Snapshot{
		LastError:           errors.New("database is locked"),
		ConsecutiveFailures: 2,
	}))

	view := m.View()
	if !strings.Contains(view, "history unavailable") || !strings.Contains(view, "database is locked") {
		t.Fatalf("view does not report history failure:\n%s", view)
	}
}

func TestView_StaleSummaryAfterMidnight(t *testing.T) {
	m, _, _ := newTestModel(t, false)
	day := time.Date(2026, 2, 9, 0, 0, 0, 0, time.Local)
	m.now = func() time.Time { return day.AddDate(0, 0, 1).Add(5 * time.Minute) }

	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m = update(t, m, snapshotMsg(state.Snapshot{
		HasSummary: true,
		Day:        day,
		Today:      history.Summary{FocusSessions: 8, FocusMinutes: 200},
	}))

	view := m.View()
	if strings.Contains(view, "8 focus") {
		t.Fatalf("view shows yesterday's totals as today's:\n%s", view)
	}
	if !strings.Contains(view, "totals from Mon 09 Feb") {
		t.Fatalf("view missing stale marker:\n%s", view)
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-5, 0},
		{0, 0},
		{42.5, 42.5},
		{100, 100},
		{140, 100},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := clampPercent(tt.in); got != tt.want {
			t.Fatalf("clampPercent(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBarWidth(t *testing.T) {
	tests := []struct {
		term int
		want int
	}{
		{0, minBarWidth},
		{30, 22},
		{200, maxBarWidth},
	}
	for _, tt := range tests {
		if got := barWidth(tt.term); got != tt.want {
			t.Fatalf("barWidth(%d) = %d, want %d", tt.term, got, tt.want)
		}
	}
}

func TestStateLabel(t *testing.T) {
	tests := []struct {
		name string
		st   timer.State
		want string
	}{
		{"idle", timer.IdleState(), "ready"},
		{"running", timer.State{Remaining: 10, Initial: 60, Running: true, Mode: timer.ModeFocus}, "running"},
		{"paused", timer.State{Remaining: 10, Initial: 60, Running: true, Paused: true, Mode: timer.ModeBreak}, "paused"},
		{"reset", timer.State{Remaining: 60, Initial: 60, Mode: timer.ModeFocus}, "reset, enter to restart"},
		{"completed", timer.State{Initial: 60, Mode: timer.ModeCompleted}, "complete"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stateLabel(tt.st); got != tt.want {
				t.Fatalf("stateLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatMinutesAndTruncate(t *testing.T) {
	if got := formatMinutes(45); got != "45m" {
		t.Fatalf("formatMinutes(45) = %q", got)
	}
	if got := formatMinutes(125); got != "2h05m" {
		t.Fatalf("formatMinutes(125) = %q", got)
	}
	if got := truncate("database is locked", 8); got != "databas…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}
