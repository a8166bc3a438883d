package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/focus/internal/prefs"
	"github.com/five82/focus/internal/state"
	"github.com/five82/focus/internal/timer"
)

const (
	defaultPollTick = time.Second
	eventBuffer     = 64
	maxBarWidth     = 60
	minBarWidth     = 10
)

// Options configures the UI.
type Options struct {
	Timer        *timer.Timer
	Store        *state.Store
	FocusMinutes float64
	BreakMinutes float64
	ThemeName    string
	AutoBreak    bool
	PrefsPath    string
	PollTick     time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Collaborators
	timer     *timer.Timer
	events    <-chan timer.Event
	store     *state.Store
	prefsPath string
	pollTick  time.Duration
	now       func() time.Time

	// Interval lengths in minutes
	focusMinutes float64
	breakMinutes float64
	autoBreak    bool

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	progress progress.Model
	width    int
	height   int
	ready    bool
	showHelp bool

	// Data state
	timerState timer.State
	snapshot   state.Snapshot
	notice     string
	noticeErr  bool
}

// New creates a new Bubble Tea model subscribed to opts.Timer.
func New(opts Options) Model {
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = defaultPollTick
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		timer:        opts.Timer,
		store:        opts.Store,
		prefsPath:    prefsPath,
		pollTick:     pollTick,
		now:          time.Now,
		focusMinutes: opts.FocusMinutes,
		breakMinutes: opts.BreakMinutes,
		autoBreak:    opts.AutoBreak,
		theme:        GetTheme(themeName),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		progress:     progress.New(progress.WithDefaultGradient()),
		timerState:   timer.IdleState(),
	}
	if opts.Timer != nil {
		m.events = opts.Timer.Subscribe(eventBuffer)
		m.timerState = opts.Timer.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.events != nil {
		cmds = append(cmds, waitForEventCmd(m.events))
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = barWidth(msg.Width)
		m.ready = true
		return m, nil

	case timerEventMsg:
		return m.handleTimerEvent(timer.Event(msg))

	case timerClosedMsg:
		m.events = nil
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()

	case key.Matches(msg, m.keys.AutoBreak):
		m.autoBreak = !m.autoBreak
		m.savePrefs()
		if m.autoBreak {
			m.setNotice("auto-break on", nil)
		} else {
			m.setNotice("auto-break off", nil)
		}

	case key.Matches(msg, m.keys.StartFocus):
		m.start(m.focusMinutes, timer.ModeFocus)

	case key.Matches(msg, m.keys.StartBreak):
		m.start(m.breakMinutes, timer.ModeBreak)

	case key.Matches(msg, m.keys.Restart):
		if m.timer != nil {
			m.setNotice("", m.timer.Restart())
		}

	case key.Matches(msg, m.keys.TogglePause):
		if m.timer != nil {
			m.timer.TogglePause()
		}

	case key.Matches(msg, m.keys.Stop):
		if m.timer != nil {
			m.timer.Stop()
		}

	case key.Matches(msg, m.keys.Reset):
		if m.timer != nil {
			m.timer.Reset()
		}
	}

	m.syncTimer()
	return m, nil
}

// handleTimerEvent applies a state change pushed by the timer and waits for
// the next one. Events are queued, so the displayed state is re-read from the
// timer and a completion only acts while the timer still sits in it.
func (m Model) handleTimerEvent(ev timer.Event) (tea.Model, tea.Cmd) {
	if m.timer == nil {
		m.timerState = ev.State
	} else {
		m.syncTimer()
	}

	if ev.Type == timer.EventCompleted && m.timerState == ev.State {
		switch {
		case ev.Previous.Mode == timer.ModeFocus && m.autoBreak:
			m.start(m.breakMinutes, timer.ModeBreak)
			if !m.noticeErr {
				m.setNotice("focus complete, break started", nil)
			}
			m.syncTimer()
		case ev.Previous.Mode == timer.ModeFocus:
			m.setNotice("focus complete, b for a break", nil)
		default:
			m.setNotice("break over, f to focus", nil)
		}
	}

	if m.events == nil {
		return m, nil
	}
	return m, waitForEventCmd(m.events)
}

// handleTick processes the polling tick. Events can be dropped when the
// subscriber buffer is full, so the timer is re-read as well.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	m.syncTimer()
	return m, tea.Batch(cmds...)
}

func (m *Model) start(minutes float64, mode timer.Mode) {
	if m.timer == nil {
		return
	}
	if err := m.timer.Start(minutes, mode); err != nil {
		m.setNotice("", fmt.Errorf("start %s: %w", mode, err))
		return
	}
	m.setNotice("", nil)
}

func (m *Model) syncTimer() {
	if m.timer != nil {
		m.timerState = m.timer.Snapshot()
	}
}

func (m *Model) setNotice(text string, err error) {
	if err != nil {
		m.notice = err.Error()
		m.noticeErr = true
		return
	}
	m.notice = text
	m.noticeErr = false
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, AutoBreak: m.autoBreak}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

// barWidth sizes the progress bar to the terminal.
func barWidth(termWidth int) int {
	w := termWidth - 8
	if w > maxBarWidth {
		return maxBarWidth
	}
	if w < minBarWidth {
		return minBarWidth
	}
	return w
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type timerEventMsg timer.Event

type timerClosedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func waitForEventCmd(events <-chan timer.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return timerClosedMsg{}
		}
		return timerEventMsg(ev)
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Timer == nil {
		return fmt.Errorf("ui requires a timer")
	}
	if opts.Store == nil {
		return fmt.Errorf("ui requires a data store")
	}

	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
