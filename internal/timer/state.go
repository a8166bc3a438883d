package timer

import (
	"fmt"
	"strings"
)

// Mode labels the current interval.
type Mode string

const (
	ModeIdle      Mode = "idle"
	ModeFocus     Mode = "focus"
	ModeBreak     Mode = "break"
	ModeCompleted Mode = "completed"
)

// Startable reports whether an interval can be started in this mode.
func (m Mode) Startable() bool {
	return m == ModeFocus || m == ModeBreak
}

// ParseMode maps user input onto a startable mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFocus:
		return ModeFocus, nil
	case ModeBreak:
		return ModeBreak, nil
	}
	return "", fmt.Errorf("%w: mode %q", ErrInvalidArgument, s)
}

// State is the full timer state. Remaining and Initial are whole seconds.
type State struct {
	Remaining int
	Initial   int
	Running   bool
	Paused    bool
	Mode      Mode
}

// IdleState is the state a timer is constructed in and returns to on Stop.
func IdleState() State {
	return State{Mode: ModeIdle}
}

// Eligible reports whether the scheduler may tick.
func (s State) Eligible() bool {
	return s.Running && !s.Paused && s.Remaining > 0
}

// ElapsedSeconds is the part of the interval already counted down.
func (s State) ElapsedSeconds() int {
	elapsed := s.Initial - s.Remaining
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// ElapsedMinutes returns whole minutes counted down so far.
func (s State) ElapsedMinutes() int {
	return s.ElapsedSeconds() / 60
}

// Progress returns the completed share of the interval in percent.
func (s State) Progress() float64 {
	if s.Initial == 0 {
		return 0
	}
	return float64(s.Initial-s.Remaining) / float64(s.Initial) * 100
}

// FormatTime formats the remaining time.
func (s State) FormatTime() string {
	return FormatTime(s.Remaining)
}

// FormatTime renders seconds as MM:SS, or HH:MM:SS from one hour up.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
