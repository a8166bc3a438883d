package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/focus/internal/history"
	"github.com/five82/focus/internal/timer"
)

const recentRows = 5

// renderMain renders header, clock panel, today's totals and the footer.
func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	body := lipgloss.JoinVertical(lipgloss.Center,
		m.renderClock(),
		"",
		m.renderSummary(),
		"",
		m.renderRecent(),
	)

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 0 {
		bodyHeight = 0
	}
	body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderHeader renders the status bar. Every segment and separator carries the
// surface background so the bar has no gaps between styled runs.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.Surface)
	on := func(style lipgloss.Style, text string) string {
		return style.Background(bg).Render(text)
	}

	parts := []string{
		on(styles.Logo, "focus"),
		styles.ModeStyle(m.timerState.Mode).Render(modeLabel(m.timerState.Mode)),
		on(styles.MutedText, stateLabel(m.timerState)),
	}
	if m.autoBreak {
		parts = append(parts, on(styles.AccentText, "auto-break"))
	}
	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, on(styles.FaintText, ts))
	}
	if m.snapshot.IsDegraded() && m.snapshot.LastError != nil {
		parts = append(parts, on(styles.DangerText, "HISTORY "+truncate(m.snapshot.LastError.Error(), 60)))
	}

	sep := lipgloss.NewStyle().Background(bg).Render("  ")
	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderClock renders the countdown, progress bar and elapsed minutes.
func (m Model) renderClock() string {
	styles := m.theme.Styles()
	st := m.timerState

	clockStyle := styles.Clock
	if st.Paused {
		clockStyle = clockStyle.Foreground(lipgloss.Color(m.theme.Warning))
	}

	lines := []string{
		clockStyle.Render(st.FormatTime()),
		"",
		m.progress.ViewAs(clampPercent(st.Progress()) / 100),
		"",
		styles.MutedText.Render(fmt.Sprintf("%d of %d min", st.ElapsedMinutes(), st.Initial/60)),
	}
	if m.notice != "" {
		style := styles.AccentText
		if m.noticeErr {
			style = styles.DangerText
		}
		lines = append(lines, "", style.Render(m.notice))
	}

	return styles.Panel.
		BorderForeground(lipgloss.Color(m.panelBorder())).
		Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// renderSummary renders today's totals from the session log.
func (m Model) renderSummary() string {
	styles := m.theme.Styles()
	if !m.snapshot.HasSummary {
		if m.snapshot.LastError != nil {
			return styles.DangerText.Render("history unavailable")
		}
		return styles.FaintText.Render("loading history...")
	}
	if m.snapshot.Stale(m.now()) {
		return styles.FaintText.Render(fmt.Sprintf("totals from %s, refreshing...",
			m.snapshot.Day.Format("Mon 02 Jan")))
	}
	return styles.Text.Render(formatSummary(m.snapshot.Today))
}

// renderRecent lists the most recent sessions.
func (m Model) renderRecent() string {
	styles := m.theme.Styles()
	if len(m.snapshot.Recent) == 0 {
		return ""
	}

	rows := m.snapshot.Recent
	if len(rows) > recentRows {
		rows = rows[:recentRows]
	}
	lines := make([]string, 0, len(rows))
	for _, s := range rows {
		outcome := styles.MutedText
		if s.Outcome == history.OutcomeCompleted {
			outcome = styles.SuccessText
		}
		lines = append(lines,
			styles.FaintText.Render(s.EndedAt.Local().Format("15:04"))+"  "+
				styles.Text.Render(fmt.Sprintf("%-5s", s.Mode))+"  "+
				outcome.Render(fmt.Sprintf("%-9s", s.Outcome))+"  "+
				styles.MutedText.Render(fmt.Sprintf("%dm", s.ElapsedMinutes())))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	h := m.help
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	h.Styles.ShortDesc = styles.MutedText
	h.Styles.ShortSeparator = styles.FaintText
	return styles.Footer.Width(m.width).Render(h.View(m.keys))
}

func (m Model) panelBorder() string {
	if c, ok := m.theme.ModeColors[m.timerState.Mode]; ok && m.timerState.Running {
		return c
	}
	return m.theme.Border
}

// formatTimestamp formats the last history refresh time.
func (m Model) formatTimestamp() string {
	updated := m.snapshot.LastUpdated
	if updated.IsZero() {
		return ""
	}
	return "synced " + updated.Format("15:04:05")
}

// clampPercent bounds a progress percentage to [0,100].
func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func modeLabel(mode timer.Mode) string {
	switch mode {
	case timer.ModeFocus:
		return "FOCUS"
	case timer.ModeBreak:
		return "BREAK"
	case timer.ModeCompleted:
		return "DONE"
	default:
		return "IDLE"
	}
}

func stateLabel(st timer.State) string {
	switch {
	case st.Mode == timer.ModeCompleted:
		return "complete"
	case st.Mode == timer.ModeIdle:
		return "ready"
	case st.Running && st.Paused:
		return "paused"
	case st.Running:
		return "running"
	default:
		return "reset, enter to restart"
	}
}

func formatSummary(s history.Summary) string {
	return fmt.Sprintf("today  %d focus · %s  %d break · %s  %d completed",
		s.FocusSessions, formatMinutes(s.FocusMinutes),
		s.BreakSessions, formatMinutes(s.BreakMinutes),
		s.Completed)
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:limit-1])) + "…"
}
