package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: logo, catalog size and freshness.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("podcastr", styles.Logo)}

	switch {
	case !m.snapshot.HasCatalog && m.snapshot.LastError != nil:
		parts = append(parts,
			bg.Render("API "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)))
	case !m.snapshot.HasCatalog:
		parts = append(parts, bg.Render("Carregando...", styles.WarningText.Bold(true)))
	default:
		parts = append(parts,
			bg.Render("Episódios:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.snapshot.Catalog.Len()), styles.Text))
		if built := formatTimestamp(m.snapshot.LastBuilt, time.Now()); built != "" {
			parts = append(parts,
				bg.Render("Atualizado", styles.MutedText)+bg.Space()+bg.Render(built, styles.Text))
		}
		if m.snapshot.LastError != nil {
			style := styles.WarningText
			if m.snapshot.IsStale() {
				style = styles.DangerText
			}
			parts = append(parts,
				bg.Render(classifyConnectionError(m.snapshot.LastError), style.Bold(true))+bg.Space()+
					bg.Render(fmt.Sprintf("%d falhas", m.snapshot.ConsecutiveFailures), styles.MutedText))
		}
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(styles.Header.Render(bg.Join(parts, "  ")))
}

// formatTimestamp formats t with a relative indicator.
func formatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	since := now.Sub(t)
	out := t.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// classifyConnectionError returns a short description of a fetch error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "malformed episode"):
		return "BAD DATA"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	playLabel := ternary(m.player.IsPlaying(), "Pause", "Play")
	commands := []cmd{
		{"enter", "Play"},
		{"Space", playLabel},
		{"n", "Next"},
		{"b", "Prev"},
		{"s", "Shuffle"},
		{"l", "Loop"},
		{"x", "Clear"},
	}
	if m.width >= LayoutCompactWidth {
		commands = append(commands, cmd{"d", "Details"}, cmd{"r", "Reload"})
	}
	commands = append(commands, cmd{"?", "More"})

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
