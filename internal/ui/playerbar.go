package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	playerTitle = "Tocando agora"
	emptyPlayer = "Selecione um podcast para ouvir"
)

// renderPlayerBar renders the player box at the bottom of the screen.
func (m Model) renderPlayerBar() string {
	focused := m.player.IsPlaying()
	bgColor := m.paneBg(focused)
	innerWidth := max(m.width-4, 0)
	return m.renderTitledBox(playerTitle, m.renderPlayerContent(innerWidth, bgColor), m.width, PlayerBarHeight, focused)
}

func (m Model) renderPlayerContent(width int, bgColor string) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(bgColor)

	ep, ok := m.player.Current()
	if !ok {
		lines := []string{bg.Render(emptyPlayer, styles.MutedText.Bold(true))}
		if m.notice != "" {
			lines = append(lines, bg.Render(truncate(m.notice, width), styles.WarningText))
		}
		return strings.Join(lines, "\n")
	}

	state := ternary(m.player.IsPlaying(), "▶", "⏸")
	title := bg.Render(state, styles.SuccessText) + bg.Space() +
		bg.Render(truncate(ep.Title, max(width-4, 1)), styles.Text.Bold(true))

	meta := []string{}
	if ep.Members != "" {
		meta = append(meta, bg.Render(truncate(ep.Members, 40), styles.MutedText))
	}
	meta = append(meta,
		bg.Render(ep.DurationAsString, styles.MutedText),
		bg.Render(positionLabel(m.player.CurrentIndex(), m.player.Len()), styles.FaintText))

	// Shuffle over a single episode always lands back on it.
	shuffleLabel := "Aleatório"
	if m.player.IsShuffling() && m.player.Len() == 1 {
		shuffleLabel = "Aleatório (repete)"
	}
	controls := []string{
		m.flag("b", "◀ Anterior", m.player.HasPrevious()),
		m.flag("n", "Próximo ▶", m.player.HasNext()),
		m.flag("s", shuffleLabel, m.player.IsShuffling()),
		m.flag("l", "Repetir", m.player.IsLooping()),
	}

	second := bg.Join(meta, "  ") + bg.Spaces(2) + bg.Join(controls, "  ")
	lines := []string{title, second}
	if m.notice != "" {
		lines[1] = lipgloss.NewStyle().MaxWidth(width).Render(lines[1])
		lines = append(lines, bg.Render(truncate(m.notice, width), styles.WarningText))
	}
	return strings.Join(lines, "\n")
}

// flag renders a control hint, bright when active and faint otherwise.
func (m Model) flag(keyName, label string, active bool) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.paneBg(m.player.IsPlaying()))
	style := styles.FaintText
	if active {
		style = styles.AccentText
	}
	return bg.Render(keyName, styles.WarningText) + bg.Sep(":") + bg.Render(label, style)
}
