package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/five82/podcastr/internal/episodes"
)

const (
	latestTitle = "Últimos lançamentos"
	allTitle    = "Todos episódios"
)

// selectedEpisode returns the episode under the cursor. Rows index the home
// playlist: latest releases first, then everything else.
func (m Model) selectedEpisode() (episodes.Episode, bool) {
	list := m.snapshot.Playlist()
	if m.selectedRow < 0 || m.selectedRow >= len(list) {
		return episodes.Episode{}, false
	}
	return list[m.selectedRow], true
}

// updateSelection keeps the cursor on the same episode after a catalog
// rebuild, or clamps it when that episode is gone.
func (m *Model) updateSelection(prevID string) {
	list := m.snapshot.Playlist()
	if len(list) == 0 {
		m.selectedRow = 0
		return
	}
	if prevID != "" {
		if _, idx, ok := lo.FindIndexOf(list, func(ep episodes.Episode) bool { return ep.ID == prevID }); ok {
			m.selectedRow = idx
			return
		}
	}
	m.selectedRow = lo.Clamp(m.selectedRow, 0, len(list)-1)
}

// handleNavigationKey moves the cursor through the home playlist.
func (m *Model) handleNavigationKey(msg tea.KeyMsg) {
	total := m.snapshot.Catalog.Len()
	if total == 0 {
		return
	}
	page := max(m.allVisibleRows(), 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		m.selectedRow++
	case key.Matches(msg, m.keys.Up):
		m.selectedRow--
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = total - 1
	case key.Matches(msg, m.keys.PageDown):
		m.selectedRow += page
	case key.Matches(msg, m.keys.PageUp):
		m.selectedRow -= page
	default:
		return
	}
	m.selectedRow = lo.Clamp(m.selectedRow, 0, total-1)
}

func (m Model) contentHeight() int {
	return max(m.height-chromeHeight-PlayerBarHeight, 0)
}

// paneHeights splits the content area between the two panes when stacked.
func (m Model) paneHeights() (latest, all int) {
	content := m.contentHeight()
	if m.width >= LayoutWideWidth {
		return content, content
	}
	rows := max(len(m.snapshot.Catalog.Latest), 1)
	latest = min(2+rows*LatestRowHeight, content/2)
	return latest, content - latest
}

// allVisibleRows is the number of table rows that fit in the all pane.
func (m Model) allVisibleRows() int {
	_, all := m.paneHeights()
	return max(all-3, 0) // borders and column header
}

// visibleWindow returns the [start, end) slice of rows to draw so that the
// selected row stays on screen.
func visibleWindow(selected, total, visible int) (int, int) {
	if visible <= 0 || total <= 0 {
		return 0, 0
	}
	if total <= visible {
		return 0, total
	}
	start := 0
	if selected >= visible {
		start = selected - visible + 1
	}
	start = lo.Clamp(start, 0, total-visible)
	return start, start + visible
}

// renderHome renders the latest releases and the episode table.
func (m Model) renderHome() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	if !m.snapshot.HasCatalog || m.snapshot.Catalog.Len() == 0 {
		msg := "Nenhum episódio disponível"
		if !m.snapshot.HasCatalog {
			msg = "Carregando episódios..."
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	latestHeight, allHeight := m.paneHeights()
	latestFocused := m.selectedRow < len(m.snapshot.Catalog.Latest)

	if m.width >= LayoutWideWidth {
		latestWidth := m.width * 40 / 100
		allWidth := m.width - latestWidth
		latestPane := m.renderTitledBox(latestTitle, m.renderLatest(latestWidth-2, latestHeight-2, latestFocused), latestWidth, latestHeight, latestFocused)
		allPane := m.renderTitledBox(allTitle, m.renderAllTable(allWidth-2, allHeight-2, !latestFocused), allWidth, allHeight, !latestFocused)
		return lipgloss.JoinHorizontal(lipgloss.Top, latestPane, allPane)
	}

	latestPane := m.renderTitledBox(latestTitle, m.renderLatest(m.width-2, latestHeight-2, latestFocused), m.width, latestHeight, latestFocused)
	allPane := m.renderTitledBox(allTitle, m.renderAllTable(m.width-2, allHeight-2, !latestFocused), m.width, allHeight, !latestFocused)
	return latestPane + "\n" + allPane
}

func (m Model) paneBg(focused bool) string {
	if focused {
		return m.theme.FocusBg
	}
	return m.theme.SurfaceAlt
}

// isCurrent reports whether ep is the episode loaded in the player.
func (m Model) isCurrent(ep episodes.Episode) bool {
	current, ok := m.player.Current()
	return ok && current.ID == ep.ID && current.URL == ep.URL
}

// renderLatest renders the latest releases, two lines each.
func (m Model) renderLatest(width, height int, focused bool) string {
	latest := m.snapshot.Catalog.Latest
	if len(latest) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Render("Nenhum lançamento")
	}

	bgColor := m.paneBg(focused)
	start, end := visibleWindow(m.selectedRow, len(latest), max(height/LatestRowHeight, 1))

	var lines []string
	for i := start; i < end; i++ {
		ep := latest[i]
		selected := i == m.selectedRow
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		bg := NewBgStyle(rowBg)
		titleStyle, metaStyle := m.rowStyles(selected)

		marker := ternary(m.isCurrent(ep), "▶ ", "  ")
		first := bg.Render(marker, m.markerStyle(selected)) + bg.Render(truncate(ep.Title, width-2), titleStyle.Bold(true))
		meta := strings.Join(lo.Compact([]string{ep.Members, ep.PublishedAt, ep.DurationAsString}), " · ")
		second := bg.Spaces(2) + bg.Render(truncate(meta, width-2), metaStyle)

		lineStyle := lipgloss.NewStyle().Background(lipgloss.Color(rowBg)).Width(width)
		lines = append(lines, lineStyle.Render(first), lineStyle.Render(second))
	}
	return strings.Join(lines, "\n")
}

// renderAllTable renders the remaining episodes as a table.
func (m Model) renderAllTable(width, height int, focused bool) string {
	all := m.snapshot.Catalog.All
	offset := len(m.snapshot.Catalog.Latest)
	if len(all) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Render("Nenhum episódio anterior")
	}

	bgColor := m.paneBg(focused)
	cols := tableColumns(width)

	header := NewBgStyle(bgColor).Render(cols.row("", "Podcast", "Integrantes", "Data", "Duração"), m.theme.Styles().FaintText.Bold(true))
	lines := []string{lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Width(width).Render(header)}

	start, end := visibleWindow(m.selectedRow-offset, len(all), max(height-1, 0))
	for i := start; i < end; i++ {
		ep := all[i]
		selected := i+offset == m.selectedRow
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		titleStyle, _ := m.rowStyles(selected)
		marker := ternary(m.isCurrent(ep), "▶", "")
		content := NewBgStyle(rowBg).Render(cols.row(marker, ep.Title, ep.Members, ep.PublishedAt, ep.DurationAsString), titleStyle)
		lines = append(lines, lipgloss.NewStyle().Background(lipgloss.Color(rowBg)).Width(width).Render(content))
	}
	return strings.Join(lines, "\n")
}

// rowStyles returns title and metadata styles. Selected rows use
// SelectionText everywhere for contrast.
func (m Model) rowStyles(selected bool) (title, meta lipgloss.Style) {
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		return sel, sel
	}
	styles := m.theme.Styles()
	return styles.Text, styles.MutedText
}

func (m Model) markerStyle(selected bool) lipgloss.Style {
	if selected {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
	}
	return m.theme.Styles().SuccessText
}

type columns struct {
	title, members, date, duration int
}

// tableColumns sizes the table for the available width. Narrow terminals
// drop the members column.
func tableColumns(width int) columns {
	c := columns{date: 9, duration: 9}
	rest := width - 2 - c.date - c.duration - 3
	if width >= LayoutCompactWidth {
		c.members = rest * 35 / 100
		rest -= c.members + 1
	}
	c.title = max(rest, 10)
	return c
}

func (c columns) row(marker, title, members, date, duration string) string {
	parts := []string{padRight(marker, 1), padRight(title, c.title)}
	if c.members > 0 {
		parts = append(parts, padRight(members, c.members))
	}
	parts = append(parts, padRight(date, c.date), padRight(duration, c.duration))
	return strings.Join(parts, " ")
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Matches the frame style: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	if width < 4 || height < 2 {
		return ""
	}
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := width - 2
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")

	paddedLines := make([]string, 0, height-2)
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	if len(paddedLines) == 0 {
		return topBorder + "\n" + bottomBorder
	}
	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}

// positionLabel renders "3/12" for the player's place in its playlist.
func positionLabel(index, total int) string {
	if total == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", index+1, total)
}
