package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/podcastr/internal/episodes"
)

func (m *Model) initDetailViewport() {
	m.detailViewport = viewport.New(0, 0)
}

func (m *Model) resizeDetailViewport() {
	m.detailViewport.Width = max(m.width-4, 0)
	m.detailViewport.Height = max(m.height-chromeHeight-4, 0)
}

// openDetail shows the selected episode's description.
func (m *Model) openDetail() {
	ep, ok := m.selectedEpisode()
	if !ok {
		return
	}
	m.detailViewport.SetContent(m.detailContent(ep))
	m.detailViewport.GotoTop()
	m.showDetail = true
}

func (m Model) detailContent(ep episodes.Episode) string {
	styles := m.theme.Styles()
	width := max(m.detailViewport.Width, 20)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(ep.Title))
	b.WriteString("\n")
	meta := []string{ep.Members, ep.PublishedAt, ep.DurationAsString}
	b.WriteString(styles.MutedText.Render(strings.Join(meta, " · ")))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(ep.URL))
	b.WriteString("\n\n")

	body := plainText(ep.Description)
	if body == "" {
		body = "Sem descrição."
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Render(body))
	return b.String()
}

// handleDetailKey scrolls the description and closes the overlay.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Details):
		m.showDetail = false
		return m, nil
	case key.Matches(msg, m.keys.PlaySelected):
		m.showDetail = false
		m.playSelected()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// renderDetail renders the description overlay above the command bar.
func (m Model) renderDetail() string {
	title := "Episódio"
	if ep, ok := m.selectedEpisode(); ok {
		title = ep.Title
	}
	box := m.renderTitledBox(title, m.detailViewport.View(), m.width, max(m.height-chromeHeight, 2), true)
	return m.renderHeader() + "\n" + m.renderCommandBar() + "\n" + box
}
