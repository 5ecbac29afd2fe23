package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/podcastr/internal/media"
	"github.com/five82/podcastr/internal/player"
	"github.com/five82/podcastr/internal/prefs"
	"github.com/five82/podcastr/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Player    *player.Player
	Media     media.Element
	Refresh   func() // requests a catalog rebuild; may be nil
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	store     *state.Store
	player    *player.Player
	media     media.Element
	refresh   func()
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Home state
	selectedRow int

	// Detail overlay
	showDetail     bool
	detailViewport viewport.Model

	// Help overlay
	showHelp bool

	// Playback state
	loadedURL string // file currently handed to the media element
	notice    string // last player or refresh message
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = defaultThemeName
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	p := opts.Player
	if p == nil {
		p = player.New()
	}
	element := opts.Media
	if element == nil {
		element = media.Nop{}
	}

	m := Model{
		store:     opts.Store,
		player:    p,
		media:     element,
		refresh:   opts.Refresh,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if cmd := waitForMediaEvent(m.media.Events()); cmd != nil {
		cmds = append(cmds, cmd)
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
		if !m.ready {
			m.initDetailViewport()
		}
		m.ready = true
		m.resizeDetailViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		var prevID string
		if ep, ok := m.selectedEpisode(); ok {
			prevID = ep.ID
		}
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.updateSelection(prevID)
		return m, nil

	case mediaEventMsg:
		m.handleMediaEvent(media.Event(msg))
		return m, waitForMediaEvent(m.media.Events())
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
	if m.showDetail {
		return m.renderDetail()
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
	if m.showDetail {
		return m.handleDetailKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
				logrus.WithError(err).Warn("save prefs")
			}
		}

	case key.Matches(msg, m.keys.Refresh):
		if m.refresh != nil {
			m.refresh()
			m.notice = "Atualizando episódios..."
		}

	case key.Matches(msg, m.keys.Details):
		m.openDetail()

	case key.Matches(msg, m.keys.PlaySelected):
		m.playSelected()
	case key.Matches(msg, m.keys.TogglePlay):
		m.togglePlay()
	case key.Matches(msg, m.keys.Next):
		m.playNext()
	case key.Matches(msg, m.keys.Previous):
		m.playPrevious()
	case key.Matches(msg, m.keys.ToggleShuffle):
		m.player.ToggleShuffle()
	case key.Matches(msg, m.keys.ToggleLoop):
		m.toggleLoop()
	case key.Matches(msg, m.keys.Clear):
		m.clearPlayer()

	default:
		m.handleNavigationKey(msg)
	}
	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderHome())
	b.WriteString("\n")
	b.WriteString(m.renderPlayerBar())
	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type mediaEventMsg media.Event

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

// waitForMediaEvent blocks on the element's event channel. A nil channel
// means the element never reports anything.
func waitForMediaEvent(events <-chan media.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return mediaEventMsg(ev)
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
