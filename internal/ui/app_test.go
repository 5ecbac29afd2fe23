package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/podcastr/internal/episodes"
	"github.com/five82/podcastr/internal/media"
	"github.com/five82/podcastr/internal/player"
	"github.com/five82/podcastr/internal/prefs"
	"github.com/five82/podcastr/internal/state"
)

// fakeElement records every call the UI makes on the media element.
type fakeElement struct {
	loads   []string
	paused  []bool
	loops   []bool
	stops   int
	loadErr error
	events  chan media.Event
}

func (f *fakeElement) Load(url, _ string) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loads = append(f.loads, url)
	return nil
}
func (f *fakeElement) SetPaused(p bool) error { f.paused = append(f.paused, p); return nil }
func (f *fakeElement) SetLoop(l bool) error   { f.loops = append(f.loops, l); return nil }
func (f *fakeElement) Stop() error            { f.stops++; return nil }
func (f *fakeElement) Events() <-chan media.Event {
	if f.events == nil {
		return nil
	}
	return f.events
}
func (f *fakeElement) Close() error { return nil }

func episodeList(n int) []episodes.Episode {
	list := make([]episodes.Episode, n)
	for i := range list {
		id := fmt.Sprintf("%d", i+1)
		list[i] = episodes.Episode{
			ID:               id,
			Title:            "Episode " + id,
			Members:          "Diego e Richard",
			PublishedAt:      "8 jan 21",
			DurationAsString: "01:00:00",
			Description:      "<p>About episode " + id + "</p>",
			URL:              "https://audio/" + id + ".mp3",
		}
	}
	return list
}

func storeWith(list []episodes.Episode) *state.Store {
	store := &state.Store{}
	catalog := episodes.BuildCatalog(list, episodes.DefaultLatestCount)
	store.Update(&catalog, nil)
	return store
}

type harness struct {
	model   Model
	player  *player.Player
	element *fakeElement
	rand    int
}

func newHarness(t *testing.T, n int) *harness {
	t.Helper()
	h := &harness{element: &fakeElement{}}
	h.player = player.New(player.WithRand(func(int) int { return h.rand }))
	h.model = New(Options{
		Store:     storeWith(episodeList(n)),
		Player:    h.player,
		Media:     h.element,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = h.model.Update(msg)
		h.model = next.(Model)
	}
	return cmd
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestEnterPlaysHomePlaylistFromSelectedRow(t *testing.T) {
	h := newHarness(t, 4)

	// Rows 0-1 are the latest releases, 2-3 the table.
	h.press("j", "j", "down", "enter")

	if got := h.player.CurrentIndex(); got != 3 {
		t.Fatalf("CurrentIndex = %d, want 3", got)
	}
	if h.player.Len() != 4 || !h.player.IsPlaying() {
		t.Fatalf("player len=%d playing=%v, want 4 true", h.player.Len(), h.player.IsPlaying())
	}
	if len(h.element.loads) != 1 || h.element.loads[0] != "https://audio/4.mp3" {
		t.Fatalf("loads = %v", h.element.loads)
	}
}

func TestNavigationClamps(t *testing.T) {
	h := newHarness(t, 4)

	h.press("k", "up")
	if h.model.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0", h.model.selectedRow)
	}
	h.press("G", "j")
	if h.model.selectedRow != 3 {
		t.Fatalf("selectedRow = %d, want 3", h.model.selectedRow)
	}
	h.press("g")
	if h.model.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0", h.model.selectedRow)
	}
}

func TestNextAndPreviousAreGuarded(t *testing.T) {
	h := newHarness(t, 3)
	h.press("enter")

	h.press("b")
	if h.player.CurrentIndex() != 0 || len(h.element.loads) != 1 {
		t.Fatalf("previous at start changed state: index=%d loads=%v", h.player.CurrentIndex(), h.element.loads)
	}

	h.press("n", "n")
	if h.player.CurrentIndex() != 2 {
		t.Fatalf("CurrentIndex = %d, want 2", h.player.CurrentIndex())
	}
	h.press("n")
	if h.player.CurrentIndex() != 2 || len(h.element.loads) != 3 {
		t.Fatalf("next at end changed state: index=%d loads=%v", h.player.CurrentIndex(), h.element.loads)
	}

	h.press("p")
	if h.player.CurrentIndex() != 1 || h.element.loads[len(h.element.loads)-1] != "https://audio/2.mp3" {
		t.Fatalf("previous: index=%d loads=%v", h.player.CurrentIndex(), h.element.loads)
	}
}

func TestSpaceTogglesPause(t *testing.T) {
	h := newHarness(t, 2)

	h.press("space")
	if h.player.IsPlaying() || len(h.element.paused) != 0 {
		t.Fatalf("space on empty player should do nothing")
	}

	h.press("enter", "space")
	if h.player.IsPlaying() {
		t.Fatalf("IsPlaying = true after pause")
	}
	if got := h.element.paused[len(h.element.paused)-1]; !got {
		t.Fatalf("element not paused")
	}

	h.press("space")
	if !h.player.IsPlaying() || h.element.paused[len(h.element.paused)-1] {
		t.Fatalf("element not resumed")
	}
	if len(h.element.loads) != 1 {
		t.Fatalf("toggling reloaded the file: %v", h.element.loads)
	}
}

func TestPausedNavigationKeepsElementPaused(t *testing.T) {
	h := newHarness(t, 3)
	h.press("enter", "space", "n")

	if h.player.IsPlaying() {
		t.Fatalf("PlayNext should not change the playing flag")
	}
	if len(h.element.loads) != 2 || !h.element.paused[len(h.element.paused)-1] {
		t.Fatalf("loads=%v paused=%v, want second load then pause", h.element.loads, h.element.paused)
	}
}

func TestLoopAndShuffleKeys(t *testing.T) {
	h := newHarness(t, 2)

	h.press("l")
	if !h.player.IsLooping() || len(h.element.loops) != 1 || !h.element.loops[0] {
		t.Fatalf("loop not forwarded: looping=%v loops=%v", h.player.IsLooping(), h.element.loops)
	}
	h.press("s")
	if !h.player.IsShuffling() {
		t.Fatalf("IsShuffling = false after s")
	}
	h.press("s", "l")
	if h.player.IsShuffling() || h.player.IsLooping() || h.element.loops[1] {
		t.Fatalf("flags not toggled back")
	}
}

func TestClearStopsElementAndKeepsFlags(t *testing.T) {
	h := newHarness(t, 2)
	h.press("enter", "s", "x")

	if h.player.Len() != 0 || h.player.CurrentIndex() != 0 {
		t.Fatalf("player not cleared")
	}
	if !h.player.IsPlaying() || !h.player.IsShuffling() {
		t.Fatalf("Clear should keep flags")
	}
	if h.element.stops != 1 {
		t.Fatalf("stops = %d, want 1", h.element.stops)
	}

	h.press("x")
	if h.element.stops != 1 {
		t.Fatalf("clearing an empty player stopped again")
	}
}

func TestMediaEvents(t *testing.T) {
	t.Run("ignored without a current episode", func(t *testing.T) {
		h := newHarness(t, 2)
		h.send(mediaEventMsg{Kind: media.EventResumed})
		if h.player.IsPlaying() {
			t.Fatalf("resume event on empty player set playing")
		}
	})

	t.Run("pause and resume follow the element", func(t *testing.T) {
		h := newHarness(t, 2)
		h.press("enter")
		h.send(mediaEventMsg{Kind: media.EventPaused})
		if h.player.IsPlaying() {
			t.Fatalf("IsPlaying = true after paused event")
		}
		h.send(mediaEventMsg{Kind: media.EventResumed})
		if !h.player.IsPlaying() {
			t.Fatalf("IsPlaying = false after resumed event")
		}
	})

	t.Run("ended plays next", func(t *testing.T) {
		h := newHarness(t, 3)
		h.press("enter")
		h.send(mediaEventMsg{Kind: media.EventEnded})
		if h.player.CurrentIndex() != 1 {
			t.Fatalf("CurrentIndex = %d, want 1", h.player.CurrentIndex())
		}
		if h.element.loads[len(h.element.loads)-1] != "https://audio/2.mp3" {
			t.Fatalf("loads = %v", h.element.loads)
		}
	})

	t.Run("ended on the last episode clears", func(t *testing.T) {
		h := newHarness(t, 3)
		h.press("G", "enter")
		h.send(mediaEventMsg{Kind: media.EventEnded})
		if h.player.Len() != 0 {
			t.Fatalf("player not cleared after last episode ended")
		}
	})

	t.Run("ended on the last episode with shuffle picks at random", func(t *testing.T) {
		h := newHarness(t, 3)
		h.rand = 0
		h.press("G", "enter", "s")
		h.send(mediaEventMsg{Kind: media.EventEnded})
		if h.player.CurrentIndex() != 0 || h.player.Len() != 3 {
			t.Fatalf("index=%d len=%d, want 0 3", h.player.CurrentIndex(), h.player.Len())
		}
		if h.element.loads[len(h.element.loads)-1] != "https://audio/1.mp3" {
			t.Fatalf("loads = %v", h.element.loads)
		}
	})

	t.Run("ended reloads when the pick is the same episode", func(t *testing.T) {
		h := newHarness(t, 1)
		h.press("enter", "s")
		h.send(mediaEventMsg{Kind: media.EventEnded})
		if len(h.element.loads) != 2 {
			t.Fatalf("loads = %v, want the episode reloaded", h.element.loads)
		}
	})
}

func TestLoadFailureShowsNotice(t *testing.T) {
	h := newHarness(t, 2)
	h.element.loadErr = errors.New("mpv socket not ready")
	h.press("enter")

	if !strings.Contains(h.model.notice, "mpv socket not ready") {
		t.Fatalf("notice = %q", h.model.notice)
	}
	if h.model.loadedURL != "" {
		t.Fatalf("loadedURL = %q after failed load", h.model.loadedURL)
	}

	h.element.loadErr = nil
	h.press("space", "space")
	if len(h.element.loads) != 1 {
		t.Fatalf("toggle should retry the load, loads = %v", h.element.loads)
	}
}

func TestSnapshotKeepsSelectionByID(t *testing.T) {
	h := newHarness(t, 4)
	h.press("j", "j") // episode "3"

	shifted := append([]episodes.Episode{{ID: "new", Title: "Brand new", URL: "https://audio/new.mp3"}}, episodeList(4)...)
	catalog := episodes.BuildCatalog(shifted, episodes.DefaultLatestCount)
	h.send(snapshotMsg(state.Snapshot{Catalog: catalog, HasCatalog: true}))

	if ep, _ := h.model.selectedEpisode(); ep.ID != "3" || h.model.selectedRow != 3 {
		t.Fatalf("selected %q at row %d, want 3 at row 3", ep.ID, h.model.selectedRow)
	}

	catalog = episodes.BuildCatalog(episodeList(2), episodes.DefaultLatestCount)
	h.send(snapshotMsg(state.Snapshot{Catalog: catalog, HasCatalog: true}))
	if h.model.selectedRow != 1 {
		t.Fatalf("selectedRow = %d, want clamped to 1", h.model.selectedRow)
	}
}

func TestRevalidationDoesNotTouchPlayer(t *testing.T) {
	h := newHarness(t, 3)
	h.press("enter")

	catalog := episodes.BuildCatalog(episodeList(1), episodes.DefaultLatestCount)
	h.send(snapshotMsg(state.Snapshot{Catalog: catalog, HasCatalog: true}))

	if h.player.Len() != 3 {
		t.Fatalf("player list changed with the catalog: len=%d", h.player.Len())
	}
}

func TestViewRendersHome(t *testing.T) {
	h := newHarness(t, 3)

	view := h.model.View()
	for _, want := range []string{"Últimos", "lançamentos", "Todos", "episódios", "Selecione", "podcast", "Episode"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}

	h.press("enter")
	view = h.model.View()
	if !strings.Contains(view, "Tocando") || !strings.Contains(view, "1/3") {
		t.Fatalf("player bar missing current episode")
	}
}

func TestViewBeforeResizeAndEmptyCatalog(t *testing.T) {
	m := New(Options{Store: &state.Store{}})
	if m.View() != "Loading..." {
		t.Fatalf("View before resize = %q", m.View())
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if view := next.(Model).View(); !strings.Contains(view, "Carregando") {
		t.Fatalf("empty store view missing loading text")
	}
}

func TestHelpAndDetailOverlays(t *testing.T) {
	h := newHarness(t, 3)

	h.press("?")
	if !h.model.showHelp || !strings.Contains(h.model.View(), "Keyboard") {
		t.Fatalf("help overlay not shown")
	}
	h.press("n")
	if h.model.showHelp || h.player.Len() != 0 {
		t.Fatalf("key while help open should only close help")
	}

	h.press("d")
	if !h.model.showDetail || !strings.Contains(h.model.View(), "About") {
		t.Fatalf("detail overlay not shown")
	}
	h.press("esc")
	if h.model.showDetail {
		t.Fatalf("esc did not close details")
	}

	h.press("d", "enter")
	if h.model.showDetail || h.player.Len() != 3 {
		t.Fatalf("enter in details should play the episode")
	}
}

func TestShuffleOnSingleEpisodeShowsRepeatHint(t *testing.T) {
	h := newHarness(t, 1)
	h.press("enter")
	if strings.Contains(h.model.View(), "Aleatório (repete)") {
		t.Fatalf("repeat hint shown before shuffle")
	}

	h.press("s")
	if !strings.Contains(h.model.View(), "Aleatório (repete)") {
		t.Fatalf("single-episode shuffle should warn that it repeats")
	}

	h.send(mediaEventMsg{Kind: media.EventEnded})
	if h.player.CurrentIndex() != 0 || len(h.element.loads) != 2 {
		t.Fatalf("ended with lone shuffled episode: index=%d loads=%v", h.player.CurrentIndex(), h.element.loads)
	}
}

func TestThemeCycleSavesPrefs(t *testing.T) {
	h := newHarness(t, 1)
	h.press("T")

	if h.model.theme.Name != "Nightfox" {
		t.Fatalf("theme = %q, want Nightfox", h.model.theme.Name)
	}
	saved, err := prefs.Load(h.model.prefsPath)
	if err != nil || saved.Theme != "Nightfox" {
		t.Fatalf("prefs = %#v, %v", saved, err)
	}
}

func TestRefreshKey(t *testing.T) {
	calls := 0
	m := New(Options{Store: storeWith(episodeList(1)), Refresh: func() { calls++ }})
	next, _ := m.Update(keyMsg("r"))
	if calls != 1 || next.(Model).notice == "" {
		t.Fatalf("refresh calls = %d notice = %q", calls, next.(Model).notice)
	}
}

func TestQuitKeys(t *testing.T) {
	h := newHarness(t, 1)
	for _, k := range []tea.KeyMsg{keyMsg("e"), {Type: tea.KeyCtrlC}} {
		_, cmd := h.model.Update(k)
		if cmd == nil {
			t.Fatalf("%s returned nil cmd", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s did not quit", k)
		}
	}
}

func TestWaitForMediaEvent(t *testing.T) {
	if waitForMediaEvent(nil) != nil {
		t.Fatalf("nil channel should not produce a command")
	}
	ch := make(chan media.Event, 1)
	ch <- media.Event{Kind: media.EventEnded}
	msg := waitForMediaEvent(ch)()
	if ev, ok := msg.(mediaEventMsg); !ok || ev.Kind != media.EventEnded {
		t.Fatalf("msg = %#v", msg)
	}
	close(ch)
	if msg := waitForMediaEvent(ch)(); msg != nil {
		t.Fatalf("closed channel produced %#v", msg)
	}
}

func TestVisibleWindow(t *testing.T) {
	cases := []struct {
		selected, total, visible int
		start, end               int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 5, 0, 5},
		{4, 20, 5, 0, 5},
		{5, 20, 5, 1, 6},
		{19, 20, 5, 15, 20},
		{-2, 20, 5, 0, 5},
		{3, 20, 0, 0, 0},
	}
	for _, tc := range cases {
		start, end := visibleWindow(tc.selected, tc.total, tc.visible)
		if start != tc.start || end != tc.end {
			t.Fatalf("visibleWindow(%d, %d, %d) = %d,%d want %d,%d",
				tc.selected, tc.total, tc.visible, start, end, tc.start, tc.end)
		}
	}
}

func TestHelpers(t *testing.T) {
	if got := plainText("<p>Olá &amp; bem-vindos</p><p>Segundo   parágrafo<br/>linha</p>"); got != "Olá & bem-vindos\n\nSegundo parágrafo\nlinha" {
		t.Fatalf("plainText = %q", got)
	}
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := positionLabel(2, 12); got != "3/12" {
		t.Fatalf("positionLabel = %q", got)
	}
	if tableColumns(80).members != 0 || tableColumns(160).members == 0 {
		t.Fatalf("members column should only show on wide tables")
	}

	now := time.Date(2021, 1, 22, 12, 0, 0, 0, time.UTC)
	if got := formatTimestamp(now.Add(-2*time.Hour), now); got != "10:00:00 (2h ago)" {
		t.Fatalf("formatTimestamp = %q", got)
	}
	if formatTimestamp(time.Time{}, now) != "" {
		t.Fatalf("zero timestamp should render empty")
	}

	for msg, want := range map[string]string{
		"dial tcp: connection refused":          "OFFLINE",
		"lookup api: no such host":              "HOST NOT FOUND",
		"context deadline exceeded":             "TIMEOUT",
		"format episodes: malformed episode: x": "BAD DATA",
		"boom":                                  "ERROR",
	} {
		if got := classifyConnectionError(errors.New(msg)); got != want {
			t.Fatalf("classifyConnectionError(%q) = %q, want %q", msg, got, want)
		}
	}
}
