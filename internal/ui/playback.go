package ui

import (
	"github.com/sirupsen/logrus"

	"github.com/five82/podcastr/internal/media"
)

// playSelected replaces the player's list with the home playlist and starts
// at the selected row.
func (m *Model) playSelected() {
	list := m.snapshot.Playlist()
	if len(list) == 0 {
		return
	}
	if err := m.player.PlayList(list, m.selectedRow); err != nil {
		m.notice = "Episódio indisponível"
		logrus.WithError(err).WithField("row", m.selectedRow).Warn("play selected")
		return
	}
	m.syncMedia()
}

// togglePlay flips play/pause. With nothing loaded there is nothing to toggle.
func (m *Model) togglePlay() {
	if _, ok := m.player.Current(); !ok {
		return
	}
	m.player.TogglePlay()
	m.syncMedia()
}

func (m *Model) playNext() {
	if !m.player.HasNext() {
		return
	}
	m.player.PlayNext()
	m.syncMedia()
}

func (m *Model) playPrevious() {
	if !m.player.HasPrevious() {
		return
	}
	m.player.PlayPrevious()
	m.syncMedia()
}

func (m *Model) toggleLoop() {
	m.player.ToggleLoop()
	m.mediaResult("loop", m.media.SetLoop(m.player.IsLooping()))
}

func (m *Model) clearPlayer() {
	m.player.Clear()
	m.syncMedia()
}

// syncMedia makes the media element match the player: a new current episode
// is loaded, the same one only follows the playing flag, and an empty player
// stops the element.
func (m *Model) syncMedia() {
	ep, ok := m.player.Current()
	if !ok {
		if m.loadedURL != "" {
			m.loadedURL = ""
			m.mediaResult("stop", m.media.Stop())
		}
		return
	}

	if ep.URL != m.loadedURL {
		if err := m.media.Load(ep.URL, ep.Title); err != nil {
			m.loadedURL = ""
			m.mediaResult("load", err)
			return
		}
		m.loadedURL = ep.URL
		m.notice = ""
		if m.player.IsPlaying() {
			return
		}
	}
	m.mediaResult("pause", m.media.SetPaused(!m.player.IsPlaying()))
}

// handleMediaEvent applies a notification from the media element. Pause
// and resume keep the playing flag in step with the element's own controls;
// the end of a file advances to the next episode or clears the player.
func (m *Model) handleMediaEvent(ev media.Event) {
	if _, ok := m.player.Current(); !ok {
		return
	}
	switch ev.Kind {
	case media.EventPaused:
		m.player.SetPlayingState(false)
	case media.EventResumed:
		m.player.SetPlayingState(true)
	case media.EventEnded:
		// The element is idle now; whatever comes next must be reloaded.
		m.loadedURL = ""
		if m.player.HasNext() {
			m.player.PlayNext()
			m.syncMedia()
			return
		}
		m.player.Clear()
	}
}

func (m *Model) mediaResult(op string, err error) {
	if err == nil {
		return
	}
	logrus.WithError(err).WithField("op", op).Warn("media element")
	m.notice = "Falha no player: " + err.Error()
}
