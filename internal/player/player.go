package player

import (
	"errors"
	"math/rand/v2"

	"github.com/five82/podcastr/internal/episodes"
)

// ErrIndexOutOfRange is returned by PlayList when the requested index does
// not address an element of the list.
var ErrIndexOutOfRange = errors.New("playlist index out of range")

// State is a read-only copy of the player fields for rendering.
type State struct {
	Episodes     []episodes.Episode
	CurrentIndex int
	IsPlaying    bool
	IsShuffling  bool
	IsLooping    bool
	HasNext      bool
	HasPrevious  bool
}

// Current returns the selected episode, if any.
func (s State) Current() (episodes.Episode, bool) {
	if len(s.Episodes) == 0 {
		return episodes.Episode{}, false
	}
	return s.Episodes[s.CurrentIndex], true
}

// Option customises a Player.
type Option func(*Player)

// WithRand replaces the source used to pick the shuffle index. fn must
// return a value in [0, n).
func WithRand(fn func(n int) int) Option {
	return func(p *Player) {
		if fn != nil {
			p.randIndex = fn
		}
	}
}

// Player holds the active playlist, the current position and the playback
// mode flags. It is not safe for concurrent use; the UI event loop owns it.
type Player struct {
	episodes     []episodes.Episode
	currentIndex int
	isPlaying    bool
	isShuffling  bool
	isLooping    bool

	randIndex func(n int) int
}

// New returns an empty, stopped player.
func New(opts ...Option) *Player {
	p := &Player{randIndex: rand.IntN}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play replaces the playlist with a single episode and starts playing it.
func (p *Player) Play(episode episodes.Episode) {
	p.episodes = []episodes.Episode{episode}
	p.currentIndex = 0
	p.isPlaying = true
}

// PlayList replaces the playlist and starts playing the episode at index.
// The state is left untouched when index is out of range.
func (p *Player) PlayList(list []episodes.Episode, index int) error {
	if index < 0 || index >= len(list) {
		return ErrIndexOutOfRange
	}
	p.episodes = cloneEpisodes(list)
	p.currentIndex = index
	p.isPlaying = true
	return nil
}

// TogglePlay flips the playing flag.
func (p *Player) TogglePlay() {
	p.isPlaying = !p.isPlaying
}

// SetPlayingState syncs the playing flag with the media element.
func (p *Player) SetPlayingState(playing bool) {
	p.isPlaying = playing
}

// ToggleLoop flips the loop flag.
func (p *Player) ToggleLoop() {
	p.isLooping = !p.isLooping
}

// ToggleShuffle flips the shuffle flag.
func (p *Player) ToggleShuffle() {
	p.isShuffling = !p.isShuffling
}

// Clear empties the playlist. Playing, shuffle and loop flags are kept.
func (p *Player) Clear() {
	p.episodes = nil
	p.currentIndex = 0
}

// HasNext reports whether PlayNext can move. Shuffle always has a next pick.
func (p *Player) HasNext() bool {
	return p.isShuffling || p.currentIndex+1 < len(p.episodes)
}

// HasPrevious reports whether PlayPrevious can move.
func (p *Player) HasPrevious() bool {
	return p.currentIndex > 0
}

// PlayNext advances the playlist.
//
// With shuffle on a random index is picked first, then the sequential step
// from the index held before the pick still applies and wins whenever it is
// in range. Looping does not change navigation; it is forwarded to the media
// element instead. The list never wraps around.
func (p *Player) PlayNext() {
	if len(p.episodes) == 0 {
		return
	}
	previous := p.currentIndex
	if p.isShuffling {
		p.currentIndex = p.randIndex(len(p.episodes))
	}

	next := previous + 1
	if next >= len(p.episodes) {
		return
	}
	p.currentIndex = next
}

// PlayPrevious steps back one episode, stopping at the first.
func (p *Player) PlayPrevious() {
	previous := p.currentIndex - 1
	if previous == -1 {
		return
	}
	p.currentIndex = previous
}

// Current returns the selected episode, if any.
func (p *Player) Current() (episodes.Episode, bool) {
	if len(p.episodes) == 0 {
		return episodes.Episode{}, false
	}
	return p.episodes[p.currentIndex], true
}

// Len returns the playlist length.
func (p *Player) Len() int {
	return len(p.episodes)
}

// CurrentIndex returns the playlist position. It is 0 for an empty list.
func (p *Player) CurrentIndex() int {
	return p.currentIndex
}

// IsPlaying reports the playing flag.
func (p *Player) IsPlaying() bool { return p.isPlaying }

// IsShuffling reports the shuffle flag.
func (p *Player) IsShuffling() bool { return p.isShuffling }

// IsLooping reports the loop flag.
func (p *Player) IsLooping() bool { return p.isLooping }

// Snapshot returns a copy of the player for rendering.
func (p *Player) Snapshot() State {
	return State{
		Episodes:     cloneEpisodes(p.episodes),
		CurrentIndex: p.currentIndex,
		IsPlaying:    p.isPlaying,
		IsShuffling:  p.isShuffling,
		IsLooping:    p.isLooping,
		HasNext:      p.HasNext(),
		HasPrevious:  p.HasPrevious(),
	}
}

func cloneEpisodes(list []episodes.Episode) []episodes.Episode {
	if len(list) == 0 {
		return nil
	}
	dup := make([]episodes.Episode, len(list))
	copy(dup, list)
	return dup
}
