// Package media drives the external element that actually plays audio.
//
// The player package only decides what should be playing. An Element turns
// that into sound and reports back when the listener pauses from the
// element's own controls or when a file reaches its end.
package media

// EventKind identifies a media element notification.
type EventKind int

const (
	// EventPaused is sent when playback pauses outside podcastr's control.
	EventPaused EventKind = iota
	// EventResumed is sent when playback resumes.
	EventResumed
	// EventEnded is sent when the current file plays to its end.
	EventEnded
)

func (k EventKind) String() string {
	switch k {
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is a notification from the media element.
type Event struct {
	Kind EventKind
}

// Element plays one media file at a time.
type Element interface {
	// Load replaces the current file and starts playing it.
	Load(url, title string) error
	// SetPaused pauses or resumes the current file.
	SetPaused(paused bool) error
	// SetLoop makes the current file repeat instead of ending.
	SetLoop(loop bool) error
	// Stop unloads the current file.
	Stop() error
	// Events delivers notifications until Close is called.
	Events() <-chan Event
	// Close releases the element.
	Close() error
}

// Nop is an Element that accepts every call and never plays anything.
type Nop struct{}

var _ Element = Nop{}

func (Nop) Load(string, string) error { return nil }
func (Nop) SetPaused(bool) error      { return nil }
func (Nop) SetLoop(bool) error        { return nil }
func (Nop) Stop() error               { return nil }
func (Nop) Events() <-chan Event      { return nil }
func (Nop) Close() error              { return nil }
