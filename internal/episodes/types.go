package episodes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawEpisode mirrors one record returned by /episodes.
type RawEpisode struct {
	ID          FlexString `json:"id"`
	Title       string     `json:"title"`
	Members     string     `json:"members"`
	PublishedAt string     `json:"published_at"`
	Thumbnail   string     `json:"thumbnail"`
	Description string     `json:"description"`
	File        RawFile    `json:"file"`
}

// RawFile describes the media file attached to an episode.
type RawFile struct {
	URL      string     `json:"url"`
	Type     string     `json:"type"`
	Duration FlexNumber `json:"duration"`
}

// Episode is the display record handed to the UI and the player.
type Episode struct {
	ID               string
	Title            string
	Members          string
	PublishedAt      string
	Duration         int // seconds
	DurationAsString string
	Description      string
	URL              string
	Thumbnail        string
}

// Catalog is one build of the home screen.
type Catalog struct {
	Latest []Episode
	All    []Episode
}

// Playlist returns the playback order of the home screen: latest first,
// then everything else.
func (c Catalog) Playlist() []Episode {
	list := make([]Episode, 0, len(c.Latest)+len(c.All))
	list = append(list, c.Latest...)
	list = append(list, c.All...)
	return list
}

// Len returns the number of episodes in the catalog.
func (c Catalog) Len() int {
	return len(c.Latest) + len(c.All)
}

// FlexString accepts a JSON string or number. json-server hands out numeric
// ids for records created without one.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*s = FlexString(n.String())
	return nil
}

// maxDurationSeconds bounds durations so the conversion to int never
// overflows, whatever the platform's int size.
const maxDurationSeconds = math.MaxInt32

// FlexNumber keeps the textual form of a JSON number or numeric string so the
// formatter can reject malformed values instead of the decoder.
type FlexNumber string

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*n = FlexNumber(strings.TrimSpace(v))
		return nil
	}
	*n = FlexNumber(data)
	return nil
}

// Seconds converts the value to whole non-negative seconds.
func (n FlexNumber) Seconds() (int, error) {
	text := strings.TrimSpace(string(n))
	if text == "" {
		return 0, fmt.Errorf("duration is empty")
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("duration %q is not a number", text)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("duration %q is not finite", text)
	}
	if value < 0 {
		return 0, fmt.Errorf("duration %q is negative", text)
	}
	if value >= maxDurationSeconds {
		return 0, fmt.Errorf("duration %q is out of range", text)
	}
	return int(value), nil
}
