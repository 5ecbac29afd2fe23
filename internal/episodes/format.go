package episodes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// ErrMalformedEpisode marks a raw record that cannot be displayed.
var ErrMalformedEpisode = errors.New("malformed episode")

// DefaultLatestCount is the number of episodes shown as latest releases.
const DefaultLatestCount = 2

// ptBRMonths holds the abbreviated month names used on the home screen.
var ptBRMonths = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Formatter maps raw records into display records.
type Formatter struct {
	// Location is used to render dates and to read timestamps without an
	// offset. Nil means time.Local.
	Location *time.Location
}

// Format converts a single raw record.
func (f Formatter) Format(raw RawEpisode) (Episode, error) {
	published, err := f.parsePublishedAt(raw.PublishedAt)
	if err != nil {
		return Episode{}, fmt.Errorf("%w: %v", ErrMalformedEpisode, err)
	}
	seconds, err := raw.File.Duration.Seconds()
	if err != nil {
		return Episode{}, fmt.Errorf("%w: %v", ErrMalformedEpisode, err)
	}
	return Episode{
		ID:               string(raw.ID),
		Title:            raw.Title,
		Members:          raw.Members,
		PublishedAt:      FormatDate(published),
		Duration:         seconds,
		DurationAsString: FormatDuration(seconds),
		Description:      raw.Description,
		URL:              raw.File.URL,
		Thumbnail:        raw.Thumbnail,
	}, nil
}

// FormatAll converts a whole batch. The first malformed record fails the
// batch; no partial result is returned.
func (f Formatter) FormatAll(raws []RawEpisode) ([]Episode, error) {
	out := make([]Episode, 0, len(raws))
	for i, raw := range raws {
		ep, err := f.Format(raw)
		if err != nil {
			return nil, fmt.Errorf("episode %d (id %q): %w", i, string(raw.ID), err)
		}
		out = append(out, ep)
	}
	return out, nil
}

func (f Formatter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

func (f Formatter) parsePublishedAt(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("published_at is empty")
	}
	loc := f.location()
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("published_at %q is not an ISO-8601 date", value)
}

// FormatDate renders t as "d MMM yy" with Brazilian month names, e.g. "8 jan 21".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %02d", t.Day(), ptBRMonths[t.Month()-1], t.Year()%100)
}

// FormatDuration renders seconds as HH:MM:SS. Hours are not capped at 24.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// BuildCatalog splits formatted episodes into the latest releases and the rest.
func BuildCatalog(list []Episode, latestCount int) Catalog {
	split := lo.Clamp(latestCount, 0, len(list))
	catalog := Catalog{}
	if split > 0 {
		catalog.Latest = append([]Episode(nil), list[:split]...)
	}
	if split < len(list) {
		catalog.All = append([]Episode(nil), list[split:]...)
	}
	return catalog
}
