package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/expat-events/internal/config"
)

// Fields are the free-text columns of one listing row, in table order.
type Fields struct {
	EventType    string `json:"event_type"`
	Organization string `json:"organization"`
	City         string `json:"city"`
	DateText     string `json:"date_text"`
	Location     string `json:"location"`
}

// Origin describes where an event was scraped from.
type Origin struct {
	Name     string
	URL      string
	Category string
}

// Event is a normalized listing. Start is always set; End is nil until an exporter
// decides on a duration.
type Event struct {
	UID      string     `json:"uid"`
	Title    string     `json:"title"`
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end,omitempty"`
	Location string     `json:"location"`
	Link     string     `json:"link"`
	Source   string     `json:"source"`
	Category string     `json:"category"`
}

// GenerateID creates a deterministic ID from the fields that identify an event
// within one run.
func GenerateID(title string, start time.Time, link string) string {
	h := sha1.New()
	h.Write([]byte(title + "|" + start.UTC().Format(time.RFC3339) + "|" + link))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// FormatTitle renders "{organization} ({event type}) — {city}".
func FormatTitle(f Fields) string {
	return strings.TrimSpace(fmt.Sprintf("%s (%s) — %s", f.Organization, f.EventType, f.City))
}

// New builds an Event from an extracted row, its resolved start and the origin it
// was scraped from. An empty link falls back to the origin URL.
func New(f Fields, start time.Time, link string, origin Origin) *Event {
	if link == "" {
		link = origin.URL
	}
	category := origin.Category
	if strings.TrimSpace(category) == "" {
		category = config.DefaultCategory
	}
	title := FormatTitle(f)

	return &Event{
		UID:      GenerateID(title, start, link),
		Title:    title,
		Start:    start,
		Location: f.Location,
		Link:     link,
		Source:   origin.Name,
		Category: category,
	}
}

// EndOrDefault returns End, or Start plus d when End is unset.
func (e *Event) EndOrDefault(d time.Duration) time.Time {
	if e.End != nil {
		return *e.End
	}
	return e.Start.Add(d)
}
