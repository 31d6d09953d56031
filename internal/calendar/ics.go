package calendar

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/expat-events/internal/event"
)

// DefaultDuration is applied to events without an end.
const DefaultDuration = time.Hour

// ProductID identifies the generator in PRODID.
const ProductID = "expat-events"

// Build returns a calendar holding events sorted by start. The input slice is left
// untouched.
func Build(category string, events []*event.Event) *ics.Calendar {
	sorted := make([]*event.Event, len(events))
	copy(sorted, events)
	SortByStart(sorted)

	cal := ics.NewCalendarFor(ProductID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(category)

	for _, evt := range sorted {
		addEvent(cal, evt)
	}
	return cal
}

// Text values are escaped by the serializer; setters take them raw.
func addEvent(cal *ics.Calendar, evt *event.Event) {
	ve := cal.AddEvent(evt.UID)
	// DTSTAMP follows the start so identical input serializes identically.
	ve.SetDtStampTime(evt.Start)
	ve.SetStartAt(evt.Start)
	ve.SetEndAt(evt.EndOrDefault(DefaultDuration))
	ve.SetSummary(evt.Title)
	ve.SetLocation(evt.Location)
	ve.SetURL(evt.Link)
	ve.SetDescription(Description(evt))
}

// Description renders the two-line event description: source name, then link.
func Description(evt *event.Event) string {
	return fmt.Sprintf("Source: %s\n%s", evt.Source, evt.Link)
}

// Write serializes the category calendar to w.
func Write(w io.Writer, category string, events []*event.Event) error {
	if err := Build(category, events).SerializeTo(w); err != nil {
		return fmt.Errorf("serializing calendar: %w", err)
	}
	return nil
}
