package calendar

import (
	"sort"

	"github.com/pfrederiksen/expat-events/internal/event"
)

// SortByStart orders events ascending by start instant. Events starting at the same
// instant keep their relative order.
func SortByStart(events []*event.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}
