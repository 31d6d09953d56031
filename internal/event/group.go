package event

import "github.com/pfrederiksen/expat-events/internal/config"

// Groups partitions events by category. Categories keep the order in which they were
// first seen and events keep their insertion order within a category.
type Groups struct {
	order []string
	byCat map[string][]*Event
}

// GroupByCategory partitions events by their Category field. Events with an empty
// category land in config.DefaultCategory.
func GroupByCategory(events []*Event) *Groups {
	g := &Groups{byCat: make(map[string][]*Event)}
	for _, evt := range events {
		g.Add(evt)
	}
	return g
}

// Add appends one event to its category.
func (g *Groups) Add(evt *Event) {
	category := evt.Category
	if category == "" {
		category = config.DefaultCategory
	}
	if _, seen := g.byCat[category]; !seen {
		g.order = append(g.order, category)
	}
	g.byCat[category] = append(g.byCat[category], evt)
}

// Categories returns the categories in first-seen order.
func (g *Groups) Categories() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Events returns the events of one category, or nil if the category was never seen.
func (g *Groups) Events(category string) []*Event {
	return g.byCat[category]
}

// Len returns the number of categories.
func (g *Groups) Len() int {
	return len(g.order)
}
