package scraper

import (
	"sort"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/expat-events/internal/config"
)

// TableParser extracts listing rows from a fetched page.
type TableParser func(doc *goquery.Document, pageURL string) []RowResult

// Registry maps parser identifiers named in source descriptors to parsers.
type Registry struct {
	parsers map[string]TableParser
}

// NewRegistry returns a registry with the built-in parsers.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]TableParser)}
	r.Register(config.ParserExpatInfoTable, ParseExpatInfoTable)
	return r
}

// Register adds or replaces a parser.
func (r *Registry) Register(id string, p TableParser) {
	r.parsers[id] = p
}

// Lookup returns the parser registered under id.
func (r *Registry) Lookup(id string) (TableParser, bool) {
	p, ok := r.parsers[id]
	return p, ok
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.parsers))
	for id := range r.parsers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
