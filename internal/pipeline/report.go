package pipeline

import "time"

// Report summarizes one run for the operator.
type Report struct {
	StartedAt  time.Time        `json:"started_at"`
	Duration   time.Duration    `json:"duration_ns"`
	Sources    []SourceReport   `json:"sources"`
	Categories []CategoryReport `json:"categories"`
}

// SourceReport counts what one source contributed.
type SourceReport struct {
	Name          string         `json:"name"`
	URL           string         `json:"url"`
	Category      string         `json:"category"`
	Parser        string         `json:"parser"`
	UnknownParser bool           `json:"unknown_parser,omitempty"`
	Fetched       bool           `json:"fetched"`
	Rows          int            `json:"rows"`
	Events        int            `json:"events"`
	Skipped       map[string]int `json:"skipped,omitempty"`
}

// CategoryReport describes one exported calendar file.
type CategoryReport struct {
	Category string `json:"category"`
	Path     string `json:"path"`
	Events   int    `json:"events"`
}

// TotalEvents returns the number of events exported across categories.
func (r *Report) TotalEvents() int {
	n := 0
	for _, c := range r.Categories {
		n += c.Events
	}
	return n
}
