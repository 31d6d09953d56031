package calendar

import (
	"io"

	"github.com/pfrederiksen/expat-events/internal/event"
)

// FileWriter is the part of storage.Storage the exporter needs.
type FileWriter interface {
	WriteFile(name string, write func(io.Writer) error) (string, error)
}

// Exporter writes one calendar file per category.
type Exporter struct {
	out     FileWriter
	fileFor func(category string) string
}

// NewExporter creates an Exporter. fileFor maps a category to its file name; nil
// means "{category}.ics".
func NewExporter(out FileWriter, fileFor func(category string) string) *Exporter {
	if fileFor == nil {
		fileFor = func(category string) string { return category + ".ics" }
	}
	return &Exporter{out: out, fileFor: fileFor}
}

// Export replaces the category's file with a calendar of events and returns its path.
func (e *Exporter) Export(category string, events []*event.Event) (string, error) {
	return e.out.WriteFile(e.fileFor(category), func(w io.Writer) error {
		return Write(w, category, events)
	})
}
