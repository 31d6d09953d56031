package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pfrederiksen/expat-events/internal/pipeline"
)

func sampleReport() *pipeline.Report {
	return &pipeline.Report{
		Sources: []pipeline.SourceReport{
			{
				Name: "ExpatInfoHolland – Networking Events", Parser: "expatinfo_table",
				Fetched: true, Rows: 12, Events: 9,
				Skipped: map[string]int{"header_row": 1, "date_recurring": 2},
			},
			{Name: "Cards", Parser: "eventbrite_cards", UnknownParser: true, Skipped: map[string]int{}},
		},
		Categories: []pipeline.CategoryReport{
			{Category: "networking", Path: "docs/networking.ics", Events: 9},
		},
	}
}

func TestWriteReport_Text(t *testing.T) {
	tests := []struct {
		name    string
		report  *pipeline.Report
		verbose bool
		want    string
	}{
		{
			name:   "summary",
			report: sampleReport(),
			want: `Fetching: ExpatInfoHolland – Networking Events
  Found with dates: 9
Fetching: Cards
  Unknown parser "eventbrite_cards", skipped
  Exported: docs/networking.ics (9 events)

DONE: 9 events in 1 calendar files
`,
		},
		{
			name:    "verbose adds row counts",
			report:  &pipeline.Report{Sources: sampleReport().Sources[:1]},
			verbose: true,
			want: `Fetching: ExpatInfoHolland – Networking Events
  Found with dates: 9
  Rows: 12
  Skipped: date_recurring=2, header_row=1

No events found.
`,
		},
		{
			name: "failed fetch",
			report: &pipeline.Report{Sources: []pipeline.SourceReport{
				{Name: "Workshops", Parser: "expatinfo_table"},
			}},
			want: "Fetching: Workshops\n  Fetch failed\n\nNo events found.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteReport(&buf, tt.report, FormatText, tt.verbose); err != nil {
				t.Fatalf("WriteReport() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("WriteReport() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, sampleReport(), FormatJSON, false); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	var got pipeline.Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(sampleReport().Categories, got.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if got.Sources[0].Skipped["date_recurring"] != 2 {
		t.Errorf("skip counts lost in JSON: %+v", got.Sources[0].Skipped)
	}
}

func TestWriteReport_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, sampleReport(), OutputFormat("xml"), false); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := WriteReport(&buf, nil, FormatText, false); err != nil || buf.Len() != 0 {
		t.Errorf("nil report: err = %v, output = %q", err, buf.String())
	}
}
