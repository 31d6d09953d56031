package scraper

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/pfrederiksen/expat-events/internal/config"
	"github.com/pfrederiksen/expat-events/internal/event"
)

const testPageURL = "https://expatinfoholland.nl/events/netherlands-networking-events/"

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	f, err := os.Open("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func docFromString(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func TestParseExpatInfoTable_Fixture(t *testing.T) {
	doc := loadFixture(t, "expatinfo_networking.html")

	results := ParseExpatInfoTable(doc, testPageURL)

	want := []RowResult{
		{Index: 0, Skip: SkipHeaderRow},
		{
			Index: 1,
			Fields: event.Fields{
				EventType:    "Borrel",
				Organization: "Expat Drinks",
				City:         "Amsterdam",
				DateText:     "10/09/2026 19:00",
				Location:     "Cafe de Jaren",
			},
			Link: "https://example.org/drinks",
		},
		{
			Index: 2,
			Fields: event.Fields{
				EventType:    "Meetup",
				Organization: "Tech Founders",
				City:         "Utrecht",
				DateText:     "8 September 2026",
				Location:     "Forum Library",
			},
			Link: testPageURL,
		},
		{
			Index: 3,
			Fields: event.Fields{
				EventType:    "Social",
				Organization: "Weekly Walkers",
				City:         "Haarlem",
				DateText:     "Every Sunday",
				Location:     "Grote Markt",
			},
			Link: testPageURL,
		},
		{Index: 4, Skip: SkipTooFewCells},
	}

	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("ParseExpatInfoTable() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExpatInfoTable_NoTable(t *testing.T) {
	doc := docFromString(t, `<html><body><p>No events</p></body></html>`)

	if results := ParseExpatInfoTable(doc, testPageURL); len(results) != 0 {
		t.Errorf("expected no rows, got %d", len(results))
	}
}

func TestExtractRow(t *testing.T) {
	tests := []struct {
		name     string
		row      Row
		wantSkip SkipReason
		wantLink string
	}{
		{
			name:     "four cells",
			row:      Row{Cells: []string{"a", "b", "c", "d"}},
			wantSkip: SkipTooFewCells,
		},
		{
			name:     "empty row",
			row:      Row{},
			wantSkip: SkipTooFewCells,
		},
		{
			name:     "header in first cell, any case",
			row:      Row{Cells: []string{"Event type", "x", "x", "x", "x"}},
			wantSkip: SkipHeaderRow,
		},
		{
			name:     "header in second cell",
			row:      Row{Cells: []string{"", "Organization", "City", "Date", "Location"}},
			wantSkip: SkipHeaderRow,
		},
		{
			name:     "extra cells are ignored",
			row:      Row{Cells: []string{"Talk", "Org", "Delft", "1 May 2026", "TU", "extra"}, Link: "/events/talk"},
			wantLink: "/events/talk",
		},
		{
			name:     "missing link falls back to page",
			row:      Row{Cells: []string{"Talk", "Org", "Delft", "1 May 2026", "TU"}},
			wantLink: testPageURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ExtractRow(tt.row, testPageURL)
			if res.Skip != tt.wantSkip {
				t.Fatalf("Skip = %q, want %q", res.Skip, tt.wantSkip)
			}
			if res.Skipped() {
				if res.Fields != (event.Fields{}) {
					t.Errorf("skipped row should carry no fields, got %+v", res.Fields)
				}
				return
			}
			if res.Link != tt.wantLink {
				t.Errorf("Link = %q, want %q", res.Link, tt.wantLink)
			}
			if res.Fields.Location != tt.row.Cells[4] {
				t.Errorf("Location = %q, want %q", res.Fields.Location, tt.row.Cells[4])
			}
		})
	}
}

func TestTableRows_FirstLinkAnywhereInRow(t *testing.T) {
	doc := docFromString(t, `<table><tr>
		<td>Talk</td>
		<td>Org <a name="anchor">no href</a></td>
		<td><a href=" /first ">first</a></td>
		<td><a href="/second">second</a></td>
		<td>Loc</td>
	</tr></table>`)

	rows := TableRows(doc)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Link != "/first" {
		t.Errorf("Link = %q, want /first", rows[0].Link)
	}
	if rows[0].Cells[1] != "Org no href" {
		t.Errorf("Cells[1] = %q, want 'Org no href'", rows[0].Cells[1])
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Lookup(config.ParserExpatInfoTable); !ok {
		t.Errorf("Lookup(%q) not found", config.ParserExpatInfoTable)
	}
	if _, ok := r.Lookup("eventbrite_cards"); ok {
		t.Error("unknown parser should not be found")
	}

	r.Register("empty", func(*goquery.Document, string) []RowResult { return nil })
	if diff := cmp.Diff([]string{"empty", config.ParserExpatInfoTable}, r.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
}
