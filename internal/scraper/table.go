package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/expat-events/internal/event"
)

// SkipReason explains why a table row produced no fields.
type SkipReason string

const (
	SkipNone        SkipReason = ""
	SkipTooFewCells SkipReason = "too_few_cells"
	SkipHeaderRow   SkipReason = "header_row"
)

// minCells is the column count of the listing layout:
// EVENT TYPE | ORGANIZATION | CITY | DATE | LOCATION
const minCells = 5

// Row is one raw table row: the collapsed text of its td/th cells in order, plus
// the href of the first hyperlink anywhere in the row.
type Row struct {
	Cells []string
	Link  string
}

// RowResult is the outcome of extracting one row. Fields and Link are only set when
// Skip is SkipNone.
type RowResult struct {
	Index  int
	Fields event.Fields
	Link   string
	Skip   SkipReason
}

// Skipped reports whether the row was dropped.
func (r RowResult) Skipped() bool {
	return r.Skip != SkipNone
}

// TableRows returns the rows of the first table in doc, or nil if there is none.
func TableRows(doc *goquery.Document) []Row {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	rows := make([]Row, 0)
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row Row
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			row.Cells = append(row.Cells, cellText(cell))
		})
		if href, ok := tr.Find("a[href]").First().Attr("href"); ok {
			row.Link = strings.TrimSpace(href)
		}
		rows = append(rows, row)
	})
	return rows
}

// cellText joins the cell's text nodes with single spaces, collapsing whitespace
// inside each node, so "<b>Acme</b>Events" reads "Acme Events".
func cellText(cell *goquery.Selection) string {
	var parts []string
	for _, n := range cell.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, " ")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
			*parts = append(*parts, text)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// IsHeader reports whether cells look like the listing's column header row.
func IsHeader(cells []string) bool {
	if len(cells) > 0 && strings.Contains(strings.ToUpper(cells[0]), "EVENT TYPE") {
		return true
	}
	return len(cells) > 1 && strings.Contains(strings.ToUpper(cells[1]), "ORGANIZATION")
}

// ExtractRow classifies one row. Cell contents are passed through as free text; a
// row without a hyperlink links to pageURL.
func ExtractRow(row Row, pageURL string) RowResult {
	if len(row.Cells) < minCells {
		return RowResult{Skip: SkipTooFewCells}
	}
	if IsHeader(row.Cells) {
		return RowResult{Skip: SkipHeaderRow}
	}

	link := row.Link
	if link == "" {
		link = pageURL
	}

	return RowResult{
		Fields: event.Fields{
			EventType:    row.Cells[0],
			Organization: row.Cells[1],
			City:         row.Cells[2],
			DateText:     row.Cells[3],
			Location:     row.Cells[4],
		},
		Link: link,
	}
}

// ParseExpatInfoTable extracts every row of the first table on an ExpatInfoHolland
// listing page.
func ParseExpatInfoTable(doc *goquery.Document, pageURL string) []RowResult {
	rows := TableRows(doc)
	results := make([]RowResult, 0, len(rows))
	for i, row := range rows {
		res := ExtractRow(row, pageURL)
		res.Index = i
		results = append(results, res)
	}
	return results
}
