package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/expat-events/internal/calendar"
	"github.com/pfrederiksen/expat-events/internal/config"
	"github.com/pfrederiksen/expat-events/internal/event"
	"github.com/pfrederiksen/expat-events/internal/scraper"
)

// Renders a saved listing page to a calendar file without touching the network.
// Usage: go run scripts/test-calendar.go [page.html]
func main() {
	page := "testdata/fixtures/expatinfo_networking.html"
	if len(os.Args) > 1 {
		page = os.Args[1]
	}

	f, err := os.Open(page)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening page: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing page: %v\n", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(config.DefaultTimezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading timezone: %v\n", err)
		os.Exit(1)
	}
	norm := event.NewNormalizer(loc)
	origin := event.Origin{Name: "Local preview", URL: "file://" + page, Category: "preview"}

	var events []*event.Event
	for _, row := range scraper.ParseExpatInfoTable(doc, origin.URL) {
		if row.Skipped() {
			fmt.Printf("row %d skipped: %s\n", row.Index, row.Skip)
			continue
		}
		date := norm.Normalize(row.Fields.DateText)
		if !date.OK {
			fmt.Printf("row %d skipped: date %q is %s\n", row.Index, row.Fields.DateText, date.Reason)
			continue
		}
		events = append(events, event.New(row.Fields, date.Time, row.Link, origin))
	}

	var buf bytes.Buffer
	if err := calendar.Write(&buf, origin.Category, events); err != nil {
		fmt.Fprintf(os.Stderr, "Error building calendar: %v\n", err)
		os.Exit(1)
	}

	// Write to file (owner read/write only)
	filename := "test-expat-events.ics"
	if err := os.WriteFile(filename, buf.Bytes(), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s (%d events)\n\n", filename, len(events))
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(buf.String())
}
