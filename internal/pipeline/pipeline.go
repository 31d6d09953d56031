package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/expat-events/internal/calendar"
	"github.com/pfrederiksen/expat-events/internal/config"
	"github.com/pfrederiksen/expat-events/internal/event"
	"github.com/pfrederiksen/expat-events/internal/logger"
	"github.com/pfrederiksen/expat-events/internal/metrics"
	"github.com/pfrederiksen/expat-events/internal/scraper"
	"github.com/pfrederiksen/expat-events/internal/storage"
)

// Fetcher downloads and parses one page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Exporter writes one category's events and returns the file path.
type Exporter interface {
	Export(category string, events []*event.Event) (string, error)
}

// Deps are the collaborators of a run. Zero fields are built from the config.
type Deps struct {
	Fetcher    Fetcher
	Parsers    *scraper.Registry
	Normalizer *event.Normalizer
	// NewExporter is only called once every source has been fetched.
	NewExporter func() (Exporter, error)
	Metrics     *metrics.Metrics
	Logger      *logger.Logger
}

func (d Deps) withDefaults(cfg *config.Config) (Deps, error) {
	if d.Fetcher == nil {
		d.Fetcher = scraper.NewFetcher(cfg.UserAgent, cfg.Timeout)
	}
	if d.Parsers == nil {
		d.Parsers = scraper.NewRegistry()
	}
	if d.Normalizer == nil {
		loc, err := cfg.Location()
		if err != nil {
			return d, err
		}
		d.Normalizer = event.NewNormalizer(loc)
	}
	if d.NewExporter == nil {
		d.NewExporter = func() (Exporter, error) {
			out, err := storage.New(cfg.OutDir)
			if err != nil {
				return nil, err
			}
			return calendar.NewExporter(out, cfg.FileFor), nil
		}
	}
	if d.Logger == nil {
		d.Logger = logger.Default()
	}
	return d, nil
}

// Run performs one pass over cfg.Sources. The returned report covers everything
// done before an error, so callers can show partial progress.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (report *Report, err error) {
	start := time.Now()
	report = &Report{StartedAt: start.UTC()}
	defer func() {
		report.Duration = time.Since(start)
		deps.Metrics.Run(start, err)
	}()

	deps, err = deps.withDefaults(cfg)
	if err != nil {
		return report, err
	}
	log := deps.Logger

	var all []*event.Event
	for _, src := range cfg.Sources {
		sr, events, err := scrapeSource(ctx, src, deps)
		report.Sources = append(report.Sources, sr)
		if err != nil {
			return report, fmt.Errorf("source %q: %w", src.Name, err)
		}
		all = append(all, events...)
	}

	groups := event.GroupByCategory(all)
	if groups.Len() == 0 {
		log.Info("no events to export", nil)
		return report, nil
	}

	exp, err := deps.NewExporter()
	if err != nil {
		return report, fmt.Errorf("preparing output: %w", err)
	}

	for _, category := range groups.Categories() {
		events := groups.Events(category)
		path, err := exp.Export(category, events)
		if err != nil {
			return report, fmt.Errorf("exporting %q: %w", category, err)
		}
		deps.Metrics.Exported(category, len(events))
		log.Info("exported category", logger.Fields{
			"category": category,
			"path":     path,
			"events":   len(events),
		})
		report.Categories = append(report.Categories, CategoryReport{
			Category: category,
			Path:     path,
			Events:   len(events),
		})
	}

	return report, nil
}

func scrapeSource(ctx context.Context, src config.Source, deps Deps) (SourceReport, []*event.Event, error) {
	log := deps.Logger
	sr := SourceReport{
		Name:     src.Name,
		URL:      src.URL,
		Category: src.CategoryOrDefault(),
		Parser:   src.Parser,
		Skipped:  map[string]int{},
	}

	parse, ok := deps.Parsers.Lookup(src.Parser)
	if !ok {
		sr.UnknownParser = true
		log.Warn("unknown parser, source yields no events", logger.Fields{
			"source": src.Name,
			"parser": src.Parser,
		})
		return sr, nil, nil
	}

	doc, err := deps.Fetcher.Fetch(ctx, src.URL)
	deps.Metrics.Fetch(src.Name, err)
	if err != nil {
		return sr, nil, err
	}
	sr.Fetched = true

	origin := event.Origin{Name: src.Name, URL: src.URL, Category: src.CategoryOrDefault()}
	var events []*event.Event

	for _, row := range parse(doc, src.URL) {
		sr.Rows++
		if row.Skipped() {
			skip(&sr, deps, src.Name, string(row.Skip), row.Index, "")
			continue
		}

		date := deps.Normalizer.Normalize(row.Fields.DateText)
		if !date.OK {
			skip(&sr, deps, src.Name, "date_"+date.Reason, row.Index, row.Fields.DateText)
			continue
		}
		if date.Ambiguous {
			log.Debug("ambiguous day and month, read day first", logger.Fields{
				"source": src.Name,
				"row":    row.Index,
				"date":   row.Fields.DateText,
				"start":  date.Time.Format(time.RFC3339),
			})
		}

		events = append(events, event.New(row.Fields, date.Time, row.Link, origin))
		deps.Metrics.Row(src.Name, metrics.OutcomeEvent)
	}

	sr.Events = len(events)
	log.Info("scraped source", logger.Fields{
		"source":  src.Name,
		"rows":    sr.Rows,
		"events":  sr.Events,
		"skipped": sr.Skipped,
	})
	return sr, events, nil
}

func skip(sr *SourceReport, deps Deps, source, reason string, index int, dateText string) {
	sr.Skipped[reason]++
	deps.Metrics.Row(source, reason)

	fields := logger.Fields{"source": source, "row": index, "reason": reason}
	if dateText != "" {
		fields["date"] = dateText
	}
	deps.Logger.Debug("row skipped", fields)
}
