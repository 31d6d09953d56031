package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pfrederiksen/expat-events/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteReport writes the run report in the specified format. A nil report writes
// nothing.
func WriteReport(w io.Writer, report *pipeline.Report, format OutputFormat, verbose bool) error {
	if report == nil {
		return nil
	}
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatText:
		return writeText(w, report, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the report as JSON
func writeJSON(w io.Writer, report *pipeline.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// writeText outputs the report as human-readable text
func writeText(w io.Writer, report *pipeline.Report, verbose bool) error {
	for _, src := range report.Sources {
		fmt.Fprintf(w, "Fetching: %s\n", src.Name)
		switch {
		case src.UnknownParser:
			fmt.Fprintf(w, "  Unknown parser %q, skipped\n", src.Parser)
			continue
		case !src.Fetched:
			fmt.Fprintln(w, "  Fetch failed")
			continue
		}
		fmt.Fprintf(w, "  Found with dates: %d\n", src.Events)
		if verbose {
			fmt.Fprintf(w, "  Rows: %d\n", src.Rows)
			if skipped := formatSkipped(src.Skipped); skipped != "" {
				fmt.Fprintf(w, "  Skipped: %s\n", skipped)
			}
		}
	}

	for _, cat := range report.Categories {
		fmt.Fprintf(w, "  Exported: %s (%d events)\n", cat.Path, cat.Events)
	}

	if len(report.Categories) == 0 {
		fmt.Fprintln(w, "\nNo events found.")
		return nil
	}
	fmt.Fprintf(w, "\nDONE: %d events in %d calendar files\n", report.TotalEvents(), len(report.Categories))
	return nil
}

// formatSkipped renders skip counts as "reason=n" pairs in reason order.
func formatSkipped(skipped map[string]int) string {
	reasons := make([]string, 0, len(skipped))
	for reason := range skipped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	parts := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		parts = append(parts, fmt.Sprintf("%s=%d", reason, skipped[reason]))
	}
	return strings.Join(parts, ", ")
}
