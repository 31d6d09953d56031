// Package cli implements the command-line interface for expat-events.
//
// The root command runs one scrape and writes a calendar file per category, then
// prints a per-source and per-category summary as text or JSON. The sources
// subcommand lists the configured sources, and serve keeps the calendars fresh on a
// cron schedule while serving them over HTTP.
package cli
