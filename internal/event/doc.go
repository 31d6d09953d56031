// Package event provides the normalized event record and the steps that produce it.
//
// A listing row becomes an Event once its date text resolves to a single instant:
// Normalizer handles fuzzy, day-first date text and recurring-schedule rejection, New
// assembles the record, and GroupByCategory partitions a run's events for export.
// Event IDs are SHA1 hashes of title, start and link, so identical input produces
// identical calendars; they are not used to deduplicate across runs.
package event
