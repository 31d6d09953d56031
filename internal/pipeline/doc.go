// Package pipeline runs one full scrape: every configured source is fetched and
// parsed, rows with a resolvable date become events, and each category is exported
// to its own calendar file.
//
// A fetch error aborts the run before anything is written. Export happens in the
// order categories were first seen, so a write error leaves earlier files in place.
package pipeline
