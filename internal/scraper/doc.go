// Package scraper fetches listing pages and extracts event rows from their HTML tables.
//
// Fetcher performs the HTTP GET with a fixed User-Agent and timeout and decodes the
// body to UTF-8. Table parsers turn a parsed document into RowResult values: every
// table row yields either extracted Fields or an explicit skip reason, so callers
// and tests can see why a row was dropped. Parsers are looked up by the identifier
// named in a source descriptor; unknown identifiers have no parser.
package scraper
