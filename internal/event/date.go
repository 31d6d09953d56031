package event

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	dateparser "github.com/markusmobius/go-dateparser"
	"github.com/markusmobius/go-dateparser/date"
)

// Reasons a date text did not resolve to a single instant.
const (
	ReasonEmpty       = "empty"
	ReasonRecurring   = "recurring"
	ReasonUnparseable = "unparseable"
)

// DateResult is the outcome of normalizing one date text. When OK is false, Reason
// says why and Time is the zero value; callers must skip the row rather than
// substitute a placeholder.
type DateResult struct {
	Time   time.Time
	OK     bool
	Reason string
	// Ambiguous is set when a numeric day and month could be read either way
	// (for example "04/05"); the day-first reading is still returned.
	Ambiguous bool
}

// Normalizer turns loosely formatted date text into a timezone-aware instant.
type Normalizer struct {
	loc    *time.Location
	now    func() time.Time
	parser *dateparser.Parser
}

// NewNormalizer returns a Normalizer that localizes zone-less results to loc.
// English and Dutch month and weekday names are understood.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{
		loc:    loc,
		now:    time.Now,
		parser: &dateparser.Parser{},
	}
}

// Location returns the zone applied to results without explicit zone information.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

var monthNames = []string{
	"january", "januari", "jan",
	"february", "februari", "feb",
	"march", "maart", "mar", "mrt",
	"april", "apr",
	"may", "mei",
	"june", "juni", "jun",
	"july", "juli", "jul",
	"august", "augustus", "aug",
	"september", "sept", "sep",
	"october", "oktober", "oct", "okt",
	"november", "nov",
	"december", "dec",
}

var (
	months = monthAlternation()

	recurringPattern = regexp.MustCompile(`(?i)\b(every|each|weekly|daily|monthly|biweekly|fortnightly|elke|iedere|wekelijks)\b|` +
		`\b(\d+(st|nd|rd|th)|first|second|third|fourth|last)\s+(mon|tue|wed|thu|fri|sat|sun)[a-z]*\b`)

	// A day and a month must both be present for a text to name a concrete date.
	concretePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}(?:[T ]\d{1,2}:\d{2}(?::\d{2})?(?:Z|[+-]\d{2}:?\d{2})?)?`),
		regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th|e)?\s*(?:of\s+)?(?:` + months + `)\b\.?(?:,?\s+\d{4}\b)?`),
		regexp.MustCompile(`(?i)\b(?:` + months + `)\b\.?\s*\d{1,2}(?:st|nd|rd|th)?\b(?:,?\s+\d{4}\b)?`),
		regexp.MustCompile(`\b\d{1,2}\.\d{1,2}\.\d{2,4}\b`),
		regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?\b`),
	}

	isoPattern       = regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}`)
	dayMonthPair     = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})\b|\b(\d{1,2})\.(\d{1,2})\.\d{2,4}\b`)
	explicitZone     = regexp.MustCompile(`(?i)\d{2}:\d{2}(?::\d{2})?\s*(?:Z|[+-]\d{2}:?\d{2}|UTC|GMT|CET|CEST)\b`)
	pricePattern     = regexp.MustCompile(`(?i)€\s*\d+(?:[.,]\d{1,2})?(?:,-)?|\b\d+(?:[.,]\d{1,2})?\s*(?:€|euros?\b|eur\b)`)
	dayRangePattern  = regexp.MustCompile(`(?i)\b(\d{1,2})\s*[-–]\s*\d{1,2}(\s+(?:` + months + `)\b)`)
	badClockPattern  = regexp.MustCompile(`(^|[^:\d])(?:2[4-9]|[3-9]\d):[0-5]\d\b`)
	rangeSeparator   = regexp.MustCompile(`(?i)\s+(?:-|–|—|to|tot|t/m|until)\s+`)
	bracketsReplacer = strings.NewReplacer("(", " ", ")", " ", "[", " ", "]", " ")
)

// monthAlternation lists month names longest first so "september" wins over "sep".
func monthAlternation() string {
	names := append([]string(nil), monthNames...)
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return strings.Join(names, "|")
}

// Normalize resolves text to a single instant. Surrounding words are ignored, day
// comes before month when the order is ambiguous, a missing year means the current
// year and a missing time means midnight. Ranges resolve to their first date.
// Text without a concrete day and month that describes a schedule never resolves.
func (n *Normalizer) Normalize(text string) DateResult {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return DateResult{Reason: ReasonEmpty}
	}

	segments := rangeSeparator.Split(clean(text), -1)
	for _, seg := range segments {
		if concreteMatch(seg) == "" {
			continue
		}
		if t, matched, ok := n.resolve(seg); ok {
			return DateResult{Time: t, OK: true, Ambiguous: ambiguous(matched)}
		}
	}

	if recurringPattern.MatchString(text) {
		return DateResult{Reason: ReasonRecurring}
	}

	// Compact and machine formats ("20260314", epoch seconds).
	for _, seg := range segments {
		if t, err := parseStrict(seg, n.loc); err == nil {
			return DateResult{Time: t, OK: true}
		}
	}
	return DateResult{Reason: ReasonUnparseable}
}

// clean drops fragments that would otherwise be read as part of the date: prices,
// the tail of a day range ("14-16 March") and clock times past 23:59.
func clean(text string) string {
	text = bracketsReplacer.Replace(text)
	text = pricePattern.ReplaceAllString(text, " ")
	text = dayRangePattern.ReplaceAllString(text, "$1$2")
	text = badClockPattern.ReplaceAllString(text, "$1 ")
	return strings.Join(strings.Fields(text), " ")
}

// resolve reads one segment known to hold a day and a month. It returns the
// instant and the text it was read from.
func (n *Normalizer) resolve(seg string) (time.Time, string, bool) {
	cfg := &dateparser.Configuration{
		Languages:       []string{"en", "nl"},
		DateOrder:       dateparser.DMY,
		DefaultTimezone: n.loc,
		CurrentTime:     n.now().In(n.loc),
	}

	if dt, err := n.parse(cfg, seg); err == nil && !dt.Time.IsZero() {
		return n.localize(dt.Time, seg), seg, true
	}

	if results, err := n.search(cfg, seg); err == nil {
		for _, r := range results {
			if concreteMatch(r.Text) != "" && !r.Date.Time.IsZero() {
				return n.localize(r.Date.Time, r.Text), r.Text, true
			}
		}
	}

	m := concreteMatch(seg)
	if t, err := parseStrict(m, n.loc); err == nil {
		return t, m, true
	}
	return time.Time{}, "", false
}

func (n *Normalizer) parse(cfg *dateparser.Configuration, text string) (dt date.Date, err error) {
	defer recoverParse(text, &err)
	return n.parser.Parse(cfg, text)
}

func (n *Normalizer) search(cfg *dateparser.Configuration, text string) (results []dateparser.SearchResult, err error) {
	defer recoverParse(text, &err)
	_, results, err = n.parser.Search(cfg, text)
	return results, err
}

// localize pins zone-less readings to the configured location with their wall
// clock unchanged.
func (n *Normalizer) localize(t time.Time, text string) time.Time {
	if explicitZone.MatchString(text) {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, n.loc)
}

func parseStrict(text string, loc *time.Location) (t time.Time, err error) {
	defer recoverParse(text, &err)
	return dateparse.ParseIn(text, loc,
		dateparse.PreferMonthFirst(false),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
}

// recoverParse turns a parser panic on malformed input into an error.
func recoverParse(text string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("parsing %q: %v", text, r)
	}
}

// concreteMatch returns the first fragment of text naming both a day and a month.
func concreteMatch(text string) string {
	for _, p := range concretePatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// ambiguous reports whether the numeric date in text reads as a valid date both
// day-first and month-first.
func ambiguous(text string) bool {
	if isoPattern.MatchString(text) {
		return false
	}
	m := dayMonthPair.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	a, b := m[1], m[2]
	if a == "" {
		a, b = m[3], m[4]
	}
	day, month := atoi(a), atoi(b)
	return day != month && day >= 1 && day <= 12 && month >= 1 && month <= 12
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
