// Package datetext extracts a start/end instant pair from loose,
// human-written date and time descriptions such as "24 oct, 22h-02h".
//
// Extraction is an ordered list of heuristic rules, each with a default:
//
//  1. Month: first month name or abbreviation in the text; else the current month.
//  2. Day: first standalone integer 1..39 once time tokens are masked; else tomorrow.
//  3. Year: the current year, or the next one when the month is already past.
//  4. Time: first time token is the start (else 09:00), the second is the end.
//  5. End: same day as start, pushed one day when it would precede the start;
//     without an explicit end, start + 2h.
//
// Instants are naive civil times carried in the extractor's Location. No
// timezone conversion happens here.
package datetext

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultStartHour applies when the text carries no time at all.
	DefaultStartHour = 9

	// DefaultDuration applies when the text carries no end time.
	DefaultDuration = 2 * time.Hour
)

var (
	// timeRegex matches "9h", "18h30", "18:30", "22h-" ..., also when glued
	// to a word ("à14h"). Group 1 is the non-digit lead, kept when masking.
	timeRegex = regexp.MustCompile(`(^|[^0-9])(\d{1,2})[h:](\d{2})?`)

	// dayRegex matches a bounded 1..39 integer, optionally ordinal ("1er", "2nd").
	dayRegex = regexp.MustCompile(`\b(0?[1-9]|[12][0-9]|3[0-9])(?:er|re|st|nd|rd|th)?\b`)

	wordRegex = regexp.MustCompile(`[a-z]+`)
)

// timeMask replaces time tokens before the day search.
const timeMask = " _ "

// monthNames maps folded month spellings to their month.
var monthNames = map[string]time.Month{
	"janvier": time.January, "janv": time.January, "jan": time.January, "january": time.January,
	"fevrier": time.February, "fevr": time.February, "fev": time.February, "feb": time.February, "february": time.February,
	"mars": time.March, "mar": time.March, "march": time.March,
	"avril": time.April, "avr": time.April, "apr": time.April, "april": time.April,
	"mai": time.May, "may": time.May,
	"juin": time.June, "jun": time.June, "june": time.June,
	"juillet": time.July, "juil": time.July, "jul": time.July, "july": time.July,
	"aout": time.August, "aug": time.August, "august": time.August,
	"septembre": time.September, "sept": time.September, "sep": time.September, "september": time.September,
	"octobre": time.October, "oct": time.October, "october": time.October,
	"novembre": time.November, "nov": time.November, "november": time.November,
	"decembre": time.December, "dec": time.December, "december": time.December,
}

// Range is a start/end instant pair.
type Range struct {
	Start time.Time
	End   time.Time
}

// Extractor turns date text into a Range relative to a reference clock.
type Extractor struct {
	// Location carries the resulting instants (default time.UTC)
	Location *time.Location

	// Now supplies the reference instant (default time.Now)
	Now func() time.Time
}

// New returns an Extractor using loc and the wall clock.
func New(loc *time.Location) *Extractor {
	return &Extractor{Location: loc, Now: time.Now}
}

// Loc returns the location carrying extracted instants.
func (e *Extractor) Loc() *time.Location {
	if e == nil || e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// Reference returns the extractor's current instant in its location.
func (e *Extractor) Reference() time.Time {
	now := time.Now
	if e != nil && e.Now != nil {
		now = e.Now
	}
	return now().In(e.Loc())
}

// Extract parses text into a Range. It never fails; missing parts fall
// back to the documented defaults.
func (e *Extractor) Extract(text string) Range {
	loc := e.Loc()
	now := e.Reference()
	lower := fold(text)

	month, ok := findMonth(lower)
	if !ok {
		month = now.Month()
	}

	day, ok := findDay(lower)
	if !ok {
		day = now.Day() + 1
	}

	year := now.Year()
	if month < now.Month() {
		year++
	}

	times := timeRegex.FindAllStringSubmatch(lower, 2)

	startHour, startMin := DefaultStartHour, 0
	if len(times) > 0 {
		startHour, startMin = clock(times[0])
	}
	start := time.Date(year, month, day, startHour, startMin, 0, 0, loc)

	if len(times) < 2 {
		return Range{Start: start, End: start.Add(DefaultDuration)}
	}

	endHour, endMin := clock(times[1])
	end := time.Date(year, month, day, endHour, endMin, 0, 0, loc)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return Range{Start: start, End: end}
}

// findMonth returns the month named by the first month word in s.
func findMonth(s string) (time.Month, bool) {
	for _, word := range wordRegex.FindAllString(s, -1) {
		if m, ok := monthNames[word]; ok {
			return m, true
		}
	}
	return 0, false
}

// findDay returns the first day-of-month token once time tokens are masked.
func findDay(s string) (int, bool) {
	masked := timeRegex.ReplaceAllString(s, "${1}"+timeMask)
	m := dayRegex.FindStringSubmatch(masked)
	if m == nil {
		return 0, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return day, true
}

// clock reads hour and minute from a timeRegex submatch.
func clock(m []string) (int, int) {
	hour, _ := strconv.Atoi(m[2])
	minute := 0
	if len(m) > 3 && m[3] != "" {
		minute, _ = strconv.Atoi(m[3])
	}
	return hour, minute
}

// fold lowercases s and strips diacritics.
func fold(s string) string {
	s = strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
