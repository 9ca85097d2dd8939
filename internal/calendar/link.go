package calendar

import (
	"net/url"
	"strings"

	"github.com/hpungsan/radar/internal/datetext"
	"github.com/hpungsan/radar/internal/record"
)

const (
	// DefaultBaseURL is the Google Calendar event template endpoint.
	DefaultBaseURL = "https://calendar.google.com/calendar/render"

	// DefaultTimeZone pins how the receiving calendar reads the stamps.
	DefaultTimeZone = "Europe/Paris"

	// StampLayout is the unzoned local wire format of the dates parameter.
	StampLayout = "20060102T150405"
)

// Builder assembles calendar deep links.
type Builder struct {
	BaseURL  string
	TimeZone string
}

// NewBuilder returns a Builder, defaulting empty fields.
func NewBuilder(baseURL, timeZone string) Builder {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(timeZone) == "" {
		timeZone = DefaultTimeZone
	}
	return Builder{BaseURL: baseURL, TimeZone: timeZone}
}

// Dates formats rng as START/END local stamps.
func Dates(rng datetext.Range) string {
	return rng.Start.Format(StampLayout) + "/" + rng.End.Format(StampLayout)
}

// Details is the event body: description, then source link and price.
func Details(r record.Record) string {
	var parts []string
	if d := strings.TrimSpace(r.Description); d != "" {
		parts = append(parts, d)
	}
	var meta []string
	if u := strings.TrimSpace(r.URL); u != "" {
		meta = append(meta, "Source: "+u)
	}
	if p := strings.TrimSpace(r.Price); p != "" {
		meta = append(meta, "Price: "+p)
	}
	if len(meta) > 0 {
		parts = append(parts, strings.Join(meta, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// Link returns the deep link adding r, spanning rng, to a calendar.
// It has no side effects; callers decide whether to flag the record.
func (b Builder) Link(r record.Record, rng datetext.Range) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", r.Title)
	q.Set("details", Details(r))
	q.Set("location", r.Location)
	q.Set("dates", Dates(rng))
	q.Set("ctz", b.TimeZone)

	base := b.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return base + "?" + q.Encode()
}

