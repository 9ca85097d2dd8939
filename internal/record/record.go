package record

import (
	"strings"
	"time"
)

// Category is the closed set of record tags a scan may assign.
type Category string

const (
	CategoryEvent       Category = "event"
	CategoryNews        Category = "news"
	CategoryOpportunity Category = "opportunity"
	CategoryDeadline    Category = "deadline"
	CategoryOther       Category = "other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryEvent,
	CategoryNews,
	CategoryOpportunity,
	CategoryDeadline,
	CategoryOther,
}

// ParseCategory maps free text onto the closed enumeration.
// Unknown or empty input maps to CategoryOther.
func ParseCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Record is one normalized item produced by a scan.
// Two records describe the same real-world item iff their Signature matches.
type Record struct {
	// Title is the short headline
	Title string `json:"title"`

	// Date is the free-form date/time description (not a timestamp)
	Date string `json:"date"`

	// Location is a place or a source name
	Location string `json:"location"`

	Category Category `json:"category"`

	// Annotation fields
	Impact      string `json:"impact,omitempty"`
	Action      string `json:"action,omitempty"`
	Description string `json:"description,omitempty"`

	// Price is free text such as "free" or "15 EUR"
	Price string `json:"price,omitempty"`

	// URL is the canonical reference link
	URL string `json:"url,omitempty"`

	Tags []string `json:"tags,omitempty"`

	// Published is the absolute instant when the source knows one (feed
	// items). It orders the record instead of Date.
	Published *time.Time `json:"published,omitempty"`

	// Done is the user-state flag (read, or added to a calendar)
	Done bool `json:"done"`
}

// WithContent returns incoming's content carrying r's flag.
// Tags are copied so the two records never share a backing array.
func (r Record) WithContent(incoming Record) Record {
	out := incoming
	out.Done = r.Done
	if incoming.Tags != nil {
		out.Tags = append([]string(nil), incoming.Tags...)
	}
	return out
}

// Session is one batch of records produced by a single successful scan.
type Session struct {
	// ID is the scan time in Unix milliseconds; unique and increasing within a history
	ID int64 `json:"id"`

	// Label is a human-readable timestamp
	Label string `json:"label"`

	// ScanID is the ULID of the scan run
	ScanID string `json:"scan_id,omitempty"`

	// Profile names the scan profile that produced the session
	Profile string `json:"profile,omitempty"`

	Records []Record `json:"records"`
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	out := s
	if s.Records == nil {
		return out
	}
	out.Records = make([]Record, len(s.Records))
	for i, r := range s.Records {
		out.Records[i] = r
		if r.Tags != nil {
			out.Records[i].Tags = append([]string(nil), r.Tags...)
		}
	}
	return out
}

// History is the full, append-only list of sessions.
type History []Session

// Clone returns a deep copy of h.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	for i, s := range h {
		out[i] = s.Clone()
	}
	return out
}
