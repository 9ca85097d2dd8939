package history

import (
	"sort"
	"time"

	"github.com/hpungsan/radar/internal/datetext"
	"github.com/hpungsan/radar/internal/record"
)

// ConsolidateOptions controls the consolidated view.
type ConsolidateOptions struct {
	// HidePast drops records starting before yesterday at midnight
	HidePast bool

	// Now is the reference instant for HidePast (default: extractor clock)
	Now time.Time
}

// Item is one consolidated record with its parsed range.
type Item struct {
	Record    record.Record
	Signature string
	Range     datetext.Range
}

// merge folds h oldest to newest, one record per signature. A later
// sighting replaces the content; Done is OR-ed across all sightings.
// The result keeps first-seen order.
func merge(h record.History) []record.Record {
	var order []string
	acc := make(map[string]record.Record)

	for _, s := range Sorted(h) {
		for _, r := range s.Records {
			sig := record.Signature(r)
			existing, seen := acc[sig]
			if !seen {
				order = append(order, sig)
				acc[sig] = r
				continue
			}
			merged := existing.WithContent(r)
			merged.Done = existing.Done || r.Done
			acc[sig] = merged
		}
	}

	out := make([]record.Record, 0, len(order))
	for _, sig := range order {
		out = append(out, acc[sig])
	}
	return out
}

// Consolidate returns the global view of h: one item per signature,
// ordered by start instant ascending (ties keep first-seen order).
// An empty history yields an empty, non-nil slice.
func Consolidate(h record.History, ext *datetext.Extractor, opts ConsolidateOptions) []Item {
	merged := merge(h)

	items := make([]Item, 0, len(merged))
	for _, r := range merged {
		items = append(items, Item{
			Record:    r,
			Signature: record.Signature(r),
			Range:     RangeOf(r, ext),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Range.Start.Before(items[j].Range.Start)
	})

	if !opts.HidePast {
		return items
	}

	now := ext.Reference()
	if !opts.Now.IsZero() {
		now = opts.Now.In(ext.Loc())
	}
	cutoff := YesterdayMidnight(now)

	kept := items[:0]
	for _, it := range items {
		if !it.Range.Start.Before(cutoff) {
			kept = append(kept, it)
		}
	}
	return kept
}

// RangeOf returns the span of r: its Published instant plus the default
// duration when set, otherwise the range extracted from its date text.
func RangeOf(r record.Record, ext *datetext.Extractor) datetext.Range {
	if r.Published == nil || r.Published.IsZero() {
		return ext.Extract(r.Date)
	}
	p := r.Published.In(ext.Loc())
	start := time.Date(p.Year(), p.Month(), p.Day(), p.Hour(), p.Minute(), 0, 0, ext.Loc())
	return datetext.Range{Start: start, End: start.Add(datetext.DefaultDuration)}
}

// Records is Consolidate without the parsed ranges.
func Records(items []Item) []record.Record {
	out := make([]record.Record, len(items))
	for i, it := range items {
		out[i] = it.Record
	}
	return out
}

// YesterdayMidnight returns 00:00 of the day before now, in now's location.
func YesterdayMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-1, 0, 0, 0, 0, now.Location())
}
