package ops

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/radar/internal/config"
	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/history"
	"github.com/hpungsan/radar/internal/record"
	"github.com/hpungsan/radar/internal/store"
)

// DigestInput contains parameters for the Digest operation.
type DigestInput struct {
	HidePast *bool  // nil uses cfg.HidePast
	Category string // optional filter; must be a known category
	Limit    int    // 0 means all

	// Now pins the reference clock; zero means the wall clock
	Now time.Time `json:"-"`
}

// DigestItem is one consolidated record with its parsed range and link.
type DigestItem struct {
	record.Record
	Signature   string    `json:"signature"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	CalendarURL string    `json:"calendar_url"`
}

// DigestOutput contains the result of the Digest operation.
type DigestOutput struct {
	Items    []DigestItem `json:"items"`
	Total    int          `json:"total"`
	HidePast bool         `json:"hide_past"`
}

// Digest returns the consolidated, chronologically ordered view.
func Digest(ctx context.Context, hs *store.HistoryStore, cfg *config.Config, input DigestInput) (*DigestOutput, error) {
	hidePast := cfg.HidePast
	if input.HidePast != nil {
		hidePast = *input.HidePast
	}

	var category record.Category
	if c := strings.TrimSpace(input.Category); c != "" {
		category = record.Category(strings.ToLower(c))
		if !category.Valid() {
			return nil, errors.NewInvalidRequest("unknown category: " + c)
		}
	}
	if input.Limit < 0 || input.Limit > MaxDigestLimit {
		return nil, errors.NewInvalidRequest("limit must be between 0 and 1000")
	}

	h, err := hs.Load(ctx)
	if err != nil {
		return nil, err
	}

	items, err := consolidated(ctx, h, cfg, hidePast, input.Now)
	if err != nil {
		return nil, err
	}

	out := make([]DigestItem, 0, len(items))
	for _, it := range items {
		if category != "" && it.Category != category {
			continue
		}
		out = append(out, it)
	}
	total := len(out)
	if input.Limit > 0 && len(out) > input.Limit {
		out = out[:input.Limit]
	}

	return &DigestOutput{Items: out, Total: total, HidePast: hidePast}, nil
}

// consolidated builds digest items for h.
func consolidated(ctx context.Context, h record.History, cfg *config.Config, hidePast bool, now time.Time) ([]DigestItem, error) {
	ext := extractor(cfg, now)
	builder := linkBuilder(cfg)

	items := history.Consolidate(h, ext, history.ConsolidateOptions{HidePast: hidePast, Now: now})
	out := make([]DigestItem, 0, len(items))
	for _, it := range items {
		if err := cancelled(ctx, "digest"); err != nil {
			return nil, err
		}
		out = append(out, DigestItem{
			Record:      it.Record,
			Signature:   it.Signature,
			Start:       it.Range.Start,
			End:         it.Range.End,
			CalendarURL: builder.Link(it.Record, it.Range),
		})
	}
	return out, nil
}
