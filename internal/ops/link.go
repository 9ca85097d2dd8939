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

// CalendarLinkInput contains parameters for the CalendarLink operation.
// Exactly one of Signature or Record addresses the item.
type CalendarLinkInput struct {
	Signature string
	Record    *record.Record
	MarkDone  bool

	Now time.Time `json:"-"`
}

// CalendarLinkOutput contains the result of the CalendarLink operation.
type CalendarLinkOutput struct {
	URL       string    `json:"url"`
	Signature string    `json:"signature"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Marked    bool      `json:"marked"`
	Sessions  []int64   `json:"sessions,omitempty"`
}

// CalendarLink builds the calendar deep link for one item. Building the
// link changes nothing; MarkDone additionally flags every sighting.
func CalendarLink(ctx context.Context, hs *store.HistoryStore, cfg *config.Config, input CalendarLinkInput) (*CalendarLinkOutput, error) {
	sig := strings.TrimSpace(input.Signature)
	if (sig == "") == (input.Record == nil) {
		return nil, errors.NewInvalidRequest("specify exactly one of signature or record")
	}

	h, err := hs.Load(ctx)
	if err != nil {
		return nil, err
	}
	target, err := resolveTarget(h, sig, input.Record)
	if err != nil {
		return nil, err
	}

	rng := history.RangeOf(target, extractor(cfg, input.Now))
	out := &CalendarLinkOutput{
		URL:       linkBuilder(cfg).Link(target, rng),
		Signature: record.Signature(target),
		Start:     rng.Start,
		End:       rng.End,
	}

	if input.MarkDone {
		err := hs.Update(ctx, func(h record.History) (record.History, error) {
			next, touched := history.SetFlagBySignature(h, target, true)
			out.Sessions = touched
			return next, nil
		})
		if err != nil {
			return nil, err
		}
		out.Marked = true
	}

	return out, nil
}
