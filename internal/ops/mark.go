package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/history"
	"github.com/hpungsan/radar/internal/record"
	"github.com/hpungsan/radar/internal/store"
)

// MarkRecordInput contains parameters for the MarkRecord operation.
// Exactly one of Signature or Record addresses the item.
type MarkRecordInput struct {
	Signature string
	Record    *record.Record
	Value     bool
}

// MarkRecordOutput contains the result of the MarkRecord operation.
type MarkRecordOutput struct {
	Signature string  `json:"signature"`
	Done      bool    `json:"done"`
	Sessions  []int64 `json:"sessions"`
}

// MarkRecord sets Done on every sighting of an item across all sessions.
// Addressing by signature requires the item to exist; addressing by record
// with no match is a no-op.
func MarkRecord(ctx context.Context, hs *store.HistoryStore, input MarkRecordInput) (*MarkRecordOutput, error) {
	sig := strings.TrimSpace(input.Signature)
	if (sig == "") == (input.Record == nil) {
		return nil, errors.NewInvalidRequest("specify exactly one of signature or record")
	}

	var touched []int64
	err := hs.Update(ctx, func(h record.History) (record.History, error) {
		target, err := resolveTarget(h, sig, input.Record)
		if err != nil {
			return nil, err
		}
		sig = record.Signature(target)

		var out record.History
		out, touched = history.SetFlagBySignature(h, target, input.Value)
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	if touched == nil {
		touched = []int64{}
	}
	return &MarkRecordOutput{Signature: sig, Done: input.Value, Sessions: touched}, nil
}

// resolveTarget returns the record an operation addresses by sig or r.
func resolveTarget(h record.History, sig string, r *record.Record) (record.Record, error) {
	if r != nil {
		return *r, nil
	}
	found, ok := history.FindBySignature(h, sig)
	if !ok {
		return record.Record{}, errors.NewNotFound("record", sig)
	}
	return found, nil
}
