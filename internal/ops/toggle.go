package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/history"
	"github.com/hpungsan/radar/internal/record"
	"github.com/hpungsan/radar/internal/store"
)

// ToggleRecordInput contains parameters for the ToggleRecord operation.
type ToggleRecordInput struct {
	SessionID int64
	Index     int
	Value     *bool // nil flips the current flag
}

// ToggleRecordOutput contains the result of the ToggleRecord operation.
type ToggleRecordOutput struct {
	SessionID int64 `json:"session_id"`
	Index     int   `json:"index"`
	Done      bool  `json:"done"`
}

// ToggleRecord sets or flips Done on one record of one session.
// Other sessions holding the same item are left alone.
func ToggleRecord(ctx context.Context, hs *store.HistoryStore, input ToggleRecordInput) (*ToggleRecordOutput, error) {
	var done bool
	err := hs.Update(ctx, func(h record.History) (record.History, error) {
		s, ok := history.SessionView(h, input.SessionID)
		if !ok || input.Index < 0 || input.Index >= len(s.Records) {
			return nil, errors.NewNotFound("record", fmt.Sprintf("%d/%d", input.SessionID, input.Index))
		}

		done = !s.Records[input.Index].Done
		if input.Value != nil {
			done = *input.Value
		}
		return history.SetFlag(h, input.SessionID, input.Index, done)
	})
	if err != nil {
		return nil, err
	}

	return &ToggleRecordOutput{SessionID: input.SessionID, Index: input.Index, Done: done}, nil
}
