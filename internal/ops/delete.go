package ops

import (
	"context"
	"strconv"

	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/history"
	"github.com/hpungsan/radar/internal/record"
	"github.com/hpungsan/radar/internal/store"
)

// DeleteSessionInput contains parameters for the DeleteSession operation.
type DeleteSessionInput struct {
	ID int64
}

// DeleteSessionOutput contains the result of the DeleteSession operation.
type DeleteSessionOutput struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

// DeleteSession removes a whole session.
func DeleteSession(ctx context.Context, hs *store.HistoryStore, input DeleteSessionInput) (*DeleteSessionOutput, error) {
	err := hs.Update(ctx, func(h record.History) (record.History, error) {
		out, found := history.Delete(h, input.ID)
		if !found {
			return nil, errors.NewNotFound("session", strconv.FormatInt(input.ID, 10))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteSessionOutput{Deleted: true, ID: input.ID}, nil
}
