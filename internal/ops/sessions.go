package ops

import (
	"context"
	"sort"
	"strconv"

	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/history"
	"github.com/hpungsan/radar/internal/record"
	"github.com/hpungsan/radar/internal/store"
)

// SessionSummary is one row of the session listing.
type SessionSummary struct {
	ID      int64  `json:"id"`
	Label   string `json:"label"`
	ScanID  string `json:"scan_id,omitempty"`
	Profile string `json:"profile,omitempty"`
	Count   int    `json:"count"`
	Done    int    `json:"done"`
}

// ListSessionsOutput contains the result of the ListSessions operation.
type ListSessionsOutput struct {
	Sessions []SessionSummary `json:"sessions"`
	Total    int              `json:"total"`
}

// ListSessions summarises every session, newest first.
func ListSessions(ctx context.Context, hs *store.HistoryStore) (*ListSessionsOutput, error) {
	h, err := hs.Load(ctx)
	if err != nil {
		return nil, err
	}

	sorted := history.Sorted(h)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })

	summaries := make([]SessionSummary, 0, len(sorted))
	for _, s := range sorted {
		done := 0
		for _, r := range s.Records {
			if r.Done {
				done++
			}
		}
		summaries = append(summaries, SessionSummary{
			ID:      s.ID,
			Label:   s.Label,
			ScanID:  s.ScanID,
			Profile: s.Profile,
			Count:   len(s.Records),
			Done:    done,
		})
	}

	return &ListSessionsOutput{Sessions: summaries, Total: len(summaries)}, nil
}

// GetSessionInput contains parameters for the GetSession operation.
type GetSessionInput struct {
	ID int64
}

// GetSession returns one session exactly as stored.
func GetSession(ctx context.Context, hs *store.HistoryStore, input GetSessionInput) (*record.Session, error) {
	h, err := hs.Load(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := history.SessionView(h, input.ID)
	if !ok {
		return nil, errors.NewNotFound("session", strconv.FormatInt(input.ID, 10))
	}
	if s.Records == nil {
		s.Records = []record.Record{}
	}
	return &s, nil
}
