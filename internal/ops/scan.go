package ops

import (
	"context"
	"crypto/rand"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/radar/internal/config"
	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/history"
	"github.com/hpungsan/radar/internal/record"
	"github.com/hpungsan/radar/internal/store"
)

// scanning guards the single-scan-at-a-time rule within the process.
var scanning atomic.Bool

// ScanInput contains parameters for the Scan operation.
type ScanInput struct {
	Profile     string // name recorded on the session; may be empty
	Instruction string // natural-language payload handed to the source
}

// ScanOutput contains the result of the Scan operation.
type ScanOutput struct {
	SessionID int64  `json:"session_id"`
	ScanID    string `json:"scan_id"`
	Label     string `json:"label"`
	Profile   string `json:"profile,omitempty"`
	Count     int    `json:"count"`
}

// Scan runs src and appends its records as a new session.
// Only one scan may run at a time; a concurrent call fails with
// SCAN_IN_PROGRESS. A failed or cancelled scan commits nothing.
func Scan(ctx context.Context, hs *store.HistoryStore, cfg *config.Config, src Source, input ScanInput) (*ScanOutput, error) {
	if src == nil {
		return nil, errors.NewInvalidRequest("scan source is required")
	}
	if !scanning.CompareAndSwap(false, true) {
		return nil, errors.NewScanInProgress()
	}
	defer scanning.Store(false)

	started := time.Now()
	scanID := ulid.MustNew(ulid.Timestamp(started), rand.Reader).String()
	profile := strings.TrimSpace(input.Profile)
	logger := slog.Default().With("scan_id", scanID, "profile", profile)
	logger.Info("scan started")

	records, err := src.Scan(ctx, input.Instruction)
	if err != nil {
		logger.Warn("scan failed", "error", err)
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		if cerr := cancelled(ctx, "scan"); cerr != nil {
			return nil, cerr
		}
		return nil, errors.NewGenerationFailed(err)
	}
	if len(records) == 0 {
		logger.Warn("scan returned no records")
		return nil, errors.NewInvalidResult("empty array")
	}
	if err := cancelled(ctx, "scan"); err != nil {
		return nil, err
	}

	for i := range records {
		records[i].Category = record.ParseCategory(string(records[i].Category))
		records[i].Done = false
	}

	var out *ScanOutput
	err = hs.Update(ctx, func(h record.History) (record.History, error) {
		id := history.NextSessionID(h, started)
		s := record.Session{
			ID:      id,
			Label:   time.UnixMilli(id).In(cfg.Location()).Format(LabelLayout),
			ScanID:  scanID,
			Profile: profile,
			Records: records,
		}
		out = &ScanOutput{
			SessionID: s.ID,
			ScanID:    scanID,
			Label:     s.Label,
			Profile:   profile,
			Count:     len(records),
		}
		return history.Append(h, s), nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("scan finished", "session_id", out.SessionID, "records", out.Count, "took", time.Since(started))
	return out, nil
}
