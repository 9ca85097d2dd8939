package ops

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/radar/internal/calendar"
	"github.com/hpungsan/radar/internal/config"
	"github.com/hpungsan/radar/internal/datetext"
	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/record"
)

// Digest limits
const (
	DefaultDigestLimit = 0 // no limit
	MaxDigestLimit     = 1000
)

// LabelLayout formats session labels.
const LabelLayout = "2006-01-02 15:04"

// Source produces the records of one scan.
type Source interface {
	Scan(ctx context.Context, instruction string) ([]record.Record, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, instruction string) ([]record.Record, error)

func (f SourceFunc) Scan(ctx context.Context, instruction string) ([]record.Record, error) {
	return f(ctx, instruction)
}

// ParseSessionID parses a session ID given as text.
func ParseSessionID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidRequest("session id must be a positive integer")
	}
	return id, nil
}

// extractor builds the date extractor for cfg, pinned to now when set.
func extractor(cfg *config.Config, now time.Time) *datetext.Extractor {
	ext := datetext.New(cfg.Location())
	if !now.IsZero() {
		ext.Now = func() time.Time { return now }
	}
	return ext
}

func linkBuilder(cfg *config.Config) calendar.Builder {
	return calendar.NewBuilder(cfg.CalendarURL, cfg.Timezone)
}

// cancelled maps a finished context onto CANCELLED.
func cancelled(ctx context.Context, operation string) error {
	select {
	case <-ctx.Done():
		return errors.NewCancelled(operation)
	default:
		return nil
	}
}
