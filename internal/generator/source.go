package generator

import (
	"context"
	"time"

	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/record"
)

// Source adapts a Generator into a scan source.
type Source struct {
	Generator Generator

	// Timeout bounds one Generate call. Zero means no extra bound.
	Timeout time.Duration
}

// Scan generates text for instruction and extracts records from it.
func (s *Source) Scan(ctx context.Context, instruction string) ([]record.Record, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	text, err := s.Generator.Generate(ctx, instruction)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidResult) {
			return nil, err
		}
		if ctx.Err() == context.Canceled {
			return nil, errors.NewCancelled("scan")
		}
		return nil, errors.NewGenerationFailed(err)
	}

	return ExtractRecords(text)
}
