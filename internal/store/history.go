package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/record"
)

// HistoryKey is the fixed key holding the whole history.
const HistoryKey = "radar:history"

// HistoryStore loads and saves the full history as one JSON value.
// Update serialises read-modify-write cycles within the process.
type HistoryStore struct {
	kv     KV
	logger *slog.Logger
	mu     sync.Mutex
}

// NewHistoryStore wraps kv. A nil logger falls back to slog.Default().
func NewHistoryStore(kv KV, logger *slog.Logger) *HistoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStore{kv: kv, logger: logger}
}

// Load returns the stored history. Absent or corrupt data reads as empty.
func (s *HistoryStore) Load(ctx context.Context) (record.History, error) {
	data, ok, err := s.kv.Get(ctx, HistoryKey)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if !ok || len(data) == 0 {
		return record.History{}, nil
	}

	var h record.History
	if err := json.Unmarshal(data, &h); err != nil {
		s.logger.Warn("stored history is corrupt, reading as empty", "key", HistoryKey, "error", err)
		return record.History{}, nil
	}
	if h == nil {
		h = record.History{}
	}
	return h, nil
}

// Save replaces the stored history with h.
func (s *HistoryStore) Save(ctx context.Context, h record.History) error {
	if h == nil {
		h = record.History{}
	}
	data, err := json.Marshal(h)
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := s.kv.Set(ctx, HistoryKey, data); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Update loads the history, applies fn, and saves the result.
// When fn returns an error nothing is written.
func (s *HistoryStore) Update(ctx context.Context, fn func(record.History) (record.History, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.Load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(h)
	if err != nil {
		return err
	}
	return s.Save(ctx, next)
}

// Close closes the underlying KV.
func (s *HistoryStore) Close() error {
	return s.kv.Close()
}
