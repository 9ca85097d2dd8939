package store

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/radar/internal/logutil"
	"github.com/hpungsan/radar/internal/record"
)

func newTestStore(t *testing.T) (*HistoryStore, *Memory) {
	t.Helper()
	kv := NewMemory()
	return NewHistoryStore(kv, logutil.Discard()), kv
}

func TestHistoryStore_LoadEmpty(t *testing.T) {
	hs, _ := newTestStore(t)

	h, err := hs.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, h)
	require.Empty(t, h)
}

func TestHistoryStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	hs, _ := newTestStore(t)

	want := record.History{
		{ID: 1, Label: "2026-10-14 10:00", Records: []record.Record{
			{Title: "Pitch Night", Date: "24 oct, 22h", Category: record.CategoryEvent, Tags: []string{"startup"}},
		}},
		{ID: 2, Label: "2026-10-14 11:00", Records: []record.Record{{Title: "Update", Done: true}}},
	}
	require.NoError(t, hs.Save(ctx, want))

	got, err := hs.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestHistoryStore_CorruptReadsEmpty(t *testing.T) {
	ctx := context.Background()
	hs, kv := newTestStore(t)

	require.NoError(t, kv.Set(ctx, HistoryKey, []byte(`{not json`)))

	h, err := hs.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, h)
}

func TestHistoryStore_NullReadsEmpty(t *testing.T) {
	ctx := context.Background()
	hs, kv := newTestStore(t)

	require.NoError(t, kv.Set(ctx, HistoryKey, []byte(`null`)))

	h, err := hs.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, h)
	require.Empty(t, h)
}

func TestHistoryStore_UpdateError_WritesNothing(t *testing.T) {
	ctx := context.Background()
	hs, kv := newTestStore(t)

	boom := stderrors.New("boom")
	err := hs.Update(ctx, func(h record.History) (record.History, error) {
		return append(h, record.Session{ID: 1}), boom
	})
	require.ErrorIs(t, err, boom)

	_, ok, err := kv.Get(ctx, HistoryKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHistoryStore_UpdateSerialises(t *testing.T) {
	ctx := context.Background()
	hs, _ := newTestStore(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			errs <- hs.Update(ctx, func(h record.History) (record.History, error) {
				return append(h, record.Session{ID: id}), nil
			})
		}(int64(i + 1))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	h, err := hs.Load(ctx)
	require.NoError(t, err)
	require.Len(t, h, 20)
}

func TestHistoryStore_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	sq, err := OpenSQLite(dir)
	require.NoError(t, err)
	hs := NewHistoryStore(sq, logutil.Discard())
	require.NoError(t, hs.Save(ctx, record.History{{ID: 7, Records: []record.Record{{Title: "A"}}}}))
	require.NoError(t, hs.Close())

	// Reopen the same directory
	sq, err = OpenSQLite(dir)
	require.NoError(t, err)
	hs = NewHistoryStore(sq, logutil.Discard())
	defer hs.Close()

	h, err := hs.Load(ctx)
	require.NoError(t, err)
	require.Len(t, h, 1)
	require.Equal(t, int64(7), h[0].ID)
}
