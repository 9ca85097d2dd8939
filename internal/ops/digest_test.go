package ops

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/record"
)

func digestHistory() record.History {
	return record.History{
		{ID: 1, Records: []record.Record{
			{Title: "Pitch Night", Date: "24 oct, 19h", Category: record.CategoryEvent, Description: "old text"},
			{Title: "Old", Date: "10 oct", Category: record.CategoryEvent},
		}},
		{ID: 2, Records: []record.Record{
			{Title: "Funding", Date: "3 nov", Category: record.CategoryNews},
			{Title: "pitch night", Date: "24 Oct, 19h", Category: record.CategoryEvent, Description: "new text", Done: true},
			{Title: "Meeting", Date: "réunion à 14h", Category: record.CategoryEvent},
		}},
	}
}

func titles(items []DigestItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestDigest(t *testing.T) {
	ctx := context.Background()
	hs := newTestStore(t)
	seed(t, hs, digestHistory())

	out, err := Digest(ctx, hs, testConfig(), DigestInput{Now: refNow})
	require.NoError(t, err)
	require.Equal(t, []string{"Old", "Meeting", "pitch night", "Funding"}, titles(out.Items))
	require.Equal(t, 4, out.Total)
	require.False(t, out.HidePast)

	pitch := out.Items[2]
	require.Equal(t, "new text", pitch.Description, "freshest content wins")
	require.True(t, pitch.Done)
	require.Equal(t, time.Date(2026, time.October, 24, 19, 0, 0, 0, time.UTC), pitch.Start)
	require.Equal(t, time.Date(2026, time.October, 24, 21, 0, 0, 0, time.UTC), pitch.End)
	require.Equal(t, record.Signature(pitch.Record), pitch.Signature)

	u, err := url.Parse(pitch.CalendarURL)
	require.NoError(t, err)
	require.Equal(t, "20261024T190000/20261024T210000", u.Query().Get("dates"))
	require.Equal(t, "UTC", u.Query().Get("ctz"))

	meeting := out.Items[1]
	require.Equal(t, time.Date(2026, time.October, 15, 14, 0, 0, 0, time.UTC), meeting.Start)
}

func TestDigest_HidePast(t *testing.T) {
	ctx := context.Background()
	hs := newTestStore(t)
	seed(t, hs, digestHistory())

	out, err := Digest(ctx, hs, testConfig(), DigestInput{HidePast: boolPtr(true), Now: refNow})
	require.NoError(t, err)
	require.Equal(t, []string{"Meeting", "pitch night", "Funding"}, titles(out.Items))
	require.True(t, out.HidePast)

	// Config default applies when the input leaves it unset
	cfg := testConfig()
	cfg.HidePast = true
	out, err = Digest(ctx, hs, cfg, DigestInput{Now: refNow})
	require.NoError(t, err)
	require.Len(t, out.Items, 3)

	out, err = Digest(ctx, hs, cfg, DigestInput{HidePast: boolPtr(false), Now: refNow})
	require.NoError(t, err)
	require.Len(t, out.Items, 4)
}

func TestDigest_CategoryAndLimit(t *testing.T) {
	ctx := context.Background()
	hs := newTestStore(t)
	seed(t, hs, digestHistory())

	out, err := Digest(ctx, hs, testConfig(), DigestInput{Category: "News", Now: refNow})
	require.NoError(t, err)
	require.Equal(t, []string{"Funding"}, titles(out.Items))

	out, err = Digest(ctx, hs, testConfig(), DigestInput{Limit: 2, Now: refNow})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	require.Equal(t, 4, out.Total)
}

func TestDigest_InvalidInput(t *testing.T) {
	ctx := context.Background()
	hs := newTestStore(t)

	_, err := Digest(ctx, hs, testConfig(), DigestInput{Category: "gossip"})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = Digest(ctx, hs, testConfig(), DigestInput{Limit: -1})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestDigest_EmptyHistory(t *testing.T) {
	out, err := Digest(context.Background(), newTestStore(t), testConfig(), DigestInput{})
	require.NoError(t, err)
	require.NotNil(t, out.Items)
	require.Empty(t, out.Items)
}

func TestCalendarLink(t *testing.T) {
	ctx := context.Background()
	hs := newTestStore(t)
	seed(t, hs, digestHistory())

	sig := record.Signature(record.Record{Title: "Pitch Night", Date: "24 oct, 19h"})
	out, err := CalendarLink(ctx, hs, testConfig(), CalendarLinkInput{Signature: sig, Now: refNow})
	require.NoError(t, err)
	require.False(t, out.Marked)

	u, err := url.Parse(out.URL)
	require.NoError(t, err)
	require.Equal(t, "pitch night", u.Query().Get("text"))
	require.Equal(t, "TEMPLATE", u.Query().Get("action"))

	// Building a link changes nothing
	h, err := hs.Load(ctx)
	require.NoError(t, err)
	require.False(t, h[0].Records[0].Done)
}

func TestCalendarLink_MarkDone(t *testing.T) {
	ctx := context.Background()
	hs := newTestStore(t)
	seed(t, hs, digestHistory())

	sig := record.Signature(record.Record{Title: "Pitch Night", Date: "24 oct, 19h"})
	out, err := CalendarLink(ctx, hs, testConfig(), CalendarLinkInput{Signature: sig, MarkDone: true, Now: refNow})
	require.NoError(t, err)
	require.True(t, out.Marked)
	require.Equal(t, []int64{1, 2}, out.Sessions)

	h, err := hs.Load(ctx)
	require.NoError(t, err)
	require.True(t, h[0].Records[0].Done)
	require.True(t, h[1].Records[1].Done)
}

func TestCalendarLink_ByRecord(t *testing.T) {
	ctx := context.Background()
	hs := newTestStore(t)

	r := &record.Record{Title: "Ad hoc", Date: "15 nov", URL: "https://x"}
	out, err := CalendarLink(ctx, hs, testConfig(), CalendarLinkInput{Record: r, Now: refNow})
	require.NoError(t, err)

	u, err := url.Parse(out.URL)
	require.NoError(t, err)
	require.Equal(t, "20261115T090000/20261115T110000", u.Query().Get("dates"))
	require.Equal(t, "Source: https://x", u.Query().Get("details"))
}

func TestCalendarLink_Errors(t *testing.T) {
	ctx := context.Background()
	hs := newTestStore(t)

	_, err := CalendarLink(ctx, hs, testConfig(), CalendarLinkInput{})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = CalendarLink(ctx, hs, testConfig(), CalendarLinkInput{Signature: "missing"})
	require.True(t, errors.Is(err, errors.ErrNotFound))
}
