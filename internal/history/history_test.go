package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/radar/internal/datetext"
	"github.com/hpungsan/radar/internal/record"
)

var refNow = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

func testExtractor() *datetext.Extractor {
	return &datetext.Extractor{
		Location: time.UTC,
		Now:      func() time.Time { return refNow },
	}
}

func session(id int64, records ...record.Record) record.Session {
	return record.Session{ID: id, Label: "label", Records: records}
}

func TestConsolidate_EmptyHistory(t *testing.T) {
	items := Consolidate(nil, testExtractor(), ConsolidateOptions{})
	require.NotNil(t, items)
	require.Empty(t, items)

	items = Consolidate(record.History{}, testExtractor(), ConsolidateOptions{HidePast: true})
	require.Empty(t, items)
}

func TestConsolidate_FreshestContentWins(t *testing.T) {
	h := record.History{
		// deliberately out of order: the fold must sort by ID
		session(300, record.Record{Title: "Pitch Night", Date: "24 oct", Description: "newest"}),
		session(100, record.Record{Title: "Pitch Night!!", Date: "24 Oct", Description: "oldest"}),
		session(200, record.Record{Title: "pitch night", Date: "24 oct", Description: "middle"}),
	}

	items := Consolidate(h, testExtractor(), ConsolidateOptions{})
	require.Len(t, items, 1)
	require.Equal(t, "newest", items[0].Record.Description)
	require.Equal(t, "Pitch Night", items[0].Record.Title)
}

func TestConsolidate_FlagIsORedAcrossSessions(t *testing.T) {
	tests := []struct {
		name  string
		flags []bool
		want  bool
	}{
		{"all false", []bool{false, false, false}, false},
		{"oldest true", []bool{true, false, false}, true},
		{"middle true", []bool{false, true, false}, true},
		{"newest true", []bool{false, false, true}, true},
		{"all true", []bool{true, true, true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h record.History
			for i, f := range tt.flags {
				h = append(h, session(int64(i+1), record.Record{Title: "Demo Day", Date: "5 nov", Done: f}))
			}
			items := Consolidate(h, testExtractor(), ConsolidateOptions{})
			require.Len(t, items, 1)
			require.Equal(t, tt.want, items[0].Record.Done)
		})
	}
}

func TestConsolidate_SortsByStart(t *testing.T) {
	h := record.History{
		session(1,
			record.Record{Title: "C", Date: "20 nov"},
			record.Record{Title: "A", Date: "16 oct, 8h"},
		),
		session(2,
			record.Record{Title: "B", Date: "16 oct, 19h"},
			record.Record{Title: "D", Date: "3 janv"},
		),
	}

	items := Consolidate(h, testExtractor(), ConsolidateOptions{})
	var titles []string
	for _, it := range items {
		titles = append(titles, it.Record.Title)
	}
	require.Equal(t, []string{"A", "B", "C", "D"}, titles)
}

func TestConsolidate_EqualStartKeepsFirstSeenOrder(t *testing.T) {
	h := record.History{
		session(1, record.Record{Title: "first", Date: "20 oct"}),
		session(2, record.Record{Title: "second", Date: "20 oct"}),
	}

	items := Consolidate(h, testExtractor(), ConsolidateOptions{})
	require.Len(t, items, 2)
	require.Equal(t, "first", items[0].Record.Title)
	require.Equal(t, "second", items[1].Record.Title)
}

func TestConsolidate_HidePast(t *testing.T) {
	h := record.History{
		session(1,
			record.Record{Title: "long gone", Date: "12 oct, 23h"},
			record.Record{Title: "yesterday", Date: "13 oct, 8h"},
			record.Record{Title: "today", Date: "14 oct, 8h"},
			record.Record{Title: "next week", Date: "21 oct"},
		),
	}

	all := Consolidate(h, testExtractor(), ConsolidateOptions{})
	require.Len(t, all, 4)

	// "12 oct" in October parses in the current year, so it is in the past.
	visible := Consolidate(h, testExtractor(), ConsolidateOptions{HidePast: true})
	var titles []string
	for _, it := range visible {
		titles = append(titles, it.Record.Title)
	}
	require.Equal(t, []string{"yesterday", "today", "next week"}, titles)
}

func TestConsolidate_HidePastExplicitNow(t *testing.T) {
	h := record.History{session(1, record.Record{Title: "x", Date: "20 oct"})}
	later := time.Date(2026, time.October, 25, 0, 0, 0, 0, time.UTC)

	items := Consolidate(h, testExtractor(), ConsolidateOptions{HidePast: true, Now: later})
	require.Empty(t, items)
}

func TestConsolidate_DoesNotMutateInput(t *testing.T) {
	h := record.History{
		session(2, record.Record{Title: "x", Date: "20 oct", Description: "new"}),
		session(1, record.Record{Title: "x", Date: "20 oct", Description: "old", Done: true}),
	}
	before := h.Clone()

	_ = Consolidate(h, testExtractor(), ConsolidateOptions{})
	require.Equal(t, before, h)
}

func TestSetFlagBySignature(t *testing.T) {
	h := record.History{
		session(1,
			record.Record{Title: "Pitch Night", Date: "24 oct", Description: "v1"},
			record.Record{Title: "Other", Date: "25 oct"},
		),
		session(2, record.Record{Title: "Unrelated", Date: "1 nov"}),
		session(3, record.Record{Title: "pitch night!", Date: "24 OCT", Description: "v2"}),
	}

	target := record.Record{Title: "PITCH NIGHT", Date: "24 oct"}
	once, touched := SetFlagBySignature(h, target, true)
	require.Equal(t, []int64{1, 3}, touched)
	require.True(t, once[0].Records[0].Done)
	require.False(t, once[0].Records[1].Done)
	require.False(t, once[1].Records[0].Done)
	require.True(t, once[2].Records[0].Done)

	// content is never overwritten by a flag update
	require.Equal(t, "v1", once[0].Records[0].Description)
	require.Equal(t, "v2", once[2].Records[0].Description)

	twice, _ := SetFlagBySignature(once, target, true)
	require.Equal(t, once, twice)

	// input untouched
	require.False(t, h[0].Records[0].Done)
}

func TestSetFlagBySignature_ClearsFlag(t *testing.T) {
	h := record.History{
		session(1, record.Record{Title: "x", Date: "1 nov", Done: true}),
		session(2, record.Record{Title: "x", Date: "1 nov", Done: true}),
	}

	out, touched := SetFlagBySignature(h, record.Record{Title: "x", Date: "1 nov"}, false)
	require.Len(t, touched, 2)

	items := Consolidate(out, testExtractor(), ConsolidateOptions{})
	require.Len(t, items, 1)
	require.False(t, items[0].Record.Done)
}

func TestSetFlagBySignature_NoMatch(t *testing.T) {
	h := record.History{session(1, record.Record{Title: "x", Date: "1 nov"})}
	out, touched := SetFlagBySignature(h, record.Record{Title: "y"}, true)
	require.Empty(t, touched)
	require.Equal(t, h, out)
}

func TestSetFlag(t *testing.T) {
	h := record.History{session(1, record.Record{Title: "a"}, record.Record{Title: "b"})}

	out, err := SetFlag(h, 1, 1, true)
	require.NoError(t, err)
	require.False(t, out[0].Records[0].Done)
	require.True(t, out[0].Records[1].Done)

	_, err = SetFlag(h, 1, 2, true)
	var nsr *ErrNoSuchRecord
	require.ErrorAs(t, err, &nsr)

	_, err = SetFlag(h, 1, -1, true)
	require.ErrorAs(t, err, &nsr)

	_, err = SetFlag(h, 99, 0, true)
	require.ErrorAs(t, err, &nsr)
	require.Equal(t, int64(99), nsr.SessionID)
}

func TestAppendAndDelete(t *testing.T) {
	var h record.History
	h = Append(h, session(1, record.Record{Title: "a"}))
	h = Append(h, session(2, record.Record{Title: "a"}))
	require.Len(t, h, 2)

	out, ok := Delete(h, 1)
	require.True(t, ok)
	require.Len(t, out, 1)
	require.Equal(t, int64(2), out[0].ID)

	_, ok = Delete(out, 1)
	require.False(t, ok)
}

func TestSessionView_IsIdentity(t *testing.T) {
	s := session(7,
		record.Record{Title: "dup", Date: "1 nov"},
		record.Record{Title: "dup", Date: "1 nov"},
	)
	h := record.History{s}

	got, ok := SessionView(h, 7)
	require.True(t, ok)
	require.Equal(t, s, got)

	_, ok = SessionView(h, 8)
	require.False(t, ok)
}

func TestNextSessionID(t *testing.T) {
	at := time.UnixMilli(1_000)
	require.Equal(t, int64(1_000), NextSessionID(nil, at))

	h := record.History{session(1_000), session(1_500)}
	require.Equal(t, int64(1_501), NextSessionID(h, at))
	require.Equal(t, int64(2_000), NextSessionID(h, time.UnixMilli(2_000)))
}

func TestFindBySignature(t *testing.T) {
	h := record.History{
		session(1, record.Record{Title: "x", Date: "1 nov", Done: true, Description: "old"}),
		session(2, record.Record{Title: "X", Date: "1 nov", Description: "new"}),
	}

	r, ok := FindBySignature(h, record.Signature(record.Record{Title: "x", Date: "1 nov"}))
	require.True(t, ok)
	require.Equal(t, "new", r.Description)
	require.True(t, r.Done)

	_, ok = FindBySignature(h, "nope")
	require.False(t, ok)
}

func TestYesterdayMidnight(t *testing.T) {
	got := YesterdayMidnight(time.Date(2026, time.November, 1, 15, 30, 0, 0, time.UTC))
	require.Equal(t, time.Date(2026, time.October, 31, 0, 0, 0, 0, time.UTC), got)
}

func TestRangeOf_PublishedWinsOverDateText(t *testing.T) {
	published := time.Date(2026, time.September, 30, 8, 0, 0, 0, time.UTC)
	r := record.Record{Title: "Old post", Date: "30 September 2026, 08h00", Published: &published}

	rng := RangeOf(r, testExtractor())
	require.Equal(t, published, rng.Start)
	require.Equal(t, published.Add(datetext.DefaultDuration), rng.End)

	r.Published = nil
	require.Equal(t, 2027, RangeOf(r, testExtractor()).Start.Year(), "date text alone rolls a past month over")
}

func TestConsolidate_HidePastUsesPublished(t *testing.T) {
	old := time.Date(2026, time.September, 30, 8, 0, 0, 0, time.UTC)
	fresh := time.Date(2026, time.October, 14, 7, 30, 0, 0, time.UTC)
	h := record.History{session(1,
		record.Record{Title: "Old post", Date: "30 September 2026, 08h00", Published: &old},
		record.Record{Title: "Today's post", Date: "14 October 2026, 07h30", Published: &fresh},
	)}

	all := Consolidate(h, testExtractor(), ConsolidateOptions{})
	require.Len(t, all, 2)
	require.Equal(t, "Old post", all[0].Record.Title)

	kept := Consolidate(h, testExtractor(), ConsolidateOptions{HidePast: true})
	require.Len(t, kept, 1)
	require.Equal(t, "Today's post", kept[0].Record.Title)
}
