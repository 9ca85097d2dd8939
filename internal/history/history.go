// Package history holds the pure operations over a scan history: appending
// and deleting sessions, flag updates, and the consolidated view.
//
// Every function takes a record.History value and returns a new one; inputs
// are never modified.
package history

import (
	"fmt"
	"sort"
	"time"

	"github.com/hpungsan/radar/internal/record"
)

// Sorted returns a copy of h ordered oldest to newest by session ID.
func Sorted(h record.History) record.History {
	out := h.Clone()
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NextSessionID returns the session ID for a scan at t: its Unix
// milliseconds, bumped past the newest existing ID so IDs stay increasing.
func NextSessionID(h record.History, t time.Time) int64 {
	id := t.UnixMilli()
	for _, s := range h {
		if s.ID >= id {
			id = s.ID + 1
		}
	}
	return id
}

// Append returns h with s added. Sessions are never merged on append.
func Append(h record.History, s record.Session) record.History {
	out := h.Clone()
	return append(out, s.Clone())
}

// Delete returns h without session id, and whether it was present.
func Delete(h record.History, id int64) (record.History, bool) {
	out := make(record.History, 0, len(h))
	found := false
	for _, s := range h {
		if s.ID == id {
			found = true
			continue
		}
		out = append(out, s.Clone())
	}
	return out, found
}

// SessionView returns session id exactly as stored.
// Sessions are internally unique by construction, so no dedup happens here.
func SessionView(h record.History, id int64) (record.Session, bool) {
	for _, s := range h {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return record.Session{}, false
}

// ErrNoSuchRecord is returned by SetFlag for an unknown session or index.
type ErrNoSuchRecord struct {
	SessionID int64
	Index     int
}

func (e *ErrNoSuchRecord) Error() string {
	return fmt.Sprintf("no record %d in session %d", e.Index, e.SessionID)
}

// SetFlag sets Done on one record addressed by session and index.
func SetFlag(h record.History, sessionID int64, index int, value bool) (record.History, error) {
	out := h.Clone()
	for i := range out {
		if out[i].ID != sessionID {
			continue
		}
		if index < 0 || index >= len(out[i].Records) {
			return nil, &ErrNoSuchRecord{SessionID: sessionID, Index: index}
		}
		out[i].Records[index].Done = value
		return out, nil
	}
	return nil, &ErrNoSuchRecord{SessionID: sessionID, Index: index}
}

// SetFlagBySignature sets Done to value on every record, in every session,
// sharing r's signature. Content is left untouched. It returns the IDs of
// sessions holding at least one matching record, in history order.
//
// Applying the same update twice yields the same history.
func SetFlagBySignature(h record.History, r record.Record, value bool) (record.History, []int64) {
	sig := record.Signature(r)
	out := h.Clone()
	var touched []int64
	for i := range out {
		hit := false
		for j := range out[i].Records {
			if record.Signature(out[i].Records[j]) == sig {
				out[i].Records[j].Done = value
				hit = true
			}
		}
		if hit {
			touched = append(touched, out[i].ID)
		}
	}
	return out, touched
}

// FindBySignature returns the freshest record carrying sig, with its flag
// OR-ed across the history as in the consolidated view.
func FindBySignature(h record.History, sig string) (record.Record, bool) {
	for _, r := range merge(h) {
		if record.Signature(r) == sig {
			return r, true
		}
	}
	return record.Record{}, false
}
