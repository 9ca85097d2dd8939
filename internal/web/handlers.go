package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/radar/internal/config"
	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/export"
	"github.com/hpungsan/radar/internal/ops"
	"github.com/hpungsan/radar/internal/record"
	"github.com/hpungsan/radar/internal/store"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	hs       *store.HistoryStore
	cfg      *config.Config
	now      func() time.Time
	renderer *Renderer
}

// HandleDigest handles GET /digest: the consolidated view.
func (h *Handlers) HandleDigest(w http.ResponseWriter, r *http.Request) {
	input := ops.DigestInput{
		HidePast: parseOptionalBool(r, "hide_past"),
		Category: r.URL.Query().Get("category"),
		Limit:    parseIntParam(r, "limit", 0),
		Now:      h.clock(),
	}

	result, err := ops.Digest(r.Context(), h.hs, h.cfg, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, "digest", DigestPageData{
		PageData:   h.renderer.page("Digest", "digest"),
		Items:      result.Items,
		Total:      result.Total,
		HidePast:   result.HidePast,
		Category:   input.Category,
		Categories: record.Categories,
	})
}

// HandleDigestCSV handles GET /digest.csv: the consolidated view as a download.
func (h *Handlers) HandleDigestCSV(w http.ResponseWriter, r *http.Request) {
	now := h.clock()
	result, err := ops.Digest(r.Context(), h.hs, h.cfg, ops.DigestInput{
		HidePast: parseOptionalBool(r, "hide_past"),
		Now:      now,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	records := make([]record.Record, len(result.Items))
	for i, it := range result.Items {
		records[i] = it.Record
	}

	if now.IsZero() {
		now = time.Now()
	}
	filename := "radar-" + now.Format("2006-01-02T150405") + ops.ExportExt

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := export.Write(w, records); err != nil {
		h.renderer.logger.Warn("csv download interrupted", "error", err)
	}
}

// HandleCalendar handles GET /digest/{sig}/calendar, which redirects to the
// calendar deep link, and POST on the same path, which also marks the item
// done in every session first.
func (h *Handlers) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	sig := r.PathValue("sig")
	if sig == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("signature is required"))
		return
	}

	result, err := ops.CalendarLink(r.Context(), h.hs, h.cfg, ops.CalendarLinkInput{
		Signature: sig,
		MarkDone:  r.Method == http.MethodPost,
		Now:       h.clock(),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	status := http.StatusFound
	if r.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	http.Redirect(w, r, result.URL, status)
}

// HandleSessions handles GET /sessions: every session, newest first.
func (h *Handlers) HandleSessions(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListSessions(r.Context(), h.hs)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, "sessions", SessionsPageData{
		PageData: h.renderer.page("Sessions", "sessions"),
		Sessions: result.Sessions,
	})
}

// HandleSession handles GET /sessions/{id}: one session as stored.
func (h *Handlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	id, err := ops.ParseSessionID(r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	session, err := ops.GetSession(r.Context(), h.hs, ops.GetSessionInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, session)
		return
	}

	h.renderer.renderPage(w, "session", SessionPageData{
		PageData: h.renderer.page("Session "+session.Label, "sessions"),
		Session:  session,
	})
}

// HandleDeleteSession handles DELETE /sessions/{id} and its form fallback
// POST /sessions/{id}/delete.
func (h *Handlers) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := ops.ParseSessionID(r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.DeleteSession(r.Context(), h.hs, ops.DeleteSessionInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	http.Redirect(w, r, "/sessions", http.StatusSeeOther)
}

// HandleToggle handles POST /sessions/{id}/records/{index}/toggle.
// An optional form value "value" sets the flag instead of flipping it.
func (h *Handlers) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id, err := ops.ParseSessionID(r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("record index must be a non-negative integer"))
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	input := ops.ToggleRecordInput{SessionID: id, Index: index}
	if v := strings.TrimSpace(r.FormValue("value")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("value must be true or false"))
			return
		}
		input.Value = &b
	}

	result, err := ops.ToggleRecord(r.Context(), h.hs, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	http.Redirect(w, r, "/sessions/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// clock returns the pinned time, or zero for the wall clock.
func (h *Handlers) clock() time.Time {
	if h.now == nil {
		return time.Time{}
	}
	return h.now()
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}

// parseOptionalBool returns nil when the parameter is absent.
func parseOptionalBool(r *http.Request, name string) *bool {
	if !r.URL.Query().Has(name) {
		return nil
	}
	v := parseBoolParam(r, name)
	return &v
}
