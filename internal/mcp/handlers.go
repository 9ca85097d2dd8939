package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/radar/internal/config"
	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/ops"
	"github.com/hpungsan/radar/internal/profile"
	"github.com/hpungsan/radar/internal/record"
	"github.com/hpungsan/radar/internal/store"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	hs        *store.HistoryStore
	cfg       *config.Config
	resolver  *ops.Resolver
	exportDir string
	now       func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps Deps) *Handlers {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	resolver := deps.Resolver
	if resolver == nil {
		resolver = &ops.Resolver{Config: cfg}
	}
	return &Handlers{hs: deps.Store, cfg: cfg, resolver: resolver, exportDir: deps.ExportDir, now: deps.Now}
}

// Request types for each tool

// SessionRequest addresses one session.
type SessionRequest struct {
	ID int64 `json:"id"`
}

// ToggleRequest represents the arguments for record_toggle.
type ToggleRequest struct {
	SessionID int64 `json:"session_id"`
	Index     *int  `json:"index"`
	Value     *bool `json:"value,omitempty"`
}

// MarkRequest represents the arguments for record_mark.
type MarkRequest struct {
	Signature string         `json:"signature,omitempty"`
	Record    *record.Record `json:"record,omitempty"`
	Value     *bool          `json:"value,omitempty"`
}

// DigestRequest represents the arguments for digest_list.
type DigestRequest struct {
	HidePast *bool  `json:"hide_past,omitempty"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// LinkRequest represents the arguments for digest_link.
type LinkRequest struct {
	Signature string         `json:"signature,omitempty"`
	Record    *record.Record `json:"record,omitempty"`
	MarkDone  bool           `json:"mark_done,omitempty"`
}

// ExportRequest represents the arguments for digest_export.
type ExportRequest struct {
	Path     string `json:"path,omitempty"`
	HidePast *bool  `json:"hide_past,omitempty"`
}

// ProfileListOutput is the result of profile_list.
type ProfileListOutput struct {
	Profiles []*profile.Profile `json:"profiles"`
}

// HandleScan handles the scan_run tool.
func (h *Handlers) HandleScan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.ScanRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	src, scanInput, err := h.resolver.Resolve(input)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Scan(ctx, h.hs, h.cfg, src, scanInput)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSessionList handles the session_list tool.
func (h *Handlers) HandleSessionList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListSessions(ctx, h.hs)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSessionGet handles the session_get tool.
func (h *Handlers) HandleSessionGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeSession(req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.GetSession(ctx, h.hs, ops.GetSessionInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSessionDelete handles the session_delete tool.
func (h *Handlers) HandleSessionDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeSession(req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.DeleteSession(ctx, h.hs, ops.DeleteSessionInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRecordToggle handles the record_toggle tool.
func (h *Handlers) HandleRecordToggle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ToggleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.SessionID <= 0 {
		return errorResult(errors.NewInvalidRequest("session_id is required")), nil
	}
	if input.Index == nil {
		return errorResult(errors.NewInvalidRequest("index is required")), nil
	}

	result, err := ops.ToggleRecord(ctx, h.hs, ops.ToggleRecordInput{
		SessionID: input.SessionID,
		Index:     *input.Index,
		Value:     input.Value,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRecordMark handles the record_mark tool.
func (h *Handlers) HandleRecordMark(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MarkRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	value := true
	if input.Value != nil {
		value = *input.Value
	}

	result, err := ops.MarkRecord(ctx, h.hs, ops.MarkRecordInput{
		Signature: input.Signature,
		Record:    input.Record,
		Value:     value,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDigest handles the digest_list tool.
func (h *Handlers) HandleDigest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DigestRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Digest(ctx, h.hs, h.cfg, ops.DigestInput{
		HidePast: input.HidePast,
		Category: input.Category,
		Limit:    input.Limit,
		Now:      h.clock(),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDigestLink handles the digest_link tool.
func (h *Handlers) HandleDigestLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LinkRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CalendarLink(ctx, h.hs, h.cfg, ops.CalendarLinkInput{
		Signature: input.Signature,
		Record:    input.Record,
		MarkDone:  input.MarkDone,
		Now:       h.clock(),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleExport handles the digest_export tool.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.hs, h.cfg, ops.ExportInput{
		Path:     input.Path,
		Dir:      h.exportDir,
		HidePast: input.HidePast,
		Now:      h.clock(),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleProfileList handles the profile_list tool.
func (h *Handlers) HandleProfileList(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	set := h.resolver.Profiles
	names := set.Names()
	out := ProfileListOutput{Profiles: make([]*profile.Profile, 0, len(names))}
	for _, name := range names {
		if p, ok := set.Get(name); ok {
			out.Profiles = append(out.Profiles, p)
		}
	}
	return successResult(out)
}

// clock returns the pinned time, or zero for the wall clock.
func (h *Handlers) clock() time.Time {
	if h.now == nil {
		return time.Time{}
	}
	return h.now()
}

func decodeSession(req mcp.CallToolRequest) (SessionRequest, error) {
	input, err := decode[SessionRequest](req)
	if err != nil {
		return input, errors.NewInvalidRequest(err.Error())
	}
	if input.ID <= 0 {
		return input, errors.NewInvalidRequest("id is required")
	}
	return input, nil
}

// errorResult converts an error to an MCP error result.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if rErr, ok := errors.As(err); ok {
		msg := rErr.Message
		if err != error(rErr) {
			msg = err.Error()
		}
		errorObj := map[string]any{
			"code":    rErr.Code,
			"message": msg,
			"status":  rErr.Status,
		}
		// INTERNAL details may carry paths or driver errors
		if rErr.Code != errors.ErrInternal && rErr.Details != nil {
			errorObj["details"] = rErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates a successful tool result with JSON content.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
