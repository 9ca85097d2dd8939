package mcp

import (
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/radar/internal/config"
	"github.com/hpungsan/radar/internal/ops"
	"github.com/hpungsan/radar/internal/store"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"scan_run": {
		def:     scanRunToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleScan },
	},
	"session_list": {
		def:     sessionListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSessionList },
	},
	"session_get": {
		def:     sessionGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSessionGet },
	},
	"session_delete": {
		def:     sessionDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSessionDelete },
	},
	"record_toggle": {
		def:     recordToggleToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecordToggle },
	},
	"record_mark": {
		def:     recordMarkToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecordMark },
	},
	"digest_list": {
		def:     digestListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDigest },
	},
	"digest_link": {
		def:     digestLinkToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDigestLink },
	},
	"digest_export": {
		def:     digestExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"profile_list": {
		def:     profileListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProfileList },
	},
}

// AllToolNames returns every registered tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// Deps are the collaborators tool handlers run against.
type Deps struct {
	Store    *store.HistoryStore
	Config   *config.Config
	Resolver *ops.Resolver

	// ExportDir receives digest_export files when no path is given
	ExportDir string

	// Now pins the clock for date resolution; nil uses the wall clock
	Now func() time.Time
}

// NewServer creates a new MCP server with the radar tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(deps Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"radar",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(deps)

	disabled := make(map[string]bool)
	if deps.Config != nil {
		for _, name := range deps.Config.DisabledTools {
			disabled[name] = true
		}
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(deps Deps, version string) error {
	return server.ServeStdio(NewServer(deps, version))
}
