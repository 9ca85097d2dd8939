package mcp

import "github.com/mark3labs/mcp-go/mcp"

var scanRunToolDef = mcp.NewTool("scan_run",
	mcp.WithDescription("Run one scan and append its records to the history as a new session. "+
		"Uses the named profile (default profile when omitted). Only one scan runs at a time."),
	mcp.WithString("profile", mcp.Description("Scan profile name")),
	mcp.WithString("instruction", mcp.Description("Explicit instruction replacing the profile's rendered prompt")),
	mcp.WithString("feed_url", mcp.Description("Scan this RSS/Atom feed instead of a profile")),
	mcp.WithOpenWorldHintAnnotation(true),
)

var sessionListToolDef = mcp.NewTool("session_list",
	mcp.WithDescription("List scan sessions, newest first, with record and done counts."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var sessionGetToolDef = mcp.NewTool("session_get",
	mcp.WithDescription("Get one session with its records exactly as stored."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Session ID")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var sessionDeleteToolDef = mcp.NewTool("session_delete",
	mcp.WithDescription("Delete a whole session."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Session ID")),
	mcp.WithDestructiveHintAnnotation(true),
)

var recordToggleToolDef = mcp.NewTool("record_toggle",
	mcp.WithDescription("Flip, or set, the done flag of one record in one session. Other sessions are not touched."),
	mcp.WithNumber("session_id", mcp.Required(), mcp.Description("Session ID")),
	mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based record index within the session")),
	mcp.WithBoolean("value", mcp.Description("Set this value instead of flipping")),
)

var recordMarkToolDef = mcp.NewTool("record_mark",
	mcp.WithDescription("Set the done flag on every sighting of an item across all sessions. "+
		"Address the item by signature (from digest_list) or by a record object."),
	mcp.WithString("signature", mcp.Description("Item signature")),
	mcp.WithObject("record", mcp.Description("Record fields (title, date, location) identifying the item")),
	mcp.WithBoolean("value", mcp.Description("Flag value (default true)")),
	mcp.WithIdempotentHintAnnotation(true),
)

var digestListToolDef = mcp.NewTool("digest_list",
	mcp.WithDescription("Consolidated, deduplicated view of all sessions in chronological order, "+
		"with parsed start/end times and calendar links."),
	mcp.WithBoolean("hide_past", mcp.Description("Drop items that started before yesterday (default from config)")),
	mcp.WithString("category", mcp.Description("Only items of this category"),
		mcp.Enum("event", "news", "opportunity", "deadline", "other")),
	mcp.WithNumber("limit", mcp.Description("Maximum items to return (0 = all, max 1000)")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var digestLinkToolDef = mcp.NewTool("digest_link",
	mcp.WithDescription("Build the calendar deep link for one item, optionally marking it done everywhere."),
	mcp.WithString("signature", mcp.Description("Item signature")),
	mcp.WithObject("record", mcp.Description("Record fields identifying the item")),
	mcp.WithBoolean("mark_done", mcp.Description("Also set done on every sighting")),
)

var digestExportToolDef = mcp.NewTool("digest_export",
	mcp.WithDescription("Write the consolidated view to a semicolon CSV file."),
	mcp.WithString("path", mcp.Description("Output .csv path (default: exports directory with a timestamped name)")),
	mcp.WithBoolean("hide_past", mcp.Description("Drop items that started before yesterday (default from config)")),
)

var profileListToolDef = mcp.NewTool("profile_list",
	mcp.WithDescription("List the available scan profiles."),
	mcp.WithReadOnlyHintAnnotation(true),
)
