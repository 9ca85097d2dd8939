package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/ops"
	"github.com/hpungsan/radar/internal/profile"
	"github.com/hpungsan/radar/internal/web"
)

// newCLIApp creates the CLI application with all commands.
// rt may be nil when only help or version output is needed.
func newCLIApp(rt *runtime) *cli.App {
	app := &cli.App{
		Name:    "radar",
		Usage:   "Scan, deduplicate and track upcoming events and news",
		Version: Version,
		Commands: []*cli.Command{
			scanCmd(rt),
			sessionsCmd(rt),
			showCmd(rt),
			deleteCmd(rt),
			toggleCmd(rt),
			markCmd(rt),
			digestCmd(rt),
			linkCmd(rt),
			exportCmd(rt),
			serveCmd(rt),
			profilesCmd(rt),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// scanCmd creates the scan command.
func scanCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Run a scan and store the results as a new session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "profile", Aliases: []string{"p"}, Usage: "Profile name (default: default)"},
			&cli.StringFlag{Name: "instruction", Aliases: []string{"i"}, Usage: "Instruction text, or - to read it from stdin"},
			&cli.StringFlag{Name: "feed", Usage: "Scan an RSS/Atom feed URL instead of the generator"},
		},
		Action: func(c *cli.Context) error {
			req := ops.ScanRequest{
				Profile:     c.String("profile"),
				Instruction: c.String("instruction"),
				FeedURL:     c.String("feed"),
			}
			if req.Instruction == "-" {
				text, err := readAll(c.App.Reader)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if text == "" {
					return outputError(errors.NewInvalidRequest("instruction is empty"))
				}
				req.Instruction = text
			}

			src, input, err := rt.resolver.Resolve(req)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Scan(c.Context, rt.hs, rt.cfg, src, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// sessionsCmd creates the sessions command.
func sessionsCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "List stored sessions, newest first",
		Action: func(c *cli.Context) error {
			output, err := ops.ListSessions(c.Context, rt.hs)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// showCmd creates the show command.
func showCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one session with its records",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id, err := sessionArg(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.GetSession(c.Context, rt.hs, ops.GetSessionInput{ID: id})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a session",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			id, err := sessionArg(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.DeleteSession(c.Context, rt.hs, ops.DeleteSessionInput{ID: id})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// toggleCmd creates the toggle command.
func toggleCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "toggle",
		Usage:     "Flip the done flag of one record in a session",
		ArgsUsage: "ID INDEX",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "value", Usage: "Set the flag explicitly (--value=false clears it)"},
		},
		Action: func(c *cli.Context) error {
			id, err := sessionArg(c)
			if err != nil {
				return outputError(err)
			}
			index, convErr := strconv.Atoi(c.Args().Get(1))
			if convErr != nil || index < 0 {
				return outputError(errors.NewInvalidRequest("record index must be a non-negative integer"))
			}

			input := ops.ToggleRecordInput{SessionID: id, Index: index}
			if c.IsSet("value") {
				v := c.Bool("value")
				input.Value = &v
			}

			output, err := ops.ToggleRecord(c.Context, rt.hs, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// markCmd creates the mark command.
func markCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "mark",
		Usage:     "Set the done flag of a record in every session that holds it",
		ArgsUsage: "SIGNATURE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "value", Value: true, Usage: "Flag value"},
		},
		Action: func(c *cli.Context) error {
			sig := strings.TrimSpace(c.Args().First())
			if sig == "" {
				return outputError(errors.NewInvalidRequest("signature is required"))
			}
			output, err := ops.MarkRecord(c.Context, rt.hs, ops.MarkRecordInput{
				Signature: sig,
				Value:     c.Bool("value"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// digestCmd creates the digest command.
func digestCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "digest",
		Usage: "Show the consolidated view across all sessions",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "hide-past", Usage: "Hide items dated before yesterday (default from config)"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum items to return (0 for all)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.DigestInput{
				HidePast: optionalBool(c, "hide-past"),
				Category: c.String("category"),
				Limit:    c.Int("limit"),
			}
			output, err := ops.Digest(c.Context, rt.hs, rt.cfg, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// linkCmd creates the link command.
func linkCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "link",
		Usage:     "Print the calendar link for a digest item",
		ArgsUsage: "SIGNATURE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "mark", Aliases: []string{"m"}, Usage: "Also mark the item done everywhere"},
		},
		Action: func(c *cli.Context) error {
			sig := strings.TrimSpace(c.Args().First())
			if sig == "" {
				return outputError(errors.NewInvalidRequest("signature is required"))
			}
			output, err := ops.CalendarLink(c.Context, rt.hs, rt.cfg, ops.CalendarLinkInput{
				Signature: sig,
				MarkDone:  c.Bool("mark"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the consolidated view to a CSV file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.radar/exports/radar-<timestamp>.csv)"},
			&cli.BoolFlag{Name: "hide-past", Usage: "Hide items dated before yesterday (default from config)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, rt.hs, rt.cfg, ops.ExportInput{
				Path:     c.String("path"),
				Dir:      rt.exportDir(),
				HidePast: optionalBool(c, "hide-past"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: 8765, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv, err := web.NewServer(web.Deps{
				Store:  rt.hs,
				Config: rt.cfg,
				Logger: rt.logger,
			}, Version, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := web.Run(c.Context, srv, rt.logger); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// profilesCmd creates the profiles command.
func profilesCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "profiles",
		Usage: "List available scan profiles",
		Action: func(c *cli.Context) error {
			set := rt.resolver.Profiles
			out := make([]*profile.Profile, 0, len(set)+1)
			for _, name := range set.Names() {
				if p, ok := set.Get(name); ok {
					out = append(out, p)
				}
			}
			return outputJSON(c, map[string]any{"profiles": out})
		},
	}
}

// Helper functions

// outputJSON writes v to the app's writer as indented JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if rErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", rErr.Code, rErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// sessionArg parses the first positional argument as a session ID.
func sessionArg(c *cli.Context) (int64, error) {
	if c.NArg() < 1 {
		return 0, errors.NewInvalidRequest("session ID is required")
	}
	return ops.ParseSessionID(c.Args().First())
}

// optionalBool returns nil unless the flag was given on the command line.
func optionalBool(c *cli.Context, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Bool(name)
	return &v
}

// readAll reads r and trims surrounding whitespace.
func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
