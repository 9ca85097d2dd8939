package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/hpungsan/radar/internal/config"
	"github.com/hpungsan/radar/internal/logutil"
	"github.com/hpungsan/radar/internal/mcp"
	"github.com/hpungsan/radar/internal/ops"
	"github.com/hpungsan/radar/internal/profile"
	"github.com/hpungsan/radar/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"scan": true, "sessions": true, "show": true, "delete": true,
	"toggle": true, "mark": true, "digest": true, "link": true,
	"export": true, "serve": true, "profiles": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _ __ __ _  __| | __ _ _ __
  | '__/ _' |/ _' |/ _' | '__|
  | | | (_| | (_| | (_| | |
  |_|  \__,_|\__,_|\__,_|_|

  Scan, deduplicate and track upcoming events and news

  Usage: radar <command> [options]
         radar --help

  MCP server mode requires piped input.`)
}

// runtime carries everything commands and tools run against.
type runtime struct {
	hs       *store.HistoryStore
	cfg      *config.Config
	baseDir  string
	resolver *ops.Resolver
	logger   *slog.Logger
}

// exportDir is where exports land when no path is given.
func (rt *runtime) exportDir() string {
	return filepath.Join(rt.baseDir, "exports")
}

// loadEnv loads .env from the working directory and the base directory.
// Variables already set in the environment win.
func loadEnv(baseDir string) error {
	for _, path := range []string{".env", filepath.Join(baseDir, ".env")} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// bootstrap loads configuration and opens the history store.
func bootstrap(ctx context.Context) (*runtime, error) {
	baseDir, err := config.BaseDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine base directory: %w", err)
	}
	if err := loadEnv(baseDir); err != nil {
		return nil, err
	}

	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logutil.LoggerFromConfig(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}
	slog.SetDefault(logger)

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logger.Warn("unknown tools in disabled_tools", "tools", unknown)
	}

	profiles, err := profile.NewLoader(cfg.ResolveProfilesDir(baseDir), logger).LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	kv, err := store.Open(ctx, cfg.Storage, baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	return &runtime{
		hs:       store.NewHistoryStore(kv, logger),
		cfg:      cfg,
		baseDir:  baseDir,
		resolver: &ops.Resolver{Config: cfg, Profiles: profiles},
		logger:   logger,
	}, nil
}

func main() {
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Help and version need no storage
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.RunContext(ctx, os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(os.Args) >= 2 && !isCLIMode() && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'radar --help' for usage.\n")
		os.Exit(1)
	}

	rt, err := bootstrap(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if isCLIMode() {
		err = newCLIApp(rt).RunContext(ctx, os.Args)
	} else {
		err = mcp.Run(mcp.Deps{
			Store:     rt.hs,
			Config:    rt.cfg,
			Resolver:  rt.resolver,
			ExportDir: rt.exportDir(),
		}, Version)
	}

	closeErr := rt.hs.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "error: failed to close storage: %v\n", closeErr)
		os.Exit(1)
	}
}
