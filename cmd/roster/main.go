package main

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hpungsan/roster/internal/config"
	"github.com/hpungsan/roster/internal/directory"
	"github.com/hpungsan/roster/internal/employee"
	"github.com/hpungsan/roster/internal/logging"
	"github.com/hpungsan/roster/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"list": true, "show": true, "stats": true, "export": true,
	"serve": true, "browse": true,
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
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
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

func printBanner() {
	fmt.Println(`
   ___  ___  ___ _____ ___ ___
  | _ \/ _ \/ __|_   _| __| _ \
  |   / (_) \__ \ | | | _||   /
  |_|_\\___/|___/ |_| |___|_|_\

  Employee directory

  Usage: roster <command> [options]
         roster --help

  MCP server mode requires piped input.`)
}

// loadConfig builds the effective configuration: global file, repo overlay,
// then environment (including a .env in the working directory).
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not determine working directory: %w", err)
	}

	cfg, err := config.LoadWithRepo(filepath.Join(homeDir, ".roster"), cwd)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadStore returns the configured directory, or the built-in one when no
// data file is set.
func loadStore(cfg *config.Config) (*directory.Store, error) {
	records := employee.Seed()
	if cfg.DataFile != "" {
		loaded, err := employee.LoadFile(cfg.DataFile)
		if err != nil {
			return nil, err
		}
		records = loaded
	}
	return directory.New(records)
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Help and version need neither config nor data.
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fatal("failed to load config", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fatal("failed to create logger", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := loadStore(cfg)
	if err != nil {
		fatal("failed to load directory", err)
	}
	logger.Debug("directory loaded",
		zap.Int("employees", store.Len()),
		zap.String("data_file", cfg.DataFile),
	)

	if isCLIMode() {
		app := newCLIApp(store, cfg, logger)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'roster --help' for usage.\n")
		os.Exit(1)
	}

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logger.Warn("ignoring unknown disabled_tools entries", zap.Strings("tools", unknown))
	}

	if err := mcp.Run(store, cfg, Version); err != nil {
		fatal("mcp server", err)
	}
}
