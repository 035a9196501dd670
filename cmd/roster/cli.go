package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/roster/internal/config"
	"github.com/hpungsan/roster/internal/directory"
	"github.com/hpungsan/roster/internal/employee"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/ops"
	"github.com/hpungsan/roster/internal/tui"
	"github.com/hpungsan/roster/internal/web"
)

// exportStampLayout names default export files.
const exportStampLayout = "20060102-150405"

// newCLIApp creates the CLI application with all commands.
func newCLIApp(store *directory.Store, cfg *config.Config, logger *zap.Logger) *cli.App {
	app := &cli.App{
		Name:    "roster",
		Usage:   "Employee directory",
		Version: Version,
		Commands: []*cli.Command{
			listCmd(store),
			showCmd(store, cfg),
			statsCmd(store),
			exportCmd(store),
			serveCmd(store, cfg, logger),
			browseCmd(store, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func queryFlag() cli.Flag {
	return &cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Case-insensitive name or title filter"}
}

func asOfFlag() cli.Flag {
	return &cli.StringFlag{Name: "as-of", Usage: "Compute tenure as of this date (YYYY-MM-DD, default: today)"}
}

func listCmd(store *directory.Store) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List employees, optionally filtered",
		Flags: []cli.Flag{queryFlag(), asOfFlag()},
		Action: func(c *cli.Context) error {
			asOf, err := parseAsOf(c.String("as-of"))
			if err != nil {
				return outputError(err)
			}
			output := ops.List(store, ops.ListInput{
				Query: c.String("query"),
				AsOf:  asOf,
			})
			return outputJSON(c.App.Writer, output)
		},
	}
}

func showCmd(store *directory.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one employee's details",
		ArgsUsage: "<id>",
		Flags:     []cli.Flag{asOfFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}
			id, err := strconv.Atoi(c.Args().First())
			if err != nil {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid id: %q", c.Args().First())))
			}
			asOf, err := parseAsOf(c.String("as-of"))
			if err != nil {
				return outputError(err)
			}

			input := ops.FetchInput{ID: id, AsOf: asOf}
			if cfg != nil {
				input.Org = cfg.OrgName
			}
			output, err := ops.Fetch(store, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

func statsCmd(store *directory.Store) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show directory counters and tenure tiers",
		Flags: []cli.Flag{queryFlag(), asOfFlag()},
		Action: func(c *cli.Context) error {
			asOf, err := parseAsOf(c.String("as-of"))
			if err != nil {
				return outputError(err)
			}
			output := ops.GetStats(store, ops.StatsInput{
				Query: c.String("query"),
				AsOf:  asOf,
			})
			return outputJSON(c.App.Writer, output)
		},
	}
}

func exportCmd(store *directory.Store) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export employee cards to a jsonl, json, or yaml file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.roster/exports/roster-<timestamp>.<format>)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "jsonl|json|yaml (default: from extension, else jsonl)"},
			queryFlag(),
			asOfFlag(),
		},
		Action: func(c *cli.Context) error {
			asOf, err := parseAsOf(c.String("as-of"))
			if err != nil {
				return outputError(err)
			}

			input := ops.ExportInput{
				Path:   c.String("path"),
				Format: c.String("format"),
				Query:  c.String("query"),
				AsOf:   asOf,
			}
			if input.Path == "" {
				input.Path, err = ops.DefaultExportPath(input.Format, time.Now().UTC().Format(exportStampLayout))
				if err != nil {
					return outputError(err)
				}
			}

			output, err := ops.Export(store, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

func serveCmd(store *directory.Store, cfg *config.Config, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the directory web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Address to bind (default: from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on (default: from config)"},
		},
		Action: func(c *cli.Context) error {
			serveCfg, err := serveConfig(cfg, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(err)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := web.NewServer(store, serveCfg, logger, Version)
			if err := web.Run(ctx, srv, logger); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// serveConfig applies the serve flags to a copy of cfg.
func serveConfig(cfg *config.Config, bind string, port int) (*config.Config, error) {
	out := *cfg
	if bind != "" {
		out.Bind = bind
	}
	if port != 0 {
		out.Port = port
	}
	if err := out.Validate(); err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	return &out, nil
}

func browseCmd(store *directory.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse the directory in the terminal",
		Action: func(c *cli.Context) error {
			if err := tui.Run(store, cfg.OrgName); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// parseAsOf parses an --as-of date. Blank means now.
func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := employee.ParseDate(s)
	if err != nil {
		return time.Time{}, errors.NewInvalidRequest(fmt.Sprintf("invalid --as-of date %q: want YYYY-MM-DD", s))
	}
	return d.Time(), nil
}

// outputJSON writes v to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var rosterErr *errors.RosterError
	if stderrors.As(err, &rosterErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", rosterErr.Code, rosterErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
