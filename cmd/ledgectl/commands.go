package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dailylaw/ledge-backend/internal/adapter/postgres"
	"github.com/dailylaw/ledge-backend/internal/app"
	"github.com/dailylaw/ledge-backend/internal/config"
)

// loadConfig honours --config and falls back to CONFIG_PATH.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// withContainer loads config and runs fn against a fully wired container.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log)

	c, err := app.NewContainer(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(cmd.Context(), c)
}

// printRun writes result as indented JSON to stdout and, with --show-log,
// the run log to stderr.
func printRun(cmd *cobra.Command, result any, lines []string) error {
	if show, _ := cmd.Flags().GetBool("show-log"); show {
		for _, line := range lines {
			fmt.Fprintln(cmd.ErrOrStderr(), line)
		}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables read at startup",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			config.WriteUsage(cmd.OutOrStdout())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg.Log)

			pool, err := postgres.NewPool(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(cmd.Context(), pool, logger); err != nil {
				return err
			}
			logger.Info("migrations up to date")
			return nil
		},
	}
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "ingest federal|state",
		Short:     "Fetch new bills and publish articles for them",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"federal", "state"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				sources := c.Federal
				if args[0] == "state" {
					sources = c.State
				}
				if len(sources) == 0 {
					return fmt.Errorf("no %s sources configured", args[0])
				}
				res, err := c.Ingest.Run(ctx, sources...)
				if res != nil {
					if perr := printRun(cmd, res, res.Log); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
}

func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Score recent bills for every subscriber",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				res, err := c.Matching.Nightly(ctx)
				if err != nil {
					return err
				}
				return printRun(cmd, res, res.Log)
			})
		},
	}
}

func statusSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status-sync",
		Short: "Refresh the status of federal bills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				res, err := c.Tracker.Run(ctx, c.Congress)
				if err != nil {
					return err
				}
				return printRun(cmd, res, res.Log)
			})
		},
	}
}

func alertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Email digests of new high-scoring matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				res, err := c.Notify.Run(ctx)
				if err != nil {
					return err
				}
				return printRun(cmd, res, res.Log)
			})
		},
	}
}

func backfillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill <email>",
		Short: "Score every published bill not yet matched for one subscriber",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				res, err := c.Matching.Backfill(ctx, args[0])
				if err != nil {
					return err
				}
				return printRun(cmd, res, res.Log)
			})
		},
	}
}

type exploreRow struct {
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	Score        int    `json:"match_score"`
	Summary      string `json:"summary"`
	WhyItMatters string `json:"why_it_matters"`
}

type exploreOutput struct {
	RunID    string       `json:"run_id"`
	Query    string       `json:"query"`
	Scanned  int          `json:"scanned"`
	TimedOut bool         `json:"timed_out"`
	Hits     []exploreRow `json:"hits"`
}

func exploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore <query...>",
		Short: "Rank recent bills against a free-text query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				res, err := c.Matching.Explore(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				c.Log.Info("explore finished",
					slog.String("run_id", res.RunID),
					slog.Int("hits", len(res.Hits)),
				)

				out := exploreOutput{
					RunID:    res.RunID,
					Query:    res.Query,
					Scanned:  res.Scanned,
					TimedOut: res.TimedOut,
					Hits:     make([]exploreRow, 0, len(res.Hits)),
				}
				for _, h := range res.Hits {
					out.Hits = append(out.Hits, exploreRow{
						Slug:         h.Bill.Slug,
						Title:        h.Bill.Title,
						Score:        h.Score,
						Summary:      h.Summary,
						WhyItMatters: h.WhyItMatters,
					})
				}
				return printRun(cmd, out, res.Log)
			})
		},
	}
}
