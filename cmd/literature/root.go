package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"literature/db"
	"literature/internal/catalog"
	"literature/internal/console"
	"literature/internal/ingest"
	"literature/internal/platform/gutendex"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

type app struct {
	pool    *pgxpool.Pool
	catalog *catalog.Service
	ingest  *ingest.Service
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

type rootOptions struct {
	store string
	dsn   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "literature",
		Short: "Search Project Gutenberg books and keep a local catalog of them",
		Long: `Literature looks books up on Gutendex, registers the first match and its
primary author in a local catalog, and lists what has been registered.

Run without a subcommand to start the interactive menu.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				return console.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.ingest, a.catalog).Run(ctx)
			})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.store, "store", "", "record store: postgres or memory (env LITERATURE_STORE)")
	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "postgres connection string (env DB_DSN)")

	cmd.AddCommand(
		newSearchCmd(opts),
		newBooksCmd(opts),
		newAuthorsCmd(opts),
		newAliveCmd(opts),
		newLanguageCmd(opts),
		newStatsCmd(opts),
		newMigrateCmd(opts),
	)
	return cmd
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <title>",
		Short: "Search a book by title and register the first match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				report, err := a.ingest.SearchAndRegister(ctx, strings.Join(args, " "))
				if errors.Is(err, ingest.ErrBookNotFound) {
					console.Info(cmd.OutOrStdout(), "Book not found")
					return nil
				}
				if err != nil {
					return err
				}
				console.RenderReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
}

func newBooksCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List registered books by title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				books, err := a.catalog.ListBooks(ctx)
				if err != nil {
					return err
				}
				console.RenderBooks(cmd.OutOrStdout(), books)
				return nil
			})
		},
	}
}

func newAuthorsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "authors",
		Short: "List registered authors by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				authors, err := a.catalog.ListAuthors(ctx)
				if err != nil {
					return err
				}
				console.RenderAuthors(cmd.OutOrStdout(), authors)
				return nil
			})
		},
	}
}

func newAliveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "alive <year>",
		Short: "List authors alive in a given year",
		Long: `List authors whose birth year is at or before the given year and whose death
year is at or after it. Authors without a recorded death year are not listed.
Pass negative years after "--", e.g. "literature alive -- -430".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("year must be a whole number: %q", args[0])
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				authors, err := a.catalog.AuthorsAliveIn(ctx, year)
				if errors.Is(err, catalog.ErrNoAuthorsAlive) {
					console.Info(cmd.OutOrStdout(), "Authors alive not found")
					return nil
				}
				if err != nil {
					return err
				}
				console.RenderAuthors(cmd.OutOrStdout(), authors)
				return nil
			})
		},
	}
}

func newLanguageCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "language <code>",
		Short:   "List registered books by language code (en, es, fr, pt, ...)",
		Aliases: []string{"lang"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				books, err := a.catalog.BooksByLanguage(ctx, args[0])
				if errors.Is(err, catalog.ErrNoBooksInLanguage) {
					console.Info(cmd.OutOrStdout(), "Books by language selected not found")
					return nil
				}
				if err != nil {
					return err
				}
				console.RenderBooks(cmd.OutOrStdout(), books)
				return nil
			})
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count registered books and authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				stats, err := a.catalog.Stats(ctx)
				if err != nil {
					return err
				}
				console.RenderStats(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or roll back the postgres schema",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			cfg, err := resolveConfig(opts)
			if err != nil {
				return err
			}
			pool, err := db.Open(cmd.Context(), cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer pool.Close()
			return db.Migrate(cmd.Context(), pool, command, cmd.OutOrStdout())
		},
	}
}

func resolveConfig(opts *rootOptions) (Config, error) {
	loadEnvFiles()
	cfg, err := loadConfig()
	if err != nil {
		return Config{}, err
	}
	if opts.store != "" {
		cfg.Store = opts.store
	}
	if opts.dsn != "" {
		cfg.DatabaseDSN = opts.dsn
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}

func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

func newApp(ctx context.Context, cfg Config) (*app, error) {
	a := &app{}

	var repo catalog.Repository
	switch cfg.Store {
	case storeMemory:
		slog.Info("Using in-memory store; records are lost on exit")
		repo = catalog.NewMemoryRepo()
	default:
		pool, err := db.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		if err := db.Migrate(ctx, pool, "up", io.Discard); err != nil {
			pool.Close()
			return nil, err
		}
		slog.Info("Database connection OK", "dsn", db.RedactDSN(cfg.DatabaseDSN))
		repo = catalog.NewPostgresRepo(pool, cfg.DBTimeout)
	}

	client := gutendex.NewClient(cfg.GutendexBaseURL, cfg.UserAgent, cfg.GutendexRPS, cfg.GutendexRetries)
	a.catalog = catalog.NewService(repo)
	a.ingest = ingest.NewService(client, repo)
	return a, nil
}
