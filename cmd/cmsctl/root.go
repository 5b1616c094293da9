package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blich-studio/cms/internal/database"
	"github.com/blich-studio/cms/internal/logger"
)

type options struct {
	databaseURL string
	timeout     time.Duration
	log         *zap.SugaredLogger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "cmsctl",
		Short:         "Operate the Blich Studio CMS",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.log != nil {
				return nil
			}
			l, err := logger.New(os.Getenv("APP_ENV"))
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			opts.log = l.Sugar()
			return nil
		},
	}

	defaultURL := os.Getenv("DATABASE_URL")
	if defaultURL == "" {
		defaultURL = "file:cms.db"
	}
	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", defaultURL, "cms-backend database URL (env DATABASE_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", time.Minute, "Operation timeout")

	root.AddCommand(
		newMigrateCmd(opts),
		newUserCmd(opts),
		newStudioCmd(opts),
		newTokensCmd(opts),
		newRoutesCmd(opts),
	)

	return root
}

// withDB opens and migrates the database, then runs fn with a context bound
// by the --timeout flag.
func (o *options) withDB(cmd *cobra.Command, fn func(ctx context.Context, db *database.DB) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()

	db, err := database.Open(ctx, database.Options{URL: o.databaseURL, MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, name := range applied {
		o.log.Infow("migration applied", "file", name)
	}

	return fn(ctx, db)
}

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, db *database.DB) error {
				fmt.Fprintf(cmd.OutOrStdout(), "database is up to date (%s)\n", db.Dialect())
				return nil
			})
		},
	}
}
