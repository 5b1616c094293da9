package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blich-studio/cms/internal/auth"
	"github.com/blich-studio/cms/internal/database"
)

func newTokensCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Manage revoked tokens",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Drop revocation entries of tokens that have expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, db *database.DB) error {
				n, err := auth.NewRevocationStore(db).Purge(ctx)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "purged %d revoked tokens\n", n)
				return nil
			})
		},
	})

	return cmd
}
