package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blich-studio/cms/internal/database"
	"github.com/blich-studio/cms/internal/user"
	"github.com/blich-studio/cms/internal/validate"
)

const minPasswordLen = 8

type newUser struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

func newUserCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage admin users",
	}

	var in newUser
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.Struct(&in); err != nil {
				return err
			}
			if len(in.Password) < minPasswordLen {
				return fmt.Errorf("password must be at least %d characters", minPasswordLen)
			}

			return opts.withDB(cmd, func(ctx context.Context, db *database.DB) error {
				u, err := user.NewStore(db).Create(ctx, in.Email, in.Name, in.Password)
				if errors.Is(err, user.ErrDuplicateEmail) {
					return fmt.Errorf("user %s already exists", in.Email)
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "created user %d <%s>\n", u.ID, u.Email)
				return nil
			})
		},
	}
	create.Flags().StringVar(&in.Email, "email", "", "Email address used to sign in")
	create.Flags().StringVar(&in.Name, "name", "", "Full name")
	create.Flags().StringVar(&in.Password, "password", "", "Initial password")

	cmd.AddCommand(create)

	return cmd
}
