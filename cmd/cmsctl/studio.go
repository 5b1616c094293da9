package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/blich-studio/cms/internal/database"
	"github.com/blich-studio/cms/internal/logger"
	"github.com/blich-studio/cms/internal/model"
	"github.com/blich-studio/cms/internal/studio"
)

// readStudioSeed decodes a YAML studio profile. Unknown keys are rejected so
// that typos do not silently drop fields.
func readStudioSeed(path string) (*model.StudioInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var in model.StudioInput
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &in, nil
}

func newStudioCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "studio",
		Short: "Manage the studio profile",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create or update the studio profile from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readStudioSeed(args[0])
			if err != nil {
				return err
			}

			return opts.withDB(cmd, func(ctx context.Context, db *database.DB) error {
				ctx = logger.WithContext(ctx, opts.log)
				st, err := studio.NewService(studio.NewStore(db)).Save(ctx, in)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "studio %q saved (%d team members)\n", st.Name, len(st.TeamMembers))
				return nil
			})
		},
	})

	return cmd
}
