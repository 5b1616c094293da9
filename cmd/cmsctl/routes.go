package main

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/blich-studio/cms/internal/article"
	"github.com/blich-studio/cms/internal/auth"
	"github.com/blich-studio/cms/internal/backend"
	"github.com/blich-studio/cms/internal/cmsapi"
	"github.com/blich-studio/cms/internal/config"
	"github.com/blich-studio/cms/internal/database"
	"github.com/blich-studio/cms/internal/gateway"
	"github.com/blich-studio/cms/internal/server"
)

var services = []string{"cms-api", "cms-backend", "gateway"}

func newRoutesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "routes <cms-api|cms-backend|gateway>",
		Short:     "Print the route table of a service as markdown",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: services,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := routesDoc(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}

// routesDoc builds the router of a service against throwaway backends. No
// request is served, so nothing is dialed.
func routesDoc(ctx context.Context, opts *options, service string) (string, error) {
	srv := config.Server{Env: "development", OTel: config.OTel{ServiceName: service}}
	jwt := config.JWT{Secret: "routes", Issuer: "blich-studio"}

	var (
		r   chi.Router
		err error
	)
	switch service {
	case "cms-api":
		r, err = cmsapi.NewRouter(config.CMSAPI{Server: srv, Store: "memory"}, opts.log,
			article.NewService(article.NewMemStore()))
	case "cms-backend":
		db, openErr := database.Open(ctx, database.Options{URL: "file::memory:"})
		if openErr != nil {
			return "", openErr
		}
		defer db.Close()
		r, err = backend.NewRouter(config.CMSBackend{Server: srv, MediaRoot: ".", JWT: jwt}, opts.log, db)
	case "gateway":
		r, err = gateway.NewRouter(config.Gateway{Server: srv, JWT: jwt}, opts.log, gateway.Deps{
			Cache:  gateway.NopCache{},
			Tokens: auth.NewTokens(jwt, nil),
		})
	default:
		return "", fmt.Errorf("unknown service %q", service)
	}
	if err != nil {
		return "", err
	}

	return server.RoutesDoc(r, service), nil
}
