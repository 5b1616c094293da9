// Command gateway serves the public website API: GraphQL over the cms-api
// articles and a cached REST proxy over cms-backend content.
//
//	$ curl -s localhost:3000/graphql -d '{"query":"{ articles(limit: 3) { id title } }"}'
//	{"data":{"articles":[...]}}
//
// Passing -routes prints the route table as markdown and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/blich-studio/cms/client"
	"github.com/blich-studio/cms/internal/auth"
	"github.com/blich-studio/cms/internal/config"
	"github.com/blich-studio/cms/internal/gateway"
	"github.com/blich-studio/cms/internal/logger"
	"github.com/blich-studio/cms/internal/server"
	"github.com/blich-studio/cms/internal/telemetry"
)

func main() {
	routes := flag.Bool("routes", false, "Generate router documentation")
	flag.Parse()

	if err := run(*routes); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(routes bool) error {
	cfg, err := config.LoadGateway()
	if err != nil {
		return err
	}

	base, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer base.Sync() //nolint:errcheck // flushes buffer, if any
	zap.ReplaceGlobals(base)
	log := base.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg.OTel)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Errorw("telemetry shutdown", "error", err)
		}
	}()

	deps := gateway.Deps{
		Articles: client.New(cfg.CMSAPIURL, cfg.UpstreamTimeout),
		Content:  client.New(cfg.CMSBackendURL, cfg.UpstreamTimeout),
		Cache:    gateway.NopCache{},
		Tokens:   auth.NewTokens(cfg.JWT, nil),
	}

	if cfg.CacheEnabled() && !routes {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rdb, err := gateway.OpenRedis(connectCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer rdb.Close()
			deps.Cache = gateway.NewRedisCache(rdb, cfg.CacheTTL)
			log.Infow("content cache enabled", "ttl", cfg.CacheTTL)
		}
	}

	r, err := gateway.NewRouter(cfg, log, deps)
	if err != nil {
		return err
	}

	if routes {
		fmt.Println(server.RoutesDoc(r, "gateway"))
		return nil
	}

	log.Infow("proxying", "cmsApi", cfg.CMSAPIURL, "cmsBackend", cfg.CMSBackendURL)

	return server.Run(ctx, cfg.Server, r, server.DiagRouter(tel), log)
}
