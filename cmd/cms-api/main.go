// Command cms-api serves the article CMS.
//
//	$ curl http://localhost:3001/api/v1/cms/articles?status=published&limit=5
//	{"data":[...],"pagination":{"page":1,"limit":5,...}}
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

	"github.com/blich-studio/cms/internal/article"
	"github.com/blich-studio/cms/internal/cmsapi"
	"github.com/blich-studio/cms/internal/config"
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
	cfg, err := config.LoadCMSAPI()
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

	var store article.Store
	switch {
	case routes || cfg.Store == "memory":
		store = article.NewMemStore()
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		mongoStore, err := article.OpenMongo(connectCtx, article.MongoOptions{
			URL:         cfg.MongoURL,
			Database:    cfg.DatabaseName,
			MaxPoolSize: cfg.MaxPoolSize,
			MinPoolSize: cfg.MinPoolSize,
		})
		cancel()
		if err != nil {
			return err
		}
		defer func() {
			if err := mongoStore.Close(context.Background()); err != nil {
				log.Errorw("close mongo", "error", err)
			}
		}()
		store = mongoStore
		log.Infow("connected to mongo", "database", cfg.DatabaseName)
	}

	r, err := cmsapi.NewRouter(cfg, log, article.NewService(store))
	if err != nil {
		return err
	}

	if routes {
		fmt.Println(server.RoutesDoc(r, "cms-api"))
		return nil
	}

	return server.Run(ctx, cfg.Server, r, server.DiagRouter(tel), log)
}
