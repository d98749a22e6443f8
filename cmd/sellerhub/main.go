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
	"golang.org/x/sync/errgroup"

	"github.com/merabestie/sellerhub/config"
	"github.com/merabestie/sellerhub/internal/adminapi"
	"github.com/merabestie/sellerhub/internal/app"
	"github.com/merabestie/sellerhub/internal/webserver"
)

var (
	conffile = flag.String("c", "", "config yaml file")
	initdb   = flag.Bool("initdb", false, "migrate the database schema and exit")
	seed     = flag.Bool("seed", false, "seed demo products on start")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *seed {
		cfg.System.SeedDemo = true
	}
	if err := cfg.InitDirs(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer application.Release()

	if *initdb {
		if err := application.MigrateDB(true); err != nil {
			zap.S().Fatal(err)
		}
		return
	}

	adminapi.Init()
	server, err := webserver.NewAdminServer(application)
	if err != nil {
		zap.S().Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		zap.S().Info("shutting down admin server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorf("server exited: %v", err)
	}
}
