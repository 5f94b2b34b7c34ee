package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to the arena YAML config (defaults when empty)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintln(os.Stderr, "arena:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	app, cleanup, err := injector.InitializeApp(injector.ConfigPath(configPath))
	if err != nil {
		return errors.Wrap(err, "initialize")
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// the session ending stops the telemetry goroutines too
		defer cancel()
		err := app.Session.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if app.Config.Telemetry.Enabled {
		g.Go(func() error { return app.Hub.Run(ctx) })
		g.Go(func() error { return app.Server.ListenAndServe(ctx) })
	}

	err = g.Wait()
	sum := app.Session.Summary()
	app.Logger.Info("arena stopped",
		log.Int("wave", sum.Wave),
		log.Int("score", sum.Score),
		log.Int("player_hp", sum.PlayerHP),
		log.Float64("time", sum.Time),
	)
	return err
}
