package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/homeclean-next/internal/client/localstore"
	"github.com/homeclean-next/internal/config"
	"github.com/homeclean-next/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())

	store, err := localstore.OpenSQLiteStore(cfg.Client.CachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open local cache: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app := newApp(cfg.Client, store, os.Stdout, os.Stderr)
	code := app.run(ctx, os.Args[1:])
	stop()
	_ = store.Close()
	logger.Sync()
	os.Exit(code)
}
