package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Skotchmaster/catalog_api/internal/app"
	"github.com/Skotchmaster/catalog_api/internal/cli"
	"github.com/Skotchmaster/catalog_api/internal/config"
	"github.com/Skotchmaster/catalog_api/internal/logging"
)

func main() {
	open := func(ctx context.Context) (*app.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		logger := logging.NewWithWriter(cfg.LogLevel, os.Stderr).With("service", "catalogctl")
		slog.SetDefault(logger)
		return app.New(ctx, cfg, logger)
	}

	if err := cli.NewRootCmd(open).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
