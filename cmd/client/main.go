package main

import (
	"context"
	"log"

	"github.com/eduline/studyshop/internal/client/cli"
	"github.com/eduline/studyshop/internal/client/config"
	"github.com/eduline/studyshop/internal/logging"
)

func main() {

	cfg := config.LoadConfig()

	logger, err := logging.NewZapLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
