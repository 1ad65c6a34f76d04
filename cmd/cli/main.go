package main

import (
	"context"
	"log"

	"github.com/tiendita-app/tiendita/internal/cli"
	"github.com/tiendita-app/tiendita/internal/config"
	"github.com/tiendita-app/tiendita/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg, logging.NewDefault())
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
