package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"campaign-transmitter/internal/app"
	"campaign-transmitter/internal/config"
)

var configFilePath = flag.String("config", "config/app.yaml", "path of the yaml config")

var runFn = run

func main() {
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()
	runFn(ctx, *configFilePath)
}

func run(ctx context.Context, configPath string) {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.NewFromYaml(configPath)
	if err != nil {
		log.Fatal(err)
	}

	runner, err := app.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := runner.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
