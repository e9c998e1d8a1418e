package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"campaign-transmitter/internal/app"
	"campaign-transmitter/internal/campaign"
	"campaign-transmitter/internal/config"
)

//go:embed config/config.yaml
var configYamlContent []byte

var (
	configFilePath   = flag.String("config", "", "path of the yaml config, the embedded one is used when empty")
	campaignFilePath = flag.String("campaign", "campaign.json", "path of the campaign json to send")
)

var runFn = run

func main() {
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	if err := runFn(ctx, *configFilePath, *campaignFilePath, os.Stdout); err != nil {
		log.Panic(err)
	}
}

func run(ctx context.Context, configPath string, campaignPath string, out io.Writer) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	runner, err := app.New(cfg)
	if err != nil {
		return err
	}

	c, err := campaign.Load(campaignPath)
	if err != nil {
		return err
	}

	result, err := runner.Send(ctx, c)
	if err != nil {
		return err
	}

	return json.NewEncoder(out).Encode(result)
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return config.NewFromYamlContent(configYamlContent)
	}
	return config.NewFromYaml(configPath)
}
