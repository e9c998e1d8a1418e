package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"

	"campaign-transmitter/internal/awsutils"
	"campaign-transmitter/internal/campaign"
	"campaign-transmitter/internal/config"
	"campaign-transmitter/internal/metrics"
	"campaign-transmitter/internal/server"
	"campaign-transmitter/internal/sparkpost"
	"campaign-transmitter/internal/transmission"
)

type configProvider interface {
	GetProvider() string
	GetAwsConfig() aws.Config
	GetSesConfig() awsutils.SesConfig
	GetSparkPostConfig(key string) sparkpost.Config
	GetTransmissionConfig() transmission.Config
	GetServerPort() int
}

type httpServer interface {
	ListenAndServe(ctx context.Context) error
}

type App struct {
	adapter  *transmission.Adapter
	registry *prometheus.Registry
	server   httpServer
}

func New(cp configProvider) (*App, error) {
	cfg := cp.GetTransmissionConfig()

	var client transmission.Transmitter
	switch cp.GetProvider() {
	case config.ProviderSparkPost:
		client = sparkpost.New(cp.GetSparkPostConfig(cfg.Key))
	case config.ProviderSes:
		client = awsutils.NewSesClientFromConfig(cp.GetAwsConfig(), cp.GetSesConfig())
	default:
		return nil, fmt.Errorf("unsupported provider %q", cp.GetProvider())
	}

	registry := prometheus.NewRegistry()
	client = metrics.New(registry).Wrap(cfg.Name, client)

	adapter := transmission.New(client, cfg, slog.With("component", "transmission"))

	return &App{
		adapter:  adapter,
		registry: registry,
		server:   server.New(cp.GetServerPort(), adapter, registry),
	}, nil
}

func (a *App) Send(ctx context.Context, c *campaign.Campaign) (*transmission.Result, error) {
	return a.adapter.Send(ctx, c)
}

// Run serves HTTP until ctx is done.
func (a *App) Run(ctx context.Context) error {
	return a.server.ListenAndServe(ctx)
}
