package transmission

import (
	"context"
	"fmt"
	"log/slog"

	"campaign-transmitter/internal/campaign"
)

// Transmitter delivers a built request to the provider.
type Transmitter interface {
	Transmit(ctx context.Context, req *Request) (*Result, error)
}

// Callback receives the outcome of SendAsync.
type Callback func(result *Result, err error)

type Adapter struct {
	cfg    Config
	client Transmitter
	logger *slog.Logger
}

// New returns an adapter delegating to client. A missing key is reported
// as a warning only: the provider rejects the request later on.
func New(client Transmitter, cfg Config, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.With("component", "transmission")
	}

	a := &Adapter{
		cfg:    cfg,
		client: client,
		logger: logger.With("provider", cfg.Name),
	}

	if cfg.Key == "" && !cfg.SkipKeyCheck {
		a.logger.Warn("campaign: API key not set")
	}

	return a
}

func (a *Adapter) Name() string {
	return a.cfg.Name
}

func (a *Adapter) Config() Config {
	return a.cfg
}

// Send builds the transmission for c and hands it to the transmitter. The
// transmitter result and error are returned untouched.
func (a *Adapter) Send(ctx context.Context, c *campaign.Campaign) (*Result, error) {
	return a.transmit(ctx, Build(a.cfg, c))
}

// SendAsync builds the transmission before returning and completes it in the
// background, calling done exactly once.
func (a *Adapter) SendAsync(ctx context.Context, c *campaign.Campaign, done Callback) {
	req := Build(a.cfg, c)

	go func() {
		done(a.transmit(ctx, req))
	}()
}

func (a *Adapter) transmit(ctx context.Context, req *Request) (*Result, error) {
	logger := a.logger.With("campaign", req.Content.CampaignID)

	result, err := a.client.Transmit(ctx, req)
	if err != nil {
		logger.Error(fmt.Sprintf("transmission failed, error: %v", err))
		return result, err
	}

	logger.Debug(fmt.Sprintf("transmission accepted for %d recipients", len(req.Recipients)))
	return result, nil
}
