package sparkpost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"campaign-transmitter/internal/transmission"
)

const (
	DefaultBaseURL    = "https://api.sparkpost.com"
	DefaultAPIVersion = "v1"
	defaultTimeout    = 10 * time.Second
)

type Config struct {
	Key        string
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return c
}

func (c *Client) endpoint(numRcptErrors int) string {
	query := url.Values{}
	query.Set("num_rcpt_errors", strconv.Itoa(numRcptErrors))

	return fmt.Sprintf("%s/api/%s/transmissions?%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.APIVersion, query.Encode())
}

// Transmit posts the request to the transmissions endpoint. Non 2xx
// responses are returned as *APIError.
func (c *Client) Transmit(ctx context.Context, req *transmission.Request) (*transmission.Result, error) {
	body, err := json.Marshal(toWire(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transmission: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(req.NumRcptErrors), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Authorization", c.cfg.Key)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading transmission response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	var decoded wireResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transmission response: %w", err)
	}

	return &decoded.Results, nil
}
