package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"campaign-transmitter/internal/transmission"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Metrics struct {
	TransmissionsCounter *prometheus.CounterVec
	RecipientsCounter    *prometheus.CounterVec
	DurationHistogram    *prometheus.HistogramVec
}

// New creates the transmission collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TransmissionsCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transmitter_transmissions_total",
				Help: "Total number of transmissions handed to the provider.",
			},
			[]string{"provider", "status"},
		),
		RecipientsCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transmitter_recipients_total",
				Help: "Total number of recipients in transmissions handed to the provider.",
			},
			[]string{"provider"},
		),
		DurationHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transmitter_transmission_duration_seconds",
				Help:    "Time spent waiting for the provider to answer a transmission.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}

	reg.MustRegister(m.TransmissionsCounter, m.RecipientsCounter, m.DurationHistogram)

	return m
}

// Wrap returns a transmitter that records every call made to next and
// returns its outcome unchanged.
func (m *Metrics) Wrap(provider string, next transmission.Transmitter) transmission.Transmitter {
	return &instrumentedTransmitter{metrics: m, provider: provider, next: next}
}

type instrumentedTransmitter struct {
	metrics  *Metrics
	provider string
	next     transmission.Transmitter
}

func (t *instrumentedTransmitter) Transmit(ctx context.Context, req *transmission.Request) (*transmission.Result, error) {
	start := time.Now()
	result, err := t.next.Transmit(ctx, req)
	t.metrics.DurationHistogram.WithLabelValues(t.provider).Observe(time.Since(start).Seconds())

	status := StatusSuccess
	if err != nil {
		status = StatusError
	}

	t.metrics.TransmissionsCounter.WithLabelValues(t.provider, status).Inc()
	t.metrics.RecipientsCounter.WithLabelValues(t.provider).Add(float64(len(req.Recipients)))

	return result, err
}
