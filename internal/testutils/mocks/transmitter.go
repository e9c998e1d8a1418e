package mocks

import (
	"context"
	"sync"

	"campaign-transmitter/internal/transmission"
)

type TransmitterMock struct {
	mu       sync.Mutex
	result   *transmission.Result
	err      error
	requests []*transmission.Request
}

type TransmitterMockOptions func(*TransmitterMock)

func TransmitResult(result *transmission.Result) TransmitterMockOptions {
	return func(m *TransmitterMock) {
		m.result = result
	}
}

func TransmitError(err error) TransmitterMockOptions {
	return func(m *TransmitterMock) {
		m.err = err
	}
}

func NewTransmitterMock(opts ...TransmitterMockOptions) *TransmitterMock {
	m := &TransmitterMock{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *TransmitterMock) Transmit(_ context.Context, req *transmission.Request) (*transmission.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return m.result, m.err
}

func (m *TransmitterMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *TransmitterMock) LastRequest() *transmission.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

func (m *TransmitterMock) Requests() []*transmission.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*transmission.Request(nil), m.requests...)
}
