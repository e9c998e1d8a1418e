//go:build unit

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"campaign-transmitter/internal/campaign"
	"campaign-transmitter/internal/sparkpost"
	"campaign-transmitter/internal/testutils/mocks"
	"campaign-transmitter/internal/transmission"
)

type senderMock struct {
	result   *transmission.Result
	err      error
	campaign *campaign.Campaign
}

func (m *senderMock) Send(_ context.Context, c *campaign.Campaign) (*transmission.Result, error) {
	m.campaign = c
	return m.result, m.err
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, &ServerTestSuite{})
}

type ServerTestSuite struct {
	suite.Suite
	sender   *senderMock
	registry *prometheus.Registry
	sut      *Server
}

func (suite *ServerTestSuite) SetupTest() {
	suite.sender = &senderMock{}
	suite.registry = prometheus.NewRegistry()
	suite.sut = New(8080, suite.sender, suite.registry)
	_, suite.sut.logger = mocks.NewLoggerMock()
}

func (suite *ServerTestSuite) do(method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for key, value := range header {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	suite.sut.Handler().ServeHTTP(w, req)
	return w
}

func (suite *ServerTestSuite) TestHealthCheck() {
	w := suite.do(http.MethodGet, "/health-check", "", nil)

	suite.Assert().Equal(http.StatusOK, w.Code)
}

func (suite *ServerTestSuite) TestHealthCheckWhenShuttingDown() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/health-check", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	suite.sut.Handler().ServeHTTP(w, req)

	suite.Assert().Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *ServerTestSuite) TestMetrics() {
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter_total", Help: "test"})
	suite.registry.MustRegister(counter)
	counter.Inc()

	w := suite.do(http.MethodGet, "/metrics", "", nil)

	suite.Assert().Equal(http.StatusOK, w.Code)
	suite.Assert().Contains(w.Body.String(), "test_counter_total 1")
}

func (suite *ServerTestSuite) TestTransmissionAccepted() {
	suite.sender.result = &transmission.Result{ID: "42", TotalAcceptedRecipients: 2}

	w := suite.do(http.MethodPost, "/transmissions", `{"to":["a@x.com","b@x.com"],"_template":"welcome"}`, map[string]string{requestIdHeader: "req-1"})

	suite.Assert().Equal(http.StatusOK, w.Code)
	suite.Assert().Equal("req-1", w.Header().Get(requestIdHeader))
	suite.Assert().JSONEq(`{"id":"42","total_accepted_recipients":2,"total_rejected_recipients":0}`, w.Body.String())
	suite.Assert().Equal(campaign.AddressList{"a@x.com", "b@x.com"}, suite.sender.campaign.To)
}

func (suite *ServerTestSuite) TestTransmissionGeneratesRequestId() {
	suite.sender.result = &transmission.Result{ID: "42"}

	w := suite.do(http.MethodPost, "/transmissions", `{"to":"a@x.com"}`, nil)

	suite.Assert().Equal(http.StatusOK, w.Code)
	suite.Assert().Len(w.Header().Get(requestIdHeader), 36)
}

func (suite *ServerTestSuite) TestTransmissionInvalidBody() {
	w := suite.do(http.MethodPost, "/transmissions", `{"to":42}`, nil)

	suite.Assert().Equal(http.StatusBadRequest, w.Code)
	suite.Assert().Nil(suite.sender.campaign)
}

func (suite *ServerTestSuite) TestTransmissionProviderError() {
	suite.sender.err = &sparkpost.APIError{StatusCode: http.StatusUnauthorized, Errors: []sparkpost.ErrorDetail{{Message: "Unauthorized."}}}

	w := suite.do(http.MethodPost, "/transmissions", `{"to":"a@x.com"}`, nil)

	suite.Assert().Equal(http.StatusUnauthorized, w.Code)
	suite.Assert().JSONEq(`{"error":"sparkpost: status 401: Unauthorized."}`, w.Body.String())
}

func (suite *ServerTestSuite) TestTransmissionTransportError() {
	suite.sender.err = errors.New("dial tcp: connection refused")

	w := suite.do(http.MethodPost, "/transmissions", `{"to":"a@x.com"}`, nil)

	suite.Assert().Equal(http.StatusBadGateway, w.Code)
	suite.Assert().JSONEq(`{"error":"dial tcp: connection refused"}`, w.Body.String())
}

func (suite *ServerTestSuite) TestListenAndServeStopsWithContext() {
	suite.sut.port = 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suite.Assert().NoError(suite.sut.ListenAndServe(ctx))
}

func (suite *ServerTestSuite) TestTransmissionWithoutResult() {
	w := suite.do(http.MethodPost, "/transmissions", `{"to":"a@x.com"}`, nil)

	suite.Assert().Equal(http.StatusOK, w.Code)
	suite.Assert().JSONEq(`{"id":"","total_accepted_recipients":0,"total_rejected_recipients":0}`, w.Body.String())
}

func (suite *ServerTestSuite) TestListenAndServeReturnsBindError() {
	listener, err := net.Listen("tcp", ":0")
	suite.Require().NoError(err)
	defer func() { _ = listener.Close() }()

	suite.sut.port = listener.Addr().(*net.TCPAddr).Port

	errCh := make(chan error, 1)
	go func() { errCh <- suite.sut.ListenAndServe(context.Background()) }()

	select {
	case err := <-errCh:
		suite.Assert().ErrorContains(err, "server failed")
	case <-time.After(2 * time.Second):
		suite.Fail("ListenAndServe did not return after the bind failure")
	}
}
