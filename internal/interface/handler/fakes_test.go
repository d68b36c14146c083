package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/internal/usecase"
	"flightwatch-service/pkg/flightstatus"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/timeutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeFlightService struct {
	mu           sync.Mutex
	records      []entity.FlightRecord
	subscribed   []entity.FlightRecord
	searchErr    error
	subscribeErr error
	subscribes   []repository.SubscribeRequest
	unsubscribes []repository.UnsubscribeRequest
}

func (f *fakeFlightService) SearchFlights(ctx context.Context, query repository.FlightQuery) ([]entity.FlightRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return append([]entity.FlightRecord(nil), f.records...), nil
}

func (f *fakeFlightService) ListSubscribedFlights(ctx context.Context, userID string) ([]entity.FlightRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.FlightRecord(nil), f.subscribed...), nil
}

func (f *fakeFlightService) Subscribe(ctx context.Context, userID string, req repository.SubscribeRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribes = append(f.subscribes, req)
	return f.subscribeErr
}

func (f *fakeFlightService) Unsubscribe(ctx context.Context, userID string, req repository.UnsubscribeRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribes = append(f.unsubscribes, req)
	return nil
}

func makeFlight(carrier, number string) entity.FlightRecord {
	return entity.FlightRecord{
		CarrierCode:            carrier,
		FlightNumber:           number,
		ScheduledDepartureDate: "2024-05-01",
		ScheduledDepartureUTC:  "2024-05-01T10:00:00Z",
		ScheduledArrivalUTC:    "2024-05-01T13:30:00Z",
		DepartureAirport:       "JFK",
		ArrivalAirport:         "LAX",
		StatusCode:             "ndpt",
	}
}

func newTestFlightHandler(backend *fakeFlightService) *FlightHandler {
	log := logger.NewNop()
	views := usecase.NewFlightViewBuilder(flightstatus.NewClassifier(log), nil, nil, "", time.Now, log)
	queries := usecase.NewFlightQueryService(backend, nil, nil, 0, nil, log)
	subscriptions := usecase.NewSubscriptionService(backend, nil, nil, nil, nil, nil, log)
	return NewFlightHandler(queries, subscriptions, views, timeutil.FormatUTC, log)
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// serve runs one request through h behind JWTAuth.
func serve(t *testing.T, method, path, body string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Any("/*", h, JWTAuth(testSecret))

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-1"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
