package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
)

func makeFlight(carrier, number, date, dep, arr string) entity.FlightRecord {
	return entity.FlightRecord{
		CarrierCode:            carrier,
		FlightNumber:           number,
		ScheduledDepartureDate: date,
		ScheduledDepartureUTC:  date + "T10:00:00Z",
		ScheduledArrivalUTC:    date + "T13:30:00Z",
		DepartureAirport:       dep,
		ArrivalAirport:         arr,
		StatusCode:             "ndpt",
	}
}

// makeFlights returns n flights numbered 1..n on the same day.
func makeFlights(n int) []entity.FlightRecord {
	out := make([]entity.FlightRecord, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, makeFlight("AA", fmt.Sprintf("%d", i), "2024-05-01", "JFK", "LAX"))
	}
	return out
}

type fakeSource struct {
	mu      sync.Mutex
	records []entity.FlightRecord
	err     error
	calls   int
	// gate, when set, blocks FetchFlights until a value is received.
	gate chan struct{}
}

func (f *fakeSource) FetchFlights(ctx context.Context, userID string, tab Tab, criteria FilterCriteria) ([]entity.FlightRecord, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]entity.FlightRecord(nil), f.records...), nil
}

type fakeSubscriber struct {
	calls  []entity.FlightRecord
	txHash string
	err    error
}

func (f *fakeSubscriber) SubscribeFlight(ctx context.Context, userID string, flight entity.FlightRecord) (*entity.SubscriptionRecord, error) {
	f.calls = append(f.calls, flight)
	if f.err != nil {
		return nil, f.err
	}
	return &entity.SubscriptionRecord{UserID: userID, FlightKey: flight.ID(), Flight: flight, Active: true, TxHash: f.txHash}, nil
}

type fakeUnsubscriber struct {
	calls  [][]entity.FlightRecord
	txHash string
	err    error
}

func (f *fakeUnsubscriber) UnsubscribeFlights(ctx context.Context, userID string, flights []entity.FlightRecord) (string, error) {
	f.calls = append(f.calls, flights)
	if f.err != nil {
		return "", f.err
	}
	return f.txHash, nil
}

type fakeFlightService struct {
	searchResult []entity.FlightRecord
	subscribed   []entity.FlightRecord
	err          error

	searches     []repository.FlightQuery
	subscribes   []repository.SubscribeRequest
	unsubscribes []repository.UnsubscribeRequest
}

func (f *fakeFlightService) SearchFlights(ctx context.Context, query repository.FlightQuery) ([]entity.FlightRecord, error) {
	f.searches = append(f.searches, query)
	if f.err != nil {
		return nil, f.err
	}
	return append([]entity.FlightRecord(nil), f.searchResult...), nil
}

func (f *fakeFlightService) ListSubscribedFlights(ctx context.Context, userID string) ([]entity.FlightRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]entity.FlightRecord(nil), f.subscribed...), nil
}

func (f *fakeFlightService) Subscribe(ctx context.Context, userID string, req repository.SubscribeRequest) error {
	f.subscribes = append(f.subscribes, req)
	return f.err
}

func (f *fakeFlightService) Unsubscribe(ctx context.Context, userID string, req repository.UnsubscribeRequest) error {
	f.unsubscribes = append(f.unsubscribes, req)
	return f.err
}

type fakeOracle struct {
	enabled bool
	hash    string
	err     error
	adds    int
	removes int
}

func (f *fakeOracle) Enabled() bool { return f.enabled }

func (f *fakeOracle) AddFlightSubscription(ctx context.Context, flightNumber, carrierCode, departureAirport string) (string, error) {
	f.adds++
	return f.hash, f.err
}

func (f *fakeOracle) RemoveFlightSubscription(ctx context.Context, flightNumbers, carrierCodes, departureAirports []string) (string, error) {
	f.removes++
	return f.hash, f.err
}

type fakeSubscriptionRepo struct {
	active      map[string]bool
	activated   []string
	deactivated []string
	err         error
}

func (f *fakeSubscriptionRepo) Activate(ctx context.Context, userID string, flight entity.FlightRecord, txHash string) (*entity.SubscriptionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.activated = append(f.activated, flight.ID())
	return &entity.SubscriptionRecord{ID: "sub-1", UserID: userID, FlightKey: flight.ID(), Flight: flight, Active: true, TxHash: txHash}, nil
}

func (f *fakeSubscriptionRepo) Deactivate(ctx context.Context, userID string, keys []string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.deactivated = append(f.deactivated, keys...)
	return int64(len(keys)), nil
}

func (f *fakeSubscriptionRepo) ListActive(ctx context.Context, userID string) ([]*entity.SubscriptionRecord, error) {
	return nil, f.err
}

func (f *fakeSubscriptionRepo) ActiveKeys(ctx context.Context, userID string) (map[string]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.active, nil
}

type fakeTxLogRepo struct {
	saved []*entity.TransactionLog
}

func (f *fakeTxLogRepo) Save(ctx context.Context, log *entity.TransactionLog) error {
	f.saved = append(f.saved, log)
	return nil
}

func (f *fakeTxLogRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.TransactionLog, error) {
	return f.saved, nil
}

type fakePublisher struct {
	events []repository.SubscriptionChangedEvent
	err    error
}

func (f *fakePublisher) PublishSubscriptionChanged(ctx context.Context, event repository.SubscriptionChangedEvent) error {
	f.events = append(f.events, event)
	return f.err
}

type fakeCache struct {
	data map[string][]entity.FlightRecord
	ttls map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]entity.FlightRecord{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]entity.FlightRecord, bool) {
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeCache) Set(ctx context.Context, key string, flights []entity.FlightRecord, ttl time.Duration) {
	f.data[key] = flights
	f.ttls[key] = ttl
}

type fakeAirlineRepo struct {
	airlines map[string]*entity.Airline
}

func (f *fakeAirlineRepo) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	if a, ok := f.airlines[code]; ok {
		return a, nil
	}
	return nil, entity.ErrNotFound
}

type fakeTimezoneRepo struct {
	zones   map[string]string
	lookups int
}

func (f *fakeTimezoneRepo) GetByAirportCode(ctx context.Context, code string) (*entity.Timezone, error) {
	f.lookups++
	if z, ok := f.zones[code]; ok {
		return &entity.Timezone{AirportCode: code, TzName: z}, nil
	}
	return nil, entity.ErrNotFound
}
