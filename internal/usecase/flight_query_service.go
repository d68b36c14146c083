package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/metrics"
)

// FlightQueryService loads flight records for view sessions
type FlightQueryService struct {
	flightService    repository.FlightService
	subscriptionRepo repository.SubscriptionRepository
	cache            repository.FlightCache
	cacheTTL         time.Duration
	metrics          *metrics.Metrics
	logger           logger.Logger
}

// NewFlightQueryService creates a new flight query service. subscriptionRepo
// and cache may be nil.
func NewFlightQueryService(
	flightService repository.FlightService,
	subscriptionRepo repository.SubscriptionRepository,
	cache repository.FlightCache,
	cacheTTL time.Duration,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *FlightQueryService {
	return &FlightQueryService{
		flightService:    flightService,
		subscriptionRepo: subscriptionRepo,
		cache:            cache,
		cacheTTL:         cacheTTL,
		metrics:          metrics,
		logger:           logger,
	}
}

// FetchFlights searches the backend for the view and subscribe tabs and
// lists the user's subscriptions for the unsubscribe tab.
func (s *FlightQueryService) FetchFlights(ctx context.Context, userID string, tab Tab, criteria FilterCriteria) ([]entity.FlightRecord, error) {
	if tab == TabUnsubscribe {
		return s.ListSubscriptions(ctx, userID)
	}

	records, err := s.search(ctx, queryFromCriteria(criteria))
	if err != nil {
		return nil, err
	}
	s.markSubscribed(ctx, userID, records)
	return records, nil
}

// ListSubscriptions returns the flights userID is subscribed to. The
// backend list is authoritative.
func (s *FlightQueryService) ListSubscriptions(ctx context.Context, userID string) ([]entity.FlightRecord, error) {
	records, err := s.flightService.ListSubscribedFlights(ctx, userID)
	if err != nil {
		s.metrics.CollaboratorError("list_subscriptions")
		s.logger.Error("Failed to list subscribed flights", "userID", userID, "error", err)
		return nil, err
	}
	for i := range records {
		records[i].IsSubscribed = true
	}
	return records, nil
}

// search serves repeated backend searches from the cache.
func (s *FlightQueryService) search(ctx context.Context, query repository.FlightQuery) ([]entity.FlightRecord, error) {
	key := cacheKey(query)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			s.metrics.CacheHit()
			s.logger.Debug("Serving flight search from cache", "key", key, "count", len(cached))
			return cached, nil
		}
	}

	started := time.Now()
	records, err := s.flightService.SearchFlights(ctx, query)
	s.metrics.ObserveSearch(started)
	if err != nil {
		s.metrics.CollaboratorError("search_flights")
		s.logger.Error("Flight search failed", "query", key, "error", err)
		return nil, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		s.cache.Set(ctx, key, records, s.cacheTTL)
	}
	s.logger.Info("Flight search completed", "query", key, "count", len(records))
	return records, nil
}

// markSubscribed flags records the user already follows according to the
// local mirror. A failing mirror only costs the flag.
func (s *FlightQueryService) markSubscribed(ctx context.Context, userID string, records []entity.FlightRecord) {
	if s.subscriptionRepo == nil || userID == "" || len(records) == 0 {
		return
	}
	keys, err := s.subscriptionRepo.ActiveKeys(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load active subscriptions", "userID", userID, "error", err)
		return
	}
	for i := range records {
		if keys[records[i].ID()] {
			records[i].IsSubscribed = true
		}
	}
}

func queryFromCriteria(c FilterCriteria) repository.FlightQuery {
	return repository.FlightQuery{
		CarrierCode:      c.CarrierCode,
		FlightNumber:     c.FlightNumber,
		DepartureDate:    c.DateString(),
		DepartureAirport: c.DepartureAirport,
		ArrivalAirport:   c.ArrivalAirport,
	}
}

func cacheKey(q repository.FlightQuery) string {
	return strings.ToUpper(fmt.Sprintf("flights:%s:%s:%s:%s:%s",
		q.CarrierCode, q.FlightNumber, q.DepartureDate, q.DepartureAirport, q.ArrivalAirport))
}
