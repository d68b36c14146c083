package usecase

import (
	"context"
	"strings"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/metrics"
	"flightwatch-service/pkg/timeutil"
)

// Event actions
const (
	ActionSubscribed   = "subscribed"
	ActionUnsubscribed = "unsubscribed"
)

// SubscriptionService performs subscribe and unsubscribe against the backend
// and keeps the oracle, local mirror and event stream in step.
//
// The backend call decides success. Oracle, mirror and publish failures are
// logged and never turn a successful action into a failed one.
type SubscriptionService struct {
	flightService    repository.FlightService
	oracle           repository.OracleContract
	subscriptionRepo repository.SubscriptionRepository
	txLogRepo        repository.TransactionLogRepository
	publisher        repository.EventPublisher
	metrics          *metrics.Metrics
	logger           logger.Logger
	now              func() time.Time
}

// NewSubscriptionService creates a new subscription service. Everything but
// flightService may be nil.
func NewSubscriptionService(
	flightService repository.FlightService,
	oracle repository.OracleContract,
	subscriptionRepo repository.SubscriptionRepository,
	txLogRepo repository.TransactionLogRepository,
	publisher repository.EventPublisher,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		flightService:    flightService,
		oracle:           oracle,
		subscriptionRepo: subscriptionRepo,
		txLogRepo:        txLogRepo,
		publisher:        publisher,
		metrics:          metrics,
		logger:           logger,
		now:              time.Now,
	}
}

// ValidateSubscribeFlight checks the fields the backend needs to subscribe.
func ValidateSubscribeFlight(flight entity.FlightRecord) error {
	if NormalizeCarrierCode(flight.CarrierCode) == "" {
		return entity.NewValidationError("carrierCode", MsgCarrierRequired)
	}
	if err := ValidateCarrierCode(flight.CarrierCode); err != nil {
		return err
	}
	if err := ValidateFlightNumber(flight.FlightNumber, FlightNumberExact); err != nil {
		return err
	}
	if timeutil.DateOnly(flight.DepartureDateValue()) == "" {
		return entity.NewValidationError("date", MsgDateRequired)
	}
	if err := ValidateStationCode(flight.DepartureAirport); err != nil {
		return err
	}
	if flight.ArrivalAirport != "" {
		if err := ValidateStationCode(flight.ArrivalAirport); err != nil {
			return err
		}
	}
	return nil
}

// SubscribeFlight subscribes userID to flight.
func (s *SubscriptionService) SubscribeFlight(ctx context.Context, userID string, flight entity.FlightRecord) (*entity.SubscriptionRecord, error) {
	if err := ValidateSubscribeFlight(flight); err != nil {
		return nil, err
	}

	req := repository.SubscribeRequest{
		FlightNumber:     NormalizeFlightNumber(flight.FlightNumber),
		DepartureDate:    timeutil.DateOnly(flight.DepartureDateValue()),
		CarrierCode:      NormalizeCarrierCode(flight.CarrierCode),
		DepartureAirport: NormalizeStationCode(flight.DepartureAirport),
		ArrivalAirport:   NormalizeStationCode(flight.ArrivalAirport),
	}
	flight.CarrierCode = req.CarrierCode
	flight.FlightNumber = req.FlightNumber
	flight.DepartureAirport = req.DepartureAirport
	flight.ArrivalAirport = req.ArrivalAirport

	if err := s.flightService.Subscribe(ctx, userID, req); err != nil {
		s.metrics.CollaboratorError("subscribe")
		s.logger.Error("Backend subscribe failed", "userID", userID, "flight", flight.ID(), "error", err)
		return nil, err
	}
	s.logger.Info("Subscribed to flight", "userID", userID, "flight", flight.ID())

	txHash := ""
	if s.oracle != nil && s.oracle.Enabled() {
		hash, err := s.oracle.AddFlightSubscription(ctx, req.FlightNumber, req.CarrierCode, req.DepartureAirport)
		s.recordTransaction(ctx, userID, entity.TxTypeSubscribe, req.FlightNumber, hash, err, map[string]interface{}{
			"carrierCode":      req.CarrierCode,
			"departureAirport": req.DepartureAirport,
			"departureDate":    req.DepartureDate,
		})
		if err == nil {
			txHash = hash
		}
	}

	flight.IsSubscribed = true
	if txHash != "" {
		flight.BlockchainTxHash = txHash
	}

	record := &entity.SubscriptionRecord{
		UserID:    userID,
		FlightKey: flight.ID(),
		Flight:    flight,
		Active:    true,
		TxHash:    txHash,
		CreatedAt: s.now().UTC(),
		UpdatedAt: s.now().UTC(),
	}
	if s.subscriptionRepo != nil {
		saved, err := s.subscriptionRepo.Activate(ctx, userID, flight, txHash)
		if err != nil {
			s.logger.Warn("Failed to store subscription", "userID", userID, "flight", flight.ID(), "error", err)
		} else if saved != nil {
			record = saved
		}
	}

	s.publish(ctx, repository.SubscriptionChangedEvent{
		UserID:     userID,
		Action:     ActionSubscribed,
		FlightKeys: []string{flight.ID()},
		TxHash:     txHash,
		OccurredAt: s.now().UTC(),
	})
	return record, nil
}

// UnsubscribeFlights removes every flight in one backend call and returns
// the oracle transaction hash, if any.
func (s *SubscriptionService) UnsubscribeFlights(ctx context.Context, userID string, flights []entity.FlightRecord) (string, error) {
	if len(flights) == 0 {
		return "", emptySelectionError()
	}

	req := BuildUnsubscribeRequest(flights)
	if err := s.flightService.Unsubscribe(ctx, userID, req); err != nil {
		s.metrics.CollaboratorError("unsubscribe")
		s.logger.Error("Backend unsubscribe failed", "userID", userID, "count", req.Len(), "error", err)
		return "", err
	}
	s.logger.Info("Unsubscribed from flights", "userID", userID, "count", req.Len())

	txHash := ""
	if s.oracle != nil && s.oracle.Enabled() {
		hash, err := s.oracle.RemoveFlightSubscription(ctx, req.FlightNumbers, req.CarrierCodes, req.DepartureAirports)
		s.recordTransaction(ctx, userID, entity.TxTypeUnsubscribe, strings.Join(req.FlightNumbers, ","), hash, err, map[string]interface{}{
			"carrierCodes":      req.CarrierCodes,
			"departureAirports": req.DepartureAirports,
			"count":             req.Len(),
		})
		if err == nil {
			txHash = hash
		}
	}

	keys := make([]string, 0, len(flights))
	for _, f := range flights {
		keys = append(keys, f.ID())
	}
	if s.subscriptionRepo != nil {
		if n, err := s.subscriptionRepo.Deactivate(ctx, userID, keys); err != nil {
			s.logger.Warn("Failed to deactivate subscriptions", "userID", userID, "error", err)
		} else if n != int64(len(keys)) {
			s.logger.Debug("Some subscriptions were not mirrored locally", "expected", len(keys), "deactivated", n)
		}
	}

	s.publish(ctx, repository.SubscriptionChangedEvent{
		UserID:     userID,
		Action:     ActionUnsubscribed,
		FlightKeys: keys,
		TxHash:     txHash,
		OccurredAt: s.now().UTC(),
	})
	return txHash, nil
}

// ListTransactionLogs returns the user's oracle transactions, newest first.
func (s *SubscriptionService) ListTransactionLogs(ctx context.Context, userID string, limit int) ([]*entity.TransactionLog, error) {
	if s.txLogRepo == nil {
		return []*entity.TransactionLog{}, nil
	}
	return s.txLogRepo.ListByUser(ctx, userID, limit)
}

// BuildUnsubscribeRequest lays flights out as the parallel arrays the
// backend expects.
func BuildUnsubscribeRequest(flights []entity.FlightRecord) repository.UnsubscribeRequest {
	req := repository.UnsubscribeRequest{
		FlightNumbers:     make([]string, 0, len(flights)),
		CarrierCodes:      make([]string, 0, len(flights)),
		DepartureAirports: make([]string, 0, len(flights)),
		ArrivalAirports:   make([]string, 0, len(flights)),
	}
	for _, f := range flights {
		req.FlightNumbers = append(req.FlightNumbers, f.FlightNumber)
		req.CarrierCodes = append(req.CarrierCodes, f.CarrierCode)
		req.DepartureAirports = append(req.DepartureAirports, f.DepartureAirport)
		req.ArrivalAirports = append(req.ArrivalAirports, f.ArrivalAirport)
	}
	return req
}

func (s *SubscriptionService) recordTransaction(ctx context.Context, userID, txType, flightNumber, hash string, callErr error, fields map[string]interface{}) {
	entry := &entity.TransactionLog{
		UserID:        userID,
		Hash:          hash,
		Status:        entity.TxStatusSubmitted,
		Type:          txType,
		Timestamp:     s.now().UTC(),
		FlightNumber:  flightNumber,
		UpdatedFields: fields,
	}
	if callErr != nil {
		s.metrics.CollaboratorError("oracle_" + txType)
		s.logger.Error("Oracle transaction failed", "type", txType, "flightNumber", flightNumber, "error", callErr)
		entry.Status = entity.TxStatusFailed
		entry.Error = callErr.Error()
	} else {
		s.logger.Info("Oracle transaction submitted", "type", txType, "hash", hash)
	}

	if s.txLogRepo == nil {
		return
	}
	if err := s.txLogRepo.Save(ctx, entry); err != nil {
		s.logger.Warn("Failed to save transaction log", "hash", hash, "error", err)
	}
}

func (s *SubscriptionService) publish(ctx context.Context, event repository.SubscriptionChangedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSubscriptionChanged(ctx, event); err != nil {
		s.logger.Warn("Failed to publish subscription event", "action", event.Action, "error", err)
	}
}
