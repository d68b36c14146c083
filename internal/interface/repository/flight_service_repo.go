package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"
)

// UserIDHeader carries the acting user on backend calls
const UserIDHeader = "X-User-ID"

// HTTPFlightService is the REST client of the flight backend
type HTTPFlightService struct {
	logger  logger.Logger
	baseURL string
	client  *http.Client
}

// NewHTTPFlightService creates a new backend client. client should already
// attach credentials, see oauth.BackendOAuth.HTTPClient.
func NewHTTPFlightService(baseURL string, client *http.Client, logger logger.Logger) repository.FlightService {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFlightService{
		logger:  logger,
		baseURL: baseURL,
		client:  client,
	}
}

// flightsEnvelope accepts either a bare array or {"data": [...]}.
type flightsEnvelope struct {
	Data []entity.FlightRecord `json:"data"`
}

// SearchFlights queries flights matching query, most recent first
func (r *HTTPFlightService) SearchFlights(ctx context.Context, query repository.FlightQuery) ([]entity.FlightRecord, error) {
	params := url.Values{}
	setParam(params, "carrierCode", query.CarrierCode)
	setParam(params, "flightNumber", query.FlightNumber)
	setParam(params, "departureDate", query.DepartureDate)
	setParam(params, "departureAirport", query.DepartureAirport)
	setParam(params, "arrivalAirport", query.ArrivalAirport)

	endpoint := r.baseURL + "/flights"
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var records []entity.FlightRecord
	if err := r.do(ctx, "search_flights", http.MethodGet, endpoint, "", nil, &records); err != nil {
		return nil, err
	}
	r.logger.Debug("Backend search returned flights", "count", len(records))
	return reversed(records), nil
}

// ListSubscribedFlights returns the user's subscribed flights, most recent first
func (r *HTTPFlightService) ListSubscribedFlights(ctx context.Context, userID string) ([]entity.FlightRecord, error) {
	var records []entity.FlightRecord
	if err := r.do(ctx, "list_subscriptions", http.MethodGet, r.baseURL+"/flights/subscribed", userID, nil, &records); err != nil {
		return nil, err
	}
	return reversed(records), nil
}

// Subscribe subscribes the user to one flight
func (r *HTTPFlightService) Subscribe(ctx context.Context, userID string, req repository.SubscribeRequest) error {
	return r.do(ctx, "subscribe", http.MethodPost, r.baseURL+"/flights/subscribe", userID, req, nil)
}

// Unsubscribe removes the subscriptions described by req's parallel arrays
func (r *HTTPFlightService) Unsubscribe(ctx context.Context, userID string, req repository.UnsubscribeRequest) error {
	return r.do(ctx, "unsubscribe", http.MethodPost, r.baseURL+"/flights/unsubscribe", userID, req, nil)
}

func (r *HTTPFlightService) do(ctx context.Context, op, method, endpoint, userID string, body interface{}, out *[]entity.FlightRecord) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return &entity.CollaboratorError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &entity.CollaboratorError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger.Warn("Backend returned error status", "operation", op, "status", resp.StatusCode)
		return &entity.CollaboratorError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(payload),
			Err:        fmt.Errorf("backend returned status %d", resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	records, err := decodeFlights(payload)
	if err != nil {
		return &entity.CollaboratorError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	*out = records
	return nil
}

func decodeFlights(payload []byte) ([]entity.FlightRecord, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return []entity.FlightRecord{}, nil
	}
	if trimmed[0] == '[' {
		var records []entity.FlightRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}
	var envelope flightsEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return []entity.FlightRecord{}, nil
	}
	return envelope.Data, nil
}

// serverMessage extracts {"message": ...} or {"error": {"message": ...}}.
func serverMessage(payload []byte) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	var nested struct {
		Message string `json:"message"`
	}
	if len(body.Error) > 0 && json.Unmarshal(body.Error, &nested) == nil {
		return nested.Message
	}
	return ""
}

func reversed(records []entity.FlightRecord) []entity.FlightRecord {
	out := make([]entity.FlightRecord, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}

func setParam(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}
