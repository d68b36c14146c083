package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"
)

// HTTPOracleContract submits subscription changes to the oracle gateway,
// which signs and sends the contract transaction
type HTTPOracleContract struct {
	logger  logger.Logger
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewOracleContract returns the gateway client, or a no-op contract when
// the oracle is disabled or has no URL.
func NewOracleContract(enabled bool, baseURL, apiKey string, logger logger.Logger) repository.OracleContract {
	if !enabled || baseURL == "" {
		return NoopOracleContract{}
	}
	return &HTTPOracleContract{
		logger:  logger,
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Enabled reports true; the gateway is only built when enabled
func (r *HTTPOracleContract) Enabled() bool {
	return true
}

// AddFlightSubscription registers one flight on chain
func (r *HTTPOracleContract) AddFlightSubscription(ctx context.Context, flightNumber, carrierCode, departureAirport string) (string, error) {
	body := map[string]interface{}{
		"flightNumber":     flightNumber,
		"carrierCode":      carrierCode,
		"departureAirport": departureAirport,
	}
	return r.submit(ctx, "oracle_add", "/subscriptions/add", body)
}

// RemoveFlightSubscription removes a batch of flights on chain
func (r *HTTPOracleContract) RemoveFlightSubscription(ctx context.Context, flightNumbers, carrierCodes, departureAirports []string) (string, error) {
	if len(flightNumbers) != len(carrierCodes) || len(flightNumbers) != len(departureAirports) {
		return "", fmt.Errorf("oracle remove: mismatched array lengths %d/%d/%d", len(flightNumbers), len(carrierCodes), len(departureAirports))
	}
	body := map[string]interface{}{
		"flightNumbers":     flightNumbers,
		"carrierCodes":      carrierCodes,
		"departureAirports": departureAirports,
	}
	return r.submit(ctx, "oracle_remove", "/subscriptions/remove", body)
}

func (r *HTTPOracleContract) submit(ctx context.Context, op, path string, body interface{}) (string, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("X-API-Key", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &entity.CollaboratorError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var response struct {
		TxHash  string `json:"txHash"`
		Message string `json:"message"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&response)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return "", &entity.CollaboratorError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    response.Message,
			Err:        fmt.Errorf("oracle gateway returned status %d", resp.StatusCode),
		}
	}
	if decodeErr != nil {
		return "", &entity.CollaboratorError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", decodeErr)}
	}
	if response.TxHash == "" {
		return "", &entity.CollaboratorError{Op: op, StatusCode: resp.StatusCode, Message: "Oracle returned no transaction hash"}
	}

	r.logger.Info("Oracle transaction sent", "operation", op, "txHash", response.TxHash)
	return response.TxHash, nil
}

// NoopOracleContract is used when the oracle is disabled
type NoopOracleContract struct{}

func (NoopOracleContract) Enabled() bool { return false }

func (NoopOracleContract) AddFlightSubscription(ctx context.Context, flightNumber, carrierCode, departureAirport string) (string, error) {
	return "", nil
}

func (NoopOracleContract) RemoveFlightSubscription(ctx context.Context, flightNumbers, carrierCodes, departureAirports []string) (string, error) {
	return "", nil
}
