package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"flightwatch-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOracleContract_DisabledIsNoop(t *testing.T) {
	oracle := NewOracleContract(false, "http://unused", "", logger.NewNop())

	assert.False(t, oracle.Enabled())
	hash, err := oracle.AddFlightSubscription(context.Background(), "1", "AA", "JFK")
	assert.NoError(t, err)
	assert.Empty(t, hash)
}

func TestHTTPOracleContract_Add(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/add", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1234", body["flightNumber"])
		w.Write([]byte(`{"txHash":"0xabc"}`))
	}))
	defer server.Close()

	oracle := NewOracleContract(true, server.URL, "secret", logger.NewNop())
	hash, err := oracle.AddFlightSubscription(context.Background(), "1234", "AA", "JFK")

	require.NoError(t, err)
	assert.Equal(t, "0xabc", hash)
}

func TestHTTPOracleContract_RemoveRejectsMismatchedArrays(t *testing.T) {
	oracle := NewOracleContract(true, "http://127.0.0.1:1", "", logger.NewNop())

	_, err := oracle.RemoveFlightSubscription(context.Background(), []string{"1", "2"}, []string{"AA"}, []string{"JFK", "LAX"})

	assert.Error(t, err)
}

func TestHTTPOracleContract_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message":"node unavailable"}`))
	}))
	defer server.Close()

	oracle := NewOracleContract(true, server.URL, "", logger.NewNop())
	_, err := oracle.RemoveFlightSubscription(context.Background(), []string{"1"}, []string{"AA"}, []string{"JFK"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "node unavailable")
}
