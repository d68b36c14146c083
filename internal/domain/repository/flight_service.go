package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// FlightQuery narrows a backend flight search. Empty fields are not sent.
type FlightQuery struct {
	CarrierCode      string
	FlightNumber     string
	DepartureDate    string
	DepartureAirport string
	ArrivalAirport   string
}

// SubscribeRequest is the backend body for a single subscription
type SubscribeRequest struct {
	FlightNumber     string `json:"flightNumber"`
	DepartureDate    string `json:"departureDate"`
	CarrierCode      string `json:"carrierCode"`
	DepartureAirport string `json:"departureAirport"`
	ArrivalAirport   string `json:"arrivalAirport"`
}

// UnsubscribeRequest uses parallel arrays; index i of every slice describes
// the same subscription.
type UnsubscribeRequest struct {
	FlightNumbers     []string `json:"flightNumbers"`
	CarrierCodes      []string `json:"carrierCodes"`
	DepartureAirports []string `json:"departureAirports"`
	ArrivalAirports   []string `json:"arrivalAirports"`
}

// Len returns the number of subscriptions in the request.
func (r UnsubscribeRequest) Len() int {
	return len(r.FlightNumbers)
}

// FlightService is the backend REST collaborator
type FlightService interface {
	SearchFlights(ctx context.Context, query FlightQuery) ([]entity.FlightRecord, error)
	ListSubscribedFlights(ctx context.Context, userID string) ([]entity.FlightRecord, error)
	Subscribe(ctx context.Context, userID string, req SubscribeRequest) error
	Unsubscribe(ctx context.Context, userID string, req UnsubscribeRequest) error
}
