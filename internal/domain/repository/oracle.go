package repository

import "context"

// OracleContract is the optional on-chain subscription registry. Both calls
// return an opaque transaction hash.
type OracleContract interface {
	Enabled() bool
	AddFlightSubscription(ctx context.Context, flightNumber, carrierCode, departureAirport string) (string, error)
	RemoveFlightSubscription(ctx context.Context, flightNumbers, carrierCodes, departureAirports []string) (string, error)
}
