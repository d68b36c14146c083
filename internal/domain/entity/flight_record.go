// internal/domain/entity/flight_record.go
package entity

import (
	"strings"

	"flightwatch-service/pkg/timeutil"
)

// FlightRecord is one flight occurrence as returned by the backend.
// Timestamps stay as ISO-8601 strings; missing or malformed values are
// replaced at render time, never rejected.
type FlightRecord struct {
	CarrierCode            string `json:"carrierCode" bson:"carrierCode"`
	FlightNumber           string `json:"flightNumber" bson:"flightNumber"`
	ScheduledDepartureDate string `json:"scheduledDepartureDate" bson:"scheduledDepartureDate"`

	DepartureAirport   string `json:"departureAirport" bson:"departureAirport"`
	ArrivalAirport     string `json:"arrivalAirport" bson:"arrivalAirport"`
	DepartureCity      string `json:"departureCity,omitempty" bson:"departureCity,omitempty"`
	ArrivalCity        string `json:"arrivalCity,omitempty" bson:"arrivalCity,omitempty"`
	DepartureTerminal  string `json:"departureTerminal,omitempty" bson:"departureTerminal,omitempty"`
	ArrivalTerminal    string `json:"arrivalTerminal,omitempty" bson:"arrivalTerminal,omitempty"`
	DepartureGate      string `json:"departureGate,omitempty" bson:"departureGate,omitempty"`
	ArrivalGate        string `json:"arrivalGate,omitempty" bson:"arrivalGate,omitempty"`
	BaggageClaim       string `json:"baggageClaim,omitempty" bson:"baggageClaim,omitempty"`
	EquipmentModel     string `json:"equipmentModel,omitempty" bson:"equipmentModel,omitempty"`

	ScheduledDepartureUTC string `json:"scheduledDepartureUTCDateTime" bson:"scheduledDepartureUtc"`
	ScheduledArrivalUTC   string `json:"scheduledArrivalUTCDateTime" bson:"scheduledArrivalUtc"`
	EstimatedDepartureUTC string `json:"estimatedDepartureUTC" bson:"estimatedDepartureUtc"`
	EstimatedArrivalUTC   string `json:"estimatedArrivalUTC" bson:"estimatedArrivalUtc"`
	ActualDepartureUTC    string `json:"actualDepartureUTC,omitempty" bson:"actualDepartureUtc,omitempty"`
	ActualArrivalUTC      string `json:"actualArrivalUTC,omitempty" bson:"actualArrivalUtc,omitempty"`
	OutTimeUTC            string `json:"outTimeUTC,omitempty" bson:"outTimeUtc,omitempty"`
	OffTimeUTC            string `json:"offTimeUTC,omitempty" bson:"offTimeUtc,omitempty"`
	OnTimeUTC             string `json:"onTimeUTC,omitempty" bson:"onTimeUtc,omitempty"`
	InTimeUTC             string `json:"inTimeUTC,omitempty" bson:"inTimeUtc,omitempty"`

	StatusCode            string `json:"statusCode" bson:"statusCode"`
	IsCanceled            bool   `json:"isCanceled" bson:"isCanceled"`
	DepartureDelayMinutes *int   `json:"departureDelayMinutes,omitempty" bson:"departureDelayMinutes,omitempty"`
	ArrivalDelayMinutes   *int   `json:"arrivalDelayMinutes,omitempty" bson:"arrivalDelayMinutes,omitempty"`

	IsSubscribed     bool   `json:"isSubscribed" bson:"isSubscribed"`
	BlockchainTxHash string `json:"blockchainTxHash,omitempty" bson:"blockchainTxHash,omitempty"`
}

// ID identifies a flight occurrence: carrier, number, departure day and
// origin. Flight numbers alone repeat across carriers and days.
func (f FlightRecord) ID() string {
	return strings.ToUpper(strings.Join([]string{
		strings.TrimSpace(f.CarrierCode),
		strings.TrimSpace(f.FlightNumber),
		departureDay(f),
		strings.TrimSpace(f.DepartureAirport),
	}, "-"))
}

// DepartureDateValue returns the raw value used as the departure day:
// the scheduled date when present, else the scheduled departure timestamp.
func (f FlightRecord) DepartureDateValue() string {
	if strings.TrimSpace(f.ScheduledDepartureDate) != "" {
		return f.ScheduledDepartureDate
	}
	return f.ScheduledDepartureUTC
}

// departureDay is the UTC day used for filtering and subscriptions, or the
// raw date prefix when the value does not parse.
func departureDay(f FlightRecord) string {
	v := strings.TrimSpace(f.DepartureDateValue())
	if day := timeutil.DateOnly(v); day != "" {
		return day
	}
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}
