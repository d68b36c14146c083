package usecase

import (
	"strings"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/pkg/timeutil"
)

// Tab is the flow a view session belongs to. Each flow has its own
// validation rules and data source.
type Tab string

const (
	TabView        Tab = "view"
	TabSubscribe   Tab = "subscribe"
	TabUnsubscribe Tab = "unsubscribe"
)

// ParseTab maps a user supplied tab name, defaulting to TabView.
func ParseTab(value string) Tab {
	switch Tab(strings.ToLower(strings.TrimSpace(value))) {
	case TabSubscribe:
		return TabSubscribe
	case TabUnsubscribe:
		return TabUnsubscribe
	default:
		return TabView
	}
}

// FilterCriteria is the search form of one view session. Zero values mean
// "no filter".
type FilterCriteria struct {
	CarrierCode      string     `json:"carrierCode"`
	FlightNumber     string     `json:"flightNumber"`
	DepartureAirport string     `json:"departureAirport"`
	ArrivalAirport   string     `json:"arrivalAirport"`
	Date             *time.Time `json:"date,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.CarrierCode == "" && c.FlightNumber == "" && c.DepartureAirport == "" &&
		c.ArrivalAirport == "" && c.Date == nil
}

// Normalized applies the same keystroke normalization the form does.
func (c FilterCriteria) Normalized() FilterCriteria {
	out := FilterCriteria{
		CarrierCode:      NormalizeCarrierCode(c.CarrierCode),
		FlightNumber:     NormalizeFlightNumber(c.FlightNumber),
		DepartureAirport: NormalizeStationCode(c.DepartureAirport),
		ArrivalAirport:   NormalizeStationCode(c.ArrivalAirport),
	}
	if c.Date != nil {
		d := c.Date.UTC()
		out.Date = &d
	}
	return out
}

// DateString renders the date filter as YYYY-MM-DD, or "".
func (c FilterCriteria) DateString() string {
	if c.Date == nil {
		return ""
	}
	return c.Date.UTC().Format(timeutil.DateLayout)
}

// ParseCriteriaDate parses a YYYY-MM-DD (or ISO) date from a form value.
func ParseCriteriaDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, ok := timeutil.ParseTimestamp(value)
	if !ok {
		return nil, entity.NewValidationError("date", "Invalid date")
	}
	return &t, nil
}
