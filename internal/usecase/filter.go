package usecase

import (
	"strings"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/pkg/timeutil"
)

// ApplyFilters narrows records by every non-empty criterion and keeps input
// order. The result is always a new slice.
//
// Flight numbers match by substring so a partial number narrows
// progressively; the exact match needed to subscribe is checked separately.
func ApplyFilters(records []entity.FlightRecord, criteria FilterCriteria) []entity.FlightRecord {
	c := criteria.Normalized()
	filtered := make([]entity.FlightRecord, 0, len(records))
	for _, record := range records {
		if !matchCriteria(record, c) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

func matchCriteria(r entity.FlightRecord, c FilterCriteria) bool {
	if c.CarrierCode != "" && !strings.EqualFold(strings.TrimSpace(r.CarrierCode), c.CarrierCode) {
		return false
	}
	if c.FlightNumber != "" && !strings.Contains(strings.TrimSpace(r.FlightNumber), c.FlightNumber) {
		return false
	}
	if c.DepartureAirport != "" && !strings.EqualFold(strings.TrimSpace(r.DepartureAirport), c.DepartureAirport) {
		return false
	}
	if c.ArrivalAirport != "" && !strings.EqualFold(strings.TrimSpace(r.ArrivalAirport), c.ArrivalAirport) {
		return false
	}
	return matchDate(r, c)
}

func matchDate(r entity.FlightRecord, c FilterCriteria) bool {
	if c.Date == nil {
		return true
	}
	scheduled, ok := timeutil.ParseTimestamp(r.DepartureDateValue())
	if !ok {
		return false
	}
	return timeutil.SameUTCDay(scheduled, *c.Date)
}

// ExactFlightNumberMatch reports whether record carries exactly the flight
// number in criteria, which is required before subscribing.
func ExactFlightNumberMatch(r entity.FlightRecord, criteria FilterCriteria) bool {
	want := NormalizeFlightNumber(criteria.FlightNumber)
	return want != "" && strings.TrimSpace(r.FlightNumber) == want
}
