package usecase

import (
	"strings"
	"unicode"

	"flightwatch-service/internal/domain/entity"
)

const (
	maxFlightNumberDigits = 4
	stationCodeLength     = 3
	carrierCodeLength     = 2
)

// Messages shown inline next to the form fields.
const (
	MsgFlightNumberRange    = "Flight number must be 1–4 digits"
	MsgFlightNumberExact    = "Flight number must be 4 digits"
	MsgStationCode          = "Airport code must be 3 characters"
	MsgCarrierCode          = "Carrier code must be 2 characters"
	MsgCarrierRequired      = "Carrier code is required"
	MsgDateRequired         = "Departure date is required"
	MsgEmptySelection       = "Please select at least one flight to unsubscribe"
	MsgFlightNumberMismatch = "Flight number must match exactly to subscribe"
	MsgConfirmDialogClosed  = "Open the unsubscribe confirmation before confirming"
)

// FlightNumberRule is the flight number rule of a flow. Progressive search
// (view, unsubscribe) accepts 1–4 digits; the subscribe search requires
// exactly 4.
type FlightNumberRule int

const (
	FlightNumberProgressive FlightNumberRule = iota
	FlightNumberExact
)

// RuleForTab returns the flight number rule used by tab.
func RuleForTab(tab Tab) FlightNumberRule {
	if tab == TabSubscribe {
		return FlightNumberExact
	}
	return FlightNumberProgressive
}

// NormalizeFlightNumber drops non-digits and keeps at most 4 characters.
// It is applied on every keystroke, not only on submit.
func NormalizeFlightNumber(value string) string {
	var b strings.Builder
	for _, r := range value {
		if b.Len() >= maxFlightNumberDigits {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeStationCode upper-cases, trims and truncates to 3 characters.
func NormalizeStationCode(value string) string {
	return truncateUpper(value, stationCodeLength)
}

// NormalizeCarrierCode upper-cases, trims and truncates to 2 characters.
func NormalizeCarrierCode(value string) string {
	return truncateUpper(value, carrierCodeLength)
}

func truncateUpper(value string, n int) string {
	var b strings.Builder
	count := 0
	for _, r := range strings.TrimSpace(value) {
		if count == n {
			break
		}
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		count++
	}
	return b.String()
}

// ValidateFlightNumber checks a normalized flight number against rule.
func ValidateFlightNumber(value string, rule FlightNumberRule) error {
	n := NormalizeFlightNumber(value)
	if rule == FlightNumberExact {
		if len(n) != maxFlightNumberDigits {
			return entity.NewValidationError("flightNumber", MsgFlightNumberExact)
		}
		return nil
	}
	if len(n) < 1 || len(n) > maxFlightNumberDigits {
		return entity.NewValidationError("flightNumber", MsgFlightNumberRange)
	}
	return nil
}

// ValidateStationCode requires exactly 3 characters after normalization.
func ValidateStationCode(value string) error {
	if len([]rune(NormalizeStationCode(value))) != stationCodeLength {
		return entity.NewValidationError("station", MsgStationCode)
	}
	return nil
}

// ValidateCarrierCode requires exactly 2 characters after normalization.
func ValidateCarrierCode(value string) error {
	if len([]rune(NormalizeCarrierCode(value))) != carrierCodeLength {
		return entity.NewValidationError("carrierCode", MsgCarrierCode)
	}
	return nil
}

// ValidateCriteria runs the submit-time checks of tab. Optional fields are
// only checked when set.
func ValidateCriteria(c FilterCriteria, tab Tab) error {
	c = c.Normalized()

	if tab == TabSubscribe {
		if c.CarrierCode == "" {
			return entity.NewValidationError("carrierCode", MsgCarrierRequired)
		}
		if err := ValidateFlightNumber(c.FlightNumber, FlightNumberExact); err != nil {
			return err
		}
		if c.Date == nil {
			return entity.NewValidationError("date", MsgDateRequired)
		}
	}

	if c.CarrierCode != "" {
		if err := ValidateCarrierCode(c.CarrierCode); err != nil {
			return err
		}
	}
	if tab != TabSubscribe && c.FlightNumber != "" {
		if err := ValidateFlightNumber(c.FlightNumber, FlightNumberProgressive); err != nil {
			return err
		}
	}
	if c.DepartureAirport != "" {
		if err := ValidateStationCode(c.DepartureAirport); err != nil {
			return entity.NewValidationError("departureAirport", MsgStationCode)
		}
	}
	if c.ArrivalAirport != "" {
		if err := ValidateStationCode(c.ArrivalAirport); err != nil {
			return entity.NewValidationError("arrivalAirport", MsgStationCode)
		}
	}
	return nil
}
