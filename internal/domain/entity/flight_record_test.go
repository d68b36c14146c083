package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlightRecord_ID(t *testing.T) {
	tests := []struct {
		name string
		in   FlightRecord
		want string
	}{
		{
			name: "scheduled date",
			in:   FlightRecord{CarrierCode: "aa", FlightNumber: "0100", ScheduledDepartureDate: "2024-05-01", DepartureAirport: "jfk"},
			want: "AA-0100-2024-05-01-JFK",
		},
		{
			name: "offset timestamp uses the utc day",
			in:   FlightRecord{CarrierCode: "DL", FlightNumber: "12", ScheduledDepartureUTC: "2025-03-01T23:30:00-05:00", DepartureAirport: "ATL"},
			want: "DL-12-2025-03-02-ATL",
		},
		{
			name: "unparseable value keeps the raw prefix",
			in:   FlightRecord{CarrierCode: "DL", FlightNumber: "12", ScheduledDepartureDate: "2025-03-01 late", DepartureAirport: "ATL"},
			want: "DL-12-2025-03-01-ATL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.ID())
		})
	}
}
