package entity

// Timezone maps an airport to its IANA zone.
type Timezone struct {
	ID          uint
	AirportCode string
	AirportName string
	CityName    string
	TzName      string
}
