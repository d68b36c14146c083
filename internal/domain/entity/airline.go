package entity

// Airline is carrier reference data used to label flights.
type Airline struct {
	ID   uint
	Code string
	Name string
}
