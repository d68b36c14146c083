package entity

import "time"

// SubscriptionRecord pairs a flight with a user's standing request for updates.
// Unsubscribing flags the record inactive rather than deleting it.
type SubscriptionRecord struct {
	ID        string       `json:"id" bson:"_id,omitempty"`
	UserID    string       `json:"userId" bson:"userId"`
	FlightKey string       `json:"flightKey" bson:"flightKey"`
	Flight    FlightRecord `json:"flight" bson:"flight"`
	Active    bool         `json:"active" bson:"active"`
	TxHash    string       `json:"txHash,omitempty" bson:"txHash,omitempty"`
	CreatedAt time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt" bson:"updatedAt"`
}
