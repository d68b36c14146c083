package entity

import "time"

// Transaction statuses
const (
	TxStatusSubmitted = "submitted"
	TxStatusFailed    = "failed"
)

// Transaction types
const (
	TxTypeSubscribe   = "subscribe"
	TxTypeUnsubscribe = "unsubscribe"
)

// TransactionLog records one call to the oracle contract.
type TransactionLog struct {
	ID            string                 `json:"id" bson:"_id,omitempty"`
	UserID        string                 `json:"userId" bson:"userId"`
	Hash          string                 `json:"hash" bson:"hash"`
	Status        string                 `json:"status" bson:"status"`
	Type          string                 `json:"type" bson:"type"`
	Timestamp     time.Time              `json:"timestamp" bson:"timestamp"`
	FlightNumber  string                 `json:"flightNumber" bson:"flightNumber"`
	UpdatedFields map[string]interface{} `json:"updatedFields,omitempty" bson:"updatedFields,omitempty"`
	Error         string                 `json:"error,omitempty" bson:"error,omitempty"`
}
