package repository

import (
	"context"
	"time"
)

// SubscriptionChangedEvent is published after a subscribe or unsubscribe succeeds
type SubscriptionChangedEvent struct {
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	FlightKeys []string  `json:"flight_keys"`
	TxHash     string    `json:"tx_hash,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers domain events to the message broker
type EventPublisher interface {
	PublishSubscriptionChanged(ctx context.Context, event SubscriptionChangedEvent) error
}
