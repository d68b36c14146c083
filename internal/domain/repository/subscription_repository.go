package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// SubscriptionRepository is the local mirror of a user's subscriptions
type SubscriptionRepository interface {
	// Activate creates the subscription or reactivates an inactive one.
	Activate(ctx context.Context, userID string, flight entity.FlightRecord, txHash string) (*entity.SubscriptionRecord, error)
	// Deactivate flags the subscriptions for the given flight keys inactive.
	Deactivate(ctx context.Context, userID string, flightKeys []string) (int64, error)
	ListActive(ctx context.Context, userID string) ([]*entity.SubscriptionRecord, error)
	ActiveKeys(ctx context.Context, userID string) (map[string]bool, error)
}
