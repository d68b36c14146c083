package repository

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/entity"
)

// FlightCache keeps read-only copies of backend search results
type FlightCache interface {
	Get(ctx context.Context, key string) ([]entity.FlightRecord, bool)
	Set(ctx context.Context, key string, flights []entity.FlightRecord, ttl time.Duration)
}
