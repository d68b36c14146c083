package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// AirlineRepository resolves carrier codes to airline reference data
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
}
