package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// TimezoneRepository resolves airports to their IANA timezone
type TimezoneRepository interface {
	GetByAirportCode(ctx context.Context, code string) (*entity.Timezone, error)
}
