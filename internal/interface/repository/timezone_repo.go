package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormTimezoneRepository implements the TimezoneRepository interface.
// Hits are memoized for the life of the process.
type GormTimezoneRepository struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]*entity.Timezone
}

// NewGormTimezoneRepository creates a new GORM timezone repository
func NewGormTimezoneRepository(db *gorm.DB) repository.TimezoneRepository {
	return &GormTimezoneRepository{
		db:    db,
		cache: make(map[string]*entity.Timezone),
	}
}

// AirportTimezoneModel is the GORM model for airport timezone rows
type AirportTimezoneModel struct {
	ID          uint   `gorm:"primaryKey"`
	AirportCode string `gorm:"column:airport_code;size:3;uniqueIndex"`
	AirportName string `gorm:"column:airport_name"`
	CityName    string `gorm:"column:city_name"`
	TzName      string `gorm:"column:tz_name"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (AirportTimezoneModel) TableName() string {
	return "ref_airport_timezones"
}

// GetByAirportCode finds the timezone of an airport
func (r *GormTimezoneRepository) GetByAirportCode(ctx context.Context, code string) (*entity.Timezone, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	r.mu.RLock()
	cached, ok := r.cache[code]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var row AirportTimezoneModel
	result := r.db.WithContext(ctx).Where("airport_code = ?", code).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("timezone for %s: %w", code, entity.ErrNotFound)
		}
		return nil, result.Error
	}

	tz := &entity.Timezone{
		ID:          row.ID,
		AirportCode: row.AirportCode,
		AirportName: row.AirportName,
		CityName:    row.CityName,
		TzName:      row.TzName,
	}
	r.mu.Lock()
	r.cache[code] = tz
	r.mu.Unlock()
	return tz, nil
}
