package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirlineRepository implements the AirlineRepository interface
type GormAirlineRepository struct {
	db *gorm.DB
}

// NewGormAirlineRepository creates a new GORM airline repository
func NewGormAirlineRepository(db *gorm.DB) repository.AirlineRepository {
	return &GormAirlineRepository{
		db: db,
	}
}

// AirlineModel is the GORM model for carrier reference rows
type AirlineModel struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"column:code;size:2;uniqueIndex"`
	Name      string `gorm:"column:name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (AirlineModel) TableName() string {
	return "ref_airlines"
}

// GetByCode finds an airline by its 2 character carrier code
func (r *GormAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	var airline AirlineModel
	result := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&airline)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("airline %s: %w", code, entity.ErrNotFound)
		}
		return nil, result.Error
	}

	return &entity.Airline{
		ID:   airline.ID,
		Code: airline.Code,
		Name: airline.Name,
	}, nil
}

// MigrateReferenceData creates the airline and airport timezone tables
func MigrateReferenceData(db *gorm.DB) error {
	return db.AutoMigrate(&AirlineModel{}, &AirportTimezoneModel{})
}
