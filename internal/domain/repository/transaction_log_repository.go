package repository

import (
	"context"

	"flightwatch-service/internal/domain/entity"
)

// TransactionLogRepository stores oracle transaction records
type TransactionLogRepository interface {
	Save(ctx context.Context, log *entity.TransactionLog) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.TransactionLog, error)
}
