package repository

import (
	"context"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTxLogLimit = 50

// MongoTransactionLogRepository implements TransactionLogRepository
type MongoTransactionLogRepository struct {
	collection *mongo.Collection
}

// NewMongoTransactionLogRepository creates a new transaction log repository
func NewMongoTransactionLogRepository(db *mongo.Database) repository.TransactionLogRepository {
	collection := db.Collection("tx_logs")

	ctx := context.Background()
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys: bson.M{"hash": 1},
		},
	})

	return &MongoTransactionLogRepository{
		collection: collection,
	}
}

// Save inserts a transaction log entry
func (r *MongoTransactionLogRepository) Save(ctx context.Context, log *entity.TransactionLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, log)
	return err
}

// ListByUser returns the user's latest transaction logs, newest first
func (r *MongoTransactionLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.TransactionLog, error) {
	if limit <= 0 {
		limit = defaultTxLogLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := make([]*entity.TransactionLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
