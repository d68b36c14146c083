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

// MongoSubscriptionRepository implements SubscriptionRepository
type MongoSubscriptionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new subscription repository
func NewMongoSubscriptionRepository(db *mongo.Database) repository.SubscriptionRepository {
	collection := db.Collection("subscriptions")

	ctx := context.Background()

	// One subscription per user and flight occurrence
	uniqueIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "flightKey", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	// Listing a user's active subscriptions
	activeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "active", Value: 1},
			{Key: "updatedAt", Value: -1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{uniqueIndex, activeIndex})

	return &MongoSubscriptionRepository{
		collection: collection,
	}
}

// Activate creates the subscription or reactivates an inactive one
func (r *MongoSubscriptionRepository) Activate(ctx context.Context, userID string, flight entity.FlightRecord, txHash string) (*entity.SubscriptionRecord, error) {
	now := time.Now().UTC()
	key := flight.ID()

	flight.IsSubscribed = true
	set := bson.M{
		"flight":    flight,
		"active":    true,
		"updatedAt": now,
	}
	if txHash != "" {
		set["txHash"] = txHash
	}

	filter := bson.M{"userId": userID, "flightKey": key}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":       uuid.NewString(),
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var record entity.SubscriptionRecord
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Deactivate flags the given subscriptions inactive and returns how many changed
func (r *MongoSubscriptionRepository) Deactivate(ctx context.Context, userID string, flightKeys []string) (int64, error) {
	if len(flightKeys) == 0 {
		return 0, nil
	}
	result, err := r.collection.UpdateMany(
		ctx,
		bson.M{"userId": userID, "flightKey": bson.M{"$in": flightKeys}, "active": true},
		bson.M{"$set": bson.M{
			"active":              false,
			"flight.isSubscribed": false,
			"updatedAt":           time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// ListActive returns the user's active subscriptions, most recent first
func (r *MongoSubscriptionRepository) ListActive(ctx context.Context, userID string) ([]*entity.SubscriptionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*entity.SubscriptionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ActiveKeys returns the flight keys of the user's active subscriptions
func (r *MongoSubscriptionRepository) ActiveKeys(ctx context.Context, userID string) (map[string]bool, error) {
	opts := options.Find().SetProjection(bson.M{"flightKey": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	keys := make(map[string]bool)
	for cursor.Next(ctx) {
		var row struct {
			FlightKey string `bson:"flightKey"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		keys[row.FlightKey] = true
	}
	return keys, cursor.Err()
}
