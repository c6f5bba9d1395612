package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"ironcoach/tri-planner/internal/domain"
	"ironcoach/tri-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const WellnessCollection = "wellness_entries"

// mongoWellnessRepository implements repository.WellnessRepository.
type mongoWellnessRepository struct {
	collection *mongo.Collection
}

// NewMongoWellnessRepository creates a new wellness repository.
func NewMongoWellnessRepository(db *mongo.Database) repository.WellnessRepository {
	return &mongoWellnessRepository{
		collection: db.Collection(WellnessCollection),
	}
}

// GetByDate retrieves the entry for one calendar day.
func (r *mongoWellnessRepository) GetByDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.WellnessEntry, error) {
	day := domain.DayOf(date)
	var entry domain.WellnessEntry
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)},
	}

	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetByDateRange retrieves entries with start <= date < end, oldest first.
func (r *mongoWellnessRepository) GetByDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.WellnessEntry, error) {
	var entries []domain.WellnessEntry
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": start, "$lt": end},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Upsert creates or replaces the entry for the day. One entry per date.
func (r *mongoWellnessRepository) Upsert(ctx context.Context, entry *domain.WellnessEntry) error {
	if entry.UserID == primitive.NilObjectID {
		return errors.New("wellness entry requires a userId")
	}

	entry.Date = domain.DayOf(entry.Date)
	now := time.Now().UTC()
	entry.UpdatedAt = now
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}

	filter := bson.M{"userId": entry.UserID, "date": entry.Date}
	update := bson.M{"$set": entry}
	opts := options.Update().SetUpsert(true)

	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}

// EnsureWellnessIndexes creates necessary indexes. Call during startup.
func EnsureWellnessIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create wellness indexes: %v", err)
	}
}
