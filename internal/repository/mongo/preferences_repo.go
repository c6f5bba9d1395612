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

const PreferencesCollection = "planner_preferences"

// mongoPreferencesRepository implements repository.PreferencesRepository.
type mongoPreferencesRepository struct {
	collection *mongo.Collection
}

// NewMongoPreferencesRepository creates a new preferences repository.
func NewMongoPreferencesRepository(db *mongo.Database) repository.PreferencesRepository {
	return &mongoPreferencesRepository{
		collection: db.Collection(PreferencesCollection),
	}
}

// GetByUserID retrieves the athlete's preference document.
func (r *mongoPreferencesRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.PlannerPreferences, error) {
	var prefs domain.PlannerPreferences
	filter := bson.M{"userId": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&prefs)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &prefs, nil
}

// Upsert creates or replaces the athlete's preferences. One document per user.
func (r *mongoPreferencesRepository) Upsert(ctx context.Context, prefs *domain.PlannerPreferences) error {
	if prefs.UserID == primitive.NilObjectID {
		return errors.New("preferences require a userId")
	}

	prefs.UpdatedAt = time.Now().UTC()

	filter := bson.M{"userId": prefs.UserID}
	update := bson.M{"$set": prefs}
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

// EnsurePreferencesIndexes creates necessary indexes. Call during startup.
func EnsurePreferencesIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create preferences indexes: %v", err)
	}
}
