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

const PlanCollection = "planned_workouts"

// mongoPlanRepository implements repository.PlanRepository.
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new planned-workout repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(PlanCollection),
	}
}

// GetByDateRange retrieves plans with start <= date < end, oldest first.
func (r *mongoPlanRepository) GetByDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.PlannedWorkout, error) {
	var plans []domain.PlannedWorkout
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

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// ReplaceRange deletes the athlete's plans inside [start, end) and inserts
// the supplied set in their place. Regeneration overwrites the old season
// rather than stacking on top of it.
func (r *mongoPlanRepository) ReplaceRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time, plans []domain.PlannedWorkout) error {
	if userID == primitive.NilObjectID {
		return errors.New("plan replacement requires a userId")
	}

	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": start, "$lt": end},
	}
	if _, err := r.collection.DeleteMany(ctx, filter); err != nil {
		return err
	}
	if len(plans) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(plans))
	for i := range plans {
		plans[i].ID = primitive.NewObjectID()
		plans[i].UserID = userID
		plans[i].CreatedAt = now
		plans[i].UpdatedAt = now
		docs = append(docs, plans[i])
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// DeleteByUser removes every plan belonging to the athlete.
func (r *mongoPlanRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return repository.ErrDeleteFailed
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create planned workout indexes: %v", err)
	}
}
