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

const LogCollection = "completed_logs"

// Trailing window for the per-discipline load average.
const recentLoadWeeks = 4

// mongoLogRepository implements repository.LogRepository.
type mongoLogRepository struct {
	collection *mongo.Collection
}

// NewMongoLogRepository creates a new completed-log repository.
func NewMongoLogRepository(db *mongo.Database) repository.LogRepository {
	return &mongoLogRepository{
		collection: db.Collection(LogCollection),
	}
}

// Create inserts a completed log entry.
func (r *mongoLogRepository) Create(ctx context.Context, log *domain.CompletedLog) (primitive.ObjectID, error) {
	if log.UserID == primitive.NilObjectID || log.WorkoutType == "" || log.DurationMinutes <= 0 {
		return primitive.NilObjectID, errors.New("log requires userId, workoutType and a positive duration")
	}

	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted log ID")
	}
	return insertedID, nil
}

// GetByDateRange retrieves logs with start <= date < end, oldest first.
func (r *mongoLogRepository) GetByDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.CompletedLog, error) {
	var logs []domain.CompletedLog
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

	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// GetRecentDisciplineLoads aggregates the trailing four weeks of logs into an
// average weekly TSS per discipline.
func (r *mongoLogRepository) GetRecentDisciplineLoads(ctx context.Context, userID primitive.ObjectID, asOf time.Time) (map[domain.WorkoutType]int, error) {
	windowStart := asOf.AddDate(0, 0, -recentLoadWeeks*7)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"userId": userID,
			"date":   bson.M{"$gte": windowStart, "$lt": asOf},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$workoutType",
			"totalTss": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$computedTss", 0}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		WorkoutType domain.WorkoutType `bson:"_id"`
		TotalTSS    int                `bson:"totalTss"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	loads := make(map[domain.WorkoutType]int, len(rows))
	for _, row := range rows {
		loads[row.WorkoutType] = row.TotalTSS / recentLoadWeeks
	}
	return loads, nil
}

// EnsureLogIndexes creates necessary indexes. Call during startup.
func EnsureLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "workoutType", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create completed log indexes: %v", err)
	}
}
