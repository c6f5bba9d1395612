package repository

import (
	"context"
	"time"

	"ironcoach/tri-planner/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for athlete account data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProfileRepository is the planner's profile store: one profile per athlete,
// read as a single snapshot at the top of each planner call.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.AthleteProfile, error)
	Upsert(ctx context.Context, profile *domain.AthleteProfile) error
}

// LogRepository is the planner's completed-workout history store.
type LogRepository interface {
	Create(ctx context.Context, log *domain.CompletedLog) (primitive.ObjectID, error)
	GetByDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.CompletedLog, error)
	// GetRecentDisciplineLoads returns the trailing average weekly TSS per
	// discipline over the four weeks before asOf, feeding the run safety
	// clamp in the budget allocator.
	GetRecentDisciplineLoads(ctx context.Context, userID primitive.ObjectID, asOf time.Time) (map[domain.WorkoutType]int, error)
}

// PlanRepository is the planner's output sink. The engine never persists
// anything itself; the service layer writes generated plans here.
type PlanRepository interface {
	GetByDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.PlannedWorkout, error)
	// ReplaceRange swaps the athlete's plans inside [start, end) for the
	// supplied set.
	ReplaceRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time, plans []domain.PlannedWorkout) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

// PreferencesRepository stores the athlete's planner feature flags.
type PreferencesRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.PlannerPreferences, error)
	Upsert(ctx context.Context, prefs *domain.PlannerPreferences) error
}

// WellnessRepository stores the athlete's daily wellness entries.
type WellnessRepository interface {
	GetByDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.WellnessEntry, error)
	GetByDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.WellnessEntry, error)
	Upsert(ctx context.Context, entry *domain.WellnessEntry) error
}
