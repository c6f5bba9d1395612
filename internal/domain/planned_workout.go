package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlannedWorkout is a single scheduled session in a generated season plan.
// During generation these are ephemeral "ghost" entries owned by the
// scheduler; once returned they are immutable and the plan repository
// persists them.
type PlannedWorkout struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Date            time.Time          `bson:"date" json:"date"`
	WorkoutType     WorkoutType        `bson:"workoutType" json:"workoutType"`
	SubType         string             `bson:"subType,omitempty" json:"subType,omitempty"` // e.g., "long", "tempo", "easy"
	DurationMinutes int                `bson:"durationMinutes" json:"durationMinutes"`
	PlannedTSS      int                `bson:"plannedTss" json:"plannedTss"`
	StrengthFocus   string             `bson:"strengthFocus,omitempty" json:"strengthFocus,omitempty"`
	Intensity       string             `bson:"intensity,omitempty" json:"intensity,omitempty"`
	IsCommute       bool               `bson:"isCommute,omitempty" json:"isCommute,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ActivityDate implements ScheduledActivity.
func (p PlannedWorkout) ActivityDate() time.Time { return DayOf(p.Date) }

// ActivityType implements ScheduledActivity.
func (p PlannedWorkout) ActivityType() WorkoutType { return p.WorkoutType }

// TrainingStress implements ScheduledActivity.
func (p PlannedWorkout) TrainingStress() int { return p.PlannedTSS }

// IntensityZone infers the planned effort: sub-type keywords first (the plan
// states its own intent), TSS bands as fallback.
func (p PlannedWorkout) IntensityZone() int {
	if z, ok := zoneFromSubType(p.SubType); ok {
		return z
	}
	return zoneFromTSS(p.PlannedTSS)
}

// RunDistanceKm estimates distance for a planned run from its duration at an
// easy-run pace of 10 km/h. Non-runs report 0.
func (p PlannedWorkout) RunDistanceKm() float64 {
	if p.WorkoutType != WorkoutRun {
		return 0
	}
	return float64(p.DurationMinutes) / 60.0 * 10.0
}

// CommuteRun implements ScheduledActivity.
func (p PlannedWorkout) CommuteRun() bool { return p.IsCommute }
