package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletedLog is an executed workout from the athlete's history. Logs are
// read-only input to the planner: they are written by the import layer and
// never created or mutated by the generation engine.
type CompletedLog struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Date            time.Time          `bson:"date" json:"date"`
	WorkoutType     WorkoutType        `bson:"workoutType" json:"workoutType"`
	DurationMinutes int                `bson:"durationMinutes" json:"durationMinutes"`
	ComputedTSS     *int               `bson:"computedTss,omitempty" json:"computedTss,omitempty"`
	AvgHeartRate    *int               `bson:"avgHeartRate,omitempty" json:"avgHeartRate,omitempty"`
	AvgPower        *int               `bson:"avgPower,omitempty" json:"avgPower,omitempty"`
	DistanceMeters  *float64           `bson:"distanceMeters,omitempty" json:"distanceMeters,omitempty"`
	// Seconds spent in each zone, index 0 = Zone 1. Populated by the import
	// layer when the source file carries the data.
	HRZoneSeconds    []int     `bson:"hrZoneSeconds,omitempty" json:"hrZoneSeconds,omitempty"`
	PowerZoneSeconds []int     `bson:"powerZoneSeconds,omitempty" json:"powerZoneSeconds,omitempty"`
	IsCommute        bool      `bson:"isCommute,omitempty" json:"isCommute,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

// ActivityDate implements ScheduledActivity.
func (l CompletedLog) ActivityDate() time.Time { return DayOf(l.Date) }

// ActivityType implements ScheduledActivity.
func (l CompletedLog) ActivityType() WorkoutType { return l.WorkoutType }

// TrainingStress returns the computed TSS, or a flat 50-per-hour estimate
// when the import produced none.
func (l CompletedLog) TrainingStress() int {
	if l.ComputedTSS != nil {
		return *l.ComputedTSS
	}
	return l.DurationMinutes * 50 / 60
}

// IntensityZone infers effort from recorded zone distributions (heart rate
// preferred, then power), falling back to TSS bands.
func (l CompletedLog) IntensityZone() int {
	if z, ok := zoneFromDistribution(l.HRZoneSeconds); ok {
		return z
	}
	if z, ok := zoneFromDistribution(l.PowerZoneSeconds); ok {
		return z
	}
	return zoneFromTSS(l.TrainingStress())
}

// RunDistanceKm implements ScheduledActivity.
func (l CompletedLog) RunDistanceKm() float64 {
	if l.WorkoutType != WorkoutRun || l.DistanceMeters == nil {
		return 0
	}
	return *l.DistanceMeters / 1000.0
}

// CommuteRun implements ScheduledActivity.
func (l CompletedLog) CommuteRun() bool { return l.IsCommute }
