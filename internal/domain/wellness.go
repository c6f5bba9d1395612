package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AllergySeverity grades the athlete's self-reported allergy state for a day.
type AllergySeverity string

const (
	AllergyNone     AllergySeverity = "none"
	AllergyMild     AllergySeverity = "mild"
	AllergyModerate AllergySeverity = "moderate"
	AllergySevere   AllergySeverity = "severe"
)

// WellnessEntry is the athlete's daily subjective and recovery data. One
// entry per date; feeds the readiness score and the wellness-aware
// validation path.
type WellnessEntry struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Date            time.Time          `bson:"date" json:"date"`
	SleepHours      float64            `bson:"sleepHours,omitempty" json:"sleepHours,omitempty"`
	SleepQuality    int                `bson:"sleepQuality,omitempty" json:"sleepQuality,omitempty"` // 1 (poor) .. 5 (excellent)
	Soreness        int                `bson:"soreness,omitempty" json:"soreness,omitempty"`         // 1 (none) .. 5 (severe)
	RestingHR       int                `bson:"restingHr,omitempty" json:"restingHr,omitempty"`
	AllergySeverity AllergySeverity    `bson:"allergySeverity,omitempty" json:"allergySeverity,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
