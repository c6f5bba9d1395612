package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SchedulingStrategyName selects which weekly scheduling strategy the season
// generator uses.
type SchedulingStrategyName string

const (
	// StrategyAnchor is the canonical anchor-template + discipline-budget scheduler.
	StrategyAnchor SchedulingStrategyName = "anchor"
	// StrategySimple is the older template-free rotation scheduler.
	StrategySimple SchedulingStrategyName = "simple"
)

// PlannerPreferences are the athlete's planner feature flags and tunables.
// Read once (snapshotted) at the top of each planner entry point.
type PlannerPreferences struct {
	ID                    primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID                primitive.ObjectID     `bson:"userId" json:"userId"`
	SmartPlanningEnabled  bool                   `bson:"smartPlanningEnabled" json:"smartPlanningEnabled"`
	AllowConsecutiveRuns  bool                   `bson:"allowConsecutiveRuns" json:"allowConsecutiveRuns"`
	StrengthSpacingHours  int                    `bson:"strengthSpacingHours" json:"strengthSpacingHours"`
	MonitorMechanicalLoad bool                   `bson:"monitorMechanicalLoad" json:"monitorMechanicalLoad"`
	AllowCommuteExemption bool                   `bson:"allowCommuteExemption" json:"allowCommuteExemption"`
	AllowMultiplePerDay   bool                   `bson:"allowMultiplePerDay" json:"allowMultiplePerDay"`
	RampRateLimit         int                    `bson:"rampRateLimit" json:"rampRateLimit"` // % weekly load growth
	Strategy              SchedulingStrategyName `bson:"strategy,omitempty" json:"strategy,omitempty"`
	UpdatedAt             time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// DefaultPreferences returns the preferences applied before the athlete has
// saved any.
func DefaultPreferences() PlannerPreferences {
	return PlannerPreferences{
		SmartPlanningEnabled:  true,
		AllowConsecutiveRuns:  false,
		StrengthSpacingHours:  48,
		MonitorMechanicalLoad: true,
		AllowCommuteExemption: false,
		AllowMultiplePerDay:   false,
		RampRateLimit:         5,
		Strategy:              StrategyAnchor,
	}
}
