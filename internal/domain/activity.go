package domain

import (
	"strings"
	"time"
)

// WorkoutType identifies the discipline of a workout or log entry.
type WorkoutType string

const (
	WorkoutRun      WorkoutType = "run"
	WorkoutBike     WorkoutType = "bike"
	WorkoutSwim     WorkoutType = "swim"
	WorkoutStrength WorkoutType = "strength"
	WorkoutOther    WorkoutType = "other"
)

// ScheduledActivity is the shared capability of anything that occupies a day:
// a completed log from the athlete's history or a planned ("ghost") workout
// produced mid-generation. The rules engine and history merging operate only
// against this interface, never against the concrete types.
type ScheduledActivity interface {
	// ActivityDate is the calendar day the activity occupies (time-of-day is ignored).
	ActivityDate() time.Time
	// ActivityType is the discipline.
	ActivityType() WorkoutType
	// TrainingStress is the TSS attributed to the activity (planned or computed).
	TrainingStress() int
	// IntensityZone is the inferred effort zone in [1,5].
	IntensityZone() int
	// RunDistanceKm is the run distance in kilometers, 0 for non-runs or unknown.
	RunDistanceKm() float64
	// CommuteRun reports whether the activity is flagged as a commute run.
	CommuteRun() bool
}

// --- Zone inference helpers shared by both concrete activity types ---

// zoneFromDistribution computes the seconds-weighted average zone index from a
// per-zone seconds slice (index 0 = Zone 1). Returns false when the
// distribution is empty or all-zero.
func zoneFromDistribution(zoneSeconds []int) (int, bool) {
	total := 0
	weighted := 0
	for i, secs := range zoneSeconds {
		if secs <= 0 {
			continue
		}
		total += secs
		weighted += (i + 1) * secs
	}
	if total == 0 {
		return 0, false
	}
	zone := (weighted + total/2) / total // rounded integer division
	if zone < 1 {
		zone = 1
	}
	if zone > 5 {
		zone = 5
	}
	return zone, true
}

// zoneFromTSS maps a TSS value onto banded zones as a last-resort estimate.
func zoneFromTSS(tss int) int {
	switch {
	case tss < 30:
		return 1
	case tss < 60:
		return 2
	case tss < 90:
		return 3
	case tss < 120:
		return 4
	default:
		return 5
	}
}

// zoneFromSubType matches planned-workout sub-type keywords to a target zone.
// Returns false when no keyword matches.
func zoneFromSubType(subType string) (int, bool) {
	s := strings.ToLower(subType)
	if s == "" {
		return 0, false
	}
	switch {
	case strings.Contains(s, "tempo"), strings.Contains(s, "threshold"):
		return 3, true
	case strings.Contains(s, "interval"), strings.Contains(s, "vo2"), strings.Contains(s, "sprint"):
		return 4, true
	case strings.Contains(s, "easy"), strings.Contains(s, "recovery"), strings.Contains(s, "zone1"):
		return 1, true
	case strings.Contains(s, "long"), strings.Contains(s, "endurance"):
		return 2, true
	}
	return 0, false
}

// SameDay reports whether two timestamps fall on the same calendar date (UTC).
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// DayOf truncates a timestamp to midnight UTC so dates compare cleanly.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
