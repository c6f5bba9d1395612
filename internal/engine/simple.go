package engine

import (
	"sort"

	"ironcoach/tri-planner/internal/domain"
)

// SimpleStrategy is the older template-free scheduler kept behind the same
// WeekStrategy interface. It knows nothing about anchors or per-discipline
// budgets: it rotates through Bike -> Run -> Swim on whatever days allow the
// discipline until the weekly target is spent. Retained for athletes who
// have not set up a weekly template.
type SimpleStrategy struct{}

var simpleRotation = []domain.WorkoutType{domain.WorkoutBike, domain.WorkoutRun, domain.WorkoutSwim}

// PlanWeek distributes the weekly target across available days with
// standard-size sessions, still validating every candidate through the rules
// engine.
func (SimpleStrategy) PlanWeek(req WeekRequest) ([]domain.PlannedWorkout, []domain.CoachWarning) {
	var placed []domain.PlannedWorkout
	var warnings []domain.CoachWarning
	remaining := req.TargetTSS
	rotation := 0

	for offset := 0; offset < 7 && remaining > 0; offset++ {
		day := domain.DayOf(req.Start).AddDate(0, 0, offset)

		// Try each discipline once per day, starting where the rotation
		// left off, so weeks come out mixed rather than front-loaded.
		for attempt := 0; attempt < len(simpleRotation); attempt++ {
			discipline := simpleRotation[(rotation+attempt)%len(simpleRotation)]
			if !req.Profile.AvailableOn(day.Weekday(), discipline) {
				continue
			}
			candidate := buildFillerWorkout(discipline, day, req.Profile)

			verdict := ValidatePlacement(candidate, mergeHistory(req.History, placed), req.Rules)
			warnings = append(warnings, advisories(verdict)...)
			if domain.HasBlocker(verdict) {
				continue
			}

			placed = append(placed, candidate)
			remaining -= candidate.PlannedTSS
			rotation++
			break
		}
	}

	sort.Slice(placed, func(i, j int) bool { return placed[i].Date.Before(placed[j].Date) })
	return placed, warnings
}
