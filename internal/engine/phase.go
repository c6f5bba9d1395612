package engine

import (
	"time"

	"ironcoach/tri-planner/internal/domain"
)

// Week-count thresholds for classifying the run-up to the goal race.
const (
	taperWeeks = 3
	peakWeeks  = 9
	buildWeeks = 21

	// Past the goal, up to this many weeks counts as Transition.
	transitionWeeks = 4

	// More than this many whole months out overrides everything to OffSeason.
	offSeasonMonths = 6
)

// CalculatePhase maps (today, goal date) to the periodization phase. Total
// and side-effect free: no goal date means Base, and dates after the goal
// fall into Transition then back to Base.
func CalculatePhase(today time.Time, goalDate *time.Time) domain.TrainingPhase {
	if goalDate == nil {
		return domain.PhaseBase
	}
	today = domain.DayOf(today)
	goal := domain.DayOf(*goalDate)

	if today.After(goal) {
		weeksPast := int(today.Sub(goal).Hours() / 24 / 7)
		if weeksPast <= transitionWeeks {
			return domain.PhaseTransition
		}
		return domain.PhaseBase
	}

	if wholeMonthsBetween(today, goal) > offSeasonMonths {
		return domain.PhaseOffSeason
	}

	weeksLeft := int(goal.Sub(today).Hours() / 24 / 7)
	switch {
	case weeksLeft <= taperWeeks:
		return domain.PhaseTaper
	case weeksLeft <= peakWeeks:
		return domain.PhasePeak
	case weeksLeft <= buildWeeks:
		return domain.PhaseBuild
	default:
		return domain.PhaseBase
	}
}

// wholeMonthsBetween counts how many whole calendar months fit between from
// and to (from <= to).
func wholeMonthsBetween(from, to time.Time) int {
	months := 0
	cursor := from.AddDate(0, 1, 0)
	for !cursor.After(to) {
		months++
		cursor = cursor.AddDate(0, 1, 0)
	}
	return months
}
