package engine

import (
	"fmt"
	"sort"
	"time"

	"ironcoach/tri-planner/internal/domain"
)

// WeekRequest carries everything one week of scheduling needs. History holds
// real logs plus ghost plans from earlier weeks of the same generation pass
// so cross-week rules (consecutive runs, mechanical load) see both.
type WeekRequest struct {
	Start       time.Time // Monday of the week
	TargetTSS   int
	Phase       domain.TrainingPhase
	Profile     *domain.AthleteProfile
	History     []domain.ScheduledActivity
	RecentLoads map[domain.WorkoutType]int
	Rules       RulesConfig
	// AllowMultiplePerDay lets the gap filler stack a second discipline onto
	// an occupied day, mirroring the athlete's preference flag. Never two
	// sessions of the same discipline on one day.
	AllowMultiplePerDay bool
}

// WeekStrategy plans one week of workouts. Implementations never mutate the
// request; returned warnings are advisory context for the caller (skipped
// days, rule advisories), not errors.
type WeekStrategy interface {
	PlanWeek(req WeekRequest) ([]domain.PlannedWorkout, []domain.CoachWarning)
}

// Standard filler/anchor session sizes (minutes).
const (
	anchorRunMinutes      = 45
	anchorBikeMinutes     = 60
	anchorSwimMinutes     = 45
	anchorStrengthMinutes = 60
	fillerRunMinutes      = 40
	fillerBikeMinutes     = 60
	fillerSwimMinutes     = 45

	longRunMinMinutes  = 30
	longRunMaxMinutes  = 240
	longBikeMinMinutes = 30
	longBikeMaxMinutes = 360

	// Weekly-volume thresholds that scale long sessions up or down.
	highVolumeTSS = 400
	lowVolumeTSS  = 200
)

// AnchorStrategy is the canonical scheduler: it pins the athlete's weekly
// anchor template first, then fills the remaining discipline budgets into
// open days. First-fit, no backtracking: once a day is taken or a budget
// adjusted, earlier placements are never revisited.
type AnchorStrategy struct{}

// PlanWeek places anchors Monday through Sunday, charges them against the
// discipline budget, then gap-fills in strict Run -> Bike -> Swim priority.
// Running is filled first because skipping it is the riskiest shortfall;
// swimming last because it is the safest filler.
func (AnchorStrategy) PlanWeek(req WeekRequest) ([]domain.PlannedWorkout, []domain.CoachWarning) {
	budget := CalculateDisciplineBudget(req.TargetTSS, req.Profile.Balance, req.Profile.StrengthSessions, req.RecentLoads)

	var placed []domain.PlannedWorkout
	var warnings []domain.CoachWarning
	consumed := map[domain.WorkoutType]int{}

	// Step 1: anchors, in day order.
	for offset := 0; offset < 7; offset++ {
		day := domain.DayOf(req.Start).AddDate(0, 0, offset)
		anchor := req.Profile.AnchorFor(day.Weekday())
		if anchor == domain.AnchorNone {
			continue
		}
		candidate := buildAnchorWorkout(anchor, day, req)

		if budget.For(candidate.WorkoutType)-consumed[candidate.WorkoutType] <= 0 {
			warnings = append(warnings, domain.CoachWarning{
				Kind:    domain.WarningRuleViolation,
				Title:   "Anchor Skipped",
				Message: fmt.Sprintf("%s anchor on %s skipped: weekly %s budget exhausted.", anchor, day.Format("Mon Jan 2"), candidate.WorkoutType),
			})
			continue
		}

		context := mergeHistory(req.History, placed)
		verdict := ValidatePlacement(candidate, context, req.Rules)
		warnings = append(warnings, advisories(verdict)...)
		if domain.HasBlocker(verdict) {
			warnings = append(warnings, domain.CoachWarning{
				Kind:    domain.WarningRuleViolation,
				Title:   "Anchor Skipped",
				Message: fmt.Sprintf("%s anchor on %s blocked by placement rules.", anchor, day.Format("Mon Jan 2")),
			})
			continue
		}

		placed = append(placed, candidate)
		consumed[candidate.WorkoutType] += candidate.PlannedTSS
	}

	// Step 2: remaining allowance per discipline after anchors.
	remaining := map[domain.WorkoutType]int{
		domain.WorkoutRun:  budget.RunTSS - consumed[domain.WorkoutRun],
		domain.WorkoutBike: budget.BikeTSS - consumed[domain.WorkoutBike],
		domain.WorkoutSwim: budget.SwimTSS - consumed[domain.WorkoutSwim],
	}

	// Step 3: gap filling in fixed priority order.
	for _, discipline := range []domain.WorkoutType{domain.WorkoutRun, domain.WorkoutBike, domain.WorkoutSwim} {
		for offset := 0; offset < 7 && remaining[discipline] > 0; offset++ {
			day := domain.DayOf(req.Start).AddDate(0, 0, offset)
			if req.AllowMultiplePerDay {
				if dayHasDiscipline(placed, day, discipline) {
					continue
				}
			} else if dayOccupied(placed, day) {
				continue
			}
			if !req.Profile.AvailableOn(day.Weekday(), discipline) {
				continue
			}
			candidate := buildFillerWorkout(discipline, day, req.Profile)

			context := mergeHistory(req.History, placed)
			verdict := ValidatePlacement(candidate, context, req.Rules)
			warnings = append(warnings, advisories(verdict)...)
			if domain.HasBlocker(verdict) {
				continue
			}

			placed = append(placed, candidate)
			remaining[discipline] -= candidate.PlannedTSS
		}
	}

	sort.Slice(placed, func(i, j int) bool { return placed[i].Date.Before(placed[j].Date) })
	return placed, warnings
}

// buildAnchorWorkout maps an anchor type to a concrete session for the day.
func buildAnchorWorkout(anchor domain.AnchorType, day time.Time, req WeekRequest) domain.PlannedWorkout {
	switch anchor {
	case domain.AnchorLongRun:
		dur := longSessionMinutes(day, req, true)
		return domain.PlannedWorkout{
			Date:            day,
			WorkoutType:     domain.WorkoutRun,
			SubType:         "long",
			DurationMinutes: dur,
			PlannedTSS:      round(float64(dur) * 1.2),
		}
	case domain.AnchorLongBike:
		dur := longSessionMinutes(day, req, false)
		return domain.PlannedWorkout{
			Date:            day,
			WorkoutType:     domain.WorkoutBike,
			SubType:         "long",
			DurationMinutes: dur,
			PlannedTSS:      round(float64(dur) * 0.8),
		}
	case domain.AnchorStrength:
		return domain.PlannedWorkout{
			Date:            day,
			WorkoutType:     domain.WorkoutStrength,
			DurationMinutes: anchorStrengthMinutes,
			PlannedTSS:      strengthSessionTSS,
			StrengthFocus:   "full_body",
		}
	case domain.AnchorBike:
		return domain.PlannedWorkout{
			Date:            day,
			WorkoutType:     domain.WorkoutBike,
			SubType:         "endurance",
			DurationMinutes: anchorBikeMinutes,
			PlannedTSS:      50,
		}
	case domain.AnchorSwim:
		return domain.PlannedWorkout{
			Date:            day,
			WorkoutType:     domain.WorkoutSwim,
			SubType:         "endurance",
			DurationMinutes: anchorSwimMinutes,
			PlannedTSS:      40,
		}
	default: // AnchorRun
		return domain.PlannedWorkout{
			Date:            day,
			WorkoutType:     domain.WorkoutRun,
			SubType:         "easy",
			DurationMinutes: anchorRunMinutes,
			PlannedTSS:      45,
		}
	}
}

// longSessionMinutes derives the long run/ride duration: preset base, phase
// multiplier, then volume scaling against the week's total target, clamped.
func longSessionMinutes(day time.Time, req WeekRequest, isRun bool) int {
	runBase, bikeBase := req.Profile.Balance.LongSessionBase()
	base := float64(bikeBase)
	if isRun {
		base = float64(runBase)
	}

	switch req.Phase {
	case domain.PhaseTaper:
		base *= 0.6
	case domain.PhaseTransition:
		base *= 0.4
	}

	if req.TargetTSS > highVolumeTSS {
		base *= 1.2
	} else if req.TargetTSS < lowVolumeTSS {
		base *= 0.8
	}

	min, max := longRunMinMinutes, longRunMaxMinutes
	if !isRun {
		min, max = longBikeMinMinutes, longBikeMaxMinutes
	}
	dur := round(base)
	if dur < min {
		dur = min
	}
	if dur > max {
		dur = max
	}
	return dur
}

// buildFillerWorkout creates the standard-size gap-filling session for a
// discipline, costed at the athlete's default TSS accrual rate.
func buildFillerWorkout(discipline domain.WorkoutType, day time.Time, profile *domain.AthleteProfile) domain.PlannedWorkout {
	var minutes, rate int
	switch discipline {
	case domain.WorkoutBike:
		minutes, rate = fillerBikeMinutes, profile.BikeRate()
	case domain.WorkoutSwim:
		minutes, rate = fillerSwimMinutes, profile.SwimRate()
	default:
		minutes, rate = fillerRunMinutes, profile.RunRate()
	}
	return domain.PlannedWorkout{
		Date:            day,
		WorkoutType:     discipline,
		SubType:         "easy",
		DurationMinutes: minutes,
		PlannedTSS:      minutes * rate / 60,
	}
}

func dayOccupied(placed []domain.PlannedWorkout, day time.Time) bool {
	for _, p := range placed {
		if domain.SameDay(p.Date, day) {
			return true
		}
	}
	return false
}

func dayHasDiscipline(placed []domain.PlannedWorkout, day time.Time, discipline domain.WorkoutType) bool {
	for _, p := range placed {
		if p.WorkoutType == discipline && domain.SameDay(p.Date, day) {
			return true
		}
	}
	return false
}

func mergeHistory(history []domain.ScheduledActivity, placed []domain.PlannedWorkout) []domain.ScheduledActivity {
	merged := make([]domain.ScheduledActivity, 0, len(history)+len(placed))
	merged = append(merged, history...)
	for _, p := range placed {
		merged = append(merged, p)
	}
	return merged
}

func advisories(warnings []domain.CoachWarning) []domain.CoachWarning {
	var out []domain.CoachWarning
	for _, w := range warnings {
		if !w.IsBlocker {
			out = append(out, w)
		}
	}
	return out
}
