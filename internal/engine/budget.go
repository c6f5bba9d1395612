package engine

import (
	"ironcoach/tri-planner/internal/domain"
)

const (
	// Fixed TSS cost charged per weekly strength session before the cardio
	// split happens.
	strengthSessionTSS = 50

	// Run safety clamp: next week's run budget may exceed the recent average
	// by 15% plus a small absolute allowance.
	runRampFactor    = 1.15
	runRampAllowance = 15
)

// CalculateDisciplineBudget splits a weekly TSS target into per-discipline
// sub-budgets. Strength is costed first at a flat rate per session; the
// remaining cardio budget is split by the balance percentages; finally the
// run budget is clamped against the athlete's recent run load, with overflow
// moved onto the bike (the lower-impact discipline absorbs excess).
//
// Pure and order-independent: identical inputs always return identical
// output.
func CalculateDisciplineBudget(totalTargetTSS int, balance domain.TrainingBalance, strengthSessions int, recentLoads map[domain.WorkoutType]int) domain.DisciplineBudget {
	strengthCost := strengthSessions * strengthSessionTSS
	cardioBudget := totalTargetTSS - strengthCost
	if cardioBudget < 0 {
		cardioBudget = 0
	}

	swim := cardioBudget * balance.SwimPercent / 100
	bike := cardioBudget * balance.BikePercent / 100
	run := cardioBudget * balance.RunPercent / 100

	// Clamp only when we actually know the recent run load; without history
	// there is nothing meaningful to ramp from.
	if recentRunAvg, ok := recentLoads[domain.WorkoutRun]; ok && recentRunAvg > 0 {
		maxSafeRun := round(float64(recentRunAvg)*runRampFactor) + runRampAllowance
		if run > maxSafeRun {
			bike += run - maxSafeRun
			run = maxSafeRun
		}
	}

	return domain.DisciplineBudget{
		SwimTSS:     swim,
		BikeTSS:     bike,
		RunTSS:      run,
		StrengthTSS: strengthCost,
		TotalTSS:    swim + bike + run + strengthCost,
	}
}
