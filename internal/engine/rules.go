package engine

import (
	"fmt"
	"time"

	"ironcoach/tri-planner/internal/domain"
)

// RulesConfig is the snapshot of planner preferences the rules engine ("Iron
// Brain") reads once per validation call. It is never re-fetched
// mid-validation.
type RulesConfig struct {
	SmartPlanningEnabled  bool
	AllowConsecutiveRuns  bool
	StrengthSpacingHours  int
	MonitorMechanicalLoad bool
	AllowCommuteExemption bool
}

// RulesConfigFrom builds a RulesConfig from persisted preferences.
func RulesConfigFrom(p domain.PlannerPreferences) RulesConfig {
	return RulesConfig{
		SmartPlanningEnabled:  p.SmartPlanningEnabled,
		AllowConsecutiveRuns:  p.AllowConsecutiveRuns,
		StrengthSpacingHours:  p.StrengthSpacingHours,
		MonitorMechanicalLoad: p.MonitorMechanicalLoad,
		AllowCommuteExemption: p.AllowCommuteExemption,
	}
}

// Mechanical-load monitor tuning.
const (
	mechanicalLoadWindowDays = 14
	mechanicalLoadRampLimit  = 1.15
	sssZoneWeight            = 0.2
)

// ValidatePlacement checks a candidate workout against the athlete's merged
// history (completed logs and already-placed ghost plans alike) and returns
// every warning that applies. Rules are independent: none short-circuits
// another. A disabled engine returns nil for everything.
//
// This is the generator-facing entry point; the same rules apply uniformly
// whether history entries are real or provisional because everything is
// accessed through the ScheduledActivity capability.
func ValidatePlacement(candidate domain.PlannedWorkout, history []domain.ScheduledActivity, cfg RulesConfig) []domain.CoachWarning {
	if !cfg.SmartPlanningEnabled {
		return nil
	}

	var warnings []domain.CoachWarning
	day := candidate.ActivityDate()
	yesterday := day.AddDate(0, 0, -1)

	if w := checkConsecutiveRuns(candidate, activitiesOn(history, yesterday), cfg); w != nil {
		warnings = append(warnings, *w)
	}
	if w := checkStrengthSpacing(candidate, history, cfg); w != nil {
		warnings = append(warnings, *w)
	}
	if w := checkHeavyLegs(candidate, activitiesOn(history, yesterday)); w != nil {
		warnings = append(warnings, *w)
	}
	if cfg.MonitorMechanicalLoad {
		if w := checkMechanicalLoad(candidate, history); w != nil {
			warnings = append(warnings, *w)
		}
	}
	return warnings
}

// CheckDayWithWellness runs the placement rules plus the wellness-aware
// severe-allergy protocol. The generator path never calls this: generation
// has no wellness context, so the allergy rule only guards manually
// scheduled or logged days.
func CheckDayWithWellness(candidate domain.PlannedWorkout, history []domain.ScheduledActivity, wellness *domain.WellnessEntry, cfg RulesConfig) []domain.CoachWarning {
	warnings := ValidatePlacement(candidate, history, cfg)
	if !cfg.SmartPlanningEnabled || wellness == nil {
		return warnings
	}
	if wellness.AllergySeverity == domain.AllergySevere &&
		(candidate.WorkoutType == domain.WorkoutStrength || candidate.IntensityZone() > 1) {
		warnings = append(warnings, domain.CoachWarning{
			Kind:      domain.WarningInjuryRisk,
			Title:     "Severe Allergy Protocol",
			Message:   "Allergy severity is severe today. Only Zone 1 active recovery is permitted.",
			IsBlocker: true,
		})
	}
	return warnings
}

func checkConsecutiveRuns(candidate domain.PlannedWorkout, yesterday []domain.ScheduledActivity, cfg RulesConfig) *domain.CoachWarning {
	if candidate.WorkoutType != domain.WorkoutRun || cfg.AllowConsecutiveRuns {
		return nil
	}
	ranYesterday := false
	for _, a := range yesterday {
		if a.ActivityType() == domain.WorkoutRun {
			ranYesterday = true
			break
		}
	}
	if !ranYesterday {
		return nil
	}
	if cfg.AllowCommuteExemption && candidate.CommuteRun() {
		return nil
	}
	return &domain.CoachWarning{
		Kind:      domain.WarningRuleViolation,
		Title:     "Consecutive Runs Blocked",
		Message:   "You ran yesterday. Back-to-back run days are disabled to protect your legs.",
		IsBlocker: true,
	}
}

func checkStrengthSpacing(candidate domain.PlannedWorkout, history []domain.ScheduledActivity, cfg RulesConfig) *domain.CoachWarning {
	if candidate.WorkoutType != domain.WorkoutStrength || cfg.StrengthSpacingHours <= 0 {
		return nil
	}
	last, ok := lastStrengthDate(history, candidate.ActivityDate())
	if !ok {
		return nil
	}
	hoursSince := candidate.ActivityDate().Sub(last).Hours()
	if hoursSince >= float64(cfg.StrengthSpacingHours) {
		return nil
	}
	return &domain.CoachWarning{
		Kind:      domain.WarningRuleViolation,
		Title:     "Strength Spacing",
		Message:   fmt.Sprintf("Last strength session was %.0f hours ago. Minimum spacing is %d hours.", hoursSince, cfg.StrengthSpacingHours),
		IsBlocker: true,
	}
}

func checkHeavyLegs(candidate domain.PlannedWorkout, yesterday []domain.ScheduledActivity) *domain.CoachWarning {
	liftedYesterday := false
	for _, a := range yesterday {
		if a.ActivityType() == domain.WorkoutStrength {
			liftedYesterday = true
			break
		}
	}
	if !liftedYesterday {
		return nil
	}
	if candidate.WorkoutType == domain.WorkoutSwim || candidate.IntensityZone() <= 1 {
		return nil
	}
	return &domain.CoachWarning{
		Kind:      domain.WarningRecoveryAdvice,
		Title:     "Heavy Legs Expected",
		Message:   "Yesterday was a strength day. Consider a swim or a Zone 1 recovery session instead of intensity.",
		IsBlocker: false,
	}
}

// checkMechanicalLoad compares the summed Structural Stress Score of the
// most-recent 7 run days (candidate included when it is a run) against the
// prior 7 days. Needs the run history to reach back at least 14 days before
// the candidate; otherwise there is no baseline to compare.
func checkMechanicalLoad(candidate domain.PlannedWorkout, history []domain.ScheduledActivity) *domain.CoachWarning {
	day := candidate.ActivityDate()

	oldestRun, found := time.Time{}, false
	for _, a := range history {
		if a.ActivityType() != domain.WorkoutRun {
			continue
		}
		if !found || a.ActivityDate().Before(oldestRun) {
			oldestRun = a.ActivityDate()
			found = true
		}
	}
	if !found || oldestRun.After(day.AddDate(0, 0, -mechanicalLoadWindowDays)) {
		return nil
	}

	currentWeekSSS := runSSSInWindow(history, day.AddDate(0, 0, -7), day)
	if candidate.WorkoutType == domain.WorkoutRun {
		currentWeekSSS += structuralStress(candidate.RunDistanceKm(), candidate.IntensityZone())
	}
	previousWeekSSS := runSSSInWindow(history, day.AddDate(0, 0, -14), day.AddDate(0, 0, -7))

	if previousWeekSSS <= 0 || currentWeekSSS <= previousWeekSSS*mechanicalLoadRampLimit {
		return nil
	}
	return &domain.CoachWarning{
		Kind:      domain.WarningInjuryRisk,
		Title:     "Mechanical Load Increase",
		Message:   fmt.Sprintf("Run impact load is up %.0f%% on last week. Keep weekly growth under 15%% to reduce injury risk.", (currentWeekSSS/previousWeekSSS-1)*100),
		IsBlocker: false,
	}
}

// structuralStress is the distance- and intensity-weighted impact measure for
// a single run: km * (1 + zone * 0.2).
func structuralStress(distanceKm float64, avgZone int) float64 {
	return distanceKm * (1.0 + float64(avgZone)*sssZoneWeight)
}

// runSSSInWindow sums SSS for runs with from <= date < to.
func runSSSInWindow(history []domain.ScheduledActivity, from, to time.Time) float64 {
	sum := 0.0
	for _, a := range history {
		if a.ActivityType() != domain.WorkoutRun {
			continue
		}
		d := a.ActivityDate()
		if d.Before(from) || !d.Before(to) {
			continue
		}
		sum += structuralStress(a.RunDistanceKm(), a.IntensityZone())
	}
	return sum
}

func activitiesOn(history []domain.ScheduledActivity, day time.Time) []domain.ScheduledActivity {
	var out []domain.ScheduledActivity
	for _, a := range history {
		if domain.SameDay(a.ActivityDate(), day) {
			out = append(out, a)
		}
	}
	return out
}

func lastStrengthDate(history []domain.ScheduledActivity, before time.Time) (time.Time, bool) {
	var last time.Time
	found := false
	for _, a := range history {
		if a.ActivityType() != domain.WorkoutStrength {
			continue
		}
		d := a.ActivityDate()
		if !d.Before(before) {
			continue
		}
		if !found || d.After(last) {
			last = d
			found = true
		}
	}
	return last, found
}

// ComputeReadiness folds the day's recovery signals into a 0-100 score.
// 100 means fully recovered; the host UI bands it however it likes.
func ComputeReadiness(wellness *domain.WellnessEntry, metrics domain.PerformanceMetrics, restingHRBaseline int) int {
	score := 100.0

	if wellness != nil {
		if wellness.SleepQuality > 0 {
			score += float64(wellness.SleepQuality-3) * 8.0
		}
		if wellness.Soreness > 1 {
			score -= float64(wellness.Soreness-1) * 7.0
		}
		if wellness.RestingHR > 0 && restingHRBaseline > 0 && wellness.RestingHR > restingHRBaseline {
			elevation := float64(wellness.RestingHR - restingHRBaseline)
			if elevation > 10 {
				elevation = 10
			}
			score -= elevation * 2.0
		}
		switch wellness.AllergySeverity {
		case domain.AllergyMild:
			score -= 5
		case domain.AllergyModerate:
			score -= 12
		case domain.AllergySevere:
			score -= 25
		}
	}

	// Deep negative form drags readiness down regardless of subjective input.
	switch {
	case metrics.TSB < -20:
		score -= 15
	case metrics.TSB < -10:
		score -= 8
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}
