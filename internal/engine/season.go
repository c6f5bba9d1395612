package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ironcoach/tri-planner/internal/domain"
)

// --- Failure taxonomy ---

var (
	// ErrSmartPlanningDisabled is returned when the feature flag is off. Not
	// an error state so much as a deliberate, explained no-op.
	ErrSmartPlanningDisabled = errors.New("smart planning is disabled in preferences")

	// ErrNoPlansGenerated means validation passed but the rules engine
	// blocked every placement attempt across every week. Distinct from a
	// success with zero intent.
	ErrNoPlansGenerated = errors.New("no plans generated: placement rules blocked every candidate")
)

// ProfileValidationError reports why the athlete profile cannot drive a
// season generation. Reason is short and stable; Detail is user-actionable.
type ProfileValidationError struct {
	Reason string
	Detail string
}

func (e *ProfileValidationError) Error() string {
	return fmt.Sprintf("profile validation failed (%s): %s", e.Reason, e.Detail)
}

// Profile validation bounds.
const (
	minGoalLeadWeeks = 2
	maxGoalLeadYears = 2
	maxStartCTL      = 150
)

// Season simulation tuning.
const (
	weeksPerMonth = 4
	minSimCTL     = 20.0
	// Damped weekly CTL update: step a tenth of the way toward the week's
	// implied daily average.
	ctlSimDamping = 0.1
	// Ramp additions never exceed half the base target however generous the
	// configured ramp rate.
	rampHardCap = 0.5
	// Every fourth week is scheduled at reduced load.
	recoveryWeekInterval   = 4
	recoveryWeekMultiplier = 0.8
)

var phaseMultipliers = map[domain.TrainingPhase]float64{
	domain.PhaseBase:       1.0,
	domain.PhaseBuild:      1.05,
	domain.PhasePeak:       1.0,
	domain.PhaseTaper:      0.55,
	domain.PhaseOffSeason:  0.95,
	domain.PhaseTransition: 0.35,
}

// SeasonInput is the full snapshot a season generation runs on. The caller
// (service layer) resolves profile, preferences and history once before
// invoking the generator so the computation is internally consistent even if
// the backing stores change mid-call.
type SeasonInput struct {
	StartDate   time.Time
	CurrentCTL  float64
	Months      int
	Profile     *domain.AthleteProfile
	Preferences domain.PlannerPreferences
	RecentLogs  []domain.CompletedLog
	RecentLoads map[domain.WorkoutType]int
}

// SeasonResult is the generated plan plus the advisory warnings collected
// along the way (skipped anchors, recovery advisories).
type SeasonResult struct {
	Plans    []domain.PlannedWorkout
	Warnings []domain.CoachWarning
}

// Generator orchestrates multi-week season generation over a pluggable
// weekly strategy.
type Generator struct {
	strategy WeekStrategy
}

// NewGenerator builds a Generator for the named strategy, defaulting to the
// anchor-aware scheduler.
func NewGenerator(name domain.SchedulingStrategyName) *Generator {
	if name == domain.StrategySimple {
		return &Generator{strategy: SimpleStrategy{}}
	}
	return &Generator{strategy: AnchorStrategy{}}
}

// GenerateSeason produces months*4 weeks of dated workouts. Deterministic for
// identical input. Cancellation is cooperative and checked at week
// boundaries; a cancelled context aborts with ctx.Err().
func (g *Generator) GenerateSeason(ctx context.Context, in SeasonInput) (*SeasonResult, error) {
	if !in.Preferences.SmartPlanningEnabled {
		return nil, ErrSmartPlanningDisabled
	}
	if err := validateProfile(in.Profile, in.StartDate, in.CurrentCTL); err != nil {
		return nil, err
	}

	rules := RulesConfigFrom(in.Preferences)
	weeks := in.Months * weeksPerMonth
	start := MondayOf(in.StartDate)

	history := make([]domain.ScheduledActivity, 0, len(in.RecentLogs))
	for _, l := range in.RecentLogs {
		history = append(history, l)
	}

	recentLoads := make(map[domain.WorkoutType]int, len(in.RecentLoads))
	for k, v := range in.RecentLoads {
		recentLoads[k] = v
	}

	result := &SeasonResult{}
	simCTL := in.CurrentCTL

	for weekIdx := 0; weekIdx < weeks; weekIdx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		weekStart := start.AddDate(0, 0, weekIdx*7)
		phase := CalculatePhase(weekStart, in.Profile.GoalDate)
		target := weeklyTarget(simCTL, phase, in.Preferences.RampRateLimit, weekIdx%recoveryWeekInterval == 0)

		placed, warnings := g.strategy.PlanWeek(WeekRequest{
			Start:               weekStart,
			TargetTSS:           target,
			Phase:               phase,
			Profile:             in.Profile,
			History:             history,
			RecentLoads:         recentLoads,
			Rules:               rules,
			AllowMultiplePerDay: in.Preferences.AllowMultiplePerDay,
		})
		result.Plans = append(result.Plans, placed...)
		result.Warnings = append(result.Warnings, warnings...)

		// Carry the week forward: ghosts join the validation context and
		// the per-discipline trailing loads track what was actually placed,
		// so the run safety clamp ramps with the plan instead of pinning to
		// the pre-season snapshot.
		weekTSS := 0
		weekByType := map[domain.WorkoutType]int{}
		for _, p := range placed {
			history = append(history, p)
			weekTSS += p.PlannedTSS
			weekByType[p.WorkoutType] += p.PlannedTSS
		}
		for t, tss := range weekByType {
			recentLoads[t] = tss
		}

		simCTL += (float64(weekTSS)/7.0 - simCTL) * ctlSimDamping
	}

	if len(result.Plans) == 0 {
		return nil, ErrNoPlansGenerated
	}
	return result, nil
}

// weeklyTarget derives the week's TSS target from the simulated CTL, the
// ramp-rate governor and the phase multiplier.
func weeklyTarget(simCTL float64, phase domain.TrainingPhase, rampRateLimit int, isRecoveryWeek bool) int {
	effectiveCTL := simCTL
	if effectiveCTL < minSimCTL {
		effectiveCTL = minSimCTL
	}
	base := effectiveCTL * 7.0

	// Ramp only during the loading phases.
	if phase == domain.PhaseBase || phase == domain.PhaseBuild {
		ramp := base * float64(rampRateLimit) / 100.0
		if limit := base * rampHardCap; ramp > limit {
			ramp = limit
		}
		base += ramp
	}

	mult, ok := phaseMultipliers[phase]
	if !ok {
		mult = 1.0
	}
	base *= mult

	if isRecoveryWeek {
		base *= recoveryWeekMultiplier
	}
	return round(base)
}

func validateProfile(p *domain.AthleteProfile, startDate time.Time, currentCTL float64) error {
	if p == nil {
		return &ProfileValidationError{
			Reason: "missing profile",
			Detail: "No athlete profile found. Set up your profile before generating a season.",
		}
	}
	if p.GoalDate == nil {
		return &ProfileValidationError{
			Reason: "missing goal date",
			Detail: "Your profile has no goal race date. A season plan needs a date to periodize toward.",
		}
	}
	goal := domain.DayOf(*p.GoalDate)
	start := domain.DayOf(startDate)
	if !goal.After(start) {
		return &ProfileValidationError{
			Reason: "goal date not in the future",
			Detail: "Your goal date is not after the plan start date.",
		}
	}
	daysOut := int(goal.Sub(start).Hours() / 24)
	if daysOut < minGoalLeadWeeks*7 {
		return &ProfileValidationError{
			Reason: "goal date too close",
			Detail: fmt.Sprintf("Your goal date is only %d days away. Minimum %d weeks required.", daysOut, minGoalLeadWeeks),
		}
	}
	if goal.After(start.AddDate(maxGoalLeadYears, 0, 0)) {
		return &ProfileValidationError{
			Reason: "goal date too far",
			Detail: fmt.Sprintf("Your goal date is more than %d years away. Shorten the horizon and regenerate later.", maxGoalLeadYears),
		}
	}
	if currentCTL < 0 || currentCTL > maxStartCTL {
		return &ProfileValidationError{
			Reason: "ctl out of range",
			Detail: fmt.Sprintf("Starting CTL %.1f is outside the supported range [0, %d].", currentCTL, maxStartCTL),
		}
	}
	if !p.HasTrainingDays() {
		return &ProfileValidationError{
			Reason: "no training days available",
			Detail: "Every day of your weekly template is closed. Open at least one day to training.",
		}
	}
	return nil
}

// MondayOf truncates to the Monday of the date's ISO week. Every generated
// season starts on this boundary, so callers persisting a season must use
// the same truncation for their replace window.
func MondayOf(t time.Time) time.Time {
	d := domain.DayOf(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
