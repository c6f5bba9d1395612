package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"ironcoach/tri-planner/internal/domain"
)

func seasonInput(months int) SeasonInput {
	profile := fullWeekProfile()
	goal := monday.AddDate(0, 0, months*28+14)
	profile.GoalDate = &goal
	return SeasonInput{
		StartDate:   monday,
		CurrentCTL:  45,
		Months:      months,
		Profile:     profile,
		Preferences: domain.DefaultPreferences(),
	}
}

func TestGenerateSeason_FeatureDisabled(t *testing.T) {
	in := seasonInput(3)
	in.Preferences.SmartPlanningEnabled = false

	_, err := NewGenerator(domain.StrategyAnchor).GenerateSeason(context.Background(), in)
	if !errors.Is(err, ErrSmartPlanningDisabled) {
		t.Errorf("err = %v, want ErrSmartPlanningDisabled", err)
	}
}

func TestGenerateSeason_ProfileValidation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*SeasonInput)
		wantReason string
	}{
		{
			name:       "missing profile",
			mutate:     func(in *SeasonInput) { in.Profile = nil },
			wantReason: "missing profile",
		},
		{
			name:       "missing goal date",
			mutate:     func(in *SeasonInput) { in.Profile.GoalDate = nil },
			wantReason: "missing goal date",
		},
		{
			name: "goal in the past",
			mutate: func(in *SeasonInput) {
				past := in.StartDate.AddDate(0, 0, -30)
				in.Profile.GoalDate = &past
			},
			wantReason: "goal date not in the future",
		},
		{
			name: "goal five days away",
			mutate: func(in *SeasonInput) {
				soon := in.StartDate.AddDate(0, 0, 5)
				in.Profile.GoalDate = &soon
			},
			wantReason: "goal date too close",
		},
		{
			name: "goal three years away",
			mutate: func(in *SeasonInput) {
				far := in.StartDate.AddDate(3, 0, 0)
				in.Profile.GoalDate = &far
			},
			wantReason: "goal date too far",
		},
		{
			name:       "negative ctl",
			mutate:     func(in *SeasonInput) { in.CurrentCTL = -1 },
			wantReason: "ctl out of range",
		},
		{
			name:       "ctl above range",
			mutate:     func(in *SeasonInput) { in.CurrentCTL = 180 },
			wantReason: "ctl out of range",
		},
		{
			name: "fully closed week",
			mutate: func(in *SeasonInput) {
				for i := range in.Profile.Week {
					in.Profile.Week[i].Anchor = domain.AnchorNone
					in.Profile.Week[i].Available = nil
				}
			},
			wantReason: "no training days available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := seasonInput(3)
			tt.mutate(&in)

			_, err := NewGenerator(domain.StrategyAnchor).GenerateSeason(context.Background(), in)

			var vErr *ProfileValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want *ProfileValidationError", err)
			}
			if vErr.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", vErr.Reason, tt.wantReason)
			}
			if vErr.Detail == "" {
				t.Error("validation failure carries no user-actionable detail")
			}
		})
	}
}

func TestGenerateSeason_ProducesFullHorizon(t *testing.T) {
	in := seasonInput(3)

	res, err := NewGenerator(domain.StrategyAnchor).GenerateSeason(context.Background(), in)
	if err != nil {
		t.Fatalf("GenerateSeason: %v", err)
	}
	if len(res.Plans) == 0 {
		t.Fatal("no plans generated")
	}

	horizonEnd := MondayOf(in.StartDate).AddDate(0, 0, in.Months*4*7)
	weeksWithPlans := map[time.Time]bool{}
	for _, p := range res.Plans {
		if p.Date.Before(MondayOf(in.StartDate)) || !p.Date.Before(horizonEnd) {
			t.Errorf("plan on %s falls outside the season horizon", p.Date.Format("2006-01-02"))
		}
		weeksWithPlans[MondayOf(p.Date)] = true
	}
	if got, want := len(weeksWithPlans), in.Months*4; got != want {
		t.Errorf("plans span %d weeks, want %d", got, want)
	}
}

func TestGenerateSeason_Deterministic(t *testing.T) {
	in := seasonInput(2)

	a, err := NewGenerator(domain.StrategyAnchor).GenerateSeason(context.Background(), in)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := NewGenerator(domain.StrategyAnchor).GenerateSeason(context.Background(), in)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(a.Plans) != len(b.Plans) {
		t.Fatalf("plan counts differ: %d vs %d", len(a.Plans), len(b.Plans))
	}
	for i := range a.Plans {
		x, y := a.Plans[i], b.Plans[i]
		if x.Date != y.Date || x.WorkoutType != y.WorkoutType || x.PlannedTSS != y.PlannedTSS || x.DurationMinutes != y.DurationMinutes {
			t.Errorf("plan %d differs: %+v vs %+v", i, x, y)
		}
	}
}

func TestGenerateSeason_RecoveryWeeksLighter(t *testing.T) {
	in := seasonInput(2)

	res, err := NewGenerator(domain.StrategyAnchor).GenerateSeason(context.Background(), in)
	if err != nil {
		t.Fatalf("GenerateSeason: %v", err)
	}

	weekTSS := map[int]int{}
	start := MondayOf(in.StartDate)
	for _, p := range res.Plans {
		week := int(p.Date.Sub(start).Hours() / 24 / 7)
		weekTSS[week] += p.PlannedTSS
	}

	// Week 4 is a recovery week between loading weeks 3 and 5.
	if weekTSS[4] >= weekTSS[3] || weekTSS[4] >= weekTSS[5] {
		t.Errorf("recovery week 4 (%d TSS) not lighter than neighbors (%d, %d)",
			weekTSS[4], weekTSS[3], weekTSS[5])
	}
}

func TestGenerateSeason_UnfillableWeekIsTypedFailure(t *testing.T) {
	in := seasonInput(2)
	// Only strength is ever available and there are no anchors: the gap
	// filler has no discipline it can place, so nothing is ever scheduled.
	for i := range in.Profile.Week {
		in.Profile.Week[i].Anchor = domain.AnchorNone
		in.Profile.Week[i].Available = []domain.WorkoutType{domain.WorkoutStrength}
	}

	_, err := NewGenerator(domain.StrategyAnchor).GenerateSeason(context.Background(), in)
	if !errors.Is(err, ErrNoPlansGenerated) {
		t.Errorf("err = %v, want ErrNoPlansGenerated", err)
	}
}

func TestGenerateSeason_Cancellation(t *testing.T) {
	in := seasonInput(24) // two-year horizon

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator(domain.StrategyAnchor).GenerateSeason(ctx, in)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestGenerateSeason_SimpleStrategy(t *testing.T) {
	in := seasonInput(2)
	in.Preferences.Strategy = domain.StrategySimple

	res, err := NewGenerator(in.Preferences.Strategy).GenerateSeason(context.Background(), in)
	if err != nil {
		t.Fatalf("GenerateSeason(simple): %v", err)
	}
	if len(res.Plans) == 0 {
		t.Fatal("simple strategy generated nothing")
	}
	for _, p := range res.Plans {
		if p.SubType == "long" {
			t.Error("simple strategy should not emit long anchor sessions")
		}
	}
}

func TestWeeklyTarget(t *testing.T) {
	tests := []struct {
		name     string
		ctl      float64
		phase    domain.TrainingPhase
		ramp     int
		recovery bool
		want     int
	}{
		// 45*7 = 315, +5% ramp = 330.75, base multiplier 1.0.
		{"base with ramp", 45, domain.PhaseBase, 5, false, 331},
		// Build also ramps, then multiplies by 1.05: 330.75*1.05 = 347.3.
		{"build", 45, domain.PhaseBuild, 5, false, 347},
		// Peak takes no ramp: 315.
		{"peak no ramp", 45, domain.PhasePeak, 5, false, 315},
		// Taper: 315*0.55 = 173.25.
		{"taper", 45, domain.PhaseTaper, 5, false, 173},
		// Low CTL floors at 20: 140*1.05 ramp, base mult = 147.
		{"ctl floor", 5, domain.PhaseBase, 5, false, 147},
		// Recovery week multiplies by 0.8: 330.75*0.8 = 264.6.
		{"recovery week", 45, domain.PhaseBase, 5, true, 265},
		// A silly ramp rate is capped at +50%.
		{"ramp hard cap", 45, domain.PhaseBase, 90, false, 473},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := weeklyTarget(tt.ctl, tt.phase, tt.ramp, tt.recovery)
			if got != tt.want {
				t.Errorf("weeklyTarget = %d, want %d", got, tt.want)
			}
		})
	}
}
