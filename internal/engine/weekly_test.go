package engine

import (
	"testing"
	"time"

	"ironcoach/tri-planner/internal/domain"
)

// monday is an arbitrary Monday used as a week start throughout the tests.
var monday = date(2026, time.June, 1)

func allDisciplines() []domain.WorkoutType {
	return []domain.WorkoutType{domain.WorkoutRun, domain.WorkoutBike, domain.WorkoutSwim, domain.WorkoutStrength}
}

func fullWeekProfile() *domain.AthleteProfile {
	goal := date(2026, time.October, 4)
	week := make([]domain.DayTemplate, 0, 7)
	for d := 0; d < 7; d++ {
		week = append(week, domain.DayTemplate{
			Day:       time.Weekday((int(time.Monday) + d) % 7),
			Anchor:    domain.AnchorNone,
			Available: allDisciplines(),
		})
	}
	return &domain.AthleteProfile{
		GoalDate:         &goal,
		LongTrainingDay:  time.Saturday,
		StrengthSessions: 1,
		MaxHeartRate:     185,
		FTP:              250,
		Week:             week,
		Balance: domain.TrainingBalance{
			Preset:      domain.PresetIronman,
			BikePercent: 50,
			RunPercent:  30,
			SwimPercent: 20,
		},
	}
}

func weekRequest(profile *domain.AthleteProfile, target int) WeekRequest {
	return WeekRequest{
		Start:       monday,
		TargetTSS:   target,
		Phase:       domain.PhaseBase,
		Profile:     profile,
		RecentLoads: map[domain.WorkoutType]int{},
		Rules:       defaultRules(),
	}
}

func setAnchor(p *domain.AthleteProfile, day time.Weekday, anchor domain.AnchorType) {
	for i := range p.Week {
		if p.Week[i].Day == day {
			p.Week[i].Anchor = anchor
			return
		}
	}
}

func TestAnchorStrategy_PlacesAnchors(t *testing.T) {
	profile := fullWeekProfile()
	setAnchor(profile, time.Tuesday, domain.AnchorStrength)
	setAnchor(profile, time.Saturday, domain.AnchorLongBike)
	setAnchor(profile, time.Sunday, domain.AnchorLongRun)

	placed, _ := AnchorStrategy{}.PlanWeek(weekRequest(profile, 450))

	byDay := map[time.Weekday]domain.PlannedWorkout{}
	for _, p := range placed {
		byDay[p.Date.Weekday()] = p
	}

	if w, ok := byDay[time.Tuesday]; !ok || w.WorkoutType != domain.WorkoutStrength {
		t.Errorf("Tuesday anchor: got %+v, want strength", w)
	}
	if w, ok := byDay[time.Saturday]; !ok || w.WorkoutType != domain.WorkoutBike || w.SubType != "long" {
		t.Errorf("Saturday anchor: got %+v, want long bike", w)
	}
	if w, ok := byDay[time.Sunday]; !ok || w.WorkoutType != domain.WorkoutRun || w.SubType != "long" {
		t.Errorf("Sunday anchor: got %+v, want long run", w)
	}
}

func TestAnchorStrategy_LongSessionScaling(t *testing.T) {
	tests := []struct {
		name    string
		phase   domain.TrainingPhase
		target  int
		wantRun int
	}{
		// Ironman base long run is 150 min.
		{"base phase mid volume", domain.PhaseBase, 300, 150},
		{"high volume scales up", domain.PhaseBase, 450, 180},
		{"low volume scales down", domain.PhaseBase, 150, 120},
		{"taper cuts to 60%", domain.PhaseTaper, 300, 90},
		{"transition cuts to 40%", domain.PhaseTransition, 300, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := fullWeekProfile()
			req := weekRequest(profile, tt.target)
			req.Phase = tt.phase

			got := longSessionMinutes(monday.AddDate(0, 0, 5), req, true)
			if got != tt.wantRun {
				t.Errorf("longSessionMinutes(run) = %d, want %d", got, tt.wantRun)
			}
		})
	}
}

func TestAnchorStrategy_GapFillRespectsAvailability(t *testing.T) {
	profile := fullWeekProfile()
	// Close every day to running.
	for i := range profile.Week {
		profile.Week[i].Available = []domain.WorkoutType{domain.WorkoutBike, domain.WorkoutSwim}
	}

	placed, _ := AnchorStrategy{}.PlanWeek(weekRequest(profile, 400))

	for _, p := range placed {
		if p.WorkoutType == domain.WorkoutRun {
			t.Errorf("run placed on %s despite no day allowing runs", p.Date.Format("Mon"))
		}
	}
	if len(placed) == 0 {
		t.Error("expected bike/swim fillers, got nothing")
	}
}

func TestAnchorStrategy_OneWorkoutPerDay(t *testing.T) {
	profile := fullWeekProfile()
	setAnchor(profile, time.Wednesday, domain.AnchorSwim)

	placed, _ := AnchorStrategy{}.PlanWeek(weekRequest(profile, 500))

	seen := map[time.Time]int{}
	for _, p := range placed {
		seen[domain.DayOf(p.Date)]++
	}
	for day, n := range seen {
		if n > 1 {
			t.Errorf("%s has %d workouts, want at most 1", day.Format("2006-01-02"), n)
		}
	}
}

func TestAnchorStrategy_MultiplePerDayStacksDisciplines(t *testing.T) {
	profile := fullWeekProfile()
	profile.StrengthSessions = 0
	for i := range profile.Week {
		if profile.Week[i].Day != time.Monday && profile.Week[i].Day != time.Tuesday {
			profile.Week[i].Available = nil
		}
	}

	req := weekRequest(profile, 300)
	single, _ := AnchorStrategy{}.PlanWeek(req)

	req.AllowMultiplePerDay = true
	stacked, _ := AnchorStrategy{}.PlanWeek(req)

	if len(stacked) <= len(single) {
		t.Errorf("stacking placed %d workouts, want more than the %d single-session plan", len(stacked), len(single))
	}

	perDay := map[time.Time]map[domain.WorkoutType]int{}
	for _, p := range stacked {
		day := domain.DayOf(p.Date)
		if perDay[day] == nil {
			perDay[day] = map[domain.WorkoutType]int{}
		}
		perDay[day][p.WorkoutType]++
	}
	var doubled bool
	for day, counts := range perDay {
		if len(counts) > 1 {
			doubled = true
		}
		for wt, n := range counts {
			if n > 1 {
				t.Errorf("%s has %d %s sessions, want at most one per discipline", day.Format("Mon"), n, wt)
			}
		}
	}
	if !doubled {
		t.Error("no day carries two disciplines despite the stacking preference")
	}
}

func TestAnchorStrategy_ConsecutiveRunRuleShapesWeek(t *testing.T) {
	profile := fullWeekProfile()

	placed, _ := AnchorStrategy{}.PlanWeek(weekRequest(profile, 600))

	var prevWasRun bool
	var prevDay time.Time
	for _, p := range placed {
		isRun := p.WorkoutType == domain.WorkoutRun
		if isRun && prevWasRun && domain.DayOf(p.Date).Sub(prevDay) == 24*time.Hour {
			t.Errorf("consecutive runs placed on %s and %s", prevDay.Format("Mon"), p.Date.Format("Mon"))
		}
		prevWasRun = isRun
		prevDay = domain.DayOf(p.Date)
	}
}

func TestAnchorStrategy_AnchorSkippedWhenBudgetExhausted(t *testing.T) {
	profile := fullWeekProfile()
	profile.StrengthSessions = 0 // strength budget is zero
	setAnchor(profile, time.Tuesday, domain.AnchorStrength)

	placed, warnings := AnchorStrategy{}.PlanWeek(weekRequest(profile, 300))

	for _, p := range placed {
		if p.WorkoutType == domain.WorkoutStrength {
			t.Error("strength anchor placed with a zero strength budget")
		}
	}
	if countTitle(warnings, "Anchor Skipped") == 0 {
		t.Error("expected an Anchor Skipped warning")
	}
}

func TestSimpleStrategy_FillsTowardTarget(t *testing.T) {
	profile := fullWeekProfile()

	placed, _ := SimpleStrategy{}.PlanWeek(weekRequest(profile, 250))

	if len(placed) == 0 {
		t.Fatal("simple strategy placed nothing")
	}
	total := 0
	types := map[domain.WorkoutType]bool{}
	for _, p := range placed {
		total += p.PlannedTSS
		types[p.WorkoutType] = true
	}
	if total == 0 {
		t.Error("placed sessions carry no TSS")
	}
	if len(types) < 2 {
		t.Errorf("rotation produced a single discipline week: %v", types)
	}
}

func TestPlanWeek_Deterministic(t *testing.T) {
	profile := fullWeekProfile()
	setAnchor(profile, time.Saturday, domain.AnchorLongBike)
	req := weekRequest(profile, 420)

	a, _ := AnchorStrategy{}.PlanWeek(req)
	b, _ := AnchorStrategy{}.PlanWeek(req)

	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Date != b[i].Date || a[i].WorkoutType != b[i].WorkoutType || a[i].PlannedTSS != b[i].PlannedTSS {
			t.Errorf("entry %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
