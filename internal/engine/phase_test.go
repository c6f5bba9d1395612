package engine

import (
	"testing"
	"time"

	"ironcoach/tri-planner/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculatePhase_NoGoalAlwaysBase(t *testing.T) {
	dates := []time.Time{
		date(2026, time.January, 1),
		date(2026, time.June, 15),
		date(2026, time.December, 31),
	}
	for _, d := range dates {
		if got := CalculatePhase(d, nil); got != domain.PhaseBase {
			t.Errorf("CalculatePhase(%s, nil) = %s, want %s", d.Format("2006-01-02"), got, domain.PhaseBase)
		}
	}
}

func TestCalculatePhase_Boundaries(t *testing.T) {
	goal := date(2026, time.September, 6)

	tests := []struct {
		name  string
		today time.Time
		want  domain.TrainingPhase
	}{
		{"2 weeks out is taper", goal.AddDate(0, 0, -14), domain.PhaseTaper},
		{"exactly 3 weeks out is taper", goal.AddDate(0, 0, -21), domain.PhaseTaper},
		{"4 weeks out is peak", goal.AddDate(0, 0, -28), domain.PhasePeak},
		{"60 days out is peak", goal.AddDate(0, 0, -60), domain.PhasePeak}, // 8 whole weeks
		{"10 weeks out is build", goal.AddDate(0, 0, -70), domain.PhaseBuild},
		{"21 weeks out is build", goal.AddDate(0, 0, -147), domain.PhaseBuild},
		{"22 weeks out is base", goal.AddDate(0, 0, -154), domain.PhaseBase},
		{"7 months out is off-season", goal.AddDate(0, -7, 0), domain.PhaseOffSeason},
		{"20 days past goal is transition", goal.AddDate(0, 0, 20), domain.PhaseTransition},
		{"40 days past goal is base", goal.AddDate(0, 0, 40), domain.PhaseBase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculatePhase(tt.today, &goal); got != tt.want {
				t.Errorf("CalculatePhase(%s, %s) = %s, want %s",
					tt.today.Format("2006-01-02"), goal.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestWholeMonthsBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same day", date(2026, time.March, 1), date(2026, time.March, 1), 0},
		{"just under a month", date(2026, time.March, 1), date(2026, time.March, 30), 0},
		{"exactly one month", date(2026, time.March, 1), date(2026, time.April, 1), 1},
		{"six and a half months", date(2026, time.January, 15), date(2026, time.August, 1), 6},
		{"a year", date(2026, time.January, 1), date(2027, time.January, 1), 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wholeMonthsBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("wholeMonthsBetween = %d, want %d", got, tt.want)
			}
		})
	}
}
