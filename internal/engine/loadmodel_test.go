package engine

import (
	"math"
	"testing"
	"time"

	"ironcoach/tri-planner/internal/domain"
)

func testProfile() *domain.AthleteProfile {
	return &domain.AthleteProfile{
		MaxHeartRate: 185,
		FTP:          250,
	}
}

func TestCalculateTSS(t *testing.T) {
	tests := []struct {
		name     string
		workout  domain.WorkoutType
		minutes  int
		avgHR    int
		avgPower int
		want     int
	}{
		// One hour exactly at FTP is 100 TSS by definition.
		{"bike at ftp", domain.WorkoutBike, 60, 0, 250, 100},
		// Half FTP for an hour: IF^2 scaling gives 25.
		{"bike at half ftp", domain.WorkoutBike, 60, 0, 125, 25},
		// No power: falls back to HR. 1h at max HR is 100.
		{"bike hr fallback", domain.WorkoutBike, 60, 185, 0, 100},
		// No power, no HR: low-intensity default of 40/h.
		{"bike blind", domain.WorkoutBike, 90, 0, 0, 60},
		{"run at max hr", domain.WorkoutRun, 60, 185, 0, 100},
		// (148/185)^2 = 0.64 -> 64 for an hour.
		{"run aerobic", domain.WorkoutRun, 60, 148, 0, 64},
		// Run without HR uses the discipline default rate (60/h).
		{"run no hr", domain.WorkoutRun, 30, 0, 0, 30},
		{"swim default rate", domain.WorkoutSwim, 60, 0, 0, 60},
		{"strength default rate", domain.WorkoutStrength, 90, 0, 0, 90},
		{"other with hr", domain.WorkoutOther, 60, 148, 0, 64},
		{"other without hr", domain.WorkoutOther, 60, 0, 0, 20},
	}

	p := testProfile()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTSS(tt.workout, tt.minutes, tt.avgHR, tt.avgPower, p)
			if got != tt.want {
				t.Errorf("CalculateTSS(%s, %dmin, hr=%d, pw=%d) = %d, want %d",
					tt.workout, tt.minutes, tt.avgHR, tt.avgPower, got, tt.want)
			}
		})
	}
}

func TestCalculateTSS_ZeroThresholdsDoNotPanic(t *testing.T) {
	p := &domain.AthleteProfile{} // no FTP, no max HR
	if got := CalculateTSS(domain.WorkoutBike, 60, 160, 200, p); got != 40 {
		t.Errorf("bike with power but no FTP = %d, want 40 (low-intensity default)", got)
	}
}

func TestCalculatePerformanceMetrics_EmptyLogs(t *testing.T) {
	got := CalculatePerformanceMetrics(nil, date(2026, time.May, 1))
	if got.CTL != 0 || got.ATL != 0 || got.TSB != 0 {
		t.Errorf("empty logs = %+v, want all zero", got)
	}
}

func TestCalculatePerformanceMetrics_SingleDay(t *testing.T) {
	target := date(2026, time.May, 1)
	tss := 42
	logs := []domain.CompletedLog{
		{Date: target, WorkoutType: domain.WorkoutBike, DurationMinutes: 60, ComputedTSS: &tss},
	}

	got := CalculatePerformanceMetrics(logs, target)

	// One day of 42 TSS: ctl = 42/42 = 1, atl = 42/7 = 6.
	if math.Abs(got.CTL-1.0) > 1e-9 {
		t.Errorf("CTL = %v, want 1.0", got.CTL)
	}
	if math.Abs(got.ATL-6.0) > 1e-9 {
		t.Errorf("ATL = %v, want 6.0", got.ATL)
	}
	if math.Abs(got.TSB-(-5.0)) > 1e-9 {
		t.Errorf("TSB = %v, want -5.0", got.TSB)
	}
}

func TestCalculatePerformanceMetrics_MissingDaysDecay(t *testing.T) {
	start := date(2026, time.April, 1)
	tss := 70
	logs := []domain.CompletedLog{
		{Date: start, WorkoutType: domain.WorkoutRun, DurationMinutes: 60, ComputedTSS: &tss},
	}

	afterRest := CalculatePerformanceMetrics(logs, start.AddDate(0, 0, 7))
	sameDay := CalculatePerformanceMetrics(logs, start)

	if afterRest.ATL >= sameDay.ATL {
		t.Errorf("ATL after a week of rest (%v) should decay below same-day ATL (%v)", afterRest.ATL, sameDay.ATL)
	}
	if afterRest.TSB <= sameDay.TSB {
		t.Errorf("TSB should rise with rest: got %v after, %v same day", afterRest.TSB, sameDay.TSB)
	}
}

func TestCalculatePerformanceMetrics_LogsAfterTargetIgnored(t *testing.T) {
	target := date(2026, time.May, 1)
	tss := 100
	logs := []domain.CompletedLog{
		{Date: target, WorkoutType: domain.WorkoutBike, DurationMinutes: 60, ComputedTSS: &tss},
		{Date: target.AddDate(0, 0, 5), WorkoutType: domain.WorkoutBike, DurationMinutes: 60, ComputedTSS: &tss},
	}

	withFuture := CalculatePerformanceMetrics(logs, target)
	withoutFuture := CalculatePerformanceMetrics(logs[:1], target)

	if withFuture != withoutFuture {
		t.Errorf("future logs leaked into metrics: %+v vs %+v", withFuture, withoutFuture)
	}
}
