package engine

import (
	"math"
	"time"

	"ironcoach/tri-planner/internal/domain"
)

// Banister impulse-response time constants (days).
const (
	ctlDays = 42.0
	atlDays = 7.0
)

// CalculateTSS estimates the Training Stress Score of a single workout.
// avgHR and avgPower are 0 when unknown. Callers reject non-positive
// durations before reaching this function; the model assumes duration > 0.
func CalculateTSS(workoutType domain.WorkoutType, durationMinutes int, avgHR, avgPower int, profile *domain.AthleteProfile) int {
	hours := float64(durationMinutes) / 60.0

	switch workoutType {
	case domain.WorkoutBike:
		if avgPower > 0 && profile.FTP > 0 {
			// Classic power-based TSS: duration_s * NP * IF / (FTP * 3600) * 100,
			// with avg power standing in for normalized power.
			durSec := float64(durationMinutes) * 60.0
			ftp := float64(profile.FTP)
			p := float64(avgPower)
			return round(durSec * p * (p / ftp) / (ftp * 3600.0) * 100.0)
		}
		if tss, ok := hrTSS(hours, avgHR, profile.MaxHeartRate); ok {
			return tss
		}
		// No power, no heart rate: assume low-intensity riding.
		return round(40.0 * hours)

	case domain.WorkoutRun:
		if tss, ok := hrTSS(hours, avgHR, profile.MaxHeartRate); ok {
			return tss
		}
		return round(hours * float64(profile.RunRate()))

	case domain.WorkoutSwim:
		return round(hours * float64(profile.SwimRate()))

	case domain.WorkoutStrength:
		return round(hours * float64(profile.StrengthRate()))

	default:
		if tss, ok := hrTSS(hours, avgHR, profile.MaxHeartRate); ok {
			return tss
		}
		return round(20.0 * hours)
	}
}

// hrTSS is the heart-rate-based estimate: hours * (avgHR/maxHR)^2 * 100.
// Returns false when either rate is missing or maxHR is not positive.
func hrTSS(hours float64, avgHR, maxHR int) (int, bool) {
	if avgHR <= 0 || maxHR <= 0 {
		return 0, false
	}
	ratio := float64(avgHR) / float64(maxHR)
	return round(hours * ratio * ratio * 100.0), true
}

// CalculatePerformanceMetrics replays the log history day by day up to and
// including targetDate, maintaining the CTL/ATL exponentially weighted
// averages. The recurrence is intentionally sequential: each day's state
// feeds the next. Empty input yields all-zero metrics.
func CalculatePerformanceMetrics(logs []domain.CompletedLog, targetDate time.Time) domain.PerformanceMetrics {
	if len(logs) == 0 {
		return domain.PerformanceMetrics{}
	}

	target := domain.DayOf(targetDate)
	daily := make(map[time.Time]int, len(logs))
	earliest := domain.DayOf(logs[0].Date)
	for _, l := range logs {
		day := domain.DayOf(l.Date)
		if day.After(target) {
			continue
		}
		daily[day] += l.TrainingStress()
		if day.Before(earliest) {
			earliest = day
		}
	}

	var ctl, atl float64
	for day := earliest; !day.After(target); day = day.AddDate(0, 0, 1) {
		tss := float64(daily[day]) // missing days contribute 0
		ctl = ctl*(1.0-1.0/ctlDays) + tss*(1.0/ctlDays)
		atl = atl*(1.0-1.0/atlDays) + tss*(1.0/atlDays)
	}

	return domain.PerformanceMetrics{CTL: ctl, ATL: atl, TSB: ctl - atl}
}

func round(v float64) int {
	return int(math.Round(v))
}
