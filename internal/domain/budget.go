package domain

// DisciplineBudget is the weekly TSS target split across disciplines.
// Derived once per week and immutable afterwards. Sub-budgets need not sum
// exactly to the original weekly target once the run safety clamp has
// redistributed overflow.
type DisciplineBudget struct {
	SwimTSS     int `json:"swimTss"`
	BikeTSS     int `json:"bikeTss"`
	RunTSS      int `json:"runTss"`
	StrengthTSS int `json:"strengthTss"`
	TotalTSS    int `json:"totalTss"`
}

// For returns the sub-budget for a discipline.
func (b DisciplineBudget) For(t WorkoutType) int {
	switch t {
	case WorkoutSwim:
		return b.SwimTSS
	case WorkoutBike:
		return b.BikeTSS
	case WorkoutRun:
		return b.RunTSS
	case WorkoutStrength:
		return b.StrengthTSS
	default:
		return 0
	}
}

// PerformanceMetrics is a derived fitness snapshot for one date, recomputed
// on demand from log history and never persisted.
type PerformanceMetrics struct {
	CTL float64 `json:"ctl"` // chronic load ("fitness"), 42-day EWMA
	ATL float64 `json:"atl"` // acute load ("fatigue"), 7-day EWMA
	TSB float64 `json:"tsb"` // form, CTL - ATL
}
