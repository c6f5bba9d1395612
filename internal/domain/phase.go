package domain

// TrainingPhase is a macro-cycle stage of the periodized season.
type TrainingPhase string

const (
	PhaseOffSeason  TrainingPhase = "off_season"
	PhaseBase       TrainingPhase = "base"
	PhaseBuild      TrainingPhase = "build"
	PhasePeak       TrainingPhase = "peak"
	PhaseTaper      TrainingPhase = "taper"
	PhaseTransition TrainingPhase = "transition"
)

// PhaseInfo is display metadata for a phase. Kept apart from the phase tag
// itself so the calculator stays free of presentation concerns.
type PhaseInfo struct {
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	FocusAreas  []string `json:"focusAreas"`
}

var phaseInfos = map[TrainingPhase]PhaseInfo{
	PhaseOffSeason: {
		DisplayName: "Off-Season",
		Description: "Unstructured activity and mental reset while the goal is still far away.",
		FocusAreas:  []string{"general fitness", "strength foundation", "technique"},
	},
	PhaseBase: {
		DisplayName: "Base",
		Description: "Long aerobic volume at low intensity to build the engine.",
		FocusAreas:  []string{"aerobic endurance", "consistency", "durability"},
	},
	PhaseBuild: {
		DisplayName: "Build",
		Description: "Race-specific intensity layered onto the aerobic base.",
		FocusAreas:  []string{"threshold work", "race-pace intervals", "brick sessions"},
	},
	PhasePeak: {
		DisplayName: "Peak",
		Description: "Highest race-specific load before the taper begins.",
		FocusAreas:  []string{"race simulation", "intensity", "fueling practice"},
	},
	PhaseTaper: {
		DisplayName: "Taper",
		Description: "Volume drops sharply so fatigue clears while fitness holds.",
		FocusAreas:  []string{"freshness", "short sharpeners", "rest"},
	},
	PhaseTransition: {
		DisplayName: "Transition",
		Description: "Recovery weeks immediately after the goal race.",
		FocusAreas:  []string{"recovery", "unstructured movement"},
	},
}

// Info returns the display metadata for the phase.
func (p TrainingPhase) Info() PhaseInfo {
	if info, ok := phaseInfos[p]; ok {
		return info
	}
	return phaseInfos[PhaseBase]
}
