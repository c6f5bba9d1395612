package domain

// WarningKind categorizes a coaching warning.
type WarningKind string

const (
	WarningRuleViolation  WarningKind = "rule_violation"
	WarningRecoveryAdvice WarningKind = "recovery_advice"
	WarningInjuryRisk     WarningKind = "injury_risk"
)

// CoachWarning is a structured signal from the rules engine about a candidate
// placement or an already-scheduled day. Blocking warnings veto the
// placement; advisory ones are surfaced alongside it. Warnings are produced
// fresh per validation call and never persisted.
type CoachWarning struct {
	Kind      WarningKind `json:"kind"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	IsBlocker bool        `json:"isBlocker"`
}

// HasBlocker reports whether any warning in the list vetoes the placement.
func HasBlocker(warnings []CoachWarning) bool {
	for _, w := range warnings {
		if w.IsBlocker {
			return true
		}
	}
	return false
}
