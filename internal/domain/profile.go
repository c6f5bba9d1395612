package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnchorType is the mandatory ("must-have") workout assigned to a weekday in
// the athlete's weekly template. AnchorNone leaves the day open for the gap
// filler.
type AnchorType string

const (
	AnchorNone     AnchorType = "none"
	AnchorRun      AnchorType = "run"
	AnchorBike     AnchorType = "bike"
	AnchorSwim     AnchorType = "swim"
	AnchorStrength AnchorType = "strength"
	AnchorLongRun  AnchorType = "long_run"
	AnchorLongBike AnchorType = "long_bike"
)

// BalancePreset names a training-balance template. Presets key the base
// durations of the weekly long run and long ride.
type BalancePreset string

const (
	PresetSprint   BalancePreset = "sprint"
	PresetOlympic  BalancePreset = "olympic"
	PresetHalf     BalancePreset = "half_ironman"
	PresetIronman  BalancePreset = "ironman"
)

// TrainingBalance splits the weekly cardio budget across disciplines.
// Percentages are expected to sum to 100.
type TrainingBalance struct {
	Preset      BalancePreset `bson:"preset" json:"preset"`
	BikePercent int           `bson:"bikePercent" json:"bikePercent"`
	RunPercent  int           `bson:"runPercent" json:"runPercent"`
	SwimPercent int           `bson:"swimPercent" json:"swimPercent"`
}

// LongSessionBase returns the preset's base durations (minutes) for the
// weekly long run and long ride, before phase and volume scaling.
func (b TrainingBalance) LongSessionBase() (runMinutes, bikeMinutes int) {
	switch b.Preset {
	case PresetSprint:
		return 60, 90
	case PresetOlympic:
		return 90, 120
	case PresetHalf:
		return 120, 150
	default: // ironman
		return 150, 180
	}
}

// DayTemplate describes one weekday of the athlete's weekly setup: which
// anchor (if any) is fixed there and which disciplines the day is open to.
type DayTemplate struct {
	Day       time.Weekday  `bson:"day" json:"day"`
	Anchor    AnchorType    `bson:"anchor" json:"anchor"`
	Available []WorkoutType `bson:"available" json:"available"`
}

// AthleteProfile is the athlete's fitness baseline, thresholds and weekly
// template. It is read once per generation call and never mutated by the
// engine.
type AthleteProfile struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	GoalDate         *time.Time         `bson:"goalDate,omitempty" json:"goalDate,omitempty"`
	LongTrainingDay  time.Weekday       `bson:"longTrainingDay" json:"longTrainingDay"`
	StrengthSessions int                `bson:"strengthSessions" json:"strengthSessions"`

	// Per-discipline default TSS accrual rates (per hour). Zero means "use
	// the built-in default".
	SwimTSSPerHour     int `bson:"swimTssPerHour,omitempty" json:"swimTssPerHour,omitempty"`
	BikeTSSPerHour     int `bson:"bikeTssPerHour,omitempty" json:"bikeTssPerHour,omitempty"`
	RunTSSPerHour      int `bson:"runTssPerHour,omitempty" json:"runTssPerHour,omitempty"`
	StrengthTSSPerHour int `bson:"strengthTssPerHour,omitempty" json:"strengthTssPerHour,omitempty"`

	// Thresholds.
	MaxHeartRate      int     `bson:"maxHeartRate,omitempty" json:"maxHeartRate,omitempty"`
	FTP               int     `bson:"ftp,omitempty" json:"ftp,omitempty"`   // watts
	LTHR              int     `bson:"lthr,omitempty" json:"lthr,omitempty"` // bpm
	CSS               float64 `bson:"css,omitempty" json:"css,omitempty"`   // seconds per 100m
	RestingHRBaseline int     `bson:"restingHrBaseline,omitempty" json:"restingHrBaseline,omitempty"`

	Week    []DayTemplate   `bson:"week" json:"week"`
	Balance TrainingBalance `bson:"balance" json:"balance"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

const defaultTSSPerHour = 60

// SwimRate returns the swim TSS-per-hour constant, defaulted.
func (p *AthleteProfile) SwimRate() int {
	if p.SwimTSSPerHour > 0 {
		return p.SwimTSSPerHour
	}
	return defaultTSSPerHour
}

// BikeRate returns the bike TSS-per-hour constant, defaulted.
func (p *AthleteProfile) BikeRate() int {
	if p.BikeTSSPerHour > 0 {
		return p.BikeTSSPerHour
	}
	return defaultTSSPerHour
}

// RunRate returns the run TSS-per-hour constant, defaulted.
func (p *AthleteProfile) RunRate() int {
	if p.RunTSSPerHour > 0 {
		return p.RunTSSPerHour
	}
	return defaultTSSPerHour
}

// StrengthRate returns the strength TSS-per-hour constant, defaulted.
func (p *AthleteProfile) StrengthRate() int {
	if p.StrengthTSSPerHour > 0 {
		return p.StrengthTSSPerHour
	}
	return defaultTSSPerHour
}

// AnchorFor returns the anchor assigned to the weekday, AnchorNone when the
// template has no entry for it.
func (p *AthleteProfile) AnchorFor(day time.Weekday) AnchorType {
	for _, d := range p.Week {
		if d.Day == day {
			if d.Anchor == "" {
				return AnchorNone
			}
			return d.Anchor
		}
	}
	return AnchorNone
}

// AvailableOn reports whether the weekday's availability list permits the
// discipline. A day absent from the template permits nothing.
func (p *AthleteProfile) AvailableOn(day time.Weekday, t WorkoutType) bool {
	for _, d := range p.Week {
		if d.Day != day {
			continue
		}
		for _, w := range d.Available {
			if w == t {
				return true
			}
		}
		return false
	}
	return false
}

// HasTrainingDays reports whether at least one day carries an anchor or a
// non-empty availability list.
func (p *AthleteProfile) HasTrainingDays() bool {
	for _, d := range p.Week {
		if d.Anchor != "" && d.Anchor != AnchorNone {
			return true
		}
		if len(d.Available) > 0 {
			return true
		}
	}
	return false
}
