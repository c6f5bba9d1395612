package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ironcoach/tri-planner/internal/domain"
	"ironcoach/tri-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- In-memory repository fakes ---

type fakeProfileRepo struct {
	profile *domain.AthleteProfile
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, _ primitive.ObjectID) (*domain.AthleteProfile, error) {
	if r.profile == nil {
		return nil, repository.ErrNotFound
	}
	return r.profile, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *domain.AthleteProfile) error {
	r.profile = profile
	return nil
}

type fakeLogRepo struct {
	logs  []domain.CompletedLog
	loads map[domain.WorkoutType]int
}

func (r *fakeLogRepo) Create(_ context.Context, log *domain.CompletedLog) (primitive.ObjectID, error) {
	log.ID = primitive.NewObjectID()
	r.logs = append(r.logs, *log)
	return log.ID, nil
}

func (r *fakeLogRepo) GetByDateRange(_ context.Context, _ primitive.ObjectID, start, end time.Time) ([]domain.CompletedLog, error) {
	var out []domain.CompletedLog
	for _, l := range r.logs {
		if !l.Date.Before(start) && l.Date.Before(end) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) GetRecentDisciplineLoads(_ context.Context, _ primitive.ObjectID, _ time.Time) (map[domain.WorkoutType]int, error) {
	if r.loads == nil {
		return map[domain.WorkoutType]int{}, nil
	}
	return r.loads, nil
}

type fakePlanRepo struct {
	plans         []domain.PlannedWorkout
	replacedStart time.Time
	replacedEnd   time.Time
}

func (r *fakePlanRepo) GetByDateRange(_ context.Context, _ primitive.ObjectID, start, end time.Time) ([]domain.PlannedWorkout, error) {
	var out []domain.PlannedWorkout
	for _, p := range r.plans {
		if !p.Date.Before(start) && p.Date.Before(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) ReplaceRange(_ context.Context, _ primitive.ObjectID, start, end time.Time, plans []domain.PlannedWorkout) error {
	r.plans = plans
	r.replacedStart = start
	r.replacedEnd = end
	return nil
}

func (r *fakePlanRepo) DeleteByUser(_ context.Context, _ primitive.ObjectID) error {
	r.plans = nil
	return nil
}

type fakePrefsRepo struct {
	prefs *domain.PlannerPreferences
}

func (r *fakePrefsRepo) GetByUserID(_ context.Context, _ primitive.ObjectID) (*domain.PlannerPreferences, error) {
	if r.prefs == nil {
		return nil, repository.ErrNotFound
	}
	return r.prefs, nil
}

func (r *fakePrefsRepo) Upsert(_ context.Context, prefs *domain.PlannerPreferences) error {
	r.prefs = prefs
	return nil
}

type fakeWellnessRepo struct {
	entries []domain.WellnessEntry
}

func (r *fakeWellnessRepo) GetByDate(_ context.Context, _ primitive.ObjectID, date time.Time) (*domain.WellnessEntry, error) {
	day := domain.DayOf(date)
	for i := range r.entries {
		if domain.DayOf(r.entries[i].Date).Equal(day) {
			return &r.entries[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWellnessRepo) GetByDateRange(_ context.Context, _ primitive.ObjectID, start, end time.Time) ([]domain.WellnessEntry, error) {
	var out []domain.WellnessEntry
	for _, e := range r.entries {
		if !e.Date.Before(start) && e.Date.Before(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeWellnessRepo) Upsert(_ context.Context, entry *domain.WellnessEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

// --- Fixtures ---

var testStart = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC) // a Monday

func testProfile(start time.Time, months int) *domain.AthleteProfile {
	goal := start.AddDate(0, 0, months*28+14)
	week := make([]domain.DayTemplate, 0, 7)
	for d := 0; d < 7; d++ {
		week = append(week, domain.DayTemplate{
			Day:    time.Weekday((int(time.Monday) + d) % 7),
			Anchor: domain.AnchorNone,
			Available: []domain.WorkoutType{
				domain.WorkoutRun, domain.WorkoutBike, domain.WorkoutSwim, domain.WorkoutStrength,
			},
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
			Preset:      domain.PresetOlympic,
			BikePercent: 50,
			RunPercent:  30,
			SwimPercent: 20,
		},
	}
}

type plannerFixture struct {
	profiles *fakeProfileRepo
	logs     *fakeLogRepo
	plans    *fakePlanRepo
	prefs    *fakePrefsRepo
	wellness *fakeWellnessRepo
	svc      PlannerService
}

func newPlannerFixture(profile *domain.AthleteProfile) *plannerFixture {
	f := &plannerFixture{
		profiles: &fakeProfileRepo{profile: profile},
		logs:     &fakeLogRepo{},
		plans:    &fakePlanRepo{},
		prefs:    &fakePrefsRepo{},
		wellness: &fakeWellnessRepo{},
	}
	f.svc = NewPlannerService(f.profiles, f.logs, f.plans, f.prefs, f.wellness, DefaultPlannerOptions())
	return f
}

// --- Tests ---

func TestGenerateSeason_InvalidHorizon(t *testing.T) {
	f := newPlannerFixture(testProfile(testStart, 3))
	userID := primitive.NewObjectID()

	for _, months := range []int{0, -1, 25} {
		_, err := f.svc.GenerateSeason(context.Background(), userID, testStart, 45, months, nil)
		if !errors.Is(err, ErrInvalidHorizon) {
			t.Errorf("months=%d: err = %v, want ErrInvalidHorizon", months, err)
		}
	}
}

func TestGenerateSeason_MissingProfile(t *testing.T) {
	f := newPlannerFixture(nil)

	_, err := f.svc.GenerateSeason(context.Background(), primitive.NewObjectID(), testStart, 45, 3, nil)
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestGenerateSeason_PersistsPlans(t *testing.T) {
	f := newPlannerFixture(testProfile(testStart, 2))
	userID := primitive.NewObjectID()

	season, err := f.svc.GenerateSeason(context.Background(), userID, testStart, 45, 2, nil)
	if err != nil {
		t.Fatalf("GenerateSeason failed: %v", err)
	}
	if len(season.Plans) == 0 {
		t.Fatal("expected generated plans")
	}
	if len(f.plans.plans) != len(season.Plans) {
		t.Errorf("persisted %d plans, returned %d", len(f.plans.plans), len(season.Plans))
	}

	wantStart := domain.DayOf(testStart)
	wantEnd := wantStart.AddDate(0, 0, 2*28)
	if !f.plans.replacedStart.Equal(wantStart) || !f.plans.replacedEnd.Equal(wantEnd) {
		t.Errorf("replaced window [%v, %v), want [%v, %v)",
			f.plans.replacedStart, f.plans.replacedEnd, wantStart, wantEnd)
	}
}

func TestGenerateSeason_MidWeekStartReplaceWindow(t *testing.T) {
	wednesday := testStart.AddDate(0, 0, 2)
	f := newPlannerFixture(testProfile(wednesday, 2))
	userID := primitive.NewObjectID()

	season, err := f.svc.GenerateSeason(context.Background(), userID, wednesday, 45, 2, nil)
	if err != nil {
		t.Fatalf("GenerateSeason failed: %v", err)
	}

	// The generator backs up to Monday; the replace window must cover the
	// whole first week or a regenerate duplicates its early days.
	if !f.plans.replacedStart.Equal(testStart) {
		t.Errorf("replace window starts %v, want the Monday %v", f.plans.replacedStart, testStart)
	}
	for _, p := range season.Plans {
		if p.Date.Before(f.plans.replacedStart) || !p.Date.Before(f.plans.replacedEnd) {
			t.Errorf("plan dated %v falls outside replace window [%v, %v)",
				p.Date, f.plans.replacedStart, f.plans.replacedEnd)
		}
	}
}

func TestGenerateSeason_DefaultPreferencesWhenUnsaved(t *testing.T) {
	f := newPlannerFixture(testProfile(testStart, 1))

	// No saved preferences: the server defaults apply, with smart planning
	// enabled, so generation proceeds.
	if _, err := f.svc.GenerateSeason(context.Background(), primitive.NewObjectID(), testStart, 45, 1, nil); err != nil {
		t.Fatalf("GenerateSeason with default preferences failed: %v", err)
	}

	// Saved preferences with the feature off win over server defaults.
	prefs := domain.DefaultPreferences()
	prefs.SmartPlanningEnabled = false
	f.prefs.prefs = &prefs
	_, err := f.svc.GenerateSeason(context.Background(), primitive.NewObjectID(), testStart, 45, 1, nil)
	if err == nil {
		t.Fatal("expected error with smart planning disabled")
	}
}

func TestValidateManualPlacement_ConsecutiveRunBlocked(t *testing.T) {
	f := newPlannerFixture(testProfile(testStart, 3))
	userID := primitive.NewObjectID()

	tss := 45
	f.logs.logs = []domain.CompletedLog{{
		UserID:          userID,
		Date:            testStart.AddDate(0, 0, -1),
		WorkoutType:     domain.WorkoutRun,
		DurationMinutes: 45,
		ComputedTSS:     &tss,
	}}

	candidate := domain.PlannedWorkout{
		Date:            testStart,
		WorkoutType:     domain.WorkoutRun,
		DurationMinutes: 40,
		PlannedTSS:      40,
	}
	warnings, err := f.svc.ValidateManualPlacement(context.Background(), userID, candidate)
	if err != nil {
		t.Fatalf("ValidateManualPlacement failed: %v", err)
	}
	if !domain.HasBlocker(warnings) {
		t.Errorf("expected a blocking warning for back-to-back runs, got %v", warnings)
	}
}

func TestValidateManualPlacement_AllergyFromWellnessEntry(t *testing.T) {
	f := newPlannerFixture(testProfile(testStart, 3))
	userID := primitive.NewObjectID()

	f.wellness.entries = []domain.WellnessEntry{{
		UserID:          userID,
		Date:            testStart,
		AllergySeverity: domain.AllergySevere,
	}}

	candidate := domain.PlannedWorkout{
		Date:            testStart,
		WorkoutType:     domain.WorkoutBike,
		SubType:         "interval",
		DurationMinutes: 60,
		PlannedTSS:      80,
	}
	warnings, err := f.svc.ValidateManualPlacement(context.Background(), userID, candidate)
	if err != nil {
		t.Fatalf("ValidateManualPlacement failed: %v", err)
	}
	if !domain.HasBlocker(warnings) {
		t.Errorf("expected severe allergy to block an intense session, got %v", warnings)
	}
}

func TestGetPerformanceMetrics_UsesStoredLogs(t *testing.T) {
	f := newPlannerFixture(testProfile(testStart, 3))
	userID := primitive.NewObjectID()

	tss := 42
	f.logs.logs = []domain.CompletedLog{{
		UserID:          userID,
		Date:            testStart,
		WorkoutType:     domain.WorkoutBike,
		DurationMinutes: 60,
		ComputedTSS:     &tss,
	}}

	metrics, err := f.svc.GetPerformanceMetrics(context.Background(), userID, testStart)
	if err != nil {
		t.Fatalf("GetPerformanceMetrics failed: %v", err)
	}
	if metrics.CTL == 0 && metrics.ATL == 0 {
		t.Error("expected non-zero load metrics from a logged workout")
	}
	if metrics.TSB >= 0 {
		t.Errorf("TSB = %v, want negative right after a hard day", metrics.TSB)
	}
}
