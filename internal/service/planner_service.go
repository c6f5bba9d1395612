package service

import (
	"context"
	"errors"
	"time"

	"ironcoach/tri-planner/internal/domain"
	"ironcoach/tri-planner/internal/engine"
	"ironcoach/tri-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProfileNotFound = errors.New("athlete profile not set up")
	ErrInvalidHorizon  = errors.New("season horizon months out of allowed range")
)

// Days of history snapshotted as cold-start context when the caller supplies
// no recent logs, and the window validation rules look back over.
const historyWindowDays = 14

// PlannerOptions are server-level planner settings. They seed the defaults
// handed to athletes without saved preferences and bound the horizon any
// caller may request.
type PlannerOptions struct {
	DefaultStrategy     domain.SchedulingStrategyName
	DefaultRampLimit    int
	MaxHorizonMonths    int
	EnableSmartPlanning bool
}

// DefaultPlannerOptions mirrors the shipped config defaults.
func DefaultPlannerOptions() PlannerOptions {
	return PlannerOptions{
		DefaultStrategy:     domain.StrategyAnchor,
		DefaultRampLimit:    5,
		MaxHorizonMonths:    24,
		EnableSmartPlanning: true,
	}
}

// GeneratedSeason is the persisted outcome of a generation call.
type GeneratedSeason struct {
	Plans    []domain.PlannedWorkout `json:"plans"`
	Warnings []domain.CoachWarning   `json:"warnings"`
}

// PlannerService is the application-facing surface of the planning engine.
// Every method snapshots profile, preferences and history once at entry so a
// single call stays internally consistent even when the backing stores are
// written concurrently.
type PlannerService interface {
	GenerateSeason(ctx context.Context, userID primitive.ObjectID, startDate time.Time, currentCTL float64, months int, recentLogs []domain.CompletedLog) (*GeneratedSeason, error)
	PreviewBudget(ctx context.Context, userID primitive.ObjectID, totalTSS, strengthSessions int) (*domain.DisciplineBudget, error)
	ValidateManualPlacement(ctx context.Context, userID primitive.ObjectID, candidate domain.PlannedWorkout) ([]domain.CoachWarning, error)
	GetPerformanceMetrics(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.PerformanceMetrics, error)
	GetReadiness(ctx context.Context, userID primitive.ObjectID, date time.Time) (int, error)
	GetPlans(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.PlannedWorkout, error)
	ClearPlans(ctx context.Context, userID primitive.ObjectID) error
}

type plannerService struct {
	profileRepo  repository.ProfileRepository
	logRepo      repository.LogRepository
	planRepo     repository.PlanRepository
	prefsRepo    repository.PreferencesRepository
	wellnessRepo repository.WellnessRepository
	opts         PlannerOptions
}

// NewPlannerService creates a new instance of plannerService.
func NewPlannerService(
	profileRepo repository.ProfileRepository,
	logRepo repository.LogRepository,
	planRepo repository.PlanRepository,
	prefsRepo repository.PreferencesRepository,
	wellnessRepo repository.WellnessRepository,
	opts PlannerOptions,
) PlannerService {
	if opts.MaxHorizonMonths <= 0 {
		opts = DefaultPlannerOptions()
	}
	return &plannerService{
		profileRepo:  profileRepo,
		logRepo:      logRepo,
		planRepo:     planRepo,
		prefsRepo:    prefsRepo,
		wellnessRepo: wellnessRepo,
		opts:         opts,
	}
}

// GenerateSeason snapshots the athlete's context, runs the season generator
// and persists the result over any previously planned future range.
func (s *plannerService) GenerateSeason(ctx context.Context, userID primitive.ObjectID, startDate time.Time, currentCTL float64, months int, recentLogs []domain.CompletedLog) (*GeneratedSeason, error) {
	if months < 1 || months > s.opts.MaxHorizonMonths {
		return nil, ErrInvalidHorizon
	}

	profile, prefs, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Cold start: without caller-supplied context, the trailing two weeks of
	// real history seed the validation rules.
	if len(recentLogs) == 0 {
		recentLogs, err = s.logRepo.GetByDateRange(ctx, userID, startDate.AddDate(0, 0, -historyWindowDays), startDate)
		if err != nil {
			return nil, err
		}
	}

	recentLoads, err := s.logRepo.GetRecentDisciplineLoads(ctx, userID, startDate)
	if err != nil {
		return nil, err
	}

	result, err := engine.NewGenerator(prefs.Strategy).GenerateSeason(ctx, engine.SeasonInput{
		StartDate:   startDate,
		CurrentCTL:  currentCTL,
		Months:      months,
		Profile:     profile,
		Preferences: prefs,
		RecentLogs:  recentLogs,
		RecentLoads: recentLoads,
	})
	if err != nil {
		return nil, err
	}

	// The generator truncates the season start to Monday, so the replace
	// window must do the same or a mid-week start leaves that week's earlier
	// plans outside the deleted range.
	horizonStart := engine.MondayOf(startDate)
	horizonEnd := horizonStart.AddDate(0, 0, months*4*7)
	if err := s.planRepo.ReplaceRange(ctx, userID, horizonStart, horizonEnd, result.Plans); err != nil {
		return nil, err
	}

	return &GeneratedSeason{Plans: result.Plans, Warnings: result.Warnings}, nil
}

// PreviewBudget exposes the budget split standalone so a UI can show the
// effect of a target before generating anything.
func (s *plannerService) PreviewBudget(ctx context.Context, userID primitive.ObjectID, totalTSS, strengthSessions int) (*domain.DisciplineBudget, error) {
	profile, _, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	recentLoads, err := s.logRepo.GetRecentDisciplineLoads(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	budget := engine.CalculateDisciplineBudget(totalTSS, profile.Balance, strengthSessions, recentLoads)
	return &budget, nil
}

// ValidateManualPlacement runs a manual edit through the exact rules the
// generator uses, with the wellness-aware path when an entry exists for the
// day.
func (s *plannerService) ValidateManualPlacement(ctx context.Context, userID primitive.ObjectID, candidate domain.PlannedWorkout) ([]domain.CoachWarning, error) {
	_, prefs, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	day := domain.DayOf(candidate.Date)
	logs, err := s.logRepo.GetByDateRange(ctx, userID, day.AddDate(0, 0, -historyWindowDays), day)
	if err != nil {
		return nil, err
	}
	plans, err := s.planRepo.GetByDateRange(ctx, userID, day.AddDate(0, 0, -historyWindowDays), day)
	if err != nil {
		return nil, err
	}

	history := make([]domain.ScheduledActivity, 0, len(logs)+len(plans))
	for _, l := range logs {
		history = append(history, l)
	}
	for _, p := range plans {
		history = append(history, p)
	}

	wellness, err := s.wellnessRepo.GetByDate(ctx, userID, day)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return engine.CheckDayWithWellness(candidate, history, wellness, engine.RulesConfigFrom(prefs)), nil
}

// GetPerformanceMetrics recomputes CTL/ATL/TSB for the date from the stored
// log history.
func (s *plannerService) GetPerformanceMetrics(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.PerformanceMetrics, error) {
	day := domain.DayOf(date)
	// The 42-day constant means anything older than ~6 months contributes
	// nothing measurable.
	logs, err := s.logRepo.GetByDateRange(ctx, userID, day.AddDate(0, -6, 0), day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	metrics := engine.CalculatePerformanceMetrics(logs, day)
	return &metrics, nil
}

// GetReadiness folds the day's wellness entry and form into a 0-100 score.
func (s *plannerService) GetReadiness(ctx context.Context, userID primitive.ObjectID, date time.Time) (int, error) {
	profile, _, err := s.snapshot(ctx, userID)
	if err != nil {
		return 0, err
	}
	metrics, err := s.GetPerformanceMetrics(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	wellness, err := s.wellnessRepo.GetByDate(ctx, userID, date)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	return engine.ComputeReadiness(wellness, *metrics, profile.RestingHRBaseline), nil
}

// GetPlans returns the stored plan entries in [start, end).
func (s *plannerService) GetPlans(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.PlannedWorkout, error) {
	return s.planRepo.GetByDateRange(ctx, userID, start, end)
}

// ClearPlans drops every stored plan entry for the athlete.
func (s *plannerService) ClearPlans(ctx context.Context, userID primitive.ObjectID) error {
	return s.planRepo.DeleteByUser(ctx, userID)
}

// snapshot resolves the profile and preferences once. Missing preferences
// fall back to defaults; a missing profile is an error the engine's own
// validation would also catch, surfaced early here with a service-level
// sentinel.
func (s *plannerService) snapshot(ctx context.Context, userID primitive.ObjectID) (*domain.AthleteProfile, domain.PlannerPreferences, error) {
	prefs := domain.DefaultPreferences()
	prefs.SmartPlanningEnabled = s.opts.EnableSmartPlanning
	prefs.RampRateLimit = s.opts.DefaultRampLimit
	prefs.Strategy = s.opts.DefaultStrategy
	stored, err := s.prefsRepo.GetByUserID(ctx, userID)
	if err == nil {
		prefs = *stored
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, prefs, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, prefs, ErrProfileNotFound
		}
		return nil, prefs, err
	}
	return profile, prefs, nil
}
