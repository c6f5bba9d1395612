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
	ErrInvalidProfile     = errors.New("profile fails validation")
	ErrInvalidLogDuration = errors.New("log duration must be positive")
)

// AthleteService manages the athlete's own records: profile, preferences,
// wellness entries and manually logged workouts.
type AthleteService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.AthleteProfile, error)
	SaveProfile(ctx context.Context, userID primitive.ObjectID, profile *domain.AthleteProfile) error
	GetPreferences(ctx context.Context, userID primitive.ObjectID) (*domain.PlannerPreferences, error)
	SavePreferences(ctx context.Context, userID primitive.ObjectID, prefs *domain.PlannerPreferences) error
	GetWellness(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.WellnessEntry, error)
	GetWellnessHistory(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.WellnessEntry, error)
	SaveWellness(ctx context.Context, userID primitive.ObjectID, entry *domain.WellnessEntry) error
	GetLogs(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.CompletedLog, error)
	LogWorkout(ctx context.Context, userID primitive.ObjectID, log *domain.CompletedLog) (*domain.CompletedLog, error)
}

type athleteService struct {
	profileRepo  repository.ProfileRepository
	prefsRepo    repository.PreferencesRepository
	wellnessRepo repository.WellnessRepository
	logRepo      repository.LogRepository
}

// NewAthleteService creates a new instance of athleteService.
func NewAthleteService(
	profileRepo repository.ProfileRepository,
	prefsRepo repository.PreferencesRepository,
	wellnessRepo repository.WellnessRepository,
	logRepo repository.LogRepository,
) AthleteService {
	return &athleteService{
		profileRepo:  profileRepo,
		prefsRepo:    prefsRepo,
		wellnessRepo: wellnessRepo,
		logRepo:      logRepo,
	}
}

func (s *athleteService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.AthleteProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *athleteService) SaveProfile(ctx context.Context, userID primitive.ObjectID, profile *domain.AthleteProfile) error {
	if profile.MaxHeartRate < 0 || profile.FTP < 0 || profile.StrengthSessions < 0 {
		return ErrInvalidProfile
	}
	sum := profile.Balance.BikePercent + profile.Balance.RunPercent + profile.Balance.SwimPercent
	if sum != 0 && sum != 100 {
		return ErrInvalidProfile
	}
	profile.UserID = userID
	return s.profileRepo.Upsert(ctx, profile)
}

// GetPreferences never fails on a fresh account; athletes without saved
// preferences get the defaults.
func (s *athleteService) GetPreferences(ctx context.Context, userID primitive.ObjectID) (*domain.PlannerPreferences, error) {
	prefs, err := s.prefsRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			defaults := domain.DefaultPreferences()
			defaults.UserID = userID
			return &defaults, nil
		}
		return nil, err
	}
	return prefs, nil
}

func (s *athleteService) SavePreferences(ctx context.Context, userID primitive.ObjectID, prefs *domain.PlannerPreferences) error {
	prefs.UserID = userID
	if prefs.Strategy == "" {
		prefs.Strategy = domain.StrategyAnchor
	}
	return s.prefsRepo.Upsert(ctx, prefs)
}

func (s *athleteService) GetWellness(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.WellnessEntry, error) {
	return s.wellnessRepo.GetByDate(ctx, userID, domain.DayOf(date))
}

func (s *athleteService) GetWellnessHistory(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.WellnessEntry, error) {
	return s.wellnessRepo.GetByDateRange(ctx, userID, start, end)
}

func (s *athleteService) SaveWellness(ctx context.Context, userID primitive.ObjectID, entry *domain.WellnessEntry) error {
	entry.UserID = userID
	entry.Date = domain.DayOf(entry.Date)
	return s.wellnessRepo.Upsert(ctx, entry)
}

func (s *athleteService) GetLogs(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.CompletedLog, error) {
	return s.logRepo.GetByDateRange(ctx, userID, start, end)
}

// LogWorkout records a manually entered workout. TSS is computed from the
// athlete's thresholds unless the caller supplied one.
func (s *athleteService) LogWorkout(ctx context.Context, userID primitive.ObjectID, log *domain.CompletedLog) (*domain.CompletedLog, error) {
	if log.DurationMinutes <= 0 {
		return nil, ErrInvalidLogDuration
	}
	log.UserID = userID

	if log.ComputedTSS == nil {
		profile, err := s.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			profile = &domain.AthleteProfile{}
		}
		avgHR, avgPower := 0, 0
		if log.AvgHeartRate != nil {
			avgHR = *log.AvgHeartRate
		}
		if log.AvgPower != nil {
			avgPower = *log.AvgPower
		}
		tss := engine.CalculateTSS(log.WorkoutType, log.DurationMinutes, avgHR, avgPower, profile)
		log.ComputedTSS = &tss
	}

	id, err := s.logRepo.Create(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = id
	return log, nil
}
