package service

import (
	"context"
	"errors"
	"io"

	"ironcoach/tri-planner/internal/domain"
	"ironcoach/tri-planner/internal/engine"
	"ironcoach/tri-planner/internal/repository"

	"github.com/tormoder/fit"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNotAnActivityFile = errors.New("file is not a FIT activity recording")
	ErrEmptyActivity     = errors.New("activity file contains no sessions")
	ErrUnusableSession   = errors.New("activity session has no usable duration")
)

// ImportService decodes wearable FIT files into completed logs. It is a thin
// adapter: session-level summary fields only, no raw-sample processing.
type ImportService interface {
	ImportFIT(ctx context.Context, userID primitive.ObjectID, r io.Reader) (*domain.CompletedLog, error)
}

type importService struct {
	logRepo     repository.LogRepository
	profileRepo repository.ProfileRepository
}

// NewImportService creates a new instance of importService.
func NewImportService(logRepo repository.LogRepository, profileRepo repository.ProfileRepository) ImportService {
	return &importService{
		logRepo:     logRepo,
		profileRepo: profileRepo,
	}
}

// ImportFIT decodes the file, maps the first session to a CompletedLog,
// computes its TSS against the athlete's thresholds and stores it.
func (s *importService) ImportFIT(ctx context.Context, userID primitive.ObjectID, r io.Reader) (*domain.CompletedLog, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, err
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, ErrNotAnActivityFile
	}
	if len(activity.Sessions) == 0 {
		return nil, ErrEmptyActivity
	}
	session := activity.Sessions[0]

	durationMinutes := int(session.GetTotalTimerTimeScaled() / 60.0)
	if durationMinutes <= 0 {
		return nil, ErrUnusableSession
	}

	log := &domain.CompletedLog{
		UserID:          userID,
		Date:            session.StartTime,
		WorkoutType:     workoutTypeFromSport(session.Sport),
		DurationMinutes: durationMinutes,
	}

	if hr := int(session.AvgHeartRate); hr > 0 && session.AvgHeartRate != 0xFF {
		log.AvgHeartRate = &hr
	}
	if pw := int(session.AvgPower); pw > 0 && session.AvgPower != 0xFFFF {
		log.AvgPower = &pw
	}
	if dist := session.GetTotalDistanceScaled(); dist > 0 {
		log.DistanceMeters = &dist
	}

	// Profile thresholds drive the TSS computation; without a profile the
	// load model falls back to its duration-based defaults.
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

	id, err := s.logRepo.Create(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = id
	return log, nil
}

func workoutTypeFromSport(sport fit.Sport) domain.WorkoutType {
	switch sport {
	case fit.SportRunning:
		return domain.WorkoutRun
	case fit.SportCycling:
		return domain.WorkoutBike
	case fit.SportSwimming:
		return domain.WorkoutSwim
	case fit.SportTraining, fit.SportFitnessEquipment:
		return domain.WorkoutStrength
	default:
		return domain.WorkoutOther
	}
}
