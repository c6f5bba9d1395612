package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ironcoach/tri-planner/internal/domain"
	"ironcoach/tri-planner/internal/repository"
	"ironcoach/tri-planner/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var ErrNothingToBackup = errors.New("no profile or plans to back up")

const backupDownloadExpiry = 1 * time.Hour

// planSnapshot is the JSON document uploaded to object storage. It carries
// everything needed to restore an athlete's planning state.
type planSnapshot struct {
	BackupID    string                     `json:"backupId"`
	UserID      string                     `json:"userId"`
	CreatedAt   time.Time                  `json:"createdAt"`
	Profile     *domain.AthleteProfile     `json:"profile,omitempty"`
	Preferences *domain.PlannerPreferences `json:"preferences,omitempty"`
	Plans       []domain.PlannedWorkout    `json:"plans"`
}

// BackupResult is returned to the caller after a successful backup.
type BackupResult struct {
	BackupID    string    `json:"backupId"`
	PlanCount   int       `json:"planCount"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// BackupService exports an athlete's planning state to object storage and
// hands back a time-limited download link.
type BackupService interface {
	CreateBackup(ctx context.Context, userID primitive.ObjectID) (*BackupResult, error)
	DeleteBackup(ctx context.Context, userID primitive.ObjectID) error
}

type backupService struct {
	profileRepo repository.ProfileRepository
	prefsRepo   repository.PreferencesRepository
	planRepo    repository.PlanRepository
	fileStorage storage.FileStorage
}

// NewBackupService creates a new instance of backupService.
func NewBackupService(
	profileRepo repository.ProfileRepository,
	prefsRepo repository.PreferencesRepository,
	planRepo repository.PlanRepository,
	fileStorage storage.FileStorage,
) BackupService {
	return &backupService{
		profileRepo: profileRepo,
		prefsRepo:   prefsRepo,
		planRepo:    planRepo,
		fileStorage: fileStorage,
	}
}

// backupObjectKey is deterministic per user so a new backup replaces the
// previous one and deletion needs no bookkeeping.
func backupObjectKey(userID primitive.ObjectID) string {
	return fmt.Sprintf("backups/%s/plan-backup.json", userID.Hex())
}

func (s *backupService) CreateBackup(ctx context.Context, userID primitive.ObjectID) (*BackupResult, error) {
	snapshot := planSnapshot{
		BackupID:  uuid.NewString(),
		UserID:    userID.Hex(),
		CreatedAt: time.Now().UTC(),
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	snapshot.Profile = profile

	prefs, err := s.prefsRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	snapshot.Preferences = prefs

	// A two-year window either side of now covers any plan the generator
	// can produce.
	now := time.Now().UTC()
	plans, err := s.planRepo.GetByDateRange(ctx, userID, now.AddDate(-2, 0, 0), now.AddDate(2, 0, 0))
	if err != nil {
		return nil, err
	}
	snapshot.Plans = plans

	if snapshot.Profile == nil && len(snapshot.Plans) == 0 {
		return nil, ErrNothingToBackup
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize backup: %w", err)
	}

	key := backupObjectKey(userID)
	if err := s.fileStorage.PutObject(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("failed to upload backup: %w", err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, backupDownloadExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate backup download URL: %w", err)
	}

	return &BackupResult{
		BackupID:    snapshot.BackupID,
		PlanCount:   len(snapshot.Plans),
		DownloadURL: url,
		ExpiresAt:   time.Now().UTC().Add(backupDownloadExpiry),
	}, nil
}

func (s *backupService) DeleteBackup(ctx context.Context, userID primitive.ObjectID) error {
	return s.fileStorage.DeleteObject(ctx, backupObjectKey(userID))
}
