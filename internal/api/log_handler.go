package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"ironcoach/tri-planner/internal/domain"
	"ironcoach/tri-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// Uploaded FIT files above this size are rejected before decoding.
const maxFITUploadBytes = 10 << 20 // 10 MiB

// LogHandler serves the athlete's completed-workout history: listing,
// manual entry and FIT file import.
type LogHandler struct {
	athleteService service.AthleteService
	importService  service.ImportService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(athleteService service.AthleteService, importService service.ImportService) *LogHandler {
	return &LogHandler{
		athleteService: athleteService,
		importService:  importService,
	}
}

// --- Request Structs ---

type LogWorkoutRequest struct {
	Date            string             `json:"date" binding:"required"` // YYYY-MM-DD
	WorkoutType     domain.WorkoutType `json:"workoutType" binding:"required"`
	DurationMinutes int                `json:"durationMinutes" binding:"required,min=1"`
	AvgHeartRate    *int               `json:"avgHeartRate"`
	AvgPower        *int               `json:"avgPower"`
	DistanceMeters  *float64           `json:"distanceMeters"`
	ComputedTSS     *int               `json:"computedTss"`
	IsCommute       bool               `json:"isCommute"`
}

// --- Handler Methods ---

// GetLogs lists completed logs in the requested window (default last 28 days).
func (h *LogHandler) GetLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	start, ok := parseDateQuery(c, "start", now.AddDate(0, 0, -28))
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end", now.AddDate(0, 0, 1))
	if !ok {
		return
	}
	if !end.After(start) {
		abortWithError(c, http.StatusBadRequest, "end must be after start")
		return
	}

	logs, err := h.athleteService.GetLogs(c.Request.Context(), userID, start, end)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch logs")
		return
	}
	if logs == nil {
		logs = []domain.CompletedLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// LogWorkout records a manually entered completed workout.
func (h *LogHandler) LogWorkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	log := domain.CompletedLog{
		Date:            date,
		WorkoutType:     req.WorkoutType,
		DurationMinutes: req.DurationMinutes,
		AvgHeartRate:    req.AvgHeartRate,
		AvgPower:        req.AvgPower,
		DistanceMeters:  req.DistanceMeters,
		ComputedTSS:     req.ComputedTSS,
		IsCommute:       req.IsCommute,
	}

	created, err := h.athleteService.LogWorkout(c.Request.Context(), userID, &log)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLogDuration) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to save log")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ImportFIT decodes an uploaded FIT activity file into a completed log.
// The file arrives as the raw request body.
func (h *LogHandler) ImportFIT(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if c.Request.ContentLength > maxFITUploadBytes {
		abortWithError(c, http.StatusRequestEntityTooLarge, "FIT file too large")
		return
	}
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxFITUploadBytes)
	defer body.Close()

	log, err := h.importService.ImportFIT(c.Request.Context(), userID, body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAnActivityFile),
			errors.Is(err, service.ErrEmptyActivity),
			errors.Is(err, service.ErrUnusableSession):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Failed to decode FIT file: %v", err))
		}
		return
	}
	c.JSON(http.StatusCreated, log)
}
