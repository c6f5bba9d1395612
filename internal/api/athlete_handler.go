package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"ironcoach/tri-planner/internal/domain"
	"ironcoach/tri-planner/internal/repository"
	"ironcoach/tri-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// AthleteHandler serves the athlete's own records: profile, preferences and
// daily wellness entries.
type AthleteHandler struct {
	athleteService service.AthleteService
}

// NewAthleteHandler creates a new AthleteHandler.
func NewAthleteHandler(athleteService service.AthleteService) *AthleteHandler {
	return &AthleteHandler{athleteService: athleteService}
}

// --- Request Structs ---

type WellnessRequest struct {
	Date            string                 `json:"date"` // YYYY-MM-DD, defaults to today
	SleepHours      float64                `json:"sleepHours"`
	SleepQuality    int                    `json:"sleepQuality" binding:"omitempty,min=1,max=5"`
	Soreness        int                    `json:"soreness" binding:"omitempty,min=1,max=5"`
	RestingHR       int                    `json:"restingHr" binding:"omitempty,min=0"`
	AllergySeverity domain.AllergySeverity `json:"allergySeverity" binding:"omitempty,oneof=none mild moderate severe"`
	Notes           string                 `json:"notes"`
}

// --- Handler Methods ---

// GetProfile returns the athlete's profile.
func (h *AthleteHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.athleteService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveProfile creates or replaces the athlete's profile.
func (h *AthleteHandler) SaveProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var profile domain.AthleteProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.athleteService.SaveProfile(c.Request.Context(), userID, &profile); err != nil {
		if errors.Is(err, service.ErrInvalidProfile) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to save profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetPreferences returns the athlete's planner preferences, defaulted when
// none are saved.
func (h *AthleteHandler) GetPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	prefs, err := h.athleteService.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch preferences")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// SavePreferences creates or replaces the athlete's planner preferences.
func (h *AthleteHandler) SavePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var prefs domain.PlannerPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.athleteService.SavePreferences(c.Request.Context(), userID, &prefs); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save preferences")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// GetWellness returns the wellness entry for a date (default today).
func (h *AthleteHandler) GetWellness(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	date, ok := parseDateQuery(c, "date", time.Now().UTC())
	if !ok {
		return
	}

	entry, err := h.athleteService.GetWellness(c.Request.Context(), userID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "No wellness entry for that date")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch wellness entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetWellnessHistory lists wellness entries in the requested window
// (default last 28 days).
func (h *AthleteHandler) GetWellnessHistory(c *gin.Context) {
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

	entries, err := h.athleteService.GetWellnessHistory(c.Request.Context(), userID, start, end)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch wellness history")
		return
	}
	if entries == nil {
		entries = []domain.WellnessEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// SaveWellness records the athlete's wellness entry for a day, replacing any
// existing entry for the same date.
func (h *AthleteHandler) SaveWellness(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req WellnessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	entry := domain.WellnessEntry{
		Date:            date,
		SleepHours:      req.SleepHours,
		SleepQuality:    req.SleepQuality,
		Soreness:        req.Soreness,
		RestingHR:       req.RestingHR,
		AllergySeverity: req.AllergySeverity,
		Notes:           req.Notes,
	}
	if err := h.athleteService.SaveWellness(c.Request.Context(), userID, &entry); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save wellness entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}
