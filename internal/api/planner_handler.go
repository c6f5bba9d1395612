package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"ironcoach/tri-planner/internal/domain"
	"ironcoach/tri-planner/internal/engine"
	"ironcoach/tri-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// PlannerHandler exposes the season generator, the validation rules and the
// performance metrics over HTTP.
type PlannerHandler struct {
	plannerService service.PlannerService
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(plannerService service.PlannerService) *PlannerHandler {
	return &PlannerHandler{plannerService: plannerService}
}

// --- Request/Response Structs ---

type GenerateSeasonRequest struct {
	StartDate  string  `json:"startDate"` // YYYY-MM-DD, defaults to today
	CurrentCTL float64 `json:"currentCtl"`
	Months     int     `json:"months" binding:"required,min=1"`
}

type ValidatePlacementRequest struct {
	Date            string             `json:"date" binding:"required"` // YYYY-MM-DD
	WorkoutType     domain.WorkoutType `json:"workoutType" binding:"required"`
	SubType         string             `json:"subType"`
	DurationMinutes int                `json:"durationMinutes" binding:"required,min=1"`
	PlannedTSS      int                `json:"plannedTss"`
	IsCommute       bool               `json:"isCommute"`
}

type ValidatePlacementResponse struct {
	Warnings []domain.CoachWarning `json:"warnings"`
	Blocked  bool                  `json:"blocked"`
}

type BudgetPreviewRequest struct {
	TotalTSS         int `json:"totalTss" binding:"required,min=0"`
	StrengthSessions int `json:"strengthSessions" binding:"min=0"`
}

type ReadinessResponse struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

const dateLayout = "2006-01-02"

// parseDateQuery reads a YYYY-MM-DD query parameter, falling back to def
// when absent. The bool reports whether parsing succeeded.
func parseDateQuery(c *gin.Context, name string, def time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s date, expected YYYY-MM-DD", name))
		return time.Time{}, false
	}
	return t, true
}

// --- Handler Methods ---

// GenerateSeason runs the season generator and persists the plan.
func (h *PlannerHandler) GenerateSeason(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req GenerateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	startDate := time.Now().UTC()
	if req.StartDate != "" {
		parsed, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid startDate, expected YYYY-MM-DD")
			return
		}
		startDate = parsed
	}

	season, err := h.plannerService.GenerateSeason(c.Request.Context(), userID, startDate, req.CurrentCTL, req.Months, nil)
	if err != nil {
		var profileErr *engine.ProfileValidationError
		switch {
		case errors.Is(err, service.ErrInvalidHorizon):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, engine.ErrSmartPlanningDisabled):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.As(err, &profileErr):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Profile validation failed",
				"reason": profileErr.Reason,
				"detail": profileErr.Detail,
			})
		case errors.Is(err, engine.ErrNoPlansGenerated):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate season")
		}
		return
	}

	c.JSON(http.StatusCreated, season)
}

// GetPlans returns the stored plan entries in the requested window.
func (h *PlannerHandler) GetPlans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	start, ok := parseDateQuery(c, "start", now)
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end", now.AddDate(0, 0, 28))
	if !ok {
		return
	}
	if !end.After(start) {
		abortWithError(c, http.StatusBadRequest, "end must be after start")
		return
	}

	plans, err := h.plannerService.GetPlans(c.Request.Context(), userID, start, end)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch plans")
		return
	}
	if plans == nil {
		plans = []domain.PlannedWorkout{}
	}
	c.JSON(http.StatusOK, plans)
}

// ClearPlans removes every stored plan entry for the athlete.
func (h *PlannerHandler) ClearPlans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.plannerService.ClearPlans(c.Request.Context(), userID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to clear plans")
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidatePlacement runs a manual edit through the coaching rules without
// persisting anything.
func (h *PlannerHandler) ValidatePlacement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ValidatePlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	candidate := domain.PlannedWorkout{
		UserID:          userID,
		Date:            date,
		WorkoutType:     req.WorkoutType,
		SubType:         req.SubType,
		DurationMinutes: req.DurationMinutes,
		PlannedTSS:      req.PlannedTSS,
		IsCommute:       req.IsCommute,
	}

	warnings, err := h.plannerService.ValidateManualPlacement(c.Request.Context(), userID, candidate)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to validate placement")
		return
	}
	if warnings == nil {
		warnings = []domain.CoachWarning{}
	}

	c.JSON(http.StatusOK, ValidatePlacementResponse{
		Warnings: warnings,
		Blocked:  domain.HasBlocker(warnings),
	})
}

// PreviewBudget returns the discipline split for a hypothetical weekly
// target without generating a plan.
func (h *PlannerHandler) PreviewBudget(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req BudgetPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	budget, err := h.plannerService.PreviewBudget(c.Request.Context(), userID, req.TotalTSS, req.StrengthSessions)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to compute budget")
		return
	}
	c.JSON(http.StatusOK, budget)
}

// GetMetrics returns CTL/ATL/TSB for a date (default today).
func (h *PlannerHandler) GetMetrics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	date, ok := parseDateQuery(c, "date", time.Now().UTC())
	if !ok {
		return
	}

	metrics, err := h.plannerService.GetPerformanceMetrics(c.Request.Context(), userID, date)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute metrics")
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetReadiness returns the 0-100 readiness score for a date (default today).
func (h *PlannerHandler) GetReadiness(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	date, ok := parseDateQuery(c, "date", time.Now().UTC())
	if !ok {
		return
	}

	score, err := h.plannerService.GetReadiness(c.Request.Context(), userID, date)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to compute readiness")
		return
	}
	c.JSON(http.StatusOK, ReadinessResponse{
		Date:  domain.DayOf(date).Format(dateLayout),
		Score: score,
	})
}
