package api

import (
	"errors"
	"net/http"

	"ironcoach/tri-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// BackupHandler exposes plan backup and restore-link generation.
type BackupHandler struct {
	backupService service.BackupService
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backupService service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// CreateBackup snapshots the athlete's planning state to object storage and
// returns a time-limited download link.
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.backupService.CreateBackup(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNothingToBackup) {
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create backup")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// DeleteBackup removes the athlete's stored backup object.
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.backupService.DeleteBackup(c.Request.Context(), userID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to delete backup")
		return
	}
	c.Status(http.StatusNoContent)
}
