package handlers

import (
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/models"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 100
)

func (h *Handler) GetStats(c *gin.Context) {
	tasks, err := h.store.ListTasks(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		failWith(c, "Get user stats", err, "Failed to fetch user statistics")
		return
	}

	ok(c, http.StatusOK, models.ComputeStats(tasks), "")
}

func (h *Handler) GetPreferences(c *gin.Context) {
	userID := currentUser(c).ID

	preferences, err := h.store.Preferences(c.Request.Context(), userID)
	if errors.Is(err, apperr.ErrNotFound) {
		ok(c, http.StatusOK, models.DefaultPreferences(userID), "")
		return
	}
	if err != nil {
		failWith(c, "Get preferences", err, "Failed to fetch user preferences")
		return
	}

	ok(c, http.StatusOK, preferences, "")
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	request := &models.PreferencesRequest{}
	err := c.ShouldBindBodyWithJSON(request)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	preferences, err := h.store.UpsertPreferences(c.Request.Context(), request.Resolve(currentUser(c).ID))
	if err != nil {
		failWith(c, "Update preferences", err, "Failed to update preferences")
		return
	}

	ok(c, http.StatusOK, preferences, "Preferences updated successfully")
}

func (h *Handler) GetActivity(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defaultActivityLimit
	}
	limit = min(limit, maxActivityLimit)

	tasks, err := h.store.RecentTasks(c.Request.Context(), currentUser(c).ID, limit)
	if err != nil {
		failWith(c, "Get user activity", err, "Failed to fetch user activity")
		return
	}

	ok(c, http.StatusOK, tasks, "")
}

// DeleteAccount deactivates the profile and archives its tasks. A failure to
// archive is logged but does not fail the request.
func (h *Handler) DeleteAccount(c *gin.Context) {
	userID := currentUser(c).ID

	err := h.store.DeactivateProfile(c.Request.Context(), userID)
	if err != nil {
		failWith(c, "Delete account", err, "Failed to delete account")
		return
	}

	if err := h.store.ArchiveTasks(c.Request.Context(), userID); err != nil {
		log.Printf("Archive tasks error: %v", err)
	}

	ok(c, http.StatusOK, nil, "Account deleted successfully")
}
