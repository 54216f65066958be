package handlers

import (
	"eisenhower-matrix/internal/models"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	ok(c, http.StatusOK, models.HealthResponse{Status: "ok", Timestamp: h.now().UTC().Format(time.RFC3339)}, "")
}
