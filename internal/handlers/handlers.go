package handlers

import (
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/middleware"
	"eisenhower-matrix/internal/models"
	"eisenhower-matrix/internal/store"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	store    store.Store
	jwtKey   string
	tokenTTL time.Duration
	now      func() time.Time
}

func New(s store.Store, jwtKey string, tokenTTL time.Duration) *Handler {
	return &Handler{store: s, jwtKey: jwtKey, tokenTTL: tokenTTL, now: time.Now}
}

// Routes registers every endpoint on router.
func (h *Handler) Routes(router *gin.Engine) {
	router.GET("/health", h.Health)

	auth := middleware.Auth(h.jwtKey, h.store)

	api := router.Group("/api")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/auth/profile", auth, h.GetProfile)
		api.PUT("/auth/profile", auth, h.UpdateProfile)
		api.POST("/auth/logout", auth, h.Logout)

		api.GET("/tasks", auth, h.GetTasks)
		api.POST("/tasks", auth, h.CreateTask)
		api.PATCH("/tasks/bulk", auth, h.BulkMoveTasks)
		api.GET("/tasks/quadrant/:quadrant", auth, h.GetTasksByQuadrant)
		api.PUT("/tasks/:id", auth, h.UpdateTask)
		api.DELETE("/tasks/:id", auth, h.DeleteTask)

		api.GET("/users/stats", auth, h.GetStats)
		api.GET("/users/preferences", auth, h.GetPreferences)
		api.PUT("/users/preferences", auth, h.UpdatePreferences)
		api.GET("/users/activity", auth, h.GetActivity)
		api.DELETE("/users/account", auth, h.DeleteAccount)
	}
}

func parseId(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func currentUser(c *gin.Context) models.AuthUser {
	user, _ := middleware.CurrentUser(c)
	return user
}

func ok(c *gin.Context, status int, data any, message string) {
	c.JSON(status, models.Response{Success: true, Data: data, Message: message})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, models.ErrorResponse(msg))
}

// failWith answers with the status of err's kind. Server-side failures are
// logged under op and answered with fallback so no internals leak.
func failWith(c *gin.Context, op string, err error, fallback string) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s error: %v", op, err)
		fail(c, status, fallback)
		return
	}
	fail(c, status, apperr.Message(err, fallback))
}
