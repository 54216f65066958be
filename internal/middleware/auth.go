package middleware

import (
	"context"
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/models"
	"eisenhower-matrix/internal/token"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userKey = "authUser"

// ProfileLookup resolves the profile a token was issued to.
type ProfileLookup interface {
	ProfileByID(ctx context.Context, id string) (models.Profile, error)
}

// Auth rejects requests without a valid bearer token whose profile still
// exists and is active. On success the caller is available via CurrentUser.
func Auth(jwtKey string, profiles ProfileLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		tokenString = strings.TrimSpace(tokenString)
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Access token required"))
			return
		}

		claims, err := token.Parse(jwtKey, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse("Invalid token"))
			return
		}

		profile, err := profiles.ProfileByID(c.Request.Context(), claims.ID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			log.Printf("auth: profile lookup for %s: %v", claims.ID, err)
		}
		if err != nil || !profile.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Invalid or expired token"))
			return
		}

		c.Set(userKey, models.AuthUser{ID: profile.ID, Email: profile.Email, Role: profile.Role})
		c.Next()
	}
}

// CurrentUser returns the identity set by Auth.
func CurrentUser(c *gin.Context) (models.AuthUser, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return models.AuthUser{}, false
	}
	user, ok := v.(models.AuthUser)
	return user, ok
}
