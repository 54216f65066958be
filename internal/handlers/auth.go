package handlers

import (
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/models"
	"eisenhower-matrix/internal/token"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (h *Handler) Register(c *gin.Context) {
	request := &models.Credentials{}
	err := c.ShouldBindBodyWithJSON(request)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(request.Email))
	if email == "" || request.Password == "" {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	if !emailPattern.MatchString(email) {
		fail(c, http.StatusBadRequest, "Invalid email format")
		return
	}
	if len(request.Password) < minPasswordLength {
		fail(c, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		failWith(c, "Registration", err, "Internal server error")
		return
	}

	fullName := strings.TrimSpace(request.FullName)
	if fullName == "" {
		fullName, _, _ = strings.Cut(email, "@")
	}

	profile, err := h.store.CreateProfile(c.Request.Context(), models.Profile{
		Email:    email,
		Password: string(hashed),
		FullName: fullName,
		Role:     models.DefaultRole,
	})
	if err != nil {
		failWith(c, "Profile creation", err, "Failed to create user profile")
		return
	}

	tokenString, err := token.Issue(h.jwtKey, profile.ID, profile.Email, h.tokenTTL, h.now())
	if err != nil {
		failWith(c, "Registration", err, "Internal server error")
		return
	}

	ok(c, http.StatusCreated, models.AuthResult{User: profile, Token: tokenString}, "User registered successfully")
}

func (h *Handler) Login(c *gin.Context) {
	request := &models.Credentials{}
	err := c.ShouldBindBodyWithJSON(request)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(request.Email))
	if email == "" || request.Password == "" {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	profile, err := h.store.ProfileByEmail(c.Request.Context(), email)
	if errors.Is(err, apperr.ErrNotFound) {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		failWith(c, "Login", err, "Internal server error")
		return
	}
	if !profile.IsActive {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(request.Password))
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokenString, err := token.Issue(h.jwtKey, profile.ID, profile.Email, h.tokenTTL, h.now())
	if err != nil {
		failWith(c, "Login", err, "Internal server error")
		return
	}

	ok(c, http.StatusOK, models.AuthResult{User: profile, Token: tokenString}, "Login successful")
}

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.store.ProfileByID(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		failWith(c, "Get profile", err, "Internal server error")
		return
	}

	ok(c, http.StatusOK, models.ProfileResult{User: profile}, "")
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	request := &models.ProfilePatch{}
	err := c.ShouldBindBodyWithJSON(request)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.store.UpdateProfile(c.Request.Context(), currentUser(c).ID, *request)
	if err != nil {
		failWith(c, "Update profile", err, "Failed to update profile")
		return
	}

	ok(c, http.StatusOK, models.ProfileResult{User: profile}, "Profile updated successfully")
}

// Logout only acknowledges; tokens are dropped client-side.
func (h *Handler) Logout(c *gin.Context) {
	ok(c, http.StatusOK, nil, "Logged out successfully")
}
