// Package store persists profiles, tasks and preferences for the API.
package store

import (
	"context"
	"eisenhower-matrix/internal/models"
)

// Store is what the HTTP handlers need from the database. Lookups that miss
// return an apperr NotFound error; a duplicate email on CreateProfile returns
// an apperr Conflict error. Task queries never return archived tasks.
type Store interface {
	CreateProfile(ctx context.Context, p models.Profile) (models.Profile, error)
	ProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	ProfileByID(ctx context.Context, id string) (models.Profile, error)
	UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (models.Profile, error)
	DeactivateProfile(ctx context.Context, id string) error

	ListTasks(ctx context.Context, userID string) ([]models.Task, error)
	ListTasksInQuadrant(ctx context.Context, userID string, q models.Quadrant) ([]models.Task, error)
	RecentTasks(ctx context.Context, userID string, limit int) ([]models.Task, error)
	CreateTask(ctx context.Context, n models.NewTask) (models.Task, error)
	UpdateTask(ctx context.Context, userID, id string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, userID, id string) error
	MoveTasks(ctx context.Context, userID string, ids []string, q models.Quadrant) ([]models.Task, error)
	ArchiveTasks(ctx context.Context, userID string) error

	Preferences(ctx context.Context, userID string) (models.Preferences, error)
	UpsertPreferences(ctx context.Context, p models.Preferences) (models.Preferences, error)
}
