package gateway

import (
	"context"
	"eisenhower-matrix/internal/apiclient"
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/models"
)

// TaskAPI is the part of apiclient.Client the remote gateway calls.
type TaskAPI interface {
	ListTasks(ctx context.Context) (models.TasksByQuadrant, error)
	CreateTask(ctx context.Context, task models.NewTask) (models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

var _ TaskAPI = (*apiclient.Client)(nil)

type Remote struct {
	api TaskAPI
}

func NewRemote(api TaskAPI) *Remote {
	return &Remote{api: api}
}

// FetchAll returns the tasks of the token's owner; the API scopes by token,
// so userID is not sent.
func (r *Remote) FetchAll(ctx context.Context, userID string) ([]models.Task, error) {
	tasks, err := r.api.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return tasks.Flatten(), nil
}

func (r *Remote) Create(ctx context.Context, task models.NewTask) (models.Task, error) {
	if err := task.Normalize(); err != nil {
		return models.Task{}, err
	}
	return r.api.CreateTask(ctx, task)
}

func (r *Remote) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if id == "" {
		return models.Task{}, apperr.Validation("task id is required")
	}
	if patch.Empty() {
		return models.Task{}, apperr.Validation("No valid fields to update")
	}
	if err := patch.Normalize(); err != nil {
		return models.Task{}, err
	}
	return r.api.UpdateTask(ctx, id, patch)
}

func (r *Remote) Remove(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validation("task id is required")
	}
	return r.api.DeleteTask(ctx, id)
}
