package gateway

import (
	"context"
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/kv"
	"eisenhower-matrix/internal/models"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"
)

// Storage is the subset of kv.Store the local gateway needs.
type Storage interface {
	GetJSON(key string, v any) (bool, error)
	SetJSON(key string, v any) error
}

// Local keeps tasks on this device only. Its ids are unique within a session,
// not across devices.
type Local struct {
	mu     sync.Mutex
	store  Storage
	tasks  models.TasksByQuadrant
	now    func() time.Time
	random func() float64
}

type LocalOption func(*Local)

func WithClock(now func() time.Time) LocalOption {
	return func(l *Local) { l.now = now }
}

func WithRandom(random func() float64) LocalOption {
	return func(l *Local) { l.random = random }
}

func NewLocal(store Storage, opts ...LocalOption) *Local {
	l := &Local{store: store, now: time.Now, random: rand.Float64}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FetchAll returns every task of the last snapshot. Local mode has a single
// owner, so userID does not filter.
func (l *Local) FetchAll(ctx context.Context, userID string) ([]models.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.loadLocked(); err != nil {
		return nil, err
	}
	return l.tasks.Flatten(), nil
}

func (l *Local) Create(ctx context.Context, task models.NewTask) (models.Task, error) {
	if err := task.Normalize(); err != nil {
		return models.Task{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.loadLocked(); err != nil {
		return models.Task{}, err
	}

	now := l.now()
	created := models.Task{
		ID:          l.newID(now),
		Title:       task.Title,
		Description: task.Description,
		Quadrant:    task.Quadrant,
		UserID:      models.LocalUserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	l.tasks[created.Quadrant] = append(l.tasks[created.Quadrant], created)
	return created, nil
}

func (l *Local) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if patch.Empty() {
		return models.Task{}, apperr.Validation("No valid fields to update")
	}
	if err := patch.Normalize(); err != nil {
		return models.Task{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.loadLocked(); err != nil {
		return models.Task{}, err
	}

	q, i, found := l.findLocked(id)
	if !found {
		return models.Task{}, apperr.NotFound("Task not found")
	}

	updated := l.tasks[q][i]
	patch.Apply(&updated)
	updated.UpdatedAt = l.now()

	if updated.Quadrant == q {
		l.tasks[q][i] = updated
	} else {
		l.tasks[q] = append(l.tasks[q][:i:i], l.tasks[q][i+1:]...)
		l.tasks[updated.Quadrant] = append(l.tasks[updated.Quadrant], updated)
	}
	return updated, nil
}

func (l *Local) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.loadLocked(); err != nil {
		return err
	}

	q, i, found := l.findLocked(id)
	if !found {
		return apperr.NotFound("Task not found")
	}
	l.tasks[q] = append(l.tasks[q][:i:i], l.tasks[q][i+1:]...)
	return nil
}

// Snapshot replaces the stored copy with tasks, overwriting the previous one.
func (l *Local) Snapshot(tasks models.TasksByQuadrant) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := tasks.Clone()
	if err := l.store.SetJSON(kv.TasksKey, snapshot); err != nil {
		return apperr.Configuration("failed to save local tasks", err)
	}
	l.tasks = snapshot
	return nil
}

func (l *Local) loadLocked() error {
	if l.tasks != nil {
		return nil
	}

	stored := models.NewTasksByQuadrant()
	if _, err := l.store.GetJSON(kv.TasksKey, &stored); err != nil {
		return apperr.Configuration("failed to read local tasks", err)
	}
	// drops unknown quadrant keys
	l.tasks = stored.Clone()
	return nil
}

func (l *Local) findLocked(id string) (models.Quadrant, int, bool) {
	for _, q := range models.Quadrants {
		for i, task := range l.tasks[q] {
			if task.ID == id {
				return q, i, true
			}
		}
	}
	return "", 0, false
}

// newID is the creation time in unix millis followed by a random fraction,
// e.g. "17293412345670.8271".
func (l *Local) newID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + strconv.FormatFloat(l.random(), 'f', -1, 64)
}
