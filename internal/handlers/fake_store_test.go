package handlers

import (
	"context"
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/models"
	"eisenhower-matrix/internal/store"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// fakeStore is an in-memory store.Store. Setting err makes every task query
// fail, to exercise the upstream error path.
type fakeStore struct {
	mu          sync.Mutex
	profiles    map[string]models.Profile
	tasks       []models.Task
	archived    map[string]bool
	preferences map[string]models.Preferences
	err         error
	archiveErr  error
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:    map[string]models.Profile{},
		archived:    map[string]bool{},
		preferences: map[string]models.Preferences{},
	}
}

func (s *fakeStore) CreateProfile(_ context.Context, p models.Profile) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.profiles {
		if existing.Email == p.Email {
			return models.Profile{}, apperr.Conflict("User already exists with this email")
		}
	}
	p.ID = uuid.NewString()
	p.IsActive = true
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.profiles[p.ID] = p
	return p, nil
}

func (s *fakeStore) ProfileByEmail(_ context.Context, email string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return models.Profile{}, apperr.NotFound("Profile not found")
}

func (s *fakeStore) ProfileByID(_ context.Context, id string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return models.Profile{}, apperr.NotFound("Profile not found")
	}
	return p, nil
}

func (s *fakeStore) UpdateProfile(_ context.Context, id string, patch models.ProfilePatch) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return models.Profile{}, apperr.NotFound("Profile not found")
	}
	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.Role != nil {
		p.Role = *patch.Role
	}
	s.profiles[id] = p
	return p, nil
}

func (s *fakeStore) DeactivateProfile(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return apperr.NotFound("Profile not found")
	}
	p.IsActive = false
	s.profiles[id] = p
	return nil
}

func (s *fakeStore) visible(userID string) []models.Task {
	out := make([]models.Task, 0)
	for i := len(s.tasks) - 1; i >= 0; i-- {
		task := s.tasks[i]
		if task.UserID == userID && !s.archived[task.ID] {
			out = append(out, task)
		}
	}
	return out
}

func (s *fakeStore) ListTasks(_ context.Context, userID string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.visible(userID), nil
}

func (s *fakeStore) ListTasksInQuadrant(_ context.Context, userID string, q models.Quadrant) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Task, 0)
	for _, task := range s.visible(userID) {
		if task.Quadrant == q {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *fakeStore) RecentTasks(_ context.Context, userID string, limit int) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := s.visible(userID)
	slices.SortStableFunc(out, func(a, b models.Task) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) CreateTask(_ context.Context, n models.NewTask) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.Task{}, s.err
	}
	now := time.Now()
	task := models.Task{
		ID:          uuid.NewString(),
		Title:       n.Title,
		Description: n.Description,
		Quadrant:    n.Quadrant,
		UserID:      n.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks = append(s.tasks, task)
	return task, nil
}

func (s *fakeStore) find(userID, id string) int {
	for i, task := range s.tasks {
		if task.ID == id && task.UserID == userID && !s.archived[id] {
			return i
		}
	}
	return -1
}

func (s *fakeStore) UpdateTask(_ context.Context, userID, id string, patch models.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.Task{}, s.err
	}
	i := s.find(userID, id)
	if i < 0 {
		return models.Task{}, apperr.NotFound("Task not found")
	}
	patch.Apply(&s.tasks[i])
	s.tasks[i].UpdatedAt = time.Now()
	return s.tasks[i], nil
}

func (s *fakeStore) DeleteTask(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	i := s.find(userID, id)
	if i < 0 {
		return apperr.NotFound("Task not found")
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return nil
}

func (s *fakeStore) MoveTasks(_ context.Context, userID string, ids []string, q models.Quadrant) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Task, 0)
	for _, id := range ids {
		if i := s.find(userID, id); i >= 0 {
			s.tasks[i].Quadrant = q
			out = append(out, s.tasks[i])
		}
	}
	return out, nil
}

func (s *fakeStore) ArchiveTasks(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.archiveErr != nil {
		return s.archiveErr
	}
	for _, task := range s.tasks {
		if task.UserID == userID {
			s.archived[task.ID] = true
		}
	}
	return nil
}

func (s *fakeStore) Preferences(_ context.Context, userID string) (models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.preferences[userID]
	if !ok {
		return models.Preferences{}, apperr.NotFound("Preferences not found")
	}
	return p, nil
}

func (s *fakeStore) UpsertPreferences(_ context.Context, p models.Preferences) (models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = time.Now()
	s.preferences[p.UserID] = p
	return p, nil
}
