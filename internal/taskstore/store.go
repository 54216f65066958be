// Package taskstore holds the in-memory view of a user's tasks, bucketed by
// quadrant, and routes every mutation through a persistence gateway.
package taskstore

import (
	"context"
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/gateway"
	"eisenhower-matrix/internal/models"
	"errors"
	"sync"
)

// Archiver records a completed task and returns the message to show for it.
type Archiver interface {
	Add(task models.Task) (string, error)
}

// Store is safe for concurrent use. Its state lock is never held across a
// gateway call; calls touching the same task id run one at a time.
type Store struct {
	gw       gateway.Gateway
	snapshot gateway.Snapshotter
	ledger   Archiver

	ids idLocks

	mu     sync.Mutex
	loaded bool
	userID string
	state  models.TasksByQuadrant
}

// New returns an empty store. When gw is also a gateway.Snapshotter the whole
// state is handed to it after each successful mutation.
func New(gw gateway.Gateway, ledger Archiver) *Store {
	s := &Store{
		gw:     gw,
		ledger: ledger,
		state:  models.NewTasksByQuadrant(),
	}
	if snap, ok := gw.(gateway.Snapshotter); ok {
		s.snapshot = snap
	}
	return s
}

// Tasks returns a copy of the current state.
func (s *Store) Tasks() models.TasksByQuadrant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Load replaces the state with userID's tasks. On error the state is left as
// it was.
func (s *Store) Load(ctx context.Context, userID string) error {
	tasks, err := s.gw.FetchAll(ctx, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.userID = userID
	s.state = models.Bucket(tasks)
	return nil
}

// ensureLoaded fills a never loaded store from the gateway before its first
// mutation, so the snapshot that follows keeps the tasks already saved.
// Stores without a snapshot skip it.
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.snapshot == nil {
		return nil
	}

	s.mu.Lock()
	loaded, userID := s.loaded, s.userID
	s.mu.Unlock()
	if loaded {
		return nil
	}

	tasks, err := s.gw.FetchAll(ctx, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.loaded = true
		s.state = models.Bucket(tasks)
	}
	return nil
}

func (s *Store) AddTask(ctx context.Context, quadrant models.Quadrant, title, description string) (models.Task, error) {
	task := models.NewTask{Title: title, Description: description, Quadrant: quadrant}
	if err := task.Normalize(); err != nil {
		return models.Task{}, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	task.UserID = s.userID
	s.mu.Unlock()

	created, err := s.gw.Create(ctx, task)
	if err != nil {
		return models.Task{}, err
	}
	if !created.Quadrant.Valid() {
		created.Quadrant = task.Quadrant
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[created.Quadrant] = append(s.state[created.Quadrant], created)
	return created, s.persistLocked()
}

// DeleteTask removes id from quadrant. Deleting an id the backing store does
// not know is not an error.
func (s *Store) DeleteTask(ctx context.Context, quadrant models.Quadrant, id string) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	unlock := s.ids.lock(id)
	defer unlock()

	if err := s.gw.Remove(ctx, id); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.state[quadrant], id); i >= 0 {
		s.state[quadrant] = remove(s.state[quadrant], i)
	}
	return s.persistLocked()
}

// UpdateTask applies patch to the task with id wherever it is. It reports
// false, without calling the gateway, when no such task is loaded.
func (s *Store) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, bool, error) {
	if patch.Empty() {
		return models.Task{}, false, apperr.Validation("No valid fields to update")
	}
	if err := patch.Normalize(); err != nil {
		return models.Task{}, false, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return models.Task{}, false, err
	}

	unlock := s.ids.lock(id)
	defer unlock()

	if _, _, found := s.find(id); !found {
		return models.Task{}, false, nil
	}

	updated, err := s.gw.Update(ctx, id, patch)
	if err != nil {
		return models.Task{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	q, i, found := s.findLocked(id)
	if !found {
		return updated, true, nil
	}
	merged := s.state[q][i]
	patch.Apply(&merged)
	if updated.ID != "" {
		merged = updated
	}

	if merged.Quadrant == q || !merged.Quadrant.Valid() {
		merged.Quadrant = q
		s.state[q][i] = merged
	} else {
		s.state[q] = remove(s.state[q], i)
		s.state[merged.Quadrant] = append(s.state[merged.Quadrant], merged)
	}
	return merged, true, s.persistLocked()
}

// MoveTask moves id from one quadrant to the end of another. It reports false
// when from equals to or id is not in from; the gateway is not called then.
func (s *Store) MoveTask(ctx context.Context, id string, from, to models.Quadrant) (bool, error) {
	if from == to {
		return false, nil
	}
	if !to.Valid() {
		return false, apperr.Validation("Invalid quadrant")
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return false, err
	}

	unlock := s.ids.lock(id)
	defer unlock()

	s.mu.Lock()
	present := indexOf(s.state[from], id) >= 0
	s.mu.Unlock()
	if !present {
		return false, nil
	}

	if _, err := s.gw.Update(ctx, id, models.TaskPatch{Quadrant: &to}); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.state[from], id)
	if i < 0 {
		return false, nil
	}
	task := s.state[from][i]
	task.Quadrant = to
	s.state[from] = remove(s.state[from], i)
	s.state[to] = append(s.state[to], task)
	return true, s.persistLocked()
}

// ArchiveTask records task as completed and drops it from the active view,
// returning the motivation quote. The backing store keeps its copy.
func (s *Store) ArchiveTask(ctx context.Context, task models.Task) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return "", err
	}

	unlock := s.ids.lock(task.ID)
	defer unlock()

	quote, err := s.ledger.Add(task)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.state[task.Quadrant], task.ID); i >= 0 {
		s.state[task.Quadrant] = remove(s.state[task.Quadrant], i)
	} else if q, i, found := s.findLocked(task.ID); found {
		s.state[q] = remove(s.state[q], i)
	}
	return quote, s.persistLocked()
}

// Find returns the loaded task with id.
func (s *Store) Find(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, i, found := s.findLocked(id)
	if !found {
		return models.Task{}, false
	}
	return s.state[q][i], true
}

func (s *Store) find(id string) (models.Quadrant, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

func (s *Store) findLocked(id string) (models.Quadrant, int, bool) {
	for _, q := range models.Quadrants {
		if i := indexOf(s.state[q], id); i >= 0 {
			return q, i, true
		}
	}
	return "", 0, false
}

func (s *Store) persistLocked() error {
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.Snapshot(s.state.Clone())
}

func indexOf(tasks []models.Task, id string) int {
	for i, task := range tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func remove(tasks []models.Task, i int) []models.Task {
	out := make([]models.Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}
