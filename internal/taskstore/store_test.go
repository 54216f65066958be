package taskstore

import (
	"context"
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/gateway"
	"eisenhower-matrix/internal/kv"
	"eisenhower-matrix/internal/models"
	"eisenhower-matrix/internal/trash"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway is an in-memory remote that counts calls.
type fakeGateway struct {
	mu     sync.Mutex
	tasks  []models.Task
	nextID int
	calls  map[string]int
	err    error
	delay  time.Duration
}

func newFakeGateway(tasks ...models.Task) *fakeGateway {
	return &fakeGateway{tasks: tasks, calls: map[string]int{}}
}

func (f *fakeGateway) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeGateway) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeGateway) FetchAll(ctx context.Context, userID string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["fetch"]++
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.tasks), nil
}

func (f *fakeGateway) Create(ctx context.Context, task models.NewTask) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	if f.err != nil {
		return models.Task{}, f.err
	}
	f.nextID++
	created := models.Task{
		ID:          fmt.Sprintf("t-%d", f.nextID),
		Title:       task.Title,
		Description: task.Description,
		Quadrant:    task.Quadrant,
		UserID:      task.UserID,
	}
	f.tasks = append(f.tasks, created)
	return created, nil
}

func (f *fakeGateway) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	if f.err != nil {
		return models.Task{}, f.err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			patch.Apply(&f.tasks[i])
			return f.tasks[i], nil
		}
	}
	return models.Task{}, apperr.NotFound("Task not found")
}

func (f *fakeGateway) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["remove"]++
	if f.err != nil {
		return f.err
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Task not found")
}

type fakeLedger struct {
	entries []models.Task
	err     error
}

func (l *fakeLedger) Add(task models.Task) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	l.entries = append(l.entries, task)
	return trash.Quotes[0], nil
}

func seed() []models.Task {
	return []models.Task{
		{ID: "a", Title: "Pay rent", Quadrant: models.UrgentImportant},
		{ID: "b", Title: "Read", Quadrant: models.NotUrgentImportant},
		{ID: "c", Title: "Emails", Quadrant: models.UrgentImportant},
		{ID: "d", Title: "Broken", Quadrant: "someday"},
	}
}

func loaded(t *testing.T, tasks ...models.Task) (*Store, *fakeGateway, *fakeLedger) {
	t.Helper()
	gw := newFakeGateway(tasks...)
	ledger := &fakeLedger{}
	s := New(gw, ledger)
	require.NoError(t, s.Load(context.Background(), "u-1"))
	return s, gw, ledger
}

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func TestLoadBuckets(t *testing.T) {
	s, _, _ := loaded(t, seed()...)

	state := s.Tasks()
	assert.Len(t, state, len(models.Quadrants))
	assert.Equal(t, []string{"a", "c"}, ids(state[models.UrgentImportant]))
	assert.Equal(t, []string{"b"}, ids(state[models.NotUrgentImportant]))
	assert.Equal(t, 3, state.Len())
}

func TestLoadFailureKeepsState(t *testing.T) {
	s, gw, _ := loaded(t, seed()...)
	before := s.Tasks()

	gw.err = apperr.Transport("could not reach the API", nil)
	err := s.Load(context.Background(), "u-1")
	assert.ErrorIs(t, err, apperr.ErrTransport)
	assert.Equal(t, before, s.Tasks())
}

func TestTasksReturnsCopy(t *testing.T) {
	s, _, _ := loaded(t, seed()...)

	state := s.Tasks()
	state[models.UrgentImportant][0].Title = "changed"
	state[models.UrgentImportant] = nil

	assert.Equal(t, "Pay rent", s.Tasks()[models.UrgentImportant][0].Title)
}

func TestAddTask(t *testing.T) {
	s, gw, _ := loaded(t)
	ctx := context.Background()

	task, err := s.AddTask(ctx, models.UrgentImportant, "Buy milk", "")
	require.NoError(t, err)

	state := s.Tasks()
	for _, q := range models.Quadrants {
		if q == models.UrgentImportant {
			assert.Equal(t, []models.Task{task}, state[q])
		} else {
			assert.Empty(t, state[q])
		}
	}

	second, err := s.AddTask(ctx, models.UrgentImportant, "  Call mom  ", " weekly ")
	require.NoError(t, err)
	assert.Equal(t, "Call mom", second.Title)
	assert.Equal(t, "weekly", second.Description)
	assert.Equal(t, "u-1", second.UserID)
	assert.Equal(t, []string{task.ID, second.ID}, ids(s.Tasks()[models.UrgentImportant]))

	require.NoError(t, s.Load(ctx, "u-1"))
	reloaded := s.Tasks()[models.UrgentImportant]
	require.Len(t, reloaded, 2)
	assert.Equal(t, "Buy milk", reloaded[0].Title)
	assert.Equal(t, 2, gw.count("create"))
}

func TestAddTaskRejectsInvalidInput(t *testing.T) {
	cases := map[string]struct {
		quadrant models.Quadrant
		title    string
	}{
		"201 characters":  {models.UrgentImportant, strings.Repeat("a", 201)},
		"empty title":     {models.UrgentImportant, ""},
		"whitespace only": {models.UrgentImportant, "   \t "},
		"bad quadrant":    {"invalid", "Buy milk"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s, gw, _ := loaded(t, seed()...)
			before := s.Tasks()

			_, err := s.AddTask(context.Background(), tc.quadrant, tc.title, "")
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, before, s.Tasks())
			assert.Zero(t, gw.count("create"))
		})
	}

	s, _, _ := loaded(t)
	_, err := s.AddTask(context.Background(), models.UrgentImportant, strings.Repeat("a", 200), "")
	assert.NoError(t, err)
}

func TestAddTaskGatewayFailure(t *testing.T) {
	s, gw, _ := loaded(t, seed()...)
	before := s.Tasks()

	gw.err = apperr.Transport("could not reach the API", nil)
	_, err := s.AddTask(context.Background(), models.UrgentImportant, "Buy milk", "")
	assert.ErrorIs(t, err, apperr.ErrTransport)
	assert.Equal(t, before, s.Tasks())
}

func TestDeleteTask(t *testing.T) {
	s, gw, _ := loaded(t, seed()...)
	ctx := context.Background()

	require.NoError(t, s.DeleteTask(ctx, models.UrgentImportant, "a"))
	assert.Equal(t, []string{"c"}, ids(s.Tasks()[models.UrgentImportant]))
	assert.Equal(t, 1, gw.count("remove"))
}

func TestDeleteMissingTask(t *testing.T) {
	s, gw, _ := loaded(t, seed()...)
	before := s.Tasks()

	require.NoError(t, s.DeleteTask(context.Background(), models.UrgentImportant, "nope"))
	assert.Equal(t, before, s.Tasks())
	assert.Equal(t, 1, gw.count("remove"))

	// present elsewhere: the store only looks in the named quadrant
	require.NoError(t, s.DeleteTask(context.Background(), models.UrgentNotImportant, "b"))
	assert.Equal(t, []string{"b"}, ids(s.Tasks()[models.NotUrgentImportant]))
}

func TestDeleteTaskGatewayFailure(t *testing.T) {
	s, gw, _ := loaded(t, seed()...)
	before := s.Tasks()

	gw.err = apperr.Transport("could not reach the API", nil)
	assert.ErrorIs(t, s.DeleteTask(context.Background(), models.UrgentImportant, "a"), apperr.ErrTransport)
	assert.Equal(t, before, s.Tasks())
}

func TestUpdateTask(t *testing.T) {
	s, _, _ := loaded(t)
	ctx := context.Background()

	task, err := s.AddTask(ctx, models.NotUrgentImportant, "Old", "")
	require.NoError(t, err)
	_, err = s.AddTask(ctx, models.NotUrgentImportant, "After", "")
	require.NoError(t, err)

	title := "New"
	updated, found, err := s.UpdateTask(ctx, task.ID, models.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "New", updated.Title)

	bucket := s.Tasks()[models.NotUrgentImportant]
	require.Len(t, bucket, 2)
	assert.Equal(t, task.ID, bucket[0].ID)
	assert.Equal(t, "New", bucket[0].Title)
	assert.Equal(t, models.NotUrgentImportant, bucket[0].Quadrant)
}

func TestUpdateMissingTaskIsNoop(t *testing.T) {
	s, gw, _ := loaded(t, seed()...)
	before := s.Tasks()

	title := "New"
	_, found, err := s.UpdateTask(context.Background(), "nope", models.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, before, s.Tasks())
	assert.Zero(t, gw.count("update"))
}

func TestUpdateTaskValidation(t *testing.T) {
	s, gw, _ := loaded(t, seed()...)
	ctx := context.Background()

	_, _, err := s.UpdateTask(ctx, "a", models.TaskPatch{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	long := strings.Repeat("a", 201)
	_, _, err = s.UpdateTask(ctx, "a", models.TaskPatch{Title: &long})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Zero(t, gw.count("update"))
}

func TestUpdateTaskChangingQuadrant(t *testing.T) {
	s, _, _ := loaded(t, seed()...)

	q := models.NotUrgentImportant
	_, _, err := s.UpdateTask(context.Background(), "a", models.TaskPatch{Quadrant: &q})
	require.NoError(t, err)

	state := s.Tasks()
	assert.Equal(t, []string{"c"}, ids(state[models.UrgentImportant]))
	assert.Equal(t, []string{"b", "a"}, ids(state[models.NotUrgentImportant]))
}

func TestMoveTaskSameQuadrantIsNoop(t *testing.T) {
	s, gw, _ := loaded(t, seed()...)
	before := s.Tasks()
	calls := gw.total()

	moved, err := s.MoveTask(context.Background(), "a", models.UrgentImportant, models.UrgentImportant)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, before, s.Tasks())
	assert.Equal(t, calls, gw.total())
}

func TestMoveTask(t *testing.T) {
	s, gw, _ := loaded(t, seed()...)

	moved, err := s.MoveTask(context.Background(), "a", models.UrgentImportant, models.NotUrgentImportant)
	require.NoError(t, err)
	assert.True(t, moved)

	state := s.Tasks()
	assert.Equal(t, []string{"c"}, ids(state[models.UrgentImportant]))
	dest := state[models.NotUrgentImportant]
	assert.Equal(t, []string{"b", "a"}, ids(dest))
	assert.Equal(t, models.NotUrgentImportant, dest[len(dest)-1].Quadrant)
	assert.Equal(t, 1, gw.count("update"))
}

func TestMoveTaskNotInSource(t *testing.T) {
	s, gw, _ := loaded(t, seed()...)
	before := s.Tasks()

	moved, err := s.MoveTask(context.Background(), "b", models.UrgentImportant, models.UrgentNotImportant)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, before, s.Tasks())
	assert.Zero(t, gw.count("update"))

	_, err = s.MoveTask(context.Background(), "a", models.UrgentImportant, "invalid")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMoveTaskGatewayFailure(t *testing.T) {
	s, gw, _ := loaded(t, seed()...)
	before := s.Tasks()

	gw.err = apperr.Configuration("Invalid token", apperr.ErrAuth)
	_, err := s.MoveTask(context.Background(), "a", models.UrgentImportant, models.NotUrgentImportant)
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
	assert.Equal(t, before, s.Tasks())
}

func TestArchiveTask(t *testing.T) {
	s, gw, ledger := loaded(t, seed()...)
	calls := gw.total()

	task := s.Tasks()[models.UrgentImportant][0]
	quote, err := s.ArchiveTask(context.Background(), task)
	require.NoError(t, err)
	assert.NotEmpty(t, quote)

	assert.Equal(t, []string{"c"}, ids(s.Tasks()[models.UrgentImportant]))
	assert.Equal(t, []models.Task{task}, ledger.entries)
	assert.Equal(t, calls, gw.total(), "archiving does not touch the backing store")
}

func TestArchiveTaskLedgerFailure(t *testing.T) {
	s, _, ledger := loaded(t, seed()...)
	before := s.Tasks()

	ledger.err = apperr.Configuration("disk full", nil)
	_, err := s.ArchiveTask(context.Background(), before[models.UrgentImportant][0])
	assert.Error(t, err)
	assert.Equal(t, before, s.Tasks())
}

func TestConcurrentUpdatesSameTaskAreSerialized(t *testing.T) {
	s, gw, _ := loaded(t, seed()...)
	gw.delay = 5 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			title := fmt.Sprintf("edit %d", i)
			_, _, err := s.UpdateTask(context.Background(), "a", models.TaskPatch{Title: &title})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// every edit lands and the view agrees with the backing store
	assert.Equal(t, 5, gw.count("update"))
	tasks, err := gw.FetchAll(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, tasks[0].Title, s.Tasks()[models.UrgentImportant][0].Title)
}

func TestLocalSnapshotAfterMutations(t *testing.T) {
	store, err := kv.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	s := New(gateway.NewLocal(store), trash.New(store))
	require.NoError(t, s.Load(ctx, models.LocalUserID))

	snapshot := func() models.TasksByQuadrant {
		stored := models.TasksByQuadrant{}
		found, err := store.GetJSON(kv.TasksKey, &stored)
		require.NoError(t, err)
		require.True(t, found)
		return stored
	}

	milk, err := s.AddTask(ctx, models.UrgentImportant, "Buy milk", "")
	require.NoError(t, err)
	assert.Equal(t, []string{milk.ID}, ids(snapshot()[models.UrgentImportant]))

	moved, err := s.MoveTask(ctx, milk.ID, models.UrgentImportant, models.NotUrgentNotImportant)
	require.NoError(t, err)
	require.True(t, moved)
	stored := snapshot()
	assert.Empty(t, stored[models.UrgentImportant])
	assert.Equal(t, []string{milk.ID}, ids(stored[models.NotUrgentNotImportant]))

	mom, err := s.AddTask(ctx, models.NotUrgentImportant, "Call mom", "")
	require.NoError(t, err)
	_, err = s.ArchiveTask(ctx, s.Tasks()[models.NotUrgentNotImportant][0])
	require.NoError(t, err)
	stored = snapshot()
	assert.Empty(t, stored[models.NotUrgentNotImportant])

	entries, err := trash.New(store).List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, milk.ID, entries[0].ID)
	assert.True(t, slices.Contains(trash.Quotes, entries[0].MotivationQuote))

	require.NoError(t, s.DeleteTask(ctx, models.NotUrgentImportant, mom.ID))
	assert.Zero(t, snapshot().Len())

	// a fresh store over the same device sees the same state
	fresh := New(gateway.NewLocal(store), trash.New(store))
	require.NoError(t, fresh.Load(ctx, models.LocalUserID))
	assert.Zero(t, fresh.Tasks().Len())
}

func TestLocalMutationBeforeLoadKeepsSavedTasks(t *testing.T) {
	store, err := kv.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	first := New(gateway.NewLocal(store), trash.New(store))
	require.NoError(t, first.Load(ctx, models.LocalUserID))
	rent, err := first.AddTask(ctx, models.UrgentImportant, "Pay rent", "")
	require.NoError(t, err)
	_, err = first.AddTask(ctx, models.NotUrgentImportant, "Read", "")
	require.NoError(t, err)

	fresh := New(gateway.NewLocal(store), trash.New(store))
	milk, err := fresh.AddTask(ctx, models.UrgentImportant, "Buy milk", "")
	require.NoError(t, err)
	assert.Equal(t, []string{rent.ID, milk.ID}, ids(fresh.Tasks()[models.UrgentImportant]))

	archiving := New(gateway.NewLocal(store), trash.New(store))
	_, err = archiving.ArchiveTask(ctx, rent)
	require.NoError(t, err)

	reloaded := New(gateway.NewLocal(store), trash.New(store))
	require.NoError(t, reloaded.Load(ctx, models.LocalUserID))
	state := reloaded.Tasks()
	assert.Equal(t, 2, state.Len())
	assert.Equal(t, []string{milk.ID}, ids(state[models.UrgentImportant]))
	assert.Len(t, state[models.NotUrgentImportant], 1)
}

func TestLoadFailureBeforeFirstLocalMutation(t *testing.T) {
	store, err := kv.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Set(kv.TasksKey, "{broken"))

	s := New(gateway.NewLocal(store), trash.New(store))
	_, err = s.AddTask(context.Background(), models.UrgentImportant, "Buy milk", "")
	assert.ErrorIs(t, err, apperr.ErrConfiguration)

	raw, _, err := store.Get(kv.TasksKey)
	require.NoError(t, err)
	assert.Equal(t, "{broken", raw, "unreadable snapshot is not overwritten")
}
