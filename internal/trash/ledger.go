// Package trash keeps the on-device ledger of completed tasks.
package trash

import (
	"eisenhower-matrix/internal/kv"
	"eisenhower-matrix/internal/models"
	"math/rand/v2"
	"sync"
	"time"
)

// Quotes is the pool a completion message is drawn from.
var Quotes = []string{
	"Great job! You completed a task! 🎉",
	"Excellent work! Keep it going! ⭐",
	"Well done! You're making progress! 🚀",
	"Fantastic! Every task completed is a win! 🏆",
	"Amazing! You're crushing your goals! 💪",
	"Superb! Your productivity is impressive! ✨",
}

// Storage is the subset of kv.Store the ledger needs.
type Storage interface {
	GetJSON(key string, v any) (bool, error)
	SetJSON(key string, v any) error
	Delete(key string) error
}

// Ledger is append-only: entries are never edited, only listed or cleared in
// bulk. Each Add rewrites the whole list.
type Ledger struct {
	mu    sync.Mutex
	store Storage
	now   func() time.Time
	pick  func(n int) int
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithPicker replaces the uniform random choice of quote.
func WithPicker(pick func(n int) int) Option {
	return func(l *Ledger) { l.pick = pick }
}

func New(store Storage, opts ...Option) *Ledger {
	l := &Ledger{store: store, now: time.Now, pick: rand.IntN}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add appends task to the ledger stamped with the current time and a random
// quote, and returns that quote.
func (l *Ledger) Add(task models.Task) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return "", err
	}

	entry := models.CompletedTask{
		Task:            task,
		CompletedAt:     l.now(),
		MotivationQuote: Quotes[l.pick(len(Quotes))],
	}
	entries = append(entries, entry)

	if err := l.store.SetJSON(kv.TrashKey, entries); err != nil {
		return "", err
	}
	return entry.MotivationQuote, nil
}

// List returns every entry, oldest first.
func (l *Ledger) List() ([]models.CompletedTask, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *Ledger) Count() (int, error) {
	entries, err := l.List()
	return len(entries), err
}

func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Delete(kv.TrashKey)
}

func (l *Ledger) load() ([]models.CompletedTask, error) {
	entries := make([]models.CompletedTask, 0)
	if _, err := l.store.GetJSON(kv.TrashKey, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
