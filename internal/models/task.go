package models

import (
	"eisenhower-matrix/internal/apperr"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength = 200

	// LocalUserID owns tasks created without an authenticated session.
	LocalUserID = "local-user"
)

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Quadrant    Quadrant  `json:"quadrant"`
	UserID      string    `json:"user_id"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask holds the fields of a task before a backing store assigns its id.
type NewTask struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Quadrant    Quadrant `json:"quadrant"`
	UserID      string   `json:"-"`
}

// Normalize trims the text fields and validates the result.
func (n *NewTask) Normalize() error {
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	if err := ValidateTitle(n.Title); err != nil {
		return err
	}
	if !n.Quadrant.Valid() {
		return apperr.Validation("Invalid quadrant")
	}
	return nil
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Quadrant    *Quadrant `json:"quadrant,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Quadrant == nil && p.Completed == nil
}

// Normalize trims the text fields and validates whichever fields are set.
func (p *TaskPatch) Normalize() error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if err := ValidateTitle(title); err != nil {
			return err
		}
		p.Title = &title
	}
	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		p.Description = &description
	}
	if p.Quadrant != nil && !p.Quadrant.Valid() {
		return apperr.Validation("Invalid quadrant")
	}
	return nil
}

// Apply copies the set fields of p onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Quadrant != nil {
		t.Quadrant = *p.Quadrant
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// ValidateTitle expects an already trimmed title.
func ValidateTitle(title string) error {
	if title == "" {
		return apperr.Validation("Title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return apperr.Validation("Title must be 1-200 characters")
	}
	return nil
}

// CompletedTask is a trash ledger entry.
type CompletedTask struct {
	Task
	CompletedAt     time.Time `json:"completed_at"`
	MotivationQuote string    `json:"motivation_quote"`
}

type Stats struct {
	TotalTasks      int              `json:"totalTasks"`
	CompletedTasks  int              `json:"completedTasks"`
	PendingTasks    int              `json:"pendingTasks"`
	TasksByQuadrant map[Quadrant]int `json:"tasksByQuadrant"`
	CompletionRate  int              `json:"completionRate"`
}

func ComputeStats(tasks []Task) Stats {
	stats := Stats{
		TotalTasks:      len(tasks),
		TasksByQuadrant: make(map[Quadrant]int, len(Quadrants)),
	}
	for _, q := range Quadrants {
		stats.TasksByQuadrant[q] = 0
	}

	for _, task := range tasks {
		if task.Completed {
			stats.CompletedTasks++
		} else {
			stats.PendingTasks++
		}
		if task.Quadrant.Valid() {
			stats.TasksByQuadrant[task.Quadrant]++
		}
	}

	if stats.TotalTasks > 0 {
		// nearest whole percent, halves rounded up
		stats.CompletionRate = (stats.CompletedTasks*200 + stats.TotalTasks) / (2 * stats.TotalTasks)
	}
	return stats
}
