package store

import (
	"context"
	"database/sql"
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/models"
	_ "embed"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

const (
	profileColumns = "id, email, password, full_name, role, is_active, created_at, updated_at"
	taskColumns    = "id, user_id, title, description, quadrant, completed, created_at, updated_at"
)

type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

// Open connects to databaseURL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*Postgres, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (models.Profile, error) {
	p := models.Profile{}
	err := row.Scan(&p.ID, &p.Email, &p.Password, &p.FullName, &p.Role, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanTask(row scanner) (models.Task, error) {
	task := models.Task{}
	var description sql.NullString
	err := row.Scan(&task.ID, &task.UserID, &task.Title, &description, &task.Quadrant, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	task.Description = description.String
	return task, err
}

func (s *Postgres) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, task)
	}

	return results, rows.Err()
}

func (s *Postgres) CreateProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `INSERT INTO
			profiles(id, email, password, full_name, role, created_at, updated_at)
			VALUES($1, $2, $3, $4, $5, $6, $6)
			RETURNING `+profileColumns,
		uuid.New(), p.Email, p.Password, p.FullName, p.Role, time.Now())

	created, err := scanProfile(row)
	if err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code.Name() == "unique_violation" {
			return models.Profile{}, apperr.Conflict("User already exists with this email")
		}
		return models.Profile{}, err
	}
	return created, nil
}

func (s *Postgres) ProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE email = $1", email)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return models.Profile{}, apperr.NotFound("Profile not found")
	}
	return p, err
}

func (s *Postgres) ProfileByID(ctx context.Context, id string) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = $1", id)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return models.Profile{}, apperr.NotFound("Profile not found")
	}
	return p, err
}

func (s *Postgres) UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `UPDATE profiles
			SET full_name = COALESCE($1, full_name), role = COALESCE($2, role), updated_at = now()
			WHERE id = $3 AND is_active
			RETURNING `+profileColumns,
		patch.FullName, patch.Role, id)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return models.Profile{}, apperr.NotFound("Profile not found")
	}
	return p, err
}

func (s *Postgres) DeactivateProfile(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE profiles SET is_active = FALSE, deleted_at = now() WHERE id = $1", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return apperr.NotFound("Profile not found")
	}
	return nil
}

func (s *Postgres) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks
			WHERE user_id = $1 AND NOT is_archived
			ORDER BY created_at DESC`, userID)
}

func (s *Postgres) ListTasksInQuadrant(ctx context.Context, userID string, q models.Quadrant) ([]models.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks
			WHERE user_id = $1 AND quadrant = $2 AND NOT is_archived
			ORDER BY created_at DESC`, userID, q)
}

func (s *Postgres) RecentTasks(ctx context.Context, userID string, limit int) ([]models.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks
			WHERE user_id = $1 AND NOT is_archived
			ORDER BY updated_at DESC
			LIMIT $2`, userID, limit)
}

func (s *Postgres) CreateTask(ctx context.Context, n models.NewTask) (models.Task, error) {
	now := time.Now()
	row := s.db.QueryRowContext(ctx, `INSERT INTO
			tasks(id, user_id, title, description, quadrant, completed, created_at, updated_at)
			VALUES($1, $2, $3, NULLIF($4, ''), $5, FALSE, $6, $6)
			RETURNING `+taskColumns,
		uuid.New(), n.UserID, n.Title, n.Description, n.Quadrant, now)

	return scanTask(row)
}

func (s *Postgres) UpdateTask(ctx context.Context, userID, id string, patch models.TaskPatch) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `UPDATE tasks
			SET title = COALESCE($1, title),
				description = COALESCE($2, description),
				quadrant = COALESCE($3, quadrant),
				completed = COALESCE($4, completed),
				updated_at = now()
			WHERE id = $5 AND user_id = $6 AND NOT is_archived
			RETURNING `+taskColumns,
		patch.Title, patch.Description, patch.Quadrant, patch.Completed, id, userID)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return models.Task{}, apperr.NotFound("Task not found")
	}
	return task, err
}

func (s *Postgres) DeleteTask(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return apperr.NotFound("Task not found")
	}
	return nil
}

func (s *Postgres) MoveTasks(ctx context.Context, userID string, ids []string, q models.Quadrant) ([]models.Task, error) {
	return s.queryTasks(ctx, `UPDATE tasks
			SET quadrant = $1, updated_at = now()
			WHERE id = ANY($2::uuid[]) AND user_id = $3 AND NOT is_archived
			RETURNING `+taskColumns,
		q, pq.Array(ids), userID)
}

func (s *Postgres) ArchiveTasks(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE tasks SET is_archived = TRUE WHERE user_id = $1", userID)
	return err
}

func (s *Postgres) Preferences(ctx context.Context, userID string) (models.Preferences, error) {
	row := s.db.QueryRowContext(ctx, `SELECT user_id, default_view, task_color_theme, notifications_enabled, auto_save, updated_at
			FROM user_preferences WHERE user_id = $1`, userID)

	p := models.Preferences{}
	err := row.Scan(&p.UserID, &p.DefaultView, &p.TaskColorTheme, &p.NotificationsEnabled, &p.AutoSave, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Preferences{}, apperr.NotFound("Preferences not found")
	}
	return p, err
}

func (s *Postgres) UpsertPreferences(ctx context.Context, p models.Preferences) (models.Preferences, error) {
	row := s.db.QueryRowContext(ctx, `INSERT INTO
			user_preferences(user_id, default_view, task_color_theme, notifications_enabled, auto_save, updated_at)
			VALUES($1, $2, $3, $4, $5, now())
			ON CONFLICT (user_id) DO UPDATE SET
				default_view = EXCLUDED.default_view,
				task_color_theme = EXCLUDED.task_color_theme,
				notifications_enabled = EXCLUDED.notifications_enabled,
				auto_save = EXCLUDED.auto_save,
				updated_at = EXCLUDED.updated_at
			RETURNING user_id, default_view, task_color_theme, notifications_enabled, auto_save, updated_at`,
		p.UserID, p.DefaultView, p.TaskColorTheme, p.NotificationsEnabled, p.AutoSave)

	out := models.Preferences{}
	err := row.Scan(&out.UserID, &out.DefaultView, &out.TaskColorTheme, &out.NotificationsEnabled, &out.AutoSave, &out.UpdatedAt)
	return out, err
}
