// Package gateway gives the task store one CRUD contract over either the
// REST API or the on-device key-value store.
package gateway

import (
	"context"
	"eisenhower-matrix/internal/apiclient"
	"eisenhower-matrix/internal/config"
	"eisenhower-matrix/internal/models"
	"eisenhower-matrix/internal/session"
)

type Gateway interface {
	FetchAll(ctx context.Context, userID string) ([]models.Task, error)
	Create(ctx context.Context, task models.NewTask) (models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	Remove(ctx context.Context, id string) error
}

// Snapshotter is implemented by gateways whose state must be written back in
// full after every successful mutation.
type Snapshotter interface {
	Snapshot(tasks models.TasksByQuadrant) error
}

type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// SelectMode decides once which backing store a process uses: the API when
// both its URL and a token are present, the device otherwise.
func SelectMode(cfg *config.ClientConfig, sess *session.Session) Mode {
	if cfg.API.URL != "" && sess.Token() != "" {
		return ModeRemote
	}
	return ModeLocal
}

// New builds the gateway for the mode SelectMode picks.
func New(cfg *config.ClientConfig, sess *session.Session, store Storage) (Gateway, Mode) {
	mode := SelectMode(cfg, sess)
	if mode == ModeRemote {
		return NewRemote(apiclient.New(cfg.API.URL, sess.Token())), mode
	}
	return NewLocal(store), mode
}
