// Package cli implements the eisenhower command line client.
package cli

import (
	"context"
	"eisenhower-matrix/internal/apiclient"
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/config"
	"eisenhower-matrix/internal/gateway"
	"eisenhower-matrix/internal/kv"
	"eisenhower-matrix/internal/models"
	"eisenhower-matrix/internal/session"
	"eisenhower-matrix/internal/taskstore"
	"eisenhower-matrix/internal/trash"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// app is the state shared by every command of one invocation. The gateway
// mode is fixed once the config is loaded.
type app struct {
	configPath string

	cfg     *config.ClientConfig
	kv      *kv.Store
	session *session.Session
	mode    gateway.Mode
	tasks   *taskstore.Store
	ledger  *trash.Ledger

	now  func() time.Time
	pick func(n int) int
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{now: time.Now, pick: rand.IntN})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "eisenhower",
		Short: "Eisenhower matrix task manager",
		Long: `eisenhower keeps tasks sorted by urgency and importance.

With an API URL and token configured (see "eisenhower login") tasks live on
the server; otherwise they are kept on this device.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultClientPath(), "Path to the client config file")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newMoveCmd(a),
		newRemoveCmd(a),
		newDoneCmd(a),
		newStatsCmd(a),
		newRecentCmd(a),
		newPrefsCmd(a),
		newTrashCmd(a),
		newReportCmd(a),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", apperr.Message(err, err.Error()))
		return err
	}
	return nil
}

func (a *app) open() error {
	cfg, err := config.LoadClient(a.configPath)
	if err != nil {
		return apperr.Configuration("failed to load config", err)
	}

	store, err := kv.Open(cfg.DataPath)
	if err != nil {
		return apperr.Configuration("failed to open local data", err)
	}

	a.cfg = cfg
	a.kv = store
	a.session = session.FromConfig(cfg)
	a.ledger = trash.New(store, trash.WithClock(a.now), trash.WithPicker(a.pick))

	var gw gateway.Gateway
	gw, a.mode = gateway.New(cfg, a.session, store)
	a.tasks = taskstore.New(gw, a.ledger)
	return nil
}

func (a *app) close() error {
	if a.kv == nil {
		return nil
	}
	err := a.kv.Close()
	a.kv = nil
	return err
}

// api returns a client authenticated as the session's user.
func (a *app) api() *apiclient.Client {
	return apiclient.New(a.cfg.API.URL, a.session.Token())
}

// load fills the task store for the session's user.
func (a *app) load(ctx context.Context) error {
	return a.tasks.Load(ctx, a.session.UserID())
}

// parseQuadrant accepts a wire value or one of the short names do, delegate,
// schedule, eliminate and delete.
func parseQuadrant(s string) (models.Quadrant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "do":
		return models.UrgentImportant, nil
	case "delegate":
		return models.UrgentNotImportant, nil
	case "schedule":
		return models.NotUrgentImportant, nil
	case "delete", "eliminate":
		return models.NotUrgentNotImportant, nil
	}

	q := models.Quadrant(s)
	if !q.Valid() {
		return "", apperr.Validation(fmt.Sprintf("Invalid quadrant %q", s))
	}
	return q, nil
}

func findTask(a *app, id string) (models.Task, error) {
	task, ok := a.tasks.Find(id)
	if !ok {
		return models.Task{}, apperr.NotFound("Task not found")
	}
	return task, nil
}
