// Package apiclient talks to the eisenhower REST API. Failures come back as
// apperr kinds; nothing is retried.
package apiclient

import (
	"bytes"
	"context"
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/models"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// New returns a client for the API rooted at baseURL. token may be empty for
// register and login.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

func (c *Client) Register(ctx context.Context, creds models.Credentials) (models.AuthResult, error) {
	var result models.AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", creds, &result)
	return result, err
}

func (c *Client) Login(ctx context.Context, email, password string) (models.AuthResult, error) {
	var result models.AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", models.Credentials{Email: email, Password: password}, &result)
	return result, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	var result models.ProfileResult
	err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &result)
	return result.User, err
}

// ListTasks returns the caller's tasks as the API buckets them.
func (c *Client) ListTasks(ctx context.Context) (models.TasksByQuadrant, error) {
	tasks := models.NewTasksByQuadrant()
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks.Clone(), nil
}

func (c *Client) CreateTask(ctx context.Context, task models.NewTask) (models.Task, error) {
	var created models.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", task, &created)
	return created, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	var updated models.Task
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), patch, &updated)
	return updated, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := c.do(ctx, http.MethodGet, "/api/users/stats", nil, &stats)
	return stats, err
}

func (c *Client) Preferences(ctx context.Context) (models.Preferences, error) {
	var prefs models.Preferences
	err := c.do(ctx, http.MethodGet, "/api/users/preferences", nil, &prefs)
	return prefs, err
}

func (c *Client) Activity(ctx context.Context, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := c.do(ctx, http.MethodGet, "/api/users/activity?limit="+strconv.Itoa(limit), nil, &tasks)
	return tasks, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Configuration("invalid API URL", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperr.Transport("could not reach the API", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Transport("failed to read response", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return classify(resp.StatusCode, "")
		}
		return apperr.Upstream("unexpected response from the API", err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		return classify(resp.StatusCode, env.Error)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperr.Upstream("unexpected response from the API", err)
	}
	return nil
}

// classify maps a failed response to an error kind. 401 and 403 mean the
// stored credentials are unusable, so they surface as configuration errors
// that also match apperr.ErrAuth.
func classify(status int, msg string) error {
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusBadRequest:
		return apperr.Validation(msg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperr.Configuration(msg, apperr.ErrAuth)
	case status == http.StatusNotFound:
		return apperr.NotFound(msg)
	case status == http.StatusConflict:
		return apperr.Conflict(msg)
	case status >= 500:
		return apperr.Transport(msg, fmt.Errorf("status %d", status))
	default:
		return apperr.Upstream(msg, fmt.Errorf("status %d", status))
	}
}
