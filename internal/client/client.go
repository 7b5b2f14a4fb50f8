// Package client is a typed HTTP client for the autoboard REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"autoboard/internal/models"
)

// APIError is a non 2xx answer of the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StatusID    int64   `json:"status_id"`
	ProjectID   int64   `json:"project_id"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	StatusID    *int64  `json:"status_id,omitempty"`
}

type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Client talks to one server. Token, when set, is sent as a bearer token.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithTimeout limits every request to d.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, goerr.New("invalid api url", goerr.V("url", baseURL))
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = &http.Client{Timeout: c.timeout}
	return c, nil
}

// SetToken changes the token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = strings.TrimSpace(token)
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	q := url.Values{}
	if filter.ProjectID != 0 {
		q.Set("project_id", strconv.FormatInt(filter.ProjectID, 10))
	}
	if filter.AssigneeID != "" {
		q.Set("assignee_id", filter.AssigneeID)
	}
	path := "/api/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, req UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) AssignTask(ctx context.Context, id int64, assigneeID string) (*models.Task, error) {
	var task models.Task
	body := map[string]string{"assignee_id": assigneeID}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d/assign", id), body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil)
}

func (c *Client) ListStatuses(ctx context.Context) ([]models.TaskStatus, error) {
	var statuses []models.TaskStatus
	if err := c.do(ctx, http.MethodGet, "/api/task-status", nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, req ProjectRequest) (*models.Project, error) {
	var p models.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LogsByTask returns the activity log of a task. A task without entries
// yields an empty slice rather than an error.
func (c *Client) LogsByTask(ctx context.Context, taskID int64) ([]models.ActivityLog, error) {
	return c.logs(ctx, fmt.Sprintf("/api/activity-log/task/%d", taskID))
}

func (c *Client) LogsByProject(ctx context.Context, projectID int64) ([]models.ActivityLog, error) {
	return c.logs(ctx, fmt.Sprintf("/api/activity-log/project/%d", projectID))
}

func (c *Client) logs(ctx context.Context, path string) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := c.do(ctx, http.MethodGet, path, nil, &logs)
	if IsStatus(err, http.StatusNotFound) {
		return []models.ActivityLog{}, nil
	}
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return goerr.Wrap(err, "encode request body", goerr.V("path", path))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return goerr.Wrap(err, "build request", goerr.V("path", path))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed", goerr.V("method", method), goerr.V("path", path))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "read response", goerr.V("path", path))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return goerr.Wrap(err, "decode response", goerr.V("path", path))
	}
	return nil
}
