package client_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"autoboard/internal/auth"
	"autoboard/internal/client"
	"autoboard/internal/models"
	"autoboard/internal/server"
	"autoboard/internal/storage"
)

func newBackend(t *testing.T) *client.Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "board.db"), logger)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = store.Close() })

	ts := httptest.NewServer(server.New(store, auth.NoAuth{UserID: "u-1"}, logger).Engine())
	t.Cleanup(ts.Close)

	c, err := client.New(ts.URL)
	gt.NoError(t, err).Required()
	c.SetToken("anything")
	return c
}

func TestClient_TaskLifecycle(t *testing.T) {
	c := newBackend(t)
	ctx := context.Background()

	me, err := c.Me(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, me.ID).Equal("u-1")

	p, err := c.CreateProject(ctx, client.ProjectRequest{Name: "Board"})
	gt.NoError(t, err).Required()

	task, err := c.CreateTask(ctx, client.CreateTaskRequest{
		Title:       "Write docs",
		Description: "the whole thing",
		StatusID:    1,
		ProjectID:   p.ID,
		AssigneeID:  &me.ID,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, task.Assignee).NotNil()

	title := "Write better docs"
	status := int64(2)
	updated, err := c.UpdateTask(ctx, task.ID, client.UpdateTaskRequest{Title: &title, StatusID: &status})
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Title).Equal(title)
	gt.Value(t, updated.Status.Name).Equal("In Progress")
	gt.Value(t, updated.Description).Equal("the whole thing")

	mine, err := c.ListTasks(ctx, models.TaskFilter{AssigneeID: "u-1"})
	gt.NoError(t, err).Required()
	gt.Array(t, mine).Length(1)

	logs, err := c.LogsByProject(ctx, p.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, logs).Length(2)

	gt.NoError(t, c.DeleteTask(ctx, task.ID)).Required()
	_, err = c.GetTask(ctx, task.ID)
	gt.Bool(t, client.IsStatus(err, http.StatusNotFound)).True()

	logs, err = c.LogsByTask(ctx, task.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, logs).Length(0)
}

func TestClient_Lists(t *testing.T) {
	c := newBackend(t)
	ctx := context.Background()

	statuses, err := c.ListStatuses(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, statuses).Length(3)

	projects, err := c.ListProjects(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, projects).Length(0)
}

func TestClient_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.Header.Get("Authorization")).Equal("Bearer secret")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"title is required"}`))
	}))
	defer ts.Close()

	c, err := client.New(ts.URL + "/")
	gt.NoError(t, err).Required()
	c.SetToken(" secret ")

	_, err = c.CreateTask(context.Background(), client.CreateTaskRequest{})
	gt.Bool(t, client.IsStatus(err, http.StatusBadRequest)).True()
	gt.String(t, err.Error()).Contains("title is required")
}

func TestClient_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c, err := client.New(ts.URL, client.WithTimeout(50*time.Millisecond))
	gt.NoError(t, err).Required()

	start := time.Now()
	_, err = c.ListProjects(context.Background())
	gt.Error(t, err)
	gt.Bool(t, client.IsStatus(err, http.StatusOK)).False()
	gt.Bool(t, time.Since(start) < time.Second).True()
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := client.New("localhost")
	gt.Error(t, err)
}
