package shell_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"

	"autoboard/internal/auth"
	"autoboard/internal/client"
	"autoboard/internal/server"
	"autoboard/internal/shell"
	"autoboard/internal/storage"
)

func init() {
	color.NoColor = true
}

func newClient(t *testing.T) *client.Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "board.db"), logger)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = store.Close() })

	ts := httptest.NewServer(server.New(store, auth.NoAuth{UserID: "u-1"}, logger).Engine())
	t.Cleanup(ts.Close)

	c, err := client.New(ts.URL)
	gt.NoError(t, err).Required()
	return c
}

func run(t *testing.T, c *client.Client, input string) string {
	t.Helper()
	var out bytes.Buffer
	sh := shell.New(&shell.Session{Client: c}, strings.NewReader(input), &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	gt.NoError(t, sh.Run(context.Background())).Required()
	return out.String()
}

func TestShell_CreateAndList(t *testing.T) {
	c := newClient(t)
	_, err := c.CreateProject(context.Background(), client.ProjectRequest{Name: "Board"})
	gt.NoError(t, err).Required()

	out := run(t, c, strings.Join([]string{
		"login --token abc",
		"task-create --project-id 1",
		"Write docs",
		"All of them",
		"task-list-assigned",
		"logs-task --task-id 1",
		"exit",
		"task-list-all",
	}, "\n"))

	gt.String(t, out).Contains("Logged in as u-1 (u-1)")
	gt.String(t, out).Contains("Enter task title: ")
	gt.String(t, out).Contains("ID: 1")
	gt.String(t, out).Contains("Title: Write docs")
	gt.String(t, out).Contains("To Do")
	gt.String(t, out).Contains(`created task "Write docs"`)
	gt.Bool(t, strings.Contains(out, "Fetching all tasks")).False()
}

func TestShell_MissingValuesShowNA(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	c.SetToken("abc")
	p, err := c.CreateProject(ctx, client.ProjectRequest{Name: "Board"})
	gt.NoError(t, err).Required()
	_, err = c.CreateTask(ctx, client.CreateTaskRequest{Title: "Orphan", Description: "nobody owns it", StatusID: 2, ProjectID: p.ID})
	gt.NoError(t, err).Required()

	out := run(t, c, "task-list-all\n")

	gt.String(t, out).Contains("assignee_id")
	gt.String(t, out).Contains("Orphan")
	gt.String(t, out).Contains("In Progress")
	gt.String(t, out).Contains("N/A")
}

func TestShell_UpdateKeepsEmptyAnswers(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	c.SetToken("abc")
	p, err := c.CreateProject(ctx, client.ProjectRequest{Name: "Board"})
	gt.NoError(t, err).Required()
	task, err := c.CreateTask(ctx, client.CreateTaskRequest{Title: "Draft", Description: "first pass", StatusID: 1, ProjectID: p.ID})
	gt.NoError(t, err).Required()

	out := run(t, c, "task-update --id 1\n\n\n3\n")
	gt.String(t, out).Contains("Update successful!")

	got, err := c.GetTask(ctx, task.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Title).Equal("Draft")
	gt.Value(t, got.Description).Equal("first pass")
	gt.Value(t, got.Status.Name).Equal("Done")
}

func TestShell_ErrorsDoNotStopTheLoop(t *testing.T) {
	c := newClient(t)

	out := run(t, c, strings.Join([]string{
		"bogus",
		"whoami",
		"task-delete --id 42",
		`task-list-project --project-id "7`,
		"status-list",
	}, "\n"))

	gt.String(t, out).Contains(`unknown command "bogus"`)
	gt.String(t, out).Contains("not logged in")
	gt.String(t, out).Contains("failed to delete task")
	gt.String(t, out).Contains("unterminated quote")
	gt.String(t, out).Contains("In Progress")
}

func TestShell_Execute(t *testing.T) {
	c := newClient(t)
	var out bytes.Buffer
	sh := shell.New(&shell.Session{Client: c}, strings.NewReader(""), &out, nil)

	gt.NoError(t, sh.Execute(context.Background(), []string{"project-create", "--name", "Roadmap", "--description", "next quarter"})).Required()
	gt.String(t, out.String()).Contains("Project 1 created: Roadmap")

	gt.NoError(t, sh.Execute(context.Background(), []string{"project-list"})).Required()
	gt.String(t, out.String()).Contains("next quarter")
}

func TestSplitArgs(t *testing.T) {
	args, err := shell.SplitArgs(`project-create --name "Big board"  --color '#fff'`)
	gt.NoError(t, err).Required()
	gt.Array(t, args).Length(5)
	gt.Value(t, args[2]).Equal("Big board")
	gt.Value(t, args[4]).Equal("#fff")

	empty, err := shell.SplitArgs("   ")
	gt.NoError(t, err)
	gt.Array(t, empty).Length(0)

	_, err = shell.SplitArgs(`say "hi`)
	gt.Error(t, err)
}
