package storage_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"autoboard/internal/models"
	"autoboard/internal/storage"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "db", "board.db"), logger)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, store.Close())
	})
	return store
}

func seedTask(t *testing.T, store *storage.Store, projectID int64, title string) *models.Task {
	t.Helper()
	task := &models.Task{Title: title, Description: title + " description", StatusID: 1, ProjectID: projectID}
	gt.NoError(t, store.CreateTask(context.Background(), task)).Required()
	return task
}

func TestOpen_SeedsStatuses(t *testing.T) {
	store := openStore(t)

	statuses, err := store.ListTaskStatuses(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, statuses).Length(3)
	gt.Value(t, statuses[0].ID).Equal(int64(1))
	gt.Value(t, statuses[0].Name).Equal("To Do")
	gt.Value(t, statuses[2].Name).Equal("Done")
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.db")
	ctx := context.Background()

	first, err := storage.Open(storage.DriverSQLite, path, nil)
	gt.NoError(t, err).Required()
	gt.NoError(t, first.CreateProject(ctx, &models.Project{Name: "Alpha"})).Required()
	gt.NoError(t, first.Close()).Required()

	second, err := storage.Open(storage.DriverSQLite, path, nil)
	gt.NoError(t, err).Required()
	defer second.Close()

	projects, err := second.ListProjects(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, projects).Length(1)

	statuses, err := second.ListTaskStatuses(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, statuses).Length(3)
}

func TestOpen_RejectsBadConfig(t *testing.T) {
	_, err := storage.Open(storage.DriverSQLite, "", nil)
	gt.Error(t, err)

	_, err = storage.Open("oracle", "whatever", nil)
	gt.Error(t, err)
}

func TestProjects(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	p := &models.Project{Name: "Board"}
	gt.NoError(t, store.CreateProject(ctx, p)).Required()
	gt.Bool(t, p.ID > 0).True()
	gt.String(t, p.Color).NotEqual("")

	p.Name = "Renamed"
	p.Color = "#000000"
	gt.NoError(t, store.UpdateProject(ctx, p)).Required()

	got, err := store.GetProject(ctx, p.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Name).Equal("Renamed")
	gt.Value(t, got.Color).Equal("#000000")

	gt.Error(t, store.UpdateProject(ctx, &models.Project{ID: 999, Name: "x"})).Is(storage.ErrNotFound)

	_, err = store.GetProject(ctx, 999)
	gt.Error(t, err).Is(storage.ErrNotFound)

	gt.NoError(t, store.DeleteProject(ctx, p.ID)).Required()
	gt.Error(t, store.DeleteProject(ctx, p.ID)).Is(storage.ErrNotFound)
}

func TestTasks_RefsAndFilters(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	p1 := &models.Project{Name: "One"}
	p2 := &models.Project{Name: "Two"}
	gt.NoError(t, store.CreateProject(ctx, p1)).Required()
	gt.NoError(t, store.CreateProject(ctx, p2)).Required()

	user := &models.User{ID: "u-1", FirstName: "Grace", LastName: "Hopper"}
	gt.NoError(t, store.CreateUser(ctx, user)).Required()

	a := seedTask(t, store, p1.ID, "a")
	seedTask(t, store, p1.ID, "b")
	seedTask(t, store, p2.ID, "c")
	gt.NoError(t, store.UpdateTask(ctx, a.ID, map[string]any{"assignee_id": user.ID})).Required()

	got, err := store.GetTask(ctx, a.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Status.Name).Equal("To Do")
	gt.Value(t, got.Project.Name).Equal("One")
	gt.Value(t, got.Assignee.ID).Equal("u-1")

	all, err := store.ListTasks(ctx, models.TaskFilter{})
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(3)
	gt.Value(t, all[2].Assignee).Nil()

	byProject, err := store.ListTasks(ctx, models.TaskFilter{ProjectID: p1.ID})
	gt.NoError(t, err).Required()
	gt.Array(t, byProject).Length(2)

	byAssignee, err := store.ListTasks(ctx, models.TaskFilter{AssigneeID: "u-1"})
	gt.NoError(t, err).Required()
	gt.Array(t, byAssignee).Length(1)
	gt.Value(t, byAssignee[0].ID).Equal(a.ID)

	empty, err := store.ListTasks(ctx, models.TaskFilter{ProjectID: 999})
	gt.NoError(t, err).Required()
	gt.Bool(t, empty != nil).True()
	gt.Array(t, empty).Length(0)
}

func TestTasks_UpdateAndDelete(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	p := &models.Project{Name: "P"}
	gt.NoError(t, store.CreateProject(ctx, p)).Required()
	task := seedTask(t, store, p.ID, "task")

	gt.NoError(t, store.UpdateTask(ctx, task.ID, map[string]any{"title": "new", "status_id": int64(2)})).Required()
	got, err := store.GetTask(ctx, task.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Title).Equal("new")
	gt.Value(t, got.Status.Name).Equal("In Progress")

	gt.Error(t, store.UpdateTask(ctx, 999, map[string]any{"title": "x"})).Is(storage.ErrNotFound)

	gt.NoError(t, store.DeleteTask(ctx, task.ID)).Required()
	_, err = store.GetTask(ctx, task.ID)
	gt.Error(t, err).Is(storage.ErrNotFound)
	gt.Error(t, store.DeleteTask(ctx, task.ID)).Is(storage.ErrNotFound)
}

func TestTasks_ForeignKeys(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	err := store.CreateTask(ctx, &models.Task{Title: "x", Description: "y", StatusID: 1, ProjectID: 42})
	gt.Error(t, err)
}

func TestActivityLogs(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	p := &models.Project{Name: "P"}
	other := &models.Project{Name: "Other"}
	gt.NoError(t, store.CreateProject(ctx, p)).Required()
	gt.NoError(t, store.CreateProject(ctx, other)).Required()

	t1 := seedTask(t, store, p.ID, "t1")
	t2 := seedTask(t, store, p.ID, "t2")
	t3 := seedTask(t, store, other.ID, "t3")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	appendLog := func(task *models.Task, offset time.Duration) {
		gt.NoError(t, store.AppendActivityLog(ctx, &models.ActivityLog{
			TaskID:      task.ID,
			ProjectID:   task.ProjectID,
			Description: "changed",
			Timestamp:   base.Add(offset),
		})).Required()
	}
	appendLog(t1, 2*time.Minute)
	appendLog(t1, time.Minute)
	appendLog(t2, 3*time.Minute)
	appendLog(t3, 0)

	byTask, err := store.ListActivityLogsByTask(ctx, t1.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, byTask).Length(2)
	gt.Bool(t, byTask[0].Timestamp.Before(byTask[1].Timestamp)).True()

	byProject, err := store.ListActivityLogsByProject(ctx, p.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, byProject).Length(3)

	none, err := store.ListActivityLogsByTask(ctx, 999)
	gt.NoError(t, err).Required()
	gt.Array(t, none).Length(0)

	gt.NoError(t, store.DeleteTask(ctx, t1.ID)).Required()
	byProject, err = store.ListActivityLogsByProject(ctx, p.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, byProject).Length(1)
}

func TestUsers(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	gt.NoError(t, store.CreateUser(ctx, &models.User{ID: "b", FirstName: "Barbara", LastName: "Liskov"})).Required()
	gt.NoError(t, store.CreateUser(ctx, &models.User{ID: "a", FirstName: "Alan", LastName: "Turing"})).Required()

	users, err := store.ListUsers(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, users).Length(2)
	gt.Value(t, users[0].ID).Equal("b")

	u, err := store.FindUserByFirstName(ctx, "Alan")
	gt.NoError(t, err).Required()
	gt.Value(t, u.ID).Equal("a")

	u, err = store.FindUserByLastName(ctx, "Liskov")
	gt.NoError(t, err).Required()
	gt.Value(t, u.ID).Equal("b")

	_, err = store.FindUserByLastName(ctx, "Nobody")
	gt.Error(t, err).Is(storage.ErrNotFound)

	gt.NoError(t, store.UpsertUser(ctx, &models.User{ID: "a", FirstName: "Alan M.", LastName: "Turing"})).Required()
	u, err = store.GetUser(ctx, "a")
	gt.NoError(t, err).Required()
	gt.Value(t, u.FirstName).Equal("Alan M.")
}

func TestTransaction_RollsBack(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx *storage.Store) error {
		if err := tx.CreateProject(ctx, &models.Project{Name: "Ghost"}); err != nil {
			return err
		}
		_, err := tx.GetProject(ctx, 999)
		return err
	})
	gt.Error(t, err).Is(storage.ErrNotFound)

	projects, err := store.ListProjects(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, projects).Length(0)
}
