package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"autoboard/internal/models"
	"autoboard/internal/storage"
)

// TaskChanges lists the fields an update may touch. Nil fields stay as they are.
type TaskChanges struct {
	Title       *string
	Description *string
	StatusID    *int64
}

// TaskService runs task use cases and writes their activity log entries.
type TaskService struct {
	store  *storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a TaskService backed by store.
func NewTaskService(store *storage.Store, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{store: store, logger: logger, now: time.Now}
}

// List returns all tasks matching filter.
func (s *TaskService) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return s.store.ListTasks(ctx, filter)
}

// Get returns one task with its status, project and assignee.
func (s *TaskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	return s.store.GetTask(ctx, id)
}

// Create persists a new task and records it in the activity log. actorID may be empty.
func (s *TaskService) Create(ctx context.Context, task models.Task, actorID string) (*models.Task, error) {
	task.ID = 0
	task.Title = strings.TrimSpace(task.Title)
	task.Description = strings.TrimSpace(task.Description)
	task.Status, task.Project, task.Assignee = nil, nil, nil
	if task.AssigneeID != nil && *task.AssigneeID == "" {
		task.AssigneeID = nil
	}
	if err := check(task); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx *storage.Store) error {
		if _, err := tx.GetProject(ctx, task.ProjectID); err != nil {
			return err
		}
		if _, err := tx.GetTaskStatus(ctx, task.StatusID); err != nil {
			return err
		}
		if task.AssigneeID != nil {
			if _, err := tx.GetUser(ctx, *task.AssigneeID); err != nil {
				return err
			}
		}
		if err := tx.CreateTask(ctx, &task); err != nil {
			return err
		}
		return s.record(ctx, tx, &task, actorID, fmt.Sprintf("created task %q", task.Title))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task created", slog.Int64("task_id", task.ID), slog.Int64("project_id", task.ProjectID))
	return s.store.GetTask(ctx, task.ID)
}

// Update applies changes to a task and records which fields changed.
func (s *TaskService) Update(ctx context.Context, id int64, changes TaskChanges, actorID string) (*models.Task, error) {
	err := s.store.Transaction(ctx, func(tx *storage.Store) error {
		current, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}

		next := *current
		next.Status, next.Project, next.Assignee = nil, nil, nil
		updates := map[string]any{}
		var changed []string

		if title := changes.Title; title != nil && strings.TrimSpace(*title) != "" && *title != current.Title {
			next.Title = *title
			updates["title"] = *title
			changed = append(changed, "title")
		}
		if desc := changes.Description; desc != nil && strings.TrimSpace(*desc) != "" && *desc != current.Description {
			next.Description = *desc
			updates["description"] = *desc
			changed = append(changed, "description")
		}
		if changes.StatusID != nil && *changes.StatusID != current.StatusID {
			status, err := tx.GetTaskStatus(ctx, *changes.StatusID)
			if err != nil {
				return err
			}
			next.StatusID = status.ID
			updates["status_id"] = status.ID
			changed = append(changed, "status to "+status.Name)
		}

		if len(updates) == 0 {
			return nil
		}
		if err := check(next); err != nil {
			return err
		}
		if err := tx.UpdateTask(ctx, id, updates); err != nil {
			return err
		}
		return s.record(ctx, tx, &next, actorID, "updated task: "+strings.Join(changed, ", "))
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetTask(ctx, id)
}

// Assign sets the assignee of a task.
func (s *TaskService) Assign(ctx context.Context, id int64, assigneeID, actorID string) (*models.Task, error) {
	if strings.TrimSpace(assigneeID) == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "assignee id is required", goerr.V("task_id", id))
	}

	err := s.store.Transaction(ctx, func(tx *storage.Store) error {
		task, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}
		user, err := tx.GetUser(ctx, assigneeID)
		if err != nil {
			return err
		}
		if err := tx.UpdateTask(ctx, id, map[string]any{"assignee_id": user.ID}); err != nil {
			return err
		}
		return s.record(ctx, tx, task, actorID, "assigned task to "+displayName(user))
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetTask(ctx, id)
}

// Delete removes a task together with its activity log.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", slog.Int64("task_id", id))
	return nil
}

func (s *TaskService) record(ctx context.Context, tx *storage.Store, task *models.Task, actorID, description string) error {
	entry := &models.ActivityLog{
		TaskID:      task.ID,
		ProjectID:   task.ProjectID,
		Description: description,
		Timestamp:   s.now().UTC(),
	}
	if actorID != "" {
		entry.UserID = &actorID
	}
	return tx.AppendActivityLog(ctx, entry)
}

func displayName(u *models.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.ID
	}
	return name
}
