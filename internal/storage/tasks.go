package storage

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autoboard/internal/models"
)

// withTaskRefs fetches the status, project and assignee of the selected tasks.
func withTaskRefs(db *gorm.DB) *gorm.DB {
	return db.Preload("Status").Preload("Project").Preload("Assignee")
}

// ListTasks returns tasks matching the filter ordered by id, with references loaded.
func (s *Store) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	q := withTaskRefs(s.db.WithContext(ctx))
	if filter.ProjectID != 0 {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.AssigneeID != "" {
		q = q.Where("assignee_id = ?", filter.AssigneeID)
	}

	tasks := []models.Task{}
	if err := q.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, goerr.Wrap(err, "list tasks", goerr.V("filter", filter))
	}
	return tasks, nil
}

// CreateTask inserts a new task. Only the columns are written; the reference
// structs are ignored.
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error; err != nil {
		return goerr.Wrap(err, "insert task", goerr.V("project_id", t.ProjectID))
	}
	return nil
}

// GetTask retrieves a task by id with its references loaded.
func (s *Store) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var t models.Task
	if err := withTaskRefs(s.db.WithContext(ctx)).First(&t, id).Error; err != nil {
		return nil, notFound(err, "task", id)
	}
	return &t, nil
}

// UpdateTask writes the given column changes to a task.
func (s *Store) UpdateTask(ctx context.Context, id int64, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	res := s.db.WithContext(ctx).Model(&models.Task{ID: id}).Omit(clause.Associations).Updates(changes)
	if res.Error != nil {
		return goerr.Wrap(res.Error, "update task", goerr.V("id", id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}
	return nil
}

// DeleteTask removes a task by id. Its activity log goes with it.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return goerr.Wrap(res.Error, "delete task", goerr.V("id", id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}
	return nil
}
