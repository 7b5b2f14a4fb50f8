package storage

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"autoboard/internal/models"
)

// AppendActivityLog writes a new log entry.
func (s *Store) AppendActivityLog(ctx context.Context, entry *models.ActivityLog) error {
	if err := s.db.WithContext(ctx).Omit("Task").Create(entry).Error; err != nil {
		return goerr.Wrap(err, "insert activity log", goerr.V("task_id", entry.TaskID))
	}
	return nil
}

// ListActivityLogsByTask returns the log of one task, oldest first.
func (s *Store) ListActivityLogsByTask(ctx context.Context, taskID int64) ([]models.ActivityLog, error) {
	logs := []models.ActivityLog{}
	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("timestamp ASC, id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, goerr.Wrap(err, "list activity logs by task", goerr.V("task_id", taskID))
	}
	return logs, nil
}

// ListActivityLogsByProject returns the logs of every task currently in the
// project, oldest first.
func (s *Store) ListActivityLogsByProject(ctx context.Context, projectID int64) ([]models.ActivityLog, error) {
	tasks := s.db.Model(&models.Task{}).Select("id").Where("project_id = ?", projectID)

	logs := []models.ActivityLog{}
	err := s.db.WithContext(ctx).
		Where("task_id IN (?)", tasks).
		Order("timestamp ASC, id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, goerr.Wrap(err, "list activity logs by project", goerr.V("project_id", projectID))
	}
	return logs, nil
}
