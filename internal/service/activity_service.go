package service

import (
	"context"
	"log/slog"

	"autoboard/internal/models"
	"autoboard/internal/storage"
)

// ActivityLogService reads the activity log. Entries are written by TaskService.
type ActivityLogService struct {
	store  *storage.Store
	logger *slog.Logger
}

// NewActivityLogService creates an ActivityLogService backed by store.
func NewActivityLogService(store *storage.Store, logger *slog.Logger) *ActivityLogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityLogService{store: store, logger: logger}
}

// LogsByTask returns the entries of one task. A task without entries and a
// missing task both yield an empty slice. userID is the verified caller and is
// only used for logging.
func (s *ActivityLogService) LogsByTask(ctx context.Context, taskID int64, userID string) ([]models.ActivityLog, error) {
	logs, err := s.store.ListActivityLogsByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("activity logs by task", slog.Int64("task_id", taskID), slog.String("user_id", userID), slog.Int("count", len(logs)))
	return logs, nil
}

// LogsByProject returns the entries of every task in the project.
func (s *ActivityLogService) LogsByProject(ctx context.Context, projectID int64, userID string) ([]models.ActivityLog, error) {
	logs, err := s.store.ListActivityLogsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("activity logs by project", slog.Int64("project_id", projectID), slog.String("user_id", userID), slog.Int("count", len(logs)))
	return logs, nil
}
