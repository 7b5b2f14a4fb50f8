package service

import (
	"context"
	"strings"

	"autoboard/internal/models"
	"autoboard/internal/storage"
)

// TaskStatusService manages the board columns.
type TaskStatusService struct {
	store *storage.Store
}

// NewTaskStatusService creates a TaskStatusService backed by store.
func NewTaskStatusService(store *storage.Store) *TaskStatusService {
	return &TaskStatusService{store: store}
}

// List returns all statuses ordered by id.
func (s *TaskStatusService) List(ctx context.Context) ([]models.TaskStatus, error) {
	return s.store.ListTaskStatuses(ctx)
}

// Create validates and stores a new status.
func (s *TaskStatusService) Create(ctx context.Context, st models.TaskStatus) (*models.TaskStatus, error) {
	st.ID = 0
	st.Name = strings.TrimSpace(st.Name)
	if err := check(st); err != nil {
		return nil, err
	}
	if err := s.store.CreateTaskStatus(ctx, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
