package storage

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"autoboard/internal/models"
)

// ListTaskStatuses returns all board columns in id order.
func (s *Store) ListTaskStatuses(ctx context.Context) ([]models.TaskStatus, error) {
	statuses := []models.TaskStatus{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&statuses).Error; err != nil {
		return nil, goerr.Wrap(err, "list task statuses")
	}
	return statuses, nil
}

// GetTaskStatus fetches a status by id.
func (s *Store) GetTaskStatus(ctx context.Context, id int64) (*models.TaskStatus, error) {
	var st models.TaskStatus
	if err := s.db.WithContext(ctx).First(&st, id).Error; err != nil {
		return nil, notFound(err, "task status", id)
	}
	return &st, nil
}

// CreateTaskStatus adds a new board column.
func (s *Store) CreateTaskStatus(ctx context.Context, st *models.TaskStatus) error {
	if err := s.db.WithContext(ctx).Create(st).Error; err != nil {
		return goerr.Wrap(err, "insert task status", goerr.V("name", st.Name))
	}
	return nil
}
