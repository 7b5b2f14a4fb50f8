package storage

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm/clause"

	"autoboard/internal/models"
)

// ListUsers returns all users ordered by last and first name.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("last_name ASC, first_name ASC, id ASC").Find(&users).Error; err != nil {
		return nil, goerr.Wrap(err, "list users")
	}
	return users, nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

// FindUserByFirstName returns the first user with the given first name.
func (s *Store) FindUserByFirstName(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("first_name = ?", name).Order("id ASC").First(&u).Error; err != nil {
		return nil, notFound(err, "user", name)
	}
	return &u, nil
}

// FindUserByLastName returns the first user with the given last name.
func (s *Store) FindUserByLastName(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("last_name = ?", name).Order("id ASC").First(&u).Error; err != nil {
		return nil, notFound(err, "user", name)
	}
	return &u, nil
}

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return goerr.Wrap(err, "insert user", goerr.V("id", u.ID))
	}
	return nil
}

// UpsertUser inserts the user or refreshes the profile fields of an existing one.
func (s *Store) UpsertUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "email"}),
	}).Create(u).Error
	if err != nil {
		return goerr.Wrap(err, "upsert user", goerr.V("id", u.ID))
	}
	return nil
}
