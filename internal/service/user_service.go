package service

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"autoboard/internal/auth"
	"autoboard/internal/models"
	"autoboard/internal/storage"
)

// UserService manages the people tasks can be assigned to.
type UserService struct {
	store *storage.Store
}

// NewUserService creates a UserService backed by store.
func NewUserService(store *storage.Store) *UserService {
	return &UserService{store: store}
}

// List returns every user ordered by name.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// FindByName returns the first user matching firstName, lastName or both.
// No match yields an empty slice.
func (s *UserService) FindByName(ctx context.Context, firstName, lastName string) ([]models.User, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)

	var (
		u   *models.User
		err error
	)
	switch {
	case firstName != "":
		u, err = s.store.FindUserByFirstName(ctx, firstName)
	case lastName != "":
		u, err = s.store.FindUserByLastName(ctx, lastName)
	default:
		return nil, goerr.Wrap(ErrInvalidInput, "first or last name is required")
	}
	if errors.Is(err, storage.ErrNotFound) {
		return []models.User{}, nil
	}
	if err != nil {
		return nil, err
	}
	if firstName != "" && lastName != "" && u.LastName != lastName {
		return []models.User{}, nil
	}
	return []models.User{*u}, nil
}

// Create registers a user under an explicit id.
func (s *UserService) Create(ctx context.Context, u models.User) (*models.User, error) {
	u.ID = strings.TrimSpace(u.ID)
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	if err := check(u); err != nil {
		return nil, err
	}
	if err := s.store.CreateUser(ctx, &u); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, u.ID)
}

// Ensure returns the user behind a verified identity, creating it on first
// sight and refreshing its profile otherwise. Identities without profile
// claims leave an existing profile untouched.
func (s *UserService) Ensure(ctx context.Context, id *auth.Identity) (*models.User, error) {
	u := models.User{
		ID:        id.UserID,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Email:     id.Email,
	}
	if err := check(u); err != nil {
		return nil, err
	}

	if u.FirstName == "" && u.LastName == "" && u.Email == "" {
		if existing, err := s.store.GetUser(ctx, u.ID); err == nil {
			return existing, nil
		}
	}
	if err := s.store.UpsertUser(ctx, &u); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, u.ID)
}
