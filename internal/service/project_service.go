package service

import (
	"context"
	"strings"

	"autoboard/internal/models"
	"autoboard/internal/storage"
)

// ProjectService manages projects.
type ProjectService struct {
	store *storage.Store
}

// NewProjectService creates a ProjectService backed by store.
func NewProjectService(store *storage.Store) *ProjectService {
	return &ProjectService{store: store}
}

// List returns all projects, oldest first.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.store.ListProjects(ctx)
}

// Get returns the project with the given id.
func (s *ProjectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	return s.store.GetProject(ctx, id)
}

// Create validates and stores a new project.
func (s *ProjectService) Create(ctx context.Context, p models.Project) (*models.Project, error) {
	p.ID = 0
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if err := check(p); err != nil {
		return nil, err
	}
	if err := s.store.CreateProject(ctx, &p); err != nil {
		return nil, err
	}
	return s.store.GetProject(ctx, p.ID)
}

// Update renames, re-describes or recolors an existing project.
func (s *ProjectService) Update(ctx context.Context, p models.Project) (*models.Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if err := check(p); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProject(ctx, &p); err != nil {
		return nil, err
	}
	return s.store.GetProject(ctx, p.ID)
}

// Delete removes the project and every task in it.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteProject(ctx, id)
}
