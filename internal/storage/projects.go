package storage

import (
	"context"
	"math/rand/v2"

	"github.com/m-mizutani/goerr/v2"

	"autoboard/internal/models"
)

// ListProjects retrieves all projects ordered by creation date.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&projects).Error; err != nil {
		return nil, goerr.Wrap(err, "list projects")
	}
	return projects, nil
}

// CreateProject persists a new project, picking a palette color when none is given.
func (s *Store) CreateProject(ctx context.Context, p *models.Project) error {
	if p.Color == "" {
		p.Color = randomPaletteColor()
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return goerr.Wrap(err, "insert project", goerr.V("name", p.Name))
	}
	return nil
}

// GetProject fetches a single project by id.
func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, "project", id)
	}
	return &p, nil
}

// UpdateProject saves name, description and color of an existing project.
func (s *Store) UpdateProject(ctx context.Context, p *models.Project) error {
	if p.Color == "" {
		p.Color = randomPaletteColor()
	}
	res := s.db.WithContext(ctx).Model(&models.Project{ID: p.ID}).Updates(map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"color":       p.Color,
	})
	if res.Error != nil {
		return goerr.Wrap(res.Error, "update project", goerr.V("id", p.ID))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", p.ID))
	}
	return nil
}

// DeleteProject removes a project along with its tasks.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Project{}, id)
	if res.Error != nil {
		return goerr.Wrap(res.Error, "delete project", goerr.V("id", id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
	}
	return nil
}

func randomPaletteColor() string {
	palette := []string{
		"#2563eb", // blue-600
		"#7c3aed", // violet-600
		"#dc2626", // red-600
		"#059669", // green-600
		"#ea580c", // orange-600
		"#d97706", // amber-600
		"#0ea5e9", // sky-500
	}
	return palette[rand.IntN(len(palette))]
}
