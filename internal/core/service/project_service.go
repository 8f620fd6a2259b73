package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/solx/solx-api/internal/core/domain"
	"github.com/solx/solx-api/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	maxPage      = 1_000_000
)

type ProjectService struct {
	projects ports.ProjectRepository
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewProjectService(projects ports.ProjectRepository, users ports.UserRepository, logger zerolog.Logger) *ProjectService {
	return &ProjectService{projects: projects, users: users, logger: logger}
}

// CreateProject stores a new project in PLANNING status. The caller manages
// it unless another manager is named.
func (s *ProjectService) CreateProject(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	managerID := in.ManagerID
	if managerID == "" {
		managerID = in.CallerID
	}
	if err := s.checkManager(ctx, managerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.projects.Create(ctx, &domain.Project{
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
		Status:      domain.ProjectStatusPlanning,
		Location:    in.Location,
		Capacity:    in.Capacity,
		Budget:      in.Budget,
		StartDate:   in.StartDate.UTC(),
		EndDate:     in.EndDate,
		ManagerID:   managerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create project")
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info().Str("project_id", created.ID).Str("manager_id", managerID).Msg("project created")
	return created, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.FindByID(ctx, id)
}

// ListProjects returns one page of projects. Page and limit fall back to
// 1 and 10; limit is capped at 100 and page at 1,000,000.
func (s *ProjectService) ListProjects(ctx context.Context, f ports.ListProjectsFilter) (*ports.ListProjectsResult, error) {
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.Page > maxPage {
		f.Page = maxPage
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	items, total, err := s.projects.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if items == nil {
		items = []*domain.Project{}
	}

	return &ports.ListProjectsResult{
		Projects: items,
		Total:    total,
		Page:     f.Page,
		Limit:    f.Limit,
	}, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	if _, err := s.projects.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if patch.ManagerID != nil {
		if err := s.checkManager(ctx, *patch.ManagerID); err != nil {
			return nil, err
		}
	}

	updated, err := s.projects.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("project_id", id).Msg("project updated")
	return updated, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.projects.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("project_id", id).Msg("project deleted")
	return nil
}

func (s *ProjectService) checkManager(ctx context.Context, managerID string) error {
	if _, err := s.users.FindByID(ctx, managerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidManager
		}
		return fmt.Errorf("check manager: %w", err)
	}
	return nil
}
