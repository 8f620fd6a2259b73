package ports

import (
	"context"
	"time"

	"github.com/solx/solx-api/internal/core/domain"
)

// CreateProjectInput carries all data needed to create a project.
type CreateProjectInput struct {
	Name        string
	Description *string
	Type        domain.ProjectType
	Location    string
	Capacity    *float64
	Budget      *float64
	StartDate   time.Time
	EndDate     *time.Time
	ManagerID   string
	// CallerID becomes the manager when ManagerID is empty.
	CallerID string
}

// ListProjectsResult is returned by ListProjects.
type ListProjectsResult struct {
	Projects []*domain.Project
	Total    int64
	Page     int
	Limit    int
}

type ProjectService interface {
	CreateProject(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjects(ctx context.Context, filter ListProjectsFilter) (*ListProjectsResult, error)
	UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
}
