package ports

import (
	"context"

	"github.com/solx/solx-api/internal/core/domain"
)

// ListProjectsFilter carries the query parameters for listing projects.
type ListProjectsFilter struct {
	Status string // optional
	Type   string // optional
	Page   int    // 1-based
	Limit  int
}

// ProjectRepository defines persistence operations for projects.
// Returned projects have Manager populated.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	// List returns a page of projects ordered by creation time, newest first,
	// and the total number of matches.
	List(ctx context.Context, filter ListProjectsFilter) ([]*domain.Project, int64, error)
	Update(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}
