package handler

import (
	"time"

	"github.com/solx/solx-api/internal/core/domain"
	"github.com/solx/solx-api/internal/core/ports"
)

// --- Request → Service input ---
// Date strings have already passed the datetime validator.

func toCreateInput(req createProjectRequest, callerID string) ports.CreateProjectInput {
	start, _ := time.Parse(time.RFC3339, req.StartDate)
	return ports.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        domain.ProjectType(req.Type),
		Location:    req.Location,
		Capacity:    req.Capacity,
		Budget:      req.Budget,
		StartDate:   start,
		EndDate:     parseOptionalTime(req.EndDate),
		ManagerID:   req.ManagerID,
		CallerID:    callerID,
	}
}

func toPatch(req updateProjectRequest) domain.ProjectPatch {
	patch := domain.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Budget:      req.Budget,
		StartDate:   parseOptionalTime(req.StartDate),
		EndDate:     parseOptionalTime(req.EndDate),
		ManagerID:   req.ManagerID,
	}
	if req.Type != nil {
		t := domain.ProjectType(*req.Type)
		patch.Type = &t
	}
	if req.Status != nil {
		s := domain.ProjectStatus(*req.Status)
		patch.Status = &s
	}
	return patch
}

func parseOptionalTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// --- Service result → HTTP response ---

func toProjectResponse(p *domain.Project) projectResponse {
	resp := projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Type:        string(p.Type),
		Status:      string(p.Status),
		Location:    p.Location,
		Capacity:    p.Capacity,
		Budget:      p.Budget,
		StartDate:   p.StartDate.UTC(),
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
		Manager: managerResponse{
			ID:    p.Manager.ID,
			Name:  p.Manager.Name,
			Email: p.Manager.Email,
		},
	}
	if p.EndDate != nil {
		end := p.EndDate.UTC()
		resp.EndDate = &end
	}
	return resp
}

func toListResponse(r *ports.ListProjectsResult) listProjectsResponse {
	items := make([]projectResponse, len(r.Projects))
	for i, p := range r.Projects {
		items[i] = toProjectResponse(p)
	}
	return listProjectsResponse{
		Projects: items,
		Total:    r.Total,
		Page:     r.Page,
		Limit:    r.Limit,
	}
}
