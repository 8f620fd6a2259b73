package service

import (
	"context"
	"math"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/solx/solx-api/internal/core/domain"
	"github.com/solx/solx-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubProjectRepo struct {
	byID       map[string]*domain.Project
	seq        int
	lastFilter ports.ListProjectsFilter
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{byID: make(map[string]*domain.Project)}
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	r.seq++
	clone := *p
	clone.ID = "p" + strconv.Itoa(r.seq)
	clone.Manager = domain.Manager{ID: p.ManagerID}
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProjectRepo) List(_ context.Context, f ports.ListProjectsFilter) ([]*domain.Project, int64, error) {
	r.lastFilter = f
	var matched []*domain.Project
	for _, p := range r.byID {
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		if f.Type != "" && string(p.Type) != f.Type {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubProjectRepo) Update(_ context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.ManagerID != nil {
		p.ManagerID = *patch.ManagerID
	}
	clone := *p
	return &clone, nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.byID, id)
	return nil
}

func newProjectFixture(t *testing.T) (*ProjectService, *stubProjectRepo, *domain.User) {
	t.Helper()
	users := newStubUserRepo()
	pm := users.add(t, "Paula", "pm@solx.io", "pw", domain.RoleProjectManager, true)
	repo := newStubProjectRepo()
	return NewProjectService(repo, users, zerolog.Nop()), repo, pm
}

func TestProjectService_Create_DefaultsManagerToCaller(t *testing.T) {
	svc, _, pm := newProjectFixture(t)

	p, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{
		Name:      "Desert Sun I",
		Type:      domain.ProjectTypeSolar,
		Location:  "Nevada",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CallerID:  pm.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ManagerID != pm.ID {
		t.Fatalf("expected caller as manager, got %q", p.ManagerID)
	}
	if p.Status != domain.ProjectStatusPlanning {
		t.Fatalf("expected PLANNING, got %s", p.Status)
	}
}

func TestProjectService_Create_UnknownManager(t *testing.T) {
	svc, _, pm := newProjectFixture(t)

	_, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{
		Name:      "Gale Ridge",
		Type:      domain.ProjectTypeWind,
		Location:  "Wyoming",
		StartDate: time.Now(),
		ManagerID: "ghost",
		CallerID:  pm.ID,
	})
	if err != domain.ErrInvalidManager {
		t.Fatalf("expected ErrInvalidManager, got %v", err)
	}
}

func TestProjectService_List_Paging(t *testing.T) {
	svc, repo, pm := newProjectFixture(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		p, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{
			Name: "P" + strconv.Itoa(i), Type: domain.ProjectTypeHydro, Location: "Oregon",
			StartDate: base, CallerID: pm.ID,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		repo.byID[p.ID].CreatedAt = base.Add(time.Duration(i) * time.Hour)
	}

	res, err := svc.ListProjects(context.Background(), ports.ListProjectsFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Page != 1 || res.Limit != 10 || res.Total != 3 || len(res.Projects) != 3 {
		t.Fatalf("unexpected defaults: %+v", res)
	}
	if res.Projects[0].Name != "P2" {
		t.Fatalf("expected newest first, got %s", res.Projects[0].Name)
	}

	res, err = svc.ListProjects(context.Background(), ports.ListProjectsFilter{Page: 5, Limit: 1000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastFilter.Limit != 100 {
		t.Fatalf("expected limit capped at 100, got %d", repo.lastFilter.Limit)
	}
	if res.Projects == nil || len(res.Projects) != 0 {
		t.Fatalf("expected empty non-nil page, got %#v", res.Projects)
	}
}

func TestProjectService_List_HugePageIsCapped(t *testing.T) {
	svc, repo, _ := newProjectFixture(t)

	res, err := svc.ListProjects(context.Background(), ports.ListProjectsFilter{Page: math.MaxInt, Limit: 100})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastFilter.Page != 1_000_000 || res.Page != 1_000_000 {
		t.Fatalf("expected page capped at 1000000, got %d", repo.lastFilter.Page)
	}
	if len(res.Projects) != 0 {
		t.Fatalf("expected empty page, got %d", len(res.Projects))
	}
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	svc, _, pm := newProjectFixture(t)
	p, err := svc.CreateProject(context.Background(), ports.CreateProjectInput{
		Name: "Hybrid One", Type: domain.ProjectTypeHybrid, Location: "Texas",
		StartDate: time.Now(), CallerID: pm.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := domain.ProjectStatusInProgress
	updated, err := svc.UpdateProject(context.Background(), p.ID, domain.ProjectPatch{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.ProjectStatusInProgress {
		t.Fatalf("status not applied: %s", updated.Status)
	}

	ghost := "ghost"
	if _, err := svc.UpdateProject(context.Background(), p.ID, domain.ProjectPatch{ManagerID: &ghost}); err != domain.ErrInvalidManager {
		t.Fatalf("expected ErrInvalidManager, got %v", err)
	}
	if _, err := svc.UpdateProject(context.Background(), "missing", domain.ProjectPatch{}); err != domain.ErrProjectNotFound {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}

	if err := svc.DeleteProject(context.Background(), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteProject(context.Background(), p.ID); err != domain.ErrProjectNotFound {
		t.Fatalf("expected ErrProjectNotFound on second delete, got %v", err)
	}
}
