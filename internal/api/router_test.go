package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/solx/solx-api/internal/core/domain"
	"github.com/solx/solx-api/internal/core/ports"
	"github.com/solx/solx-api/internal/core/service"
	"github.com/solx/solx-api/internal/infrastructure/token"
)

// --- in-memory collaborators ---

type memUsers struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	email map[string]string
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*domain.User{}, email: map[string]string{}}
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.email[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *m.byID[id]
	return &u, nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) UpdateName(_ context.Context, id, name string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name = name
	c := *u
	return &c, nil
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.email[u.Email]; ok {
		return nil, domain.ErrUserExists
	}
	c := *u
	c.ID = "u" + strconv.Itoa(len(m.byID)+1)
	m.byID[c.ID] = &c
	m.email[c.Email] = c.ID
	out := c
	return &out, nil
}

type memProjects struct {
	mu    sync.Mutex
	users *memUsers
	items map[string]*domain.Project
	seq   int
}

func (m *memProjects) embed(p domain.Project) *domain.Project {
	if u, err := m.users.FindByID(context.Background(), p.ManagerID); err == nil {
		p.Manager = domain.Manager{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return &p
}

func (m *memProjects) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	m.mu.Lock()
	m.seq++
	c := *p
	c.ID = "p" + strconv.Itoa(m.seq)
	m.items[c.ID] = &c
	m.mu.Unlock()
	return m.embed(c), nil
}

func (m *memProjects) FindByID(_ context.Context, id string) (*domain.Project, error) {
	m.mu.Lock()
	p, ok := m.items[id]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return m.embed(*p), nil
}

func (m *memProjects) List(_ context.Context, _ ports.ListProjectsFilter) ([]*domain.Project, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Project
	for _, p := range m.items {
		c := *p
		out = append(out, &c)
	}
	return out, int64(len(out)), nil
}

func (m *memProjects) Update(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	m.mu.Lock()
	p, ok := m.items[id]
	if ok && patch.Status != nil {
		p.Status = *patch.Status
	}
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return m.FindByID(ctx, id)
}

func (m *memProjects) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(m.items, id)
	return nil
}

type nopRequests struct{}

func (nopRequests) Create(_ context.Context, r *domain.AccessRequest) (*domain.AccessRequest, error) {
	c := *r
	c.ID = "req-1"
	return &c, nil
}

type nopQueue struct{}

func (nopQueue) Enqueue(domain.Notification) {}

type alwaysFresh struct{}

func (alwaysFresh) Claim(context.Context, string) (bool, error) { return true, nil }

// --- harness ---

type testServer struct {
	t     *testing.T
	srv   http.Handler
	users *memUsers
	codec *token.Codec
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{t: t, users: newMemUsers()}

	codec, err := token.NewCodec("router-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	ts.codec = codec

	log := zerolog.Nop()
	projects := &memProjects{users: ts.users, items: map[string]*domain.Project{}}
	reg := prometheus.NewRegistry()

	ts.srv = NewRouter(Deps{
		Log:        log,
		Tokens:     codec,
		Auth:       service.NewAuthService(ts.users, codec, log),
		Access:     service.NewAccessRequestService(ts.users, nopRequests{}, nopQueue{}, alwaysFresh{}, "admin@solx.io", log),
		Projects:   service.NewProjectService(projects, ts.users, log),
		Registerer: reg,
		Gatherer:   reg,
	})
	return ts
}

func (ts *testServer) addUser(email, password string, role domain.Role, active bool) *domain.User {
	ts.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		ts.t.Fatalf("hash: %v", err)
	}
	u, err := ts.users.Create(context.Background(), &domain.User{
		Name: "Test " + string(role), Email: email, PasswordHash: string(hash), Role: role, IsActive: active,
	})
	if err != nil {
		ts.t.Fatalf("create user: %v", err)
	}
	return u
}

func (ts *testServer) tokenFor(u *domain.User) string {
	ts.t.Helper()
	tok, err := ts.codec.Issue(domain.IdentityOf(u))
	if err != nil {
		ts.t.Fatalf("issue: %v", err)
	}
	return tok
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (ts *testServer) do(method, path, auth, body string) (int, envelope) {
	ts.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		ts.t.Fatalf("%s %s: invalid json %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

// --- tests ---

func TestRouter_GateResponses(t *testing.T) {
	ts := newTestServer(t)
	viewer := ts.addUser("v@solx.io", "pw", domain.RoleViewer, true)

	cases := []struct {
		name     string
		auth     string
		wantCode int
		wantMsg  string
	}{
		{"no header", "", http.StatusUnauthorized, "Authentication required"},
		{"scheme only", "Bearer", http.StatusUnauthorized, "Invalid token format"},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid token", "Bearer " + ts.tokenFor(viewer), http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := ts.do(http.MethodGet, "/api/auth/verify", tc.auth, "")
			if code != tc.wantCode {
				t.Fatalf("expected %d, got %d (%s)", tc.wantCode, code, env.Error)
			}
			if env.Error != tc.wantMsg {
				t.Fatalf("expected %q, got %q", tc.wantMsg, env.Error)
			}
			if env.Success != (tc.wantCode == http.StatusOK) {
				t.Fatalf("unexpected success flag %v", env.Success)
			}
		})
	}
}

func TestRouter_LoginFailuresAreIndistinguishable(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser("pm@solx.io", "right-password", domain.RoleProjectManager, true)

	codeUnknown, envUnknown := ts.do(http.MethodPost, "/api/auth/login", "", `{"email":"nobody@solx.io","password":"x"}`)
	codeWrong, envWrong := ts.do(http.MethodPost, "/api/auth/login", "", `{"email":"pm@solx.io","password":"wrong"}`)

	if codeUnknown != http.StatusUnauthorized || codeWrong != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", codeUnknown, codeWrong)
	}
	if envUnknown.Error != envWrong.Error || envWrong.Error != "Invalid credentials" {
		t.Fatalf("messages differ: %q vs %q", envUnknown.Error, envWrong.Error)
	}
}

func TestRouter_InactiveAccount(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser("off@solx.io", "pw", domain.RoleAdmin, false)

	code, env := ts.do(http.MethodPost, "/api/auth/login", "", `{"email":"off@solx.io","password":"pw"}`)
	if code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
	if env.Error != "Account is not active. Please contact administrator." {
		t.Fatalf("unexpected message %q", env.Error)
	}
}

func TestRouter_LoginThenVerifyRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	u := ts.addUser("eng@solx.io", "pw", domain.RoleSiteEngineer, true)

	code, env := ts.do(http.MethodPost, "/api/auth/login", "", `{"email":"eng@solx.io","password":"pw"}`)
	if code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", code, env.Error)
	}
	var login struct {
		AccessToken string            `json:"accessToken"`
		User        domain.PublicUser `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if strings.Contains(string(env.Data), "password") {
		t.Fatal("login response leaks password material")
	}

	code, env = ts.do(http.MethodGet, "/api/auth/verify", "Bearer "+login.AccessToken, "")
	if code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d", code)
	}
	var verify struct {
		User struct {
			ID   string      `json:"id"`
			Role domain.Role `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &verify); err != nil {
		t.Fatalf("decode verify: %v", err)
	}
	if verify.User.ID != u.ID || verify.User.ID != login.User.ID || verify.User.Role != domain.RoleSiteEngineer {
		t.Fatalf("identity mismatch: login=%+v verify=%+v", login.User, verify.User)
	}
}

func TestRouter_ProjectRoleGating(t *testing.T) {
	ts := newTestServer(t)
	viewer := ts.addUser("v@solx.io", "pw", domain.RoleViewer, true)
	pm := ts.addUser("pm@solx.io", "pw", domain.RoleProjectManager, true)
	admin := ts.addUser("a@solx.io", "pw", domain.RoleAdmin, true)

	body := `{"name":"Mesa Solar","type":"SOLAR","location":"Arizona","startDate":"2026-03-01T00:00:00Z"}`

	code, env := ts.do(http.MethodPost, "/api/projects", "Bearer "+ts.tokenFor(viewer), body)
	if code != http.StatusForbidden || env.Error != "Insufficient permissions" {
		t.Fatalf("viewer create: expected 403, got %d %q", code, env.Error)
	}

	code, env = ts.do(http.MethodPost, "/api/projects", "Bearer "+ts.tokenFor(pm), body)
	if code != http.StatusCreated {
		t.Fatalf("pm create: expected 201, got %d %q", code, env.Error)
	}
	var created struct {
		ID      string         `json:"id"`
		Manager domain.Manager `json:"manager"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode project: %v", err)
	}
	if created.Manager.ID != pm.ID {
		t.Fatalf("expected caller as manager, got %+v", created.Manager)
	}

	code, _ = ts.do(http.MethodGet, "/api/projects/"+created.ID, "Bearer "+ts.tokenFor(viewer), "")
	if code != http.StatusOK {
		t.Fatalf("viewer get: expected 200, got %d", code)
	}

	code, _ = ts.do(http.MethodDelete, "/api/projects/"+created.ID, "Bearer "+ts.tokenFor(pm), "")
	if code != http.StatusForbidden {
		t.Fatalf("pm delete: expected 403, got %d", code)
	}

	code, env = ts.do(http.MethodDelete, "/api/projects/"+created.ID, "Bearer "+ts.tokenFor(admin), "")
	if code != http.StatusOK {
		t.Fatalf("admin delete: expected 200, got %d %q", code, env.Error)
	}

	code, env = ts.do(http.MethodGet, "/api/projects/"+created.ID, "Bearer "+ts.tokenFor(admin), "")
	if code != http.StatusNotFound || env.Error != "Project not found" {
		t.Fatalf("expected 404 after delete, got %d %q", code, env.Error)
	}
}

func TestRouter_UnknownManager(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.addUser("a@solx.io", "pw", domain.RoleAdmin, true)

	body := `{"name":"Ridge","type":"WIND","location":"Texas","startDate":"2026-03-01T00:00:00Z","managerId":"ghost"}`
	code, env := ts.do(http.MethodPost, "/api/projects", "Bearer "+ts.tokenFor(admin), body)
	if code != http.StatusBadRequest || env.Error != "Invalid manager ID" {
		t.Fatalf("expected 400 Invalid manager ID, got %d %q", code, env.Error)
	}
}

func TestRouter_RequestAccessExistingEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.addUser("taken@solx.io", "pw", domain.RoleViewer, true)

	body := `{"name":"Bo","email":"taken@solx.io","company":"Helios","message":"please let me in"}`
	code, env := ts.do(http.MethodPost, "/api/auth/request-access", "", body)
	if code != http.StatusBadRequest || env.Error != "An account with this email already exists" {
		t.Fatalf("expected 400, got %d %q", code, env.Error)
	}
}

func TestRouter_ProfileUpdateValidation(t *testing.T) {
	ts := newTestServer(t)
	u := ts.addUser("p@solx.io", "pw", domain.RoleViewer, true)

	code, env := ts.do(http.MethodPut, "/api/auth/profile", "Bearer "+ts.tokenFor(u), `{"name":"X"}`)
	if code != http.StatusBadRequest || env.Error != "Name must be at least 2 characters" {
		t.Fatalf("expected 400, got %d %q", code, env.Error)
	}

	code, env = ts.do(http.MethodPut, "/api/auth/profile", "Bearer "+ts.tokenFor(u), `{"name":"Xavier"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %q", code, env.Error)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/nope", "/api/auth/nope", "/api/projects/a/b"} {
		code, env := ts.do(http.MethodGet, path, "", "")
		if code != http.StatusNotFound || env.Error != "Route not found" {
			t.Fatalf("%s: expected 404 Route not found, got %d %q", path, code, env.Error)
		}
	}
}

func TestRouter_NestedProjectPathIsNotAnID(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.addUser("root@solx.io", "pw", domain.RoleMasterAdmin, true)
	bearer := "Bearer " + ts.tokenFor(admin)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		code, env := ts.do(method, "/api/projects/a/b", bearer, `{}`)
		if code != http.StatusNotFound || env.Error != "Route not found" {
			t.Fatalf("%s: expected 404 Route not found, got %d %q", method, code, env.Error)
		}
	}

	code, env := ts.do(http.MethodGet, "/api/projects/507f1f77bcf86cd799439011", bearer, "")
	if code != http.StatusNotFound || env.Error != "Project not found" {
		t.Fatalf("expected 404 Project not found, got %d %q", code, env.Error)
	}
}
