package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/taskserver/task-api/internal/api/handler"
	"github.com/taskserver/task-api/internal/core/domain"
	"github.com/taskserver/task-api/internal/core/ports"
	"github.com/taskserver/task-api/internal/core/service"
)

const goodToken = "good-token"

// countingUserRepo is an in-memory user store that records every call.
type countingUserRepo struct {
	users map[string]*domain.User
	calls int
}

func (r *countingUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.calls++
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *countingUserRepo) Create(_ context.Context, u *domain.User) (string, error) {
	r.calls++
	u.ID = "65f0c0ffee00000000000001"
	r.users[u.Email] = u
	return u.ID, nil
}

// fakeTasks only answers the calls the router tests exercise.
type fakeTasks struct {
	completes int
}

func (f *fakeTasks) ListTasks(context.Context) ([]domain.Task, error) {
	return []domain.Task{}, nil
}

func (f *fakeTasks) GetTask(_ context.Context, id string) (*domain.Task, error) {
	if !domain.ValidTaskID(id) {
		return nil, domain.ErrInvalidTaskID
	}
	return nil, domain.ErrTaskNotFound
}

func (f *fakeTasks) CreateTask(context.Context, domain.TaskFields, string) (*domain.InsertResult, error) {
	return &domain.InsertResult{Acknowledged: true, InsertedID: "65f0c0ffee00000000000002"}, nil
}

func (f *fakeTasks) DeleteTask(context.Context, string, string) (int64, error) {
	return 0, domain.ErrTaskNotFound
}

func (f *fakeTasks) CompleteTask(context.Context, string, string) (*ports.StatusUpdateResult, error) {
	f.completes++
	return &ports.StatusUpdateResult{ModifiedCount: 1}, nil
}

type fakeActivity struct{}

func (fakeActivity) Process(context.Context, domain.TaskActivity) error { return nil }

func (fakeActivity) History(context.Context, string) ([]domain.TaskActivity, error) {
	return []domain.TaskActivity{}, nil
}

// fakeAuth accepts exactly one token.
type fakeAuth struct {
	ports.AuthService
}

func (fakeAuth) VerifyToken(token string) (*domain.Claims, error) {
	if token != goodToken {
		return nil, domain.ErrInvalidToken
	}
	return &domain.Claims{Email: "alice@example.com", UserID: "65f0c0ffee00000000000001"}, nil
}

func newTestRouter(t *testing.T, mutate func(*Deps)) *echo.Echo {
	t.Helper()
	reg := prometheus.NewRegistry()
	d := Deps{
		Auth:                    fakeAuth{},
		Tasks:                   &fakeTasks{},
		Activity:                fakeActivity{},
		Checks:                  map[string]handler.Check{},
		StatusRouteRequiresAuth: true,
		Registerer:              reg,
		Gatherer:                reg,
		Logger:                  zerolog.Nop(),
	}
	if mutate != nil {
		mutate(&d)
	}
	return NewRouter(d)
}

func do(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestRouter_Banner(t *testing.T) {
	rec := do(newTestRouter(t, nil), http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "Task Server Ready" {
		t.Fatalf("unexpected banner: %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatal("expected a request id header")
	}
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantCode int
		wantMsg  string
	}{
		{name: "missing header", header: "", wantCode: http.StatusForbidden, wantMsg: "No token provided"},
		{name: "scheme only", header: "Bearer", wantCode: http.StatusUnauthorized, wantMsg: "Invalid token"},
		{name: "wrong token", header: "Bearer nope", wantCode: http.StatusUnauthorized, wantMsg: "Invalid token"},
		{name: "valid token", header: "Bearer " + goodToken, wantCode: http.StatusOK},
	}

	routes := []struct{ method, path, body string }{
		{http.MethodGet, "/alltask", ""},
		{http.MethodPost, "/task", `{"title":"x"}`},
		{http.MethodPost, "/alltask", `{"title":"x"}`},
		{http.MethodGet, "/tasks/65f0c0ffee00000000000001/activity", ""},
	}

	for _, tt := range tests {
		for _, r := range routes {
			t.Run(tt.name+" "+r.method+" "+r.path, func(t *testing.T) {
				rec := do(newTestRouter(t, nil), r.method, r.path, r.body, tt.header)
				if rec.Code != tt.wantCode {
					t.Fatalf("expected %d, got %d (%s)", tt.wantCode, rec.Code, rec.Body.String())
				}
				if tt.wantMsg != "" {
					resp := decodeError(t, rec)
					if resp.Message != tt.wantMsg || resp.Kind != KindAuthentication {
						t.Fatalf("unexpected error body: %+v", resp)
					}
				}
			})
		}
	}
}

func TestRouter_StatusRouteAuthFlag(t *testing.T) {
	path := "/tasks/65f0c0ffee00000000000001/status"

	guarded := newTestRouter(t, nil)
	if rec := do(guarded, http.MethodPatch, path, "", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when guarded, got %d", rec.Code)
	}

	tasks := &fakeTasks{}
	open := newTestRouter(t, func(d *Deps) {
		d.StatusRouteRequiresAuth = false
		d.Tasks = tasks
	})
	rec := do(open, http.MethodPatch, path, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 when unguarded, got %d", rec.Code)
	}
	if tasks.completes != 1 {
		t.Fatalf("expected one completion, got %d", tasks.completes)
	}
}

func TestRouter_TaskErrors(t *testing.T) {
	e := newTestRouter(t, nil)
	auth := "Bearer " + goodToken

	rec := do(e, http.MethodGet, "/tasks/not-an-id", "", auth)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Message != "invalid task id" {
		t.Fatalf("expected 400 invalid task id, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/tasks/65f0c0ffee00000000000009", "", auth)
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Kind != KindNotFound {
		t.Fatalf("expected 404, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodDelete, "/alltask/65f0c0ffee00000000000009", "", auth)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/task", `[1,2,3]`, auth)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-object task, got %d", rec.Code)
	}
}

func TestRouter_SignupValidationNeverTouchesStorage(t *testing.T) {
	repo := &countingUserRepo{users: map[string]*domain.User{}}
	auth := service.NewAuthService(repo, service.NewTokenManager("test-secret", time.Hour), nil, zerolog.Nop())
	e := newTestRouter(t, func(d *Deps) { d.Auth = auth })

	rec := do(e, http.MethodPost, "/signup", `{"name":"A","email":"a@example.com","password":"12345"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Kind != KindValidation || len(resp.Errors) == 0 || resp.Errors[0].Field != "password" {
		t.Fatalf("unexpected error body: %+v", resp)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no storage calls, got %d", repo.calls)
	}
}

func TestRouter_SignupLoginFlow(t *testing.T) {
	repo := &countingUserRepo{users: map[string]*domain.User{}}
	auth := service.NewAuthService(repo, service.NewTokenManager("test-secret", time.Hour), nil, zerolog.Nop())
	e := newTestRouter(t, func(d *Deps) { d.Auth = auth })

	body := `{"name":"Alice","email":"alice@example.com","password":"secret1"}`
	if rec := do(e, http.MethodPost, "/signup", body, ""); rec.Code != http.StatusOK {
		t.Fatalf("signup: expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	rec := do(e, http.MethodPost, "/signup", body, "")
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Message != "User already exists" {
		t.Fatalf("duplicate signup: got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/login", `{"email":"alice@example.com","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized || decodeError(t, rec).Message != "Invalid password" {
		t.Fatalf("wrong password: got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/login", `{"email":"bob@example.com","password":"secret1"}`, "")
	if rec.Code != http.StatusUnauthorized || decodeError(t, rec).Message != "User not found" {
		t.Fatalf("unknown user: got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/login", `{"email":"alice@example.com","password":"secret1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil || login.Token == "" {
		t.Fatalf("expected a token, got %s", rec.Body.String())
	}

	if rec := do(e, http.MethodGet, "/alltask", "", "Bearer "+login.Token); rec.Code != http.StatusOK {
		t.Fatalf("authorized list: expected 200, got %d", rec.Code)
	}
}

func TestRouter_Readiness(t *testing.T) {
	e := newTestRouter(t, func(d *Deps) {
		d.Checks = map[string]handler.Check{
			"mongodb": func(context.Context) error { return nil },
			"redis":   func(context.Context) error { return errors.New("down") },
		}
	})
	if rec := do(e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec := do(newTestRouter(t, nil), http.MethodGet, "/nope", "", "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Kind != KindNotFound {
		t.Fatalf("expected 404 not_found, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_MetricsServesOwnRegistry(t *testing.T) {
	e := newTestRouter(t, nil)

	if rec := do(e, http.MethodGet, "/", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("banner: expected 200, got %d", rec.Code)
	}

	rec := do(e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "taskapi_") || !strings.Contains(body, "requests_total") {
		t.Fatalf("expected HTTP request metrics in /metrics output, got:\n%s", body)
	}
}
