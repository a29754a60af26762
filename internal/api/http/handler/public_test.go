package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/portfolio-server/internal/model"
	"github.com/dtroode/portfolio-server/internal/testutil"
)

type stubProfile struct{ user model.User }

func (s stubProfile) Get() model.User { return s.user }

type stubSkills struct{ skills []model.Skill }

func (s stubSkills) List() []model.Skill { return s.skills }

type stubProjects struct{ projects []model.Project }

func (s stubProjects) List() []model.Project { return s.projects }

func (s stubProjects) Lookup(id string) (model.Project, bool) {
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return model.Project{}, false
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestPublic() *Public {
	return NewPublic(
		stubProfile{user: model.User{Name: "Ada", Email: "ada@example.com", AboutMe: "hi"}},
		stubSkills{skills: []model.Skill{{Name: "Go", Level: 90, Image: "https://img/go.png"}}},
		stubProjects{projects: []model.Project{
			{ID: "p1", Name: "Site", Images: "https://img/1.png,https://img/2.png", Keywords: []string{"go"}},
			{ID: "p2", Name: "Bare"},
		}},
		testutil.MakeNoopLogger(),
	)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPublic_GetProfile(t *testing.T) {
	h := newTestPublic()
	rec := httptest.NewRecorder()

	h.GetProfile(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"name": "Ada",
		"email": "ada@example.com",
		"hero": "",
		"aboutMe": "hi",
		"image": "",
		"address": ""
	}`, rec.Body.String())
}

func TestPublic_ListSkills(t *testing.T) {
	h := newTestPublic()
	rec := httptest.NewRecorder()

	h.ListSkills(rec, httptest.NewRequest(http.MethodGet, "/api/skills", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Go","image":"https://img/go.png","level":90,"description":""}]`, rec.Body.String())
}

func TestPublic_ListSkillsEmpty(t *testing.T) {
	h := NewPublic(stubProfile{}, stubSkills{}, stubProjects{}, testutil.MakeNoopLogger())
	rec := httptest.NewRecorder()

	h.ListSkills(rec, httptest.NewRequest(http.MethodGet, "/api/skills", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestPublic_ListProjects(t *testing.T) {
	h := newTestPublic()
	rec := httptest.NewRecorder()

	h.ListProjects(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"id":"p1","name":"Site","description":"","coverImage":"","images":["https://img/1.png","https://img/2.png"],"link":"","github":"","type":"","keywords":["go"]},
		{"id":"p2","name":"Bare","description":"","coverImage":"","images":[],"link":"","github":"","type":"","keywords":[]}
	]`, rec.Body.String())
}

func TestPublic_GetProject(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "found",
			id:         "p2",
			wantStatus: http.StatusOK,
			wantBody:   `{"id":"p2","name":"Bare","description":"","coverImage":"","images":[],"link":"","github":"","type":"","keywords":[]}`,
		},
		{
			name:       "not found",
			id:         "missing",
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"project not found"}`,
		},
	}

	h := newTestPublic()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/projects/"+tt.id, nil), "id", tt.id)

			h.GetProject(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		pinger     Pinger
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no pinger",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name:       "store reachable",
			pinger:     pingerFunc(func(context.Context) error { return nil }),
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name:       "store down",
			pinger:     pingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Health(tt.pinger, testutil.MakeNoopLogger())(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
