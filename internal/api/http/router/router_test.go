package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/dtroode/portfolio-server/internal/api/http/handler"
	"github.com/dtroode/portfolio-server/internal/model"
	"github.com/dtroode/portfolio-server/internal/service"
	"github.com/dtroode/portfolio-server/internal/testutil"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type fixture struct {
	handler  http.Handler
	profile  *service.Profile
	skills   *service.Skills
	projects *service.Projects
}

func newTestRouter(t *testing.T, pinger handler.Pinger) http.Handler {
	t.Helper()
	return newFixture(t, pinger).handler
}

func newFixture(t *testing.T, pinger handler.Pinger) fixture {
	t.Helper()
	lg := testutil.MakeNoopLogger()
	ctx := context.Background()

	docs := testutil.NewDocumentStore()
	require.NoError(t, docs.Set(ctx, model.CollectionUser, model.UserDocumentID, model.User{Name: "Ada", Hero: "Engineer"}.Document()))
	require.NoError(t, docs.Set(ctx, model.CollectionSkills, "Go", model.Skill{Name: "Go", Level: 85}.Document()))
	require.NoError(t, docs.Set(ctx, model.CollectionProjects, "p1", model.Project{ID: "p1", Name: "Site", Images: "a.png,b.png"}.Document()))

	images := service.NewImageResolver(testutil.NewUploader(), lg)
	alerts := service.NewAlerts(0, lg)
	profile := service.NewProfile(docs, images, alerts, lg)
	skills := service.NewSkills(docs, images, alerts, lg)
	projects := service.NewProjects(docs, images, alerts, lg)
	require.NoError(t, profile.Fetch(ctx))
	require.NoError(t, skills.Fetch(ctx))
	require.NoError(t, projects.Fetch(ctx))

	public := handler.NewPublic(profile, skills, projects, lg)
	events := handler.NewEvents(profile, skills, projects, []string{"*"}, lg)
	return fixture{
		handler:  New(public, events, pinger, []string{"*"}, lg).Register(),
		profile:  profile,
		skills:   skills,
		projects: projects,
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:       "profile",
			path:       "/api/profile",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got map[string]string
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, "Ada", got["name"])
				assert.Equal(t, "Engineer", got["hero"])
			},
		},
		{
			name:       "skills",
			path:       "/api/skills",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got []map[string]any
				require.NoError(t, json.Unmarshal(body, &got))
				require.Len(t, got, 1)
				assert.Equal(t, "Go", got[0]["name"])
				assert.Equal(t, float64(85), got[0]["level"])
			},
		},
		{
			name:       "projects",
			path:       "/api/projects",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got []map[string]any
				require.NoError(t, json.Unmarshal(body, &got))
				require.Len(t, got, 1)
				assert.Equal(t, []any{"a.png", "b.png"}, got[0]["images"])
				assert.Equal(t, []any{}, got[0]["keywords"])
			},
		},
		{
			name:       "project",
			path:       "/api/projects/p1",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got map[string]any
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, "Site", got["name"])
			},
		},
		{
			name:       "missing project",
			path:       "/api/projects/nope",
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"error":"project not found"}`, string(body))
			},
		},
		{
			name:       "health",
			path:       "/healthz",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"status":"ok"}`, string(body))
			},
		},
		{
			name:       "unknown route",
			path:       "/api/unknown",
			wantStatus: http.StatusNotFound,
			check:      func(t *testing.T, body []byte) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code)
			tt.check(t, rec.Body.Bytes())
		})
	}
}

func TestRouter_HealthReportsStoreFailure(t *testing.T) {
	h := newTestRouter(t, pingerFunc(func(context.Context) error { return errors.New("connection refused") }))

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_RejectsWrites(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/skills", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type streamEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func TestRouter_EventsStream(t *testing.T) {
	f := newFixture(t, nil)
	srv := httptest.NewServer(f.handler)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/events", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var got []string
	for i := 0; i < 3; i++ {
		var e streamEvent
		require.NoError(t, wsjson.Read(ctx, conn, &e))
		got = append(got, e.Type)
	}
	assert.Equal(t, []string{handler.EventProfile, handler.EventSkills, handler.EventProjects}, got)

	_, err = f.skills.Create(ctx, model.SkillInput{Name: "Rust", Level: 40})
	require.NoError(t, err)

	for {
		var e streamEvent
		require.NoError(t, wsjson.Read(ctx, conn, &e))
		if e.Type != handler.EventSkills {
			continue
		}
		var skills []map[string]any
		require.NoError(t, json.Unmarshal(e.Data, &skills))
		require.Len(t, skills, 2)
		assert.Equal(t, "Rust", skills[1]["name"])
		return
	}
}

func TestRouter_EventsRejectsPlainRequest(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := get(t, h, "/api/events")
	assert.Equal(t, http.StatusUpgradeRequired, rec.Code)
}
