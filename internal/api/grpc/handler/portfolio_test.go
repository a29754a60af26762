package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/portfolio-server/internal/model"
	"github.com/dtroode/portfolio-server/internal/service"
	"github.com/dtroode/portfolio-server/internal/testutil"
	"github.com/dtroode/portfolio-server/internal/token"
)

// Minimal GIF header; the in-memory uploader does not sniff content.
var imageData = []byte("GIF89a")

type fixture struct {
	h        *Portfolio
	docs     *testutil.DocumentStore
	uploader *testutil.Uploader
	skills   *service.Skills
	projects *service.Projects
	alerts   *service.Alerts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	lg := testutil.MakeNoopLogger()
	docs := testutil.NewDocumentStore()
	uploader := testutil.NewUploader()
	images := service.NewImageResolver(uploader, lg)
	alerts := service.NewAlerts(10, lg)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	auth := service.NewAuth("owner@example.com", string(hash), token.NewJWT("test-secret"), lg)

	profile := service.NewProfile(docs, images, alerts, lg)
	skills := service.NewSkills(docs, images, alerts, lg)
	projects := service.NewProjects(docs, images, alerts, lg)

	return &fixture{
		h:        NewPortfolio(auth, profile, skills, projects, alerts, lg),
		docs:     docs,
		uploader: uploader,
		skills:   skills,
		projects: projects,
		alerts:   alerts,
	}
}

func req(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func upload(name string) map[string]any {
	return map[string]any{
		"upload":      base64.StdEncoding.EncodeToString(imageData),
		"fileName":    name,
		"contentType": "image/gif",
	}
}

func TestPortfolio_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.h.Login(ctx, req(t, map[string]any{"email": "Owner@Example.com", "password": "secret"}))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.GetFields()["accessToken"].GetStringValue())

	_, err = f.h.Login(ctx, req(t, map[string]any{"email": "owner@example.com", "password": "wrong"}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestPortfolio_SkillLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.h.CreateSkill(ctx, req(t, map[string]any{
		"name":  "Go",
		"level": 85,
		"image": upload("go.gif"),
	}))
	require.NoError(t, err)
	assert.Equal(t, "Go", resp.GetFields()["name"].GetStringValue())
	assert.Equal(t, "https://img.test/1/go.gif", resp.GetFields()["image"].GetStringValue())
	assert.Equal(t, float64(85), resp.GetFields()["level"].GetNumberValue())

	_, err = f.h.CreateSkill(ctx, req(t, map[string]any{"name": "Go", "level": 10}))
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = f.h.UpdateSkill(ctx, req(t, map[string]any{
		"name":  "Go",
		"level": 95,
		"image": "https://img.test/1/go.gif",
	}))
	require.NoError(t, err)

	list, err := f.h.ListSkills(ctx, &structpb.Struct{})
	require.NoError(t, err)
	skills := list.GetFields()["skills"].GetListValue().GetValues()
	require.Len(t, skills, 1)
	assert.Equal(t, float64(95), skills[0].GetStructValue().GetFields()["level"].GetNumberValue())

	_, err = f.h.DeleteSkill(ctx, req(t, map[string]any{"name": "Go"}))
	require.NoError(t, err)
	assert.Empty(t, f.skills.List())

	_, err = f.h.DeleteSkill(ctx, req(t, map[string]any{"name": "Go"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestPortfolio_UpdateSkillImage(t *testing.T) {
	tests := []struct {
		name      string
		update    map[string]any
		wantImage string
	}{
		{
			name:      "missing image keeps current",
			update:    map[string]any{"name": "Go", "level": 95},
			wantImage: "https://img.test/1/go.gif",
		},
		{
			name:      "null image clears it",
			update:    map[string]any{"name": "Go", "level": 95, "image": nil},
			wantImage: "",
		},
		{
			name:      "new url replaces it",
			update:    map[string]any{"name": "Go", "level": 95, "image": "https://cdn.test/go.png"},
			wantImage: "https://cdn.test/go.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			_, err := f.h.CreateSkill(ctx, req(t, map[string]any{
				"name":  "Go",
				"level": 85,
				"image": upload("go.gif"),
			}))
			require.NoError(t, err)

			resp, err := f.h.UpdateSkill(ctx, req(t, tt.update))
			require.NoError(t, err)
			assert.Equal(t, tt.wantImage, resp.GetFields()["image"].GetStringValue())
			assert.Equal(t, float64(95), resp.GetFields()["level"].GetNumberValue())
			require.Len(t, f.skills.List(), 1)
			assert.Equal(t, tt.wantImage, f.skills.List()[0].Image)
		})
	}
}

func TestPortfolio_CreateSkillValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   map[string]any
	}{
		{name: "fractional level", in: map[string]any{"name": "Go", "level": 1.5}},
		{name: "level out of range", in: map[string]any{"name": "Go", "level": 150}},
		{name: "name not a string", in: map[string]any{"name": 3, "level": 1}},
		{name: "bad upload", in: map[string]any{"name": "Go", "image": map[string]any{"upload": "%%%"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.h.CreateSkill(ctx, req(t, tt.in))
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
	assert.Empty(t, f.skills.List())
}

func TestPortfolio_PersistFailureRaisesAlert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.docs.Err = errors.New("simulated network error")

	_, err := f.h.CreateSkill(ctx, req(t, map[string]any{"name": "Go", "level": 85, "image": upload("go.gif")}))
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Empty(t, f.skills.List())
	assert.Equal(t, []string{"1/go.gif"}, f.uploader.Deleted)

	resp, err := f.h.ListAlerts(ctx, &structpb.Struct{})
	require.NoError(t, err)
	alerts := resp.GetFields()["alerts"].GetListValue().GetValues()
	require.Len(t, alerts, 1)
	fields := alerts[0].GetStructValue().GetFields()
	assert.Equal(t, "skill", fields["entity"].GetStringValue())
	assert.Equal(t, "create", fields["operation"].GetStringValue())
	assert.Contains(t, fields["message"].GetStringValue(), "simulated network error")
}

func TestPortfolio_ProjectLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.h.CreateProject(ctx, req(t, map[string]any{
		"name":       "Site",
		"coverImage": upload("cover.gif"),
		"images":     []any{"https://x/1.png", upload("2.gif")},
		"keywords":   []any{"go", " grpc "},
	}))
	require.NoError(t, err)
	id := created.GetFields()["id"].GetStringValue()
	require.NotEmpty(t, id)
	// Cover and screenshot upload concurrently, so their sequence numbers vary.
	cover := created.GetFields()["coverImage"].GetStringValue()
	assert.Regexp(t, `^https://img\.test/[12]/cover\.gif$`, cover)
	shot := created.GetFields()["images"].GetListValue().AsSlice()[1]
	assert.Regexp(t, `^https://img\.test/[12]/2\.gif$`, shot)

	updated, err := f.h.UpdateProject(ctx, req(t, map[string]any{
		"id":             id,
		"link":           "https://site.example.com",
		"removeImages":   []any{0},
		"addImages":      []any{upload("3.gif")},
		"removeKeywords": []any{1},
		"addKeywords":    []any{"sql", "  "},
	}))
	require.NoError(t, err)

	fields := updated.GetFields()
	assert.Equal(t, "Site", fields["name"].GetStringValue())
	assert.Equal(t, "https://site.example.com", fields["link"].GetStringValue())
	assert.Equal(t, cover, fields["coverImage"].GetStringValue())
	assert.Equal(t, []any{shot, "https://img.test/3/3.gif"}, fields["images"].GetListValue().AsSlice())
	assert.Equal(t, []any{"go", "sql"}, fields["keywords"].GetListValue().AsSlice())

	got, err := f.h.GetProject(ctx, req(t, map[string]any{"id": id}))
	require.NoError(t, err)
	assert.Equal(t, "https://site.example.com", got.GetFields()["link"].GetStringValue())

	_, err = f.h.DeleteProject(ctx, req(t, map[string]any{"id": id}))
	require.NoError(t, err)

	_, err = f.h.GetProject(ctx, req(t, map[string]any{"id": id}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestPortfolio_UpdateProjectUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.h.UpdateProject(context.Background(), req(t, map[string]any{"id": "missing", "name": "x"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestPortfolio_UpdateProjectBadIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.h.CreateProject(ctx, req(t, map[string]any{"name": "Site"}))
	require.NoError(t, err)

	_, err = f.h.UpdateProject(ctx, req(t, map[string]any{
		"id":           created.GetFields()["id"].GetStringValue(),
		"removeImages": []any{4},
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestPortfolio_Profile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.h.SaveProfile(ctx, req(t, map[string]any{"name": "Ada", "hero": "Engineer"}))
	require.NoError(t, err)

	resp, err := f.h.SaveProfile(ctx, req(t, map[string]any{"aboutMe": "Writes Go", "image": upload("me.gif")}))
	require.NoError(t, err)

	fields := resp.GetFields()
	assert.Equal(t, "Ada", fields["name"].GetStringValue())
	assert.Equal(t, "Engineer", fields["hero"].GetStringValue())
	assert.Equal(t, "Writes Go", fields["aboutMe"].GetStringValue())
	assert.Equal(t, "https://img.test/1/me.gif", fields["image"].GetStringValue())

	got, err := f.h.GetProfile(ctx, &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, resp.AsMap(), got.AsMap())
}

func TestPortfolio_Refresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.docs.Set(ctx, model.CollectionSkills, "Go", model.Skill{Name: "Go", Level: 80}.Document()))
	require.NoError(t, f.docs.Set(ctx, model.CollectionProjects, "p1", model.Project{ID: "p1", Name: "Site"}.Document()))
	require.NoError(t, f.docs.Set(ctx, model.CollectionUser, model.UserDocumentID, model.User{Name: "Ada"}.Document()))

	resp, err := f.h.Refresh(ctx, &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, float64(1), resp.GetFields()["skills"].GetNumberValue())
	assert.Equal(t, float64(1), resp.GetFields()["projects"].GetNumberValue())

	profile, err := f.h.GetProfile(ctx, &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.GetFields()["name"].GetStringValue())
}

type fakeWatchStream struct {
	grpc.ServerStream
	ctx  context.Context
	sent chan *structpb.Struct
}

func (s *fakeWatchStream) Context() context.Context     { return s.ctx }
func (s *fakeWatchStream) SetHeader(metadata.MD) error   { return nil }
func (s *fakeWatchStream) SendHeader(metadata.MD) error  { return nil }
func (s *fakeWatchStream) SetTrailer(metadata.MD)        {}
func (s *fakeWatchStream) SendMsg(m interface{}) error   { return nil }
func (s *fakeWatchStream) RecvMsg(m interface{}) error   { return nil }

func (s *fakeWatchStream) Send(m *structpb.Struct) error {
	select {
	case s.sent <- m:
	default:
	}
	return nil
}

func TestPortfolio_WatchAlerts(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := &fakeWatchStream{ctx: ctx, sent: make(chan *structpb.Struct, 1)}
	done := make(chan error, 1)
	go func() { done <- f.h.WatchAlerts(&structpb.Struct{}, stream) }()

	// Alerts raised before the subscription lands are not replayed, so keep
	// raising until one arrives.
	var got *structpb.Struct
	require.Eventually(t, func() bool {
		f.alerts.Alert(ctx, model.Alert{Entity: "skill", Operation: "delete", Key: "Go", Message: "boom"})
		select {
		case got = <-stream.sent:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "Go", got.GetFields()["key"].GetStringValue())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
