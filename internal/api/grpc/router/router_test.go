package router

import (
	"context"
	"net"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	grpcctx "github.com/dtroode/portfolio-server/internal/api/grpc/context"
	"github.com/dtroode/portfolio-server/internal/api/grpc/portfoliov1"
	"github.com/dtroode/portfolio-server/internal/service"
	"github.com/dtroode/portfolio-server/internal/testutil"
	"github.com/dtroode/portfolio-server/internal/token"
)

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	r := New(Services{}, nil, grpcctx.NewManager(), testutil.MakeNoopLogger())
	s := r.Register()
	require.NotNil(t, s)

	info := s.GetServiceInfo()
	require.Contains(t, info, portfoliov1.ServiceName)
	assert.Len(t, info[portfoliov1.ServiceName].Methods, 15)
}

func TestRequiresAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method string
		want   bool
	}{
		{method: portfoliov1.MethodLogin, want: false},
		{method: portfoliov1.MethodListSkills, want: false},
		{method: portfoliov1.MethodGetProject, want: false},
		{method: portfoliov1.MethodCreateSkill, want: true},
		{method: portfoliov1.MethodSaveProfile, want: true},
		{method: portfoliov1.MethodRefresh, want: true},
		{method: portfoliov1.MethodListAlerts, want: true},
		{method: portfoliov1.MethodWatchAlerts, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			meta := interceptors.NewServerCallMeta(portfoliov1.FullMethod(tt.method), nil, nil)
			assert.Equal(t, tt.want, requiresAuth(context.Background(), meta))
		})
	}
}

func TestRouter_EndToEnd(t *testing.T) {
	lg := testutil.MakeNoopLogger()
	docs := testutil.NewDocumentStore()
	images := service.NewImageResolver(testutil.NewUploader(), lg)
	alerts := service.NewAlerts(0, lg)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	auth := service.NewAuth("owner@example.com", string(hash), token.NewJWT("test-secret"), lg)

	r := New(Services{
		Auth:     auth,
		Profile:  service.NewProfile(docs, images, alerts, lg),
		Skills:   service.NewSkills(docs, images, alerts, lg),
		Projects: service.NewProjects(docs, images, alerts, lg),
		Alerts:   alerts,
	}, auth, grpcctx.NewManager(), lg)

	lis := bufconn.Listen(1 << 20)
	srv := r.Register()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client := portfoliov1.NewPortfolioClient(conn)
	ctx := context.Background()

	skill, err := structpb.NewStruct(map[string]any{"name": "Go", "level": 85})
	require.NoError(t, err)

	_, err = client.Call(ctx, portfoliov1.MethodCreateSkill, skill)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	creds, err := structpb.NewStruct(map[string]any{"email": "owner@example.com", "password": "secret"})
	require.NoError(t, err)
	login, err := client.Call(ctx, portfoliov1.MethodLogin, creds)
	require.NoError(t, err)
	accessToken := login.GetFields()["accessToken"].GetStringValue()
	require.NotEmpty(t, accessToken)

	authCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+accessToken)
	_, err = client.Call(authCtx, portfoliov1.MethodCreateSkill, skill)
	require.NoError(t, err)

	list, err := client.Call(ctx, portfoliov1.MethodListSkills, nil)
	require.NoError(t, err)
	assert.Len(t, list.GetFields()["skills"].GetListValue().GetValues(), 1)
}
