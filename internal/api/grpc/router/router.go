package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/dtroode/portfolio-server/internal/api/grpc/handler"
	"github.com/dtroode/portfolio-server/internal/api/grpc/middleware"
	"github.com/dtroode/portfolio-server/internal/api/grpc/portfoliov1"
	"github.com/dtroode/portfolio-server/internal/logger"
	"github.com/dtroode/portfolio-server/internal/model"
)

// Services groups what the Portfolio handler serves.
type Services struct {
	Auth     handler.AuthService
	Profile  handler.ProfileService
	Skills   handler.SkillService
	Projects handler.ProjectService
	Alerts   handler.AlertFeed
}

// Router represents a gRPC router for portfolio operations.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	services       Services
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	services Services,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		services:       services,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// publicMethods are served without a bearer token.
var publicMethods = map[string]bool{
	portfoliov1.FullMethod(portfoliov1.MethodLogin):        true,
	portfoliov1.FullMethod(portfoliov1.MethodGetProfile):   true,
	portfoliov1.FullMethod(portfoliov1.MethodListSkills):   true,
	portfoliov1.FullMethod(portfoliov1.MethodListProjects): true,
	portfoliov1.FullMethod(portfoliov1.MethodGetProject):   true,
}

// requiresAuth reports whether the call must pass authentication.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	return !publicMethods[c.FullMethod()]
}

// Register registers all gRPC services and middleware.
// It sets up the gRPC server with tracing, request logging and authentication interceptors.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			logging.HandleGRPCStream,
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)
	r.registerPortfolioRoutes(s)

	return s
}

func (r *Router) registerPortfolioRoutes(server *grpc.Server) {
	portfolioHandler := handler.NewPortfolio(
		r.services.Auth,
		r.services.Profile,
		r.services.Skills,
		r.services.Projects,
		r.services.Alerts,
		r.logger,
	)
	portfoliov1.RegisterPortfolioServer(server, portfolioHandler)
}
