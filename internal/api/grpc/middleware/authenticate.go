package middleware

import (
	"context"

	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/portfolio-server/internal/api/apierrors"
	"github.com/dtroode/portfolio-server/internal/logger"
	"github.com/dtroode/portfolio-server/internal/model"
)

const bearerScheme = "bearer"

// TokenService resolves the subject of bearer tokens.
type TokenService interface {
	GetSubject(ctx context.Context, token string) (string, error)
}

// Authenticate checks the owner's bearer token on admin methods.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates an Authenticate middleware.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc reads "authorization: Bearer <token>" from the incoming metadata
// and returns a context carrying the token's subject. The scheme is matched
// case-insensitively.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	method, _ := grpc.Method(ctx)

	token, err := grpcauth.AuthFromMD(ctx, bearerScheme)
	if err != nil {
		return nil, m.reject(method, apierrors.NewErrMissingAuthorizationToken())
	}

	subject, err := m.tokenService.GetSubject(ctx, token)
	if err != nil || subject == "" {
		return nil, m.reject(method, apierrors.NewErrInvalidAuthorizationToken())
	}

	m.logger.Debug("Authenticate middleware: owner authenticated", "method", method, "subject", subject)
	return m.contextManager.SetSubjectToContext(ctx, subject), nil
}

func (m *Authenticate) reject(method string, err error) error {
	m.logger.Warn("Authenticate middleware: request rejected", "method", method, "error", err.Error())
	return status.Error(codes.Unauthenticated, err.Error())
}
