package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/portfolio-server/internal/logger"
	"github.com/dtroode/portfolio-server/internal/model"
)

// ErrInvalidCredentials is returned when login fails.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Auth authenticates the portfolio owner.
type Auth struct {
	email        string
	passwordHash []byte
	tokenManager model.TokenManager
	logger       *logger.Logger
}

// NewAuth creates an Auth service for the owner identified by email and a
// bcrypt password hash.
func NewAuth(email, passwordHash string, tokenManager model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(passwordHash),
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// Login checks the owner credentials and returns an access token.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if a.email == "" || len(a.passwordHash) == 0 {
		a.logger.Warn("Auth service: login attempted but no owner is configured")
		return "", ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !emailOK || passErr != nil {
		a.logger.Info("Auth service: login rejected", "email", email)
		return "", ErrInvalidCredentials
	}

	token, err := a.tokenManager.GenerateAccessToken(a.email)
	if err != nil {
		a.logger.Error("Auth service: failed to generate access token", "error", err)
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	a.logger.Info("Auth service: owner logged in")
	return token, nil
}

// GetSubject validates an access token and returns its subject.
func (a *Auth) GetSubject(_ context.Context, token string) (string, error) {
	subject, err := a.tokenManager.ParseAccessToken(token)
	if err != nil {
		return "", fmt.Errorf("failed to parse access token: %w", err)
	}
	if subject != a.email {
		return "", fmt.Errorf("unknown token subject")
	}
	return subject, nil
}
