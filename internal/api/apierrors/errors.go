// Package apierrors maps domain failures to transport status codes.
package apierrors

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"

	"github.com/dtroode/portfolio-server/internal/model"
	"github.com/dtroode/portfolio-server/internal/service"
)

// APIError is an error safe to return to API clients.
type APIError struct {
	GRPCCode   codes.Code
	HTTPStatus int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func newError(code codes.Code, httpStatus int, message string) *APIError {
	return &APIError{GRPCCode: code, HTTPStatus: httpStatus, Message: message}
}

func NewErrMissingAuthorizationToken() *APIError {
	return newError(codes.Unauthenticated, http.StatusUnauthorized, "missing authorization token")
}

func NewErrInvalidAuthorizationToken() *APIError {
	return newError(codes.Unauthenticated, http.StatusUnauthorized, "invalid authorization token")
}

func NewErrInvalidCredentials() *APIError {
	return newError(codes.Unauthenticated, http.StatusUnauthorized, "invalid email or password")
}

// NewErrInvalidArgument reports a malformed request field.
func NewErrInvalidArgument(message string) *APIError {
	return newError(codes.InvalidArgument, http.StatusBadRequest, message)
}

func NewErrNotFound(what string) *APIError {
	return newError(codes.NotFound, http.StatusNotFound, what+" not found")
}

func NewErrInternal() *APIError {
	return newError(codes.Internal, http.StatusInternalServerError, "internal server error")
}

// FromError converts err into an APIError. Unknown errors become internal
// errors so their text never reaches the client.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return NewErrNotFound("entity")
	case errors.Is(err, model.ErrDuplicateKey):
		return newError(codes.AlreadyExists, http.StatusConflict, "entity already exists")
	case errors.Is(err, model.ErrInvalidInput):
		return NewErrInvalidArgument(validationMessage(err))
	case errors.Is(err, model.ErrUnsupportedImage):
		return newError(codes.InvalidArgument, http.StatusUnsupportedMediaType, "unsupported image type")
	case errors.Is(err, service.ErrInvalidCredentials):
		return NewErrInvalidCredentials()
	default:
		return NewErrInternal()
	}
}

// validationMessage strips the wrapping added on the way up and keeps the
// innermost message that mentions the rejected field.
func validationMessage(err error) string {
	msg := model.ErrInvalidInput.Error()
	for e := err; e != nil; e = errors.Unwrap(e) {
		if errors.Is(e, model.ErrInvalidInput) && e != model.ErrInvalidInput {
			msg = e.Error()
		}
	}
	return msg
}
