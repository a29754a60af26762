package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/portfolio-server/internal/api/apierrors"
	"github.com/dtroode/portfolio-server/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "api error passthrough",
			in:       apierrors.NewErrInvalidArgument("field level must be an integer"),
			wantCode: codes.InvalidArgument,
			wantMsg:  "field level must be an integer",
		},
		{
			name:     "model not found -> NotFound",
			in:       fmt.Errorf("failed to get project: %w", model.ErrNotFound),
			wantCode: codes.NotFound,
			wantMsg:  "entity not found",
		},
		{
			name:     "duplicate -> AlreadyExists",
			in:       model.ErrDuplicateKey,
			wantCode: codes.AlreadyExists,
			wantMsg:  "entity already exists",
		},
		{
			name:     "other -> Internal",
			in:       errors.New("boom"),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := handleError(tt.in)
			st, ok := status.FromError(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}
