package middleware

import (
	"context"
	"net/http"
	"testing"

	apperrors "openmusic-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
)

type stubTokens struct {
	users map[string]string
}

func (s *stubTokens) Issue(ctx context.Context, userID string) (string, error) {
	return "token-" + userID, nil
}

func (s *stubTokens) Parse(ctx context.Context, raw string) (string, error) {
	if u, ok := s.users[raw]; ok {
		return u, nil
	}
	return "", &apperrors.AuthenticationError{Message: "access token is invalid or expired"}
}

type whoAmIOutput struct {
	Body struct {
		UserID string `json:"userId"`
	}
}

func TestRequireUser(t *testing.T) {
	tokens := &stubTokens{users: map[string]string{"good": "user-1"}}

	tests := []struct {
		name     string
		header   []any
		wantCode int
		wantUser string
	}{
		{"valid token", []any{"Authorization: Bearer good"}, http.StatusOK, "user-1"},
		{"missing header", nil, http.StatusUnauthorized, ""},
		{"wrong scheme", []any{"Authorization: Basic dXNlcjpwYXNz"}, http.StatusUnauthorized, ""},
		{"empty bearer", []any{"Authorization: Bearer "}, http.StatusUnauthorized, ""},
		{"invalid token", []any{"Authorization: Bearer bad"}, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, api := humatest.New(t)
			var seen string
			huma.Register(api, huma.Operation{
				OperationID: "whoami",
				Method:      http.MethodGet,
				Path:        "/whoami",
				Middlewares: huma.Middlewares{RequireUser(api, tokens)},
			}, func(ctx context.Context, _ *struct{}) (*whoAmIOutput, error) {
				seen = UserIDFromContext(ctx)
				out := &whoAmIOutput{}
				out.Body.UserID = seen
				return out, nil
			})

			resp := api.Get("/whoami", tt.header...)

			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantUser, seen)
		})
	}
}

func TestUserIDFromContext_Anonymous(t *testing.T) {
	assert.Equal(t, "", UserIDFromContext(context.Background()))
}
