// ABOUTME: Bearer token authentication for huma operations
// ABOUTME: Verified user ids are placed in the request context for handlers

package middleware

import (
	"context"
	"net/http"
	"strings"

	"openmusic-api/core/interfaces"

	"github.com/danielgtaylor/huma/v2"
)

// BearerScheme is the OpenAPI security scheme name used by protected operations
const BearerScheme = "bearer"

type userIDKey struct{}

// UserIDFromContext returns the authenticated user id, or "" for anonymous requests
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// RequireUser rejects operations without a valid bearer token with 401.
// Attach it through huma.Operation.Middlewares.
func RequireUser(api huma.API, tokens interfaces.TokenManager) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Missing authentication")
			return
		}

		userID, err := tokens.Parse(ctx.Context(), strings.TrimSpace(raw))
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, err.Error())
			return
		}

		next(huma.WithValue(ctx, userIDKey{}, userID))
	}
}
