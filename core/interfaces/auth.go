package interfaces

import "context"

// TokenManager issues and verifies bearer access tokens.
type TokenManager interface {
	// Issue signs an access token for userID.
	Issue(ctx context.Context, userID string) (string, error)

	// Parse verifies raw and returns the user it was issued for.
	// Invalid or expired tokens fail with *errors.AuthenticationError.
	Parse(ctx context.Context, raw string) (string, error)
}
