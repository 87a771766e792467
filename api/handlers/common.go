// ABOUTME: Shared handler plumbing for huma and raw chi routes
// ABOUTME: Every failure leaves through the response normalizer

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

// ErrorMapper converts service errors into wire envelopes
type ErrorMapper interface {
	// Error is used by huma handlers
	Error(ctx context.Context, err error) error

	// WriteError is used by raw http handlers
	WriteError(w http.ResponseWriter, r *http.Request, err error)
}

// bearerSecurity marks an operation as requiring an access token in the OpenAPI document
var bearerSecurity = []map[string][]string{{"bearer": {}}}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
