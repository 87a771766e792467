// ABOUTME: Maps every failure to the wire envelope and status code
// ABOUTME: Server-side faults are logged with detail and replaced by a generic message

package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"openmusic-api/api/middleware"
	apperrors "openmusic-api/core/errors"
	"openmusic-api/core/interfaces"

	"github.com/danielgtaylor/huma/v2"
)

// DefaultServerMessage is sent to callers in place of any server-side detail
const DefaultServerMessage = "Sorry, the server failed to process your request."

// Mapper turns an error into an envelope. ok=false passes the error to the next mapper.
type Mapper func(err error) (env *Envelope, ok bool)

// Normalizer applies an ordered list of mappers. The last mapper always matches.
type Normalizer struct {
	logger        interfaces.Logger
	serverMessage string
	mappers       []Mapper
}

// NewNormalizer creates a normalizer. An empty serverMessage uses DefaultServerMessage.
func NewNormalizer(logger interfaces.Logger, serverMessage string) *Normalizer {
	if serverMessage == "" {
		serverMessage = DefaultServerMessage
	}
	n := &Normalizer{
		logger:        logger,
		serverMessage: serverMessage,
	}
	n.mappers = []Mapper{
		mapEnvelope,
		mapClassified,
		n.mapInternal,
	}
	return n
}

// Normalize returns the envelope for err and logs server-side failures
func (n *Normalizer) Normalize(ctx context.Context, err error) *Envelope {
	var env *Envelope
	for _, m := range n.mappers {
		if e, ok := m(err); ok {
			env = e
			break
		}
	}

	fields := map[string]interface{}{
		"request_id": middleware.RequestIDFromContext(ctx),
		"status":     env.code,
		"kind":       apperrors.KindOf(err).String(),
	}
	if env.Status == StatusError {
		fields["error"] = err.Error()
		n.logger.Error("Request failed with server error", fields)
	} else {
		fields["message"] = env.Message
		n.logger.Debug("Request rejected", fields)
	}

	return env
}

// Error is used by huma handlers: return h.errs.Error(ctx, err)
func (n *Normalizer) Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return n.Normalize(ctx, err)
}

// WriteError writes the envelope for err on a raw handler
func (n *Normalizer) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	write(w, n.Normalize(r.Context(), err))
}

// WriteFail writes a client failure with an explicit status, used for router
// and middleware rejections that have no domain error behind them.
func (n *Normalizer) WriteFail(w http.ResponseWriter, r *http.Request, status int, message string) {
	n.logger.Debug("Request rejected", map[string]interface{}{
		"request_id": middleware.RequestIDFromContext(r.Context()),
		"status":     status,
		"message":    message,
	})
	write(w, Fail(status, message))
}

// NotFoundHandler answers unknown routes
func (n *Normalizer) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n.WriteFail(w, r, http.StatusNotFound, "resource not found: "+r.URL.Path)
	}
}

// MethodNotAllowedHandler answers known routes called with the wrong method
func (n *Normalizer) MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n.WriteFail(w, r, http.StatusMethodNotAllowed, "method "+r.Method+" is not allowed on "+r.URL.Path)
	}
}

// FrameworkError has the signature of huma.NewError. Huma calls it for request
// validation and body parsing failures, and for handler errors that are not
// already a huma.StatusError.
func (n *Normalizer) FrameworkError(status int, msg string, errs ...error) huma.StatusError {
	if status >= http.StatusInternalServerError {
		fields := map[string]interface{}{
			"status": status,
			"error":  msg,
		}
		if len(errs) > 0 {
			fields["details"] = errors.Join(errs...).Error()
		}
		n.logger.Error("Request failed with server error", fields)
		return ServerError(http.StatusInternalServerError, n.serverMessage)
	}

	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}
	return Fail(status, detailMessage(msg, errs))
}

// Install routes every huma-generated error through the normalizer.
// huma.NewError is package state, so this affects all huma APIs in the process.
func (n *Normalizer) Install() {
	huma.NewError = n.FrameworkError
}

func mapEnvelope(err error) (*Envelope, bool) {
	var env *Envelope
	if errors.As(err, &env) {
		return env, true
	}
	return nil, false
}

func mapClassified(err error) (*Envelope, bool) {
	kind := apperrors.KindOf(err)
	if !kind.IsClient() {
		return nil, false
	}
	return Fail(kind.StatusCode(), apperrors.ClientMessage(err)), true
}

func (n *Normalizer) mapInternal(err error) (*Envelope, bool) {
	return ServerError(http.StatusInternalServerError, n.serverMessage), true
}

// detailMessage flattens huma validation details into one line
func detailMessage(msg string, errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			if detail.Location != "" {
				parts = append(parts, detail.Location+": "+detail.Message)
			} else {
				parts = append(parts, detail.Message)
			}
			continue
		}
		if err != nil {
			parts = append(parts, err.Error())
		}
	}
	if len(parts) == 0 {
		return msg
	}
	return strings.Join(parts, "; ")
}

func write(w http.ResponseWriter, env *Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.code)
	_ = json.NewEncoder(w).Encode(env)
}
