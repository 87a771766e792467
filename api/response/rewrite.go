package response

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"openmusic-api/api/middleware"
	"openmusic-api/core/interfaces"
)

// FailEnvelopeRewrite turns a 2xx JSON response whose body says status "fail"
// into a 404. Non-JSON and non-2xx responses are streamed untouched.
func FailEnvelopeRewrite(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &bufferingWriter{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rw, r)

			if !rw.buffering {
				if !rw.decided {
					// handler wrote nothing
					w.WriteHeader(rw.code)
				}
				return
			}

			code := rw.code
			body := rw.buf.Bytes()
			var peek struct {
				Status string `json:"status"`
			}
			if json.Unmarshal(body, &peek) == nil && peek.Status == StatusFail {
				logger.Warn("Rewriting successful response carrying a fail envelope", map[string]interface{}{
					"request_id": middleware.RequestIDFromContext(r.Context()),
					"path":       r.URL.Path,
					"status":     code,
				})
				code = http.StatusNotFound
			}

			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
			w.WriteHeader(code)
			_, _ = w.Write(body)
		})
	}
}

// bufferingWriter decides on the first write whether the body needs inspection
type bufferingWriter struct {
	http.ResponseWriter
	code      int
	decided   bool
	buffering bool
	buf       bytes.Buffer
}

func (bw *bufferingWriter) WriteHeader(code int) {
	if bw.decided {
		return
	}
	bw.decided = true
	bw.code = code

	ct := bw.Header().Get("Content-Type")
	if code >= 200 && code < 300 && strings.Contains(ct, "json") {
		bw.buffering = true
		return
	}
	bw.ResponseWriter.WriteHeader(code)
}

func (bw *bufferingWriter) Write(b []byte) (int, error) {
	if !bw.decided {
		bw.WriteHeader(http.StatusOK)
	}
	if bw.buffering {
		return bw.buf.Write(b)
	}
	return bw.ResponseWriter.Write(b)
}
