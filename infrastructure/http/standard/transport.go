// ABOUTME: Outbound HTTP transport that logs every round trip
// ABOUTME: Used by clients of external services such as the S3 cover store

package standard

import (
	"net/http"
	"time"

	"openmusic-api/core/interfaces"
)

// SlowRequestThreshold marks round trips logged at warn level
const SlowRequestThreshold = 2 * time.Second

// LoggingTransport wraps a RoundTripper and logs method, host, status and duration
type LoggingTransport struct {
	base   http.RoundTripper
	logger interfaces.Logger
	now    func() time.Time
}

// NewTransport wraps base, or a clone of http.DefaultTransport when base is nil
func NewTransport(base http.RoundTripper, logger interfaces.Logger) *LoggingTransport {
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}
	return &LoggingTransport{base: base, logger: logger, now: time.Now}
}

// RoundTrip implements http.RoundTripper
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := t.now()
	resp, err := t.base.RoundTrip(req)
	elapsed := t.now().Sub(start)

	fields := map[string]interface{}{
		"method":      req.Method,
		"host":        req.URL.Host,
		"path":        req.URL.Path,
		"duration_ms": elapsed.Milliseconds(),
	}

	if err != nil {
		fields["error"] = err.Error()
		t.logger.Warn("Outbound request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	switch {
	case resp.StatusCode >= 500:
		t.logger.Warn("Outbound request returned server error", fields)
	case elapsed >= SlowRequestThreshold:
		t.logger.Warn("Slow outbound request", fields)
	default:
		t.logger.Debug("Outbound request", fields)
	}
	return resp, nil
}
