// ABOUTME: Object key helpers shared by the cover image storage backends
// ABOUTME: Keys are flat, URL-safe and prefixed with the upload time and a random tag

package storage

import (
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// tagLength is the number of random hex characters between the time and the name
const tagLength = 8

// NewKey derives a storage key from an uploaded file name. Uploads of the same
// name within one millisecond get different keys.
func NewKey(name string, now time.Time) string {
	return newKey(name, now, randomTag())
}

func newKey(name string, now time.Time, tag string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "cover"
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + tag + "-" + sanitize(base)
}

func randomTag() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:tagLength]
}

// ValidKey reports whether key can address a stored object
func ValidKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, "/\\") && sanitize(key) == key
}

func sanitize(name string) string {
	escaped := url.PathEscape(name)
	escaped = strings.ReplaceAll(escaped, "%", "_")
	return strings.ReplaceAll(escaped, "..", "_")
}
