package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is the per-request timeout of clients built by NewClient.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the API reports 404.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and non-2xx responses.
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with the given timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// JoinURL joins a base URL and path segments with single slashes.
func JoinURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(s)
	}
	return b.String()
}
