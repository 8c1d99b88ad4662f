package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist in the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizePkgName converts a package identifier to its canonical form.
// NuGet IDs compare case-insensitively and the flat container serves them
// lowercased.
func NormalizePkgName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// URLEncode percent-encodes a string for use in URL paths.
func URLEncode(s string) string { return url.PathEscape(s) }
