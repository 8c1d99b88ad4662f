package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key joins a namespace and key parts into a cache key:
// "namespace:part1:part2". Parts are lowercased since registry identifiers
// (NuGet IDs, versions) compare case-insensitively.
func Key(namespace string, parts ...string) string {
	var b strings.Builder
	b.WriteString(namespace)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(strings.ToLower(p))
	}
	return b.String()
}

// namespaceOf returns the namespace of a key built with Key.
func namespaceOf(key string) string {
	ns, _, _ := strings.Cut(key, ":")
	return ns
}

// Hash computes a SHA-256 hash of the input data as 64 hex characters.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
