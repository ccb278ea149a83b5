// Package ulid generates prefixed ULID identifiers for request tracing.
// ULIDs are lexicographically sortable by time, which keeps log lines for
// a batch groupable without a counter.
package ulid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// Prefix for inbound HTTP request IDs
	PrefixRequest = "req"

	// PrefixSeparator is used to separate the prefix from the ULID
	PrefixSeparator = "-"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// Generate creates a new ULID string with the current timestamp.
func Generate() string {
	return NewWithTime(time.Now())
}

// GenerateWithPrefix creates a new ULID string with the current timestamp
// and a prefix (e.g. "req-01AN4Z07BY79KA1307SR9X4MV3").
func GenerateWithPrefix(prefix string) string {
	return prefix + PrefixSeparator + Generate()
}

// NewWithTime creates a new ULID string with a specific timestamp.
func NewWithTime(t time.Time) string {
	entropyLock.Lock()
	id := ulid.MustNew(ulid.Timestamp(t), entropy)
	entropyLock.Unlock()
	return id.String()
}

// RequestID generates a new request-scoped identifier.
func RequestID() string {
	return GenerateWithPrefix(PrefixRequest)
}
