package ulid

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	id := Generate()
	assert.Len(t, id, 26, "ULID should be 26 characters")
}

func TestGenerateWithPrefix(t *testing.T) {
	id := GenerateWithPrefix(PrefixRequest)
	assert.True(t, strings.HasPrefix(id, "req-"))
	assert.Len(t, id, len("req-")+26)
}

func TestRequestID(t *testing.T) {
	a := RequestID()
	b := RequestID()
	assert.NotEqual(t, a, b, "request IDs must be unique")
}

func TestMonotonicOrdering(t *testing.T) {
	now := time.Now()
	first := NewWithTime(now)
	second := NewWithTime(now)

	// Same timestamp: monotonic entropy keeps generation order
	assert.True(t, first < second, "ULIDs with the same timestamp should sort by generation order")
}
