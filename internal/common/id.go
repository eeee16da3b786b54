package common

import (
	"github.com/google/uuid"
)

// NewSessionID generates the session identifier tagged onto every record
// written during one pipeline lifetime. A UUID carries 122 random bits, far
// past the point where two sessions could collide in practice.
// Format: ses_<uuid>
func NewSessionID() string {
	return "ses_" + uuid.New().String()
}

// NewFlushToken generates the sentinel token for one flush request.
func NewFlushToken() string {
	return "fls_" + uuid.New().String()
}
