package utils

import (
	"github.com/google/uuid"
)

// NewRequestID generates an id for correlating a local request with its upstream calls
func NewRequestID() string {
	return uuid.New().String()
}

// ShortID returns the first 8 characters of an id for log lines
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ParseOptionalUUID parses s into a uuid. An empty string yields nil.
func ParseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
