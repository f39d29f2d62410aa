package domain

import (
	"context"
	"errors"
)

// Service is the host-side settings store. Reads never fail the caller:
// an absent key or a storage error falls back to the supplied default.
type Service interface {
	Get(ctx context.Context, key, def string) string
	GetByPrefix(ctx context.Context, prefix string) (map[string]string, error)
	Put(ctx context.Context, key, value string) error
}

var (
	ErrInvalidKey = errors.New("invalid_key")
)
