// Package metadata is the key/value repository over the client_state
// table. Values are opaque bytes; higher layers decide their encoding.
package metadata

import (
	"context"
)

// Repository stores small named values. Get returns (nil, nil) for an
// absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string, more ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
