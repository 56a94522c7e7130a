// Package metadata stores small client-side values, such as the persisted
// session, in the local key/value table.
package metadata

import (
	"context"
)

// Repository is a byte-valued key/value store. Get returns
// common.ErrorNotFound for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
