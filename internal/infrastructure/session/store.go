// internal/infrastructure/session/store.go
package session

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when a session key has no stored value.
var ErrKeyNotFound = errors.New("session key not found")

// Store is the per-visitor key-value persistence used for the cart and the
// checkout selection. Values are JSON-serializable; reads into a missing key
// return ErrKeyNotFound so callers can fall back to a zero value.
//
// Reads and writes are independent per request: two concurrent requests on
// the same session race read-modify-write and the last write wins. That is
// the accepted consistency policy, do not add locking here.
type Store interface {
	Get(ctx context.Context, sessionID, key string, dest interface{}) error
	Set(ctx context.Context, sessionID, key string, value interface{}) error
	Delete(ctx context.Context, sessionID, key string) error
}
