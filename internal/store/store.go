package store

import (
	"context"
	"errors"
)

// Keys used by the managers. The values are opaque strings; the cart value
// is a JSON snapshot.
const (
	KeyCart        = "cart"
	KeyAuthToken   = "authToken"
	KeyCurrentUser = "currentUser"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is the durable key/value boundary used for cart and session state.
// It must survive process restarts.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
