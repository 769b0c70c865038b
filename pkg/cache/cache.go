package cache

import (
	"context"
	"fmt"
	"time"
)

var (
	ErrKeyNotExist = fmt.Errorf("cache key not exists")
)

// Cache is a black-box key/value layer with TTL used by read paths (cache-aside).
// Values are stored as JSON, so out must be a pointer on GetAs.
type Cache interface {
	GetAs(ctx context.Context, key string, out interface{}) error
	SetExp(ctx context.Context, key string, inValue interface{}, expireDur time.Duration) error
	Delete(ctx context.Context, key string) error
}
