package ports

import (
	"context"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
)

// KeyValueStore is durable key/value persistence. Get returns
// domain.ErrNotFound when the key does not exist.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishLaunch(ctx context.Context, event *domain.LaunchEvent) error
}
