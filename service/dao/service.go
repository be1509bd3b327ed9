package dao

import (
	"context"
)

// Service persists entities of type T keyed by K. Snapshot stores implement
// Service[string, model.Snapshot] and key snapshots by Snapshot.ID.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	// Load returns ErrNotFound when nothing is stored under id.
	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context) ([]*T, error)
}
