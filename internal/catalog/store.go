package catalog

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the store answered and the product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrUnavailable means the store itself could not be queried.
	ErrUnavailable = errors.New("catalog store unavailable")
)

// Store is the primary document store for the product catalog. The
// implementation is chosen once at startup, never probed at runtime.
type Store interface {
	FindAll(ctx context.Context, q Query) (int64, []Product, error)
	FindByID(ctx context.Context, id uint) (*Product, error)
}

// UnavailableStore is selected when no live catalog store is configured.
// Every call fails with ErrUnavailable, so the resolver always serves
// the snapshot.
type UnavailableStore struct{}

func (UnavailableStore) FindAll(ctx context.Context, q Query) (int64, []Product, error) {
	return 0, nil, ErrUnavailable
}

func (UnavailableStore) FindByID(ctx context.Context, id uint) (*Product, error) {
	return nil, ErrUnavailable
}
