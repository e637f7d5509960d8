package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubStore lets a test script both store operations.
type stubStore struct {
	findAll  func(q Query) (int64, []Product, error)
	findByID func(id uint) (*Product, error)
}

func (s stubStore) FindAll(ctx context.Context, q Query) (int64, []Product, error) {
	return s.findAll(q)
}

func (s stubStore) FindByID(ctx context.Context, id uint) (*Product, error) {
	return s.findByID(id)
}

func TestResolverFallsBackOnStoreFailure(t *testing.T) {
	snapshot := writeSnapshotFixture(t, fixtureProducts())
	r := NewResolver(UnavailableStore{}, snapshot, discardLogger())

	total, data := r.FindAll(context.Background(), Query{Take: DefaultTake})
	require.Equal(t, int64(5), total)
	require.Len(t, data, 5)

	p, err := r.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Wireless Mouse", p.Name)
}

func TestResolverPrefersStore(t *testing.T) {
	snapshot := writeSnapshotFixture(t, fixtureProducts())
	live := Product{ID: 1, Name: "Wireless Mouse v2", Price: 29.99}
	store := stubStore{
		findAll: func(q Query) (int64, []Product, error) {
			return 1, []Product{live}, nil
		},
		findByID: func(id uint) (*Product, error) {
			return &live, nil
		},
	}
	r := NewResolver(store, snapshot, discardLogger())

	total, data := r.FindAll(context.Background(), Query{Take: DefaultTake})
	require.Equal(t, int64(1), total)
	require.Equal(t, "Wireless Mouse v2", data[0].Name)

	p, err := r.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 29.99, p.Price)
}

func TestResolverStoreNotFoundIsFinal(t *testing.T) {
	// The snapshot still has product 1, but a definite miss from the
	// live store is the answer, not a reason to fall back.
	snapshot := writeSnapshotFixture(t, fixtureProducts())
	store := stubStore{
		findByID: func(id uint) (*Product, error) {
			return nil, ErrNotFound
		},
	}
	r := NewResolver(store, snapshot, discardLogger())

	_, err := r.FindByID(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolverBrokenSnapshotIsEmptyNotFatal(t *testing.T) {
	snapshot := NewSnapshot("does/not/exist.json", discardLogger())
	r := NewResolver(UnavailableStore{}, snapshot, discardLogger())

	total, data := r.FindAll(context.Background(), Query{Take: DefaultTake})
	require.Equal(t, int64(0), total)
	require.Empty(t, data)

	_, err := r.FindByID(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}
