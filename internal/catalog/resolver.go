package catalog

import (
	"context"
	"errors"
	"log/slog"
)

// Resolver answers catalog lookups from the primary store and falls
// back to the snapshot when the store cannot be queried. The fallback
// is invisible to callers except for staleness.
type Resolver struct {
	Store    Store
	Snapshot *Snapshot
	Log      *slog.Logger
}

func NewResolver(store Store, snapshot *Snapshot, log *slog.Logger) *Resolver {
	return &Resolver{Store: store, Snapshot: snapshot, Log: log}
}

// FindAll never fails: a store error degrades to the snapshot, and a
// broken snapshot degrades to an empty result set.
func (r *Resolver) FindAll(ctx context.Context, q Query) (int64, []Product) {
	total, data, err := r.Store.FindAll(ctx, q)
	if err == nil {
		return total, data
	}
	r.Log.Warn("catalog_store_failed", "op", "find_all", "error", err)
	return r.Snapshot.FindAll(q)
}

// FindByID treats a definite "no such product" from the store as the
// answer; only store failures fall through to the snapshot.
func (r *Resolver) FindByID(ctx context.Context, id uint) (*Product, error) {
	p, err := r.Store.FindByID(ctx, id)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	r.Log.Warn("catalog_store_failed", "op", "find_by_id", "id", id, "error", err)
	return r.Snapshot.FindByID(id)
}
