package catalog

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Snapshot is the static point-in-time copy of the catalog written by
// the seeder. It is not kept in sync with the live store; staleness is
// an accepted tradeoff of the fallback design.
type Snapshot struct {
	Path string
	Log  *slog.Logger
}

func NewSnapshot(path string, log *slog.Logger) *Snapshot {
	return &Snapshot{Path: path, Log: log}
}

// load reads the whole snapshot file. A missing or corrupt file is not
// fatal for callers: it degrades to an empty catalog and is logged.
func (s *Snapshot) load() []Product {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		s.Log.Error("snapshot_read_failed", "path", s.Path, "error", err)
		return nil
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		s.Log.Error("snapshot_parse_failed", "path", s.Path, "error", err)
		return nil
	}
	return products
}

// FindAll re-implements the store query against the snapshot: exact
// category match, case-insensitive substring search on name or
// description, inclusive price bounds, stable sort, then [skip, skip+take).
func (s *Snapshot) FindAll(q Query) (int64, []Product) {
	q = q.normalized()
	all := s.load()

	filtered := make([]Product, 0, len(all))
	for _, p := range all {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		c := compareProducts(filtered[i], filtered[j], q.SortBy)
		if q.SortOrder == SortDesc {
			return c > 0
		}
		return c < 0
	})

	total := int64(len(filtered))

	start := q.Skip
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + q.Take
	if end > len(filtered) {
		end = len(filtered)
	}
	return total, filtered[start:end]
}

func (s *Snapshot) FindByID(id uint) (*Product, error) {
	for _, p := range s.load() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// compareProducts is a three-way comparison on the requested sort field;
// equal values keep their original snapshot order.
func compareProducts(a, b Product, sortBy string) int {
	switch sortBy {
	case SortByPrice:
		switch {
		case a.Price < b.Price:
			return -1
		case a.Price > b.Price:
			return 1
		}
		return 0
	case SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}
