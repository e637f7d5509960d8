package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
)

// LiveStore serves the catalog from Elasticsearch, pushing the filter,
// sort and pagination of a Query down into the search request.
type LiveStore struct {
	ES    *elasticsearch.Client
	Index string
}

func (s *LiveStore) FindAll(ctx context.Context, q Query) (int64, []Product, error) {
	q = q.normalized()

	must := []any{}
	filter := []any{}

	if q.Search != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  q.Search,
				"fields": []string{"name^2", "description"},
			},
		})
	}
	if q.Category != "" {
		filter = append(filter, map[string]any{
			"term": map[string]any{"category.keyword": q.Category},
		})
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		bounds := map[string]any{}
		if q.MinPrice != nil {
			bounds["gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			bounds["lte"] = *q.MaxPrice
		}
		filter = append(filter, map[string]any{"range": map[string]any{"price": bounds}})
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must, "filter": filter},
		},
		"sort": []any{
			map[string]any{sortField(q.SortBy): map[string]any{"order": q.SortOrder}},
			map[string]any{"_doc": map[string]any{"order": "asc"}},
		},
		"from":             q.Skip,
		"size":             q.Take,
		"track_total_hits": true,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("%w: search returned %s", ErrUnavailable, res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("%w: decode search response: %v", ErrUnavailable, err)
	}

	prods := make([]Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}

func (s *LiveStore) FindByID(ctx context.Context, id uint) (*Product, error) {
	res, err := s.ES.Get(s.Index, strconv.FormatUint(uint64(id), 10), s.ES.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: get returned %s", ErrUnavailable, res.Status())
	}

	var r struct {
		Found  bool    `json:"found"`
		Source Product `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode get response: %v", ErrUnavailable, err)
	}
	if !r.Found {
		return nil, ErrNotFound
	}
	return &r.Source, nil
}

func sortField(sortBy string) string {
	switch sortBy {
	case SortByPrice:
		return "price"
	case SortByCreatedAt:
		return "createdAt"
	default:
		return "name.keyword"
	}
}
