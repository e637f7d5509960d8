package catalog

const (
	SortByPrice     = "price"
	SortByName      = "name"
	SortByCreatedAt = "createdAt"

	SortAsc  = "asc"
	SortDesc = "desc"
)

const (
	DefaultTake = 10
	MaxTake     = 100
)

type Query struct {
	Search    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
	Skip      int
	Take      int
}

// normalized fills in defaults and clamps pagination so malformed
// values never panic downstream.
func (q Query) normalized() Query {
	switch q.SortBy {
	case SortByPrice, SortByName, SortByCreatedAt:
	default:
		q.SortBy = SortByName
	}
	if q.SortOrder != SortDesc {
		q.SortOrder = SortAsc
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Take < 0 {
		q.Take = 0
	}
	if q.Take > MaxTake {
		q.Take = MaxTake
	}
	return q
}
