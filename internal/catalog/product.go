package catalog

import "time"

// Product is owned by the catalog store; this system never writes it
// outside of seeding. The same shape is used for Elasticsearch documents
// and for snapshot file entries.
type Product struct {
	ID          uint      `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Stock       int       `json:"stock"`
	IsFeatured  bool      `json:"isFeatured"`
	ImageURLs   []string  `json:"imageUrls"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Placeholder stands in for a cart line whose product is no longer
// resolvable. A cart must stay renderable even with stale references.
func Placeholder(id uint) Product {
	return Product{
		ID:        id,
		Name:      "Unknown Product",
		Price:     0,
		ImageURLs: []string{},
	}
}
