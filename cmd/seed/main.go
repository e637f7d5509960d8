package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/web_store/internal/catalog"
	"github.com/Skotchmaster/web_store/internal/config"
	"github.com/Skotchmaster/web_store/internal/es"
	"github.com/Skotchmaster/web_store/internal/logging"
)

// rawProduct is the shape of the source data file; price is in
// currency minor units.
type rawProduct struct {
	ID       uint   `json:"id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func main() {
	input := flag.String("input", "data/ecommerce_products_50_items.json", "path to the raw product JSON file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.LOG_LEVEL)

	raw, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("cannot read product file %s: %v", *input, err)
	}

	var parsed struct {
		Products []rawProduct `json:"products"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Fatalf("cannot parse product file %s: %v", *input, err)
	}

	products := transform(parsed.Products)

	// The snapshot fallback is written unconditionally so the catalog
	// resolver can serve it whenever the live store is unreachable.
	if err := writeSnapshot(cfg.SNAPSHOT_PATH, products); err != nil {
		log.Fatalf("cannot write snapshot file: %v", err)
	}
	logger.Info("snapshot_written", "path", cfg.SNAPSHOT_PATH, "products", len(products))

	if err := indexProducts(cfg, products); err != nil {
		logger.Warn("elasticsearch_seed_failed", "error", err)
		return
	}
	logger.Info("elasticsearch_seeded", "index", cfg.ES_INDEX, "products", len(products))
}

func transform(raws []rawProduct) []catalog.Product {
	now := time.Now().UTC()
	products := make([]catalog.Product, 0, len(raws))
	for i, r := range raws {
		slug := strings.Trim(slugRe.ReplaceAllString(strings.ToLower(r.Category), "-"), "-")
		products = append(products, catalog.Product{
			ID:          r.ID,
			SKU:         r.SKU,
			Name:        r.Name,
			Price:       float64(r.Price) / 100,
			Category:    r.Category,
			Description: fmt.Sprintf("The perfect item for your needs! This product is part of our premium collection in the %s category. SKU: %s.", r.Category, r.SKU),
			Stock:       20 + (i % 15),
			IsFeatured:  i%5 == 0,
			ImageURLs:   []string{fmt.Sprintf("/images/%s.jpg", slug)},
			CreatedAt:   now.Add(-time.Duration(len(raws)-i) * time.Hour),
		})
	}
	return products
}

func writeSnapshot(path string, products []catalog.Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func indexProducts(cfg *config.Config, products []catalog.Product) error {
	client, err := es.NewClient(cfg)
	if err != nil {
		return err
	}

	for _, p := range products {
		body, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal product %d: %w", p.ID, err)
		}
		res, err := client.Index(
			cfg.ES_INDEX,
			bytes.NewReader(body),
			client.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		)
		if err != nil {
			return fmt.Errorf("index product %d: %w", p.ID, err)
		}
		if res.IsError() {
			res.Body.Close()
			return fmt.Errorf("index product %d: %s", p.ID, res.Status())
		}
		res.Body.Close()
	}
	return nil
}
