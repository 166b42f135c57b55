package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalizeProductDocumentLegacyImageString(t *testing.T) {
	raw := bson.M{
		"name":   "Ceramic Mug",
		"price":  14.99,
		"images": "https://example.com/mug.jpg",
		"stock":  int32(5),
	}

	p, err := normalizeProductDocument(raw)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	if len(p.Images) != 1 || p.Images[0] != "https://example.com/mug.jpg" {
		t.Fatalf("expected single-element image list, got %v", p.Images)
	}
	if p.Stock != 5 {
		t.Fatalf("expected stock 5, got %d", p.Stock)
	}
	if !p.InStock {
		t.Fatal("expected product with stock to be in stock")
	}
}

func TestNormalizeProductDocumentStockCoercion(t *testing.T) {
	tests := []struct {
		name string
		raw  bson.M
		want int
	}{
		{name: "int64 stock", raw: bson.M{"stock": int64(12)}, want: 12},
		{name: "float stock", raw: bson.M{"stock": float64(7)}, want: 7},
		{name: "missing stock", raw: bson.M{}, want: 0},
		{name: "garbage stock", raw: bson.M{"stock": "plenty"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := normalizeProductDocument(tt.raw)
			if err != nil {
				t.Fatalf("normalize failed: %v", err)
			}
			if p.Stock != tt.want {
				t.Fatalf("expected stock %d, got %d", tt.want, p.Stock)
			}
		})
	}
}

func TestNormalizeProductDocumentZeroStockNotInStock(t *testing.T) {
	p, err := normalizeProductDocument(bson.M{"name": "Sold Out", "stock": int32(0)})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if p.InStock {
		t.Fatal("expected zero-stock product to be out of stock")
	}
}

func TestParsePaginationParams(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("defaults should not error: %v", err)
	}
	if page != 1 || limit != 20 {
		t.Fatalf("expected defaults 1/20, got %d/%d", page, limit)
	}

	page, limit, err = parsePaginationParams("3", "50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 3 || limit != 50 {
		t.Fatalf("expected 3/50, got %d/%d", page, limit)
	}

	_, limit, err = parsePaginationParams("1", "500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != 100 {
		t.Fatalf("expected limit capped at 100, got %d", limit)
	}

	for _, bad := range [][2]string{{"0", "10"}, {"-1", "10"}, {"abc", "10"}, {"1", "0"}, {"1", "x"}} {
		if _, _, err := parsePaginationParams(bad[0], bad[1]); err == nil {
			t.Fatalf("expected error for page=%q limit=%q", bad[0], bad[1])
		}
	}
}
