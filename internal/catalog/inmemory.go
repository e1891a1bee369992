package catalog

import (
	"context"
	"strings"
	"sync"
	"time"
)

// InMemoryStore is a seeded in-process catalog for local/dev use.
type InMemoryStore struct {
	mu       sync.RWMutex
	products []Product
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{products: DefaultProducts()}
}

func (s *InMemoryStore) ListProducts(_ context.Context, filter Filter) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Product
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		if filter.VehicleKind != "" && p.VehicleKind != "" && p.VehicleKind != filter.VehicleKind {
			continue
		}
		if filter.MainCoverage != "" && p.MainCoverage != "" &&
			!strings.Contains(strings.ToLower(p.MainCoverage), strings.ToLower(filter.MainCoverage)) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *InMemoryStore) GetProduct(_ context.Context, id int) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id && p.IsActive {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

func (s *InMemoryStore) Mode() string { return "in-memory" }

func (s *InMemoryStore) Close() error { return nil }

// DefaultProducts is the built-in vehicle insurance lineup.
func DefaultProducts() []Product {
	now := time.Now().UTC()
	return []Product{
		{
			ID: 1, Name: "Autocillin Comprehensive", Category: "vehicle",
			VehicleKind: "car", MainCoverage: "comprehensive",
			Slug: "autocillin-comprehensive", IsActive: true, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 2, Name: "Autocillin TLO", Category: "vehicle",
			VehicleKind: "car", MainCoverage: "tlo",
			Slug: "autocillin-tlo", IsActive: true, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 3, Name: "Motopro Comprehensive", Category: "vehicle",
			VehicleKind: "motorcycle", MainCoverage: "comprehensive",
			Slug: "motopro-comprehensive", IsActive: true, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 4, Name: "Motopro TLO", Category: "vehicle",
			VehicleKind: "motorcycle", MainCoverage: "tlo",
			Slug: "motopro-tlo", IsActive: true, CreatedAt: now, UpdatedAt: now,
		},
	}
}
