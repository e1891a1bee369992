package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrProductNotFound is returned when a requested product id is unknown,
// inactive or soft-deleted.
var ErrProductNotFound = errors.New("product not found")

// Product is one insurance product row.
type Product struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	VehicleKind  string    `json:"vehicle_kind,omitempty"`
	MainCoverage string    `json:"main_coverage,omitempty"`
	Slug         string    `json:"slug"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filter narrows product listings. Empty fields match everything; products
// with an empty vehicle kind or coverage are generic and always match.
type Filter struct {
	VehicleKind  string
	MainCoverage string
	Category     string
}

// Store lists the product catalog.
type Store interface {
	ListProducts(ctx context.Context, filter Filter) ([]Product, error)
	GetProduct(ctx context.Context, id int) (Product, error)
	Close() error
}

// Mode reports which backend a store runs on, for health reporting.
type Mode interface {
	Mode() string
}
