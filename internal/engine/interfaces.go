package engine

import (
	"context"

	"github.com/Veraticus/bon-scanner/internal/model"
)

// CatalogReader is the part of storage the engine needs to snapshot the catalog.
type CatalogReader interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}
