// Package catalog matches OCR product names against the known product catalog.
package catalog

import (
	"github.com/hbollon/go-edlib"

	"github.com/Veraticus/bon-scanner/internal/model"
)

// DefaultThreshold is the exclusive edit distance bound for accepting a match.
const DefaultThreshold = 4

// Snapshot is a read-only view of the catalog taken when a draft is converted.
// Products are expected in insertion order so ties resolve to the oldest product.
type Snapshot struct {
	Products   []model.Product
	Categories []model.Category
	Threshold  int
}

// Match is the outcome of looking up one OCR name.
type Match struct {
	Product  string
	Category string
	Distance int
	Matched  bool
}

// NewSnapshot builds a snapshot with the default threshold.
func NewSnapshot(products []model.Product, categories []model.Category) Snapshot {
	return Snapshot{
		Products:   products,
		Categories: categories,
		Threshold:  DefaultThreshold,
	}
}

// Match finds the product closest to name by Damerau-Levenshtein distance.
// Without a product under the threshold the raw name is returned with no category.
func (s Snapshot) Match(name string) Match {
	best := -1
	bestDistance := 0

	for i, product := range s.Products {
		distance := edlib.DamerauLevenshteinDistance(name, product.Name)
		if best < 0 || distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}

	if best < 0 || bestDistance >= s.threshold() {
		return Match{Product: name, Distance: bestDistance}
	}

	product := s.Products[best]
	return Match{
		Product:  product.Name,
		Category: s.categoryName(product.CategoryID),
		Distance: bestDistance,
		Matched:  true,
	}
}

func (s Snapshot) threshold() int {
	if s.Threshold <= 0 {
		return DefaultThreshold
	}
	return s.Threshold
}

func (s Snapshot) categoryName(id int64) string {
	for _, category := range s.Categories {
		if category.ID == id {
			return category.Name
		}
	}
	return ""
}
