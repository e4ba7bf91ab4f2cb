// Package engine converts tagged OCR lines into a receipt draft.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/bon-scanner/internal/catalog"
	"github.com/Veraticus/bon-scanner/internal/model"
	"github.com/Veraticus/bon-scanner/internal/ocrtext"
)

// Engine builds receipt drafts from classified OCR lines.
type Engine struct {
	tolerance decimal.Decimal
	threshold int
}

// Config holds configuration options for the conversion engine.
type Config struct {
	ReconcileTolerance decimal.Decimal
	MatchThreshold     int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MatchThreshold:     catalog.DefaultThreshold,
		ReconcileTolerance: model.DefaultReconcileTolerance,
	}
}

// New creates an engine with the default configuration.
func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(config Config) *Engine {
	if config.MatchThreshold <= 0 {
		config.MatchThreshold = catalog.DefaultThreshold
	}
	if !config.ReconcileTolerance.IsPositive() {
		config.ReconcileTolerance = model.DefaultReconcileTolerance
	}
	return &Engine{
		threshold: config.MatchThreshold,
		tolerance: config.ReconcileTolerance,
	}
}

// Snapshot reads the current catalog from storage.
func (e *Engine) Snapshot(ctx context.Context, reader CatalogReader) (catalog.Snapshot, error) {
	products, err := reader.ListProducts(ctx)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to load products: %w", err)
	}

	categories, err := reader.ListCategories(ctx)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to load categories: %w", err)
	}

	snapshot := catalog.NewSnapshot(products, categories)
	snapshot.Threshold = e.threshold
	return snapshot, nil
}

// Convert builds a draft from lines. Date and sum lines set the header fields,
// with the last successful extraction winning. Entry lines that yield both a
// name and a price become items, resolved against the catalog snapshot.
// Lines that fail extraction are skipped.
func (e *Engine) Convert(lines []model.OcrLine, snapshot catalog.Snapshot) model.ReceiptDraft {
	draft := model.ReceiptDraft{Tolerance: e.tolerance}
	matched := 0

	for _, line := range lines {
		switch line.Tag {
		case model.TagDate:
			if date, ok := ocrtext.ExtractDate(line.Text); ok {
				draft.Date = date
			}
		case model.TagSum:
			if price, ok := ocrtext.ExtractPrice(line.Text); ok {
				draft.PriceReported = price
			}
		case model.TagEntry:
			name, ok := ocrtext.ExtractName(line.Text)
			if !ok {
				continue
			}
			price, ok := ocrtext.ExtractPrice(line.Text)
			if !ok {
				continue
			}

			match := snapshot.Match(name)
			if match.Matched {
				matched++
			}
			draft.Items = append(draft.Items, model.DraftEntry{
				Product:  match.Product,
				Category: match.Category,
				Price:    price,
			})
		case model.TagUnclassified:
		}
	}

	draft.Recompute()

	slog.Debug("converted draft",
		"lines", len(lines),
		"items", len(draft.Items),
		"matched", matched,
		"reconciled", draft.Reconciled)

	return draft
}
