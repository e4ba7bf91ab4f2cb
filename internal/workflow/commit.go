package workflow

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Veraticus/bon-scanner/internal/common"
	"github.com/Veraticus/bon-scanner/internal/model"
	"github.com/Veraticus/bon-scanner/internal/ocrtext"
	"github.com/Veraticus/bon-scanner/internal/service"
)

// commit persists the draft in a single transaction. On failure nothing is
// written and the draft stays as it was.
func (s *Session) commit(ctx context.Context) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return common.NewStorageError("begin commit", err)
	}

	receiptID, err := writeDraft(ctx, tx, s.draft, filepath.Base(s.ocrFile))
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", "error", rbErr)
		}
		return common.NewStorageError("commit receipt", err)
	}

	if err := tx.Commit(); err != nil {
		return common.NewStorageError("commit receipt", err)
	}

	s.logger.Info("receipt committed",
		"receipt_id", receiptID,
		"items", len(s.draft.Items),
		"total", s.draft.PriceReported.StringFixed(2),
		"file", filepath.Base(s.ocrFile))

	s.goHome()
	return s.refreshAfterCommit(ctx)
}

func writeDraft(ctx context.Context, tx service.Transaction, draft model.ReceiptDraft, fileName string) (int64, error) {
	receiptID, err := tx.CreateReceipt(ctx, ocrtext.NormalizeDate(draft.Date), draft.PriceReported)
	if err != nil {
		return 0, err
	}

	categoryIDs := make(map[string]int64)
	for _, item := range draft.Items {
		categoryName := item.Category
		if categoryName == "" {
			categoryName = model.UncategorizedCategory
		}

		categoryID, ok := categoryIDs[categoryName]
		if !ok {
			category, err := resolveCategory(ctx, tx, categoryName)
			if err != nil {
				return 0, err
			}
			categoryID = category.ID
			categoryIDs[categoryName] = categoryID
		}

		product, err := resolveProduct(ctx, tx, categoryID, item.Product)
		if err != nil {
			return 0, err
		}

		if err := tx.CreateEntry(ctx, receiptID, product.ID, item.Price); err != nil {
			return 0, fmt.Errorf("failed to create entry for %q: %w", item.Product, err)
		}
	}

	if fileName != "" && fileName != "." {
		if err := tx.MarkProcessed(ctx, fileName); err != nil {
			return 0, err
		}
	}
	return receiptID, nil
}

func resolveCategory(ctx context.Context, tx service.Transaction, name string) (*model.Category, error) {
	category, err := tx.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if category != nil {
		return category, nil
	}
	return tx.CreateCategory(ctx, name)
}

func resolveProduct(ctx context.Context, tx service.Transaction, categoryID int64, name string) (*model.Product, error) {
	product, err := tx.GetProduct(ctx, categoryID, name)
	if err != nil {
		return nil, err
	}
	if product != nil {
		return product, nil
	}
	return tx.CreateProduct(ctx, categoryID, name)
}

func (s *Session) refreshAfterCommit(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return common.NewStorageError("load categories", err)
	}
	s.categories = categories
	s.categoryCursor = clampCursor(s.categoryCursor, len(categories))

	files, err := s.imports.List(ctx)
	if err != nil {
		return common.NewStorageError("list import files", err)
	}
	s.importList = files
	s.importCursor = clampCursor(s.importCursor, len(files))
	return nil
}
