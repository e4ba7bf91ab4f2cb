package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/bon-scanner/internal/common"
	"github.com/Veraticus/bon-scanner/internal/model"
	"github.com/Veraticus/bon-scanner/internal/ocrtext"
)

var errEmptyInput = errors.New("value must not be empty")

func (s *Session) onHome(ctx context.Context, trigger Trigger) error {
	switch trigger {
	case SelectImportTarget:
		files, err := s.imports.List(ctx)
		if err != nil {
			return common.NewStorageError("list import files", err)
		}
		s.importList = files
		s.importCursor = firstCursor(len(files))
		s.state = StateImport
	case HideReceipt:
		if !selected(s.receiptCursor, len(s.receipts)) {
			return nil
		}
		id := s.receipts[s.receiptCursor].ID
		if err := s.store.HideReceipt(ctx, id); err != nil {
			return common.NewStorageError("hide receipt", err)
		}
		s.logger.Info("receipt hidden", "receipt_id", id)
		return s.Refresh(ctx)
	default:
	}
	return nil
}

func (s *Session) onImport(_ context.Context, trigger Trigger) (*OcrRequest, error) {
	switch trigger {
	case ConfirmFile:
		if !selected(s.importCursor, len(s.importList)) {
			return nil, nil
		}
		s.ocrFile = s.imports.Path(s.importList[s.importCursor])
		s.ocrLines = nil
		s.ocrCursor = -1
		s.state = StateOcr
		return s.requestOcr(), nil
	case Back:
		s.goHome()
	default:
	}
	return nil, nil
}

func (s *Session) onOcr(ctx context.Context, trigger Trigger) error {
	switch trigger {
	case ConvertToDraft:
		// The recognized lines must be in before a draft can be built.
		if s.pending != nil {
			return nil
		}
		snapshot, err := s.engine.Snapshot(ctx, s.store)
		if err != nil {
			return common.NewStorageError("load catalog", err)
		}
		s.draft = s.engine.Convert(s.ocrLines, snapshot)
		s.itemCursor = firstCursor(len(s.draft.Items))
		s.state = StateConvertBon
	case MarkAsDate:
		s.toggleTag(model.TagDate)
	case MarkAsSum:
		s.toggleTag(model.TagSum)
	case DeleteLine:
		if !selected(s.ocrCursor, len(s.ocrLines)) {
			return nil
		}
		s.ocrLines = append(s.ocrLines[:s.ocrCursor], s.ocrLines[s.ocrCursor+1:]...)
		s.ocrCursor = clampCursor(s.ocrCursor, len(s.ocrLines))
	case RequestBlacklist:
		if !selected(s.ocrCursor, len(s.ocrLines)) {
			return nil
		}
		s.buffer = s.ocrLines[s.ocrCursor].Text
		s.state = StateBlacklist
	case Back:
		s.goHome()
	default:
	}
	return nil
}

// toggleTag flips the selected line between tag and TagEntry. Only one line
// may carry tag, so a previous holder falls back to TagEntry.
func (s *Session) toggleTag(tag model.LineTag) {
	if !selected(s.ocrCursor, len(s.ocrLines)) {
		return
	}
	line := &s.ocrLines[s.ocrCursor]
	if line.Tag == tag {
		line.Tag = model.TagEntry
		return
	}
	for i := range s.ocrLines {
		if s.ocrLines[i].Tag == tag {
			s.ocrLines[i].Tag = model.TagEntry
		}
	}
	line.Tag = tag
}

func (s *Session) onBlacklist(ctx context.Context, trigger Trigger) error {
	switch trigger {
	case CommitBlacklistEntry:
		if s.buffer == "" {
			return nil
		}
		if err := s.store.AddBlacklistEntry(ctx, s.buffer); err != nil {
			return common.NewStorageError("add blacklist entry", err)
		}
		blacklist, err := s.store.ListBlacklist(ctx)
		if err != nil {
			return common.NewStorageError("load blacklist", err)
		}
		s.logger.Info("blacklist entry added", "entry", s.buffer)
		s.blacklist = blacklist
		s.ocrLines = ocrtext.Refilter(s.ocrLines, blacklist)
		s.ocrCursor = clampCursor(s.ocrCursor, len(s.ocrLines))
		s.buffer = ""
		s.state = StateOcr
	case Cancel, Back:
		s.buffer = ""
		s.state = StateOcr
	default:
	}
	return nil
}

func (s *Session) onConvertBon(ctx context.Context, trigger Trigger) error {
	hasItem := selected(s.itemCursor, len(s.draft.Items))

	switch trigger {
	case RequestEditName:
		if hasItem {
			s.buffer = s.draft.Items[s.itemCursor].Product
			s.state = StateEditName
		}
	case RequestEditPrice:
		if hasItem {
			s.buffer = s.draft.Items[s.itemCursor].Price.StringFixed(2)
			s.state = StateEditPrice
		}
	case RequestEditBonPrice:
		s.buffer = s.draft.PriceReported.StringFixed(2)
		s.state = StateEditBonPrice
	case RequestCategoryPick:
		if !hasItem {
			return nil
		}
		categories, err := s.store.ListCategories(ctx)
		if err != nil {
			return common.NewStorageError("load categories", err)
		}
		s.categories = categories
		s.categoryCursor = firstCursor(len(categories))
		s.state = StateCategory
	case DeleteItem:
		if hasItem {
			s.draft.RemoveItem(s.itemCursor)
			s.itemCursor = clampCursor(s.itemCursor, len(s.draft.Items))
		}
	case CommitBon:
		return s.commit(ctx)
	case Back:
		s.goHome()
	default:
	}
	return nil
}

func (s *Session) onCategory(trigger Trigger) error {
	switch trigger {
	case PickCategory:
		if !selected(s.categoryCursor, len(s.categories)) || !selected(s.itemCursor, len(s.draft.Items)) {
			return nil
		}
		s.draft.Items[s.itemCursor].Category = s.categories[s.categoryCursor].Name
		s.state = StateConvertBon
	case RequestNewCategory:
		s.buffer = ""
		s.state = StateEditCategory
	case Cancel, Back:
		s.state = StateConvertBon
	default:
	}
	return nil
}

func (s *Session) onEditDraft(trigger Trigger) error {
	switch trigger {
	case CommitEdit:
		if err := s.applyEdit(); err != nil {
			return err
		}
		s.buffer = ""
		s.state = StateConvertBon
	case Cancel, Back:
		s.buffer = ""
		s.state = StateConvertBon
	default:
	}
	return nil
}

// applyEdit parses the buffer for the current edit state and writes it into
// the draft. The draft is left unchanged when parsing fails.
func (s *Session) applyEdit() error {
	input := strings.TrimSpace(s.buffer)

	switch s.state {
	case StateEditName:
		if input == "" {
			return &common.ParseError{Field: "name", Input: s.buffer, Err: errEmptyInput}
		}
		if selected(s.itemCursor, len(s.draft.Items)) {
			s.draft.Items[s.itemCursor].Product = input
		}
	case StateEditPrice:
		price, err := parsePrice("price", s.buffer)
		if err != nil {
			return err
		}
		if selected(s.itemCursor, len(s.draft.Items)) {
			s.draft.Items[s.itemCursor].Price = price
			s.draft.Recompute()
		}
	case StateEditBonPrice:
		price, err := parsePrice("receipt total", s.buffer)
		if err != nil {
			return err
		}
		s.draft.PriceReported = price
		s.draft.Recompute()
	default:
	}
	return nil
}

// parsePrice accepts both decimal separators.
func parsePrice(field, input string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	if normalized == "" {
		return decimal.Zero, &common.ParseError{Field: field, Input: input, Err: errEmptyInput}
	}
	price, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, &common.ParseError{Field: field, Input: input, Err: err}
	}
	return price, nil
}

func (s *Session) onEditCategory(ctx context.Context, trigger Trigger) error {
	switch trigger {
	case CommitEdit:
		name := strings.TrimSpace(s.buffer)
		if name == "" {
			return &common.ParseError{Field: "category", Input: s.buffer, Err: errEmptyInput}
		}
		if _, err := s.store.CreateCategory(ctx, name); err != nil {
			return common.NewStorageError("create category", err)
		}
		categories, err := s.store.ListCategories(ctx)
		if err != nil {
			return common.NewStorageError("load categories", err)
		}
		s.categories = categories
		s.categoryCursor = firstCursor(len(categories))
		for i, c := range categories {
			if c.Name == name {
				s.categoryCursor = i
				break
			}
		}
		s.buffer = ""
		s.state = StateCategory
	case Cancel, Back:
		s.buffer = ""
		s.state = StateCategory
	default:
	}
	return nil
}
