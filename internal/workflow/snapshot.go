package workflow

import (
	"github.com/Veraticus/bon-scanner/internal/model"
)

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Buffer returns the edit buffer.
func (s *Session) Buffer() string { return s.buffer }

// LastError returns the error of the most recent failed event, if any.
func (s *Session) LastError() error { return s.lastError }

// OcrPending reports whether a recognition is in flight.
func (s *Session) OcrPending() bool { return s.pending != nil }

// OcrFile returns the path of the image being processed.
func (s *Session) OcrFile() string { return s.ocrFile }

// OcrLines returns a copy of the current lines.
func (s *Session) OcrLines() []model.OcrLine {
	return append([]model.OcrLine(nil), s.ocrLines...)
}

// OcrCursor returns the selected line, or -1.
func (s *Session) OcrCursor() int { return s.ocrCursor }

// Draft returns a copy of the draft under edit.
func (s *Session) Draft() model.ReceiptDraft { return s.draft.Clone() }

// ItemCursor returns the selected draft item, or -1.
func (s *Session) ItemCursor() int { return s.itemCursor }

// Receipts returns the visible committed receipts.
func (s *Session) Receipts() []model.Receipt {
	return append([]model.Receipt(nil), s.receipts...)
}

// ReceiptCursor returns the selected receipt, or -1.
func (s *Session) ReceiptCursor() int { return s.receiptCursor }

// Summary returns the per-category breakdown of the selected receipt.
func (s *Session) Summary() []model.CategorySummary {
	if !selected(s.receiptCursor, len(s.receipts)) {
		return nil
	}
	return model.Summarize(s.receipts[s.receiptCursor])
}

// ImportFiles returns the unprocessed import files.
func (s *Session) ImportFiles() []string {
	return append([]string(nil), s.importList...)
}

// ImportCursor returns the selected import file, or -1.
func (s *Session) ImportCursor() int { return s.importCursor }

// Categories returns the categories loaded for picking.
func (s *Session) Categories() []model.Category {
	return append([]model.Category(nil), s.categories...)
}

// CategoryCursor returns the selected category, or -1.
func (s *Session) CategoryCursor() int { return s.categoryCursor }

// Blacklist returns the loaded blacklist entries.
func (s *Session) Blacklist() []string {
	return append([]string(nil), s.blacklist...)
}
