package model

import (
	"github.com/shopspring/decimal"
)

// DefaultReconcileTolerance is the largest difference between the reported and the
// computed total that still counts as reconciled.
var DefaultReconcileTolerance = decimal.NewFromInt(1)

// DraftEntry is one editable line item of a receipt draft.
type DraftEntry struct {
	Category string
	Product  string
	Price    decimal.Decimal
}

// ReceiptDraft is a receipt under interactive editing that has not been committed yet.
type ReceiptDraft struct {
	PriceReported decimal.Decimal
	PriceComputed decimal.Decimal
	// Tolerance overrides DefaultReconcileTolerance when non-zero.
	Tolerance  decimal.Decimal
	Date       string
	Items      []DraftEntry
	Reconciled bool
}

// Recompute refreshes the computed total and the reconciled flag.
// It must run after every change to Items or PriceReported.
func (d *ReceiptDraft) Recompute() {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.Price)
	}
	d.PriceComputed = total

	tolerance := d.Tolerance
	if tolerance.IsZero() {
		tolerance = DefaultReconcileTolerance
	}
	d.Reconciled = d.PriceReported.Sub(d.PriceComputed).Abs().LessThanOrEqual(tolerance)
}

// RemoveItem deletes the item at index i and recomputes the totals.
// Out of range indexes are ignored.
func (d *ReceiptDraft) RemoveItem(i int) {
	if i < 0 || i >= len(d.Items) {
		return
	}
	d.Items = append(d.Items[:i], d.Items[i+1:]...)
	d.Recompute()
}

// Clone returns a deep copy so callers cannot mutate the session's draft.
func (d ReceiptDraft) Clone() ReceiptDraft {
	clone := d
	if d.Items != nil {
		clone.Items = make([]DraftEntry, len(d.Items))
		copy(clone.Items, d.Items)
	}
	return clone
}
