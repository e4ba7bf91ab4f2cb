package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SummaryTotalLabel labels the grand total row of a receipt summary.
const SummaryTotalLabel = "total"

// Receipt is a committed receipt ("Bon").
type Receipt struct {
	Price   decimal.Decimal
	Date    string
	Entries []ReceiptEntry
	ID      int64
	Hidden  bool
}

// ReceiptEntry is a committed line item of a receipt.
type ReceiptEntry struct {
	Category string
	Product  string
	Price    decimal.Decimal
}

// CategorySummary is the total spent on one category.
type CategorySummary struct {
	Category string
	Total    decimal.Decimal
}

// ComputedTotal sums the prices of all entries.
func (r Receipt) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.Entries {
		total = total.Add(e.Price)
	}
	return total
}

// Summarize groups the receipt's entries by category, sorted by category name,
// followed by a final row labelled SummaryTotalLabel.
func Summarize(r Receipt) []CategorySummary {
	totals := make(map[string]decimal.Decimal)
	for _, e := range r.Entries {
		totals[e.Category] = totals[e.Category].Add(e.Price)
	}

	summary := make([]CategorySummary, 0, len(totals)+1)
	for category, total := range totals {
		summary = append(summary, CategorySummary{Category: category, Total: total})
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].Category < summary[j].Category
	})

	summary = append(summary, CategorySummary{
		Category: SummaryTotalLabel,
		Total:    r.ComputedTotal(),
	})
	return summary
}

// SummarizeAll aggregates category totals across many receipts, sorted by category name.
func SummarizeAll(receipts []Receipt) []CategorySummary {
	totals := make(map[string]decimal.Decimal)
	for _, r := range receipts {
		for _, e := range r.Entries {
			totals[e.Category] = totals[e.Category].Add(e.Price)
		}
	}

	summary := make([]CategorySummary, 0, len(totals))
	for category, total := range totals {
		summary = append(summary, CategorySummary{Category: category, Total: total})
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].Category < summary[j].Category
	})
	return summary
}
