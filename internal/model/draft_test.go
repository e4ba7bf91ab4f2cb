package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestReceiptDraft_Recompute(t *testing.T) {
	tests := []struct {
		name           string
		reported       string
		items          []string
		wantComputed   string
		wantReconciled bool
	}{
		{
			name:           "exact match",
			reported:       "5.59",
			items:          []string{"2.49", "3.10"},
			wantComputed:   "5.59",
			wantReconciled: true,
		},
		{
			name:           "within tolerance",
			reported:       "6.50",
			items:          []string{"2.49", "3.10"},
			wantComputed:   "5.59",
			wantReconciled: true,
		},
		{
			name:           "tolerance boundary is inclusive",
			reported:       "6.59",
			items:          []string{"2.49", "3.10"},
			wantComputed:   "5.59",
			wantReconciled: true,
		},
		{
			name:           "outside tolerance",
			reported:       "9.99",
			items:          []string{"2.49", "3.10"},
			wantComputed:   "5.59",
			wantReconciled: false,
		},
		{
			name:           "empty draft reconciles with zero report",
			reported:       "0",
			wantComputed:   "0",
			wantReconciled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ReceiptDraft{PriceReported: price(tt.reported)}
			for _, p := range tt.items {
				d.Items = append(d.Items, DraftEntry{Product: "x", Price: price(p)})
			}
			d.Recompute()

			assert.True(t, price(tt.wantComputed).Equal(d.PriceComputed), "computed %s", d.PriceComputed)
			assert.Equal(t, tt.wantReconciled, d.Reconciled)
		})
	}
}

func TestReceiptDraft_CustomTolerance(t *testing.T) {
	d := ReceiptDraft{
		PriceReported: price("5.60"),
		Tolerance:     price("0.001"),
		Items:         []DraftEntry{{Product: "Milch", Price: price("5.59")}},
	}
	d.Recompute()
	assert.False(t, d.Reconciled)

	d.PriceReported = price("5.59")
	d.Recompute()
	assert.True(t, d.Reconciled)
}

func TestReceiptDraft_RemoveItem(t *testing.T) {
	d := ReceiptDraft{
		PriceReported: price("5.59"),
		Items: []DraftEntry{
			{Product: "Milch", Price: price("2.49")},
			{Product: "Brot", Price: price("3.10")},
		},
	}
	d.Recompute()
	require.True(t, d.Reconciled)

	d.RemoveItem(5)
	assert.Len(t, d.Items, 2)

	d.RemoveItem(0)
	require.Len(t, d.Items, 1)
	assert.Equal(t, "Brot", d.Items[0].Product)
	assert.True(t, price("3.10").Equal(d.PriceComputed))
	assert.False(t, d.Reconciled)
}

func TestReceiptDraft_Clone(t *testing.T) {
	d := ReceiptDraft{Items: []DraftEntry{{Product: "Milch", Price: price("2.49")}}}
	clone := d.Clone()
	clone.Items[0].Product = "Butter"

	assert.Equal(t, "Milch", d.Items[0].Product)
}

func TestLineTag_String(t *testing.T) {
	assert.Equal(t, "date", TagDate.String())
	assert.Equal(t, "entry", TagEntry.String())
	assert.Equal(t, "sum", TagSum.String())
	assert.Equal(t, "unclassified", TagUnclassified.String())
}
