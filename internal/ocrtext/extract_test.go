package ocrtext

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{line: "Rechnung 24.12.2024 Danke", want: "24.12.2024", wantOK: true},
		{line: "24,12,2024", want: "24,12,2024", wantOK: true},
		{line: "01.02.2024 und 03.04.2025", want: "01.02.2024", wantOK: true},
		{line: "24.12.24", wantOK: false},
		{line: "Milch 2,49", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ExtractDate(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{line: "Milch 2,49", want: "Milch", wantOK: true},
		{line: "Bio Vollmilch 3,5% 1,29", want: "Bio Vollmilch 3,5%", wantOK: true},
		{line: "2,49", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ExtractName(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{line: "Milch 2,49", want: "2.49", wantOK: true},
		{line: "SUMME 12.30", want: "12.3", wantOK: true},
		{line: "2x 1,00 2,00", want: "1", wantOK: true},
		{line: "Milch", wantOK: false},
		{line: "Filiale 12", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ExtractPrice(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-12-24", NormalizeDate("24.12.2024"))
	assert.Equal(t, "2024-12-24", NormalizeDate("24,12,2024"))
	assert.Equal(t, "", NormalizeDate(""))
	assert.Equal(t, "unknown", NormalizeDate("unknown"))
}
