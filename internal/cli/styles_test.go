package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		format func(string) string
		name   string
		icon   string
	}{
		{name: "success", format: FormatSuccess, icon: SuccessIcon},
		{name: "error", format: FormatError, icon: ErrorIcon},
		{name: "warning", format: FormatWarning, icon: WarningIcon},
		{name: "info", format: FormatInfo, icon: InfoIcon},
		{name: "title", format: FormatTitle, icon: ReceiptIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format("saved")
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "saved")
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"ID", "Date", "Total"},
		[][]string{{"1", "2024-12-24", "5.59"}, {"2", "2024-12-23", "2.49"}},
	)

	assert.Contains(t, out, "Date")
	assert.Contains(t, out, "2024-12-24")
	assert.Contains(t, out, "2.49")
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Summary", "Dairy 2.49")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Dairy 2.49")
}
