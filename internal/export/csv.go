package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Veraticus/bon-scanner/internal/model"
)

// WriteCSV writes one row per receipt entry with the columns of the Entries sheet.
func WriteCSV(w io.Writer, receipts []model.Receipt) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(entryHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range receipts {
		for _, e := range r.Entries {
			record := []string{
				strconv.FormatInt(r.ID, 10),
				r.Date,
				e.Category,
				e.Product,
				e.Price.StringFixed(2),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write entry of receipt %d: %w", r.ID, err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
