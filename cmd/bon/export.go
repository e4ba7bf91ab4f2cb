package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/bon-scanner/internal/cli"
	"github.com/Veraticus/bon-scanner/internal/export"
	"github.com/Veraticus/bon-scanner/internal/model"
	"github.com/Veraticus/bon-scanner/internal/service"
)

func exportCmd() *cobra.Command {
	var (
		format string
		output string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export receipts to a spreadsheet",
		Example: `  bon export --output bons.xlsx
  bon export --format csv --output - > bons.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			write, err := exportWriter(format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			receipts, err := store.ListReceipts(ctx, service.ReceiptFilter{IncludeHidden: all})
			if err != nil {
				return err
			}

			if output == "-" {
				return write(cmd.OutOrStdout(), receipts)
			}

			f, err := os.Create(output) //nolint:gosec // path chosen by the user
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := write(f, receipts); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Exported %d receipts to %s", len(receipts), output)))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "xlsx or csv (default: from the output extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "bons.xlsx", "output file, - for stdout")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden receipts")
	return cmd
}

func exportWriter(format string) (func(io.Writer, []model.Receipt) error, error) {
	switch strings.ToLower(format) {
	case "xlsx":
		return export.WriteXLSX, nil
	case "csv":
		return export.WriteCSV, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (use xlsx or csv)", format)
	}
}
