package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/bon-scanner/internal/catalog"
	"github.com/Veraticus/bon-scanner/internal/cli"
	"github.com/Veraticus/bon-scanner/internal/engine"
	"github.com/Veraticus/bon-scanner/internal/model"
	"github.com/Veraticus/bon-scanner/internal/ocr"
	"github.com/Veraticus/bon-scanner/internal/ocrtext"
)

// sumKeyword marks the total line on German receipts.
const sumKeyword = "SUMME"

type scanResult struct {
	err   error
	file  string
	lines []model.OcrLine
	draft model.ReceiptDraft
}

func scanCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Preview OCR results for new receipt images",
		Long: `Recognize every unprocessed image in the import folder and print the
classified lines and the draft they convert to. Nothing is saved; use the
interactive workflow to correct and store a receipt.`,
		Example: `  # Preview every new image
  bon scan

  # Preview a single file from the import folder
  bon scan --file IMG_2041.jpg`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "scan only this file from the import folder")
	return cmd
}

func runScan(ctx context.Context, out, errOut io.Writer, file string) error {
	handler := cli.NewInterruptHandler(errOut)
	ctx, stop := handler.HandleInterrupts(ctx, "Nothing was saved.")
	defer stop()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	dir := newImportDirectory(store)
	files := []string{file}
	if file == "" {
		files, err = dir.List(ctx)
		if err != nil {
			return err
		}
	}
	if len(files) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No new images in "+dir.Root()))
		return nil
	}

	recognizer, err := ocr.NewEngine(settings.OCR)
	if err != nil {
		return err
	}
	defer func() {
		if err := recognizer.Close(); err != nil {
			slog.Warn("Failed to close OCR engine", "error", err)
		}
	}()

	eng := newEngine()
	snapshot, err := eng.Snapshot(ctx, store)
	if err != nil {
		return err
	}
	blacklist, err := store.ListBlacklist(ctx)
	if err != nil {
		return fmt.Errorf("failed to load blacklist: %w", err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(errOut),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Scanning receipts...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(errOut)
		}),
	)

	results := make([]scanResult, 0, len(files))
	for _, name := range files {
		if ctx.Err() != nil {
			break
		}
		results = append(results, scanFile(ctx, recognizer, eng, snapshot, blacklist, dir.Path(name), name))
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	for _, r := range results {
		fmt.Fprintln(out, renderScanResult(r))
	}

	if handler.WasInterrupted() {
		return ctx.Err()
	}
	return nil
}

func scanFile(ctx context.Context, recognizer ocr.Engine, eng *engine.Engine, snapshot catalog.Snapshot, blacklist []string, path, name string) scanResult {
	ctx, cancel := context.WithTimeout(ctx, settings.OCR.Timeout)
	defer cancel()

	text, err := recognizer.Recognize(ctx, path)
	if err != nil {
		return scanResult{file: name, err: err}
	}

	lines := guessTags(ocrtext.Classify(text, blacklist))
	return scanResult{
		file:  name,
		lines: lines,
		draft: eng.Convert(lines, snapshot),
	}
}

// guessTags marks the first line holding a date and the last line holding the
// sum keyword, which is what the user usually does by hand.
func guessTags(lines []model.OcrLine) []model.OcrLine {
	dateFound := false
	sumIndex := -1
	for i, line := range lines {
		if !dateFound {
			if _, ok := ocrtext.ExtractDate(line.Text); ok {
				lines[i].Tag = model.TagDate
				dateFound = true
				continue
			}
		}
		if strings.Contains(strings.ToUpper(line.Text), sumKeyword) {
			sumIndex = i
		}
	}
	if sumIndex >= 0 {
		lines[sumIndex].Tag = model.TagSum
	}
	return lines
}

func renderScanResult(r scanResult) string {
	if r.err != nil {
		return cli.RenderBox(r.file, cli.FormatError(r.err.Error()))
	}

	var b strings.Builder
	for _, line := range r.lines {
		tag := ""
		if line.Tag == model.TagDate || line.Tag == model.TagSum {
			tag = cli.SubtleStyle.Render(" [" + line.Tag.String() + "]")
		}
		b.WriteString(line.Text + tag + "\n")
	}

	rows := make([][]string, 0, len(r.draft.Items))
	for _, item := range r.draft.Items {
		rows = append(rows, []string{item.Product, valueOr(item.Category, "-"), item.Price.StringFixed(2)})
	}
	b.WriteString(cli.RenderTable([]string{"Product", "Category", "Price"}, rows))
	b.WriteString("\n")

	totals := fmt.Sprintf("Date %s  Total %s  Items %s",
		valueOr(r.draft.Date, "-"),
		r.draft.PriceReported.StringFixed(2),
		r.draft.PriceComputed.StringFixed(2))
	if r.draft.Reconciled {
		b.WriteString(cli.FormatSuccess(totals))
	} else {
		b.WriteString(cli.FormatWarning(totals))
	}

	return cli.RenderBox(r.file, b.String())
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
