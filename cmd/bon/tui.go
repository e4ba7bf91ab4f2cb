package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/bon-scanner/internal/common"
	"github.com/Veraticus/bon-scanner/internal/ocr"
	"github.com/Veraticus/bon-scanner/internal/tui"
	"github.com/Veraticus/bon-scanner/internal/tui/themes"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive receipt workflow",
		Long: `Browse saved receipts and import new ones.

Keys are shown at the bottom of every screen; press ? for the full list.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context())
		},
	}
}

func runTUI(ctx context.Context) error {
	// Log records would tear the alternate screen, so the TUI always logs to a file.
	if settings.TUILogFile != "" && logFile == nil {
		f, err := openLogFile(settings.TUILogFile)
		if err != nil {
			return err
		}
		logFile = f
		common.SetupLogger(f, common.ParseLevel(settings.Logging.Level), settings.Logging.Format)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	engine, err := ocr.NewEngine(settings.OCR)
	if err != nil {
		return common.NewUserError("OCR engine is not available, check the ocr section of your config", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			slog.Warn("Failed to close OCR engine", "error", err)
		}
	}()

	slog.Info("starting tui", "database", settings.DatabasePath, "import_path", settings.ImportPath, "ocr_engine", engine.Name())

	if err := tui.Run(ctx,
		tui.WithStorage(store),
		tui.WithImports(newImportDirectory(store)),
		tui.WithOCR(engine),
		tui.WithEngine(newEngine()),
		tui.WithOcrTimeout(settings.OCR.Timeout),
		tui.WithTheme(themes.ByName(settings.Theme)),
	); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
