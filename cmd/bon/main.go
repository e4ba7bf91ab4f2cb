package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/bon-scanner/internal/common"
	"github.com/Veraticus/bon-scanner/internal/config"
)

var (
	cfgFile  string
	version  = "dev"
	settings config.Settings
	logFile  *os.File
	rootCmd  = &cobra.Command{
		Use:   "bon",
		Short: "🧾 Receipt scanner and spending tracker",
		Long: `bon turns photos of supermarket receipts into categorized records.

Run without arguments to open the interactive workflow: pick a photo from the
import folder, correct the recognized lines, assign categories and save.`,
		PersistentPreRunE:  initConfig,
		PersistentPostRunE: closeLogging,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context())
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/bon/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("database", "", "path to the SQLite database")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(receiptsCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(blacklistCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(backupCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		if !common.IsUserVisible(err) {
			common.LogError(err, "command failed", common.Fields{"args": os.Args[1:]})
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if err := readConfig(viper.GetViper()); err != nil {
		return err
	}

	loaded, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	settings = loaded

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	slog.Debug("configuration loaded",
		"config", viper.ConfigFileUsed(),
		"database", settings.DatabasePath,
		"import_path", settings.ImportPath,
		"ocr_engine", settings.OCR.Engine)
	return nil
}

// readConfig looks for the config file in the standard locations, then for
// the legacy ~/.bon-scanner.toml. A missing file is not an error.
func readConfig(v *viper.Viper) error {
	v.SetEnvPrefix("BON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	v.AddConfigPath(config.ConfigDir(home))
	v.AddConfigPath(".")
	v.SetConfigName("config")

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		return nil
	case !errors.As(err, &notFound):
		return fmt.Errorf("failed to read config: %w", err)
	}

	legacy := config.LegacyConfigFile(home)
	if _, statErr := os.Stat(legacy); statErr != nil {
		return nil
	}
	v.SetConfigFile(legacy)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read legacy config %s: %w", legacy, err)
	}
	return nil
}

func setupLogging() error {
	var w io.Writer = os.Stderr
	if settings.Logging.File != "" {
		f, err := openLogFile(settings.Logging.File)
		if err != nil {
			return err
		}
		logFile = f
		w = f
	}

	common.SetupLogger(w, common.ParseLevel(settings.Logging.Level), settings.Logging.Format)
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func closeLogging(_ *cobra.Command, _ []string) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bon %s\n", version)
		},
	}
}
