package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Veraticus/bon-scanner/internal/common"
)

// Supported OCR engines.
const (
	EngineTesseract = "tesseract"
	EngineGemini    = "gemini"
	EngineOpenAI    = "openai"
)

// DefaultWhitelist limits tesseract to the characters found on German receipts.
const DefaultWhitelist = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZöäüÖÄÜß1234567890., &-%$@€:"

// Settings is the resolved application configuration.
type Settings struct {
	ReconcileTolerance decimal.Decimal
	DatabasePath       string
	ImportPath         string
	TUILogFile         string
	Theme              string
	Logging            LoggingSettings
	OCR                OCRSettings
	MatchThreshold     int
}

// LoggingSettings controls the slog handler.
type LoggingSettings struct {
	Level  string
	Format string
	File   string
}

// OCRSettings selects and configures the recognition engine.
type OCRSettings struct {
	Engine    string
	Gemini    GeminiSettings
	OpenAI    OpenAISettings
	Tesseract TesseractSettings
	Timeout   time.Duration
}

// TesseractSettings are passed to the tesseract command line.
type TesseractSettings struct {
	Binary    string
	Language  string
	Whitelist string
	DPI       int
	PSM       int
	OEM       int
}

// GeminiSettings configures the Gemini vision engine.
type GeminiSettings struct {
	APIKey string
	Model  string
}

// OpenAISettings configures the OpenAI vision engine.
type OpenAISettings struct {
	APIKey  string
	Model   string
	BaseURL string
}

// SetDefaults registers the default value of every key except the two paths,
// which fall back to the legacy top level keys first.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ocr.engine", EngineTesseract)
	v.SetDefault("ocr.timeout", 2*time.Minute)
	v.SetDefault("ocr.tesseract.binary", "tesseract")
	v.SetDefault("ocr.tesseract.language", "deu")
	v.SetDefault("ocr.tesseract.dpi", 150)
	v.SetDefault("ocr.tesseract.psm", 6)
	v.SetDefault("ocr.tesseract.oem", 3)
	v.SetDefault("ocr.tesseract.whitelist", DefaultWhitelist)
	v.SetDefault("ocr.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ocr.openai.model", "gpt-4o")
	v.SetDefault("matching.threshold", 4)
	v.SetDefault("reconcile.tolerance", "1.0")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("tui.log_file", "~/.local/state/bon/bon.log")
	v.SetDefault("tui.theme", "default")
}

// Load resolves settings from v, applying defaults and validating values.
func Load(v *viper.Viper) (Settings, error) {
	SetDefaults(v)

	home, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	s := Settings{
		DatabasePath: firstNonEmpty(
			v.GetString("database.path"),
			legacyString(v, "database"),
			filepath.Join(home, ".bon-scanner.sqlite"),
		),
		ImportPath: firstNonEmpty(
			v.GetString("import.path"),
			legacyString(v, "import_path"),
			filepath.Join(home, "Pictures"),
		),
		TUILogFile: v.GetString("tui.log_file"),
		Theme:      v.GetString("tui.theme"),
		Logging: LoggingSettings{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   v.GetString("logging.file"),
		},
		OCR: OCRSettings{
			Engine:  v.GetString("ocr.engine"),
			Timeout: v.GetDuration("ocr.timeout"),
			Tesseract: TesseractSettings{
				Binary:    v.GetString("ocr.tesseract.binary"),
				Language:  v.GetString("ocr.tesseract.language"),
				DPI:       v.GetInt("ocr.tesseract.dpi"),
				PSM:       v.GetInt("ocr.tesseract.psm"),
				OEM:       v.GetInt("ocr.tesseract.oem"),
				Whitelist: v.GetString("ocr.tesseract.whitelist"),
			},
			Gemini: GeminiSettings{
				APIKey: firstNonEmpty(v.GetString("ocr.gemini.api_key"), os.Getenv("GEMINI_API_KEY")),
				Model:  v.GetString("ocr.gemini.model"),
			},
			OpenAI: OpenAISettings{
				APIKey:  firstNonEmpty(v.GetString("ocr.openai.api_key"), os.Getenv("OPENAI_API_KEY")),
				Model:   v.GetString("ocr.openai.model"),
				BaseURL: v.GetString("ocr.openai.base_url"),
			},
		},
		MatchThreshold: v.GetInt("matching.threshold"),
	}

	s.DatabasePath = ExpandPath(s.DatabasePath)
	s.ImportPath = ExpandPath(s.ImportPath)
	s.TUILogFile = ExpandPath(s.TUILogFile)
	s.Logging.File = ExpandPath(s.Logging.File)

	tolerance, err := decimal.NewFromString(v.GetString("reconcile.tolerance"))
	if err != nil {
		return Settings{}, fmt.Errorf("%w: reconcile.tolerance: %v", common.ErrInvalidConfig, err)
	}
	s.ReconcileTolerance = tolerance

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Validate checks settings that cannot be corrected silently.
func (s Settings) Validate() error {
	switch s.OCR.Engine {
	case EngineTesseract:
	case EngineGemini, EngineOpenAI:
		// API keys are checked when the engine is built so that commands
		// which never run OCR keep working without one.
	default:
		return fmt.Errorf("%w: unknown ocr.engine %q", common.ErrInvalidConfig, s.OCR.Engine)
	}

	if s.OCR.Timeout <= 0 {
		return fmt.Errorf("%w: ocr.timeout must be positive", common.ErrInvalidConfig)
	}
	if s.MatchThreshold <= 0 {
		return fmt.Errorf("%w: matching.threshold must be positive", common.ErrInvalidConfig)
	}
	if s.ReconcileTolerance.IsNegative() {
		return fmt.Errorf("%w: reconcile.tolerance cannot be negative", common.ErrInvalidConfig)
	}

	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: invalid log format %q", common.ErrInvalidConfig, s.Logging.Format)
	}

	switch s.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid log level %q", common.ErrInvalidConfig, s.Logging.Level)
	}

	return nil
}

// legacyString reads a flat key of the old ~/.bon-scanner.toml layout.
func legacyString(v *viper.Viper, key string) string {
	if s, ok := v.Get(key).(string); ok {
		return s
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
