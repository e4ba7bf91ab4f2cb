package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bon-scanner/internal/common"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	s, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".bon-scanner.sqlite"), s.DatabasePath)
	assert.Equal(t, filepath.Join(home, "Pictures"), s.ImportPath)
	assert.Equal(t, filepath.Join(home, ".local/state/bon/bon.log"), s.TUILogFile)
	assert.Equal(t, EngineTesseract, s.OCR.Engine)
	assert.Equal(t, 2*time.Minute, s.OCR.Timeout)
	assert.Equal(t, TesseractSettings{
		Binary:    "tesseract",
		Language:  "deu",
		DPI:       150,
		PSM:       6,
		OEM:       3,
		Whitelist: DefaultWhitelist,
	}, s.OCR.Tesseract)
	assert.Equal(t, "gemini-2.5-flash", s.OCR.Gemini.Model)
	assert.Equal(t, "gpt-4o", s.OCR.OpenAI.Model)
	assert.Equal(t, 4, s.MatchThreshold)
	assert.Equal(t, "1", s.ReconcileTolerance.String())
	assert.Equal(t, "info", s.Logging.Level)
	assert.Equal(t, "console", s.Logging.Format)
	assert.Equal(t, "default", s.Theme)
}

func TestLoadLegacyFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, ".bon-scanner.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
import_path = "~/scans"
database = "/data/bons.sqlite"
`), 0600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "scans"), s.ImportPath)
	assert.Equal(t, "/data/bons.sqlite", s.DatabasePath)
}

func TestLoadNestedKeysWin(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BON_TEST_DIR", "/srv/bon")

	v := viper.New()
	v.Set("import_path", "/legacy")
	v.Set("import.path", "$BON_TEST_DIR/inbox")
	v.Set("ocr.engine", "openai")
	v.Set("ocr.openai.api_key", "sk-test")
	v.Set("ocr.timeout", "30s")
	v.Set("reconcile.tolerance", 0.5)

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/srv/bon/inbox", s.ImportPath)
	assert.Equal(t, EngineOpenAI, s.OCR.Engine)
	assert.Equal(t, "sk-test", s.OCR.OpenAI.APIKey)
	assert.Equal(t, 30*time.Second, s.OCR.Timeout)
	assert.Equal(t, "0.5", s.ReconcileTolerance.String())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{key: "ocr.engine", value: "abbyy"},
		{key: "ocr.timeout", value: "0s"},
		{key: "matching.threshold", value: 0},
		{key: "reconcile.tolerance", value: "lots"},
		{key: "reconcile.tolerance", value: "-1"},
		{key: "logging.format", value: "xml"},
		{key: "logging.level", value: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			v := viper.New()
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BON_DATA", "/var/lib/bon")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "bons"), ExpandPath("~/bons"))
	assert.Equal(t, "/var/lib/bon/db.sqlite", ExpandPath("$BON_DATA/db.sqlite"))
}

func TestConfigLocations(t *testing.T) {
	assert.Equal(t, filepath.Join("/home/anna", ".config", "bon"), ConfigDir("/home/anna"))
	assert.Equal(t, filepath.Join("/home/anna", ".bon-scanner.toml"), LegacyConfigFile("/home/anna"))
}
