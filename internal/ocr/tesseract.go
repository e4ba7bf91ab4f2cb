package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/bon-scanner/internal/config"
)

// Tesseract runs the tesseract command line tool.
type Tesseract struct {
	cfg config.TesseractSettings
}

// NewTesseract creates a tesseract engine. The binary must be on PATH or given as a path.
func NewTesseract(cfg config.TesseractSettings) (*Tesseract, error) {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "deu"
	}

	if _, err := exec.LookPath(cfg.Binary); err != nil {
		return nil, fmt.Errorf("tesseract binary %q not found: %w", cfg.Binary, err)
	}

	return &Tesseract{cfg: cfg}, nil
}

// Name identifies the engine in logs.
func (t *Tesseract) Name() string {
	return "tesseract"
}

// Close is a no-op; each recognition runs its own process.
func (t *Tesseract) Close() error {
	return nil
}

// Recognize runs tesseract on imagePath. Formats tesseract cannot read are
// converted to a temporary PNG first.
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	input := imagePath

	data, contentType, err := loadImage(imagePath)
	if err != nil {
		return "", err
	}

	if contentType != mimePNG && contentType != mimeJPEG {
		converted, err := toPNG(data, contentType)
		if err != nil {
			return "", err
		}

		tmp, err := os.CreateTemp("", "bon-*.png")
		if err != nil {
			return "", fmt.Errorf("creating temporary image: %w", err)
		}
		defer func() { _ = os.Remove(tmp.Name()) }()

		if _, err := tmp.Write(converted); err != nil {
			_ = tmp.Close()
			return "", fmt.Errorf("writing temporary image: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return "", fmt.Errorf("closing temporary image: %w", err)
		}
		input = tmp.Name()
		slog.Debug("converted image for tesseract", "from", contentType, "path", input)
	}

	// #nosec G204 - binary and arguments come from the user's own configuration
	cmd := exec.CommandContext(ctx, t.cfg.Binary, t.args(input)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 2 * time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

func (t *Tesseract) args(input string) []string {
	args := []string{input, "stdout", "-l", t.cfg.Language}
	if t.cfg.DPI > 0 {
		args = append(args, "--dpi", strconv.Itoa(t.cfg.DPI))
	}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM >= 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	if t.cfg.Whitelist != "" {
		args = append(args, "-c", "tessedit_char_whitelist="+t.cfg.Whitelist)
	}
	return args
}
