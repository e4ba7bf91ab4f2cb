package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// Content types every engine can read directly.
const (
	mimePNG  = "image/png"
	mimeJPEG = "image/jpeg"
	mimeHEIC = "image/heic"
	mimeHEIF = "image/heif"
	mimePDF  = "application/pdf"
)

// loadImage reads path and returns its bytes together with the sniffed content type.
func loadImage(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the import directory listing
	if err != nil {
		return nil, "", fmt.Errorf("reading image: %w", err)
	}
	return data, mimetype.Detect(data).String(), nil
}

// toPNG converts HEIC, PDF and other decodable images to PNG. PNG input is returned as is.
func toPNG(data []byte, contentType string) ([]byte, error) {
	var (
		img image.Image
		err error
	)

	switch contentType {
	case mimePNG:
		return data, nil
	case mimePDF:
		img, err = pdfFirstPage(data)
	case mimeHEIC, mimeHEIF:
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			err = fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	default:
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			err = fmt.Errorf("unsupported image format %s: %w", contentType, err)
		}
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfFirstPage renders the first page of a scanned receipt.
func pdfFirstPage(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer func() { _ = doc.Close() }()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return img, nil
}
