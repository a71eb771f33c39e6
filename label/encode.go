package label

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	"github.com/ruudk/golang-pdf417"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
)

// Rendered code sizes in pixels. The printed size is set by the sheet
// layout; these only fix the raster resolution.
const (
	qrCodeSize    = 256
	barCodeWidth  = 512
	barCodeHeight = 128
)

// PDF417 layout: data columns and error correction level.
const (
	pdf417Columns  = 4
	pdf417Security = 2
)

// CodeFileName returns the image file name of a part's code.
func CodeFileName(partID string) string {
	return partID + "-code.png"
}

// WriteCode encodes the part's code image into dir and returns the
// file name. An existing image is kept, the encodings are
// deterministic.
func (b *Builder) WriteCode(dir, partID string) (string, error) {
	fileName := CodeFileName(partID)
	path := filepath.Join(dir, fileName)
	if _, err := os.Stat(path); err == nil {
		return fileName, nil
	}
	img, err := b.codeImage(b.content(partID))
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("label: creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("label: encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("label: writing %s: %w", path, err)
	}
	return fileName, nil
}

// codeImage encodes content in the configured symbology.
func (b *Builder) codeImage(content string) (image.Image, error) {
	switch b.symbology {
	case SymbologyQR:
		code, err := qr.Encode(content, qr.M, qr.Auto)
		if err != nil {
			return nil, fmt.Errorf("label: encoding %q: %w", content, err)
		}
		scaled, err := barcode.Scale(code, qrCodeSize, qrCodeSize)
		if err != nil {
			return nil, fmt.Errorf("label: scaling code for %q: %w", content, err)
		}
		return scaled, nil
	case SymbologyCode128:
		code, err := code128.Encode(content)
		if err != nil {
			return nil, fmt.Errorf("label: encoding %q: %w", content, err)
		}
		scaled, err := barcode.Scale(code, barCodeWidth, barCodeHeight)
		if err != nil {
			return nil, fmt.Errorf("label: scaling code for %q: %w", content, err)
		}
		return scaled, nil
	case SymbologyPDF417:
		// The PDF417 encoder scales poorly after the fact; the sheet
		// layout sizes the raw image instead.
		return pdf417.Encode(content, pdf417Columns, pdf417Security), nil
	default:
		return nil, fmt.Errorf("label: unknown symbology %q: %w", b.symbology, catalog.ErrBadConfig)
	}
}
