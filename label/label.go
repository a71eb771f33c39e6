// Package label renders printable part labels. Every model gets a
// machine-readable code: a QR code carrying a link into the model
// documentation, or a PDF417 or Code 128 code carrying the bare part
// ID for box stickers scanned offline.
package label

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
	"github.com/LuckyResistor/3d-model-catalog-generator/latex"
)

// Symbology selects the code on the printed labels.
type Symbology string

const (
	SymbologyQR      Symbology = "qr"
	SymbologyPDF417  Symbology = "pdf417"
	SymbologyCode128 Symbology = "code128"
)

// ParseSymbology validates a symbology name from the command line.
func ParseSymbology(name string) (Symbology, error) {
	switch Symbology(name) {
	case SymbologyQR, SymbologyPDF417, SymbologyCode128:
		return Symbology(name), nil
	default:
		return "", fmt.Errorf("label: unknown symbology %q: %w", name, catalog.ErrBadConfig)
	}
}

// Builder encodes part codes and assembles label sheets.
type Builder struct {
	log       *zap.Logger
	symbology Symbology
	columns   int
	baseURL   string
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger label generation is reported to.
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithSymbology selects the code printed on the labels. The default
// is a QR code.
func WithSymbology(s Symbology) Option {
	return func(b *Builder) {
		if s != "" {
			b.symbology = s
		}
	}
}

// WithColumns sets how many labels share a sheet row.
func WithColumns(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.columns = n
		}
	}
}

// WithBaseURL makes QR codes carry "<base><part id>" instead of the
// bare part ID.
func WithBaseURL(base string) Option {
	return func(b *Builder) {
		b.baseURL = base
	}
}

// NewBuilder creates a Builder using functional options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		log:       zap.NewNop(),
		symbology: SymbologyQR,
		columns:   3,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// content returns what a part's code encodes.
func (b *Builder) content(partID string) string {
	if b.baseURL != "" && b.symbology == SymbologyQR {
		return b.baseURL + partID
	}
	return partID
}

// BuildSheet encodes one code image per model into dir and assembles
// the label sheet document referencing them.
func (b *Builder) BuildSheet(res *catalog.Result, dir string) (*latex.LabelSheet, error) {
	sheet := &latex.LabelSheet{
		Title:   res.Title,
		Columns: b.columns,
	}
	for _, model := range res.Models {
		fileName, err := b.WriteCode(dir, model.PartID)
		if err != nil {
			return nil, err
		}
		sheet.Labels = append(sheet.Labels, latex.Label{
			Title:      model.Title,
			PartID:     model.PartID,
			Dimensions: dimensions(res, model),
			Barcode:    fileName,
		})
	}
	b.log.Info("label sheet assembled",
		zap.String("component", res.ComponentName),
		zap.Int("labels", len(sheet.Labels)))
	return sheet, nil
}

// dimensions builds the size line of a label, e.g. "60 x 120 x 44 mm".
// Models without the full size triple get no size line.
func dimensions(res *catalog.Result, model *catalog.Model) string {
	parts := make([]string, 0, 3)
	unit := ""
	for _, name := range []string{"width", "depth", "height"} {
		value, ok := model.Value(name)
		if !ok {
			return ""
		}
		parts = append(parts, value.String())
		if unit == "" {
			if p := res.Parameter(name); p != nil {
				unit = p.Unit
			}
		}
	}
	line := strings.Join(parts, " x ")
	if unit != "" {
		line += " " + unit
	}
	return line
}
