// Package latex renders catalog data into LaTeX documents.
//
// It fills embedded templates with a declarative document model; the
// typesetting itself stays with pdflatex. Templates use "<<" and ">>"
// as action delimiters so that ordinary LaTeX braces pass through
// untouched.
package latex

import (
	"strconv"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
	"github.com/LuckyResistor/3d-model-catalog-generator/table"
)

// Document is the template input for one project catalog: the title
// block, the print recommendations, the model sections and the grouped
// tables. All file paths are relative to the directory pdflatex runs
// in, usually the intermediate directory.
type Document struct {
	Title         string
	ComponentName string

	// Label names the chapter anchor in a combined catalog. It goes
	// into \label unescaped and must stay plain letters, digits and
	// dashes.
	Label string

	// TitleImage is shown on the title page, and on the chapter page
	// in a combined catalog. Optional.
	TitleImage string

	// TableColumns is the number of models shown side by side in a
	// model section.
	TableColumns int

	Recommendations []catalog.Recommendation
	ModelGroups     []ModelGroup
	TableGroups     []*table.Group

	// MinipageWidth is computed from TableColumns during rendering.
	MinipageWidth string
}

// ModelGroup is one catalog section and the models it shows.
type ModelGroup struct {
	Title  string
	Models []ModelEntry

	// Rows holds the models chunked into rows of TableColumns
	// entries; computed during rendering.
	Rows [][]ModelEntry
}

// ModelEntry is one model cell in a section grid.
type ModelEntry struct {
	PartID string
	Title  string

	// Image is the model render shown in the cell. Optional.
	Image string

	// ModelFiles are the printable file names listed under the cell.
	ModelFiles []string

	// QRImage is an optional QR code image linking to the model.
	QRImage string

	// Attributes are the formatted parameter values in display order.
	Attributes []Attribute
}

// Attribute is one formatted parameter line of a model cell.
type Attribute struct {
	Title string
	Value string
}

// SuperDocument is the template input for a combined catalog that
// pulls in several project catalogs as chapters.
type SuperDocument struct {
	Title      string
	TitleImage string
	Chapters   []Chapter
}

// Chapter is one project catalog included in a combined catalog.
type Chapter struct {
	Title      string
	Label      string
	TitleImage string

	// FileName is the chapter .tex file, relative to the combined
	// document, referenced via \input.
	FileName string
}

// LabelSheet is the template input for a printable sheet of model
// labels.
type LabelSheet struct {
	Title   string
	Columns int
	Labels  []Label

	// Rows and MinipageWidth are computed during rendering.
	Rows          [][]Label
	MinipageWidth string
}

// Label is one physical label: the model name, its part ID, the key
// dimensions and a barcode image.
type Label struct {
	Title      string
	PartID     string
	Dimensions string
	Barcode    string
}

func (d *Document) prepare() {
	cols := d.TableColumns
	if cols < 1 {
		cols = 1
	}
	d.MinipageWidth = minipageWidth(cols)
	for i := range d.ModelGroups {
		d.ModelGroups[i].Rows = chunkModels(d.ModelGroups[i].Models, cols)
	}
}

func (s *LabelSheet) prepare() {
	cols := s.Columns
	if cols < 1 {
		cols = 1
	}
	s.MinipageWidth = minipageWidth(cols)
	s.Rows = chunkLabels(s.Labels, cols)
}

// minipageWidth returns the minipage width as a fraction of the text
// width, leaving a little slack for the column gaps.
func minipageWidth(cols int) string {
	w := 1.0/float64(cols) - 0.04
	return strconv.FormatFloat(w, 'f', 2, 64)
}

func chunkModels(models []ModelEntry, cols int) [][]ModelEntry {
	var rows [][]ModelEntry
	for start := 0; start < len(models); start += cols {
		end := start + cols
		if end > len(models) {
			end = len(models)
		}
		rows = append(rows, models[start:end])
	}
	return rows
}

func chunkLabels(labels []Label, cols int) [][]Label {
	var rows [][]Label
	for start := 0; start < len(labels); start += cols {
		end := start + cols
		if end > len(labels) {
			end = len(labels)
		}
		rows = append(rows, labels[start:end])
	}
	return rows
}
