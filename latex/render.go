package latex

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"
)

//go:embed templates/*.tex
var templateFS embed.FS

var templates = template.Must(template.New("latex").
	Delims("<<", ">>").
	Option("missingkey=error").
	Funcs(template.FuncMap{
		"escape": Escape,
		"join":   joinStrings,
	}).
	ParseFS(templateFS, "templates/*.tex"))

// joinStrings is the "join" template function; the separator comes
// first so the list can be piped in.
func joinStrings(sep string, items []string) string {
	return strings.Join(items, sep)
}

// Render writes a standalone project catalog document to w.
func Render(w io.Writer, doc *Document) error {
	doc.prepare()
	if err := templates.ExecuteTemplate(w, "catalog.tex", doc); err != nil {
		return fmt.Errorf("latex: rendering catalog: %w", err)
	}
	return nil
}

// RenderChapter writes one project catalog as a chapter fragment for
// inclusion in a combined catalog.
func RenderChapter(w io.Writer, doc *Document) error {
	doc.prepare()
	if err := templates.ExecuteTemplate(w, "catalog-part.tex", doc); err != nil {
		return fmt.Errorf("latex: rendering chapter %s: %w", doc.ComponentName, err)
	}
	return nil
}

// RenderSuper writes the combined catalog document that pulls in the
// chapter fragments.
func RenderSuper(w io.Writer, doc *SuperDocument) error {
	if err := templates.ExecuteTemplate(w, "super-catalog.tex", doc); err != nil {
		return fmt.Errorf("latex: rendering combined catalog: %w", err)
	}
	return nil
}

// RenderLabels writes a printable label sheet document to w.
func RenderLabels(w io.Writer, sheet *LabelSheet) error {
	sheet.prepare()
	if err := templates.ExecuteTemplate(w, "labels.tex", sheet); err != nil {
		return fmt.Errorf("latex: rendering label sheet: %w", err)
	}
	return nil
}
