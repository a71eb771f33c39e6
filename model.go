package catalog

import "sort"

// Model is one concrete variant after processing: parsed and derived
// values, their formatted renderings, and the resolved file locations
// the document will reference.
type Model struct {
	PartID string
	Title  string

	// File names as listed in the data file.
	ModelFiles []string
	ImageFiles []string

	// ImagePaths are the converted renders, relative to the
	// intermediate directory the document is typeset in.
	ImagePaths []string

	// QRImage is the rendered QR code for this model, when enabled.
	QRImage string

	Values    map[string]Value
	Formatted map[string]string
}

// FormattedValue returns the formatted rendering of the named
// parameter, or the empty string when the model has no such value.
func (m *Model) FormattedValue(name string) string {
	return m.Formatted[name]
}

// Value returns the parsed value of the named parameter.
func (m *Model) Value(name string) (Value, bool) {
	v, ok := m.Values[name]
	return v, ok
}

// SortModels orders models by the values of the named parameters,
// compared left to right. Models missing a value sort first. The sort
// is stable, so equal models keep their data-file order.
func SortModels(models []*Model, order []string) {
	sort.SliceStable(models, func(i, j int) bool {
		a, b := models[i], models[j]
		for _, name := range order {
			av, aok := a.Values[name]
			bv, bok := b.Values[name]
			switch {
			case !aok && !bok:
				continue
			case !aok:
				return true
			case !bok:
				return false
			}
			if c := av.Compare(bv); c != 0 {
				return c < 0
			}
		}
		return false
	})
}
