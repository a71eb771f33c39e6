package catalog

import "fmt"

// DerivedRule adds a computed parameter: its declaration plus the
// arithmetic expression evaluated over the other values.
type DerivedRule struct {
	Name       string
	Title      string
	Unit       string
	Expression string
}

// Recommendation is one print-settings line shown in the catalog,
// e.g. "Nozzle Size: 0.4 mm". Key is the configuration key the line
// was read from.
type Recommendation struct {
	Key   string
	Title string
	Value string
}

// Rules are the per-project formatting rules, independent of the
// configuration format they were read from: which parameters order
// and group the models, how values render, and what extra parameters
// to compute.
type Rules struct {
	// Title of the document; falls back to the component name.
	Title string

	// ParameterOrder sorts models and selects the parameters that
	// get value sets and grouped tables. Required.
	ParameterOrder []string

	// PrimaryGroup holds one or two parameter names whose value
	// combinations partition the catalog into sections. Required.
	PrimaryGroup []string

	// TitleImage is a path relative to the project directory when it
	// ends in an image extension, otherwise a part ID whose render is
	// used. Required.
	TitleImage string

	// TableColumns is the column count for the model image grid.
	TableColumns int

	// DerivedFlags names parameters that keep their data-file value
	// but are excluded from grouped tables.
	DerivedFlags []string

	// Derived adds computed parameters.
	Derived []DerivedRule

	// Formats maps parameter names to format expressions.
	Formats map[string]string

	// Recommendations are rendered in the given order.
	Recommendations []Recommendation

	// QRBaseURL enables per-model QR codes linking to
	// "<QRBaseURL><part id>". Empty disables them.
	QRBaseURL string
}

// Validate checks the rule fields that do not depend on the data file.
func (r *Rules) Validate() error {
	if len(r.ParameterOrder) == 0 {
		return fmt.Errorf("%w: parameter_order is missing", ErrBadConfig)
	}
	if len(r.PrimaryGroup) < 1 || len(r.PrimaryGroup) > 2 {
		return fmt.Errorf("%w: got %d", ErrPrimaryGroup, len(r.PrimaryGroup))
	}
	if r.TitleImage == "" {
		return fmt.Errorf("%w: title_image is missing", ErrBadConfig)
	}
	if r.TableColumns < 1 {
		return fmt.Errorf("%w: table_columns must be at least 1", ErrBadConfig)
	}
	return nil
}
