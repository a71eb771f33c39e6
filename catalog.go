// Package catalog turns the declared parameters of 3D-printable model
// variants into the grouped and formatted data a printable catalog is
// built from.
//
// The package is pure data plumbing: it parses raw values, evaluates
// derived-parameter and format expressions, sorts models, collects
// value sets, and partitions the models into catalog sections. Reading
// configuration files, rendering documents and driving external tools
// live in the subpackages.
package catalog

import (
	"fmt"

	"go.uber.org/zap"
)

// Processor computes catalog results from data files and rules.
// Construct it with NewProcessor; the zero value is not usable.
type Processor struct {
	log *zap.Logger
}

// NewProcessor creates a Processor using functional options.
//
// Example:
//
//	p := catalog.NewProcessor(catalog.WithLogger(logger))
//	result, err := p.Process(data, rules)
func NewProcessor(opts ...Option) *Processor {
	cfg := &processorConfig{log: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Processor{log: cfg.log}
}

// Result is everything Process computes: the final parameter list,
// the processed and sorted models, the per-parameter value sets, and
// the primary model groups. Document-level rule fields are carried
// through for the renderer.
type Result struct {
	Title         string
	ComponentName string

	// Parameters in declaration order, derived parameters appended.
	Parameters []*Parameter

	// ParameterOrder as configured, restricted to what sorts and
	// groups the models.
	ParameterOrder []string

	Models    []*Model
	ValueSets map[string]*ValueSet
	Groups    []*ModelGroup

	TableColumns    int
	Recommendations []Recommendation
}

// Parameter returns the named parameter, or nil.
func (r *Result) Parameter(name string) *Parameter {
	for _, p := range r.Parameters {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Process applies the rules to the data file content: values are
// parsed, derived parameters evaluated, every value formatted, models
// sorted by the parameter order and grouped by the primary parameters.
func (p *Processor) Process(data *Data, rules *Rules) (*Result, error) {
	res, err := p.process(data, rules)
	if err != nil {
		return nil, newBuildError("Process", err)
	}
	return res, nil
}

func (p *Processor) process(data *Data, rules *Rules) (*Result, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if len(data.Models) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoModels, data.ComponentName)
	}

	params, byName, err := p.buildParameters(data, rules)
	if err != nil {
		return nil, err
	}
	for _, name := range rules.ParameterOrder {
		if byName[name] == nil {
			return nil, fmt.Errorf("%w: parameter_order references %q", ErrUnknownName, name)
		}
	}
	for _, name := range rules.PrimaryGroup {
		if !containsName(rules.ParameterOrder, name) {
			return nil, fmt.Errorf("%w: primary group parameter %q must appear in parameter_order", ErrBadConfig, name)
		}
	}

	models := make([]*Model, 0, len(data.Models))
	for _, md := range data.Models {
		m, err := p.processModel(md, params, byName)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	SortModels(models, rules.ParameterOrder)
	p.log.Debug("models processed",
		zap.String("component", data.ComponentName),
		zap.Int("models", len(models)))

	sets := make(map[string]*ValueSet, len(rules.ParameterOrder))
	for _, name := range rules.ParameterOrder {
		set, err := NewValueSet(models, byName[name])
		if err != nil {
			return nil, err
		}
		sets[name] = set
	}

	groups, err := GroupModels(models, sets, rules.PrimaryGroup)
	if err != nil {
		return nil, err
	}
	p.log.Debug("models grouped", zap.Int("groups", len(groups)))

	title := rules.Title
	if title == "" {
		title = data.ComponentName
	}
	return &Result{
		Title:           title,
		ComponentName:   data.ComponentName,
		Parameters:      params,
		ParameterOrder:  rules.ParameterOrder,
		Models:          models,
		ValueSets:       sets,
		Groups:          groups,
		TableColumns:    rules.TableColumns,
		Recommendations: rules.Recommendations,
	}, nil
}

// buildParameters merges the data-file declarations with the derived
// rules and attaches the compiled expressions.
func (p *Processor) buildParameters(data *Data, rules *Rules) ([]*Parameter, map[string]*Parameter, error) {
	params := make([]*Parameter, 0, len(data.Parameters)+len(rules.Derived))
	byName := make(map[string]*Parameter)
	for _, decl := range data.Parameters {
		if byName[decl.Name] != nil {
			return nil, nil, fmt.Errorf("%w: parameter %q declared twice", ErrBadConfig, decl.Name)
		}
		param := newParameter(decl.Title, decl.Name, decl.Unit)
		params = append(params, param)
		byName[decl.Name] = param
	}
	for _, rule := range rules.Derived {
		param := byName[rule.Name]
		if param == nil {
			param = newParameter(rule.Title, rule.Name, rule.Unit)
			params = append(params, param)
			byName[rule.Name] = param
		} else {
			if rule.Title != "" {
				param.Title = rule.Title
			}
			if rule.Unit != "" {
				param.Unit = rule.Unit
			}
		}
		if err := param.setDerive(rule.Expression); err != nil {
			return nil, nil, err
		}
	}
	for _, name := range rules.DerivedFlags {
		param := byName[name]
		if param == nil {
			return nil, nil, fmt.Errorf("%w: derived_parameters references %q", ErrUnknownName, name)
		}
		param.Derived = true
	}
	for name, src := range rules.Formats {
		param := byName[name]
		if param == nil {
			p.log.Warn("format expression for unknown parameter", zap.String("name", name))
			continue
		}
		if err := param.setFormat(src); err != nil {
			return nil, nil, err
		}
	}
	return params, byName, nil
}

// processModel parses the raw values of one model, evaluates the
// derived parameters and formats everything.
func (p *Processor) processModel(md *ModelData, params []*Parameter, byName map[string]*Parameter) (*Model, error) {
	values := make(map[string]Value, len(md.Parameters))
	for name, raw := range md.Parameters {
		v, err := ValueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("model %s: parameter %s: %w", md.PartID, name, err)
		}
		values[name] = v
	}
	for _, param := range params {
		if !param.HasDerive() {
			continue
		}
		v, err := param.Derive(values)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", md.PartID, err)
		}
		values[param.Name] = v
	}
	formatted := make(map[string]string, len(values))
	for name, v := range values {
		param := byName[name]
		if param == nil {
			return nil, fmt.Errorf("%w: model %s has a value for undeclared parameter %q", ErrUnknownName, md.PartID, name)
		}
		text, err := param.FormatValue(v)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", md.PartID, err)
		}
		formatted[name] = text
	}
	return &Model{
		PartID:     md.PartID,
		Title:      md.Title,
		ModelFiles: md.ModelFiles,
		ImageFiles: md.ImageFiles,
		Values:     values,
		Formatted:  formatted,
	}, nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
