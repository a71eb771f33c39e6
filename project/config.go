// Package project drives the build pipeline of a model project: it
// reads the generated parameter data and the hand-tuned configuration,
// processes them into grouped catalog data, renders the LaTeX document
// and delegates typesetting to pdflatex. Several projects combine into
// a single catalog with one chapter per project.
package project

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
)

// defaultTableColumns applies when the configuration does not set a
// column count.
const defaultTableColumns = 3

// derivedSuffixes are the recognized key suffixes of the [derived]
// section. Every derived parameter is declared by a
// "<name>_title"/"<name>_expression" pair plus an optional unit.
var derivedSuffixes = []string{"_title", "_unit", "_expression"}

// LoadRules reads a project's config.ini into formatting rules.
func LoadRules(path string) (*catalog.Rules, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("project: reading %s: %w", path, err)
	}
	main := cfg.Section("main")
	rules := &catalog.Rules{
		Title:          main.Key("title").String(),
		ParameterOrder: strings.Fields(main.Key("parameter_order").String()),
		PrimaryGroup:   strings.Fields(main.Key("primary_group").String()),
		TitleImage:     main.Key("title_image").String(),
		TableColumns:   main.Key("table_columns").MustInt(defaultTableColumns),
		DerivedFlags:   strings.Fields(main.Key("derived_parameters").String()),
		QRBaseURL:      main.Key("qr_base_url").String(),
	}

	derived, err := parseDerived(cfg.Section("derived"))
	if err != nil {
		return nil, fmt.Errorf("project: %s: %w", path, err)
	}
	rules.Derived = derived

	if section, err := cfg.GetSection("format"); err == nil {
		rules.Formats = make(map[string]string, len(section.Keys()))
		for _, key := range section.Keys() {
			rules.Formats[key.Name()] = key.Value()
		}
	}

	if section, err := cfg.GetSection("recommendations"); err == nil {
		values := make(map[string]string, len(section.Keys()))
		for _, key := range section.Keys() {
			values[key.Name()] = key.Value()
		}
		rules.Recommendations = catalog.OrderRecommendations(values)
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("project: %s: %w", path, err)
	}
	return rules, nil
}

// parseDerived reads the [derived] section into derived parameter
// rules, in name order.
func parseDerived(section *ini.Section) ([]catalog.DerivedRule, error) {
	byName := make(map[string]*catalog.DerivedRule)
	for _, key := range section.Keys() {
		name, suffix, ok := splitDerivedKey(key.Name())
		if !ok {
			return nil, fmt.Errorf("%w: derived key %q must end in _title, _unit or _expression",
				catalog.ErrBadConfig, key.Name())
		}
		rule := byName[name]
		if rule == nil {
			rule = &catalog.DerivedRule{Name: name}
			byName[name] = rule
		}
		switch suffix {
		case "_title":
			rule.Title = key.Value()
		case "_unit":
			rule.Unit = key.Value()
		case "_expression":
			rule.Expression = key.Value()
		}
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	rules := make([]catalog.DerivedRule, 0, len(byName))
	for _, name := range names {
		rule := byName[name]
		if rule.Expression == "" {
			return nil, fmt.Errorf("%w: derived parameter %s needs %s_expression",
				catalog.ErrBadConfig, name, name)
		}
		if rule.Title == "" {
			return nil, fmt.Errorf("%w: derived parameter %s needs %s_title",
				catalog.ErrBadConfig, name, name)
		}
		rules = append(rules, *rule)
	}
	return rules, nil
}

// splitDerivedKey splits "volume_title" into "volume" and "_title".
func splitDerivedKey(key string) (name, suffix string, ok bool) {
	for _, s := range derivedSuffixes {
		if strings.HasSuffix(key, s) && len(key) > len(s) {
			return strings.TrimSuffix(key, s), s, true
		}
	}
	return "", "", false
}

// SuperConfig is the root configuration of a combined catalog.
type SuperConfig struct {
	// Title of the combined document.
	Title string

	// SubProjects are the project directory names, in chapter order.
	SubProjects []string

	// PDFName is the output file name of the combined catalog.
	PDFName string

	// TitleImage is a path relative to the root directory. Optional.
	TitleImage string
}

// LoadSuper reads the root config.ini of a combined catalog.
func LoadSuper(path string) (*SuperConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("project: reading %s: %w", path, err)
	}
	main := cfg.Section("main")
	super := &SuperConfig{
		Title:       main.Key("title").String(),
		SubProjects: strings.Fields(main.Key("sub_projects").String()),
		PDFName:     main.Key("catalog_pdf_name").MustString("catalog.pdf"),
		TitleImage:  main.Key("title_image").String(),
	}
	if len(super.SubProjects) == 0 {
		return nil, fmt.Errorf("project: %s: %w: sub_projects is missing", path, catalog.ErrBadConfig)
	}
	if super.Title == "" {
		return nil, fmt.Errorf("project: %s: %w: title is missing", path, catalog.ErrBadConfig)
	}
	return super, nil
}
