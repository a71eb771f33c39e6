package catalog

import (
	"fmt"
	"sort"
)

// ValueSet is the ordered set of distinct values one parameter takes
// across the models, with their formatted renderings in parallel.
type ValueSet struct {
	Parameter *Parameter
	Values    []Value
	Formatted []string
}

// NewValueSet collects the distinct values of p across the models,
// sorted ascending.
func NewValueSet(models []*Model, p *Parameter) (*ValueSet, error) {
	seen := make(map[string]bool)
	var values []Value
	for _, m := range models {
		v, ok := m.Values[p.Name]
		if !ok {
			continue
		}
		if key := v.Key(); !seen[key] {
			seen[key] = true
			values = append(values, v)
		}
	}
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Compare(values[j]) < 0
	})
	formatted := make([]string, len(values))
	for i, v := range values {
		text, err := p.FormatValue(v)
		if err != nil {
			return nil, err
		}
		formatted[i] = text
	}
	return &ValueSet{Parameter: p, Values: values, Formatted: formatted}, nil
}

// Len returns the number of distinct values.
func (s *ValueSet) Len() int { return len(s.Values) }

// ModelGroup is one catalog section: a title and the models it shows.
type ModelGroup struct {
	Title  string
	Models []*Model
}

// GroupModels partitions the models into sections by the primary
// parameters. One primary parameter yields a group per value; two
// yield a group per value combination, skipping combinations no model
// matches. More than two is not supported.
func GroupModels(models []*Model, sets map[string]*ValueSet, primary []string) ([]*ModelGroup, error) {
	for _, name := range primary {
		if sets[name] == nil {
			return nil, fmt.Errorf("%w: %s has no value set", ErrUnknownName, name)
		}
	}
	switch len(primary) {
	case 1:
		set := sets[primary[0]]
		groups := make([]*ModelGroup, 0, set.Len())
		for i, v := range set.Values {
			groups = append(groups, &ModelGroup{
				Title:  fmt.Sprintf("Models with %s = %s", set.Parameter.Title, set.Formatted[i]),
				Models: filterModels(models, set.Parameter.Name, v),
			})
		}
		return groups, nil
	case 2:
		first, second := sets[primary[0]], sets[primary[1]]
		var groups []*ModelGroup
		for i, fv := range first.Values {
			for j, sv := range second.Values {
				subset := filterModels(models, first.Parameter.Name, fv)
				subset = filterModels(subset, second.Parameter.Name, sv)
				if len(subset) == 0 {
					continue
				}
				groups = append(groups, &ModelGroup{
					Title: fmt.Sprintf("Models with %s = %s %s = %s",
						first.Parameter.Title, first.Formatted[i],
						second.Parameter.Title, second.Formatted[j]),
					Models: subset,
				})
			}
		}
		return groups, nil
	}
	return nil, fmt.Errorf("%w: got %d", ErrPrimaryGroup, len(primary))
}

func filterModels(models []*Model, name string, v Value) []*Model {
	var out []*Model
	for _, m := range models {
		if mv, ok := m.Values[name]; ok && mv.Equal(v) {
			out = append(out, m)
		}
	}
	return out
}
