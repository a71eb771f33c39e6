package table

import (
	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
)

// BuildGroups builds the grouped tables from a processed catalog.
//
// Every parameter of the configured order gets one group, provided it
// actually distinguishes models: parameters with fewer than two
// distinct values and derived parameters are skipped. Within a group
// there is one table per value, titled "<Title> = <formatted>", whose
// columns are the part ID followed by every other parameter and whose
// rows are the matching models in catalog order.
func BuildGroups(res *catalog.Result) []*Group {
	var groups []*Group
	for _, name := range res.ParameterOrder {
		param := res.Parameter(name)
		set := res.ValueSets[name]
		if param == nil || set == nil {
			continue
		}
		if param.Derived || set.Len() < 2 {
			continue
		}
		groups = append(groups, buildGroup(res, param, set))
	}
	return groups
}

func buildGroup(res *catalog.Result, param *catalog.Parameter, set *catalog.ValueSet) *Group {
	fields := []string{"Part ID"}
	var columns []*catalog.Parameter
	for _, p := range res.Parameters {
		if p.Name == param.Name {
			continue
		}
		fields = append(fields, p.Title)
		columns = append(columns, p)
	}

	group := &Group{Title: "Tables Grouped by " + param.Title}
	for i, v := range set.Values {
		t := New(param.Title+" = "+set.Formatted[i], fields...)
		for _, m := range res.Models {
			mv, ok := m.Value(param.Name)
			if !ok || !mv.Equal(v) {
				continue
			}
			cells := make([]string, 0, len(fields))
			cells = append(cells, m.PartID)
			for _, p := range columns {
				cells = append(cells, m.FormattedValue(p.Name))
			}
			t.AddRow(cells...)
		}
		group.AddTable(t)
	}
	return group
}
