package table_test

import (
	"testing"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
	"github.com/LuckyResistor/3d-model-catalog-generator/table"
)

func TestAddRowPadsAndTruncates(t *testing.T) {
	tb := table.New("", "Part ID", "Width", "Depth")
	tb.AddRow("LR2052-111C").
		AddRow("LR2052-112C", "60 mm", "120 mm", "extra")

	if got := tb.Width(); got != 3 {
		t.Fatalf("width = %d, want 3", got)
	}
	if got := tb.Rows[0][2]; got != "" {
		t.Errorf("short row should pad with empty cell, got %q", got)
	}
	if got := len(tb.Rows[1]); got != 3 {
		t.Errorf("long row should truncate, got %d cells", got)
	}
	if tb.ColumnSpec() != "lll" {
		t.Errorf("column spec = %q, want lll", tb.ColumnSpec())
	}
}

func processTestCatalog(t *testing.T, rules *catalog.Rules) *catalog.Result {
	t.Helper()
	data := &catalog.Data{
		ComponentName: "LR2052-100C",
		Parameters: []catalog.ParameterDecl{
			{Title: "Width", Name: "width", Unit: "mm"},
			{Title: "Depth", Name: "depth", Unit: "mm"},
			{Title: "Height", Name: "height", Unit: "mm"},
		},
		Models: []*catalog.ModelData{
			{PartID: "LR2052-111C", Parameters: map[string]any{"width": 60, "depth": 60, "height": 44}},
			{PartID: "LR2052-112C", Parameters: map[string]any{"width": 60, "depth": 120, "height": 44}},
			{PartID: "LR2052-122C", Parameters: map[string]any{"width": 120, "depth": 120, "height": 44}},
		},
	}
	res, err := catalog.NewProcessor().Process(data, rules)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	return res
}

func TestBuildGroups(t *testing.T) {
	res := processTestCatalog(t, &catalog.Rules{
		ParameterOrder: []string{"width", "depth", "height"},
		PrimaryGroup:   []string{"width"},
		TitleImage:     "LR2052-111C",
		TableColumns:   2,
	})

	groups := table.BuildGroups(res)

	// Height never varies, so only width and depth group tables.
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Title != "Tables Grouped by Width" {
		t.Errorf("group title = %q", groups[0].Title)
	}

	if len(groups[0].Tables) != 2 {
		t.Fatalf("width tables = %d, want 2", len(groups[0].Tables))
	}
	tb := groups[0].Tables[0]
	if tb.Title != "Width = 60 mm" {
		t.Errorf("table title = %q", tb.Title)
	}
	wantFields := []string{"Part ID", "Depth", "Height"}
	for i, f := range wantFields {
		if tb.Fields[i] != f {
			t.Fatalf("fields = %v, want %v", tb.Fields, wantFields)
		}
	}
	if len(tb.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tb.Rows))
	}
	if tb.Rows[0][0] != "LR2052-111C" || tb.Rows[0][1] != "60 mm" {
		t.Errorf("row = %v", tb.Rows[0])
	}
}

func TestBuildGroupsSkipsDerived(t *testing.T) {
	res := processTestCatalog(t, &catalog.Rules{
		ParameterOrder: []string{"width", "depth"},
		PrimaryGroup:   []string{"width"},
		TitleImage:     "LR2052-111C",
		TableColumns:   2,
		DerivedFlags:   []string{"depth"},
	})

	groups := table.BuildGroups(res)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1 (derived parameter skipped)", len(groups))
	}
	if groups[0].Title != "Tables Grouped by Width" {
		t.Errorf("group title = %q", groups[0].Title)
	}
}

func TestBuildGroupsIncludesDerivedColumns(t *testing.T) {
	res := processTestCatalog(t, &catalog.Rules{
		ParameterOrder: []string{"width", "depth"},
		PrimaryGroup:   []string{"width"},
		TitleImage:     "LR2052-111C",
		TableColumns:   2,
		Derived: []catalog.DerivedRule{
			{Name: "volume", Title: "Volume", Unit: "l", Expression: "width * depth * height / 1000000.0"},
		},
	})

	groups := table.BuildGroups(res)
	tb := groups[0].Tables[0]
	last := tb.Fields[len(tb.Fields)-1]
	if last != "Volume" {
		t.Fatalf("derived column missing, fields = %v", tb.Fields)
	}
	if tb.Rows[0][len(tb.Fields)-1] == "" {
		t.Error("derived cell should be formatted")
	}
}
