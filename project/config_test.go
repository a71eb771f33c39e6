package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
	"github.com/LuckyResistor/3d-model-catalog-generator/project"
)

const testConfigINI = `[main]
title = Stacking Boxes
parameter_order = width depth height split_model
primary_group = width depth
title_image = LR2052-122C-S
table_columns = 2
derived_parameters = split_model
qr_base_url = https://example.com/m/

[derived]
volume_title = Volume
volume_unit = l
volume_expression = width * depth * height / 1000000.0

[format]
height = sprintf("%d mm", value)

[recommendations]
layer_height = 0.20 mm
nozzle_size = 0.4 mm
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), catalog.ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRules(t *testing.T) {
	rules, err := project.LoadRules(writeConfig(t, testConfigINI))
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if rules.Title != "Stacking Boxes" {
		t.Fatalf("title = %q", rules.Title)
	}
	wantOrder := []string{"width", "depth", "height", "split_model"}
	if len(rules.ParameterOrder) != len(wantOrder) {
		t.Fatalf("parameter order = %v", rules.ParameterOrder)
	}
	for i, want := range wantOrder {
		if rules.ParameterOrder[i] != want {
			t.Fatalf("order[%d] = %q, want %q", i, rules.ParameterOrder[i], want)
		}
	}
	if len(rules.PrimaryGroup) != 2 || rules.PrimaryGroup[0] != "width" {
		t.Fatalf("primary group = %v", rules.PrimaryGroup)
	}
	if rules.TitleImage != "LR2052-122C-S" || rules.TableColumns != 2 {
		t.Fatalf("title image %q, columns %d", rules.TitleImage, rules.TableColumns)
	}
	if len(rules.DerivedFlags) != 1 || rules.DerivedFlags[0] != "split_model" {
		t.Fatalf("derived flags = %v", rules.DerivedFlags)
	}
	if rules.QRBaseURL != "https://example.com/m/" {
		t.Fatalf("qr base url = %q", rules.QRBaseURL)
	}

	if len(rules.Derived) != 1 {
		t.Fatalf("derived rules = %+v", rules.Derived)
	}
	volume := rules.Derived[0]
	if volume.Name != "volume" || volume.Title != "Volume" || volume.Unit != "l" {
		t.Fatalf("volume rule = %+v", volume)
	}
	if volume.Expression != "width * depth * height / 1000000.0" {
		t.Fatalf("volume expression = %q", volume.Expression)
	}

	if rules.Formats["height"] != `sprintf("%d mm", value)` {
		t.Fatalf("height format = %q", rules.Formats["height"])
	}

	if len(rules.Recommendations) != 2 {
		t.Fatalf("recommendations = %+v", rules.Recommendations)
	}
	if rules.Recommendations[0].Title != "Nozzle Size" {
		t.Fatalf("first recommendation = %+v", rules.Recommendations[0])
	}
}

func TestLoadRulesDefaultColumns(t *testing.T) {
	rules, err := project.LoadRules(writeConfig(t, `[main]
title = T
parameter_order = width
primary_group = width
title_image = X
`))
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if rules.TableColumns != 3 {
		t.Fatalf("default columns = %d", rules.TableColumns)
	}
}

func TestLoadRulesValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing parameter order",
			content: `[main]
title = T
primary_group = width
title_image = X
`,
		},
		{
			name: "three primary parameters",
			content: `[main]
parameter_order = width depth height
primary_group = width depth height
title_image = X
`,
		},
		{
			name: "bad derived key",
			content: `[main]
parameter_order = width
primary_group = width
title_image = X

[derived]
volume_titel = Volume
volume_expression = width
`,
		},
		{
			name: "derived without expression",
			content: `[main]
parameter_order = width
primary_group = width
title_image = X

[derived]
volume_title = Volume
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := project.LoadRules(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !errors.Is(err, catalog.ErrBadConfig) && !errors.Is(err, catalog.ErrPrimaryGroup) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadSuper(t *testing.T) {
	cfg, err := project.LoadSuper(writeConfig(t, `[main]
title = LR2052 Catalog
sub_projects = LR2052-100C LR2052-200C
catalog_pdf_name = LR2052-catalog.pdf
title_image = LR2052-100C/cover.jpg
`))
	if err != nil {
		t.Fatalf("load super: %v", err)
	}
	if cfg.Title != "LR2052 Catalog" {
		t.Fatalf("title = %q", cfg.Title)
	}
	if len(cfg.SubProjects) != 2 || cfg.SubProjects[1] != "LR2052-200C" {
		t.Fatalf("sub projects = %v", cfg.SubProjects)
	}
	if cfg.PDFName != "LR2052-catalog.pdf" {
		t.Fatalf("pdf name = %q", cfg.PDFName)
	}
	if cfg.TitleImage != "LR2052-100C/cover.jpg" {
		t.Fatalf("title image = %q", cfg.TitleImage)
	}
}

func TestLoadSuperDefaults(t *testing.T) {
	cfg, err := project.LoadSuper(writeConfig(t, `[main]
title = T
sub_projects = A
`))
	if err != nil {
		t.Fatalf("load super: %v", err)
	}
	if cfg.PDFName != "catalog.pdf" {
		t.Fatalf("default pdf name = %q", cfg.PDFName)
	}
}

func TestLoadSuperMissingProjects(t *testing.T) {
	_, err := project.LoadSuper(writeConfig(t, "[main]\ntitle = T\n"))
	if err == nil {
		t.Fatal("expected an error without sub projects")
	}
	if !errors.Is(err, catalog.ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig, got %v", err)
	}
}
