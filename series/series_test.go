package series_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
	"github.com/LuckyResistor/3d-model-catalog-generator/series"
)

// testCatalogTOML declares a small two-series storage-box system.
const testCatalogTOML = `
name = "LR2052"

[raster]
width = 60
depth = 60
height = 40

[defaults]
table_columns = 2
primary_group = "width depth"
title_image_size = [120, 120]
file_pattern = '^(?P<name>[A-Z0-9]+)-(?P<series>\d)(?P<width>\d)(?P<depth>\d)(?P<revision>[A-Z])(?:-(?P<variant>G\d|S))?\.jpg$'

[defaults.recommendations]
nozzle_size = "0.4 mm"
layer_height = "0.20 mm"

[[parameters]]
title = "Width"
name = "width"
unit = "mm"

[[parameters]]
title = "Depth"
name = "depth"
unit = "mm"

[[parameters]]
title = "Height"
name = "height"
unit = "mm"

[[parameters]]
title = "Stacking Height"
name = "stacking_height"
unit = "mm"

[[parameters]]
title = "Grid Layout"
name = "grid_layout"

[[parameters]]
title = "Split Model"
name = "split_model"

[[series]]
id = "1"
height = 44
stacking_height = 40

[[series]]
id = "2"
height = 84
stacking_height = 0

[[projects]]
name = "LR2052-100C"
sizes = [[1, 1], [1, 2], [2, 2]]
`

// writeCatalog writes a catalog.toml into a fresh root directory and
// returns both.
func writeCatalog(t *testing.T, content string) (string, string) {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, series.CatalogFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return root, path
}

func TestLoadCatalog(t *testing.T) {
	_, path := writeCatalog(t, testCatalogTOML)
	cat, err := series.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cat.Name != "LR2052" {
		t.Fatalf("name = %q", cat.Name)
	}
	if cat.Raster.Width != 60 || cat.Raster.Height != 40 {
		t.Fatalf("unexpected raster %+v", cat.Raster)
	}
	if len(cat.Params) != 6 {
		t.Fatalf("expected 6 parameters, got %d", len(cat.Params))
	}
	if len(cat.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(cat.Series))
	}
	entry, ok := cat.SeriesByID("2")
	if !ok || entry.Height != 84 {
		t.Fatalf("series 2 lookup failed: %+v", entry)
	}
	proj, ok := cat.Project("LR2052-100C")
	if !ok {
		t.Fatal("project lookup failed")
	}
	if len(proj.Sizes) != 3 {
		t.Fatalf("expected 3 sizes, got %d", len(proj.Sizes))
	}
	if cat.Defaults.Recommendations["nozzle_size"] != "0.4 mm" {
		t.Fatal("default recommendations not parsed")
	}
}

func TestLoadCatalogValidation(t *testing.T) {
	tests := []struct {
		name    string
		mangle  func(string) string
		message string
	}{
		{
			name:    "missing capture group",
			mangle:  func(s string) string { return strings.Replace(s, "(?P<series>", "(", 1) },
			message: "series",
		},
		{
			name:    "duplicate series id",
			mangle:  func(s string) string { return strings.Replace(s, `id = "2"`, `id = "1"`, 1) },
			message: "twice",
		},
		{
			name:    "zero raster",
			mangle:  func(s string) string { return strings.Replace(s, "width = 60", "width = 0", 1) },
			message: "raster",
		},
		{
			name:    "bad size pair",
			mangle:  func(s string) string { return strings.Replace(s, "[2, 2]", "[2]", 1) },
			message: "sizes",
		},
		{
			name:    "duplicate parameter",
			mangle:  func(s string) string { return strings.Replace(s, `name = "depth"`, `name = "width"`, 1) },
			message: "twice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, path := writeCatalog(t, tt.mangle(testCatalogTOML))
			_, err := series.Load(path)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !errors.Is(err, catalog.ErrBadConfig) {
				t.Fatalf("expected ErrBadConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Fatalf("error %q does not mention %q", err, tt.message)
			}
		})
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := series.Load(filepath.Join(t.TempDir(), series.CatalogFileName))
	if err == nil {
		t.Fatal("expected an error for a missing catalog")
	}
}

func TestLoadProjectInfo(t *testing.T) {
	dir := t.TempDir()
	content := `{"title": "Stacking Boxes", "model_name": "Storage Box {{.width}} x {{.depth}} mm"}`
	if err := os.WriteFile(filepath.Join(dir, series.InfoFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write info: %v", err)
	}
	info, err := series.LoadProjectInfo(dir)
	if err != nil {
		t.Fatalf("load info: %v", err)
	}
	if info.Title != "Stacking Boxes" {
		t.Fatalf("title = %q", info.Title)
	}
}

func TestLoadProjectInfoErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := series.LoadProjectInfo(dir); err == nil {
		t.Fatal("expected an error for a missing info file")
	}

	path := filepath.Join(dir, series.InfoFileName)
	if err := os.WriteFile(path, []byte(`{"model_name": "x"}`), 0o644); err != nil {
		t.Fatalf("write info: %v", err)
	}
	if _, err := series.LoadProjectInfo(dir); !errors.Is(err, catalog.ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig for a missing title, got %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"title": "T", "model_name": "{{.width"}`), 0o644); err != nil {
		t.Fatalf("write info: %v", err)
	}
	if _, err := series.LoadProjectInfo(dir); !errors.Is(err, catalog.ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig for a bad template, got %v", err)
	}
}
