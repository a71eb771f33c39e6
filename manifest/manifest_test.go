package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
	"github.com/LuckyResistor/3d-model-catalog-generator/manifest"
	"github.com/LuckyResistor/3d-model-catalog-generator/scan"
)

var manifestExts = []string{".3mf", ".jpg"}

func writeProjectFiles(t *testing.T) (string, *scan.Index) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"LR2052-111C.3mf": "model one",
		"LR2052-112C.3mf": "model two",
		"LR2052-111C.jpg": "render one",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	idx, err := scan.Dir(dir, manifestExts)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	return dir, idx
}

func TestCollectFiles(t *testing.T) {
	data := &catalog.Data{
		ComponentName: "LR2052-100C",
		Models: []*catalog.ModelData{
			{PartID: "A", ModelFiles: []string{"b.3mf"}, ImageFiles: []string{"a.jpg"}},
			{PartID: "B", ModelFiles: []string{"a.3mf", "b.3mf"}, ImageFiles: []string{"a.jpg"}},
		},
	}
	names := manifest.CollectFiles(data)
	want := []string{"a.3mf", "a.jpg", "b.3mf"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("names[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestBuildAndVerify(t *testing.T) {
	dir, idx := writeProjectFiles(t)
	names := []string{"LR2052-111C.3mf", "LR2052-112C.3mf", "LR2052-111C.jpg"}

	m, err := manifest.Build("LR2052-100C", idx, names)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(m.Files) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(m.Files))
	}
	if m.Files[0].Name != "LR2052-111C.3mf" {
		t.Fatalf("entries not sorted: %v", m.Files[0].Name)
	}
	if m.Files[0].Size != int64(len("model one")) {
		t.Fatalf("size = %d", m.Files[0].Size)
	}
	if len(m.Files[0].SHA256) != 64 {
		t.Fatalf("digest = %q", m.Files[0].SHA256)
	}

	path := filepath.Join(dir, manifest.FileName)
	if err := m.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ComponentName != "LR2052-100C" || len(loaded.Files) != 3 {
		t.Fatalf("unexpected manifest: %+v", loaded)
	}

	report, err := manifest.Verify(loaded, idx, names)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("expected a clean report, got %+v", report)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	dir, idx := writeProjectFiles(t)
	names := []string{"LR2052-111C.3mf", "LR2052-112C.3mf", "LR2052-111C.jpg"}
	m, err := manifest.Build("LR2052-100C", idx, names)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// Same size, different content.
	if err := os.WriteFile(filepath.Join(dir, "LR2052-111C.3mf"), []byte("model 0ne"), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "LR2052-112C.3mf")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "LR2052-113C.3mf"), []byte("new model"), 0o644); err != nil {
		t.Fatalf("add: %v", err)
	}

	idx, err = scan.Dir(dir, manifestExts)
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	current := []string{"LR2052-111C.3mf", "LR2052-113C.3mf", "LR2052-111C.jpg"}
	report, err := manifest.Verify(m, idx, current)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if report.Clean() {
		t.Fatal("tampering not detected")
	}
	if len(report.Modified) != 1 || report.Modified[0] != "LR2052-111C.3mf" {
		t.Fatalf("modified = %v", report.Modified)
	}
	if len(report.Missing) != 1 || report.Missing[0] != "LR2052-112C.3mf" {
		t.Fatalf("missing = %v", report.Missing)
	}
	if len(report.Untracked) != 1 || report.Untracked[0] != "LR2052-113C.3mf" {
		t.Fatalf("untracked = %v", report.Untracked)
	}
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := manifest.Load(filepath.Join(t.TempDir(), manifest.FileName))
	if err == nil {
		t.Fatal("expected an error for a missing manifest")
	}
}
