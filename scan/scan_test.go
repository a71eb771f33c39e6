package scan_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/LuckyResistor/3d-model-catalog-generator/scan"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDirIndexesByExtension(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"LR2052-111C.3mf",
		"LR2052-111C.jpg",
		"renders/LR2052-112C.JPG",
		"notes.txt",
	)

	x, err := scan.Dir(root, []string{".jpg"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if x.Len() != 2 {
		t.Fatalf("indexed %d files, want 2: %v", x.Len(), x.Names())
	}

	rel, err := x.Resolve("LR2052-112C.JPG")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rel != "renders/LR2052-112C.JPG" {
		t.Errorf("path = %q", rel)
	}
}

func TestDirSkipsIntermediateAndHidden(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"LR2052-111C.jpg",
		"tmp/compressed_images/LR2052-111C.jpg",
		".git/objects/some.jpg",
	)

	x, err := scan.Dir(root, []string{".jpg"}, "tmp")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if x.Len() != 1 {
		t.Fatalf("indexed %d files, want 1: %v", x.Len(), x.Names())
	}
	rel, _ := x.Path("LR2052-111C.jpg")
	if rel != "LR2052-111C.jpg" {
		t.Errorf("earlier build output leaked into the index: %q", rel)
	}
}

func TestResolveMissing(t *testing.T) {
	x := scan.NewIndex(t.TempDir())
	_, err := x.Resolve("LR2052-999C.jpg")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestMatching(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"LR2052-122C-S1.3mf",
		"LR2052-122C-S2.3mf",
		"LR2052-122C.jpg",
		"LR2052-121C.3mf",
	)

	x, err := scan.Dir(root, []string{".3mf", ".jpg"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	got := x.Matching("LR2052-122C-S*.3mf")
	if len(got) != 2 || got[0] != "LR2052-122C-S1.3mf" || got[1] != "LR2052-122C-S2.3mf" {
		t.Errorf("matching = %v", got)
	}
}

func TestAddRegistersGeneratedFile(t *testing.T) {
	x := scan.NewIndex("/work/tmp")
	x.Add("LR2052-111C.jpg", "compressed_images/LR2052-111C.jpg")

	rel, err := x.Resolve("LR2052-111C.jpg")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rel != "compressed_images/LR2052-111C.jpg" {
		t.Errorf("path = %q", rel)
	}
}
