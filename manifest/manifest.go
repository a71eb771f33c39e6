// Package manifest records the published files of a model project:
// the name, size and SHA-256 digest of every model and image file. A
// mirrored or re-uploaded project can then be checked for silently
// modified or missing files.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
	"github.com/LuckyResistor/3d-model-catalog-generator/scan"
)

// FileName is the manifest file written into a project directory.
const FileName = "manifest.json"

// Entry describes one published file.
type Entry struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Manifest is the integrity record of one project.
type Manifest struct {
	ComponentName string  `json:"component_name"`
	Files         []Entry `json:"files"`
}

// CollectFiles returns the unique model and image file names the data
// references, sorted.
func CollectFiles(data *catalog.Data) []string {
	seen := make(map[string]bool)
	for _, model := range data.Models {
		for _, name := range model.ModelFiles {
			seen[name] = true
		}
		for _, name := range model.ImageFiles {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build hashes the named files, resolved through the index, into a
// manifest.
func Build(component string, idx *scan.Index, names []string) (*Manifest, error) {
	m := &Manifest{ComponentName: component}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	for _, name := range sorted {
		path, err := idx.Abs(name)
		if err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
		digest, size, err := hashFile(path)
		if err != nil {
			return nil, err
		}
		m.Files = append(m.Files, Entry{Name: name, Size: size, SHA256: digest})
	}
	return m, nil
}

// Save writes the manifest as indented JSON.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest: encoding %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("manifest: writing %s: %w", path, err)
	}
	return nil
}

// Load reads a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: reading %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parsing %s: %w", path, err)
	}
	return &m, nil
}

// entry returns the recorded entry for a file name.
func (m *Manifest) entry(name string) (Entry, bool) {
	for _, e := range m.Files {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Report lists what changed since the manifest was written.
type Report struct {
	// Missing files are recorded but gone.
	Missing []string
	// Modified files differ in size or content.
	Modified []string
	// Untracked files are referenced by the data but not recorded.
	Untracked []string
}

// Clean reports whether nothing changed.
func (r *Report) Clean() bool {
	return len(r.Missing) == 0 && len(r.Modified) == 0 && len(r.Untracked) == 0
}

// Verify compares the recorded files against the project directory.
// names are the files the current data references, used to spot
// untracked additions.
func Verify(m *Manifest, idx *scan.Index, names []string) (*Report, error) {
	report := &Report{}
	for _, entry := range m.Files {
		path, err := idx.Abs(entry.Name)
		if err != nil {
			report.Missing = append(report.Missing, entry.Name)
			continue
		}
		digest, size, err := hashFile(path)
		if err != nil {
			return nil, err
		}
		if size != entry.Size || digest != entry.SHA256 {
			report.Modified = append(report.Modified, entry.Name)
		}
	}
	for _, name := range names {
		if _, ok := m.entry(name); !ok {
			report.Untracked = append(report.Untracked, name)
		}
	}
	sort.Strings(report.Missing)
	sort.Strings(report.Modified)
	sort.Strings(report.Untracked)
	return report, nil
}

// hashFile returns the hex SHA-256 digest and size of a file.
func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("manifest: opening %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("manifest: hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}
