// Package scan discovers the files of a catalog project. It walks a
// directory once and indexes files by base name, so data-file
// references like "LR2052-111C.3mf" resolve to paths without touching
// the filesystem again.
package scan

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Index maps file base names to paths relative to the scanned root.
type Index struct {
	root  string
	paths map[string]string
}

// Dir walks root recursively and indexes every file whose extension is
// in exts (compared case-insensitively, leading dot included). Hidden
// directories and the listed skipDirs are not descended into; the
// intermediate directory is usually skipped this way so earlier build
// output is never picked up as input. When the same base name appears
// more than once the lexically later path wins.
func Dir(root string, exts []string, skipDirs ...string) (*Index, error) {
	x := &Index{root: root, paths: make(map[string]string)}
	lower := make([]string, len(exts))
	for i, e := range exts {
		lower[i] = strings.ToLower(e)
	}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p == root {
				return nil
			}
			if strings.HasPrefix(name, ".") || containsString(skipDirs, name) {
				return fs.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !containsString(lower, ext) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		x.paths[name] = filepath.ToSlash(rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan: walking %s: %w", root, err)
	}
	return x, nil
}

// NewIndex returns an empty index rooted at root. Entries are added
// with Add; the build stage registers converted images this way.
func NewIndex(root string) *Index {
	return &Index{root: root, paths: make(map[string]string)}
}

// Add registers a file under its base name with a path relative to the
// index root.
func (x *Index) Add(name, rel string) {
	x.paths[name] = filepath.ToSlash(rel)
}

// Root returns the directory the indexed paths are relative to.
func (x *Index) Root() string { return x.root }

// Len returns the number of indexed files.
func (x *Index) Len() int { return len(x.paths) }

// Names returns the indexed base names in sorted order.
func (x *Index) Names() []string {
	names := make([]string, 0, len(x.paths))
	for name := range x.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the root-relative path of the named file.
func (x *Index) Path(name string) (string, bool) {
	rel, ok := x.paths[name]
	return rel, ok
}

// Resolve returns the root-relative path of the named file, or an
// error satisfying errors.Is(err, fs.ErrNotExist) naming the file and
// the scanned root.
func (x *Index) Resolve(name string) (string, error) {
	rel, ok := x.paths[name]
	if !ok {
		return "", fmt.Errorf("scan: %s not found under %s: %w", name, x.root, fs.ErrNotExist)
	}
	return rel, nil
}

// Abs returns the absolute location of the named file.
func (x *Index) Abs(name string) (string, error) {
	rel, err := x.Resolve(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(x.root, filepath.FromSlash(rel)), nil
}

// Matching returns the sorted base names matching the glob pattern,
// e.g. "LR2052-122C-S*.3mf" for the parts of a split model.
func (x *Index) Matching(pattern string) []string {
	var names []string
	for name := range x.paths {
		if ok, _ := path.Match(pattern, name); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
