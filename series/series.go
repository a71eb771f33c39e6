// Package series expands the declared model series of a catalog into
// per-project parameter data. A single catalog.toml file at the root
// of the model tree declares the size raster, the parameter set, the
// height series and the projects; expansion scans each project
// directory for rendered model images, derives every model's parameter
// values from its file name and writes the parameters.json and
// config.ini files the build stage consumes.
package series

import (
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
)

// CatalogFileName is the declaration file expansion reads, placed at
// the root of the model tree.
const CatalogFileName = "catalog.toml"

// requiredPatternGroups are the capture groups every file pattern must
// name. Width and depth are raster units, series selects the height
// entry.
var requiredPatternGroups = []string{"series", "width", "depth"}

// Catalog is the parsed catalog.toml declaration.
type Catalog struct {
	// Name of the model system, e.g. "LR2052".
	Name     string        `toml:"name"`
	Raster   Raster        `toml:"raster"`
	Defaults Defaults      `toml:"defaults"`
	Params   []Parameter   `toml:"parameters"`
	Series   []SeriesDecl  `toml:"series"`
	Projects []ProjectDecl `toml:"projects"`

	pattern *regexp.Regexp
}

// Raster is the size in millimeters of one unit step per axis. Model
// file names carry unit counts; multiplying by the raster yields the
// real dimensions.
type Raster struct {
	Width  int `toml:"width"`
	Depth  int `toml:"depth"`
	Height int `toml:"height"`
}

// Defaults apply to every project unless the project declares its own
// value.
type Defaults struct {
	TableColumns int    `toml:"table_columns"`
	PrimaryGroup string `toml:"primary_group"`

	// TitleImageSize selects the title render by its width and depth
	// in millimeters. Empty means the first model in part order.
	TitleImageSize []int `toml:"title_image_size"`

	// FilePattern matches render file names and captures the encoded
	// parameters.
	FilePattern string `toml:"file_pattern"`

	Recommendations map[string]string `toml:"recommendations"`
}

// Parameter declares one catalog parameter in display order.
type Parameter struct {
	Title string `toml:"title"`
	Name  string `toml:"name"`
	Unit  string `toml:"unit"`
}

// SeriesDecl maps a series id, the height digit of a part number, to
// the real heights of that series.
type SeriesDecl struct {
	ID     string `toml:"id"`
	Height int    `toml:"height"`

	// StackingHeight is the effective height when stacked. Zero means
	// the series does not stack and the parameter is left out.
	StackingHeight int `toml:"stacking_height"`
}

// ProjectDecl declares one project directory of the model tree.
type ProjectDecl struct {
	// Name is the directory name and the component name of the
	// generated data.
	Name string `toml:"name"`

	// Sizes lists the declared width and depth unit combinations. When
	// non-empty it is authoritative: a declared combination without a
	// matching file fails the expansion, a file outside the list is
	// reported and skipped.
	Sizes [][]int `toml:"sizes"`

	// Optional overrides of the catalog defaults.
	TableColumns    int               `toml:"table_columns"`
	PrimaryGroup    string            `toml:"primary_group"`
	FilePattern     string            `toml:"file_pattern"`
	Recommendations map[string]string `toml:"recommendations"`

	pattern *regexp.Regexp
}

// Load reads and validates a catalog.toml file.
func Load(path string) (*Catalog, error) {
	var cat Catalog
	if _, err := toml.DecodeFile(path, &cat); err != nil {
		return nil, fmt.Errorf("series: reading %s: %w", path, err)
	}
	if err := cat.validate(); err != nil {
		return nil, fmt.Errorf("series: %s: %w", path, err)
	}
	return &cat, nil
}

func (c *Catalog) validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is missing", catalog.ErrBadConfig)
	}
	if c.Raster.Width < 1 || c.Raster.Depth < 1 || c.Raster.Height < 1 {
		return fmt.Errorf("%w: raster sizes must be positive", catalog.ErrBadConfig)
	}
	if len(c.Params) == 0 {
		return fmt.Errorf("%w: no parameters declared", catalog.ErrBadConfig)
	}
	seenParams := make(map[string]bool, len(c.Params))
	for _, p := range c.Params {
		if p.Name == "" || p.Title == "" {
			return fmt.Errorf("%w: parameters need name and title", catalog.ErrBadConfig)
		}
		if seenParams[p.Name] {
			return fmt.Errorf("%w: parameter %s declared twice", catalog.ErrBadConfig, p.Name)
		}
		seenParams[p.Name] = true
	}
	if len(c.Series) == 0 {
		return fmt.Errorf("%w: no series declared", catalog.ErrBadConfig)
	}
	seenSeries := make(map[string]bool, len(c.Series))
	for _, s := range c.Series {
		if s.ID == "" {
			return fmt.Errorf("%w: series id is missing", catalog.ErrBadConfig)
		}
		if seenSeries[s.ID] {
			return fmt.Errorf("%w: series %s declared twice", catalog.ErrBadConfig, s.ID)
		}
		seenSeries[s.ID] = true
		if s.Height < 1 {
			return fmt.Errorf("%w: series %s height must be positive", catalog.ErrBadConfig, s.ID)
		}
		if s.StackingHeight < 0 {
			return fmt.Errorf("%w: series %s stacking height must not be negative", catalog.ErrBadConfig, s.ID)
		}
	}
	pattern, err := compilePattern(c.Defaults.FilePattern)
	if err != nil {
		return err
	}
	c.pattern = pattern
	if len(c.Projects) == 0 {
		return fmt.Errorf("%w: no projects declared", catalog.ErrBadConfig)
	}
	seenProjects := make(map[string]bool, len(c.Projects))
	for i := range c.Projects {
		p := &c.Projects[i]
		if p.Name == "" {
			return fmt.Errorf("%w: project name is missing", catalog.ErrBadConfig)
		}
		if seenProjects[p.Name] {
			return fmt.Errorf("%w: project %s declared twice", catalog.ErrBadConfig, p.Name)
		}
		seenProjects[p.Name] = true
		for _, size := range p.Sizes {
			if len(size) != 2 || size[0] < 1 || size[1] < 1 {
				return fmt.Errorf("%w: project %s: sizes must be [width, depth] unit pairs", catalog.ErrBadConfig, p.Name)
			}
		}
		if p.FilePattern != "" {
			pattern, err := compilePattern(p.FilePattern)
			if err != nil {
				return fmt.Errorf("project %s: %w", p.Name, err)
			}
			p.pattern = pattern
		}
	}
	return nil
}

// compilePattern compiles a file pattern and checks the required
// capture groups are present.
func compilePattern(raw string) (*regexp.Regexp, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: file_pattern is missing", catalog.ErrBadConfig)
	}
	pattern, err := regexp.Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: file_pattern: %v", catalog.ErrBadConfig, err)
	}
	names := make(map[string]bool)
	for _, name := range pattern.SubexpNames() {
		if name != "" {
			names[name] = true
		}
	}
	for _, required := range requiredPatternGroups {
		if !names[required] {
			return nil, fmt.Errorf("%w: file_pattern must capture %q", catalog.ErrBadConfig, required)
		}
	}
	return pattern, nil
}

// Project returns the declaration of the named project.
func (c *Catalog) Project(name string) (*ProjectDecl, bool) {
	for i := range c.Projects {
		if c.Projects[i].Name == name {
			return &c.Projects[i], true
		}
	}
	return nil, false
}

// SeriesByID returns the height series with the given id.
func (c *Catalog) SeriesByID(id string) (*SeriesDecl, bool) {
	for i := range c.Series {
		if c.Series[i].ID == id {
			return &c.Series[i], true
		}
	}
	return nil, false
}

// projectPattern returns the file pattern effective for a project.
func (c *Catalog) projectPattern(proj *ProjectDecl) *regexp.Regexp {
	if proj.pattern != nil {
		return proj.pattern
	}
	return c.pattern
}

// projectColumns returns the table column count effective for a
// project.
func (c *Catalog) projectColumns(proj *ProjectDecl) int {
	if proj.TableColumns > 0 {
		return proj.TableColumns
	}
	return c.Defaults.TableColumns
}

// projectPrimaryGroup returns the primary group effective for a
// project.
func (c *Catalog) projectPrimaryGroup(proj *ProjectDecl) string {
	if proj.PrimaryGroup != "" {
		return proj.PrimaryGroup
	}
	return c.Defaults.PrimaryGroup
}

// projectRecommendations merges the default print settings with the
// project's overrides.
func (c *Catalog) projectRecommendations(proj *ProjectDecl) map[string]string {
	merged := make(map[string]string, len(c.Defaults.Recommendations)+len(proj.Recommendations))
	for key, value := range c.Defaults.Recommendations {
		merged[key] = value
	}
	for key, value := range proj.Recommendations {
		merged[key] = value
	}
	return merged
}
