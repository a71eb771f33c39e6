package series

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
	"github.com/LuckyResistor/3d-model-catalog-generator/scan"
)

// expandExtensions are the file types expansion needs to see: the
// rendered images the file pattern matches and the model files
// referenced from the generated data.
var expandExtensions = []string{".jpg", ".png", ".3mf", ".stl"}

// Expander expands the projects of one catalog declaration.
type Expander struct {
	log          *zap.Logger
	cat          *Catalog
	intermediate string
}

// Option configures an Expander.
type Option func(*Expander)

// WithLogger sets the logger expansion progress is reported to.
func WithLogger(log *zap.Logger) Option {
	return func(e *Expander) {
		if log != nil {
			e.log = log
		}
	}
}

// WithIntermediateDir overrides the working directory name skipped
// while scanning project files.
func WithIntermediateDir(name string) Option {
	return func(e *Expander) {
		if name != "" {
			e.intermediate = name
		}
	}
}

// NewExpander creates an Expander over a loaded catalog declaration.
func NewExpander(cat *Catalog, opts ...Option) *Expander {
	e := &Expander{
		log:          zap.NewNop(),
		cat:          cat,
		intermediate: catalog.IntermediateDirName,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expansion is the expanded form of one project, ready to be written.
type Expansion struct {
	// Dir is the project directory the expansion was read from.
	Dir string

	Info *ProjectInfo

	// Data is the parameters.json content.
	Data *catalog.Data

	// ParameterOrder lists the declared parameters at least one model
	// carries, in declaration order.
	ParameterOrder []string

	PrimaryGroup string
	TableColumns int

	// TitleImage is the part ID whose render opens the catalog.
	TitleImage string

	Recommendations map[string]string
}

// ExpandAll expands every declared project. The project directories
// are resolved relative to root.
func (e *Expander) ExpandAll(root string) ([]*Expansion, error) {
	expansions := make([]*Expansion, 0, len(e.cat.Projects))
	for i := range e.cat.Projects {
		exp, err := e.Expand(root, &e.cat.Projects[i])
		if err != nil {
			return nil, err
		}
		expansions = append(expansions, exp)
	}
	return expansions, nil
}

// Expand scans one project directory and derives the parameter data
// of every model found there.
func (e *Expander) Expand(root string, proj *ProjectDecl) (*Expansion, error) {
	dir := filepath.Join(root, proj.Name)
	e.log.Info("expanding project", zap.String("project", proj.Name))

	info, err := LoadProjectInfo(dir)
	if err != nil {
		return nil, err
	}
	idx, err := scan.Dir(dir, expandExtensions, e.intermediate)
	if err != nil {
		return nil, fmt.Errorf("series: scanning %s: %w", dir, err)
	}

	pattern := e.cat.projectPattern(proj)
	declared := declaredSizes(proj)
	seenSizes := make(map[string]bool)
	seenParts := make(map[string]string)

	var models []*catalog.ModelData
	for _, name := range idx.Names() {
		match := pattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		groups := captureGroups(pattern, match)
		partID := strings.TrimSuffix(name, filepath.Ext(name))
		if other, ok := seenParts[partID]; ok {
			return nil, fmt.Errorf("series: project %s: %s and %s expand to the same part %s",
				proj.Name, other, name, partID)
		}
		seenParts[partID] = name

		model, widthUnits, depthUnits, err := e.expandModel(proj, info, idx, name, partID, groups)
		if err != nil {
			return nil, err
		}

		size := sizeKey(widthUnits, depthUnits)
		if len(declared) > 0 && !declared[size] {
			e.log.Warn("render matches no declared size",
				zap.String("project", proj.Name),
				zap.String("file", name),
				zap.String("size", size))
			continue
		}
		seenSizes[size] = true
		models = append(models, model)
	}

	if len(models) == 0 {
		return nil, fmt.Errorf("series: project %s: no renders match the file pattern: %w",
			proj.Name, catalog.ErrNoModels)
	}
	if err := checkDeclaredSizes(proj, seenSizes); err != nil {
		return nil, err
	}

	sort.Slice(models, func(i, j int) bool { return models[i].PartID < models[j].PartID })

	order, decls := e.usedParameters(models)
	primary := e.cat.projectPrimaryGroup(proj)
	for _, name := range strings.Fields(primary) {
		if !containsName(order, name) {
			return nil, fmt.Errorf("series: project %s: primary group parameter %s carries no values: %w",
				proj.Name, name, catalog.ErrBadConfig)
		}
	}

	exp := &Expansion{
		Dir:  dir,
		Info: info,
		Data: &catalog.Data{
			ComponentName: proj.Name,
			Parameters:    decls,
			Models:        models,
		},
		ParameterOrder:  order,
		PrimaryGroup:    primary,
		TableColumns:    e.cat.projectColumns(proj),
		TitleImage:      e.chooseTitleImage(models),
		Recommendations: e.cat.projectRecommendations(proj),
	}
	e.log.Info("project expanded",
		zap.String("project", proj.Name),
		zap.Int("models", len(models)))
	return exp, nil
}

// expandModel derives one model's values from its matched render name.
func (e *Expander) expandModel(proj *ProjectDecl, info *ProjectInfo, idx *scan.Index,
	name, partID string, groups map[string]string) (*catalog.ModelData, int, int, error) {

	values := make(map[string]any, len(groups)+4)
	for group, raw := range groups {
		if raw != "" {
			values[group] = catalog.ParseValue(raw).Native()
		}
	}

	widthUnits, err := groupUnits(groups, "width", name)
	if err != nil {
		return nil, 0, 0, err
	}
	depthUnits, err := groupUnits(groups, "depth", name)
	if err != nil {
		return nil, 0, 0, err
	}
	values["width"] = e.cat.Raster.Width * widthUnits
	values["depth"] = e.cat.Raster.Depth * depthUnits

	seriesID := groups["series"]
	entry, ok := e.cat.SeriesByID(seriesID)
	if !ok {
		return nil, 0, 0, fmt.Errorf("series: file %s names unknown series %q: %w",
			name, seriesID, catalog.ErrBadConfig)
	}
	values["height"] = entry.Height
	if entry.StackingHeight > 0 {
		values["stacking_height"] = entry.StackingHeight
	} else {
		delete(values, "stacking_height")
	}

	gridLayout, splitModel, known := decodeVariant(groups["variant"])
	if !known {
		e.log.Warn("unknown variant code",
			zap.String("file", name),
			zap.String("variant", groups["variant"]))
	}
	values["grid_layout"] = gridLayout
	values["split_model"] = splitModel

	title, err := info.modelTitle(values)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("series: model %s: %w", partID, err)
	}

	modelFiles := modelFilesFor(idx, partID, splitModel == "Yes")
	if len(modelFiles) == 0 {
		e.log.Warn("no model file found",
			zap.String("project", proj.Name),
			zap.String("part", partID))
	}

	model := &catalog.ModelData{
		PartID:     partID,
		Title:      title,
		ModelFiles: modelFiles,
		ImageFiles: []string{name},
		Parameters: e.declaredValues(values),
	}
	return model, widthUnits, depthUnits, nil
}

// declaredValues keeps the values of declared parameters, dropping
// capture groups nothing in the catalog shows.
func (e *Expander) declaredValues(values map[string]any) map[string]any {
	kept := make(map[string]any, len(e.cat.Params))
	for _, decl := range e.cat.Params {
		if value, ok := values[decl.Name]; ok {
			kept[decl.Name] = value
		}
	}
	return kept
}

// usedParameters returns the declared parameters at least one model
// carries, as order names and data declarations.
func (e *Expander) usedParameters(models []*catalog.ModelData) ([]string, []catalog.ParameterDecl) {
	used := make(map[string]bool)
	for _, model := range models {
		for name := range model.Parameters {
			used[name] = true
		}
	}
	var order []string
	var decls []catalog.ParameterDecl
	for _, p := range e.cat.Params {
		if !used[p.Name] {
			continue
		}
		order = append(order, p.Name)
		decls = append(decls, catalog.ParameterDecl{
			Title: p.Title,
			Name:  p.Name,
			Unit:  p.Unit,
		})
	}
	return order, decls
}

// chooseTitleImage selects the part whose render opens the catalog:
// the model matching the preferred title size when one exists, the
// first part in sorted order otherwise.
func (e *Expander) chooseTitleImage(models []*catalog.ModelData) string {
	size := e.cat.Defaults.TitleImageSize
	if len(size) == 2 {
		for _, model := range models {
			width, okW := asInt(model.Parameters["width"])
			depth, okD := asInt(model.Parameters["depth"])
			if okW && okD && width == size[0] && depth == size[1] {
				return model.PartID
			}
		}
	}
	return models[0].PartID
}

// modelFilesFor finds the printable files of a part. Split models ship
// as several files sharing the part's base name.
func modelFilesFor(idx *scan.Index, partID string, split bool) []string {
	if split {
		base := strings.TrimSuffix(partID, "-S")
		files := idx.Matching(base + "-S*.3mf")
		files = append(files, idx.Matching(base+"-S*.stl")...)
		return files
	}
	for _, ext := range []string{".3mf", ".stl"} {
		if _, ok := idx.Path(partID + ext); ok {
			return []string{partID + ext}
		}
	}
	return nil
}

// decodeVariant translates a part number's variant code into the
// grid_layout and split_model values. The third result reports whether
// the code was recognized.
func decodeVariant(variant string) (gridLayout, splitModel string, known bool) {
	switch {
	case variant == "":
		return "None", "No", true
	case variant == "S":
		return "None", "Yes", true
	case len(variant) > 1 && variant[0] == 'G' && allDigits(variant[1:]):
		return "Grid layout " + variant[1:], "No", true
	default:
		return "None", "No", false
	}
}

// captureGroups maps the named capture groups of a match to their
// values.
func captureGroups(pattern *regexp.Regexp, match []string) map[string]string {
	groups := make(map[string]string)
	for i, name := range pattern.SubexpNames() {
		if name != "" && i < len(match) {
			groups[name] = match[i]
		}
	}
	return groups
}

// groupUnits reads a numeric capture group as raster units.
func groupUnits(groups map[string]string, name, file string) (int, error) {
	raw := groups[name]
	units, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("series: file %s: %s %q is not a number: %w",
			file, name, raw, catalog.ErrBadValue)
	}
	if units < 1 {
		return 0, fmt.Errorf("series: file %s: %s must be at least 1: %w",
			file, name, catalog.ErrBadValue)
	}
	return units, nil
}

// declaredSizes builds the lookup of declared width and depth unit
// combinations.
func declaredSizes(proj *ProjectDecl) map[string]bool {
	declared := make(map[string]bool, len(proj.Sizes))
	for _, size := range proj.Sizes {
		declared[sizeKey(size[0], size[1])] = true
	}
	return declared
}

// checkDeclaredSizes reports every declared combination without a
// matching render.
func checkDeclaredSizes(proj *ProjectDecl, seen map[string]bool) error {
	var missing []string
	for _, size := range proj.Sizes {
		key := sizeKey(size[0], size[1])
		if !seen[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("series: project %s: declared sizes %s have no matching files: %w",
		proj.Name, strings.Join(missing, ", "), catalog.ErrMissingFile)
}

func sizeKey(widthUnits, depthUnits int) string {
	return strconv.Itoa(widthUnits) + "x" + strconv.Itoa(depthUnits)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
