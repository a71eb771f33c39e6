package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
	"github.com/LuckyResistor/3d-model-catalog-generator/imgops"
	"github.com/LuckyResistor/3d-model-catalog-generator/label"
	"github.com/LuckyResistor/3d-model-catalog-generator/latex"
	"github.com/LuckyResistor/3d-model-catalog-generator/manifest"
	"github.com/LuckyResistor/3d-model-catalog-generator/scan"
	"github.com/LuckyResistor/3d-model-catalog-generator/table"
	"github.com/LuckyResistor/3d-model-catalog-generator/toolchain"
)

// buildExtensions are the file types the build stage resolves.
var buildExtensions = []string{".jpg", ".png", ".3mf", ".stl"}

// latexAuxExts are the pdflatex by-products removed after a
// successful build.
var latexAuxExts = []string{".aux", ".log", ".toc", ".out"}

// catalogStem names the intermediate document files of a project
// build.
const catalogStem = "catalog"

// Builder runs the build pipeline of model projects.
type Builder struct {
	log          *zap.Logger
	tc           *toolchain.Toolchain
	conv         *imgops.Converter
	intermediate string
	keepTemp     bool
	noPDF        bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger build progress is reported to.
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithToolchain sets the external tool runner.
func WithToolchain(tc *toolchain.Toolchain) Option {
	return func(b *Builder) {
		if tc != nil {
			b.tc = tc
		}
	}
}

// WithConverter sets the image converter.
func WithConverter(conv *imgops.Converter) Option {
	return func(b *Builder) {
		if conv != nil {
			b.conv = conv
		}
	}
}

// WithIntermediateDir overrides the working directory name inside the
// project.
func WithIntermediateDir(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.intermediate = name
		}
	}
}

// WithKeepTemp keeps the rendered LaTeX source and the typesetting
// by-products after the build.
func WithKeepTemp(keep bool) Option {
	return func(b *Builder) {
		b.keepTemp = keep
	}
}

// WithSkipPDF stops the pipeline after rendering the LaTeX source,
// leaving typesetting to the caller.
func WithSkipPDF(skip bool) Option {
	return func(b *Builder) {
		b.noPDF = skip
	}
}

// NewBuilder creates a Builder using functional options. Toolchain and
// converter default to freshly wired instances sharing the builder's
// logger.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		log:          zap.NewNop(),
		intermediate: catalog.IntermediateDirName,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.tc == nil {
		b.tc = toolchain.New(toolchain.WithLogger(b.log))
	}
	if b.conv == nil {
		b.conv = imgops.NewConverter(b.tc, imgops.WithLogger(b.log))
	}
	return b
}

// Result is what one build produced.
type Result struct {
	ComponentName string

	// TexPath is the rendered LaTeX source inside the intermediate
	// directory. Empty once the build cleaned it up.
	TexPath string

	// PDFPath is the finished document, empty when typesetting was
	// skipped.
	PDFPath string
}

// projectInput bundles everything the build stages read from a project
// directory.
type projectInput struct {
	dir   string
	rules *catalog.Rules
	data  *catalog.Data
	res   *catalog.Result
	idx   *scan.Index
}

// load reads and processes a project directory.
func (b *Builder) load(dir string) (*projectInput, error) {
	rules, err := LoadRules(filepath.Join(dir, catalog.ConfigFileName))
	if err != nil {
		return nil, err
	}
	data, err := catalog.LoadData(filepath.Join(dir, catalog.DataFileName))
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	idx, err := scan.Dir(dir, buildExtensions, b.intermediate)
	if err != nil {
		return nil, fmt.Errorf("project: scanning %s: %w", dir, err)
	}
	res, err := catalog.NewProcessor(catalog.WithLogger(b.log)).Process(data, rules)
	if err != nil {
		return nil, fmt.Errorf("project: %s: %w", dir, err)
	}
	return &projectInput{dir: dir, rules: rules, data: data, res: res, idx: idx}, nil
}

// Build runs the full pipeline of one project directory: process the
// data, convert the images, render the document and typeset it.
func (b *Builder) Build(ctx context.Context, dir string) (*Result, error) {
	in, err := b.load(dir)
	if err != nil {
		return nil, err
	}
	b.log.Info("building catalog",
		zap.String("component", in.data.ComponentName),
		zap.Int("models", len(in.res.Models)))

	tmpDir, err := b.ensureIntermediate(dir)
	if err != nil {
		return nil, err
	}
	if err := b.prepareImages(ctx, in, tmpDir); err != nil {
		return nil, err
	}
	titleImage, err := b.titleImage(ctx, in, tmpDir)
	if err != nil {
		return nil, err
	}

	doc := buildDocument(in, titleImage)
	texPath := filepath.Join(tmpDir, catalogStem+".tex")
	if err := renderToFile(texPath, func(f *os.File) error {
		return latex.Render(f, doc)
	}); err != nil {
		return nil, err
	}

	result := &Result{ComponentName: in.data.ComponentName, TexPath: texPath}
	if b.noPDF {
		b.log.Info("typesetting skipped", zap.String("source", texPath))
		return result, nil
	}

	if err := b.tc.CompileLaTeX(ctx, texPath); err != nil {
		return nil, fmt.Errorf("project: %s: %w", in.data.ComponentName, err)
	}
	pdfPath := filepath.Join(dir, in.data.ComponentName+"-catalog.pdf")
	if err := movePDF(filepath.Join(tmpDir, catalogStem+".pdf"), pdfPath); err != nil {
		return nil, err
	}
	result.PDFPath = pdfPath
	if !b.keepTemp {
		b.cleanup(tmpDir, catalogStem)
		result.TexPath = ""
	}
	b.log.Info("catalog built", zap.String("document", pdfPath))
	return result, nil
}

// BuildLabels renders and typesets the label sheet of a project.
func (b *Builder) BuildLabels(ctx context.Context, dir string, symbology label.Symbology, columns int) (*Result, error) {
	in, err := b.load(dir)
	if err != nil {
		return nil, err
	}
	tmpDir, err := b.ensureIntermediate(dir)
	if err != nil {
		return nil, err
	}

	lb := label.NewBuilder(
		label.WithLogger(b.log),
		label.WithSymbology(symbology),
		label.WithColumns(columns),
		label.WithBaseURL(in.rules.QRBaseURL),
	)
	sheet, err := lb.BuildSheet(in.res, tmpDir)
	if err != nil {
		return nil, fmt.Errorf("project: %s: %w", in.data.ComponentName, err)
	}

	texPath := filepath.Join(tmpDir, "labels.tex")
	if err := renderToFile(texPath, func(f *os.File) error {
		return latex.RenderLabels(f, sheet)
	}); err != nil {
		return nil, err
	}

	result := &Result{ComponentName: in.data.ComponentName, TexPath: texPath}
	if b.noPDF {
		b.log.Info("typesetting skipped", zap.String("source", texPath))
		return result, nil
	}
	if err := b.tc.CompileLaTeX(ctx, texPath); err != nil {
		return nil, fmt.Errorf("project: %s: %w", in.data.ComponentName, err)
	}
	pdfPath := filepath.Join(dir, in.data.ComponentName+"-labels.pdf")
	if err := movePDF(filepath.Join(tmpDir, "labels.pdf"), pdfPath); err != nil {
		return nil, err
	}
	result.PDFPath = pdfPath
	if !b.keepTemp {
		b.cleanup(tmpDir, "labels")
		result.TexPath = ""
	}
	b.log.Info("labels built", zap.String("document", pdfPath))
	return result, nil
}

// BuildManifest records the digests of every file the project data
// references and writes them next to the data.
func (b *Builder) BuildManifest(dir string) (*manifest.Manifest, error) {
	data, err := catalog.LoadData(filepath.Join(dir, catalog.DataFileName))
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	idx, err := scan.Dir(dir, buildExtensions, b.intermediate)
	if err != nil {
		return nil, fmt.Errorf("project: scanning %s: %w", dir, err)
	}
	m, err := manifest.Build(data.ComponentName, idx, manifest.CollectFiles(data))
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, manifest.FileName)
	if err := m.Save(path); err != nil {
		return nil, err
	}
	b.log.Info("manifest written",
		zap.String("file", path),
		zap.Int("files", len(m.Files)))
	return m, nil
}

// VerifyManifest checks the project files against the recorded
// manifest.
func (b *Builder) VerifyManifest(dir string) (*manifest.Report, error) {
	m, err := manifest.Load(filepath.Join(dir, manifest.FileName))
	if err != nil {
		return nil, err
	}
	data, err := catalog.LoadData(filepath.Join(dir, catalog.DataFileName))
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	idx, err := scan.Dir(dir, buildExtensions, b.intermediate)
	if err != nil {
		return nil, fmt.Errorf("project: scanning %s: %w", dir, err)
	}
	return manifest.Verify(m, idx, manifest.CollectFiles(data))
}

// ensureIntermediate creates the working directory of a project.
func (b *Builder) ensureIntermediate(dir string) (string, error) {
	tmpDir := filepath.Join(dir, b.intermediate)
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("project: creating %s: %w", tmpDir, err)
	}
	return tmpDir, nil
}

// prepareImages converts every referenced render into the intermediate
// directory and records the converted names on the models. Existing
// conversions are kept, the intermediate directory acts as a cache
// across builds. Missing referenced files fail the build.
func (b *Builder) prepareImages(ctx context.Context, in *projectInput, tmpDir string) error {
	var jobs []imgops.Job
	queued := make(map[string]bool)
	for _, model := range in.res.Models {
		for _, name := range model.ImageFiles {
			src, err := in.idx.Abs(name)
			if err != nil {
				return fmt.Errorf("project: model %s: %w", model.PartID, err)
			}
			converted := convertedName(name)
			model.ImagePaths = append(model.ImagePaths, converted)
			if !queued[converted] {
				queued[converted] = true
				jobs = append(jobs, imgops.Job{Src: src, Dst: filepath.Join(tmpDir, converted)})
			}
		}
		for _, name := range model.ModelFiles {
			if _, err := in.idx.Abs(name); err != nil {
				return fmt.Errorf("project: model %s: %w", model.PartID, err)
			}
		}
	}
	if err := b.conv.ConvertAll(ctx, jobs); err != nil {
		return fmt.Errorf("project: %w", err)
	}

	if in.rules.QRBaseURL == "" {
		return nil
	}
	lb := label.NewBuilder(label.WithLogger(b.log), label.WithBaseURL(in.rules.QRBaseURL))
	for _, model := range in.res.Models {
		name, err := lb.WriteCode(tmpDir, model.PartID)
		if err != nil {
			return fmt.Errorf("project: %w", err)
		}
		model.QRImage = name
	}
	return nil
}

// titleImage resolves the configured title image to its converted
// name. The setting is either a part ID whose render is used, or an
// image file name converted on demand.
func (b *Builder) titleImage(ctx context.Context, in *projectInput, tmpDir string) (string, error) {
	setting := in.rules.TitleImage
	if isImageFile(setting) {
		src, err := in.idx.Abs(filepath.Base(setting))
		if err != nil {
			return "", fmt.Errorf("project: title image: %w", err)
		}
		converted := convertedName(filepath.Base(setting))
		if err := b.conv.Convert(ctx, src, filepath.Join(tmpDir, converted)); err != nil {
			return "", fmt.Errorf("project: title image: %w", err)
		}
		return converted, nil
	}
	for _, model := range in.res.Models {
		if model.PartID == setting {
			if len(model.ImagePaths) == 0 {
				return "", fmt.Errorf("project: title image part %s has no render: %w",
					setting, catalog.ErrMissingFile)
			}
			return model.ImagePaths[0], nil
		}
	}
	return "", fmt.Errorf("project: title image %q matches no part: %w",
		setting, catalog.ErrMissingFile)
}

// buildDocument maps processed catalog data onto the document model.
func buildDocument(in *projectInput, titleImage string) *latex.Document {
	doc := &latex.Document{
		Title:           in.res.Title,
		ComponentName:   in.data.ComponentName,
		Label:           chapterLabel(in.data.ComponentName),
		TitleImage:      titleImage,
		TableColumns:    in.res.TableColumns,
		Recommendations: in.res.Recommendations,
		TableGroups:     table.BuildGroups(in.res),
	}
	for _, group := range in.res.Groups {
		mg := latex.ModelGroup{Title: group.Title}
		for _, model := range group.Models {
			mg.Models = append(mg.Models, modelEntry(in.res, model))
		}
		doc.ModelGroups = append(doc.ModelGroups, mg)
	}
	return doc
}

// modelEntry maps one model onto its document cell. Attribute lines
// follow the parameter declaration order; values the model does not
// carry are left out.
func modelEntry(res *catalog.Result, model *catalog.Model) latex.ModelEntry {
	entry := latex.ModelEntry{
		PartID:     model.PartID,
		Title:      model.Title,
		ModelFiles: model.ModelFiles,
		QRImage:    model.QRImage,
	}
	if len(model.ImagePaths) > 0 {
		entry.Image = model.ImagePaths[0]
	}
	for _, param := range res.Parameters {
		value := model.FormattedValue(param.Name)
		if value == "" {
			continue
		}
		entry.Attributes = append(entry.Attributes, latex.Attribute{
			Title: param.Title,
			Value: value,
		})
	}
	return entry
}

// chapterLabel sanitizes a component name into a LaTeX-safe anchor.
func chapterLabel(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('-')
		}
	}
	return sb.String()
}

// convertedName is the intermediate file name of a converted render.
func convertedName(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return stem + ".jpg"
}

// isImageFile reports whether a title image setting names a file
// rather than a part ID.
func isImageFile(setting string) bool {
	switch strings.ToLower(filepath.Ext(setting)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// renderToFile creates path and hands the file to a render function.
func renderToFile(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("project: creating %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("project: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("project: writing %s: %w", path, err)
	}
	return nil
}

// movePDF moves the typeset document out of the intermediate
// directory.
func movePDF(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("project: moving %s: %w", src, err)
	}
	return nil
}

// cleanup removes the rendered source and the typesetting by-products,
// keeping the converted images as a cache.
func (b *Builder) cleanup(tmpDir, stem string) {
	for _, ext := range append([]string{".tex"}, latexAuxExts...) {
		path := filepath.Join(tmpDir, stem+ext)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			b.log.Warn("cannot remove intermediate file",
				zap.String("file", path), zap.Error(err))
		}
	}
}
