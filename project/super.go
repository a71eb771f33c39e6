package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
	"github.com/LuckyResistor/3d-model-catalog-generator/latex"
)

// superStem names the intermediate files of a combined catalog build.
const superStem = "catalog"

// BuildSuper builds the combined catalog of several projects: every
// sub-project renders as one chapter into a shared intermediate
// directory, a wrapping document pulls the chapters in, and pdflatex
// typesets the whole into a single PDF at the root.
func (b *Builder) BuildSuper(ctx context.Context, root string) (*Result, error) {
	cfg, err := LoadSuper(filepath.Join(root, catalog.ConfigFileName))
	if err != nil {
		return nil, err
	}
	b.log.Info("building combined catalog",
		zap.String("title", cfg.Title),
		zap.Int("projects", len(cfg.SubProjects)))

	tmpDir, err := b.ensureIntermediate(root)
	if err != nil {
		return nil, err
	}

	super := &latex.SuperDocument{Title: cfg.Title}
	if cfg.TitleImage != "" {
		converted, err := b.convertRootImage(ctx, root, tmpDir, cfg.TitleImage)
		if err != nil {
			return nil, err
		}
		super.TitleImage = converted
	}

	for _, name := range cfg.SubProjects {
		chapter, err := b.buildChapter(ctx, root, name, tmpDir)
		if err != nil {
			return nil, err
		}
		super.Chapters = append(super.Chapters, *chapter)
	}

	texPath := filepath.Join(tmpDir, superStem+".tex")
	if err := renderToFile(texPath, func(f *os.File) error {
		return latex.RenderSuper(f, super)
	}); err != nil {
		return nil, err
	}

	result := &Result{ComponentName: cfg.Title, TexPath: texPath}
	if b.noPDF {
		b.log.Info("typesetting skipped", zap.String("source", texPath))
		return result, nil
	}
	if err := b.tc.CompileLaTeX(ctx, texPath); err != nil {
		return nil, fmt.Errorf("project: combined catalog: %w", err)
	}
	pdfPath := filepath.Join(root, cfg.PDFName)
	if err := movePDF(filepath.Join(tmpDir, superStem+".pdf"), pdfPath); err != nil {
		return nil, err
	}
	result.PDFPath = pdfPath
	if !b.keepTemp {
		b.cleanup(tmpDir, superStem)
		for _, chapter := range super.Chapters {
			b.cleanup(tmpDir, chapterStem(chapter.FileName))
		}
		result.TexPath = ""
	}
	b.log.Info("combined catalog built", zap.String("document", pdfPath))
	return result, nil
}

// buildChapter runs one sub-project up to its chapter fragment,
// converting its images into the shared intermediate directory.
func (b *Builder) buildChapter(ctx context.Context, root, name, tmpDir string) (*latex.Chapter, error) {
	dir := filepath.Join(root, name)
	in, err := b.load(dir)
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
	fileName := name + ".tex"
	texPath := filepath.Join(tmpDir, fileName)
	if err := renderToFile(texPath, func(f *os.File) error {
		return latex.RenderChapter(f, doc)
	}); err != nil {
		return nil, err
	}
	b.log.Info("chapter rendered",
		zap.String("component", in.data.ComponentName),
		zap.String("file", fileName))
	return &latex.Chapter{
		Title:      doc.Title,
		Label:      doc.Label,
		TitleImage: titleImage,
		FileName:   fileName,
	}, nil
}

// convertRootImage converts an image referenced from the root
// configuration into the shared intermediate directory.
func (b *Builder) convertRootImage(ctx context.Context, root, tmpDir, setting string) (string, error) {
	src := filepath.Join(root, filepath.FromSlash(setting))
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("project: title image %s: %w", setting, err)
	}
	converted := convertedName(filepath.Base(setting))
	if err := b.conv.Convert(ctx, src, filepath.Join(tmpDir, converted)); err != nil {
		return "", fmt.Errorf("project: title image: %w", err)
	}
	return converted, nil
}

// chapterStem strips the .tex extension of a chapter file name.
func chapterStem(fileName string) string {
	return fileName[:len(fileName)-len(filepath.Ext(fileName))]
}
