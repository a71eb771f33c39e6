package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// latexMaxRuns caps how often pdflatex is rerun to settle the table of
// contents and cross-references.
const latexMaxRuns = 3

// latexRerunMarker is what pdflatex prints when a further run is
// needed to settle references.
const latexRerunMarker = "Rerun to get cross-references right."

// CompileLaTeX runs pdflatex on the given .tex file, rerunning it
// until the references settle or the run cap is reached. The working
// directory is the file's directory, so the auxiliary files and the
// resulting PDF land next to the source.
func (tc *Toolchain) CompileLaTeX(ctx context.Context, texPath string) error {
	tool, err := tc.Find("pdflatex")
	if err != nil {
		return err
	}
	dir := filepath.Dir(texPath)
	file := filepath.Base(texPath)
	for run := 1; run <= latexMaxRuns; run++ {
		tc.log.Info("compiling document",
			zap.String("file", file),
			zap.Int("run", run))
		res, err := tc.Run(ctx, dir, tool, "-halt-on-error", "-interaction=nonstopmode", file)
		if err != nil {
			if res != nil && res.Output != "" {
				return fmt.Errorf("toolchain: compiling %s: %w\n%s", file, err, tail(res.Output, 30))
			}
			return fmt.Errorf("toolchain: compiling %s: %w", file, err)
		}
		if !needsRerun(res.Output) {
			break
		}
	}
	return nil
}

// needsRerun reports whether the pdflatex output asks for another run.
func needsRerun(output string) bool {
	return strings.Contains(output, latexRerunMarker)
}
