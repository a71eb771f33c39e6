// Command catalog-gen builds printable PDF catalogs for collections of
// 3D-printable models.
//
// # Installation
//
//	go install github.com/LuckyResistor/3d-model-catalog-generator/cmd/catalog-gen@latest
//
// Building documents additionally needs pdflatex on the PATH; image
// conversion uses ImageMagick when installed and falls back to a
// built-in converter otherwise. Run "catalog-gen doctor" to check the
// setup.
//
// # Commands
//
//   - expand: generate the project data files from a series catalog
//   - build: build the catalog PDF of one project
//   - super: build the combined catalog of several projects
//   - labels: build a printable label sheet of a project
//   - manifest: record the digests of the files a project references
//   - verify: check the project files against the recorded manifest
//   - watch: rebuild a project whenever its files change
//   - doctor: report whether the external tools are installed
//
// A project directory holds the model data (parameters.json), the
// formatting rules (config.ini), the model renders and the printable
// model files. The generated documents are placed next to them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	catalog "github.com/LuckyResistor/3d-model-catalog-generator"
	"github.com/LuckyResistor/3d-model-catalog-generator/label"
	"github.com/LuckyResistor/3d-model-catalog-generator/manifest"
	"github.com/LuckyResistor/3d-model-catalog-generator/project"
	"github.com/LuckyResistor/3d-model-catalog-generator/series"
	"github.com/LuckyResistor/3d-model-catalog-generator/toolchain"
)

var (
	// Global flags.
	verbose      bool
	intermediate string

	// Build flags.
	keepTemp bool
	noPDF    bool

	// Expand flags.
	projectName string
	dryRun      bool

	// Label flags.
	symbologyName string
	labelColumns  int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catalog-gen",
	Short: "Generate PDF catalogs for 3D-printable model collections",
	Long: `catalog-gen turns directories of 3D-printable models into printable
PDF catalogs: it expands a series catalog into per-project data files,
converts the model renders, renders LaTeX documents and typesets them
with pdflatex.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var expandCmd = &cobra.Command{
	Use:   "expand [catalog-dir]",
	Short: "Generate the project data files from a series catalog",
	Long: `Reads catalog.toml in the given directory, matches the render files of
every listed project against the part ID pattern and writes the
parameters.json data file per project. A missing config.ini is created
with the catalog defaults; an existing one is left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExpand,
}

var buildCmd = &cobra.Command{
	Use:   "build [project-dir]",
	Short: "Build the catalog PDF of one project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

var superCmd = &cobra.Command{
	Use:   "super [root-dir]",
	Short: "Build the combined catalog of several projects",
	Long: `Reads config.ini in the given directory, builds every listed
sub-project as a chapter and typesets them into a single document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuper,
}

var labelsCmd = &cobra.Command{
	Use:   "labels [project-dir]",
	Short: "Build a printable label sheet of a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLabels,
}

var manifestCmd = &cobra.Command{
	Use:   "manifest [project-dir]",
	Short: "Record the digests of the files a project references",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runManifest,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [project-dir]",
	Short: "Check the project files against the recorded manifest",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVerify,
}

var watchCmd = &cobra.Command{
	Use:   "watch [project-dir]",
	Short: "Rebuild a project whenever its files change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report whether the external tools are installed",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&intermediate, "intermediate", catalog.IntermediateDirName,
		"Name of the working directory inside the project")

	for _, cmd := range []*cobra.Command{buildCmd, superCmd, labelsCmd} {
		cmd.Flags().BoolVar(&keepTemp, "keep-temp", false, "Keep the rendered LaTeX source and by-products")
		cmd.Flags().BoolVar(&noPDF, "no-pdf", false, "Stop after rendering the LaTeX source")
	}
	expandCmd.Flags().StringVar(&projectName, "project", "", "Expand only the named project")
	expandCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Expand without writing the project files")
	labelsCmd.Flags().StringVar(&symbologyName, "symbology", "qr", "Code symbology: qr, code128 or pdf417")
	labelsCmd.Flags().IntVar(&labelColumns, "columns", 3, "Labels per row")

	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(superCmd)
	rootCmd.AddCommand(labelsCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(doctorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dirArg returns the directory argument, defaulting to the current
// directory.
func dirArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// newBuilder wires a project builder from the command line flags.
func newBuilder() *project.Builder {
	return project.NewBuilder(
		project.WithLogger(logger),
		project.WithIntermediateDir(intermediate),
		project.WithKeepTemp(keepTemp),
		project.WithSkipPDF(noPDF),
	)
}

// signalContext returns a context cancelled by SIGINT or SIGTERM, so
// external tools are stopped and partial output is not left behind.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func runExpand(cmd *cobra.Command, args []string) error {
	root := dirArg(args)
	cat, err := series.Load(filepath.Join(root, series.CatalogFileName))
	if err != nil {
		return err
	}
	expander := series.NewExpander(cat,
		series.WithLogger(logger),
		series.WithIntermediateDir(intermediate))

	var expansions []*series.Expansion
	if projectName != "" {
		proj, ok := cat.Project(projectName)
		if !ok {
			return fmt.Errorf("catalog has no project %q", projectName)
		}
		exp, err := expander.Expand(root, proj)
		if err != nil {
			return err
		}
		expansions = append(expansions, exp)
	} else {
		if expansions, err = expander.ExpandAll(root); err != nil {
			return err
		}
	}
	for _, exp := range expansions {
		if !dryRun {
			if err := expander.WriteProject(exp); err != nil {
				return err
			}
		}
		fmt.Printf("%s: %d models\n", exp.Data.ComponentName, len(exp.Data.Models))
	}
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	result, err := newBuilder().Build(ctx, dirArg(args))
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func runSuper(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	result, err := newBuilder().BuildSuper(ctx, dirArg(args))
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func runLabels(cmd *cobra.Command, args []string) error {
	symbology, err := label.ParseSymbology(symbologyName)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	result, err := newBuilder().BuildLabels(ctx, dirArg(args), symbology, labelColumns)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func printResult(result *project.Result) {
	if result.PDFPath != "" {
		fmt.Println(result.PDFPath)
		return
	}
	fmt.Println(result.TexPath)
}

func runManifest(cmd *cobra.Command, args []string) error {
	dir := dirArg(args)
	m, err := newBuilder().BuildManifest(dir)
	if err != nil {
		return err
	}
	fmt.Printf("%s: recorded %d files\n", filepath.Join(dir, manifest.FileName), len(m.Files))
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	report, err := newBuilder().VerifyManifest(dirArg(args))
	if err != nil {
		return err
	}
	for _, name := range report.Missing {
		fmt.Printf("missing    %s\n", name)
	}
	for _, name := range report.Modified {
		fmt.Printf("modified   %s\n", name)
	}
	for _, name := range report.Untracked {
		fmt.Printf("untracked  %s\n", name)
	}
	if !report.Clean() {
		return fmt.Errorf("%d missing, %d modified, %d untracked",
			len(report.Missing), len(report.Modified), len(report.Untracked))
	}
	fmt.Println("all files match the manifest")
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	return newBuilder().Watch(ctx, dirArg(args))
}

func runDoctor(cmd *cobra.Command, args []string) error {
	missing := 0
	for _, status := range toolchain.New(toolchain.WithLogger(logger)).Doctor() {
		if status.Found {
			fmt.Printf("%-10s %s\n", status.Name, status.Path)
		} else {
			fmt.Printf("%-10s not found\n", status.Name)
			missing++
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d tools missing", missing)
	}
	return nil
}
