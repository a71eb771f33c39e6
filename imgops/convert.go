// Package imgops prepares catalog images for embedding. Every source
// image is recompressed and bounded to 800x800 pixels so a catalog
// with hundreds of photos still produces a mailable PDF. ImageMagick
// does the work when it is installed; a pure Go resize takes over
// otherwise.
package imgops

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ImageTool is the external conversion capability a Converter
// delegates to, normally a toolchain.Toolchain.
type ImageTool interface {
	HasImageMagick() bool
	ConvertImage(ctx context.Context, src, dst string) error
}

// Converter converts source images into compressed catalog images.
// Existing targets are kept, so repeated builds only convert what is
// new.
type Converter struct {
	log      *zap.Logger
	tool     ImageTool
	parallel int
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger conversions are reported to.
func WithLogger(log *zap.Logger) Option {
	return func(c *Converter) {
		if log != nil {
			c.log = log
		}
	}
}

// WithParallelism bounds how many conversions run at once.
func WithParallelism(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.parallel = n
		}
	}
}

// NewConverter creates a Converter. A nil tool forces the pure Go
// fallback for every conversion.
func NewConverter(tool ImageTool, opts ...Option) *Converter {
	c := &Converter{
		log:      zap.NewNop(),
		tool:     tool,
		parallel: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Job names one source image and where its converted form goes.
type Job struct {
	Src string
	Dst string
}

// Convert produces the compressed form of one image. When the target
// already exists the source is assumed unchanged and the conversion is
// skipped.
func (c *Converter) Convert(ctx context.Context, src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		c.log.Debug("image already converted", zap.String("image", dst))
		return nil
	}
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("imgops: source image: %w", err)
	}
	c.log.Info("converting image", zap.String("image", src))
	if c.tool != nil && c.tool.HasImageMagick() {
		return c.tool.ConvertImage(ctx, src, dst)
	}
	return fallbackConvert(src, dst)
}

// ConvertAll runs the conversions with bounded parallelism and stops
// at the first failure.
func (c *Converter) ConvertAll(ctx context.Context, jobs []Job) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallel)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			return c.Convert(ctx, job.Src, job.Dst)
		})
	}
	return g.Wait()
}
