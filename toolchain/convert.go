package toolchain

import (
	"context"
	"fmt"
)

// HasImageMagick reports whether an ImageMagick binary is installed,
// preferring the v7 "magick" name over the legacy "convert".
func (tc *Toolchain) HasImageMagick() bool {
	return tc.Has("magick", "convert")
}

// ConvertImage recompresses and resizes a catalog image with
// ImageMagick. The settings trade visual quality for a small file:
// the PDF embeds many of these and stays mailable that way.
func (tc *Toolchain) ConvertImage(ctx context.Context, src, dst string) error {
	tool, err := tc.Find("magick", "convert")
	if err != nil {
		return err
	}
	args := []string{
		src,
		"-compress", "jpeg2000",
		"-quality", "50",
		"-resize", "800x800",
		dst,
	}
	res, err := tc.Run(ctx, "", tool, args...)
	if err != nil {
		if res != nil && res.Output != "" {
			return fmt.Errorf("toolchain: converting %s: %w\n%s", src, err, tail(res.Output, 10))
		}
		return fmt.Errorf("toolchain: converting %s: %w", src, err)
	}
	return nil
}
