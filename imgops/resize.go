package imgops

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"

	// Register the decoders for the image formats a model project may
	// carry. Output is always JPEG.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Conversion targets matching the ImageMagick settings: images are
// bounded to maxImageSize pixels per side and encoded as JPEG with
// jpegQuality.
const (
	maxImageSize = 800
	jpegQuality  = 50
)

// fallbackConvert resizes and recompresses one image without
// ImageMagick. The result is a plain JPEG rather than a JPEG 2000
// stream, slightly larger but embeddable all the same.
func fallbackConvert(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("imgops: opening %s: %w", src, err)
	}
	defer in.Close()
	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("imgops: decoding %s: %w", src, err)
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxImageSize)
	if width != bounds.Dx() || height != bounds.Dy() {
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		img = scaled
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("imgops: creating %s: %w", dst, err)
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		out.Close()
		return fmt.Errorf("imgops: encoding %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("imgops: writing %s: %w", dst, err)
	}
	return nil
}

// fitWithin shrinks the dimensions proportionally until both fit into
// max. Images already small enough keep their size.
func fitWithin(width, height, max int) (int, int) {
	if width <= max && height <= max {
		return width, height
	}
	if width >= height {
		height = height * max / width
		width = max
	} else {
		width = width * max / height
		height = max
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
