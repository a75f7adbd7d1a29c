package favicon

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"git.sr.ht/~jackmordaunt/favicon/ico"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"

	// Decoders for every source format we accept.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Codec is the image capability the converter depends on: decoding,
// resampling and encoding to both output formats.
type Codec interface {
	// Check reports whether the codec is usable at all.
	Check() error
	// Decode an image, returning the name of the format it was stored in.
	Decode(r io.Reader) (image.Image, string, error)
	// Resize src to exactly width×height.
	Resize(src image.Image, width, height int) image.Image
	// EncodeICO writes src as an icon container embedding each size.
	EncodeICO(w io.Writer, src image.Image, sizes []int) error
	// EncodePNG writes src as a compressed PNG.
	EncodePNG(w io.Writer, src image.Image) error
}

// NewCodec returns the default codec which resamples with Lanczos3.
func NewCodec() Codec {
	return lanczos{
		png: png.Encoder{CompressionLevel: png.BestCompression},
	}
}

type lanczos struct {
	png png.Encoder
}

// Check round trips a single pixel through every stage.
func (c lanczos) Check() error {
	probe := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	probe.SetNRGBA(0, 0, color.NRGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf, probe); err != nil {
		return fmt.Errorf("encoding probe: %w", err)
	}
	img, format, err := c.Decode(&buf)
	if err != nil {
		return fmt.Errorf("decoding probe: %w", err)
	}
	if format != "png" {
		return fmt.Errorf("probe decoded as %q", format)
	}
	if b := c.Resize(img, 2, 2).Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		return fmt.Errorf("resampling probe: got %dx%d", b.Dx(), b.Dy())
	}
	return nil
}

func (lanczos) Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

func (lanczos) Resize(src image.Image, width, height int) image.Image {
	return resize.Resize(uint(width), uint(height), src, resize.Lanczos3)
}

func (lanczos) EncodeICO(w io.Writer, src image.Image, sizes []int) error {
	return ico.Encoder{Sizes: sizes, Interpolation: resize.Lanczos3}.Encode(w, src)
}

func (c lanczos) EncodePNG(w io.Writer, src image.Image) error {
	return c.png.Encode(w, src)
}

// ToRGBA returns src with an alpha channel.
// Images that already carry straight or premultiplied alpha are returned as
// is; anything else is copied into a new NRGBA, fully opaque where the source
// was.
func ToRGBA(src image.Image) (image.Image, bool) {
	switch src.(type) {
	case *image.NRGBA, *image.RGBA:
		return src, false
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, true
}

// Mode names the colour model of img the way image tools usually do.
func Mode(img image.Image) string {
	switch img.(type) {
	case *image.NRGBA, *image.RGBA:
		return "RGBA"
	case *image.NRGBA64, *image.RGBA64:
		return "RGBA64"
	case *image.Gray, *image.Gray16:
		return "L"
	case *image.Paletted:
		return "P"
	case *image.CMYK:
		return "CMYK"
	case *image.YCbCr:
		return "YCbCr"
	case *image.NYCbCrA:
		return "YCbCrA"
	case *image.Alpha, *image.Alpha16:
		return "A"
	}
	return "RGB"
}
