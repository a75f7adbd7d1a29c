// Package ico encodes multi-resolution icon containers.
//
// Each rendering is stored as a PNG payload, which every browser that
// understands favicon.ico accepts.
package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"

	rsrcico "github.com/akavel/rsrc/ico"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// MaxSize is the largest edge an icon entry can describe.
const MaxSize = 256

// DefaultSizes are the renderings embedded in a favicon.
var DefaultSizes = []int{16, 32, 48, 64}

type container struct {
	Header descriptor
	Data   []byte
}

type header struct {
	_          uint16
	ImageType  uint16
	ImageCount uint16
}

type descriptor struct {
	Width  uint8
	Height uint8
	_      uint8 // colors
	_      uint8
	Planes uint16
	BPP    uint16
	Size   uint32
	Offset uint32
}

// Encoder renders a source image at each size and packs the renderings into
// a single icon container.
type Encoder struct {
	// Sizes lists the square edge lengths to embed, in write order.
	Sizes []int
	// Interpolation used to scale the source.
	Interpolation resize.InterpolationFunction
}

// Encode src into dst as an icon embedding each of sizes.
// If sizes is empty DefaultSizes are used.
func Encode(dst io.Writer, src image.Image, sizes ...int) error {
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}
	return Encoder{Sizes: sizes, Interpolation: resize.Lanczos3}.Encode(dst, src)
}

// Encode src into dst.
func (e Encoder) Encode(dst io.Writer, src image.Image) error {
	if len(e.Sizes) == 0 {
		return fmt.Errorf("no sizes specified")
	}
	if b := src.Bounds(); b.Dx() < 1 || b.Dy() < 1 {
		return fmt.Errorf("empty source image %v", b)
	}
	icons := make([]container, 0, len(e.Sizes))
	for _, size := range e.Sizes {
		if size < 1 || size > MaxSize {
			return fmt.Errorf("invalid icon size %d: must be between 1 and %d", size, MaxSize)
		}
		buffer := bytes.NewBuffer(nil)
		if err := png.Encode(buffer, e.render(src, size)); err != nil {
			return fmt.Errorf("encoding png data into ico: %w", err)
		}
		imgSize := size
		if imgSize >= MaxSize {
			imgSize = 0
		}
		data := buffer.Bytes()
		icons = append(icons, container{
			Header: descriptor{
				Width:  uint8(imgSize),
				Height: uint8(imgSize),
				Planes: 1,
				BPP:    32,
				Size:   uint32(len(data)),
			},
			Data: data,
		})
	}
	if err := binary.Write(dst, binary.LittleEndian, header{
		ImageType:  1,
		ImageCount: uint16(len(icons)),
	}); err != nil {
		return fmt.Errorf("writing ico header: %w", err)
	}
	offset := uint32(6 + 16*len(icons))
	for _, icon := range icons {
		icon.Header.Offset = offset
		if err := binary.Write(dst, binary.LittleEndian, icon.Header); err != nil {
			return fmt.Errorf("writing icon headers: %w", err)
		}
		offset += icon.Header.Size
	}
	for _, icon := range icons {
		if _, err := dst.Write(icon.Data); err != nil {
			return fmt.Errorf("writing icon data: %w", err)
		}
	}
	return nil
}

// render scales src to fit a size×size square, centred on a transparent
// canvas so non-square logos keep their proportions.
func (e Encoder) render(src image.Image, size int) *image.NRGBA {
	var (
		rect   = image.Rect(0, 0, size, size)
		canvas = image.NewNRGBA(rect)
		w, h   = fit(src.Bounds().Dx(), src.Bounds().Dy(), size)
		scaled = resize.Resize(uint(w), uint(h), src, e.Interpolation)
		at     = image.Pt((size-w)/2, (size-h)/2)
	)
	draw.Draw(canvas, image.Rectangle{Min: at, Max: at.Add(image.Pt(w, h))}, scaled, scaled.Bounds().Min, draw.Src)
	return canvas
}

// fit the w×h rectangle inside a size×size square, preserving aspect ratio.
// Neither edge rounds below one pixel.
func fit(w, h, size int) (int, int) {
	if w == h {
		return size, size
	}
	if w > h {
		fh := (h*size + w/2) / w
		if fh < 1 {
			fh = 1
		}
		return size, fh
	}
	fw := (w*size + h/2) / h
	if fw < 1 {
		fw = 1
	}
	return fw, size
}

// Sizes reads the directory of an icon container and reports the dimensions
// of every embedded rendering, in stored order.
func Sizes(r io.Reader) ([]image.Point, error) {
	entries, err := rsrcico.DecodeHeaders(r)
	if err != nil {
		return nil, fmt.Errorf("decoding ico headers: %w", err)
	}
	sizes := make([]image.Point, 0, len(entries))
	for _, entry := range entries {
		sizes = append(sizes, image.Pt(edge(entry.Width), edge(entry.Height)))
	}
	return sizes, nil
}

// edge expands the stored byte, where 0 stands for MaxSize.
func edge(b byte) int {
	if b == 0 {
		return MaxSize
	}
	return int(b)
}
