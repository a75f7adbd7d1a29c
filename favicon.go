// Package favicon converts a logo into the favicon artifacts a website
// serves: a multi-resolution favicon.ico and a 32×32 favicon.png.
package favicon

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~jackmordaunt/favicon/ico"
)

// Config locates the source logo and the artifacts generated from it.
type Config struct {
	// Input is the logo to convert.
	Input string
	// ICO is where the icon container is written.
	ICO string
	// PNG is where the single raster is written.
	PNG string
	// Sizes embedded in the icon container.
	Sizes []int
	// PNGSize is the edge length of the raster.
	PNGSize int
}

// DefaultConfig is the layout of a site root: the logo lives in logo/ and
// the favicons are written beside it.
func DefaultConfig() Config {
	return Config{
		Input:   filepath.Join("logo", "logo.png"),
		ICO:     "favicon.ico",
		PNG:     "favicon.png",
		Sizes:   append([]int(nil), ico.DefaultSizes...),
		PNGSize: 32,
	}
}

func (c Config) validate() error {
	if c.Input == "" || c.ICO == "" || c.PNG == "" {
		return fmt.Errorf("input and output paths must be set")
	}
	if len(c.Sizes) == 0 {
		return fmt.Errorf("no icon sizes")
	}
	for _, size := range append([]int{c.PNGSize}, c.Sizes...) {
		if size < 1 || size > ico.MaxSize {
			return fmt.Errorf("invalid size %d: must be between 1 and %d", size, ico.MaxSize)
		}
	}
	return nil
}

// Artifact is a file produced by a run.
type Artifact struct {
	Path  string
	Sizes []image.Point
}

// Converter turns the configured logo into favicons, narrating progress to
// Out.
type Converter struct {
	Config
	Codec Codec
	Out   io.Writer
}

// Run the conversion.
// Nothing is written unless the logo decodes; each artifact is encoded in
// memory before its file is touched.
func (c Converter) Run() ([]Artifact, error) {
	out := c.Out
	if out == nil {
		out = io.Discard
	}
	if c.Codec == nil {
		return nil, fmt.Errorf("no codec: %w", ErrUnavailable)
	}
	if err := c.Codec.Check(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrUnavailable)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	fmt.Fprintf(out, "generating favicon from %s...\n", c.Input)
	src, err := c.load()
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "loaded %s: %s (%s)\n", c.Input, dim(src.Bounds().Size()), Mode(src))
	img, converted := ToRGBA(src)
	if converted {
		fmt.Fprintf(out, "converted %s to RGBA\n", Mode(src))
	}
	if err := writeFile(c.ICO, func(w io.Writer) error {
		return c.Codec.EncodeICO(w, img, c.Sizes)
	}); err != nil {
		return nil, fmt.Errorf("creating %s: %w", c.ICO, err)
	}
	icoSizes, err := readSizes(c.ICO)
	if err != nil {
		return nil, fmt.Errorf("verifying %s: %w", c.ICO, err)
	}
	fmt.Fprintf(out, "created %s with sizes: %s\n", c.ICO, dims(icoSizes))
	small := c.Codec.Resize(img, c.PNGSize, c.PNGSize)
	if err := writeFile(c.PNG, func(w io.Writer) error {
		return c.Codec.EncodePNG(w, small)
	}); err != nil {
		return nil, fmt.Errorf("creating %s: %w", c.PNG, err)
	}
	pngSize := small.Bounds().Size()
	fmt.Fprintf(out, "created %s (%s)\n", c.PNG, dim(pngSize))
	artifacts := []Artifact{
		{Path: c.ICO, Sizes: icoSizes},
		{Path: c.PNG, Sizes: []image.Point{pngSize}},
	}
	fmt.Fprintf(out, "\nfavicons generated\n\nfiles created:\n")
	for _, a := range artifacts {
		fmt.Fprintf(out, "  - %s (%s)\n", a.Path, dims(a.Sizes))
	}
	return artifacts, nil
}

// load decodes the logo, distinguishing a missing file from everything else.
func (c Converter) load() (image.Image, error) {
	f, err := os.Open(c.Input)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &MissingInputError{Path: c.Input, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("opening logo: %w", err)
	}
	defer f.Close()
	img, _, err := c.Codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.Input, err)
	}
	return img, nil
}

// writeFile buffers the output of encode and then replaces path with it.
func writeFile(path string, encode func(w io.Writer) error) error {
	buffer := bytes.NewBuffer(nil)
	if err := encode(buffer); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return fmt.Errorf("preparing %q: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	if _, err := io.Copy(f, buffer); err != nil {
		f.Close()
		return fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	return nil
}

func readSizes(path string) ([]image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ico.Sizes(f)
}

func dim(p image.Point) string {
	return fmt.Sprintf("%dx%d", p.X, p.Y)
}

func dims(ps []image.Point) string {
	s := make([]string, len(ps))
	for ii, p := range ps {
		s[ii] = dim(p)
	}
	return strings.Join(s, ", ")
}
