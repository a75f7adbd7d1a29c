package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.sr.ht/~jackmordaunt/favicon"
)

// chdir into a fresh directory for the duration of the test.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeLogo(t *testing.T) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), A: 0xff})
		}
	}
	if err := os.MkdirAll("logo", 0777); err != nil {
		t.Fatalf("preparing logo dir: %v", err)
	}
	f, err := os.Create(filepath.Join("logo", "logo.png"))
	if err != nil {
		t.Fatalf("creating logo: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding logo: %v", err)
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		Name   string
		Logo   bool
		Codec  favicon.Codec
		Output []string
		Files  bool
	}{
		{
			Name:  "ok",
			Logo:  true,
			Codec: favicon.NewCodec(),
			Output: []string{
				"loaded " + filepath.Join("logo", "logo.png") + ": 64x64 (RGBA)",
				"  - favicon.ico (16x16, 32x32, 48x48, 64x64)",
				"  - favicon.png (32x32)",
			},
			Files: true,
		},
		{
			Name:   "missing logo",
			Codec:  favicon.NewCodec(),
			Output: []string{"error: " + filepath.Join("logo", "logo.png") + " not found"},
		},
		{
			Name:   "no codec",
			Logo:   true,
			Output: []string{"install the converter with", "https://favicon.io/favicon-converter/"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			chdir(t)
			if tt.Logo {
				writeLogo(t)
			}
			out := bytes.NewBuffer(nil)
			run(out, tt.Codec)
			for _, want := range tt.Output {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, name := range []string{"favicon.ico", "favicon.png"} {
				_, err := os.Stat(name)
				if got := err == nil; got != tt.Files {
					t.Errorf("%s exists=%v, want=%v", name, got, tt.Files)
				}
			}
		})
	}
}
