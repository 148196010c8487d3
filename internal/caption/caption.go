// Package caption renders on-screen text into full-frame images for
// the compositor: black text, centered both ways, on a white canvas at
// the run's resolution.
package caption

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/scriptvid/scriptvid/internal/config"
)

// Renderer turns caption text into temp PNG files.
type Renderer struct {
	layout  config.Layout
	face    font.Face
	tempDir string
	files   []string
}

// NewRenderer loads the TTF at fontPath, or falls back to the built-in
// bitmap face when no font is given.
func NewRenderer(layout config.Layout, fontPath string) (*Renderer, error) {
	face, err := loadFace(fontPath, layout.CaptionFontSize)
	if err != nil {
		return nil, err
	}
	return &Renderer{layout: layout, face: face, tempDir: os.TempDir()}, nil
}

func loadFace(fontPath string, sizePt float64) (font.Face, error) {
	if fontPath == "" {
		return basicfont.Face7x13, nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read font %s", fontPath)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse font %s", fontPath)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sizePt, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build face for %s", fontPath)
	}
	return face, nil
}

// Render writes the caption frame for text and returns the PNG path.
// The file is owned by the renderer until Cleanup runs.
func (r *Renderer) Render(text string, res config.Resolution) (string, error) {
	lines := r.Wrap(text, res.Width)

	img := image.NewRGBA(image.Rect(0, 0, res.Width, res.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	metrics := r.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	totalHeight := lineHeight * len(lines)

	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(color.Black), Face: r.face}
	y := (res.Height-totalHeight)/2 + metrics.Ascent.Ceil()
	for _, line := range lines {
		width := drawer.MeasureString(line).Ceil()
		drawer.Dot = fixed.P((res.Width-width)/2, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	outFile := filepath.Join(r.tempDir, "scriptvid_caption_"+uuid.NewString()+".png")
	f, err := os.Create(outFile)
	if err != nil {
		return "", errors.Wrap(err, "failed to create caption image")
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", errors.Wrap(err, "failed to encode caption image")
	}

	r.files = append(r.files, outFile)
	return outFile, nil
}

// Wrap breaks text into display lines per the layout policy: a fixed
// word count per line, or measured pixel width against the frame.
func (r *Renderer) Wrap(text string, frameWidth int) []string {
	if r.layout.CaptionWrapMode == "measure" {
		return wrapByWidth(r.face, text, frameWidth-2*wrapSideMargin)
	}
	return wrapByWords(text, r.layout.CaptionWordsPerLine)
}

// wrapSideMargin keeps measured wrapping off the frame edges.
const wrapSideMargin = 80

func wrapByWords(text string, perLine int) []string {
	words := strings.Fields(text)
	var lines []string
	for i := 0; i < len(words); i += perLine {
		end := i + perLine
		if end > len(words) {
			end = len(words)
		}
		lines = append(lines, strings.Join(words[i:end], " "))
	}
	return lines
}

func wrapByWidth(face font.Face, text string, maxWidth int) []string {
	drawer := &font.Drawer{Face: face}
	var lines []string
	var cur string

	for _, word := range strings.Fields(text) {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if cur != "" && drawer.MeasureString(candidate).Ceil() > maxWidth {
			lines = append(lines, cur)
			cur = word
			continue
		}
		cur = candidate
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// Cleanup removes rendered caption files, best-effort.
func (r *Renderer) Cleanup() {
	for _, f := range r.files {
		_ = os.Remove(f)
	}
	r.files = nil
}
