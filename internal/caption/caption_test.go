package caption

import (
	"image"
	_ "image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"

	"github.com/scriptvid/scriptvid/internal/config"
)

func TestWrapByWords(t *testing.T) {
	lines := wrapByWords("one two three four five six seven", 3)
	assert.Equal(t, []string{"one two three", "four five six", "seven"}, lines)
}

func TestWrapByWordsShortText(t *testing.T) {
	lines := wrapByWords("Hello world", 8)
	assert.Equal(t, []string{"Hello world"}, lines)
}

func TestWrapByWidth(t *testing.T) {
	// Face7x13 advances 7px per glyph, so 60px fits about 8 glyphs.
	lines := wrapByWidth(basicfont.Face7x13, "aaaa bbbb cccc", 60)
	assert.Equal(t, []string{"aaaa", "bbbb", "cccc"}, lines)

	lines = wrapByWidth(basicfont.Face7x13, "aa bb", 60)
	assert.Equal(t, []string{"aa bb"}, lines)
}

func TestWrapByWidthLongWordKeptWhole(t *testing.T) {
	lines := wrapByWidth(basicfont.Face7x13, "supercalifragilistic yes", 60)
	require.Len(t, lines, 2)
	assert.Equal(t, "supercalifragilistic", lines[0])
}

func TestRenderProducesFrameSizedPNG(t *testing.T) {
	r, err := NewRenderer(config.DefaultLayout(), "")
	require.NoError(t, err)
	defer r.Cleanup()

	res := config.Resolution{Width: 320, Height: 240}
	path, err := r.Render("Hello world", res)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
}

func TestCleanupRemovesFiles(t *testing.T) {
	r, err := NewRenderer(config.DefaultLayout(), "")
	require.NoError(t, err)

	path, err := r.Render("bye", config.Resolution{Width: 100, Height: 100})
	require.NoError(t, err)

	r.Cleanup()
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRendererMissingFont(t *testing.T) {
	_, err := NewRenderer(config.DefaultLayout(), "/nonexistent/font.ttf")
	require.Error(t, err)
}
