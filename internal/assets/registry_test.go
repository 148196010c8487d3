package assets

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSprite(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestLoadAndLookup(t *testing.T) {
	dir := t.TempDir()
	writeSprite(t, dir, "happy.png", 400, 600)
	writeSprite(t, dir, "sad.png", 420, 640)

	r, err := Load(dir)
	require.NoError(t, err)

	sprite, err := r.Lookup("happy")
	require.NoError(t, err)
	assert.Equal(t, "happy", sprite.Name)
	assert.Equal(t, 400, sprite.Width)
	assert.Equal(t, 600, sprite.Height)

	assert.Equal(t, []string{"happy", "sad"}, r.Names())
}

func TestLookupUnknownName(t *testing.T) {
	dir := t.TempDir()
	writeSprite(t, dir, "happy.png", 400, 600)
	writeSprite(t, dir, "sad.png", 400, 600)

	r, err := Load(dir)
	require.NoError(t, err)

	_, err = r.Lookup("gleeful")
	var unknownErr *UnknownAssetError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "gleeful", unknownErr.Name)
	assert.Equal(t, []string{"happy", "sad"}, unknownErr.Valid)
	assert.Contains(t, err.Error(), "happy")
	assert.Contains(t, err.Error(), "sad")
}

func TestAverageSizeSamplesFirstThree(t *testing.T) {
	dir := t.TempDir()
	// Sorted name order: anger, frown, happy, zany; only the first
	// three feed the average.
	writeSprite(t, dir, "anger.png", 100, 200)
	writeSprite(t, dir, "frown.png", 110, 210)
	writeSprite(t, dir, "happy.png", 121, 221)
	writeSprite(t, dir, "zany.png", 900, 900)

	r, err := Load(dir)
	require.NoError(t, err)

	w, h := r.AverageSize()
	assert.Equal(t, 110, w, "(100+110+121)/3 truncates to 110")
	assert.Equal(t, 210, h, "(200+210+221)/3 truncates to 210")
}

func TestAverageSizeFewerThanThree(t *testing.T) {
	dir := t.TempDir()
	writeSprite(t, dir, "happy.png", 100, 200)

	r, err := Load(dir)
	require.NoError(t, err)

	w, h := r.AverageSize()
	assert.Equal(t, 100, w)
	assert.Equal(t, 200, h)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestLoadEmptyDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestLoadIgnoresNonPNG(t *testing.T) {
	dir := t.TempDir()
	writeSprite(t, dir, "happy.png", 100, 200)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	r, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"happy"}, r.Names())
}
