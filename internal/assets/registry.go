// Package assets maps symbolic emotion names to character sprite files.
// The registry is built once per run and read-only afterward.
package assets

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// averageSampleSize caps how many sprites feed the average-size
// computation, in sorted name order.
const averageSampleSize = 3

// Sprite is one registered character image with its natural pixel size.
type Sprite struct {
	Name   string
	Path   string
	Width  int
	Height int
}

// UnknownAssetError reports a lookup for a name not in the registry.
type UnknownAssetError struct {
	Name  string
	Valid []string
}

func (e *UnknownAssetError) Error() string {
	return fmt.Sprintf("character %q not found; valid characters: %s", e.Name, strings.Join(e.Valid, ", "))
}

// Registry holds the name→sprite map plus a representative average size.
type Registry struct {
	sprites map[string]Sprite
	avgW    int
	avgH    int
}

// Load scans dir for .png sprites and decodes their dimensions. The
// sprite name is the file name without extension. An unreadable
// directory or sprite fails construction.
func Load(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read characters directory %s", dir)
	}

	sprites := make(map[string]Sprite)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		w, h, err := imageSize(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode sprite %s", path)
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		sprites[name] = Sprite{Name: name, Path: path, Width: w, Height: h}
	}

	if len(sprites) == 0 {
		return nil, errors.Errorf("no .png sprites found in %s", dir)
	}

	r := &Registry{sprites: sprites}
	r.avgW, r.avgH = averageSize(sprites)
	return r, nil
}

// Lookup resolves a symbolic name. Unknown names produce an
// UnknownAssetError enumerating the valid names.
func (r *Registry) Lookup(name string) (Sprite, error) {
	s, ok := r.sprites[name]
	if !ok {
		return Sprite{}, &UnknownAssetError{Name: name, Valid: r.Names()}
	}
	return s, nil
}

// Names returns all registered sprite names in sorted order.
func (r *Registry) Names() []string {
	names := maps.Keys(r.sprites)
	slices.Sort(names)
	return names
}

// AverageSize returns the average natural dimensions of the first
// sampled sprites, used as a default display size.
func (r *Registry) AverageSize() (width, height int) {
	return r.avgW, r.avgH
}

// averageSize averages width and height independently over up to
// averageSampleSize sprites, integer-truncated, in sorted name order
// for determinism.
func averageSize(sprites map[string]Sprite) (int, int) {
	names := maps.Keys(sprites)
	slices.Sort(names)
	if len(names) > averageSampleSize {
		names = names[:averageSampleSize]
	}

	var sumW, sumH int
	for _, name := range names {
		sumW += sprites[name].Width
		sumH += sprites[name].Height
	}
	return sumW / len(names), sumH / len(names)
}

func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
