// Package timeline interprets script commands in order, maintaining a
// monotonically advancing cursor and producing positioned audiovisual
// layers for the compositor.
package timeline

import (
	"context"

	"github.com/scriptvid/scriptvid/internal/assets"
	"github.com/scriptvid/scriptvid/internal/config"
)

// LayerKind discriminates what a layer contributes to the composite.
type LayerKind int

const (
	// LayerBackground is the single full-run color backdrop.
	LayerBackground LayerKind = iota
	// LayerCharacter is a positioned sprite image.
	LayerCharacter
	// LayerSpeech is an invisible 1x1 carrier holding speech audio.
	LayerSpeech
	// LayerCaption is a full-frame rendered text image with audio.
	LayerCaption
	// LayerVideo is a spliced-in external clip.
	LayerVideo
)

// Layer is one positioned, time-bounded audiovisual unit. Start is
// fixed at creation; Duration is resolved before the layer is appended.
// The background layer is the one exception: its duration stays
// provisional until the end directive finalizes it.
type Layer struct {
	Kind   LayerKind
	Source string // image or video file backing the layer
	Color  string // background layers only

	Start    float64
	Duration float64

	// Audio is a speech clip played from Start, trimmed to
	// AudioDuration when that is shorter than the clip itself.
	Audio         string
	AudioDuration float64

	// Placement, in frame pixels. Full-frame layers cover the whole
	// resolution.
	X, Y          int
	Width, Height int

	FadeIn  float64
	FadeOut float64
}

// End returns the layer's end time on the timeline.
func (l Layer) End() float64 { return l.Start + l.Duration }

// Timeline is the accumulated layer list for one script run. Layer
// order is insertion order and doubles as z-order: later entries draw
// on top.
type Timeline struct {
	Resolution config.Resolution
	Layers     []Layer
}

// Background returns the backdrop layer.
func (t *Timeline) Background() *Layer { return &t.Layers[0] }

// MaxEnd returns the latest end time across all non-background layers.
func (t *Timeline) MaxEnd() float64 {
	var max float64
	for _, l := range t.Layers[1:] {
		if l.End() > max {
			max = l.End()
		}
	}
	return max
}

// Exporter renders a finished timeline to an output file. The builder
// calls it exactly once per run and hands over exclusive ownership of
// the layer list.
type Exporter interface {
	Export(ctx context.Context, t *Timeline, outputPath string, fps int) error
}

// CaptionRenderer turns caption text into a full-frame image file.
type CaptionRenderer interface {
	Render(text string, res config.Resolution) (string, error)
}

// ClipProber reports the intrinsic duration of an external video file.
type ClipProber interface {
	VideoDuration(path string) (float64, error)
}

// SpriteRegistry resolves symbolic character names. *assets.Registry is
// the production implementation; tests inject fakes.
type SpriteRegistry interface {
	Lookup(name string) (assets.Sprite, error)
	AverageSize() (width, height int)
}
