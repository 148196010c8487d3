package timeline

import (
	"github.com/scriptvid/scriptvid/internal/assets"
)

// characterLayer places a sprite in the bottom-right corner at the
// current cursor. The sprite is scaled per the layout policy and inset
// so its right edge sits a constant distance from the frame edge.
func (b *Builder) characterLayer(sprite assets.Sprite, duration float64) Layer {
	w, h := b.characterSize(sprite)
	return Layer{
		Kind:     LayerCharacter,
		Source:   sprite.Path,
		Start:    b.cursor,
		Duration: duration,
		X:        b.resolution.Width - w - b.deps.Layout.CharacterRightInset,
		Y:        b.resolution.Height - h - b.deps.Layout.CharacterBottomMargin,
		Width:    w,
		Height:   h,
	}
}

// characterSize scales the sprite to the registry's average size, or to
// naturalHeight/divisor preserving aspect ratio.
func (b *Builder) characterSize(sprite assets.Sprite) (int, int) {
	if b.deps.Layout.UseAverageSize {
		return b.deps.Registry.AverageSize()
	}
	h := int(float64(sprite.Height) / b.deps.Layout.CharacterHeightDivisor)
	w := sprite.Width * h / sprite.Height
	return w, h
}
