package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RenderOptions defines options for one script-to-video run
type RenderOptions struct {
	ScriptPath    string
	OutputPath    string // overrides the path given in the script's end directive
	CharactersDir string
	ScriptFormat  string // "bracket" or "xml"; inferred from extension when empty
	LayoutPath    string // optional YAML file overriding layout defaults
	FontPath      string // optional TTF for caption rendering
	Verbose       bool
}

// Resolution is a fixed width/height pair for the whole run
type Resolution struct {
	Width  int
	Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

const (
	// Default output resolution when the start directive omits one
	DefaultWidth  = 1920
	DefaultHeight = 1080

	// Default export settings
	DefaultFPS             = 24
	DefaultBackgroundColor = "white"
)

// Layout holds the placement policy for character and caption layers.
// The values mirror the historical behavior of the tool; they are named
// here so the policy can be swapped without touching the interpreter.
type Layout struct {
	// CharacterHeightDivisor scales a character sprite to
	// naturalHeight/divisor when no registry average is used.
	CharacterHeightDivisor float64 `yaml:"character_height_divisor"`

	// UseAverageSize sizes characters to the registry's average
	// sprite size instead of the divisor rule.
	UseAverageSize bool `yaml:"use_average_size"`

	// CharacterBottomMargin is the inset from the bottom frame edge in px.
	CharacterBottomMargin int `yaml:"character_bottom_margin"`

	// CharacterRightInset keeps the sprite's right edge this many px
	// from the frame's right edge.
	CharacterRightInset int `yaml:"character_right_inset"`

	// CaptionFontSize is the point size for caption text.
	CaptionFontSize float64 `yaml:"caption_font_size"`

	// CaptionWordsPerLine breaks caption text after this many words
	// when word-count wrapping is active.
	CaptionWordsPerLine int `yaml:"caption_words_per_line"`

	// CaptionWrapMode selects "words" or "measure" wrapping.
	CaptionWrapMode string `yaml:"caption_wrap_mode"`

	// FadeSeconds is the caption fade-in and fade-out length.
	FadeSeconds float64 `yaml:"fade_seconds"`
}

// DefaultLayout returns the layout policy used when no override file is given.
func DefaultLayout() Layout {
	return Layout{
		CharacterHeightDivisor: 1.4,
		UseAverageSize:         false,
		CharacterBottomMargin:  10,
		CharacterRightInset:    100,
		CaptionFontSize:        70,
		CaptionWordsPerLine:    8,
		CaptionWrapMode:        "words",
		FadeSeconds:            0.5,
	}
}

// LoadLayout reads a YAML layout policy file on top of the defaults.
// Missing keys keep their default values.
func LoadLayout(path string) (Layout, error) {
	layout := DefaultLayout()
	if path == "" {
		return layout, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return layout, errors.Wrapf(err, "failed to read layout file %s", path)
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return layout, errors.Wrapf(err, "failed to parse layout file %s", path)
	}
	if err := layout.Validate(); err != nil {
		return layout, errors.Wrapf(err, "invalid layout file %s", path)
	}

	return layout, nil
}

// Validate checks the layout for values the interpreter cannot work with.
func (l Layout) Validate() error {
	if l.CharacterHeightDivisor <= 0 {
		return fmt.Errorf("character_height_divisor must be positive, got %v", l.CharacterHeightDivisor)
	}
	if l.CaptionWordsPerLine <= 0 {
		return fmt.Errorf("caption_words_per_line must be positive, got %d", l.CaptionWordsPerLine)
	}
	if l.CaptionWrapMode != "words" && l.CaptionWrapMode != "measure" {
		return fmt.Errorf("caption_wrap_mode must be \"words\" or \"measure\", got %q", l.CaptionWrapMode)
	}
	if l.FadeSeconds < 0 {
		return fmt.Errorf("fade_seconds must not be negative, got %v", l.FadeSeconds)
	}
	return nil
}
