// Package script parses declarative video scripts into ordered commands.
// Two grammars are supported: a line-based bracket form and an XML
// markup form. Both produce the same Command sequence.
package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scriptvid/scriptvid/internal/config"
)

// Kind discriminates the command variants.
type Kind int

const (
	KindStart Kind = iota
	KindEmotion
	KindESpeech
	KindTextSpeech
	KindInsert
	KindBackground
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindEmotion:
		return "emotion"
	case KindESpeech:
		return "espeech"
	case KindTextSpeech:
		return "textspeech"
	case KindInsert:
		return "insert"
	case KindBackground:
		return "background"
	case KindEnd:
		return "end"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Command is one parsed script directive. Fields beyond Kind and Line
// are populated per variant and immutable once created.
type Command struct {
	Kind Kind
	Line int // 1-based source line (bracket) or element ordinal (markup)

	// Start
	Seconds     float64 // declared background duration
	Provisional bool    // background duration to be finalized at end
	Resolution  config.Resolution

	// Emotion / ESpeech
	Emotion string

	// ESpeech / TextSpeech
	Text string
	// Duration is the explicit duration; Auto defers it to the
	// synthesized speech length.
	Duration float64
	Auto     bool

	// Insert
	Path string

	// Background
	Color string

	// End
	Output string
	FPS    int
}

// UnknownMode controls what happens on an unrecognized directive name.
type UnknownMode int

const (
	// UnknownIgnore drops the directive silently (bracket-form default).
	UnknownIgnore UnknownMode = iota
	// UnknownWarn logs the directive and skips it (markup-form default).
	UnknownWarn
	// UnknownStrict rejects the script.
	UnknownStrict
)

func parseResolution(s string) (config.Resolution, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return config.Resolution{}, fmt.Errorf("resolution must be WIDTHxHEIGHT, got %q", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return config.Resolution{}, fmt.Errorf("resolution width %q is not a number", parts[0])
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return config.Resolution{}, fmt.Errorf("resolution height %q is not a number", parts[1])
	}
	if w <= 0 || h <= 0 {
		return config.Resolution{}, fmt.Errorf("resolution %q must be positive", s)
	}
	return config.Resolution{Width: w, Height: h}, nil
}

// parseDurationToken handles the explicit-or-auto duration field.
func parseDurationToken(tok string) (seconds float64, auto bool, err error) {
	if strings.EqualFold(tok, "auto") {
		return 0, true, nil
	}
	d, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false, fmt.Errorf("duration %q is not a number or \"auto\"", tok)
	}
	if d < 0 {
		return 0, false, fmt.Errorf("duration %q must not be negative", tok)
	}
	return d, false, nil
}
