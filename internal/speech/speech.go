// Package speech adapts an external text-to-speech backend into timed
// audio clips for the timeline builder.
package speech

import (
	"context"
	"fmt"
)

// Clip is one synthesized utterance on disk.
type Clip struct {
	Path     string
	Duration float64 // natural length in seconds
}

// Synthesizer converts text into a timed audio clip. Calls block until
// the audio is fully available; the builder resolves auto durations
// from the result before placing the dependent layers.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (Clip, error)
}

// SynthesisError reports a backend failure together with a snippet of
// the failing text.
type SynthesisError struct {
	Text string
	Err  error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("speech synthesis failed for %q: %v", snippet(e.Text), e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

const snippetLen = 40

func snippet(text string) string {
	if len(text) <= snippetLen {
		return text
	}
	return text[:snippetLen] + "..."
}
