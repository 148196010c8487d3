package timeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/scriptvid/scriptvid/internal/config"
	"github.com/scriptvid/scriptvid/internal/log"
	"github.com/scriptvid/scriptvid/internal/script"
	"github.com/scriptvid/scriptvid/internal/speech"
)

// Deps are the collaborators the builder consults while interpreting
// commands. All of them are injectable for tests.
type Deps struct {
	Layout   config.Layout
	Registry SpriteRegistry
	Synth    speech.Synthesizer
	Captions CaptionRenderer
	Prober   ClipProber
}

// Builder interprets commands strictly in order. The cursor starts at 0
// and advances by exactly the resolved duration of the layers each
// command creates; it never moves backward.
type Builder struct {
	deps Deps

	cursor        float64
	resolution    config.Resolution
	layers        []Layer
	bgProvisional bool
	started       bool
	finished      bool
	output        string
	fps           int
}

// NewBuilder creates a builder for one script run.
func NewBuilder(deps Deps) *Builder {
	return &Builder{deps: deps}
}

// Cursor returns the current placement time in seconds.
func (b *Builder) Cursor() float64 { return b.cursor }

// Apply interprets one command, appending 0-2 layers, and returns the
// new cursor value. Commands after the end directive are rejected by
// Run before reaching here.
func (b *Builder) Apply(ctx context.Context, cmd script.Command) (float64, error) {
	if !b.started && cmd.Kind != script.KindStart {
		return b.cursor, errors.Errorf("%s directive before start", cmd.Kind)
	}

	var err error
	switch cmd.Kind {
	case script.KindStart:
		err = b.applyStart(cmd)
	case script.KindBackground:
		err = b.applyBackground(cmd)
	case script.KindEmotion:
		err = b.applyEmotion(cmd)
	case script.KindESpeech:
		err = b.applyESpeech(ctx, cmd)
	case script.KindTextSpeech:
		err = b.applyTextSpeech(ctx, cmd)
	case script.KindInsert:
		err = b.applyInsert(cmd)
	case script.KindEnd:
		err = b.applyEnd(cmd)
	default:
		err = errors.Errorf("unhandled command kind %s", cmd.Kind)
	}
	return b.cursor, err
}

func (b *Builder) applyStart(cmd script.Command) error {
	if b.started {
		// Resolution and background are fixed for the whole run once
		// the start directive is processed.
		return errors.New("start directive may not be redeclared mid-script")
	}
	b.started = true
	b.resolution = cmd.Resolution
	b.bgProvisional = cmd.Provisional
	b.layers = append(b.layers, Layer{
		Kind:     LayerBackground,
		Color:    config.DefaultBackgroundColor,
		Start:    0,
		Duration: cmd.Seconds,
		Width:    cmd.Resolution.Width,
		Height:   cmd.Resolution.Height,
	})
	return nil
}

func (b *Builder) applyBackground(cmd script.Command) error {
	b.layers[0].Color = cmd.Color
	return nil
}

func (b *Builder) applyEmotion(cmd script.Command) error {
	sprite, err := b.deps.Registry.Lookup(cmd.Emotion)
	if err != nil {
		return err
	}
	b.layers = append(b.layers, b.characterLayer(sprite, cmd.Duration))
	b.cursor += cmd.Duration
	return nil
}

func (b *Builder) applyESpeech(ctx context.Context, cmd script.Command) error {
	// Lookup comes first so an unknown character fails before any
	// synthesis work and before the cursor advances.
	sprite, err := b.deps.Registry.Lookup(cmd.Emotion)
	if err != nil {
		return err
	}

	clip, err := b.synthesize(ctx, cmd.Text)
	if err != nil {
		return err
	}

	duration, audioDuration := resolveDuration(cmd, clip)
	start := b.cursor

	b.layers = append(b.layers, b.characterLayer(sprite, duration))
	b.layers = append(b.layers, Layer{
		Kind:          LayerSpeech,
		Start:         start,
		Duration:      audioDuration,
		Audio:         clip.Path,
		AudioDuration: audioDuration,
		Width:         1,
		Height:        1,
	})
	b.cursor += duration
	return nil
}

func (b *Builder) applyTextSpeech(ctx context.Context, cmd script.Command) error {
	clip, err := b.synthesize(ctx, cmd.Text)
	if err != nil {
		return err
	}
	duration, audioDuration := resolveDuration(cmd, clip)

	frame, err := b.deps.Captions.Render(cmd.Text, b.resolution)
	if err != nil {
		return errors.Wrap(err, "failed to render caption")
	}

	b.layers = append(b.layers, Layer{
		Kind:          LayerCaption,
		Source:        frame,
		Start:         b.cursor,
		Duration:      duration,
		Audio:         clip.Path,
		AudioDuration: audioDuration,
		Width:         b.resolution.Width,
		Height:        b.resolution.Height,
		FadeIn:        b.deps.Layout.FadeSeconds,
		FadeOut:       b.deps.Layout.FadeSeconds,
	})
	b.cursor += duration
	return nil
}

func (b *Builder) applyInsert(cmd script.Command) error {
	// An inserted clip keeps its own duration; it is never truncated.
	duration, err := b.deps.Prober.VideoDuration(cmd.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to probe inserted clip %s", cmd.Path)
	}
	b.layers = append(b.layers, Layer{
		Kind:     LayerVideo,
		Source:   cmd.Path,
		Start:    b.cursor,
		Duration: duration,
		Width:    b.resolution.Width,
		Height:   b.resolution.Height,
	})
	b.cursor += duration
	return nil
}

func (b *Builder) applyEnd(cmd script.Command) error {
	if b.bgProvisional {
		b.layers[0].Duration = b.timeline().MaxEnd()
		b.bgProvisional = false
	}
	b.output = cmd.Output
	b.fps = cmd.FPS
	b.finished = true
	return nil
}

// synthesize blocks until the backend has produced the audio; the
// resulting natural duration feeds auto resolution and the paired
// layer geometry.
func (b *Builder) synthesize(ctx context.Context, text string) (speech.Clip, error) {
	clip, err := b.deps.Synth.Synthesize(ctx, text)
	if err != nil {
		log.WithComponent("timeline").Error("speech synthesis failed", "err", err)
		return speech.Clip{}, err
	}
	return clip, nil
}

// resolveDuration applies the explicit-or-auto rule: the layer runs for
// the explicit duration when one is given, else for the speech's
// natural length. Audio never plays past the shorter of the two.
func resolveDuration(cmd script.Command, clip speech.Clip) (duration, audioDuration float64) {
	if cmd.Auto {
		return clip.Duration, clip.Duration
	}
	duration = cmd.Duration
	audioDuration = clip.Duration
	if audioDuration > duration {
		audioDuration = duration
	}
	return duration, audioDuration
}

func (b *Builder) timeline() *Timeline {
	return &Timeline{Resolution: b.resolution, Layers: b.layers}
}

// Run interprets the whole command sequence and exports the finished
// timeline exactly once: at the end directive, or at end-of-script
// using outputOverride and the default fps. outputOverride, when set,
// always wins over the script's own output path. Commands after the
// end directive are not processed.
func (b *Builder) Run(ctx context.Context, cmds []script.Command, exp Exporter, outputOverride string) error {
	for _, cmd := range cmds {
		if b.finished {
			log.WithComponent("timeline").Debug("ignoring directive after end", "kind", cmd.Kind.String())
			continue
		}
		if _, err := b.Apply(ctx, cmd); err != nil {
			return err
		}
	}

	output := b.output
	fps := b.fps
	if outputOverride != "" {
		output = outputOverride
	}
	if !b.finished {
		if output == "" {
			return errors.New("script has no end directive and no output path was given")
		}
		if fps == 0 {
			fps = config.DefaultFPS
		}
		if b.bgProvisional {
			b.layers[0].Duration = b.timeline().MaxEnd()
			b.bgProvisional = false
		}
	}

	t := b.timeline()
	log.WithComponent("timeline").Info("exporting timeline",
		"layers", len(t.Layers), "duration", b.cursor, "output", output, "fps", fps)
	return exp.Export(ctx, t, output, fps)
}
