// Package render composites a finished timeline into a single output
// file through ffmpeg. It is the only place that touches encoding.
package render

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/scriptvid/scriptvid/internal/log"
	"github.com/scriptvid/scriptvid/internal/media"
	"github.com/scriptvid/scriptvid/internal/timeline"
)

// ExportFormatError reports an output path whose container format the
// exporter cannot write. The CLI maps it to exit status 1.
type ExportFormatError struct {
	Path string
}

func (e *ExportFormatError) Error() string {
	return fmt.Sprintf("unsupported output format %q: try a different file type (e.g. .mp4)", filepath.Ext(e.Path))
}

var supportedExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

// FFmpegExporter implements timeline.Exporter with one ffmpeg
// invocation per run.
type FFmpegExporter struct {
	verbose bool
}

// NewExporter creates an FFmpegExporter.
func NewExporter(verbose bool) *FFmpegExporter {
	return &FFmpegExporter{verbose: verbose}
}

// Export builds a single filter graph from the layer list, in insertion
// order so later layers draw on top, and encodes the result. It takes
// exclusive ownership of the timeline; layers must not be mutated once
// it is called.
func (e *FFmpegExporter) Export(ctx context.Context, t *timeline.Timeline, outputPath string, fps int) error {
	ext := strings.ToLower(filepath.Ext(outputPath))
	if !supportedExtensions[ext] {
		return &ExportFormatError{Path: outputPath}
	}

	bg := t.Background()
	video := backgroundSource(bg, t, fps)

	var audioStreams []*ffmpeg.Stream
	for _, layer := range t.Layers[1:] {
		switch layer.Kind {
		case timeline.LayerCharacter, timeline.LayerCaption:
			video = overlayImage(video, layer, fps)
		case timeline.LayerVideo:
			video = overlayClip(video, layer)
			audioStreams = append(audioStreams, clipAudio(layer))
		case timeline.LayerSpeech:
			// Invisible carrier: only its audio contributes.
		}
		if layer.Audio != "" {
			audioStreams = append(audioStreams, speechAudio(layer))
		}
	}

	outputKwargs := ffmpeg.KwArgs{
		"c:v":      "libx264",
		"pix_fmt":  "yuv420p",
		"r":        fps,
		"t":        bg.Duration,
		"threads":  media.GetOptimalThreadCount(),
		"movflags": "+faststart",
	}

	var out *ffmpeg.Stream
	if len(audioStreams) > 0 {
		mixed := mixAudio(audioStreams)
		outputKwargs["c:a"] = "aac"
		outputKwargs["b:a"] = "128k"
		out = ffmpeg.Output([]*ffmpeg.Stream{video, mixed}, outputPath, outputKwargs)
	} else {
		out = video.Output(outputPath, outputKwargs)
	}

	logger := log.WithComponent("render")
	stream := out.OverWriteOutput()
	if e.verbose {
		logger.Debug("ffmpeg invocation", "cmd", stream.String())
		stream = stream.ErrorToStdOut()
	}

	if err := stream.Run(); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unable to find a suitable output format") {
			return &ExportFormatError{Path: outputPath}
		}
		return errors.Wrapf(err, "failed to export %s", outputPath)
	}

	logger.Info("video exported", "output", outputPath, "fps", fps)
	return nil
}

// backgroundSource produces the full-run backdrop from a lavfi color
// generator at the run resolution.
func backgroundSource(bg *timeline.Layer, t *timeline.Timeline, fps int) *ffmpeg.Stream {
	spec := fmt.Sprintf("color=c=%s:s=%dx%d:d=%f:r=%d",
		bg.Color, t.Resolution.Width, t.Resolution.Height, bg.Duration, fps)
	return ffmpeg.Input(spec, ffmpeg.KwArgs{"f": "lavfi"})
}

// overlayImage composites a still image layer over the running video
// for the layer's time window, with optional fades.
func overlayImage(base *ffmpeg.Stream, layer timeline.Layer, fps int) *ffmpeg.Stream {
	img := ffmpeg.Input(layer.Source, ffmpeg.KwArgs{
		"loop":      1,
		"t":         layer.Duration,
		"framerate": fps,
	}).Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", layer.Width, layer.Height)})

	if layer.FadeIn > 0 {
		img = img.Filter("fade", ffmpeg.Args{fmt.Sprintf("t=in:st=0:d=%f", layer.FadeIn)})
	}
	if layer.FadeOut > 0 {
		img = img.Filter("fade", ffmpeg.Args{
			fmt.Sprintf("t=out:st=%f:d=%f", layer.Duration-layer.FadeOut, layer.FadeOut),
		})
	}

	img = img.Filter("setpts", ffmpeg.Args{fmt.Sprintf("PTS-STARTPTS+%f/TB", layer.Start)})

	return ffmpeg.Filter([]*ffmpeg.Stream{base, img}, "overlay", ffmpeg.Args{
		fmt.Sprintf("x=%d", layer.X),
		fmt.Sprintf("y=%d", layer.Y),
	}, ffmpeg.KwArgs{
		"enable":     fmt.Sprintf("between(t,%f,%f)", layer.Start, layer.End()),
		"eof_action": "pass",
	})
}

// overlayClip splices an external video over the running composite,
// scaled to the frame, for the clip's own duration.
func overlayClip(base *ffmpeg.Stream, layer timeline.Layer) *ffmpeg.Stream {
	clip := ffmpeg.Input(layer.Source).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", layer.Width, layer.Height)}).
		Filter("setpts", ffmpeg.Args{fmt.Sprintf("PTS-STARTPTS+%f/TB", layer.Start)})

	return ffmpeg.Filter([]*ffmpeg.Stream{base, clip}, "overlay", ffmpeg.Args{
		"x=0",
		"y=0",
	}, ffmpeg.KwArgs{
		"enable":     fmt.Sprintf("between(t,%f,%f)", layer.Start, layer.End()),
		"eof_action": "pass",
	})
}

// speechAudio trims a speech clip to its resolved audio duration and
// delays it to the layer start.
func speechAudio(layer timeline.Layer) *ffmpeg.Stream {
	delayMS := int(layer.Start * 1000)
	return ffmpeg.Input(layer.Audio).
		Filter("atrim", ffmpeg.Args{fmt.Sprintf("0:%f", layer.AudioDuration)}).
		Filter("asetpts", ffmpeg.Args{"PTS-STARTPTS"}).
		Filter("adelay", ffmpeg.Args{fmt.Sprintf("%d|%d", delayMS, delayMS)})
}

// clipAudio delays an inserted clip's own soundtrack to the layer start.
func clipAudio(layer timeline.Layer) *ffmpeg.Stream {
	delayMS := int(layer.Start * 1000)
	return ffmpeg.Input(layer.Source).
		Filter("asetpts", ffmpeg.Args{"PTS-STARTPTS"}).
		Filter("adelay", ffmpeg.Args{fmt.Sprintf("%d|%d", delayMS, delayMS)})
}

func mixAudio(streams []*ffmpeg.Stream) *ffmpeg.Stream {
	if len(streams) == 1 {
		return streams[0]
	}
	return ffmpeg.Filter(streams, "amix", ffmpeg.Args{
		fmt.Sprintf("inputs=%d", len(streams)),
		"dropout_transition=0",
	})
}

// FFmpegProber implements timeline.ClipProber with ffprobe.
type FFmpegProber struct{}

// VideoDuration returns the intrinsic duration of a video file.
func (FFmpegProber) VideoDuration(path string) (float64, error) {
	meta, err := media.GetVideoMetadata(path)
	if err != nil {
		return 0, err
	}
	return meta.Duration, nil
}
