// Package media wraps ffprobe/ffmpeg helpers shared by the speech
// adapter, the timeline builder and the exporter.
package media

import (
	"encoding/json"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoMetadata contains metadata about a video file
type VideoMetadata struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
}

// GetVideoMetadata probes a video file for duration, dimensions and codec.
func GetVideoMetadata(inputPath string) (*VideoMetadata, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error probing video %s", inputPath)
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return nil, fmt.Errorf("no streams found in %s", inputPath)
	}

	var videoStream map[string]interface{}
	for _, stream := range streams {
		s := stream.(map[string]interface{})
		if s["codec_type"].(string) == "video" {
			videoStream = s
			break
		}
	}
	if videoStream == nil {
		return nil, fmt.Errorf("no video stream found in %s", inputPath)
	}

	duration := streamDuration(videoStream, data)
	if duration == 0 {
		return nil, fmt.Errorf("could not determine duration of %s", inputPath)
	}

	return &VideoMetadata{
		Duration: duration,
		Width:    int(videoStream["width"].(float64)),
		Height:   int(videoStream["height"].(float64)),
		Codec:    videoStream["codec_name"].(string),
	}, nil
}

// GetAudioDuration probes an audio file and returns its length in seconds.
func GetAudioDuration(inputPath string) (float64, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return 0, errors.Wrapf(err, "error probing audio %s", inputPath)
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return 0, errors.WithStack(err)
	}

	if format, ok := data["format"].(map[string]interface{}); ok {
		if durationStr, ok := format["duration"].(string); ok {
			if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil && d > 0 {
				return d, nil
			}
		}
	}

	return 0, fmt.Errorf("could not determine duration of %s", inputPath)
}

// streamDuration tries the video stream duration, then the container
// duration, then frames divided by frame rate.
func streamDuration(videoStream, data map[string]interface{}) float64 {
	if durationStr, ok := videoStream["duration"].(string); ok {
		if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil && d > 0 {
			return d
		}
	}

	if format, ok := data["format"].(map[string]interface{}); ok {
		if durationStr, ok := format["duration"].(string); ok {
			if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil && d > 0 {
				return d
			}
		}
	}

	if nbFrames, ok := videoStream["nb_frames"].(string); ok {
		if frames, err := strconv.ParseFloat(nbFrames, 64); err == nil {
			if rFrameRate, ok := videoStream["r_frame_rate"].(string); ok {
				if nums := strings.Split(rFrameRate, "/"); len(nums) == 2 {
					num, err1 := strconv.ParseFloat(nums[0], 64)
					den, err2 := strconv.ParseFloat(nums[1], 64)
					if err1 == nil && err2 == nil && den != 0 && num > 0 {
						return frames / (num / den)
					}
				}
			}
		}
	}

	return 0
}

// GetOptimalThreadCount returns the encoder thread count, 75% of the
// available cores to prevent overload.
func GetOptimalThreadCount() int {
	return int(math.Max(1, float64(runtime.NumCPU())*0.75))
}
