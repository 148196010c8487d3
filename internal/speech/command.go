package speech

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/scriptvid/scriptvid/internal/log"
	"github.com/scriptvid/scriptvid/internal/media"
)

// Environment variables configuring the backend command.
const (
	EnvTTSCommand = "SCRIPTVID_TTS_COMMAND"
	EnvTTSVoice   = "SCRIPTVID_TTS_VOICE"
)

const defaultVoice = "en-US-GuyNeural"

// CommandSynthesizer shells out to a TTS program per utterance. The
// default backend is edge-tts; SCRIPTVID_TTS_COMMAND replaces it with
// any program accepting --text and --output arguments. Each clip is
// written to a uuid-named temp file owned by the synthesizer until
// Cleanup runs.
type CommandSynthesizer struct {
	command string
	voice   string
	tempDir string

	mu    sync.Mutex
	files []string
}

// NewCommandSynthesizer resolves the backend command. It fails when no
// backend is configured and edge-tts is not installed.
func NewCommandSynthesizer() (*CommandSynthesizer, error) {
	command := strings.TrimSpace(os.Getenv(EnvTTSCommand))
	if command == "" {
		if _, err := exec.LookPath("edge-tts"); err != nil {
			return nil, errors.New("no TTS backend found: set " + EnvTTSCommand + " or install edge-tts")
		}
		command = "edge-tts"
	}

	voice := os.Getenv(EnvTTSVoice)
	if voice == "" {
		voice = defaultVoice
	}

	return &CommandSynthesizer{
		command: command,
		voice:   voice,
		tempDir: os.TempDir(),
	}, nil
}

// Synthesize runs the backend for text and probes the resulting audio
// for its natural duration.
func (s *CommandSynthesizer) Synthesize(ctx context.Context, text string) (Clip, error) {
	outFile := filepath.Join(s.tempDir, "scriptvid_tts_"+uuid.NewString()+".mp3")

	var cmd *exec.Cmd
	if s.command == "edge-tts" {
		cmd = exec.CommandContext(ctx, "edge-tts",
			"--voice", s.voice,
			"--text", text,
			"--write-media", outFile,
		)
	} else {
		cmd = exec.CommandContext(ctx, s.command,
			"--text", text,
			"--output", outFile,
		)
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		log.WithComponent("speech").Error("tts backend failed",
			"text", snippet(text), "output", strings.TrimSpace(string(out)))
		return Clip{}, &SynthesisError{Text: text, Err: err}
	}

	duration, err := media.GetAudioDuration(outFile)
	if err != nil {
		return Clip{}, &SynthesisError{Text: text, Err: err}
	}

	s.mu.Lock()
	s.files = append(s.files, outFile)
	s.mu.Unlock()

	return Clip{Path: outFile, Duration: duration}, nil
}

// Cleanup removes all temp audio files written so far. Removal is
// best-effort; failures are ignored since the files live in the OS
// temp directory anyway.
func (s *CommandSynthesizer) Cleanup() {
	s.mu.Lock()
	files := s.files
	s.files = nil
	s.mu.Unlock()

	for _, f := range files {
		_ = os.Remove(f)
	}
}
