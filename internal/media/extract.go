// Package media wraps the ffmpeg invocation that demuxes a video container
// into the mono PCM waveform the transcriber consumes.
package media

import (
	"context"
	"os/exec"
	"strings"

	"precheck/internal/services"
)

// FFmpegCommand is the default ffmpeg executable name.
const FFmpegCommand = "ffmpeg"

// CommandRunner executes an external command, returning its combined output
// error detail on failure. Injectable for tests.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Extractor pulls audio tracks out of container video files via ffmpeg.
type Extractor struct {
	binary string
	runner CommandRunner
}

// NewExtractor creates an Extractor using the given ffmpeg binary. An empty
// binary falls back to FFmpegCommand.
func NewExtractor(binary string) *Extractor {
	if strings.TrimSpace(binary) == "" {
		binary = FFmpegCommand
	}
	return &Extractor{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner CommandRunner) {
	e.runner = runner
}

// ExtractAudio decodes the video container at videoPath and writes a
// single-channel 16 kHz 16-bit signed PCM WAV file to audioPath. The video
// stream is discarded. Failures are tagged services.ErrExternalTool; on
// failure no output file should be assumed to exist.
func (e *Extractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	if strings.TrimSpace(videoPath) == "" {
		return services.Wrap(services.ErrValidation, "extractor", "extract audio", "video path required", nil)
	}
	if strings.TrimSpace(audioPath) == "" {
		return services.Wrap(services.ErrValidation, "extractor", "extract audio", "audio path required", nil)
	}

	args := buildExtractArgs(videoPath, audioPath)
	if e.runner != nil {
		if err := e.runner(ctx, e.binary, args...); err != nil {
			return services.Wrap(services.ErrExternalTool, "extractor", "ffmpeg", "", err)
		}
		return nil
	}

	cmd := exec.CommandContext(ctx, e.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		return services.Wrap(services.ErrExternalTool, "extractor", "ffmpeg", detail, err)
	}
	return nil
}

func buildExtractArgs(videoPath, audioPath string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		audioPath,
	}
}
