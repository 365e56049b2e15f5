package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"precheck/internal/services"
)

// Service invokes the whisper CLI for speech recognition with
// translation-to-English enabled.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a whisper service with the given configuration.
func NewService(cfg Config) *Service {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Transcribe runs whisper over the WAV file at audioPath with the requested
// model size and returns the translated transcript text. outputDir is where
// whisper writes its result files; an empty model falls back to the service
// default. The model is loaded fresh on every call.
func (s *Service) Transcribe(ctx context.Context, audioPath, outputDir, model string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", services.Wrap(services.ErrValidation, "transcriber", "transcribe", "audio path required", nil)
	}
	if model = strings.TrimSpace(model); model == "" {
		model = s.cfg.Model
	}
	if !IsValidModel(model) {
		return "", services.Wrap(services.ErrValidation, "transcriber", "transcribe",
			fmt.Sprintf("unknown model size %q (expected one of %s)", model, strings.Join(ModelSizes(), ", ")), nil)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "transcriber", "ensure output dir", "", err)
	}

	args := buildArgs(audioPath, outputDir, model)
	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "transcriber", "whisper", "", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	text, err := loadTranscriptText(jsonPath)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "transcriber", "read transcript", jsonPath, err)
	}
	return text, nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func buildArgs(audioPath, outputDir, model string) []string {
	return []string{
		audioPath,
		"--model", model,
		"--task", TranslateTask,
		"--output_format", OutputFormat,
		"--output_dir", outputDir,
		"--verbose", "False",
	}
}

// Segment is one transcribed span from whisper JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// payload is the JSON structure whisper writes next to the audio file.
type payload struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// loadTranscriptText reads the whisper JSON output, preferring the top-level
// text field and falling back to joining segment texts.
func loadTranscriptText(jsonPath string) (string, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return "", err
	}
	var result payload
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("parse whisper json: %w", err)
	}
	if text := strings.TrimSpace(result.Text); text != "" {
		return text, nil
	}
	var parts []string
	for _, seg := range result.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
