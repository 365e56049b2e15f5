package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"precheck/internal/config"
	"precheck/internal/logging"
	"precheck/internal/references"
	"precheck/internal/risk"
	"precheck/internal/services"
	"precheck/internal/testsupport"
)

type stubExtractor struct {
	err       error
	calls     int
	videoPath string
	audioPath string
}

func (s *stubExtractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	s.calls++
	s.videoPath = videoPath
	s.audioPath = audioPath
	if s.err != nil {
		return services.Wrap(services.ErrExternalTool, "extractor", "ffmpeg", "", s.err)
	}
	return os.WriteFile(audioPath, []byte("RIFF"), 0o644)
}

type stubTranscriber struct {
	text  string
	err   error
	model string
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioPath, outputDir, model string) (string, error) {
	s.model = model
	if s.err != nil {
		return "", services.Wrap(services.ErrExternalTool, "transcriber", "whisper", "", s.err)
	}
	return s.text, nil
}

func newTestPipeline(t *testing.T, cfg *config.Config, transcript string) (*Pipeline, *stubExtractor, *stubTranscriber) {
	t.Helper()
	if cfg == nil {
		cfg = testsupport.NewConfig(t)
	}
	extractor := &stubExtractor{}
	transcriber := &stubTranscriber{text: transcript}
	return NewWithServices(cfg, logging.NewNop(), extractor, transcriber), extractor, transcriber
}

func videoRequest(refs ...references.Document) Request {
	return Request{
		Video:      bytes.NewReader([]byte("fake container bytes")),
		VideoName:  "upload.mp4",
		References: refs,
	}
}

// workdirEntries lists everything under the work dir except the lock file.
func workdirEntries(t *testing.T, cfg *config.Config) []string {
	t.Helper()
	entries, err := os.ReadDir(cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Name() == "precheck.lock" {
			continue
		}
		names = append(names, entry.Name())
	}
	return names
}

func TestAnalyzeCleanTranscriptNoReferences(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	pipeline, extractor, transcriber := newTestPipeline(t, cfg, "this is a clean and original message")

	result, err := pipeline.Analyze(context.Background(), videoRequest())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if extractor.calls != 1 {
		t.Errorf("extractor calls = %d, want 1", extractor.calls)
	}
	if transcriber.model != "tiny" {
		t.Errorf("model = %q, want configured default tiny", transcriber.model)
	}
	if len(result.SensitiveHits) != 0 {
		t.Errorf("hits = %v, want none", result.SensitiveHits)
	}
	// Fixed policy score of 30 in the test config.
	if result.SimilarityScore != 30 {
		t.Errorf("score = %d, want 30", result.SimilarityScore)
	}
	if result.RiskLevel == risk.LevelHigh {
		t.Errorf("clean transcript must never be high risk, got %v", result.RiskLevel)
	}
	if got := workdirEntries(t, cfg); len(got) != 0 {
		t.Errorf("work dir not cleaned: %v", got)
	}
}

func TestAnalyzeSensitiveTranscriptForcesHigh(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t, nil, "I will kill you")

	result, err := pipeline.Analyze(context.Background(), videoRequest())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.SensitiveHits) != 1 || result.SensitiveHits[0] != "kill" {
		t.Errorf("hits = %v, want [kill]", result.SensitiveHits)
	}
	if result.RiskLevel != risk.LevelHigh {
		t.Errorf("risk = %v, want high regardless of similarity", result.RiskLevel)
	}
}

func TestAnalyzeIdenticalReferenceScoresMax(t *testing.T) {
	transcript := "an entirely original piece of writing about geese"
	pipeline, _, _ := newTestPipeline(t, nil, transcript)

	result, err := pipeline.Analyze(context.Background(), videoRequest(
		references.Document{Name: "copy.txt", Data: []byte(transcript)},
	))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.SimilarityScore != 100 {
		t.Errorf("score = %d, want 100 for identical reference", result.SimilarityScore)
	}
	if result.RiskLevel != risk.LevelHigh {
		t.Errorf("risk = %v, want high", result.RiskLevel)
	}
}

func TestAnalyzeMultipleReferencesTakesMaximum(t *testing.T) {
	transcript := "the quick brown fox jumps over the lazy dog"
	pipeline, _, _ := newTestPipeline(t, nil, transcript)

	result, err := pipeline.Analyze(context.Background(), videoRequest(
		references.Document{Name: "unrelated.txt", Data: []byte("volcanoes erupt molten basalt")},
		references.Document{Name: "partial.txt", Data: []byte("the quick brown fox naps")},
	))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.SimilarityScore <= 0 || result.SimilarityScore > 100 {
		t.Fatalf("score = %d, out of range", result.SimilarityScore)
	}
	// The partial match must win over the unrelated document's zero.
	if result.SimilarityScore < 50 {
		t.Errorf("score = %d, expected the best reference to dominate", result.SimilarityScore)
	}
}

func TestAnalyzeUnreadableReferenceIsIsolated(t *testing.T) {
	transcript := "shared words appear in this transcript"
	pipeline, _, _ := newTestPipeline(t, nil, transcript)
	pipeline.WithReferenceLoader(func(doc references.Document) (string, error) {
		if doc.Name == "broken.pdf" {
			return "", errors.New("parse failure")
		}
		return references.Load(doc)
	})

	result, err := pipeline.Analyze(context.Background(), videoRequest(
		references.Document{Name: "broken.pdf", Data: []byte("junk")},
		references.Document{Name: "copy.txt", Data: []byte(transcript)},
	))
	if err != nil {
		t.Fatalf("a broken reference must not abort the analysis: %v", err)
	}
	if result.SimilarityScore != 100 {
		t.Errorf("score = %d, want 100 from the surviving reference", result.SimilarityScore)
	}
}

func TestAnalyzeRandomPolicyBounds(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRandomPolicy())
	pipeline, _, _ := newTestPipeline(t, cfg, "plain words")

	var gotLo, gotHi int
	pipeline.WithScoreDraw(func(lo, hi int) int {
		gotLo, gotHi = lo, hi
		return 42
	})

	result, err := pipeline.Analyze(context.Background(), videoRequest())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if gotLo != 15 || gotHi != 50 {
		t.Errorf("draw range = [%d,%d], want [15,50]", gotLo, gotHi)
	}
	if result.SimilarityScore != 42 {
		t.Errorf("score = %d, want injected 42", result.SimilarityScore)
	}
}

func TestAnalyzeDefaultDrawStaysInRange(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRandomPolicy())
	pipeline, _, _ := newTestPipeline(t, cfg, "plain words")

	for i := 0; i < 200; i++ {
		score := pipeline.noReferenceScore()
		if score < 15 || score > 50 {
			t.Fatalf("draw %d out of [15,50]", score)
		}
	}
}

func TestAnalyzeExtractionFailureCleansUp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	pipeline, extractor, _ := newTestPipeline(t, cfg, "unused")
	extractor.err = errors.New("demux failed")

	result, err := pipeline.Analyze(context.Background(), videoRequest())
	if result != nil {
		t.Error("failed analysis must not return a partial result")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Errorf("got %v, want ErrExternalTool", err)
	}
	if got := workdirEntries(t, cfg); len(got) != 0 {
		t.Errorf("work dir not cleaned after failure: %v", got)
	}
}

func TestAnalyzeTranscriptionFailureCleansUp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	pipeline, _, transcriber := newTestPipeline(t, cfg, "")
	transcriber.err = errors.New("model load failed")

	result, err := pipeline.Analyze(context.Background(), videoRequest())
	if result != nil {
		t.Error("failed analysis must not return a partial result")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Errorf("got %v, want ErrExternalTool", err)
	}
	if got := workdirEntries(t, cfg); len(got) != 0 {
		t.Errorf("work dir not cleaned after failure: %v", got)
	}
}

func TestAnalyzeRemovesIntermediateFilesEagerly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	extractor := &stubExtractor{}
	var videoExistsAtTranscription bool
	transcriber := &checkingTranscriber{
		onTranscribe: func(audioPath string) {
			_, err := os.Stat(extractor.videoPath)
			videoExistsAtTranscription = err == nil
		},
	}
	pipeline := NewWithServices(cfg, logging.NewNop(), extractor, transcriber)

	if _, err := pipeline.Analyze(context.Background(), videoRequest()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if videoExistsAtTranscription {
		t.Error("staged video should be deleted before transcription starts")
	}
}

type checkingTranscriber struct {
	onTranscribe func(audioPath string)
}

func (c *checkingTranscriber) Transcribe(ctx context.Context, audioPath, outputDir, model string) (string, error) {
	if c.onTranscribe != nil {
		c.onTranscribe(audioPath)
	}
	return "ok", nil
}

func TestAnalyzeRejectsInvalidModel(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t, nil, "unused")
	req := videoRequest()
	req.Model = "gigantic"

	if _, err := pipeline.Analyze(context.Background(), req); !errors.Is(err, services.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestAnalyzeRejectsNilVideo(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t, nil, "unused")
	if _, err := pipeline.Analyze(context.Background(), Request{}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestAnalyzeRejectsConcurrentRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	pipeline, _, _ := newTestPipeline(t, cfg, "unused")

	other := flock.New(filepath.Join(cfg.Paths.WorkDir, "precheck.lock"))
	locked, err := other.TryLock()
	if err != nil || !locked {
		t.Fatalf("seed lock: locked=%v err=%v", locked, err)
	}
	defer func() { _ = other.Unlock() }()

	if _, err := pipeline.Analyze(context.Background(), videoRequest()); !errors.Is(err, services.ErrBusy) {
		t.Errorf("got %v, want ErrBusy", err)
	}
}

func TestAnalyzePerRequestModelOverride(t *testing.T) {
	pipeline, _, transcriber := newTestPipeline(t, nil, "ok")
	req := videoRequest()
	req.Model = "medium"

	if _, err := pipeline.Analyze(context.Background(), req); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if transcriber.model != "medium" {
		t.Errorf("model = %q, want medium", transcriber.model)
	}
}

func TestAnalyzeUsesConfiguredModel(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithModel("base"))
	pipeline, _, transcriber := newTestPipeline(t, cfg, "ok")

	if _, err := pipeline.Analyze(context.Background(), videoRequest()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if transcriber.model != "base" {
		t.Errorf("model = %q, want configured base", transcriber.model)
	}
}

func TestAnalyzeSanitizesStagedVideoName(t *testing.T) {
	pipeline, extractor, _ := newTestPipeline(t, nil, "ok")
	req := videoRequest()
	req.VideoName = "clip.MK V!"

	if _, err := pipeline.Analyze(context.Background(), req); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := filepath.Base(extractor.videoPath); got != "source.mk_v" {
		t.Errorf("staged name = %q, want source.mk_v", got)
	}
}

func TestAnalyzeNoHitsEncodesEmptyList(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t, nil, "a perfectly harmless talk")

	result, err := pipeline.Analyze(context.Background(), videoRequest())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.SensitiveHits == nil {
		t.Fatal("hits must be an empty slice, not nil")
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	if !strings.Contains(string(encoded), `"sensitive_hits":[]`) {
		t.Errorf("expected empty list in JSON, got %s", encoded)
	}
}
