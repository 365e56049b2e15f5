package analysis

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"precheck/internal/config"
	"precheck/internal/fileutil"
	"precheck/internal/logging"
	"precheck/internal/media"
	"precheck/internal/references"
	"precheck/internal/risk"
	"precheck/internal/screen"
	"precheck/internal/services"
	"precheck/internal/services/whisper"
	"precheck/internal/staging"
	"precheck/internal/textutil"
)

// No-reference similarity scores are drawn from this inclusive range: a
// stand-in for "unknown, assume low-to-moderate risk", not a measurement.
const (
	noReferenceMin = 15
	noReferenceMax = 50
)

// Extractor pulls the audio track out of a staged video file.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}

// Transcriber turns a PCM waveform into translated transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, outputDir, model string) (string, error)
}

// Pipeline owns the analysis sequencing and the lifecycle of each call's
// temporary files. It is synchronous: one analysis runs at a time, enforced
// with a file lock on the shared work directory.
type Pipeline struct {
	cfg         *config.Config
	logger      *slog.Logger
	extractor   Extractor
	transcriber Transcriber
	loadRef     func(references.Document) (string, error)
	draw        func(lo, hi int) int
	lock        *flock.Flock
}

// New constructs a pipeline wired to the real ffmpeg and whisper services.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	extractor := media.NewExtractor(cfg.Tools.FFmpegBinary)
	transcriber := whisper.NewService(whisper.Config{
		Binary: cfg.Tools.WhisperBinary,
		Model:  cfg.Analysis.Model,
	})
	return NewWithServices(cfg, logger, extractor, transcriber)
}

// NewWithServices constructs a pipeline with injected extraction and
// transcription capabilities.
func NewWithServices(cfg *config.Config, logger *slog.Logger, extractor Extractor, transcriber Transcriber) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
		extractor:   extractor,
		transcriber: transcriber,
		loadRef:     references.Load,
		draw: func(lo, hi int) int {
			return lo + rand.Intn(hi-lo+1)
		},
		lock: flock.New(filepath.Join(cfg.Paths.WorkDir, "precheck.lock")),
	}
}

// WithScoreDraw overrides the random draw used by the no-reference policy
// (for testing).
func (p *Pipeline) WithScoreDraw(draw func(lo, hi int) int) {
	p.draw = draw
}

// WithReferenceLoader overrides reference document loading (for testing).
func (p *Pipeline) WithReferenceLoader(load func(references.Document) (string, error)) {
	p.loadRef = load
}

// Analyze runs the full pipeline over one video and returns its risk
// analysis. Extraction and transcription failures are terminal; reference
// parsing failures degrade that document's contribution to zero. All
// temporary files are removed before Analyze returns, on success and failure.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (*Result, error) {
	if req.Video == nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "analyze", "video stream required", nil)
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = p.cfg.Analysis.Model
	}
	if !whisper.IsValidModel(model) {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "analyze", "unknown model size "+model, nil)
	}

	if err := os.MkdirAll(p.cfg.Paths.WorkDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "ensure work dir", "", err)
	}
	locked, err := p.lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "acquire lock", "", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrBusy, "pipeline", "analyze", "another analysis is in flight", nil)
	}
	defer func() {
		if err := p.lock.Unlock(); err != nil {
			p.logger.Warn("failed to release analysis lock", logging.Error(err))
		}
	}()

	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, p.logger)
	started := time.Now()

	workdir, err := staging.Create(p.cfg.Paths.WorkDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "create working directory", "", err)
	}
	defer func() {
		if err := workdir.Remove(); err != nil {
			logger.Warn("failed to remove working directory",
				logging.String("path", workdir.Path),
				logging.Error(err),
			)
		}
	}()

	transcript, err := p.produceTranscript(ctx, logger, workdir, req, model)
	if err != nil {
		return nil, err
	}

	score := p.scoreReferences(ctx, logger, transcript, req.References)
	hits := screen.Scan(transcript)
	if hits == nil {
		// Stable JSON shape: no hits is an empty list, not null.
		hits = []string{}
	}
	level := risk.Aggregate(score, hits)

	logger.Info("analysis complete",
		logging.String(logging.FieldEventType, "analysis_complete"),
		logging.Int("similarity_score", score),
		logging.Int("sensitive_hits", len(hits)),
		logging.String("risk_level", level.String()),
		logging.Duration("elapsed", time.Since(started)),
	)

	return &Result{
		SimilarityScore: score,
		SensitiveHits:   hits,
		Transcript:      transcript,
		RiskLevel:       level,
	}, nil
}

// produceTranscript stages the video, extracts its audio, and transcribes it.
// The staged video is deleted once extraction succeeds and the waveform once
// transcription succeeds.
func (p *Pipeline) produceTranscript(ctx context.Context, logger *slog.Logger, workdir *staging.Workdir, req Request, model string) (string, error) {
	// The staged name derives from caller input, so it is sanitized before it
	// touches the filesystem.
	videoPath := workdir.File(textutil.SanitizeToken("source" + filepath.Ext(req.VideoName)))
	if err := fileutil.WriteReader(videoPath, req.Video); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "pipeline", "stage video", req.VideoName, err)
	}

	extractCtx := services.WithStage(ctx, "extraction")
	audioPath := workdir.File("audio.wav")
	logging.WithContext(extractCtx, logger).Info("extracting audio",
		logging.String("video", strings.TrimSpace(req.VideoName)),
	)
	if err := p.extractor.ExtractAudio(extractCtx, videoPath, audioPath); err != nil {
		return "", err
	}
	p.removeArtifact(logger, videoPath)

	transcribeCtx := services.WithStage(ctx, "transcription")
	logging.WithContext(transcribeCtx, logger).Info("transcribing audio",
		logging.String("model", model),
	)
	transcript, err := p.transcriber.Transcribe(transcribeCtx, audioPath, workdir.Path, model)
	if err != nil {
		return "", err
	}
	p.removeArtifact(logger, audioPath)

	return transcript, nil
}

// scoreReferences computes the aggregate similarity score. With no references
// the configured no-reference policy supplies the score; otherwise the
// maximum per-reference token-set ratio wins, and a document that fails to
// parse contributes zero.
func (p *Pipeline) scoreReferences(ctx context.Context, logger *slog.Logger, transcript string, docs []references.Document) int {
	scoreCtx := services.WithStage(ctx, "scoring")
	scoreLogger := logging.WithContext(scoreCtx, logger)

	if len(docs) == 0 {
		score := p.noReferenceScore()
		scoreLogger.Info("no references supplied, using policy score",
			logging.String("policy", p.cfg.Analysis.NoReferencePolicy),
			logging.Int("similarity_score", score),
		)
		return score
	}

	best := 0
	for _, doc := range docs {
		text, err := p.loadRef(doc)
		if err != nil {
			scoreLogger.Warn("skipping unreadable reference",
				logging.String("reference", doc.Name),
				logging.Error(err),
			)
			continue
		}
		score := textutil.TokenSetRatio(transcript, text)
		scoreLogger.Debug("reference scored",
			logging.String("reference", doc.Name),
			logging.Int("similarity_score", score),
		)
		if score > best {
			best = score
		}
	}
	return best
}

func (p *Pipeline) noReferenceScore() int {
	if p.cfg.Analysis.NoReferencePolicy == config.PolicyFixed {
		score := p.cfg.Analysis.NoReferenceScore
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		return score
	}
	return p.draw(noReferenceMin, noReferenceMax)
}

// removeArtifact deletes an intermediate media file as soon as the pipeline
// is done with it. The deferred workdir removal is the backstop, so failures
// here only warrant a warning.
func (p *Pipeline) removeArtifact(logger *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove intermediate file",
			logging.String("path", path),
			logging.Error(err),
		)
	}
}
