package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"precheck/internal/analysis"
	"precheck/internal/deps"
	"precheck/internal/logging"
	"precheck/internal/references"
	"precheck/internal/staging"
)

// staleWorkdirAge is how old a leftover working directory must be before the
// pre-run sweep removes it.
const staleWorkdirAge = 24 * time.Hour

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var referencePaths []string
	var model string
	var jsonOutput bool
	var fullTranscript bool

	cmd := &cobra.Command{
		Use:   "analyze <video>",
		Short: "Run the content-risk pipeline over a video file",
		Long: `Analyze extracts the audio track from the given video, transcribes and
translates it, scores the transcript against any supplied reference documents,
scans for sensitive vocabulary, and prints the aggregated risk verdict.

Reference documents may be plain text (.txt), PDF (.pdf), or Word (.docx);
anything else contributes zero similarity. With no references, the configured
no-reference policy supplies the similarity score.

Examples:
  precheck analyze lecture.mp4
  precheck analyze talk.mp4 --reference paper.pdf --reference notes.txt
  precheck analyze clip.mp4 --model small --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			if missing := deps.Missing(deps.CheckBinaries(deps.Required(cfg))); len(missing) > 0 {
				names := make([]string, 0, len(missing))
				for _, status := range missing {
					names = append(names, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
				}
				return fmt.Errorf("missing external tools: %s; run `precheck deps` for details", strings.Join(names, ", "))
			}

			videoPath := strings.TrimSpace(args[0])
			video, err := os.Open(videoPath)
			if err != nil {
				return fmt.Errorf("open video: %w", err)
			}
			defer video.Close()

			docs, err := loadReferenceFiles(referencePaths)
			if err != nil {
				return err
			}

			// Sweep leftovers from runs that died before their cleanup.
			staging.CleanStale(cfg.Paths.WorkDir, staleWorkdirAge, logger)

			pipeline := analysis.New(cfg, logger)
			result, err := pipeline.Analyze(cmd.Context(), analysis.Request{
				Video:      video,
				VideoName:  filepath.Base(videoPath),
				References: docs,
				Model:      strings.ToLower(strings.TrimSpace(model)),
			})
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			colorize := isatty.IsTerminal(os.Stdout.Fd())
			fmt.Fprint(cmd.OutOrStdout(), renderAnalysis(result, colorize, fullTranscript))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&referencePaths, "reference", "r", nil, "Reference document to compare against (repeatable)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Whisper model size: tiny, base, small, medium, large (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the analysis result as JSON")
	cmd.Flags().BoolVar(&fullTranscript, "full-transcript", false, "Print the entire transcript instead of a preview")

	return cmd
}

func loadReferenceFiles(paths []string) ([]references.Document, error) {
	docs := make([]references.Document, 0, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read reference %s: %w", path, err)
		}
		docs = append(docs, references.Document{
			Name: filepath.Base(path),
			Data: data,
		})
	}
	return docs, nil
}
