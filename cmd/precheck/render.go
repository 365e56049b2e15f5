package main

import (
	"fmt"
	"strconv"
	"strings"

	"precheck/internal/analysis"
	"precheck/internal/risk"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// transcriptPreviewLimit caps the transcript excerpt shown in the summary.
const transcriptPreviewLimit = 1500

func renderAnalysis(result *analysis.Result, colorize, fullTranscript bool) string {
	var b strings.Builder

	b.WriteString(renderTable(
		[]string{"Metric", "Value"},
		[][]string{
			{"Similarity score", strconv.Itoa(result.SimilarityScore) + "%"},
			{"Sensitive words", strconv.Itoa(len(result.SensitiveHits))},
			{"Risk level", riskLabel(result.RiskLevel, colorize)},
		},
		[]columnAlignment{alignLeft, alignRight},
	))
	b.WriteByte('\n')

	if len(result.SensitiveHits) > 0 {
		b.WriteString("Sensitive words found: " + strings.Join(result.SensitiveHits, ", ") + "\n")
	} else {
		b.WriteString("No sensitive language detected.\n")
	}
	b.WriteString(similaritySummary(result.SimilarityScore) + "\n")

	b.WriteString("\nTranscript:\n")
	if fullTranscript {
		b.WriteString(result.Transcript + "\n")
	} else {
		b.WriteString(transcriptPreview(result.Transcript, transcriptPreviewLimit) + "\n")
	}

	return b.String()
}

func riskLabel(level risk.Level, colorize bool) string {
	label := strings.ToUpper(level.String())
	if !colorize {
		return label
	}
	switch level {
	case risk.LevelHigh:
		return ansiRed + label + ansiReset
	case risk.LevelMedium:
		return ansiYellow + label + ansiReset
	default:
		return ansiGreen + label + ansiReset
	}
}

func similaritySummary(score int) string {
	switch {
	case score > 75:
		return fmt.Sprintf("High similarity (%d%%) - content closely matches a reference.", score)
	case score > 40:
		return fmt.Sprintf("Medium similarity (%d%%) - review suggested.", score)
	default:
		return fmt.Sprintf("Low similarity (%d%%) - content appears original.", score)
	}
}

func transcriptPreview(transcript string, limit int) string {
	runes := []rune(transcript)
	if len(runes) <= limit {
		return transcript
	}
	return string(runes[:limit]) + "..."
}
