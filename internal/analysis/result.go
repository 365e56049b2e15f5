package analysis

import (
	"io"

	"precheck/internal/references"
	"precheck/internal/risk"
)

// Request describes one analysis call. The video stream is consumed exactly
// once and is staged into the call's working directory.
type Request struct {
	// Video is the container video byte stream.
	Video io.Reader
	// VideoName is the original filename; its extension names the container
	// format for the staged copy.
	VideoName string
	// References are zero or more documents to score the transcript against.
	References []references.Document
	// Model selects the whisper model size class; empty uses the configured
	// default.
	Model string
}

// Result is the immutable outcome of one analysis call.
type Result struct {
	// SimilarityScore is the aggregate reference overlap in [0,100]. With
	// multiple references, the maximum per-reference score wins.
	SimilarityScore int `json:"similarity_score"`
	// SensitiveHits lists matched sensitive keywords in keyword-list order.
	SensitiveHits []string `json:"sensitive_hits"`
	// Transcript is the translated transcript text.
	Transcript string `json:"transcript"`
	// RiskLevel is the final verdict.
	RiskLevel risk.Level `json:"risk_level"`
}
