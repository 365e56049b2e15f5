// Package textutil provides text processing utilities for tokenization,
// token-set similarity, and filesystem-safe naming.
//
// The primary use cases are:
//   - Tokenizing transcripts and reference texts into word sets
//   - Computing a bounded token-set overlap ratio between two texts
//   - Sanitizing caller-supplied filenames for safe filesystem use
//
// Tokenization lowercases text and splits on non-letter, non-digit runs so the
// similarity measure is order-independent and duplicate-insensitive.
package textutil
