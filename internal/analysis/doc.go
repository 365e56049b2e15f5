// Package analysis sequences the content-risk pipeline: audio extraction,
// transcription, reference similarity scoring, sensitive-vocabulary
// screening, and risk aggregation.
//
// A Pipeline runs one analysis at a time. Each Analyze call owns a uniquely
// named working directory for its intermediate media files and removes it on
// every exit path, so no temporary file outlives the call.
package analysis
