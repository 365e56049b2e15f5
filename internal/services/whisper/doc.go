// Package whisper invokes the whisper CLI for speech recognition.
//
// Transcription always runs with the translate task, so the returned text is
// in the target language regardless of the language spoken in the audio. The
// model is selected per call by size class (tiny through large); no model
// state is cached between calls.
package whisper
