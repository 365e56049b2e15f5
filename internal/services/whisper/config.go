package whisper

// Config captures runtime settings for whisper invocations.
type Config struct {
	// Binary is the whisper executable name or path.
	Binary string
	// Model is the default model size class used when a request does not
	// specify one.
	Model string
}

// Whisper configuration constants.
const (
	DefaultBinary = "whisper"
	DefaultModel  = ModelTiny

	// TranslateTask makes whisper emit target-language text regardless of the
	// spoken source language.
	TranslateTask = "translate"

	OutputFormat = "json"
)

// Model size classes, ordered smallest to largest. Larger models trade
// latency for accuracy.
const (
	ModelTiny   = "tiny"
	ModelBase   = "base"
	ModelSmall  = "small"
	ModelMedium = "medium"
	ModelLarge  = "large"
)

var modelSizes = []string{ModelTiny, ModelBase, ModelSmall, ModelMedium, ModelLarge}

// ModelSizes returns the supported model size classes in ascending size order.
func ModelSizes() []string {
	out := make([]string, len(modelSizes))
	copy(out, modelSizes)
	return out
}

// IsValidModel reports whether size names a supported model class.
func IsValidModel(size string) bool {
	for _, known := range modelSizes {
		if size == known {
			return true
		}
	}
	return false
}
