// Package risk reduces the pipeline's similarity and screening signals into a
// single three-level verdict.
package risk

// Level is the final verdict assigned to an analyzed video.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// String returns the lowercase level name.
func (l Level) String() string {
	return string(l)
}

// Aggregate maps a similarity score and the set of sensitive-word hits to a
// risk level. Any sensitive hit forces a high verdict regardless of the
// similarity score; similarity alone only reaches high above 75.
func Aggregate(similarity int, hits []string) Level {
	if similarity > 75 || len(hits) > 0 {
		return LevelHigh
	}
	if similarity > 40 {
		return LevelMedium
	}
	return LevelLow
}
