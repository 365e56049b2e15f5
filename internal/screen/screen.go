// Package screen scans transcripts for sensitive vocabulary against a fixed
// multilingual keyword list.
package screen

import (
	"strings"

	"golang.org/x/text/cases"
)

// Scan reports which keywords occur in the transcript. Matching is
// case-insensitive substring containment using Unicode case folding; results
// keep the list's original casing, follow list order, and contain no
// duplicates.
func Scan(transcript string) []string {
	if transcript == "" {
		return nil
	}
	folder := cases.Fold()
	folded := folder.String(transcript)

	var hits []string
	seen := make(map[string]struct{}, 4)
	for _, keyword := range keywords {
		if _, dup := seen[keyword]; dup {
			continue
		}
		if strings.Contains(folded, folder.String(keyword)) {
			seen[keyword] = struct{}{}
			hits = append(hits, keyword)
		}
	}
	return hits
}
