// Package references converts uploaded reference documents into plain text
// for similarity scoring.
package references

import (
	"path/filepath"
	"strings"

	"precheck/internal/services"
)

// Document is one caller-supplied reference: raw bytes plus the filename that
// carries the format tag.
type Document struct {
	Name string
	Data []byte
}

// Load converts a reference document to plain text by dispatching on its file
// extension. Unsupported extensions yield empty text and no error, so they
// contribute zero overlap downstream. Parse failures are returned to the
// caller, which is expected to isolate them to this one document.
func Load(doc Document) (string, error) {
	switch strings.ToLower(filepath.Ext(doc.Name)) {
	case ".txt":
		return decodePlainText(doc.Data), nil
	case ".pdf":
		text, err := extractPDFText(doc.Data)
		if err != nil {
			return "", services.Wrap(services.ErrValidation, "references", "parse pdf", doc.Name, err)
		}
		return text, nil
	case ".docx":
		text, err := extractDocxText(doc.Data)
		if err != nil {
			return "", services.Wrap(services.ErrValidation, "references", "parse docx", doc.Name, err)
		}
		return text, nil
	default:
		return "", nil
	}
}

// decodePlainText decodes bytes as UTF-8, dropping invalid sequences rather
// than failing.
func decodePlainText(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}
