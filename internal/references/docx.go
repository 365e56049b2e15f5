package references

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxDocumentPath = "word/document.xml"

// extractDocxText pulls the body text out of a .docx archive. Runs inside
// w:t elements are concatenated; paragraphs become newlines; images, tables,
// and formatting are discarded.
func extractDocxText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var document *zip.File
	for _, file := range archive.File {
		if file.Name == docxDocumentPath {
			document = file
			break
		}
	}
	if document == nil {
		return "", fmt.Errorf("docx archive missing %s", docxDocumentPath)
	}

	reader, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", docxDocumentPath, err)
	}
	defer reader.Close()

	return collectDocxText(reader)
}

func collectDocxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var b strings.Builder
	depthInText := 0
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				depthInText++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				if depthInText > 0 {
					depthInText--
				}
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if depthInText > 0 {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
