// Package fileutil provides small filesystem helpers shared by the pipeline.
package fileutil

import (
	"io"
	"os"
)

// WriteReader streams r to dst, truncating any existing file.
func WriteReader(dst string, r io.Reader) error {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return err
	}
	return out.Close()
}
