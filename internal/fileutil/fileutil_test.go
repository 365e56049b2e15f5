package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReader(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.bin")
	payload := []byte("pcm audio payload")

	if err := WriteReader(dst, bytes.NewReader(payload)); err != nil {
		t.Fatalf("WriteReader: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("content mismatch: %q", got)
	}
}

func TestWriteReaderTruncates(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.bin")
	if err := os.WriteFile(dst, []byte("longer previous content"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if err := WriteReader(dst, bytes.NewReader([]byte("short"))); err != nil {
		t.Fatalf("WriteReader: %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "short" {
		t.Errorf("expected truncation, got %q", got)
	}
}
