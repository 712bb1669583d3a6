package testsupport

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

// WriteArchive writes NDJSON lines to path, zstd-compressed when the path
// ends in .zst, and returns the path.
func WriteArchive(t testing.TB, path string, lines ...string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer file.Close()

	var w io.Writer = file
	var encoder *zstd.Encoder
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		encoder, err = zstd.NewWriter(file)
		if err != nil {
			t.Fatalf("zstd writer: %v", err)
		}
		w = encoder
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")+"\n"); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if encoder != nil {
		if err := encoder.Close(); err != nil {
			t.Fatalf("close encoder: %v", err)
		}
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
	return path
}

// WriteZstdArchive writes a compressed dump into a fresh temp directory.
func WriteZstdArchive(t testing.TB, lines ...string) string {
	t.Helper()
	return WriteArchive(t, filepath.Join(t.TempDir(), "dump.zst"), lines...)
}
