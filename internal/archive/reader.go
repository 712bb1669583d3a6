package archive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/tidwall/gjson"

	"ifyoulike/internal/services"
)

const (
	// MaxWindowSize accepts the 2 GiB long-distance windows Pushshift dumps are compressed with.
	MaxWindowSize = 1 << 31
	// MaxLineSize bounds a single JSON row.
	MaxLineSize = 16 << 20

	initialLineBuffer = 64 << 10
)

// Stats counts what a scan saw.
type Stats struct {
	Lines     int
	Malformed int
}

// Reader streams rows from one archive file. A Reader is single-pass and not
// safe for concurrent use.
type Reader struct {
	path    string
	file    *os.File
	decoder *zstd.Decoder
	source  io.Reader
	stats   Stats
	used    bool
}

// Open prepares path for streaming. Files ending in .zst are decompressed;
// anything else is read as plain NDJSON.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "archive", "open", "unreadable archive", err)
	}
	r := &Reader{path: path, file: file, source: file}
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		decoder, err := zstd.NewReader(file,
			zstd.WithDecoderMaxWindow(MaxWindowSize),
			zstd.WithDecoderConcurrency(1),
		)
		if err != nil {
			_ = file.Close()
			return nil, services.Wrap(services.ErrConfiguration, "archive", "open",
				fmt.Sprintf("zstd decoder for %s", filepath.Base(path)), err)
		}
		r.decoder = decoder
		r.source = decoder
	}
	return r, nil
}

// Path returns the archive location.
func (r *Reader) Path() string {
	return r.path
}

// Stats reports line counts for the rows consumed so far.
func (r *Reader) Stats() Stats {
	return r.stats
}

// Close releases the decoder and file handle.
func (r *Reader) Close() error {
	if r.decoder != nil {
		r.decoder.Close()
	}
	return r.file.Close()
}

// Records yields every well-formed row in file order. Blank and malformed
// lines are skipped and counted. A read or decompression failure is yielded
// once as an error and ends the sequence. The sequence can be ranged over
// only once.
func (r *Reader) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		if r.used {
			yield(Record{}, errors.New("archive: records already consumed"))
			return
		}
		r.used = true

		scanner := bufio.NewScanner(r.source)
		scanner.Buffer(make([]byte, 0, initialLineBuffer), MaxLineSize)
		line := 0
		for scanner.Scan() {
			line++
			raw := scanner.Bytes()
			trimmed := bytes.TrimSpace(raw)
			if len(trimmed) == 0 {
				continue
			}
			r.stats.Lines++
			if !gjson.ValidBytes(trimmed) || trimmed[0] != '{' {
				r.stats.Malformed++
				continue
			}
			// Scanner reuses its buffer; records must own their bytes.
			rec := Record{Line: line, raw: append([]byte(nil), trimmed...)}
			if !yield(rec, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Record{}, fmt.Errorf("read archive %s line %d: %w", filepath.Base(r.path), line+1, err))
		}
	}
}
