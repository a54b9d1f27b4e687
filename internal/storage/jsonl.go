package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"mailscope/internal/model"
)

const maxLineSize = 16 * 1024 * 1024

// IsCompressed reports whether path selects zstd framing.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// JSONLWriter writes one JSON value per line, zstd-compressed when the path ends in .zst.
type JSONLWriter struct {
	file    *os.File
	encoder *zstd.Encoder
	writer  *bufio.Writer
}

// NewJSONLWriter opens path for writing, truncating it unless appendMode is set.
func NewJSONLWriter(path string, appendMode bool) (*JSONLWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	w := &JSONLWriter{file: file}
	var out io.Writer = file
	if IsCompressed(path) {
		w.encoder, err = zstd.NewWriter(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		out = w.encoder
	}
	w.writer = bufio.NewWriter(out)
	return w, nil
}

func (w *JSONLWriter) Write(value any) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

// Close flushes buffered lines, ends the zstd frame and closes the file.
// Calling it again is a no-op.
func (w *JSONLWriter) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	file := w.file
	w.file = nil

	if err := w.writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("flush: %w", err)
	}
	if w.encoder != nil {
		if err := w.encoder.Close(); err != nil {
			file.Close()
			return fmt.Errorf("close zstd frame: %w", err)
		}
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

// ReadJSONL calls fn with every non-empty line of path, decompressing .zst input.
func ReadJSONL(path string, fn func(line []byte) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	var in io.Reader = file
	if IsCompressed(path) {
		decoder, err := zstd.NewReader(file)
		if err != nil {
			return fmt.Errorf("zstd reader: %w", err)
		}
		defer decoder.Close()
		in = decoder
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}
	return nil
}

// ReadRows streams DatabaseRow values from a rows JSONL file.
func ReadRows(path string, fn func(model.DatabaseRow) error) error {
	return ReadJSONL(path, func(line []byte) error {
		var row model.DatabaseRow
		if err := json.Unmarshal(line, &row); err != nil {
			return fmt.Errorf("parse row: %w", err)
		}
		return fn(row)
	})
}

// JsonlStorage appends rows to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

// NewJsonlStorage appends rows to path.
func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutRows appends a batch of rows. With a .zst path each batch is its own zstd frame.
func (s *JsonlStorage) PutRows(_ context.Context, rows []model.DatabaseRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := NewJSONLWriter(s.path, true)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			w.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
