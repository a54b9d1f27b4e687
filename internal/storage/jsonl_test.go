package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"mailscope/internal/model"
)

func sampleRows() []model.DatabaseRow {
	return []model.DatabaseRow{
		{Table: "register_instruction", PK: "aa", Columns: []model.Column{{Name: "trx_hash", Value: "sig1"}, {Name: "nostr_key", Value: "npub"}}},
		{Table: "mail_v2_read_event", PK: "bb", Columns: []model.Column{{Name: "trx_hash", Value: "sig2"}}},
	}
}

func TestJsonlStorageRoundTrip(t *testing.T) {
	for _, name := range []string{"rows.jsonl", "rows.jsonl.zst"} {
		path := filepath.Join(t.TempDir(), "out", name)
		sink := NewJsonlStorage(path)

		rows := sampleRows()
		if err := sink.PutRows(context.Background(), rows[:1]); err != nil {
			t.Fatalf("%s: put rows: %v", name, err)
		}
		if err := sink.PutRows(context.Background(), rows[1:]); err != nil {
			t.Fatalf("%s: put rows: %v", name, err)
		}
		if err := sink.PutRows(context.Background(), nil); err != nil {
			t.Fatalf("%s: put empty rows: %v", name, err)
		}

		var got []model.DatabaseRow
		err := ReadRows(path, func(row model.DatabaseRow) error {
			got = append(got, row)
			return nil
		})
		if err != nil {
			t.Fatalf("%s: read rows: %v", name, err)
		}
		if !reflect.DeepEqual(got, rows) {
			t.Fatalf("%s: rows mismatch: %+v != %+v", name, got, rows)
		}
	}
}

func TestJSONLWriterTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.jsonl")
	for i := 0; i < 2; i++ {
		w, err := NewJSONLWriter(path, false)
		if err != nil {
			t.Fatalf("open writer: %v", err)
		}
		if err := w.Write(model.DecodeError{Slot: 7, Error: "boom"}); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	lines := 0
	if err := ReadJSONL(path, func([]byte) error { lines++; return nil }); err != nil {
		t.Fatalf("read: %v", err)
	}
	if lines != 1 {
		t.Fatalf("expected 1 line after truncating writes, got %d", lines)
	}
}

func TestReadRowsMissingFile(t *testing.T) {
	if err := ReadRows(filepath.Join(t.TempDir(), "missing.jsonl"), func(model.DatabaseRow) error { return nil }); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestJSONLWriterCloseReportsFlushError(t *testing.T) {
	for _, name := range []string{"rows.jsonl", "rows.jsonl.zst"} {
		w, err := NewJSONLWriter(filepath.Join(t.TempDir(), name), false)
		if err != nil {
			t.Fatalf("%s: open writer: %v", name, err)
		}
		if err := w.Write(sampleRows()[0]); err != nil {
			t.Fatalf("%s: write: %v", name, err)
		}
		w.file.Close()

		if err := w.Close(); err == nil {
			t.Fatalf("%s: expected error when the final flush cannot reach the file", name)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("%s: second close should be a no-op, got %v", name, err)
		}
	}
}
