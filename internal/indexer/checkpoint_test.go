package indexer

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFileCheckpointStore(t *testing.T) {
	ctx := context.Background()
	store := NewFileCheckpointStore(filepath.Join(t.TempDir(), "state", "checkpoint.json"))

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected empty checkpoint, got ok=%v err=%v", ok, err)
	}

	if err := store.Save(ctx, Checkpoint{LastProcessedSlot: 1234, RunID: "run-1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	cp, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if cp.LastProcessedSlot != 1234 || cp.RunID != "run-1" || cp.UpdatedAt == "" {
		t.Fatalf("unexpected checkpoint: %+v", cp)
	}
}

func TestFileCheckpointStoreDirectory(t *testing.T) {
	store := NewFileCheckpointStore(t.TempDir())
	if _, _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected error for directory path")
	}
}

type memoryState struct {
	slots map[string]uint64
	runs  map[string]string
}

func (m *memoryState) LoadState(_ context.Context, name string) (uint64, string, bool, error) {
	slot, ok := m.slots[name]
	return slot, m.runs[name], ok, nil
}

func (m *memoryState) SaveState(_ context.Context, name string, slot uint64, runID string) error {
	m.slots[name] = slot
	m.runs[name] = runID
	return nil
}

func TestDBCheckpointStore(t *testing.T) {
	ctx := context.Background()
	backend := &memoryState{slots: map[string]uint64{}, runs: map[string]string{}}
	store := NewDBCheckpointStore(backend, "mail")

	if _, ok, _ := store.Load(ctx); ok {
		t.Fatalf("expected empty checkpoint")
	}
	if err := store.Save(ctx, Checkpoint{LastProcessedSlot: 77, RunID: "r"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	cp, ok, err := store.Load(ctx)
	if err != nil || !ok || cp.LastProcessedSlot != 77 || cp.RunID != "r" {
		t.Fatalf("unexpected checkpoint: %+v ok=%v err=%v", cp, ok, err)
	}
}
