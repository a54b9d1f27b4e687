package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Checkpoint tracks the last slot whose rows reached the sink.
type Checkpoint struct {
	LastProcessedSlot uint64 `json:"last_processed_slot"`
	RunID             string `json:"run_id,omitempty"`
	UpdatedAt         string `json:"updated_at"`
}

// CheckpointStore persists checkpoints between runs.
type CheckpointStore interface {
	Load(ctx context.Context) (Checkpoint, bool, error)
	Save(ctx context.Context, cp Checkpoint) error
}

// FileCheckpointStore keeps the checkpoint in a local JSON file.
type FileCheckpointStore struct {
	path string
}

// NewFileCheckpointStore stores the checkpoint at path.
func NewFileCheckpointStore(path string) *FileCheckpointStore {
	return &FileCheckpointStore{path: path}
}

func (c *FileCheckpointStore) Load(_ context.Context) (Checkpoint, bool, error) {
	stat, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Checkpoint{}, false, nil
		}
		return Checkpoint{}, false, fmt.Errorf("stat checkpoint: %w", err)
	}
	if stat.IsDir() {
		return Checkpoint{}, false, fmt.Errorf("checkpoint path is a directory")
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return Checkpoint{}, false, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, false, fmt.Errorf("parse checkpoint: %w", err)
	}
	return cp, true, nil
}

func (c *FileCheckpointStore) Save(_ context.Context, cp Checkpoint) error {
	dir := filepath.Dir(c.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create checkpoint dir: %w", err)
		}
	}

	if cp.UpdatedAt == "" {
		cp.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}

// StateBackend is a table-backed key/value store for checkpoints, such as postgres.Store.
type StateBackend interface {
	LoadState(ctx context.Context, name string) (slot uint64, runID string, ok bool, err error)
	SaveState(ctx context.Context, name string, slot uint64, runID string) error
}

// DBCheckpointStore keeps the checkpoint in a named row of a StateBackend.
type DBCheckpointStore struct {
	backend StateBackend
	name    string
}

// NewDBCheckpointStore stores the checkpoint under name in backend.
func NewDBCheckpointStore(backend StateBackend, name string) *DBCheckpointStore {
	return &DBCheckpointStore{backend: backend, name: name}
}

func (c *DBCheckpointStore) Load(ctx context.Context) (Checkpoint, bool, error) {
	slot, runID, ok, err := c.backend.LoadState(ctx, c.name)
	if err != nil {
		return Checkpoint{}, false, fmt.Errorf("load checkpoint %s: %w", c.name, err)
	}
	if !ok {
		return Checkpoint{}, false, nil
	}
	return Checkpoint{LastProcessedSlot: slot, RunID: runID}, true, nil
}

func (c *DBCheckpointStore) Save(ctx context.Context, cp Checkpoint) error {
	if err := c.backend.SaveState(ctx, c.name, cp.LastProcessedSlot, cp.RunID); err != nil {
		return fmt.Errorf("save checkpoint %s: %w", c.name, err)
	}
	return nil
}
