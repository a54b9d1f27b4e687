package indexer

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"

	"mailscope/internal/chain"
	"mailscope/internal/mail"
	"mailscope/internal/metrics"
	"mailscope/internal/model"
)

var runnerProgram = solana.MustPublicKeyFromBase58("AWzFXDVYFkiFH5SqmHQ7BBYn4L94CxZwni68vsPmXcVe")

type fakeSource struct {
	mu      sync.Mutex
	latest  uint64
	blocks  map[uint64]*chain.Block
	fail    map[uint64]int
	fetched []uint64
}

func (f *fakeSource) LatestSlot(context.Context) (uint64, error) {
	return f.latest, nil
}

func (f *fakeSource) GetBlock(_ context.Context, slot uint64) (*chain.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, slot)
	if f.fail[slot] > 0 {
		f.fail[slot]--
		return nil, errors.New("rpc unavailable")
	}
	block, ok := f.blocks[slot]
	if !ok {
		return nil, nil
	}
	copied := *block
	copied.Slot = slot
	return &copied, nil
}

type memorySink struct {
	batches [][]model.DatabaseRow
}

func (m *memorySink) PutRows(_ context.Context, rows []model.DatabaseRow) error {
	m.batches = append(m.batches, rows)
	return nil
}

func (m *memorySink) rows() []model.DatabaseRow {
	var out []model.DatabaseRow
	for _, b := range m.batches {
		out = append(out, b...)
	}
	return out
}

type memoryCheckpoint struct {
	cp    Checkpoint
	ok    bool
	saves []uint64
}

func (m *memoryCheckpoint) Load(context.Context) (Checkpoint, bool, error) {
	return m.cp, m.ok, nil
}

func (m *memoryCheckpoint) Save(_ context.Context, cp Checkpoint) error {
	m.cp, m.ok = cp, true
	m.saves = append(m.saves, cp.LastProcessedSlot)
	return nil
}

func readEventLog(id string) string {
	d := mail.EventDiscriminator("MailV2ReadEvent")
	payload := append([]byte(nil), d[:]...)
	payload = binary.LittleEndian.AppendUint32(payload, uint32(len(id)))
	payload = append(payload, id...)
	payload = append(payload, make([]byte, 32)...)
	return "Program data: " + base64.StdEncoding.EncodeToString(payload)
}

func mailBlock(sig, id string) *chain.Block {
	program := runnerProgram.String()
	return &chain.Block{
		Blockhash: "hash-" + sig,
		Transactions: []chain.TransactionWithMeta{{
			Transaction: chain.Transaction{Signatures: []string{sig}},
			Meta: &chain.TransactionMeta{
				Err: json.RawMessage("null"),
				LogMessages: []string{
					"Program " + program + " invoke [1]",
					readEventLog(id),
					"Program " + program + " success",
				},
			},
		}},
	}
}

func TestRunnerRun(t *testing.T) {
	source := &fakeSource{
		latest: 13,
		blocks: map[uint64]*chain.Block{
			10: mailBlock("sig10", "a"),
			11: mailBlock("sig11", "b"),
			13: mailBlock("sig13", "c"),
		},
		fail: map[uint64]int{11: 1},
	}
	sink := &memorySink{}
	checkpoint := &memoryCheckpoint{}

	runner := NewRunner(RunConfig{
		FromSlot:    10,
		BatchSize:   2,
		Concurrency: 2,
		MaxRetries:  2,
		RunID:       "test-run",
	}, source, mail.NewProcessor(runnerProgram, nil), sink, checkpoint, metrics.New(), nil)

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var ids []string
	for _, row := range sink.rows() {
		id, _ := row.Get("mail_id")
		ids = append(ids, id)
	}
	if !reflect.DeepEqual(ids, []string{"a", "b", "c"}) {
		t.Fatalf("rows out of slot order: %v", ids)
	}
	if !reflect.DeepEqual(checkpoint.saves, []uint64{11, 13}) {
		t.Fatalf("checkpoint saves mismatch: %v", checkpoint.saves)
	}
	if checkpoint.cp.RunID != "test-run" {
		t.Fatalf("run id not recorded: %+v", checkpoint.cp)
	}
}

func TestRunnerResumesFromCheckpoint(t *testing.T) {
	source := &fakeSource{
		blocks: map[uint64]*chain.Block{
			5: mailBlock("sig5", "a"),
			6: mailBlock("sig6", "b"),
		},
	}
	sink := &memorySink{}
	checkpoint := &memoryCheckpoint{cp: Checkpoint{LastProcessedSlot: 5}, ok: true}

	runner := NewRunner(RunConfig{FromSlot: 5, ToSlot: 6, BatchSize: 10}, source,
		mail.NewProcessor(runnerProgram, nil), sink, checkpoint, nil, nil)
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(source.fetched, []uint64{6}) {
		t.Fatalf("expected only slot 6 fetched, got %v", source.fetched)
	}
	if len(sink.rows()) != 1 {
		t.Fatalf("expected one row, got %d", len(sink.rows()))
	}
}

func TestRunnerReplayIsIdempotent(t *testing.T) {
	source := &fakeSource{blocks: map[uint64]*chain.Block{1: mailBlock("sig1", "a")}}
	processor := mail.NewProcessor(runnerProgram, nil)

	first, second := &memorySink{}, &memorySink{}
	for _, sink := range []*memorySink{first, second} {
		runner := NewRunner(RunConfig{FromSlot: 1, ToSlot: 1, BatchSize: 1}, source, processor, sink, nil, nil, nil)
		if err := runner.Run(context.Background()); err != nil {
			t.Fatalf("run: %v", err)
		}
	}
	if !reflect.DeepEqual(first.rows(), second.rows()) {
		t.Fatalf("replay produced different rows")
	}
}

func TestRunnerFetchFailure(t *testing.T) {
	source := &fakeSource{fail: map[uint64]int{3: 10}}
	runner := NewRunner(RunConfig{FromSlot: 3, ToSlot: 3, BatchSize: 1, MaxRetries: 1}, source,
		mail.NewProcessor(runnerProgram, nil), &memorySink{}, nil, nil, nil)
	if err := runner.Run(context.Background()); err == nil {
		t.Fatalf("expected error when retries are exhausted")
	}
}
