package core

import (
	"errors"
	"testing"

	"github.com/Sparrow2025/besu/core/state"
	"github.com/Sparrow2025/besu/core/types"
	"github.com/Sparrow2025/besu/trie"
)

// corruptWorld panics with a trie corruption error on the first account
// read, imitating an unreadable state entry.
type corruptWorld struct {
	*state.MemoryWorld
}

func (w *corruptWorld) GetAccount(addr types.Address) (*types.Account, bool) {
	panic(&trie.CorruptionError{Key: addr.Bytes(), Reason: "unreadable node"})
}

type endEvent struct {
	called  bool
	success bool
	output  []byte
	logs    []*types.Log
}

type recordingTracer struct {
	NoTracer
	end endEvent
}

func (r *recordingTracer) TraceEndTransaction(_ *state.Updater, _ *types.Transaction,
	success bool, output []byte, logs []*types.Log, _ uint64, _ []types.Address) {
	r.end = endEvent{called: true, success: success, output: output, logs: logs}
}

// TestTrieCorruptionReRaised checks the propagation policy: corruption is
// returned to the caller (so it can trigger a heal) after the tracer sees
// an empty end-of-transaction event; it never becomes INTERNAL_ERROR.
func TestTrieCorruptionReRaised(t *testing.T) {
	world := &corruptWorld{state.NewMemoryWorld()}
	recipient := types.HexToAddress("0xbb")

	tx := signTx(t, &types.LegacyTx{
		Nonce:    0,
		GasPrice: types.NewWei(20),
		Gas:      21000,
		To:       &recipient,
		Value:    types.NewWei(1),
	})

	tracer := &recordingTracer{}
	p := testProcessor(nil, succeedTransfer)
	result, err := p.ProcessTransaction(world, testHeader(10), tx, testCoinbase,
		tracer, nil, BlockProcessingParams(), nil)

	var corrupt *trie.CorruptionError
	if !errors.As(err, &corrupt) {
		t.Fatalf("err = %v, want trie.CorruptionError", err)
	}
	if result != nil {
		t.Fatal("corruption must not produce a result")
	}
	if !tracer.end.called {
		t.Fatal("tracer must see the end-of-transaction event")
	}
	if tracer.end.success || tracer.end.output != nil || tracer.end.logs != nil {
		t.Fatal("corruption end event must be empty")
	}
}
