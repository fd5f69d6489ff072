package core

import (
	"github.com/Sparrow2025/besu/core/state"
	"github.com/Sparrow2025/besu/core/types"
)

// OperationTracer observes transaction processing. Hooks fire on the
// processor's thread; implementations must not retain the updater past the
// call.
type OperationTracer interface {
	// TracePrepare fires after validation, before any state mutation.
	TracePrepare(updater *state.Updater, tx *types.Transaction)

	// TraceStartTransaction fires after the up-front debit, before the
	// initial frame executes.
	TraceStartTransaction(updater *state.Updater, tx *types.Transaction)

	// TraceBeforeReward fires before the coinbase credit.
	TraceBeforeReward(updater *state.Updater, tx *types.Transaction, reward *types.Wei)

	// TraceEndTransaction fires once per processed transaction, including
	// on internal failure (with empty output and no logs).
	TraceEndTransaction(updater *state.Updater, tx *types.Transaction,
		success bool, output []byte, logs []*types.Log, gasUsed uint64,
		selfDestructs []types.Address)
}

// NoTracer is the default tracer: it observes nothing.
type NoTracer struct{}

func (NoTracer) TracePrepare(*state.Updater, *types.Transaction)          {}
func (NoTracer) TraceStartTransaction(*state.Updater, *types.Transaction) {}
func (NoTracer) TraceBeforeReward(*state.Updater, *types.Transaction, *types.Wei) {
}
func (NoTracer) TraceEndTransaction(*state.Updater, *types.Transaction, bool, []byte, []*types.Log, uint64, []types.Address) {
}
