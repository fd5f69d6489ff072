package core

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/Sparrow2025/besu/core/state"
	"github.com/Sparrow2025/besu/core/types"
)

// FrameType distinguishes message calls from contract creations.
type FrameType int

const (
	MessageCall FrameType = iota
	ContractCreation
)

// FrameState is the lifecycle of a single message frame. Only the three
// terminal states release resources to the parent frame.
type FrameState int

const (
	NotStarted FrameState = iota
	CodeSuspended
	CodeExecuting
	CompletedSuccess
	Reverted
	ExceptionalHalt
)

// IsTerminal reports whether the state ends the frame.
func (s FrameState) IsTerminal() bool {
	return s == CompletedSuccess || s == Reverted || s == ExceptionalHalt
}

// StorageSlotKey identifies one warm storage slot.
type StorageSlotKey struct {
	Address types.Address
	Key     types.Hash
}

// BlockHashLookup resolves historical block hashes for the interpreter.
type BlockHashLookup func(blockNumber uint64) types.Hash

// MessageFrame is one entry of the execution frame stack. Frames form a
// stack, not a graph: the interpreter pushes child frames for nested calls
// and creations, and only the processor's loop pops them.
type MessageFrame struct {
	Type  FrameType
	State FrameState

	// Code and input. For creations the code is the initcode and the input
	// is empty; for calls the code comes from the recipient account.
	Code  []byte
	Input []byte

	Sender     types.Address
	Recipient  types.Address
	Contract   types.Address
	Originator types.Address
	Coinbase   types.Address
	Value      *types.Wei

	GasRemaining uint64
	GasPrice     *types.Wei
	BlobGasPrice *types.Wei

	// Updater stages the frame's world-state mutations. The initial
	// frame's updater is a child of the transaction updater; the
	// interpreter gives nested frames their own children.
	Updater *state.Updater

	// Transaction-scoped context, shared down the stack.
	WarmAddresses   mapset.Set[types.Address]
	WarmStorageKeys mapset.Set[StorageSlotKey]
	SelfDestructs   mapset.Set[types.Address]
	VersionedHashes []types.Hash
	BlockHeader     *types.Header
	BlockHashes     BlockHashLookup

	// Execution products.
	GasRefund    uint64
	Logs         []*types.Log
	Output       []byte
	RevertReason []byte
	HaltReason   string

	MaxStackSize int
	stack        *FrameStack
}

// Stack returns the frame stack this frame executes on.
func (f *MessageFrame) Stack() *FrameStack { return f.stack }

// PushChild places a child frame on the stack, inheriting the
// transaction-scoped context. The interpreter calls this for nested calls
// and creations.
func (f *MessageFrame) PushChild(child *MessageFrame) {
	child.Originator = f.Originator
	child.Coinbase = f.Coinbase
	child.GasPrice = f.GasPrice
	child.BlobGasPrice = f.BlobGasPrice
	child.WarmAddresses = f.WarmAddresses
	child.WarmStorageKeys = f.WarmStorageKeys
	child.SelfDestructs = f.SelfDestructs
	child.VersionedHashes = f.VersionedHashes
	child.BlockHeader = f.BlockHeader
	child.BlockHashes = f.BlockHashes
	child.MaxStackSize = f.MaxStackSize
	child.stack = f.stack
	f.stack.Push(child)
}

// AddLog appends a log to the frame.
func (f *MessageFrame) AddLog(log *types.Log) {
	f.Logs = append(f.Logs, log.Copy())
}

// IncrementGasRefund raises the refund counter.
func (f *MessageFrame) IncrementGasRefund(amount uint64) {
	f.GasRefund += amount
}

// MarkSelfDestruct records an account scheduled for deletion at
// end-of-transaction.
func (f *MessageFrame) MarkSelfDestruct(addr types.Address) {
	f.SelfDestructs.Add(addr)
}

// WarmUpAddress marks an address warm, reporting whether it already was.
func (f *MessageFrame) WarmUpAddress(addr types.Address) bool {
	return !f.WarmAddresses.Add(addr)
}

// WarmUpStorage marks a storage slot warm, reporting whether it already
// was.
func (f *MessageFrame) WarmUpStorage(addr types.Address, key types.Hash) bool {
	return !f.WarmStorageKeys.Add(StorageSlotKey{Address: addr, Key: key})
}

// FrameStack is the explicit stack of in-flight frames. The top frame is
// the executing one; parents wait below it.
type FrameStack struct {
	frames []*MessageFrame
}

// NewFrameStack returns an empty stack.
func NewFrameStack() *FrameStack {
	return &FrameStack{}
}

// Push places a frame on top.
func (s *FrameStack) Push(f *MessageFrame) {
	f.stack = s
	s.frames = append(s.frames, f)
}

// Pop removes and returns the top frame.
func (s *FrameStack) Pop() *MessageFrame {
	if len(s.frames) == 0 {
		return nil
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

// Peek returns the top frame without removing it.
func (s *FrameStack) Peek() *MessageFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// IsEmpty reports whether no frames remain.
func (s *FrameStack) IsEmpty() bool { return len(s.frames) == 0 }

// Depth returns the number of in-flight frames.
func (s *FrameStack) Depth() int { return len(s.frames) }

// MessageProcessor advances a frame. Implementations must either drive the
// frame to a terminal state or push a child frame and suspend; they never
// block on anything but their own computation. The EVM interpreter plugs
// in here.
type MessageProcessor interface {
	Process(frame *MessageFrame, tracer OperationTracer)
}
