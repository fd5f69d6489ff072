package core

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/Sparrow2025/besu/core/state"
	"github.com/Sparrow2025/besu/core/types"
	"github.com/Sparrow2025/besu/crypto"
	"github.com/Sparrow2025/besu/log"
	"github.com/Sparrow2025/besu/rlp"
	"github.com/Sparrow2025/besu/trie"
)

// PrecompileCount is the number of precompiled contracts seeded warm.
const PrecompileCount = 10

// PrecompiledAddresses returns the addresses of the precompiled contracts
// (0x01 through 0x0a).
func PrecompiledAddresses() []types.Address {
	out := make([]types.Address, PrecompileCount)
	for i := range out {
		out[i] = types.BytesToAddress([]byte{byte(i + 1)})
	}
	return out
}

// ContractAddress derives the address of a contract created by sender at
// the given nonce: keccak256(rlp([sender, nonce]))[12:].
func ContractAddress(sender types.Address, nonce uint64) types.Address {
	enc, err := rlp.EncodeToBytes(&struct {
		Sender types.Address
		Nonce  uint64
	}{sender, nonce})
	if err != nil {
		return types.Address{}
	}
	return types.BytesToAddress(crypto.Keccak256(enc)[12:])
}

// ProcessorConfig assembles a TransactionProcessor. Fork behavior enters
// exclusively through these fields.
type ProcessorConfig struct {
	GasCalculator      *GasCalculator
	Validator          *TransactionValidator
	CreationProcessor  MessageProcessor
	CallProcessor      MessageProcessor
	CoinbaseCalculator CoinbaseFeeCalculator

	// ClearEmptyAccounts sweeps touched empty accounts post-transaction
	// (EIP-161).
	ClearEmptyAccounts bool

	// WarmCoinbase seeds the fee recipient into the warm-address set
	// (EIP-3651).
	WarmCoinbase bool

	MaxStackSize int

	// AuthorityProcessor is required when set-code transactions are
	// accepted.
	AuthorityProcessor AuthorityProcessor

	// CodeValidator vets the initial frame's code (container formats).
	// nil accepts everything.
	CodeValidator func(code []byte) error
}

// TransactionProcessor validates a single transaction against consensus
// rules, drives its frame stack to completion, settles gas, and commits or
// discards world-state mutations atomically.
type TransactionProcessor struct {
	cfg    ProcessorConfig
	logger *log.Logger
}

// NewTransactionProcessor builds a processor from the config.
func NewTransactionProcessor(cfg ProcessorConfig) *TransactionProcessor {
	if cfg.CoinbaseCalculator == nil {
		cfg.CoinbaseCalculator = EIP1559CoinbaseFee
	}
	if cfg.MaxStackSize == 0 {
		cfg.MaxStackSize = 1024
	}
	return &TransactionProcessor{
		cfg:    cfg,
		logger: log.Default().Module("processor"),
	}
}

// ProcessTransaction applies one transaction against the world state.
//
// Validation failures return an invalid result and leave the world
// untouched. Execution failures charge fees and the nonce bump but discard
// execution effects. A non-nil error is returned only for trie corruption,
// after the tracer has been notified with an empty end-of-transaction
// event; the caller re-raises it to trigger a heal. All other unexpected
// failures surface as INTERNAL_ERROR results.
func (p *TransactionProcessor) ProcessTransaction(
	world state.MutableWorld,
	header *types.Header,
	tx *types.Transaction,
	coinbase types.Address,
	tracer OperationTracer,
	blockHashes BlockHashLookup,
	params ValidationParams,
	blobGasPrice *types.Wei,
) (result *ProcessingResult, err error) {
	if tracer == nil {
		tracer = NoTracer{}
	}
	updater := state.NewUpdater(world)

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		tracer.TraceEndTransaction(updater, tx, false, nil, nil, 0, nil)
		var corrupt *trie.CorruptionError
		if asErr, ok := r.(error); ok && errors.As(asErr, &corrupt) {
			// Corruption is recoverable one layer up: re-raise so the
			// caller can trigger a heal.
			result, err = nil, corrupt
			return
		}
		p.logger.Error("unexpected failure processing transaction", "tx", tx.Hash(), "panic", r)
		result, err = InvalidResult(Invalid(InternalError, "unexpected failure: %v", r)), nil
	}()

	p.logger.Debug("starting execution", "tx", tx.Hash())
	validation := p.cfg.Validator.Validate(tx, header.BaseFee, blobGasPrice, params)
	// The transaction must be intrinsically valid before any comparison
	// against the sender account: an unsigned or malformed transaction has
	// no extractable sender.
	if !validation.IsValid() {
		p.logger.Debug("invalid transaction", "reason", validation.String())
		return InvalidResult(validation), nil
	}

	senderAddress := *tx.Sender()
	sender := updater.GetSenderAccount(senderAddress)
	validation = p.cfg.Validator.ValidateForSender(tx, sender.Account(), params)
	if !validation.IsValid() {
		p.logger.Debug("invalid transaction", "reason", validation.String())
		return InvalidResult(validation), nil
	}

	tracer.TracePrepare(updater, tx)

	warmAddresses := mapset.NewThreadUnsafeSet[types.Address]()
	if len(tx.AuthorizationList()) > 0 {
		if p.cfg.AuthorityProcessor == nil {
			panic("authority processor is required for set-code transactions")
		}
		authorized := p.cfg.AuthorityProcessor.Apply(updater, tx)
		warmAddresses = warmAddresses.Union(authorized)
	}

	previousNonce := sender.IncrementNonce()
	p.logger.Debug("incremented sender nonce",
		"sender", senderAddress, "from", previousNonce, "to", sender.Nonce())

	transactionGasPrice := EffectiveGasPrice(tx, header.BaseFee)
	blobGas := p.cfg.GasCalculator.BlobGasCost(tx.BlobCount())
	upfrontGasCost, _ := tx.UpfrontGasCost(transactionGasPrice, blobGasPrice, blobGas)
	previousBalance := sender.DecrementBalance(upfrontGasCost)
	p.logger.Debug("deducted up-front gas cost",
		"sender", senderAddress, "cost", upfrontGasCost, "balanceBefore", previousBalance)

	// Warm the access list, optionally the coinbase, and the precompiles.
	warmStorage := mapset.NewThreadUnsafeSet[StorageSlotKey]()
	accessListStorageCount := 0
	for _, entry := range tx.AccessList() {
		warmAddresses.Add(entry.Address)
		for _, key := range entry.StorageKeys {
			warmStorage.Add(StorageSlotKey{Address: entry.Address, Key: key})
		}
		accessListStorageCount += len(entry.StorageKeys)
	}
	if p.cfg.WarmCoinbase {
		warmAddresses.Add(coinbase)
	}
	for _, addr := range PrecompiledAddresses() {
		warmAddresses.Add(addr)
	}

	intrinsicGas := p.cfg.GasCalculator.TransactionIntrinsicGasCost(tx.Data(), tx.IsContractCreation())
	accessListGas := p.cfg.GasCalculator.AccessListGasCost(len(tx.AccessList()), accessListStorageCount)
	setCodeGas := p.cfg.GasCalculator.SetCodeListGasCost(len(tx.AuthorizationList()))
	gasAvailable := tx.Gas() - intrinsicGas - accessListGas - setCodeGas
	p.logger.Debug("gas available for execution",
		"available", gasAvailable, "limit", tx.Gas(),
		"intrinsic", intrinsicGas, "accessList", accessListGas, "setCode", setCodeGas)

	tracer.TraceStartTransaction(updater, tx)

	stack := NewFrameStack()
	initialFrame := &MessageFrame{
		State:           NotStarted,
		Sender:          senderAddress,
		Originator:      senderAddress,
		Coinbase:        coinbase,
		Value:           tx.Value(),
		GasRemaining:    gasAvailable,
		GasPrice:        transactionGasPrice,
		BlobGasPrice:    blobGasPrice,
		Updater:         updater.Updater(),
		WarmAddresses:   warmAddresses,
		WarmStorageKeys: warmStorage,
		SelfDestructs:   mapset.NewThreadUnsafeSet[types.Address](),
		VersionedHashes: tx.BlobHashes(),
		BlockHeader:     header,
		BlockHashes:     blockHashes,
		MaxStackSize:    p.cfg.MaxStackSize,
	}
	if tx.IsContractCreation() {
		contractAddress := ContractAddress(senderAddress, sender.Nonce()-1)
		initialFrame.Type = ContractCreation
		initialFrame.Recipient = contractAddress
		initialFrame.Contract = contractAddress
		initialFrame.Code = tx.Data()
	} else {
		to := *tx.To()
		initialFrame.Type = MessageCall
		initialFrame.Recipient = to
		initialFrame.Contract = to
		initialFrame.Input = tx.Data()
		if account, ok := updater.GetAccount(to); ok {
			initialFrame.Code = updater.GetCode(account.CodeHash)
		}
	}
	stack.Push(initialFrame)

	if err := p.validateFrameCode(initialFrame); err != nil {
		initialFrame.State = ExceptionalHalt
		initialFrame.HaltReason = err.Error()
		initialFrame.GasRemaining = 0
		stack.Pop()
		initialFrame.Updater.Revert()
		validation = Invalid(EOFCodeInvalid, "%v", err)
	} else {
		p.driveFrameStack(stack, tracer)
	}

	switch initialFrame.State {
	case CompletedSuccess:
		// The frame's updater was committed into the transaction updater
		// as the frame completed.
	case ExceptionalHalt:
		if validation.IsValid() {
			validation = Invalid(ExecutionHalted, "%s", initialFrame.HaltReason)
		}
	}

	p.logger.Debug("frame execution done",
		"tx", tx.Hash(),
		"gasUsed", tx.Gas()-initialFrame.GasRemaining,
		"state", initialFrame.State)

	// Refund the sender, then pay the coinbase. Done in this order so a
	// coinbase that is also the sender ends with the right balance.
	selfDestructRefund := p.cfg.GasCalculator.SelfDestructRefundAmount() * uint64(initialFrame.SelfDestructs.Cardinality())
	baseRefundGas := initialFrame.GasRefund + selfDestructRefund
	refundedGas := p.refunded(tx, initialFrame.GasRemaining, baseRefundGas)
	refundedWei := new(types.Wei).Mul(transactionGasPrice, types.NewWei(refundedGas))
	sender.IncrementBalance(refundedWei)

	gasUsedByTransaction := tx.Gas() - initialFrame.GasRemaining
	usedGas := tx.Gas() - refundedGas

	coinbaseCalculator := p.cfg.CoinbaseCalculator
	if header.BaseFee != nil {
		if transactionGasPrice.Lt(header.BaseFee) {
			return FailedResult(gasUsedByTransaction, refundedGas,
				Invalid(GasPriceBelowBaseFee, "transaction price must be greater than base fee"),
				nil), nil
		}
	} else {
		coinbaseCalculator = FrontierCoinbaseFee
	}
	coinbaseReward := coinbaseCalculator(usedGas, transactionGasPrice, header.BaseFee)
	tracer.TraceBeforeReward(updater, tx, coinbaseReward)
	updater.GetOrCreate(coinbase).IncrementBalance(coinbaseReward)

	selfDestructs := initialFrame.SelfDestructs.ToSlice()
	tracer.TraceEndTransaction(updater, tx,
		initialFrame.State == CompletedSuccess,
		initialFrame.Output, initialFrame.Logs, gasUsedByTransaction, selfDestructs)

	for _, addr := range selfDestructs {
		updater.Delete(addr)
	}
	if p.cfg.ClearEmptyAccounts {
		updater.DeleteEmptyTouched()
	}

	// Fees, refunds and surviving execution effects publish atomically.
	updater.Commit()

	if initialFrame.State == CompletedSuccess {
		return SuccessfulResult(initialFrame.Logs, gasUsedByTransaction, refundedGas, initialFrame.Output), nil
	}
	if initialFrame.HaltReason != "" {
		p.logger.Debug("transaction halted", "tx", tx.Hash(), "reason", initialFrame.HaltReason)
	}
	if len(initialFrame.RevertReason) > 0 {
		p.logger.Debug("transaction reverted", "tx", tx.Hash(), "reason", fmt.Sprintf("%x", initialFrame.RevertReason))
	}
	return FailedResult(gasUsedByTransaction, refundedGas, validation, initialFrame.RevertReason), nil
}

// driveFrameStack asks the injected message processor to advance the top
// frame until the stack drains. The interpreter grows the stack with
// nested call and creation frames; this loop only sequences and settles
// them.
func (p *TransactionProcessor) driveFrameStack(stack *FrameStack, tracer OperationTracer) {
	for !stack.IsEmpty() {
		frame := stack.Peek()
		if !frame.State.IsTerminal() {
			p.messageProcessor(frame.Type).Process(frame, tracer)
		}
		if frame.State.IsTerminal() {
			stack.Pop()
			switch frame.State {
			case CompletedSuccess:
				frame.Updater.Commit()
			case ExceptionalHalt:
				// A halt consumes everything the frame was given.
				frame.GasRemaining = 0
				frame.Updater.Revert()
			default:
				frame.Updater.Revert()
			}
		}
	}
}

// messageProcessor selects the injected executor for a frame type.
func (p *TransactionProcessor) messageProcessor(t FrameType) MessageProcessor {
	if t == ContractCreation {
		return p.cfg.CreationProcessor
	}
	return p.cfg.CallProcessor
}

func (p *TransactionProcessor) validateFrameCode(frame *MessageFrame) error {
	if p.cfg.CodeValidator == nil {
		return nil
	}
	return p.cfg.CodeValidator(frame.Code)
}

// refunded computes the gas returned to the sender: the remaining gas plus
// the refund counter capped at used/quotient. Integer division supplies
// the floor.
func (p *TransactionProcessor) refunded(tx *types.Transaction, gasRemaining, gasRefund uint64) uint64 {
	maxRefundAllowance := (tx.Gas() - gasRemaining) / p.cfg.GasCalculator.MaxRefundQuotient()
	refundAllowance := min(maxRefundAllowance, gasRefund)
	return gasRemaining + refundAllowance
}
