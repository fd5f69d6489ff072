package core

import (
	"math/big"

	"github.com/Sparrow2025/besu/core/types"
)

// ChainConfig gathers the fork-dependent parameters of one chain. The
// processor and validator never consult fork switches directly; everything
// funnels through the values fixed here.
type ChainConfig struct {
	ChainID *big.Int

	// London switches the refund quotient and zeroes the self-destruct
	// refund. Base-fee handling does not depend on it: it follows whether
	// the block header carries a base fee.
	London bool

	// Shanghai activates the initcode size limit and warms the coinbase.
	Shanghai bool

	// Cancun accepts blob transactions.
	Cancun bool

	// Prague accepts set-code transactions.
	Prague bool

	// BlobGasLimit caps the blob gas one transaction may consume. Zero
	// falls back to the mainnet default of six blobs.
	BlobGasLimit uint64
}

// DefaultBlobGasLimit is six blobs per block.
const DefaultBlobGasLimit = 6 * GasPerBlob

// MainnetChainConfig returns the all-forks-active mainnet configuration.
func MainnetChainConfig() *ChainConfig {
	return &ChainConfig{
		ChainID:  big.NewInt(1),
		London:   true,
		Shanghai: true,
		Cancun:   true,
		Prague:   true,
	}
}

// AcceptedTxTypes returns the transaction type bytes the configuration
// accepts.
func (c *ChainConfig) AcceptedTxTypes() []byte {
	accepted := []byte{types.LegacyTxType, types.AccessListTxType, types.DynamicFeeTxType}
	if c.Cancun {
		accepted = append(accepted, types.BlobTxType)
	}
	if c.Prague {
		accepted = append(accepted, types.SetCodeTxType)
	}
	return accepted
}

// GasCalculator returns the calculator for the configuration's fork.
func (c *ChainConfig) GasCalculator() *GasCalculator {
	if c.London {
		return NewLondonGasCalculator()
	}
	return NewFrontierGasCalculator()
}

// maxInitcodeSize returns the creation payload bound; pre-Shanghai the
// bound is effectively absent.
func (c *ChainConfig) maxInitcodeSize() int {
	if c.Shanghai {
		return MaxInitcodeSize
	}
	return int(^uint(0) >> 1)
}

// blobGasLimit returns the per-transaction blob gas cap.
func (c *ChainConfig) blobGasLimit() uint64 {
	if c.BlobGasLimit != 0 {
		return c.BlobGasLimit
	}
	return DefaultBlobGasLimit
}

// NewValidatorForConfig assembles the mainnet validator for the
// configuration.
func NewValidatorForConfig(c *ChainConfig) *TransactionValidator {
	return NewTransactionValidator(
		c.GasCalculator(),
		c.ChainID,
		true, // EIP-2 malleability rejection
		c.AcceptedTxTypes(),
		c.maxInitcodeSize(),
		c.blobGasLimit(),
	)
}

// NewProcessorForConfig assembles a full processor: the configuration
// drives the calculator, validator, fee handling and sweep behavior; the
// frame executors are injected.
func NewProcessorForConfig(c *ChainConfig, creation, call MessageProcessor) *TransactionProcessor {
	cfg := ProcessorConfig{
		GasCalculator:      c.GasCalculator(),
		Validator:          NewValidatorForConfig(c),
		CreationProcessor:  creation,
		CallProcessor:      call,
		CoinbaseCalculator: EIP1559CoinbaseFee,
		ClearEmptyAccounts: true,
		WarmCoinbase:       c.Shanghai,
		MaxStackSize:       1024,
	}
	if c.Prague {
		cfg.AuthorityProcessor = NewSetCodeAuthorityProcessor(c.ChainID)
	}
	return NewTransactionProcessor(cfg)
}
