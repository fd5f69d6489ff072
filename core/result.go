package core

import "github.com/Sparrow2025/besu/core/types"

// ProcessingStatus classifies the outcome of processing one transaction.
type ProcessingStatus int

const (
	// StatusInvalid means validation rejected the transaction; world state
	// is untouched.
	StatusInvalid ProcessingStatus = iota

	// StatusFailed means execution halted or reverted; fees were charged
	// but execution effects were discarded.
	StatusFailed

	// StatusSuccessful means execution completed and its effects
	// committed.
	StatusSuccessful
)

// ProcessingResult is the report for one processed transaction.
type ProcessingResult struct {
	Status ProcessingStatus

	Logs         []*types.Log
	GasUsed      uint64
	GasRefunded  uint64
	Output       []byte
	RevertReason []byte

	// Validation carries the failure reason for invalid and failed
	// results.
	Validation ValidationResult
}

// SuccessfulResult builds the result of a committed execution.
func SuccessfulResult(logs []*types.Log, gasUsed, gasRefunded uint64, output []byte) *ProcessingResult {
	return &ProcessingResult{
		Status:      StatusSuccessful,
		Logs:        logs,
		GasUsed:     gasUsed,
		GasRefunded: gasRefunded,
		Output:      output,
		Validation:  Valid(),
	}
}

// FailedResult builds the result of a halted or reverted execution.
func FailedResult(gasUsed, gasRefunded uint64, validation ValidationResult, revertReason []byte) *ProcessingResult {
	return &ProcessingResult{
		Status:       StatusFailed,
		GasUsed:      gasUsed,
		GasRefunded:  gasRefunded,
		Validation:   validation,
		RevertReason: revertReason,
	}
}

// InvalidResult builds the result of a rejected transaction.
func InvalidResult(validation ValidationResult) *ProcessingResult {
	return &ProcessingResult{
		Status:     StatusInvalid,
		Validation: validation,
	}
}

// IsSuccessful reports whether execution committed.
func (r *ProcessingResult) IsSuccessful() bool { return r.Status == StatusSuccessful }

// IsFailed reports whether execution failed after validation passed.
func (r *ProcessingResult) IsFailed() bool { return r.Status == StatusFailed }

// IsInvalid reports whether validation rejected the transaction.
func (r *ProcessingResult) IsInvalid() bool { return r.Status == StatusInvalid }
