package core

import (
	"math/big"

	"github.com/Sparrow2025/besu/core/types"
	"github.com/Sparrow2025/besu/crypto"
)

// TransactionValidator gates transactions against consensus rules. Stages
// run in order and short-circuit on the first failure; every failure
// carries a reason from the taxonomy.
type TransactionValidator struct {
	gasCalculator *GasCalculator
	signer        types.Signer

	chainID              *big.Int // nil accepts only replay-unprotected txs
	disallowMalleability bool
	acceptedTypes        map[byte]bool
	maxInitcodeSize      int
	blobGasLimit         uint64
}

// NewTransactionValidator builds a validator for one chain. acceptedTypes
// lists the transaction type bytes the fork accepts.
func NewTransactionValidator(
	gasCalculator *GasCalculator,
	chainID *big.Int,
	disallowMalleability bool,
	acceptedTypes []byte,
	maxInitcodeSize int,
	blobGasLimit uint64,
) *TransactionValidator {
	accepted := make(map[byte]bool, len(acceptedTypes))
	for _, t := range acceptedTypes {
		accepted[t] = true
	}
	var signer types.Signer
	if chainID != nil {
		signer = types.NewSigner(chainID)
	} else {
		signer = types.NewSigner(new(big.Int))
	}
	return &TransactionValidator{
		gasCalculator:        gasCalculator,
		signer:               signer,
		chainID:              chainID,
		disallowMalleability: disallowMalleability,
		acceptedTypes:        accepted,
		maxInitcodeSize:      maxInitcodeSize,
		blobGasLimit:         blobGasLimit,
	}
}

// Validate runs the stateless stages: signature, type acceptance, blob
// preflight, nonce bounds, initcode size and the fee floors. baseFee and
// blobFee are nil before their forks activate.
func (v *TransactionValidator) Validate(tx *types.Transaction, baseFee, blobFee *types.Wei, params ValidationParams) ValidationResult {
	if result := v.validateSignature(tx); !result.IsValid() {
		return result
	}

	if !v.acceptedTypes[tx.Type()] {
		return Invalid(InvalidTransactionFormat,
			"transaction type %d is not accepted", tx.Type())
	}

	if tx.Type() == types.BlobTxType {
		if result := v.validateBlobPreflight(tx); !result.IsValid() {
			return result
		}
		if tx.Sidecar() != nil {
			if result := v.validateBlobSidecar(tx); !result.IsValid() {
				return result
			}
		}
	}

	if tx.Nonce() == types.MaxNonce {
		return Invalid(NonceOverflow, "nonce must be less than 2^64-1")
	}

	if tx.IsContractCreation() && len(tx.Data()) > v.maxInitcodeSize {
		return Invalid(InitcodeTooLarge,
			"initcode size %d exceeds maximum %d", len(tx.Data()), v.maxInitcodeSize)
	}

	return v.validateCostAndFee(tx, baseFee, blobFee, params)
}

// ValidateForSender runs the stateful stage against the sender account.
// sender may be nil for a not-yet-existing account.
func (v *TransactionValidator) ValidateForSender(tx *types.Transaction, sender *types.Account, params ValidationParams) ValidationResult {
	senderBalance := new(types.Wei)
	senderNonce := uint64(0)
	hasCode := false
	if sender != nil {
		if sender.Balance != nil {
			senderBalance = sender.Balance
		}
		senderNonce = sender.Nonce
		hasCode = sender.HasCode()
	}

	blobGas := v.gasCalculator.BlobGasCost(tx.BlobCount())
	upfront, ok := tx.UpfrontCost(blobGas)
	if !ok {
		return Invalid(UpfrontCostExceedsUint256, "up-front cost cannot exceed 2^256 wei")
	}
	if upfront.Gt(senderBalance) {
		return Invalid(UpfrontCostExceedsBalance,
			"up-front cost %s exceeds sender balance %s", upfront, senderBalance)
	}

	if tx.Nonce() < senderNonce {
		return Invalid(NonceTooLow,
			"transaction nonce %d below sender nonce %d", tx.Nonce(), senderNonce)
	}
	if !params.AllowFutureNonce && tx.Nonce() != senderNonce {
		return Invalid(NonceTooHigh,
			"transaction nonce %d does not match sender nonce %d", tx.Nonce(), senderNonce)
	}

	if !params.AllowContractSender && hasCode {
		return Invalid(TxSenderNotAuthorized,
			"sender %s has deployed code and is not authorized to send transactions", senderAddr(tx))
	}

	return Valid()
}

func (v *TransactionValidator) validateSignature(tx *types.Transaction) ValidationResult {
	txChainID := tx.ChainID()
	if v.chainID != nil {
		if txChainID != nil && txChainID.Sign() != 0 && txChainID.Cmp(v.chainID) != 0 {
			return Invalid(WrongChainID,
				"transaction was meant for chain id %s, not %s", txChainID, v.chainID)
		}
	} else if txChainID != nil && txChainID.Sign() != 0 {
		return Invalid(ReplayProtectedUnsupported,
			"replay-protected signatures are not supported")
	}

	r, s, recoveryID, err := v.signer.SignatureParts(tx)
	if err != nil {
		return Invalid(SignatureInvalid, "malformed signature values: %v", err)
	}
	if err := crypto.ValidateSignatureValues(recoveryID, r, s, v.disallowMalleability); err != nil {
		return Invalid(SignatureInvalid, "%v", err)
	}

	// Recover (and cache) the sender eagerly: a transaction whose sender
	// cannot be extracted is invalid before any stateful check.
	if tx.Sender() == nil {
		hash, err := v.signer.SigningHash(tx)
		if err != nil {
			return Invalid(SignatureInvalid, "signing hash: %v", err)
		}
		from, err := crypto.RecoverAddress(hash, r, s, recoveryID)
		if err != nil {
			return Invalid(SignatureInvalid, "sender could not be extracted from signature")
		}
		tx.SetSender(from)
	}
	return Valid()
}

func (v *TransactionValidator) validateBlobPreflight(tx *types.Transaction) ValidationResult {
	if tx.To() == nil {
		return Invalid(InvalidTransactionFormat, "blob transactions must have a to address")
	}
	if len(tx.BlobHashes()) == 0 {
		return Invalid(InvalidBlobs, "blob transactions must specify one or more versioned hashes")
	}
	return Valid()
}

// validateBlobSidecar checks the sidecar geometry, the commitment to
// versioned-hash binding, and the batched KZG proof.
func (v *TransactionValidator) validateBlobSidecar(tx *types.Transaction) ValidationResult {
	sidecar := tx.Sidecar()
	hashes := tx.BlobHashes()

	if len(sidecar.Blobs) == 0 {
		return Invalid(InvalidBlobs, "sidecar carries no blobs")
	}
	if len(sidecar.Blobs) != len(sidecar.Commitments) || len(sidecar.Blobs) != len(sidecar.Proofs) {
		return Invalid(InvalidBlobs, "sidecar blobs, commitments and proofs are not the same size")
	}
	if len(sidecar.Commitments) != len(hashes) {
		return Invalid(InvalidBlobs, "sidecar commitments and versioned hashes are not the same size")
	}

	blobs := make([][]byte, len(sidecar.Blobs))
	commitments := make([][]byte, len(sidecar.Commitments))
	proofs := make([][]byte, len(sidecar.Proofs))
	for i := range sidecar.Blobs {
		if hashes[i][0] != types.VersionedHashVersionKZG {
			return Invalid(InvalidBlobs,
				"versioned hash %d has version 0x%02x, want 0x%02x",
				i, hashes[i][0], types.VersionedHashVersionKZG)
		}
		if sidecar.Commitments[i].VersionedHash() != hashes[i] {
			return Invalid(InvalidBlobs, "commitment %d does not match its versioned hash", i)
		}
		blobs[i] = sidecar.Blobs[i]
		commitments[i] = sidecar.Commitments[i][:]
		proofs[i] = sidecar.Proofs[i][:]
	}

	if err := crypto.VerifyBlobKZGProofBatch(blobs, commitments, proofs); err != nil {
		return Invalid(InvalidBlobs, "kzg proof verification failed: %v", err)
	}
	return Valid()
}

func (v *TransactionValidator) validateCostAndFee(tx *types.Transaction, baseFee, blobFee *types.Wei, params ValidationParams) ValidationResult {
	if baseFee != nil {
		price := EffectiveGasPrice(tx, baseFee)
		if !params.AllowUnderpriced && price.Lt(baseFee) {
			return Invalid(GasPriceBelowBaseFee, "gas price is less than the current base fee")
		}
		if tx.Supports1559FeeMarket() && tx.GasTipCap().Gt(tx.GasFeeCap()) {
			return Invalid(MaxPriorityFeeExceedsMax,
				"max priority fee per gas cannot be greater than max fee per gas")
		}
	}

	if tx.Type() == types.BlobTxType {
		totalBlobGas := v.gasCalculator.BlobGasCost(tx.BlobCount())
		if totalBlobGas > v.blobGasLimit {
			return Invalid(TotalBlobGasTooHigh,
				"total blob gas %d exceeds limit %d", totalBlobGas, v.blobGasLimit)
		}
		if blobFee != nil && !params.AllowUnderpriced && blobFee.Gt(tx.BlobGasFeeCap()) {
			return Invalid(BlobGasPriceBelowBase,
				"max fee per blob gas %s below current blob base fee %s",
				tx.BlobGasFeeCap(), blobFee)
		}
	}

	intrinsic := v.gasCalculator.TransactionIntrinsicGasCost(tx.Data(), tx.IsContractCreation()) +
		v.gasCalculator.AccessListGasCost(len(tx.AccessList()), tx.AccessList().StorageKeyCount()) +
		v.gasCalculator.SetCodeListGasCost(len(tx.AuthorizationList()))
	if intrinsic > tx.Gas() {
		return Invalid(IntrinsicGasExceedsLimit,
			"intrinsic gas cost %d exceeds gas limit %d", intrinsic, tx.Gas())
	}

	if _, ok := tx.UpfrontCost(v.gasCalculator.BlobGasCost(tx.BlobCount())); !ok {
		return Invalid(UpfrontCostExceedsUint256, "up-front cost cannot exceed 2^256 wei")
	}

	return Valid()
}

func senderAddr(tx *types.Transaction) types.Address {
	if from := tx.Sender(); from != nil {
		return *from
	}
	return types.Address{}
}
