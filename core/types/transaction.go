package types

import (
	"math/big"
	"sync/atomic"
)

// Transaction type identifiers. Typed transactions prefix their RLP payload
// with this byte; legacy transactions are bare RLP lists.
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01
	DynamicFeeTxType = 0x02
	BlobTxType       = 0x03
	SetCodeTxType    = 0x04
)

// MaxNonce is the largest representable account nonce. A transaction
// carrying it is rejected since the post-execution nonce would overflow.
const MaxNonce = ^uint64(0)

// Transaction wraps one of the typed payloads and caches derived values
// (hash, sender) under one-shot initializers.
type Transaction struct {
	inner TxData

	hash atomic.Pointer[Hash]
	from atomic.Pointer[Address]
}

// TxData is the underlying data of a transaction. The five concrete types
// implement it.
type TxData interface {
	txType() byte
	chainID() *big.Int
	accessList() AccessList
	data() []byte
	gas() uint64
	gasPrice() *Wei
	gasTipCap() *Wei
	gasFeeCap() *Wei
	value() *Wei
	nonce() uint64
	to() *Address

	rawSignatureValues() (v, r, s *big.Int)
	copy() TxData
}

// AccessList is a list of address-slot pairs declared by a transaction.
// Duplicate entries are permitted and charged per occurrence.
type AccessList []AccessListEntry

// AccessListEntry is a single address and its declared storage keys.
type AccessListEntry struct {
	Address     Address
	StorageKeys []Hash
}

// StorageKeyCount returns the total number of storage keys across entries.
func (al AccessList) StorageKeyCount() int {
	n := 0
	for _, e := range al {
		n += len(e.StorageKeys)
	}
	return n
}

// Authorization is an EIP-7702 authorization entry for SetCodeTx.
type Authorization struct {
	ChainID *big.Int
	Address Address
	Nonce   uint64
	V       *big.Int
	R       *big.Int
	S       *big.Int
}

// NewTransaction creates a transaction from a typed payload. The payload is
// deep-copied so later mutation of the argument cannot affect the
// transaction.
func NewTransaction(inner TxData) *Transaction {
	return &Transaction{inner: inner.copy()}
}

// Type returns the transaction type identifier.
func (tx *Transaction) Type() byte { return tx.inner.txType() }

// ChainID returns the chain ID the transaction is bound to, or nil for
// pre-EIP-155 legacy transactions.
func (tx *Transaction) ChainID() *big.Int { return tx.inner.chainID() }

// Nonce returns the sender nonce.
func (tx *Transaction) Nonce() uint64 { return tx.inner.nonce() }

// Gas returns the gas limit.
func (tx *Transaction) Gas() uint64 { return tx.inner.gas() }

// To returns the destination address, or nil for contract creation.
func (tx *Transaction) To() *Address { return tx.inner.to() }

// IsContractCreation reports whether the transaction creates a contract.
func (tx *Transaction) IsContractCreation() bool { return tx.inner.to() == nil }

// Value returns the wei amount transferred by the transaction.
func (tx *Transaction) Value() *Wei { return weiOrZero(tx.inner.value()) }

// Data returns the payload (call input or initcode).
func (tx *Transaction) Data() []byte { return tx.inner.data() }

// AccessList returns the declared access list, or nil.
func (tx *Transaction) AccessList() AccessList { return tx.inner.accessList() }

// GasPrice returns the explicit gas price for legacy and access-list
// transactions, and the fee cap for 1559-typed ones.
func (tx *Transaction) GasPrice() *Wei { return weiOrZero(tx.inner.gasPrice()) }

// GasTipCap returns maxPriorityFeePerGas.
func (tx *Transaction) GasTipCap() *Wei { return weiOrZero(tx.inner.gasTipCap()) }

// GasFeeCap returns maxFeePerGas.
func (tx *Transaction) GasFeeCap() *Wei { return weiOrZero(tx.inner.gasFeeCap()) }

// Supports1559FeeMarket reports whether the type carries distinct fee cap
// and tip fields.
func (tx *Transaction) Supports1559FeeMarket() bool {
	return tx.Type() >= DynamicFeeTxType
}

// MaxGasPrice returns the largest price per gas unit the sender may pay:
// the fee cap for 1559-typed transactions, the gas price otherwise.
func (tx *Transaction) MaxGasPrice() *Wei {
	if tx.Supports1559FeeMarket() {
		return tx.GasFeeCap()
	}
	return tx.GasPrice()
}

// BlobGasFeeCap returns maxFeePerBlobGas for blob transactions, nil
// otherwise.
func (tx *Transaction) BlobGasFeeCap() *Wei {
	if blob, ok := tx.inner.(*BlobTx); ok {
		return weiOrZero(blob.BlobFeeCap)
	}
	return nil
}

// BlobHashes returns the versioned hashes of a blob transaction.
func (tx *Transaction) BlobHashes() []Hash {
	if blob, ok := tx.inner.(*BlobTx); ok {
		return blob.BlobHashes
	}
	return nil
}

// BlobCount returns the number of blobs the transaction commits to.
func (tx *Transaction) BlobCount() int { return len(tx.BlobHashes()) }

// Sidecar returns the blob sidecar, or nil when the transaction travels
// without one.
func (tx *Transaction) Sidecar() *BlobSidecar {
	if blob, ok := tx.inner.(*BlobTx); ok {
		return blob.Sidecar
	}
	return nil
}

// AuthorizationList returns the EIP-7702 authorization list for set-code
// transactions, nil for all other types.
func (tx *Transaction) AuthorizationList() []Authorization {
	if sc, ok := tx.inner.(*SetCodeTx); ok {
		return sc.AuthList
	}
	return nil
}

// RawSignatureValues returns the v, r, s signature values.
func (tx *Transaction) RawSignatureValues() (v, r, s *big.Int) {
	return tx.inner.rawSignatureValues()
}

// SetSender caches the recovered sender address.
func (tx *Transaction) SetSender(addr Address) {
	a := addr
	tx.from.Store(&a)
}

// Sender returns the cached sender address, or nil when no recovery has run.
func (tx *Transaction) Sender() *Address {
	return tx.from.Load()
}

// Hash returns the transaction hash (Keccak-256 of the wire encoding),
// computed once and cached.
func (tx *Transaction) Hash() Hash {
	if h := tx.hash.Load(); h != nil {
		return *h
	}
	h := tx.wireHash()
	tx.hash.Store(&h)
	return h
}

// UpfrontGasCost returns gasLimit*gasPrice + blobGas*blobGasPrice: the
// amount debited from the sender before execution. The second return value
// is false on 256-bit overflow.
func (tx *Transaction) UpfrontGasCost(gasPrice, blobGasPrice *Wei, blobGas uint64) (*Wei, bool) {
	cost, overflow := new(Wei).MulOverflow(NewWei(tx.Gas()), weiOrZero(gasPrice))
	if overflow {
		return nil, false
	}
	if blobGas > 0 && blobGasPrice != nil {
		blobCost, overflow := new(Wei).MulOverflow(NewWei(blobGas), blobGasPrice)
		if overflow {
			return nil, false
		}
		cost, overflow = cost.AddOverflow(cost, blobCost)
		if overflow {
			return nil, false
		}
	}
	return cost, true
}

// UpfrontCost returns the maximum wei the sender must hold at validation
// time: gasLimit*maxGasPrice + value + blobGas*blobFeeCap. The second
// return value is false on 256-bit overflow.
func (tx *Transaction) UpfrontCost(blobGas uint64) (*Wei, bool) {
	cost, ok := tx.UpfrontGasCost(tx.MaxGasPrice(), tx.BlobGasFeeCap(), blobGas)
	if !ok {
		return nil, false
	}
	cost, overflow := cost.AddOverflow(cost, tx.Value())
	if overflow {
		return nil, false
	}
	return cost, true
}

// LegacyTx is the original (type 0x00) transaction form.
type LegacyTx struct {
	Nonce    uint64
	GasPrice *Wei
	Gas      uint64
	To       *Address
	Value    *Wei
	Data     []byte
	V, R, S  *big.Int
}

func (tx *LegacyTx) txType() byte           { return LegacyTxType }
func (tx *LegacyTx) chainID() *big.Int      { return deriveLegacyChainID(tx.V) }
func (tx *LegacyTx) accessList() AccessList { return nil }
func (tx *LegacyTx) data() []byte           { return tx.Data }
func (tx *LegacyTx) gas() uint64            { return tx.Gas }
func (tx *LegacyTx) gasPrice() *Wei         { return tx.GasPrice }
func (tx *LegacyTx) gasTipCap() *Wei        { return tx.GasPrice }
func (tx *LegacyTx) gasFeeCap() *Wei        { return tx.GasPrice }
func (tx *LegacyTx) value() *Wei            { return tx.Value }
func (tx *LegacyTx) nonce() uint64          { return tx.Nonce }
func (tx *LegacyTx) to() *Address           { return tx.To }

func (tx *LegacyTx) rawSignatureValues() (v, r, s *big.Int) { return tx.V, tx.R, tx.S }

func (tx *LegacyTx) copy() TxData {
	return &LegacyTx{
		Nonce:    tx.Nonce,
		GasPrice: copyWei(tx.GasPrice),
		Gas:      tx.Gas,
		To:       copyAddressPtr(tx.To),
		Value:    copyWei(tx.Value),
		Data:     copyBytes(tx.Data),
		V:        copyBig(tx.V),
		R:        copyBig(tx.R),
		S:        copyBig(tx.S),
	}
}

// AccessListTx is the EIP-2930 (type 0x01) transaction form.
type AccessListTx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasPrice   *Wei
	Gas        uint64
	To         *Address
	Value      *Wei
	Data       []byte
	AccessList AccessList
	V, R, S    *big.Int
}

func (tx *AccessListTx) txType() byte           { return AccessListTxType }
func (tx *AccessListTx) chainID() *big.Int      { return tx.ChainID }
func (tx *AccessListTx) accessList() AccessList { return tx.AccessList }
func (tx *AccessListTx) data() []byte           { return tx.Data }
func (tx *AccessListTx) gas() uint64            { return tx.Gas }
func (tx *AccessListTx) gasPrice() *Wei         { return tx.GasPrice }
func (tx *AccessListTx) gasTipCap() *Wei        { return tx.GasPrice }
func (tx *AccessListTx) gasFeeCap() *Wei        { return tx.GasPrice }
func (tx *AccessListTx) value() *Wei            { return tx.Value }
func (tx *AccessListTx) nonce() uint64          { return tx.Nonce }
func (tx *AccessListTx) to() *Address           { return tx.To }

func (tx *AccessListTx) rawSignatureValues() (v, r, s *big.Int) { return tx.V, tx.R, tx.S }

func (tx *AccessListTx) copy() TxData {
	return &AccessListTx{
		ChainID:    copyBig(tx.ChainID),
		Nonce:      tx.Nonce,
		GasPrice:   copyWei(tx.GasPrice),
		Gas:        tx.Gas,
		To:         copyAddressPtr(tx.To),
		Value:      copyWei(tx.Value),
		Data:       copyBytes(tx.Data),
		AccessList: tx.AccessList.copy(),
		V:          copyBig(tx.V),
		R:          copyBig(tx.R),
		S:          copyBig(tx.S),
	}
}

// DynamicFeeTx is the EIP-1559 (type 0x02) transaction form.
type DynamicFeeTx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *Wei // maxPriorityFeePerGas
	GasFeeCap  *Wei // maxFeePerGas
	Gas        uint64
	To         *Address
	Value      *Wei
	Data       []byte
	AccessList AccessList
	V, R, S    *big.Int
}

func (tx *DynamicFeeTx) txType() byte           { return DynamicFeeTxType }
func (tx *DynamicFeeTx) chainID() *big.Int      { return tx.ChainID }
func (tx *DynamicFeeTx) accessList() AccessList { return tx.AccessList }
func (tx *DynamicFeeTx) data() []byte           { return tx.Data }
func (tx *DynamicFeeTx) gas() uint64            { return tx.Gas }
func (tx *DynamicFeeTx) gasPrice() *Wei         { return tx.GasFeeCap }
func (tx *DynamicFeeTx) gasTipCap() *Wei        { return tx.GasTipCap }
func (tx *DynamicFeeTx) gasFeeCap() *Wei        { return tx.GasFeeCap }
func (tx *DynamicFeeTx) value() *Wei            { return tx.Value }
func (tx *DynamicFeeTx) nonce() uint64          { return tx.Nonce }
func (tx *DynamicFeeTx) to() *Address           { return tx.To }

func (tx *DynamicFeeTx) rawSignatureValues() (v, r, s *big.Int) { return tx.V, tx.R, tx.S }

func (tx *DynamicFeeTx) copy() TxData {
	return &DynamicFeeTx{
		ChainID:    copyBig(tx.ChainID),
		Nonce:      tx.Nonce,
		GasTipCap:  copyWei(tx.GasTipCap),
		GasFeeCap:  copyWei(tx.GasFeeCap),
		Gas:        tx.Gas,
		To:         copyAddressPtr(tx.To),
		Value:      copyWei(tx.Value),
		Data:       copyBytes(tx.Data),
		AccessList: tx.AccessList.copy(),
		V:          copyBig(tx.V),
		R:          copyBig(tx.R),
		S:          copyBig(tx.S),
	}
}

// BlobTx is the EIP-4844 (type 0x03) blob transaction form. The To field is
// mandatory: blob transactions cannot create contracts.
type BlobTx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *Wei
	GasFeeCap  *Wei
	Gas        uint64
	To         Address
	Value      *Wei
	Data       []byte
	AccessList AccessList
	BlobFeeCap *Wei // maxFeePerBlobGas
	BlobHashes []Hash
	V, R, S    *big.Int

	// Sidecar carries the blobs, commitments and proofs during propagation.
	// It is not part of the signing payload.
	Sidecar *BlobSidecar
}

func (tx *BlobTx) txType() byte           { return BlobTxType }
func (tx *BlobTx) chainID() *big.Int      { return tx.ChainID }
func (tx *BlobTx) accessList() AccessList { return tx.AccessList }
func (tx *BlobTx) data() []byte           { return tx.Data }
func (tx *BlobTx) gas() uint64            { return tx.Gas }
func (tx *BlobTx) gasPrice() *Wei         { return tx.GasFeeCap }
func (tx *BlobTx) gasTipCap() *Wei        { return tx.GasTipCap }
func (tx *BlobTx) gasFeeCap() *Wei        { return tx.GasFeeCap }
func (tx *BlobTx) value() *Wei            { return tx.Value }
func (tx *BlobTx) nonce() uint64          { return tx.Nonce }
func (tx *BlobTx) to() *Address           { addr := tx.To; return &addr }

func (tx *BlobTx) rawSignatureValues() (v, r, s *big.Int) { return tx.V, tx.R, tx.S }

func (tx *BlobTx) copy() TxData {
	cpy := &BlobTx{
		ChainID:    copyBig(tx.ChainID),
		Nonce:      tx.Nonce,
		GasTipCap:  copyWei(tx.GasTipCap),
		GasFeeCap:  copyWei(tx.GasFeeCap),
		Gas:        tx.Gas,
		To:         tx.To,
		Value:      copyWei(tx.Value),
		Data:       copyBytes(tx.Data),
		AccessList: tx.AccessList.copy(),
		BlobFeeCap: copyWei(tx.BlobFeeCap),
		BlobHashes: make([]Hash, len(tx.BlobHashes)),
		V:          copyBig(tx.V),
		R:          copyBig(tx.R),
		S:          copyBig(tx.S),
		Sidecar:    tx.Sidecar.Copy(),
	}
	copy(cpy.BlobHashes, tx.BlobHashes)
	return cpy
}

// SetCodeTx is the EIP-7702 (type 0x04) set-code transaction form.
type SetCodeTx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *Wei
	GasFeeCap  *Wei
	Gas        uint64
	To         Address
	Value      *Wei
	Data       []byte
	AccessList AccessList
	AuthList   []Authorization
	V, R, S    *big.Int
}

func (tx *SetCodeTx) txType() byte           { return SetCodeTxType }
func (tx *SetCodeTx) chainID() *big.Int      { return tx.ChainID }
func (tx *SetCodeTx) accessList() AccessList { return tx.AccessList }
func (tx *SetCodeTx) data() []byte           { return tx.Data }
func (tx *SetCodeTx) gas() uint64            { return tx.Gas }
func (tx *SetCodeTx) gasPrice() *Wei         { return tx.GasFeeCap }
func (tx *SetCodeTx) gasTipCap() *Wei        { return tx.GasTipCap }
func (tx *SetCodeTx) gasFeeCap() *Wei        { return tx.GasFeeCap }
func (tx *SetCodeTx) value() *Wei            { return tx.Value }
func (tx *SetCodeTx) nonce() uint64          { return tx.Nonce }
func (tx *SetCodeTx) to() *Address           { addr := tx.To; return &addr }

func (tx *SetCodeTx) rawSignatureValues() (v, r, s *big.Int) { return tx.V, tx.R, tx.S }

func (tx *SetCodeTx) copy() TxData {
	cpy := &SetCodeTx{
		ChainID:    copyBig(tx.ChainID),
		Nonce:      tx.Nonce,
		GasTipCap:  copyWei(tx.GasTipCap),
		GasFeeCap:  copyWei(tx.GasFeeCap),
		Gas:        tx.Gas,
		To:         tx.To,
		Value:      copyWei(tx.Value),
		Data:       copyBytes(tx.Data),
		AccessList: tx.AccessList.copy(),
		AuthList:   make([]Authorization, len(tx.AuthList)),
		V:          copyBig(tx.V),
		R:          copyBig(tx.R),
		S:          copyBig(tx.S),
	}
	for i, auth := range tx.AuthList {
		cpy.AuthList[i] = Authorization{
			ChainID: copyBig(auth.ChainID),
			Address: auth.Address,
			Nonce:   auth.Nonce,
			V:       copyBig(auth.V),
			R:       copyBig(auth.R),
			S:       copyBig(auth.S),
		}
	}
	return cpy
}

// Helpers.

func (al AccessList) copy() AccessList {
	if al == nil {
		return nil
	}
	cpy := make(AccessList, len(al))
	for i, e := range al {
		cpy[i] = AccessListEntry{
			Address:     e.Address,
			StorageKeys: make([]Hash, len(e.StorageKeys)),
		}
		copy(cpy[i].StorageKeys, e.StorageKeys)
	}
	return cpy
}

func copyAddressPtr(a *Address) *Address {
	if a == nil {
		return nil
	}
	cpy := *a
	return &cpy
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cpy := make([]byte, len(b))
	copy(cpy, b)
	return cpy
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func copyWei(w *Wei) *Wei {
	if w == nil {
		return nil
	}
	return new(Wei).Set(w)
}

func weiOrZero(w *Wei) *Wei {
	if w == nil {
		return new(Wei)
	}
	return w
}

// deriveLegacyChainID extracts the chain ID from a legacy V value, or nil
// for pre-EIP-155 signatures (v = 27 or 28).
func deriveLegacyChainID(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	if v.BitLen() <= 8 {
		u := v.Uint64()
		if u == 27 || u == 28 {
			return nil
		}
	}
	// EIP-155: v = chainID*2 + 35 + recoveryID.
	chainID := new(big.Int).Sub(v, big.NewInt(35))
	return chainID.Rsh(chainID, 1)
}
