package types

import (
	"errors"
	"math/big"
	"sync/atomic"
)

// MaxExtraDataLength is the consensus bound on header extra-data.
const MaxExtraDataLength = 32

// ErrExtraDataTooLong is returned when encoding a header whose extra-data
// exceeds the consensus bound.
var ErrExtraDataTooLong = errors.New("types: header extra-data exceeds 32 bytes")

// Header represents a block header. The trailing pointer fields are
// optional: they are serialized only as a contiguous suffix in declaration
// order (see EncodeRLP).
type Header struct {
	ParentHash  Hash
	UncleHash   Hash
	Coinbase    Address
	Root        Hash
	TxHash      Hash
	ReceiptHash Hash
	Bloom       Bloom
	Difficulty  *big.Int
	Number      *big.Int
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixDigest   Hash // prev-randao post-merge
	Nonce       BlockNonce

	// EIP-1559
	BaseFee *Wei

	// EIP-4895: beacon chain push withdrawals
	WithdrawalsHash *Hash

	// EIP-4844: blob transactions
	BlobGasUsed   *uint64
	ExcessBlobGas *uint64

	// EIP-4788: beacon block root in the EVM
	ParentBeaconRoot *Hash

	// EIP-7685: execution layer requests
	RequestsHash *Hash

	// hash caches the header hash after first computation.
	hash atomic.Pointer[Hash]
}

// Hash returns the Keccak-256 hash of the RLP-encoded header, computed
// lazily and cached on first access.
func (h *Header) Hash() Hash {
	if cached := h.hash.Load(); cached != nil {
		return *cached
	}
	hash := computeHeaderHash(h)
	h.hash.Store(&hash)
	return hash
}

// NumberU64 returns the block number as uint64 (zero when unset).
func (h *Header) NumberU64() uint64 {
	if h.Number == nil {
		return 0
	}
	return h.Number.Uint64()
}
