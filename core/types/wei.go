package types

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Wei is a 256-bit unsigned amount of wei. It aliases uint256.Int so the
// full arithmetic surface is available without conversion.
type Wei = uint256.Int

// GweiFactor is the number of wei in one gwei.
const GweiFactor = 1_000_000_000

// NewWei returns v as a Wei amount.
func NewWei(v uint64) *Wei {
	return uint256.NewInt(v)
}

// GweiToWei converts a gwei quantity into wei.
func GweiToWei(gwei uint64) *Wei {
	return new(Wei).Mul(uint256.NewInt(gwei), uint256.NewInt(GweiFactor))
}

// WeiFromBig converts b into a Wei amount. The second return value is false
// when b is negative or exceeds 256 bits.
func WeiFromBig(b *big.Int) (*Wei, bool) {
	if b == nil {
		return new(Wei), true
	}
	w, overflow := uint256.FromBig(b)
	if overflow || b.Sign() < 0 {
		return nil, false
	}
	return w, true
}

// WeiToBig converts w into a big.Int. A nil w converts to zero.
func WeiToBig(w *Wei) *big.Int {
	if w == nil {
		return new(big.Int)
	}
	return w.ToBig()
}
