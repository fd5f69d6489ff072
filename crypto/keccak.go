// Package crypto bundles the hashing and signature primitives used by the
// execution core: Keccak-256, secp256k1 recovery, and KZG blob proof
// verification. The heavy lifting is delegated to vetted implementations;
// this package only adapts them to the core's types.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/Sparrow2025/besu/core/types"
)

// Keccak256 calculates the Keccak-256 hash of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash calculates Keccak-256 and returns it as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}
