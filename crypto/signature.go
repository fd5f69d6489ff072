package crypto

import (
	"errors"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/Sparrow2025/besu/core/types"
)

// Signature validation errors.
var (
	ErrInvalidSignatureValues = errors.New("crypto: invalid signature values")
	ErrSignatureMalleable     = errors.New("crypto: signature s value is in the upper half of the curve order")
	ErrRecoveryFailed         = errors.New("crypto: public key recovery failed")
)

// The curve order and its half are process-wide constants of the signature
// algorithm, fixed at startup.
var (
	secp256k1N     = ethcrypto.S256().Params().N
	secp256k1HalfN = new(big.Int).Rsh(secp256k1N, 1)
)

// CurveOrder returns the order n of the secp256k1 group.
func CurveOrder() *big.Int {
	return new(big.Int).Set(secp256k1N)
}

// HalfCurveOrder returns n/2, the malleability boundary for s values.
func HalfCurveOrder() *big.Int {
	return new(big.Int).Set(secp256k1HalfN)
}

// ValidateSignatureValues checks that r, s and the recovery id form a valid
// signature. When rejectMalleable is set, s values above n/2 are refused.
func ValidateSignatureValues(recoveryID byte, r, s *big.Int, rejectMalleable bool) error {
	if r == nil || s == nil || recoveryID > 1 {
		return ErrInvalidSignatureValues
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return ErrInvalidSignatureValues
	}
	if r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 {
		return ErrInvalidSignatureValues
	}
	if rejectMalleable && s.Cmp(secp256k1HalfN) > 0 {
		return ErrSignatureMalleable
	}
	return nil
}

// RecoverAddress recovers the signer address from a 32-byte message hash and
// the signature components (r, s, raw recovery id 0 or 1). The address is the
// low 20 bytes of the Keccak-256 hash of the recovered public key.
func RecoverAddress(hash types.Hash, r, s *big.Int, recoveryID byte) (types.Address, error) {
	if err := ValidateSignatureValues(recoveryID, r, s, false); err != nil {
		return types.Address{}, err
	}
	sig := make([]byte, 65)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:64])
	sig[64] = recoveryID

	pub, err := ethcrypto.Ecrecover(hash.Bytes(), sig)
	if err != nil {
		return types.Address{}, ErrRecoveryFailed
	}
	// pub is the 65-byte uncompressed key; drop the 0x04 prefix before
	// hashing.
	return types.BytesToAddress(Keccak256(pub[1:])[12:]), nil
}
