package crypto

import (
	"errors"
	"math/big"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/Sparrow2025/besu/core/types"
)

func TestRecoverAddressRoundTrip(t *testing.T) {
	key, err := ethcrypto.HexToECDSA("45a915e4d060149eb4365960e6a7a45f334393093061116b197e3240065ff2d8")
	if err != nil {
		t.Fatal(err)
	}
	want := types.BytesToAddress(ethcrypto.PubkeyToAddress(key.PublicKey).Bytes())

	hash := Keccak256Hash([]byte("message"))
	sig, err := ethcrypto.Sign(hash.Bytes(), key)
	if err != nil {
		t.Fatal(err)
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])

	got, err := RecoverAddress(hash, r, s, sig[64])
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("recovered %s, want %s", got, want)
	}
}

func TestValidateSignatureValues(t *testing.T) {
	one := big.NewInt(1)
	if err := ValidateSignatureValues(0, one, one, true); err != nil {
		t.Fatalf("minimal signature rejected: %v", err)
	}
	if err := ValidateSignatureValues(2, one, one, true); !errors.Is(err, ErrInvalidSignatureValues) {
		t.Fatal("recovery id 2 must be rejected")
	}
	if err := ValidateSignatureValues(0, new(big.Int), one, true); !errors.Is(err, ErrInvalidSignatureValues) {
		t.Fatal("r = 0 must be rejected")
	}
	if err := ValidateSignatureValues(0, CurveOrder(), one, true); !errors.Is(err, ErrInvalidSignatureValues) {
		t.Fatal("r = n must be rejected")
	}

	highS := new(big.Int).Add(HalfCurveOrder(), one)
	if err := ValidateSignatureValues(0, one, highS, true); !errors.Is(err, ErrSignatureMalleable) {
		t.Fatal("upper-half s must be rejected when malleability is disallowed")
	}
	if err := ValidateSignatureValues(0, one, highS, false); err != nil {
		t.Fatalf("upper-half s must pass when malleability is allowed: %v", err)
	}
}

func TestKeccak256KnownVector(t *testing.T) {
	// keccak256("") is the well-known empty hash.
	if got := Keccak256Hash(nil); got != types.EmptyCodeHash {
		t.Fatalf("keccak256(\"\") = %s", got)
	}
}

func TestKZGToVersionedHash(t *testing.T) {
	commitment := make([]byte, BytesPerCommitment)
	commitment[0] = 0xc0
	h := KZGToVersionedHash(commitment)
	if h[0] != VersionedHashVersionKZG {
		t.Fatalf("version byte 0x%02x, want 0x01", h[0])
	}
}

func TestVerifyBlobKZGProofBatchShapeErrors(t *testing.T) {
	blob := make([]byte, BytesPerBlob)
	commitment := make([]byte, BytesPerCommitment)
	proof := make([]byte, BytesPerProof)

	if err := VerifyBlobKZGProofBatch([][]byte{blob}, nil, nil); !errors.Is(err, ErrKZGMismatch) {
		t.Fatal("length mismatch must be rejected")
	}
	if err := VerifyBlobKZGProofBatch([][]byte{blob[:10]}, [][]byte{commitment}, [][]byte{proof}); !errors.Is(err, ErrKZGBlobSize) {
		t.Fatal("short blob must be rejected")
	}
	if err := VerifyBlobKZGProofBatch([][]byte{blob}, [][]byte{commitment[:4]}, [][]byte{proof}); !errors.Is(err, ErrKZGCommitmentSize) {
		t.Fatal("short commitment must be rejected")
	}
}
