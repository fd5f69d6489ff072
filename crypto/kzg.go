package crypto

import (
	"crypto/sha256"
	"errors"
	"sync"

	goethkzg "github.com/crate-crypto/go-eth-kzg"

	"github.com/Sparrow2025/besu/core/types"
)

// EIP-4844 blob geometry.
const (
	// BytesPerBlob is the size of one blob (4096 field elements of 32 bytes).
	BytesPerBlob = 131072

	// BytesPerCommitment is the size of a compressed G1 KZG commitment.
	BytesPerCommitment = 48

	// BytesPerProof is the size of a compressed G1 KZG proof.
	BytesPerProof = 48

	// VersionedHashVersionKZG is the version byte of a KZG versioned hash.
	VersionedHashVersionKZG = 0x01
)

var (
	ErrKZGBlobSize       = errors.New("crypto: blob must be 131072 bytes")
	ErrKZGCommitmentSize = errors.New("crypto: commitment must be 48 bytes")
	ErrKZGProofSize      = errors.New("crypto: proof must be 48 bytes")
	ErrKZGMismatch       = errors.New("crypto: blob, commitment and proof counts differ")
	ErrKZGVerifyFailed   = errors.New("crypto: blob kzg proof batch verification failed")
)

// kzgCtx holds the trusted-setup context. Loading the ceremony SRS takes a
// few seconds, so it is initialized once on first use.
var (
	kzgCtx     *goethkzg.Context
	kzgCtxErr  error
	kzgCtxOnce sync.Once
)

func kzgContext() (*goethkzg.Context, error) {
	kzgCtxOnce.Do(func() {
		kzgCtx, kzgCtxErr = goethkzg.NewContext4096Secure()
	})
	return kzgCtx, kzgCtxErr
}

// KZGToVersionedHash converts a KZG commitment into its versioned hash:
// SHA-256 of the commitment with the first byte replaced by the version.
func KZGToVersionedHash(commitment []byte) types.Hash {
	h := sha256.Sum256(commitment)
	h[0] = VersionedHashVersionKZG
	return types.Hash(h)
}

// VerifyBlobKZGProofBatch verifies that each commitment opens the matching
// blob under the matching proof, as a single batched pairing check. This is
// a blocking native call.
func VerifyBlobKZGProofBatch(blobs, commitments, proofs [][]byte) error {
	if len(blobs) != len(commitments) || len(blobs) != len(proofs) {
		return ErrKZGMismatch
	}
	for i := range blobs {
		if len(blobs[i]) != BytesPerBlob {
			return ErrKZGBlobSize
		}
		if len(commitments[i]) != BytesPerCommitment {
			return ErrKZGCommitmentSize
		}
		if len(proofs[i]) != BytesPerProof {
			return ErrKZGProofSize
		}
	}

	ctx, err := kzgContext()
	if err != nil {
		return err
	}

	blobVals := make([]goethkzg.Blob, len(blobs))
	comms := make([]goethkzg.KZGCommitment, len(commitments))
	kzgProofs := make([]goethkzg.KZGProof, len(proofs))
	for i := range blobs {
		copy(blobVals[i][:], blobs[i])
		copy(comms[i][:], commitments[i])
		copy(kzgProofs[i][:], proofs[i])
	}

	if err := ctx.VerifyBlobKZGProofBatch(blobVals, comms, kzgProofs); err != nil {
		return ErrKZGVerifyFailed
	}
	return nil
}
