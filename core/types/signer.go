package types

import (
	"errors"
	"math/big"

	"github.com/Sparrow2025/besu/rlp"
)

var (
	// ErrInvalidSig is returned when signature values cannot be normalized.
	ErrInvalidSig = errors.New("types: invalid transaction signature values")
)

// Signer derives signing hashes and normalized signature components for all
// transaction types on one chain.
type Signer struct {
	chainID *big.Int
}

// NewSigner creates a Signer for the given chain ID.
func NewSigner(chainID *big.Int) Signer {
	return Signer{chainID: new(big.Int).Set(chainID)}
}

// ChainID returns the chain ID the signer operates on.
func (s Signer) ChainID() *big.Int { return new(big.Int).Set(s.chainID) }

// SigningHash returns the hash the sender signed for the transaction. Typed
// transactions hash the type byte followed by the unsigned field list;
// legacy transactions follow the EIP-155 scheme when replay-protected.
func (s Signer) SigningHash(tx *Transaction) (Hash, error) {
	switch inner := tx.inner.(type) {
	case *LegacyTx:
		if chainID := deriveLegacyChainID(inner.V); chainID != nil && chainID.Sign() != 0 {
			enc, err := rlp.EncodeToBytes(&legacySigningRLP155{
				Nonce:    inner.Nonce,
				GasPrice: weiOrZero(inner.GasPrice),
				Gas:      inner.Gas,
				To:       toBytes(inner.To),
				Value:    weiOrZero(inner.Value),
				Data:     inner.Data,
				ChainID:  chainID,
				Zero1:    0,
				Zero2:    0,
			})
			if err != nil {
				return Hash{}, err
			}
			return keccakHash(enc), nil
		}
		enc, err := rlp.EncodeToBytes(&legacySigningRLP{
			Nonce:    inner.Nonce,
			GasPrice: weiOrZero(inner.GasPrice),
			Gas:      inner.Gas,
			To:       toBytes(inner.To),
			Value:    weiOrZero(inner.Value),
			Data:     inner.Data,
		})
		if err != nil {
			return Hash{}, err
		}
		return keccakHash(enc), nil

	case *AccessListTx:
		return typedSigningHash(AccessListTxType, &accessListSigningRLP{
			ChainID:    bigOrZero(inner.ChainID),
			Nonce:      inner.Nonce,
			GasPrice:   weiOrZero(inner.GasPrice),
			Gas:        inner.Gas,
			To:         toBytes(inner.To),
			Value:      weiOrZero(inner.Value),
			Data:       inner.Data,
			AccessList: inner.AccessList,
		})
	case *DynamicFeeTx:
		return typedSigningHash(DynamicFeeTxType, &dynamicFeeSigningRLP{
			ChainID:    bigOrZero(inner.ChainID),
			Nonce:      inner.Nonce,
			GasTipCap:  weiOrZero(inner.GasTipCap),
			GasFeeCap:  weiOrZero(inner.GasFeeCap),
			Gas:        inner.Gas,
			To:         toBytes(inner.To),
			Value:      weiOrZero(inner.Value),
			Data:       inner.Data,
			AccessList: inner.AccessList,
		})
	case *BlobTx:
		return typedSigningHash(BlobTxType, &blobSigningRLP{
			ChainID:    bigOrZero(inner.ChainID),
			Nonce:      inner.Nonce,
			GasTipCap:  weiOrZero(inner.GasTipCap),
			GasFeeCap:  weiOrZero(inner.GasFeeCap),
			Gas:        inner.Gas,
			To:         inner.To,
			Value:      weiOrZero(inner.Value),
			Data:       inner.Data,
			AccessList: inner.AccessList,
			BlobFeeCap: weiOrZero(inner.BlobFeeCap),
			BlobHashes: inner.BlobHashes,
		})
	case *SetCodeTx:
		return typedSigningHash(SetCodeTxType, &setCodeSigningRLP{
			ChainID:    bigOrZero(inner.ChainID),
			Nonce:      inner.Nonce,
			GasTipCap:  weiOrZero(inner.GasTipCap),
			GasFeeCap:  weiOrZero(inner.GasFeeCap),
			Gas:        inner.Gas,
			To:         inner.To,
			Value:      weiOrZero(inner.Value),
			Data:       inner.Data,
			AccessList: inner.AccessList,
			AuthList:   inner.AuthList,
		})
	default:
		return Hash{}, ErrInvalidSig
	}
}

// SignatureParts returns the r, s scalars and the raw recovery id (0 or 1)
// of the transaction signature. For legacy transactions the recovery id is
// extracted from the 27/28 or EIP-155 V encoding.
func (s Signer) SignatureParts(tx *Transaction) (r, sv *big.Int, recoveryID byte, err error) {
	v, r, sv := tx.RawSignatureValues()
	if v == nil || r == nil || sv == nil {
		return nil, nil, 0, ErrInvalidSig
	}

	if tx.Type() == LegacyTxType {
		u := new(big.Int).Set(v)
		if u.BitLen() <= 8 {
			val := u.Uint64()
			if val == 27 || val == 28 {
				return r, sv, byte(val - 27), nil
			}
		}
		// EIP-155: v = chainID*2 + 35 + recoveryID.
		u.Sub(u, big.NewInt(35))
		if u.Sign() < 0 {
			return nil, nil, 0, ErrInvalidSig
		}
		recovery := new(big.Int).Mod(u, big.NewInt(2))
		return r, sv, byte(recovery.Uint64()), nil
	}

	if v.BitLen() > 1 {
		return nil, nil, 0, ErrInvalidSig
	}
	return r, sv, byte(v.Uint64()), nil
}

// AuthorizationSigningHash returns the hash signed by an EIP-7702
// authorization: keccak256(0x05 || rlp([chainID, address, nonce])).
func AuthorizationSigningHash(auth *Authorization) (Hash, error) {
	enc, err := rlp.EncodeToBytes(&authSigningRLP{
		ChainID: bigOrZero(auth.ChainID),
		Address: auth.Address,
		Nonce:   auth.Nonce,
	})
	if err != nil {
		return Hash{}, err
	}
	return keccakHash([]byte{0x05}, enc), nil
}

func typedSigningHash(txType byte, fields interface{}) (Hash, error) {
	payload, err := rlp.EncodeToBytes(fields)
	if err != nil {
		return Hash{}, err
	}
	return keccakHash([]byte{txType}, payload), nil
}

// Signing layouts: the wire layouts without the signature fields.

type legacySigningRLP struct {
	Nonce    uint64
	GasPrice *Wei
	Gas      uint64
	To       []byte
	Value    *Wei
	Data     []byte
}

type legacySigningRLP155 struct {
	Nonce    uint64
	GasPrice *Wei
	Gas      uint64
	To       []byte
	Value    *Wei
	Data     []byte
	ChainID  *big.Int
	Zero1    uint64
	Zero2    uint64
}

type accessListSigningRLP struct {
	ChainID    *big.Int
	Nonce      uint64
	GasPrice   *Wei
	Gas        uint64
	To         []byte
	Value      *Wei
	Data       []byte
	AccessList AccessList
}

type dynamicFeeSigningRLP struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *Wei
	GasFeeCap  *Wei
	Gas        uint64
	To         []byte
	Value      *Wei
	Data       []byte
	AccessList AccessList
}

type blobSigningRLP struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *Wei
	GasFeeCap  *Wei
	Gas        uint64
	To         Address
	Value      *Wei
	Data       []byte
	AccessList AccessList
	BlobFeeCap *Wei
	BlobHashes []Hash
}

type setCodeSigningRLP struct {
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
}

type authSigningRLP struct {
	ChainID *big.Int
	Address Address
	Nonce   uint64
}
