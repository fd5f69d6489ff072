package types

import (
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/Sparrow2025/besu/rlp"
)

var (
	// ErrInvalidTxFormat is returned when a wire encoding cannot be parsed
	// as any known transaction type.
	ErrInvalidTxFormat = errors.New("types: invalid transaction format")

	// ErrUnknownTxType is returned for a type byte outside the accepted
	// range.
	ErrUnknownTxType = errors.New("types: unknown transaction type")
)

// EncodeRLP returns the wire encoding of the transaction. Legacy
// transactions are bare RLP lists; typed transactions prefix the type byte
// to the RLP list of their fields.
func (tx *Transaction) EncodeRLP() ([]byte, error) {
	switch inner := tx.inner.(type) {
	case *LegacyTx:
		return rlp.EncodeToBytes(&legacyTxRLP{
			Nonce:    inner.Nonce,
			GasPrice: weiOrZero(inner.GasPrice),
			Gas:      inner.Gas,
			To:       toBytes(inner.To),
			Value:    weiOrZero(inner.Value),
			Data:     inner.Data,
			V:        bigOrZero(inner.V),
			R:        bigOrZero(inner.R),
			S:        bigOrZero(inner.S),
		})
	case *AccessListTx:
		return typedEncode(AccessListTxType, &accessListTxRLP{
			ChainID:    bigOrZero(inner.ChainID),
			Nonce:      inner.Nonce,
			GasPrice:   weiOrZero(inner.GasPrice),
			Gas:        inner.Gas,
			To:         toBytes(inner.To),
			Value:      weiOrZero(inner.Value),
			Data:       inner.Data,
			AccessList: inner.AccessList,
			V:          bigOrZero(inner.V),
			R:          bigOrZero(inner.R),
			S:          bigOrZero(inner.S),
		})
	case *DynamicFeeTx:
		return typedEncode(DynamicFeeTxType, &dynamicFeeTxRLP{
			ChainID:    bigOrZero(inner.ChainID),
			Nonce:      inner.Nonce,
			GasTipCap:  weiOrZero(inner.GasTipCap),
			GasFeeCap:  weiOrZero(inner.GasFeeCap),
			Gas:        inner.Gas,
			To:         toBytes(inner.To),
			Value:      weiOrZero(inner.Value),
			Data:       inner.Data,
			AccessList: inner.AccessList,
			V:          bigOrZero(inner.V),
			R:          bigOrZero(inner.R),
			S:          bigOrZero(inner.S),
		})
	case *BlobTx:
		return typedEncode(BlobTxType, &blobTxRLP{
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
			V:          bigOrZero(inner.V),
			R:          bigOrZero(inner.R),
			S:          bigOrZero(inner.S),
		})
	case *SetCodeTx:
		return typedEncode(SetCodeTxType, &setCodeTxRLP{
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
			V:          bigOrZero(inner.V),
			R:          bigOrZero(inner.R),
			S:          bigOrZero(inner.S),
		})
	default:
		return nil, ErrUnknownTxType
	}
}

// DecodeTransactionRLP decodes a wire-encoded transaction. A payload whose
// first byte opens a list is a legacy transaction; otherwise the first byte
// selects the typed layout.
func DecodeTransactionRLP(data []byte) (*Transaction, error) {
	if len(data) == 0 {
		return nil, ErrInvalidTxFormat
	}
	if data[0] >= 0xc0 {
		var enc legacyTxRLP
		if err := rlp.DecodeBytes(data, &enc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTxFormat, err)
		}
		return NewTransaction(&LegacyTx{
			Nonce:    enc.Nonce,
			GasPrice: enc.GasPrice,
			Gas:      enc.Gas,
			To:       bytesToTo(enc.To),
			Value:    enc.Value,
			Data:     enc.Data,
			V:        enc.V,
			R:        enc.R,
			S:        enc.S,
		}), nil
	}

	switch data[0] {
	case AccessListTxType:
		var enc accessListTxRLP
		if err := rlp.DecodeBytes(data[1:], &enc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTxFormat, err)
		}
		return NewTransaction(&AccessListTx{
			ChainID:    enc.ChainID,
			Nonce:      enc.Nonce,
			GasPrice:   enc.GasPrice,
			Gas:        enc.Gas,
			To:         bytesToTo(enc.To),
			Value:      enc.Value,
			Data:       enc.Data,
			AccessList: enc.AccessList,
			V:          enc.V,
			R:          enc.R,
			S:          enc.S,
		}), nil
	case DynamicFeeTxType:
		var enc dynamicFeeTxRLP
		if err := rlp.DecodeBytes(data[1:], &enc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTxFormat, err)
		}
		return NewTransaction(&DynamicFeeTx{
			ChainID:    enc.ChainID,
			Nonce:      enc.Nonce,
			GasTipCap:  enc.GasTipCap,
			GasFeeCap:  enc.GasFeeCap,
			Gas:        enc.Gas,
			To:         bytesToTo(enc.To),
			Value:      enc.Value,
			Data:       enc.Data,
			AccessList: enc.AccessList,
			V:          enc.V,
			R:          enc.R,
			S:          enc.S,
		}), nil
	case BlobTxType:
		var enc blobTxRLP
		if err := rlp.DecodeBytes(data[1:], &enc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTxFormat, err)
		}
		return NewTransaction(&BlobTx{
			ChainID:    enc.ChainID,
			Nonce:      enc.Nonce,
			GasTipCap:  enc.GasTipCap,
			GasFeeCap:  enc.GasFeeCap,
			Gas:        enc.Gas,
			To:         enc.To,
			Value:      enc.Value,
			Data:       enc.Data,
			AccessList: enc.AccessList,
			BlobFeeCap: enc.BlobFeeCap,
			BlobHashes: enc.BlobHashes,
			V:          enc.V,
			R:          enc.R,
			S:          enc.S,
		}), nil
	case SetCodeTxType:
		var enc setCodeTxRLP
		if err := rlp.DecodeBytes(data[1:], &enc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTxFormat, err)
		}
		return NewTransaction(&SetCodeTx{
			ChainID:    enc.ChainID,
			Nonce:      enc.Nonce,
			GasTipCap:  enc.GasTipCap,
			GasFeeCap:  enc.GasFeeCap,
			Gas:        enc.Gas,
			To:         enc.To,
			Value:      enc.Value,
			Data:       enc.Data,
			AccessList: enc.AccessList,
			AuthList:   enc.AuthList,
			V:          enc.V,
			R:          enc.R,
			S:          enc.S,
		}), nil
	default:
		return nil, ErrUnknownTxType
	}
}

// wireHash computes keccak256 of the wire encoding.
func (tx *Transaction) wireHash() Hash {
	enc, err := tx.EncodeRLP()
	if err != nil {
		return Hash{}
	}
	return keccakHash(enc)
}

func keccakHash(data ...[]byte) Hash {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return BytesToHash(d.Sum(nil))
}

func typedEncode(txType byte, fields interface{}) ([]byte, error) {
	payload, err := rlp.EncodeToBytes(fields)
	if err != nil {
		return nil, err
	}
	return append([]byte{txType}, payload...), nil
}

// toBytes flattens an optional destination into the RLP field: absent
// destinations encode as the empty string.
func toBytes(to *Address) []byte {
	if to == nil {
		return nil
	}
	return to.Bytes()
}

func bytesToTo(b []byte) *Address {
	if len(b) == 0 {
		return nil
	}
	addr := BytesToAddress(b)
	return &addr
}

// Wire layouts. Field order is consensus-critical.

type legacyTxRLP struct {
	Nonce    uint64
	GasPrice *Wei
	Gas      uint64
	To       []byte
	Value    *Wei
	Data     []byte
	V, R, S  *big.Int
}

type accessListTxRLP struct {
	ChainID    *big.Int
	Nonce      uint64
	GasPrice   *Wei
	Gas        uint64
	To         []byte
	Value      *Wei
	Data       []byte
	AccessList AccessList
	V, R, S    *big.Int
}

type dynamicFeeTxRLP struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *Wei
	GasFeeCap  *Wei
	Gas        uint64
	To         []byte
	Value      *Wei
	Data       []byte
	AccessList AccessList
	V, R, S    *big.Int
}

type blobTxRLP struct {
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
	V, R, S    *big.Int
}

type setCodeTxRLP struct {
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
