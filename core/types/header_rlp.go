package types

import (
	"math/big"

	"github.com/Sparrow2025/besu/rlp"
)

// EncodeRLP returns the RLP encoding of the header in consensus field
// order:
//
//	[ParentHash, UncleHash, Coinbase, Root, TxHash, ReceiptHash, Bloom,
//	 Difficulty, Number, GasLimit, GasUsed, Time, Extra, MixDigest, Nonce,
//	 BaseFee?, WithdrawalsHash?, BlobGasUsed?, ExcessBlobGas?,
//	 ParentBeaconRoot?, RequestsHash?]
//
// The optional suffix runs up to the last set optional field; unset
// optionals before it are emitted as zero values, and nothing follows it.
func (h *Header) EncodeRLP() ([]byte, error) {
	if len(h.Extra) > MaxExtraDataLength {
		return nil, ErrExtraDataTooLong
	}

	items := []interface{}{
		h.ParentHash,
		h.UncleHash,
		h.Coinbase,
		h.Root,
		h.TxHash,
		h.ReceiptHash,
		h.Bloom,
		bigOrZero(h.Difficulty),
		bigOrZero(h.Number),
		h.GasLimit,
		h.GasUsed,
		h.Time,
		h.Extra,
		h.MixDigest,
		h.Nonce,
	}

	optionals := 0
	switch {
	case h.RequestsHash != nil:
		optionals = 6
	case h.ParentBeaconRoot != nil:
		optionals = 5
	case h.ExcessBlobGas != nil || h.BlobGasUsed != nil:
		optionals = 4
	case h.WithdrawalsHash != nil:
		optionals = 2
	case h.BaseFee != nil:
		optionals = 1
	}
	if optionals >= 1 {
		items = append(items, weiOrZero(h.BaseFee))
	}
	if optionals >= 2 {
		items = append(items, hashOrZero(h.WithdrawalsHash))
	}
	if optionals >= 4 {
		items = append(items, uintOrZero(h.BlobGasUsed), uintOrZero(h.ExcessBlobGas))
	}
	if optionals >= 5 {
		items = append(items, hashOrZero(h.ParentBeaconRoot))
	}
	if optionals >= 6 {
		items = append(items, hashOrZero(h.RequestsHash))
	}

	var payload []byte
	for _, item := range items {
		enc, err := rlp.EncodeToBytes(item)
		if err != nil {
			return nil, err
		}
		payload = append(payload, enc...)
	}
	return rlp.WrapList(payload), nil
}

// DecodeHeaderRLP decodes an RLP-encoded header. Any valid truncation point
// of the optional suffix is accepted; trailing data beyond the known fields
// is an error.
func DecodeHeaderRLP(data []byte) (*Header, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}

	h := &Header{}
	var err error

	if err = decodeHash(s, &h.ParentHash); err != nil {
		return nil, err
	}
	if err = decodeHash(s, &h.UncleHash); err != nil {
		return nil, err
	}
	var coinbase []byte
	if coinbase, err = s.Bytes(); err != nil {
		return nil, err
	}
	h.Coinbase = BytesToAddress(coinbase)
	if err = decodeHash(s, &h.Root); err != nil {
		return nil, err
	}
	if err = decodeHash(s, &h.TxHash); err != nil {
		return nil, err
	}
	if err = decodeHash(s, &h.ReceiptHash); err != nil {
		return nil, err
	}
	var bloom []byte
	if bloom, err = s.Bytes(); err != nil {
		return nil, err
	}
	copy(h.Bloom[:], bloom)

	if h.Difficulty, err = s.BigInt(); err != nil {
		return nil, err
	}
	if h.Number, err = s.BigInt(); err != nil {
		return nil, err
	}
	if h.GasLimit, err = s.Uint64(); err != nil {
		return nil, err
	}
	if h.GasUsed, err = s.Uint64(); err != nil {
		return nil, err
	}
	if h.Time, err = s.Uint64(); err != nil {
		return nil, err
	}
	var extra []byte
	if extra, err = s.Bytes(); err != nil {
		return nil, err
	}
	if len(extra) > MaxExtraDataLength {
		return nil, ErrExtraDataTooLong
	}
	h.Extra = append([]byte(nil), extra...)
	if err = decodeHash(s, &h.MixDigest); err != nil {
		return nil, err
	}
	var nonce []byte
	if nonce, err = s.Bytes(); err != nil {
		return nil, err
	}
	copy(h.Nonce[:], nonce)

	// Optional suffix: consume fields in order until the list ends.
	if !s.AtListEnd() {
		if h.BaseFee, err = s.Uint256(); err != nil {
			return nil, err
		}
	}
	if !s.AtListEnd() {
		var wh Hash
		if err = decodeHash(s, &wh); err != nil {
			return nil, err
		}
		h.WithdrawalsHash = &wh
	}
	if !s.AtListEnd() {
		bgu, err := s.Uint64()
		if err != nil {
			return nil, err
		}
		ebg, err := s.Uint64()
		if err != nil {
			return nil, err
		}
		h.BlobGasUsed, h.ExcessBlobGas = &bgu, &ebg
	}
	if !s.AtListEnd() {
		var pbr Hash
		if err = decodeHash(s, &pbr); err != nil {
			return nil, err
		}
		h.ParentBeaconRoot = &pbr
	}
	if !s.AtListEnd() {
		var rh Hash
		if err = decodeHash(s, &rh); err != nil {
			return nil, err
		}
		h.RequestsHash = &rh
	}

	// ListEnd rejects unknown trailing data.
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return h, nil
}

func computeHeaderHash(h *Header) Hash {
	enc, err := h.EncodeRLP()
	if err != nil {
		return Hash{}
	}
	return keccakHash(enc)
}

func decodeHash(s *rlp.Stream, h *Hash) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	h.SetBytes(b)
	return nil
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

func hashOrZero(h *Hash) Hash {
	if h == nil {
		return Hash{}
	}
	return *h
}

func uintOrZero(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v
}
