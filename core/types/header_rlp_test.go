package types

import (
	"math/big"
	"testing"

	"github.com/Sparrow2025/besu/rlp"
)

func baseHeader() *Header {
	return &Header{
		ParentHash:  HexToHash("0x01"),
		UncleHash:   EmptyUncleHash,
		Coinbase:    HexToAddress("0xfee"),
		Root:        HexToHash("0x02"),
		TxHash:      EmptyRootHash,
		ReceiptHash: EmptyRootHash,
		Difficulty:  big.NewInt(0),
		Number:      big.NewInt(100),
		GasLimit:    30_000_000,
		GasUsed:     21000,
		Time:        1_700_000_000,
		Extra:       []byte("besu"),
		MixDigest:   HexToHash("0x03"),
	}
}

func TestHeaderRoundTripPreLondon(t *testing.T) {
	h := baseHeader()
	enc, err := h.EncodeRLP()
	if err != nil {
		t.Fatal(err)
	}
	dec, err := DecodeHeaderRLP(enc)
	if err != nil {
		t.Fatal(err)
	}
	if dec.BaseFee != nil || dec.WithdrawalsHash != nil || dec.BlobGasUsed != nil {
		t.Fatal("truncated optionals must decode as unset")
	}
	if dec.Number.Cmp(h.Number) != 0 || dec.GasLimit != h.GasLimit {
		t.Fatal("base fields mismatch")
	}
	if string(dec.Extra) != "besu" {
		t.Fatalf("extra = %q", dec.Extra)
	}
}

func TestHeaderRoundTripAllOptionals(t *testing.T) {
	h := baseHeader()
	h.BaseFee = NewWei(7)
	wh := HexToHash("0x04")
	h.WithdrawalsHash = &wh
	bgu, ebg := uint64(131072), uint64(0)
	h.BlobGasUsed, h.ExcessBlobGas = &bgu, &ebg
	pbr := HexToHash("0x05")
	h.ParentBeaconRoot = &pbr
	rh := HexToHash("0x06")
	h.RequestsHash = &rh

	enc, err := h.EncodeRLP()
	if err != nil {
		t.Fatal(err)
	}
	dec, err := DecodeHeaderRLP(enc)
	if err != nil {
		t.Fatal(err)
	}
	if dec.BaseFee == nil || !dec.BaseFee.Eq(NewWei(7)) {
		t.Fatal("base fee mismatch")
	}
	if dec.WithdrawalsHash == nil || *dec.WithdrawalsHash != wh {
		t.Fatal("withdrawals hash mismatch")
	}
	if dec.BlobGasUsed == nil || *dec.BlobGasUsed != 131072 {
		t.Fatal("blob gas used mismatch")
	}
	if dec.ExcessBlobGas == nil || *dec.ExcessBlobGas != 0 {
		t.Fatal("excess blob gas mismatch")
	}
	if dec.ParentBeaconRoot == nil || *dec.ParentBeaconRoot != pbr {
		t.Fatal("parent beacon root mismatch")
	}
	if dec.RequestsHash == nil || *dec.RequestsHash != rh {
		t.Fatal("requests hash mismatch")
	}
}

func TestHeaderTruncationPoints(t *testing.T) {
	// Each prefix of the optional suffix must round trip.
	variants := []func(h *Header){
		func(h *Header) {},
		func(h *Header) { h.BaseFee = NewWei(7) },
		func(h *Header) {
			h.BaseFee = NewWei(7)
			wh := HexToHash("0x04")
			h.WithdrawalsHash = &wh
		},
		func(h *Header) {
			h.BaseFee = NewWei(7)
			wh := HexToHash("0x04")
			h.WithdrawalsHash = &wh
			bgu, ebg := uint64(1), uint64(2)
			h.BlobGasUsed, h.ExcessBlobGas = &bgu, &ebg
		},
	}
	for i, mutate := range variants {
		h := baseHeader()
		mutate(h)
		enc, err := h.EncodeRLP()
		if err != nil {
			t.Fatalf("variant %d: %v", i, err)
		}
		if _, err := DecodeHeaderRLP(enc); err != nil {
			t.Fatalf("variant %d failed to decode: %v", i, err)
		}
	}
}

func TestHeaderUnknownTrailingData(t *testing.T) {
	// The header carries every optional field, so the appended item lies
	// beyond all known fields.
	h := baseHeader()
	h.BaseFee = NewWei(7)
	wh := HexToHash("0x04")
	h.WithdrawalsHash = &wh
	bgu, ebg := uint64(131072), uint64(0)
	h.BlobGasUsed, h.ExcessBlobGas = &bgu, &ebg
	pbr := HexToHash("0x05")
	h.ParentBeaconRoot = &pbr
	rh := HexToHash("0x06")
	h.RequestsHash = &rh
	enc, err := h.EncodeRLP()
	if err != nil {
		t.Fatal(err)
	}
	// Rebuild the list with an extra trailing item.
	s := rlp.NewStreamFromBytes(enc)
	if _, err := s.List(); err != nil {
		t.Fatal(err)
	}
	var inner []byte
	for !s.AtListEnd() {
		raw, err := s.Raw()
		if err != nil {
			t.Fatal(err)
		}
		inner = append(inner, raw...)
	}
	inner = append(inner, rlp.AppendUint(nil, 7)...)
	bad := rlp.WrapList(inner)
	if _, err := DecodeHeaderRLP(bad); err == nil {
		t.Fatal("unknown trailing data must be rejected")
	}
}

func TestHeaderExtraDataBound(t *testing.T) {
	h := baseHeader()
	h.Extra = make([]byte, 33)
	if _, err := h.EncodeRLP(); err == nil {
		t.Fatal("oversized extra-data must be rejected")
	}
}

func TestHeaderHashMemoized(t *testing.T) {
	h := baseHeader()
	first := h.Hash()
	if first.IsZero() {
		t.Fatal("hash must not be zero")
	}
	if second := h.Hash(); second != first {
		t.Fatal("hash must be stable")
	}
}
