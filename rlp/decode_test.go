package rlp

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
)

func TestDecodeBytes(t *testing.T) {
	var out []byte
	if err := DecodeBytes([]byte{0x83, 'd', 'o', 'g'}, &out); err != nil {
		t.Fatal(err)
	}
	if string(out) != "dog" {
		t.Fatalf("got %q, want dog", out)
	}
}

func TestDecodeUint64(t *testing.T) {
	tests := []struct {
		enc  []byte
		want uint64
	}{
		{[]byte{0x80}, 0},
		{[]byte{0x0f}, 15},
		{[]byte{0x82, 0x04, 0x00}, 1024},
	}
	for _, tt := range tests {
		var out uint64
		if err := DecodeBytes(tt.enc, &out); err != nil {
			t.Fatalf("%x: %v", tt.enc, err)
		}
		if out != tt.want {
			t.Fatalf("%x: got %d, want %d", tt.enc, out, tt.want)
		}
	}
}

func TestDecodeNonCanonicalInt(t *testing.T) {
	// 0x0400 with a leading zero byte is not canonical.
	var out uint64
	err := DecodeBytes([]byte{0x83, 0x00, 0x04, 0x00}, &out)
	if !errors.Is(err, ErrCanonInt) {
		t.Fatalf("got %v, want ErrCanonInt", err)
	}

	// A single byte below 0x80 must not carry a string prefix.
	var b []byte
	err = DecodeBytes([]byte{0x81, 0x05}, &b)
	if !errors.Is(err, ErrCanonSize) {
		t.Fatalf("got %v, want ErrCanonSize", err)
	}
}

func TestDecodeBigInt(t *testing.T) {
	var out big.Int
	if err := DecodeBytes([]byte{0x82, 0x04, 0x00}, &out); err != nil {
		t.Fatal(err)
	}
	if out.Cmp(big.NewInt(1024)) != 0 {
		t.Fatalf("got %v, want 1024", &out)
	}
}

func TestDecodeUint256(t *testing.T) {
	var out uint256.Int
	if err := DecodeBytes([]byte{0x82, 0x04, 0x00}, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Eq(uint256.NewInt(1024)) {
		t.Fatalf("got %v, want 1024", &out)
	}
}

func TestDecodeSlice(t *testing.T) {
	enc, err := EncodeToBytes([]uint64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	var out []uint64
	if err := DecodeBytes(enc, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", out)
	}
}

func TestDecodeStructRoundTrip(t *testing.T) {
	type entry struct {
		Addr [20]byte
		Keys [][32]byte
	}
	in := entry{}
	in.Addr[19] = 0xaa
	var k [32]byte
	k[31] = 0x01
	in.Keys = append(in.Keys, k)

	enc, err := EncodeToBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	var out entry
	if err := DecodeBytes(enc, &out); err != nil {
		t.Fatal(err)
	}
	if out.Addr != in.Addr || len(out.Keys) != 1 || out.Keys[0] != k {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestDecodeByteArraySize(t *testing.T) {
	var out [4]byte
	err := DecodeBytes([]byte{0x83, 1, 2, 3}, &out)
	if !errors.Is(err, ErrByteArraySize) {
		t.Fatalf("got %v, want ErrByteArraySize", err)
	}
}

func TestStreamList(t *testing.T) {
	enc := WrapList(append(AppendUint(nil, 7), AppendString(nil, []byte("hi"))...))
	s := NewStreamFromBytes(enc)
	if _, err := s.List(); err != nil {
		t.Fatal(err)
	}
	u, err := s.Uint64()
	if err != nil || u != 7 {
		t.Fatalf("got %d (%v), want 7", u, err)
	}
	if s.AtListEnd() {
		t.Fatal("list should not be exhausted yet")
	}
	b, err := s.Bytes()
	if err != nil || !bytes.Equal(b, []byte("hi")) {
		t.Fatalf("got %q (%v), want hi", b, err)
	}
	if !s.AtListEnd() {
		t.Fatal("list should be exhausted")
	}
	if err := s.ListEnd(); err != nil {
		t.Fatal(err)
	}
}

func TestStreamTrailingItems(t *testing.T) {
	enc := WrapList(AppendUint(AppendUint(nil, 1), 2))
	s := NewStreamFromBytes(enc)
	if _, err := s.List(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Uint64(); err != nil {
		t.Fatal(err)
	}
	if err := s.ListEnd(); !errors.Is(err, ErrTrailingItems) {
		t.Fatalf("got %v, want ErrTrailingItems", err)
	}
}

func TestStreamRaw(t *testing.T) {
	inner := WrapList(AppendUint(nil, 9))
	enc := WrapList(inner)
	s := NewStreamFromBytes(enc)
	if _, err := s.List(); err != nil {
		t.Fatal(err)
	}
	raw, err := s.Raw()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, inner) {
		t.Fatalf("got %x, want %x", raw, inner)
	}
}
