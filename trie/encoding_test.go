package trie

import (
	"bytes"
	"testing"
)

func TestHexToCompact(t *testing.T) {
	tests := []struct {
		name string
		hex  []byte
		want []byte
	}{
		{"leaf even", []byte{1, 2, 3, 4, leafTerminator}, []byte{0x20, 0x12, 0x34}},
		{"leaf odd", []byte{1, 2, 3, leafTerminator}, []byte{0x31, 0x23}},
		{"extension even", []byte{1, 2, 3, 4}, []byte{0x00, 0x12, 0x34}},
		{"extension odd", []byte{1, 2, 3}, []byte{0x11, 0x23}},
		{"leaf empty", []byte{leafTerminator}, []byte{0x20}},
	}
	for _, tt := range tests {
		got := hexToCompact(tt.hex)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("%s: hexToCompact(%v) = %x, want %x", tt.name, tt.hex, got, tt.want)
		}
	}
}

func TestCompactToHexRoundTrip(t *testing.T) {
	paths := [][]byte{
		{1, 2, 3, 4, leafTerminator},
		{1, 2, 3, leafTerminator},
		{1, 2, 3, 4},
		{1, 2, 3},
		{leafTerminator},
		{0xf},
	}
	for _, p := range paths {
		got := compactToHex(hexToCompact(p))
		if !bytes.Equal(got, p) {
			t.Errorf("round trip %v: got %v", p, got)
		}
	}
}

func TestKeyToNibbles(t *testing.T) {
	got := keyToNibbles([]byte{0xab, 0x04})
	want := []byte{0xa, 0xb, 0x0, 0x4, leafTerminator}
	if !bytes.Equal(got, want) {
		t.Errorf("keyToNibbles = %v, want %v", got, want)
	}
	if !hasTerm(got) {
		t.Error("expanded key must end with terminator")
	}
}

func TestCommonPrefixLength(t *testing.T) {
	tests := []struct {
		a, b []byte
		want int
	}{
		{[]byte{1, 2, 3}, []byte{1, 2, 4}, 2},
		{[]byte{1, 2, 3}, []byte{1, 2, 3}, 3},
		{[]byte{1, 2, 3}, []byte{1, 2, 3, 4}, 3},
		{[]byte{5}, []byte{6}, 0},
		{nil, []byte{1}, 0},
	}
	for _, tt := range tests {
		if got := commonPrefixLength(tt.a, tt.b); got != tt.want {
			t.Errorf("commonPrefixLength(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
