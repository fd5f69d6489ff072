package types

import (
	"bytes"
	"math/big"
	"testing"
)

func sampleAccessList() AccessList {
	return AccessList{
		{
			Address:     HexToAddress("0x1111111111111111111111111111111111111111"),
			StorageKeys: []Hash{HexToHash("0x01"), HexToHash("0x02")},
		},
	}
}

func TestLegacyTxRoundTrip(t *testing.T) {
	to := HexToAddress("0x2222222222222222222222222222222222222222")
	tx := NewTransaction(&LegacyTx{
		Nonce:    3,
		GasPrice: NewWei(20),
		Gas:      21000,
		To:       &to,
		Value:    NewWei(1000),
		Data:     []byte{1, 2, 3},
		V:        big.NewInt(27),
		R:        big.NewInt(10),
		S:        big.NewInt(11),
	})
	enc, err := tx.EncodeRLP()
	if err != nil {
		t.Fatal(err)
	}
	if enc[0] < 0xc0 {
		t.Fatal("legacy transaction must encode as a bare list")
	}
	dec, err := DecodeTransactionRLP(enc)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Type() != LegacyTxType || dec.Nonce() != 3 || dec.Gas() != 21000 {
		t.Fatalf("decoded mismatch: type %d nonce %d gas %d", dec.Type(), dec.Nonce(), dec.Gas())
	}
	if dec.To() == nil || *dec.To() != to {
		t.Fatal("decoded to mismatch")
	}
	if !dec.Value().Eq(NewWei(1000)) {
		t.Fatalf("decoded value %s", dec.Value())
	}
	if dec.Hash() != tx.Hash() {
		t.Fatal("hash changed across round trip")
	}
}

func TestLegacyCreationRoundTrip(t *testing.T) {
	tx := NewTransaction(&LegacyTx{
		Nonce:    0,
		GasPrice: NewWei(1),
		Gas:      100000,
		To:       nil, // contract creation
		Value:    NewWei(0),
		Data:     []byte{0x60, 0x00},
		V:        big.NewInt(28),
		R:        big.NewInt(1),
		S:        big.NewInt(1),
	})
	enc, err := tx.EncodeRLP()
	if err != nil {
		t.Fatal(err)
	}
	dec, err := DecodeTransactionRLP(enc)
	if err != nil {
		t.Fatal(err)
	}
	if !dec.IsContractCreation() {
		t.Fatal("creation lost its absent destination")
	}
}

func TestDynamicFeeTxRoundTrip(t *testing.T) {
	to := HexToAddress("0x3333333333333333333333333333333333333333")
	tx := NewTransaction(&DynamicFeeTx{
		ChainID:    big.NewInt(1),
		Nonce:      7,
		GasTipCap:  NewWei(2),
		GasFeeCap:  NewWei(30),
		Gas:        50000,
		To:         &to,
		Value:      NewWei(5),
		Data:       nil,
		AccessList: sampleAccessList(),
		V:          big.NewInt(1),
		R:          big.NewInt(2),
		S:          big.NewInt(3),
	})
	enc, err := tx.EncodeRLP()
	if err != nil {
		t.Fatal(err)
	}
	if enc[0] != DynamicFeeTxType {
		t.Fatalf("type byte = %d, want %d", enc[0], DynamicFeeTxType)
	}
	dec, err := DecodeTransactionRLP(enc)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Type() != DynamicFeeTxType {
		t.Fatalf("decoded type %d", dec.Type())
	}
	if !dec.GasTipCap().Eq(NewWei(2)) || !dec.GasFeeCap().Eq(NewWei(30)) {
		t.Fatal("fee fields mismatch")
	}
	al := dec.AccessList()
	if len(al) != 1 || len(al[0].StorageKeys) != 2 {
		t.Fatalf("access list mismatch: %+v", al)
	}
}

func TestBlobTxRoundTrip(t *testing.T) {
	tx := NewTransaction(&BlobTx{
		ChainID:    big.NewInt(1),
		Nonce:      1,
		GasTipCap:  NewWei(1),
		GasFeeCap:  NewWei(10),
		Gas:        21000,
		To:         HexToAddress("0x4444444444444444444444444444444444444444"),
		Value:      NewWei(0),
		BlobFeeCap: NewWei(100),
		BlobHashes: []Hash{HexToHash("0x0101"), HexToHash("0x0102")},
		V:          big.NewInt(0),
		R:          big.NewInt(9),
		S:          big.NewInt(8),
	})
	enc, err := tx.EncodeRLP()
	if err != nil {
		t.Fatal(err)
	}
	if enc[0] != BlobTxType {
		t.Fatalf("type byte = %d", enc[0])
	}
	dec, err := DecodeTransactionRLP(enc)
	if err != nil {
		t.Fatal(err)
	}
	if dec.BlobCount() != 2 {
		t.Fatalf("blob count %d", dec.BlobCount())
	}
	if !dec.BlobGasFeeCap().Eq(NewWei(100)) {
		t.Fatal("blob fee cap mismatch")
	}
	if dec.To() == nil {
		t.Fatal("blob tx must keep its destination")
	}
}

func TestSetCodeTxRoundTrip(t *testing.T) {
	tx := NewTransaction(&SetCodeTx{
		ChainID:   big.NewInt(1),
		Nonce:     2,
		GasTipCap: NewWei(1),
		GasFeeCap: NewWei(10),
		Gas:       80000,
		To:        HexToAddress("0x5555555555555555555555555555555555555555"),
		Value:     NewWei(0),
		AuthList: []Authorization{{
			ChainID: big.NewInt(1),
			Address: HexToAddress("0x6666666666666666666666666666666666666666"),
			Nonce:   4,
			V:       big.NewInt(0),
			R:       big.NewInt(5),
			S:       big.NewInt(6),
		}},
		V: big.NewInt(1),
		R: big.NewInt(7),
		S: big.NewInt(8),
	})
	enc, err := tx.EncodeRLP()
	if err != nil {
		t.Fatal(err)
	}
	dec, err := DecodeTransactionRLP(enc)
	if err != nil {
		t.Fatal(err)
	}
	auths := dec.AuthorizationList()
	if len(auths) != 1 || auths[0].Nonce != 4 {
		t.Fatalf("authorization list mismatch: %+v", auths)
	}
	if auths[0].Address != HexToAddress("0x6666666666666666666666666666666666666666") {
		t.Fatal("authorization address mismatch")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := DecodeTransactionRLP(nil); err == nil {
		t.Fatal("empty payload must fail")
	}
	if _, err := DecodeTransactionRLP([]byte{0x05, 0xc0}); err == nil {
		t.Fatal("unknown type byte must fail")
	}
	if _, err := DecodeTransactionRLP([]byte{0x02, 0x80}); err == nil {
		t.Fatal("typed payload without list must fail")
	}
}

func TestSigningHashDiffersFromWireHash(t *testing.T) {
	to := HexToAddress("0x01")
	tx := NewTransaction(&DynamicFeeTx{
		ChainID:   big.NewInt(1),
		Nonce:     1,
		GasTipCap: NewWei(1),
		GasFeeCap: NewWei(2),
		Gas:       21000,
		To:        &to,
		V:         big.NewInt(0),
		R:         big.NewInt(1),
		S:         big.NewInt(1),
	})
	signer := NewSigner(big.NewInt(1))
	sigHash, err := signer.SigningHash(tx)
	if err != nil {
		t.Fatal(err)
	}
	if sigHash == tx.Hash() {
		t.Fatal("signing hash must exclude the signature fields")
	}
}

func TestLegacyChainIDDerivation(t *testing.T) {
	tests := []struct {
		v    int64
		want int64 // -1 means nil
	}{
		{27, -1},
		{28, -1},
		{37, 1}, // 1*2+35
		{38, 1},
		{2709, 1337}, // 1337*2+35
	}
	for _, tt := range tests {
		got := deriveLegacyChainID(big.NewInt(tt.v))
		if tt.want == -1 {
			if got != nil {
				t.Fatalf("v=%d: got %v, want nil", tt.v, got)
			}
			continue
		}
		if got == nil || got.Int64() != tt.want {
			t.Fatalf("v=%d: got %v, want %d", tt.v, got, tt.want)
		}
	}
}

func TestUpfrontCost(t *testing.T) {
	to := HexToAddress("0x01")
	tx := NewTransaction(&LegacyTx{
		Nonce:    0,
		GasPrice: NewWei(20),
		Gas:      21000,
		To:       &to,
		Value:    NewWei(1000),
	})
	cost, ok := tx.UpfrontCost(0)
	if !ok {
		t.Fatal("unexpected overflow")
	}
	want := NewWei(21000*20 + 1000)
	if !cost.Eq(want) {
		t.Fatalf("upfront cost %s, want %s", cost, want)
	}
}

func TestUpfrontCostOverflow(t *testing.T) {
	huge := new(Wei)
	huge.SetAllOne()
	to := HexToAddress("0x01")
	tx := NewTransaction(&LegacyTx{
		GasPrice: huge,
		Gas:      ^uint64(0),
		To:       &to,
		Value:    NewWei(0),
	})
	if _, ok := tx.UpfrontCost(0); ok {
		t.Fatal("expected 256-bit overflow")
	}
}

func TestTransactionDeepCopy(t *testing.T) {
	data := []byte{1, 2, 3}
	inner := &LegacyTx{Nonce: 1, GasPrice: NewWei(1), Gas: 21000, Data: data}
	tx := NewTransaction(inner)
	data[0] = 0xff
	if bytes.Equal(tx.Data(), data) {
		t.Fatal("transaction must not alias caller-owned payload")
	}
}
