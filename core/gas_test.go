package core

import "testing"

func TestIntrinsicGasPlainTransfer(t *testing.T) {
	g := NewLondonGasCalculator()
	if got := g.TransactionIntrinsicGasCost(nil, false); got != 21000 {
		t.Fatalf("plain transfer intrinsic = %d, want 21000", got)
	}
}

func TestIntrinsicGasPayloadBytes(t *testing.T) {
	g := NewLondonGasCalculator()
	payload := []byte{0, 1, 0, 2, 3} // 2 zero bytes, 3 non-zero
	want := uint64(21000 + 2*4 + 3*16)
	if got := g.TransactionIntrinsicGasCost(payload, false); got != want {
		t.Fatalf("payload intrinsic = %d, want %d", got, want)
	}
}

func TestIntrinsicGasCreation(t *testing.T) {
	g := NewLondonGasCalculator()
	initcode := make([]byte, 33) // 2 words
	for i := range initcode {
		initcode[i] = 1
	}
	want := uint64(21000 + 33*16 + 32000 + 2*2)
	if got := g.TransactionIntrinsicGasCost(initcode, true); got != want {
		t.Fatalf("creation intrinsic = %d, want %d", got, want)
	}
}

func TestAccessListGas(t *testing.T) {
	g := NewLondonGasCalculator()
	if got := g.AccessListGasCost(2, 3); got != 2*2400+3*1900 {
		t.Fatalf("access list gas = %d", got)
	}
}

func TestSetCodeGas(t *testing.T) {
	g := NewLondonGasCalculator()
	if got := g.SetCodeListGasCost(3); got != 3*25000 {
		t.Fatalf("set-code gas = %d", got)
	}
}

func TestBlobGasCost(t *testing.T) {
	g := NewLondonGasCalculator()
	if got := g.BlobGasCost(2); got != 2*131072 {
		t.Fatalf("blob gas = %d", got)
	}
	if got := g.BlobGasCost(0); got != 0 {
		t.Fatalf("zero blobs = %d", got)
	}
}

func TestRefundParametersByFork(t *testing.T) {
	london := NewLondonGasCalculator()
	if london.MaxRefundQuotient() != 5 || london.SelfDestructRefundAmount() != 0 {
		t.Fatal("london refund parameters wrong")
	}
	frontier := NewFrontierGasCalculator()
	if frontier.MaxRefundQuotient() != 2 || frontier.SelfDestructRefundAmount() != 24000 {
		t.Fatal("frontier refund parameters wrong")
	}
}
