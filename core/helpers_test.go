package core

import (
	"math/big"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/Sparrow2025/besu/core/types"
)

// Deterministic test identity shared across the core tests.
var (
	testKey, _   = ethcrypto.HexToECDSA("45a915e4d060149eb4365960e6a7a45f334393093061116b197e3240065ff2d8")
	testChainID  = big.NewInt(1)
	testSender   = types.BytesToAddress(ethcrypto.PubkeyToAddress(testKey.PublicKey).Bytes())
	testCoinbase = types.HexToAddress("0x00000000000000000000000000000000c01bbabe")
)

// signTx signs the unsigned payload with the test key and returns the
// signed transaction.
func signTx(t *testing.T, unsigned types.TxData) *types.Transaction {
	t.Helper()
	tx := types.NewTransaction(unsigned)
	signer := types.NewSigner(testChainID)
	hash, err := signer.SigningHash(tx)
	if err != nil {
		t.Fatalf("signing hash: %v", err)
	}
	sig, err := ethcrypto.Sign(hash.Bytes(), testKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	var v *big.Int
	switch inner := unsigned.(type) {
	case *types.LegacyTx:
		v = big.NewInt(int64(sig[64]) + 27)
		inner.V, inner.R, inner.S = v, r, s
	case *types.AccessListTx:
		inner.V, inner.R, inner.S = big.NewInt(int64(sig[64])), r, s
	case *types.DynamicFeeTx:
		inner.V, inner.R, inner.S = big.NewInt(int64(sig[64])), r, s
	case *types.BlobTx:
		inner.V, inner.R, inner.S = big.NewInt(int64(sig[64])), r, s
	case *types.SetCodeTx:
		inner.V, inner.R, inner.S = big.NewInt(int64(sig[64])), r, s
	default:
		t.Fatalf("unsupported tx payload %T", unsigned)
	}
	return types.NewTransaction(unsigned)
}

// signAuthorization signs an EIP-7702 authorization with the given key.
func signAuthorization(t *testing.T, auth *types.Authorization, keyHex string) types.Address {
	t.Helper()
	key, err := ethcrypto.HexToECDSA(keyHex)
	if err != nil {
		t.Fatalf("bad key: %v", err)
	}
	hash, err := types.AuthorizationSigningHash(auth)
	if err != nil {
		t.Fatalf("auth hash: %v", err)
	}
	sig, err := ethcrypto.Sign(hash.Bytes(), key)
	if err != nil {
		t.Fatalf("sign auth: %v", err)
	}
	auth.R = new(big.Int).SetBytes(sig[:32])
	auth.S = new(big.Int).SetBytes(sig[32:64])
	auth.V = big.NewInt(int64(sig[64]))
	return types.BytesToAddress(ethcrypto.PubkeyToAddress(key.PublicKey).Bytes())
}

// testHeader returns a post-London header with the given base fee.
func testHeader(baseFee uint64) *types.Header {
	h := &types.Header{
		Number:   big.NewInt(100),
		GasLimit: 30_000_000,
		GasUsed:  0,
		Time:     1_700_000_000,
		Coinbase: testCoinbase,
	}
	if baseFee > 0 {
		h.BaseFee = types.NewWei(baseFee)
	}
	return h
}

// frameFn adapts a function into a MessageProcessor.
type frameFn func(*MessageFrame)

func (f frameFn) Process(frame *MessageFrame, _ OperationTracer) { f(frame) }

// succeedTransfer is a call executor that performs the plain value
// transfer and completes.
var succeedTransfer = frameFn(func(f *MessageFrame) {
	f.Updater.GetOrCreate(f.Sender).DecrementBalance(f.Value)
	f.Updater.GetOrCreate(f.Recipient).IncrementBalance(f.Value)
	f.State = CompletedSuccess
})

// testValidator builds the mainnet validator used throughout the tests.
func testValidator() *TransactionValidator {
	return NewValidatorForConfig(&ChainConfig{
		ChainID:  testChainID,
		London:   true,
		Shanghai: true,
		Cancun:   true,
		Prague:   true,
	})
}

// testProcessor builds a processor around the given frame executors.
func testProcessor(creation, call MessageProcessor) *TransactionProcessor {
	return NewProcessorForConfig(&ChainConfig{
		ChainID:  testChainID,
		London:   true,
		Shanghai: true,
		Cancun:   true,
		Prague:   true,
	}, creation, call)
}
