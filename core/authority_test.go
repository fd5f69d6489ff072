package core

import (
	"math/big"
	"testing"

	"github.com/Sparrow2025/besu/core/state"
	"github.com/Sparrow2025/besu/core/types"
)

const authorityKeyHex = "8a1f9a8f95be41cd7ccb6168179afb4504aefe388d1e14474d32c45c72ce7b7a"

func setCodeTx(t *testing.T, auths []types.Authorization) *types.Transaction {
	t.Helper()
	return signTx(t, &types.SetCodeTx{
		ChainID:   testChainID,
		Nonce:     0,
		GasTipCap: types.NewWei(1),
		GasFeeCap: types.NewWei(20),
		Gas:       100_000,
		To:        types.HexToAddress("0xaa"),
		AuthList:  auths,
	})
}

func TestAuthorityApplySetsDelegation(t *testing.T) {
	delegate := types.HexToAddress("0x7777777777777777777777777777777777777777")
	auth := types.Authorization{ChainID: testChainID, Address: delegate, Nonce: 0}
	authority := signAuthorization(t, &auth, authorityKeyHex)

	world := state.NewMemoryWorld()
	u := state.NewUpdater(world)
	p := NewSetCodeAuthorityProcessor(testChainID)
	authorized := p.Apply(u, setCodeTx(t, []types.Authorization{auth}))

	if !authorized.Contains(authority) {
		t.Fatalf("authority %s not in authorized set", authority)
	}
	acct := u.GetOrCreate(authority)
	code := acct.Code()
	if !isDelegation(code) {
		t.Fatalf("code %x is not a delegation designation", code)
	}
	if types.BytesToAddress(code[len(DelegationPrefix):]) != delegate {
		t.Fatal("delegation does not point at the authorized address")
	}
	if acct.Nonce() != 1 {
		t.Fatalf("authority nonce %d, want 1", acct.Nonce())
	}
}

func TestAuthorityApplyIsIdempotentPerTriple(t *testing.T) {
	delegate := types.HexToAddress("0x7777777777777777777777777777777777777777")
	auth := types.Authorization{ChainID: testChainID, Address: delegate, Nonce: 0}
	authority := signAuthorization(t, &auth, authorityKeyHex)

	world := state.NewMemoryWorld()
	u := state.NewUpdater(world)
	p := NewSetCodeAuthorityProcessor(testChainID)
	// The same (chain id, address, nonce) triple listed twice applies once.
	p.Apply(u, setCodeTx(t, []types.Authorization{auth, auth}))

	if got := u.GetOrCreate(authority).Nonce(); got != 1 {
		t.Fatalf("duplicate authorization bumped nonce to %d, want 1", got)
	}
}

func TestAuthoritySkipsForeignChain(t *testing.T) {
	delegate := types.HexToAddress("0x7777777777777777777777777777777777777777")
	auth := types.Authorization{ChainID: big.NewInt(99), Address: delegate, Nonce: 0}
	authority := signAuthorization(t, &auth, authorityKeyHex)

	world := state.NewMemoryWorld()
	u := state.NewUpdater(world)
	p := NewSetCodeAuthorityProcessor(testChainID)
	authorized := p.Apply(u, setCodeTx(t, []types.Authorization{auth}))

	if authorized.Contains(authority) {
		t.Fatal("foreign-chain authorization applied")
	}
}

func TestAuthoritySkipsContractSigner(t *testing.T) {
	delegate := types.HexToAddress("0x7777777777777777777777777777777777777777")
	auth := types.Authorization{ChainID: testChainID, Address: delegate, Nonce: 0}
	authority := signAuthorization(t, &auth, authorityKeyHex)

	world := state.NewMemoryWorld()
	world.SetAccount(authority, &types.Account{
		Balance:  types.NewWei(0),
		CodeHash: types.HexToHash("0xdeadbeef"), // real contract code
	})
	u := state.NewUpdater(world)
	p := NewSetCodeAuthorityProcessor(testChainID)
	authorized := p.Apply(u, setCodeTx(t, []types.Authorization{auth}))

	if authorized.Contains(authority) {
		t.Fatal("contract-account signer authorization applied")
	}
}

func TestAuthoritySkipsStaleNonce(t *testing.T) {
	delegate := types.HexToAddress("0x7777777777777777777777777777777777777777")
	auth := types.Authorization{ChainID: testChainID, Address: delegate, Nonce: 3}
	authority := signAuthorization(t, &auth, authorityKeyHex)

	world := state.NewMemoryWorld()
	u := state.NewUpdater(world)
	p := NewSetCodeAuthorityProcessor(testChainID)
	authorized := p.Apply(u, setCodeTx(t, []types.Authorization{auth}))

	if authorized.Contains(authority) {
		t.Fatal("stale-nonce authorization applied")
	}
	if got := u.GetOrCreate(authority).Nonce(); got != 0 {
		t.Fatalf("nonce moved to %d", got)
	}
}

func TestAuthorityClearsDelegation(t *testing.T) {
	// Delegating to the zero address clears the designation.
	auth := types.Authorization{ChainID: testChainID, Address: types.Address{}, Nonce: 0}
	authority := signAuthorization(t, &auth, authorityKeyHex)

	world := state.NewMemoryWorld()
	u := state.NewUpdater(world)
	p := NewSetCodeAuthorityProcessor(testChainID)
	p.Apply(u, setCodeTx(t, []types.Authorization{auth}))

	if u.GetOrCreate(authority).HasCode() {
		t.Fatal("zero-address authorization must clear code")
	}
}
