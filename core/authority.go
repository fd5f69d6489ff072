package core

import (
	"math/big"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/Sparrow2025/besu/core/state"
	"github.com/Sparrow2025/besu/core/types"
	"github.com/Sparrow2025/besu/crypto"
	"github.com/Sparrow2025/besu/log"
)

// DelegationPrefix marks an account's code as a delegation to another
// address (EIP-7702): 0xef0100 || address.
var DelegationPrefix = []byte{0xef, 0x01, 0x00}

// AuthorityProcessor applies the authorization list of a set-code
// transaction and returns the set of authorized addresses, which the
// processor seeds into the warm-address set.
type AuthorityProcessor interface {
	Apply(updater *state.Updater, tx *types.Transaction) mapset.Set[types.Address]
}

// SetCodeAuthorityProcessor is the mainnet authority processor. Invalid
// authorizations are skipped, never transaction-fatal; application is
// idempotent per (chain id, address, nonce) triple.
type SetCodeAuthorityProcessor struct {
	chainID *big.Int
	logger  *log.Logger
}

// NewSetCodeAuthorityProcessor builds an authority processor bound to one
// chain.
func NewSetCodeAuthorityProcessor(chainID *big.Int) *SetCodeAuthorityProcessor {
	return &SetCodeAuthorityProcessor{
		chainID: new(big.Int).Set(chainID),
		logger:  log.Default().Module("authority"),
	}
}

type authTriple struct {
	chainID string
	address types.Address
	nonce   uint64
}

// Apply walks the authorization list in order.
func (p *SetCodeAuthorityProcessor) Apply(updater *state.Updater, tx *types.Transaction) mapset.Set[types.Address] {
	authorized := mapset.NewThreadUnsafeSet[types.Address]()
	seen := make(map[authTriple]bool)

	for i, auth := range tx.AuthorizationList() {
		// Authorization chain id must be zero (any chain) or ours.
		if auth.ChainID != nil && auth.ChainID.Sign() != 0 && auth.ChainID.Cmp(p.chainID) != 0 {
			p.logger.Debug("skipping authorization with foreign chain id", "index", i)
			continue
		}
		triple := authTriple{chainID: bigString(auth.ChainID), address: auth.Address, nonce: auth.Nonce}
		if seen[triple] {
			continue
		}
		seen[triple] = true

		signer, ok := p.recoverAuthority(&auth)
		if !ok {
			p.logger.Debug("skipping authorization with unrecoverable signature", "index", i)
			continue
		}

		account := updater.GetOrCreate(signer)
		// A signer already holding real (non-delegation) code cannot
		// delegate.
		if account.HasCode() && !isDelegation(account.Code()) {
			p.logger.Debug("skipping authorization from contract account", "authority", signer)
			continue
		}
		if account.Nonce() != auth.Nonce {
			p.logger.Debug("skipping authorization with stale nonce",
				"authority", signer, "have", account.Nonce(), "want", auth.Nonce)
			continue
		}

		if auth.Address.IsZero() {
			account.SetCode(nil)
		} else {
			account.SetCode(append(append([]byte(nil), DelegationPrefix...), auth.Address.Bytes()...))
		}
		account.IncrementNonce()
		authorized.Add(signer)
	}
	return authorized
}

func (p *SetCodeAuthorityProcessor) recoverAuthority(auth *types.Authorization) (types.Address, bool) {
	if auth.V == nil || auth.V.BitLen() > 1 {
		return types.Address{}, false
	}
	hash, err := types.AuthorizationSigningHash(auth)
	if err != nil {
		return types.Address{}, false
	}
	signer, err := crypto.RecoverAddress(hash, auth.R, auth.S, byte(auth.V.Uint64()))
	if err != nil {
		return types.Address{}, false
	}
	return signer, true
}

// isDelegation reports whether code is a delegation designation.
func isDelegation(code []byte) bool {
	return len(code) == len(DelegationPrefix)+types.AddressLength &&
		string(code[:len(DelegationPrefix)]) == string(DelegationPrefix)
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
