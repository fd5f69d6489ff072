package types

import "github.com/Sparrow2025/besu/rlp"

// Account is the consensus representation of an account: the four fields
// committed into the state trie.
type Account struct {
	Nonce    uint64
	Balance  *Wei
	CodeHash Hash
	Root     Hash // storage trie root
}

// NewAccount creates an account with zero balance, no code and an empty
// storage trie.
func NewAccount() *Account {
	return &Account{
		Balance:  new(Wei),
		CodeHash: EmptyCodeHash,
		Root:     EmptyRootHash,
	}
}

// IsEmpty reports whether the account is empty per EIP-161: zero nonce,
// zero balance and no code.
func (a *Account) IsEmpty() bool {
	return a.Nonce == 0 && (a.Balance == nil || a.Balance.IsZero()) &&
		(a.CodeHash == EmptyCodeHash || a.CodeHash.IsZero())
}

// HasCode reports whether the account holds deployed code.
func (a *Account) HasCode() bool {
	return !a.CodeHash.IsZero() && a.CodeHash != EmptyCodeHash
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	cpy := *a
	if a.Balance != nil {
		cpy.Balance = new(Wei).Set(a.Balance)
	} else {
		cpy.Balance = new(Wei)
	}
	return &cpy
}

// accountRLP is the trie-committed field order: [nonce, balance, root, codeHash].
type accountRLP struct {
	Nonce    uint64
	Balance  *Wei
	Root     Hash
	CodeHash Hash
}

// EncodeRLP returns the canonical RLP encoding of the account.
func (a *Account) EncodeRLP() ([]byte, error) {
	bal := a.Balance
	if bal == nil {
		bal = new(Wei)
	}
	return rlp.EncodeToBytes(&accountRLP{
		Nonce:    a.Nonce,
		Balance:  bal,
		Root:     a.Root,
		CodeHash: a.CodeHash,
	})
}

// DecodeAccountRLP decodes a trie-stored account encoding.
func DecodeAccountRLP(data []byte) (*Account, error) {
	var enc accountRLP
	if err := rlp.DecodeBytes(data, &enc); err != nil {
		return nil, err
	}
	bal := enc.Balance
	if bal == nil {
		bal = new(Wei)
	}
	return &Account{
		Nonce:    enc.Nonce,
		Balance:  bal,
		Root:     enc.Root,
		CodeHash: enc.CodeHash,
	}, nil
}
