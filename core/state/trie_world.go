package state

import (
	"github.com/Sparrow2025/besu/core/types"
	"github.com/Sparrow2025/besu/trie"
)

// TrieWorld is a MutableWorld whose accounts and per-account storage are
// committed into Merkle Patricia Tries. Account values are the canonical
// RLP encoding; a value that fails to decode is surfaced as a
// trie.CorruptionError panic so the transaction layer can re-raise it for
// healing.
type TrieWorld struct {
	accounts *trie.SecureTrie
	storage  map[types.Address]*trie.SecureTrie
	code     map[types.Hash][]byte
}

// NewTrieWorld creates an empty trie-backed world state.
func NewTrieWorld() *TrieWorld {
	return &TrieWorld{
		accounts: trie.NewSecure(),
		storage:  make(map[types.Address]*trie.SecureTrie),
		code:     make(map[types.Hash][]byte),
	}
}

// GetAccount returns the account at addr.
func (w *TrieWorld) GetAccount(addr types.Address) (*types.Account, bool) {
	enc, ok := w.accounts.Get(addr.Bytes())
	if !ok {
		return nil, false
	}
	acct, err := types.DecodeAccountRLP(enc)
	if err != nil {
		panic(&trie.CorruptionError{Key: addr.Bytes(), Reason: err.Error()})
	}
	return acct, true
}

// GetCode returns the code under codeHash.
func (w *TrieWorld) GetCode(codeHash types.Hash) []byte {
	if codeHash.IsZero() || codeHash == types.EmptyCodeHash {
		return nil
	}
	return w.code[codeHash]
}

// GetStorage returns a storage slot value.
func (w *TrieWorld) GetStorage(addr types.Address, key types.Hash) types.Hash {
	st, ok := w.storage[addr]
	if !ok {
		return types.Hash{}
	}
	if v, ok := st.Get(key.Bytes()); ok {
		return types.BytesToHash(v)
	}
	return types.Hash{}
}

// SetAccount commits an account into the accounts trie. The account's
// storage root is refreshed from its storage trie first.
func (w *TrieWorld) SetAccount(addr types.Address, account *types.Account) {
	acct := account.Copy()
	if st, ok := w.storage[addr]; ok {
		acct.Root = st.RootHash()
	}
	enc, err := acct.EncodeRLP()
	if err != nil {
		panic(&trie.CorruptionError{Key: addr.Bytes(), Reason: err.Error()})
	}
	w.accounts = w.accounts.Put(addr.Bytes(), enc)
}

// SetCode stores code under its hash.
func (w *TrieWorld) SetCode(codeHash types.Hash, code []byte) {
	w.code[codeHash] = append([]byte(nil), code...)
}

// SetStorage commits a storage slot write into the account's storage trie.
// Writing the zero value unbinds the slot.
func (w *TrieWorld) SetStorage(addr types.Address, key, value types.Hash) {
	st, ok := w.storage[addr]
	if !ok {
		st = trie.NewSecure()
	}
	if value.IsZero() {
		st = st.Remove(key.Bytes())
	} else {
		st = st.Put(key.Bytes(), trimLeadingZeros(value))
	}
	w.storage[addr] = st
	// Refresh the committed storage root if the account already exists.
	if acct, ok := w.GetAccount(addr); ok {
		acct.Root = st.RootHash()
		enc, err := acct.EncodeRLP()
		if err != nil {
			panic(&trie.CorruptionError{Key: addr.Bytes(), Reason: err.Error()})
		}
		w.accounts = w.accounts.Put(addr.Bytes(), enc)
	}
}

// DeleteAccount unbinds an account and drops its storage trie.
func (w *TrieWorld) DeleteAccount(addr types.Address) {
	w.accounts = w.accounts.Remove(addr.Bytes())
	delete(w.storage, addr)
}

// RootHash returns the accounts trie root.
func (w *TrieWorld) RootHash() types.Hash {
	return w.accounts.RootHash()
}

// trimLeadingZeros strips leading zero bytes, matching the canonical
// scalar representation of storage values.
func trimLeadingZeros(h types.Hash) []byte {
	b := h.Bytes()
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}
