package state

import "github.com/Sparrow2025/besu/core/types"

// MemoryWorld is a map-backed MutableWorld. It backs tests and any caller
// that does not need an authenticated state.
type MemoryWorld struct {
	accounts map[types.Address]*types.Account
	code     map[types.Hash][]byte
	storage  map[types.Address]map[types.Hash]types.Hash
}

// NewMemoryWorld creates an empty in-memory world state.
func NewMemoryWorld() *MemoryWorld {
	return &MemoryWorld{
		accounts: make(map[types.Address]*types.Account),
		code:     make(map[types.Hash][]byte),
		storage:  make(map[types.Address]map[types.Hash]types.Hash),
	}
}

// GetAccount returns the account at addr.
func (w *MemoryWorld) GetAccount(addr types.Address) (*types.Account, bool) {
	acct, ok := w.accounts[addr]
	if !ok {
		return nil, false
	}
	return acct.Copy(), true
}

// GetCode returns the code under codeHash.
func (w *MemoryWorld) GetCode(codeHash types.Hash) []byte {
	if codeHash.IsZero() || codeHash == types.EmptyCodeHash {
		return nil
	}
	return w.code[codeHash]
}

// GetStorage returns a storage slot value.
func (w *MemoryWorld) GetStorage(addr types.Address, key types.Hash) types.Hash {
	if slots, ok := w.storage[addr]; ok {
		return slots[key]
	}
	return types.Hash{}
}

// SetAccount stores an account.
func (w *MemoryWorld) SetAccount(addr types.Address, account *types.Account) {
	w.accounts[addr] = account.Copy()
}

// SetCode stores code under its hash.
func (w *MemoryWorld) SetCode(codeHash types.Hash, code []byte) {
	w.code[codeHash] = append([]byte(nil), code...)
}

// SetStorage stores a storage slot value.
func (w *MemoryWorld) SetStorage(addr types.Address, key, value types.Hash) {
	slots, ok := w.storage[addr]
	if !ok {
		slots = make(map[types.Hash]types.Hash)
		w.storage[addr] = slots
	}
	slots[key] = value
}

// DeleteAccount removes an account and its storage.
func (w *MemoryWorld) DeleteAccount(addr types.Address) {
	delete(w.accounts, addr)
	delete(w.storage, addr)
}

// AccountCount returns the number of live accounts.
func (w *MemoryWorld) AccountCount() int { return len(w.accounts) }
