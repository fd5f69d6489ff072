// Package state provides the world-state views and the staged updater the
// transaction processor mutates through. Nothing is published to the
// underlying world until the root updater commits.
package state

import (
	"github.com/Sparrow2025/besu/core/types"
	"github.com/Sparrow2025/besu/crypto"
)

// World is a read-only view of accounts, code and storage.
type World interface {
	// GetAccount returns the account at addr, or false when absent.
	GetAccount(addr types.Address) (*types.Account, bool)

	// GetCode returns the code stored under codeHash, or nil.
	GetCode(codeHash types.Hash) []byte

	// GetStorage returns the storage slot value, or the zero hash.
	GetStorage(addr types.Address, key types.Hash) types.Hash
}

// MutableWorld is a World that accepts the deltas of a committing root
// updater.
type MutableWorld interface {
	World

	SetAccount(addr types.Address, account *types.Account)
	SetCode(codeHash types.Hash, code []byte)
	SetStorage(addr types.Address, key, value types.Hash)
	DeleteAccount(addr types.Address)
}

// MutableAccount is the write handle on one account inside an updater. All
// mutations stage into the owning updater and become visible to the world
// only on commit.
type MutableAccount struct {
	addr    types.Address
	account *types.Account
	updater *Updater
}

// Address returns the account address.
func (m *MutableAccount) Address() types.Address { return m.addr }

// Nonce returns the staged nonce.
func (m *MutableAccount) Nonce() uint64 { return m.account.Nonce }

// SetNonce stages a new nonce.
func (m *MutableAccount) SetNonce(nonce uint64) { m.account.Nonce = nonce }

// IncrementNonce bumps the nonce by one and returns the previous value.
func (m *MutableAccount) IncrementNonce() uint64 {
	prev := m.account.Nonce
	m.account.Nonce = prev + 1
	return prev
}

// Balance returns the staged balance.
func (m *MutableAccount) Balance() *types.Wei {
	return new(types.Wei).Set(m.account.Balance)
}

// SetBalance stages a new balance.
func (m *MutableAccount) SetBalance(balance *types.Wei) {
	m.account.Balance = new(types.Wei).Set(balance)
}

// IncrementBalance credits the account and returns the previous balance.
func (m *MutableAccount) IncrementBalance(amount *types.Wei) *types.Wei {
	prev := m.Balance()
	m.account.Balance = new(types.Wei).Add(m.account.Balance, amount)
	return prev
}

// DecrementBalance debits the account and returns the previous balance.
// The caller must have checked coverage; debiting below zero saturates.
func (m *MutableAccount) DecrementBalance(amount *types.Wei) *types.Wei {
	prev := m.Balance()
	if m.account.Balance.Lt(amount) {
		m.account.Balance = new(types.Wei)
	} else {
		m.account.Balance = new(types.Wei).Sub(m.account.Balance, amount)
	}
	return prev
}

// CodeHash returns the staged code hash.
func (m *MutableAccount) CodeHash() types.Hash { return m.account.CodeHash }

// HasCode reports whether the account holds deployed code.
func (m *MutableAccount) HasCode() bool { return m.account.HasCode() }

// Code returns the account code.
func (m *MutableAccount) Code() []byte {
	return m.updater.GetCode(m.account.CodeHash)
}

// SetCode stages new code for the account; the code hash follows.
func (m *MutableAccount) SetCode(code []byte) {
	if len(code) == 0 {
		m.account.CodeHash = types.EmptyCodeHash
		return
	}
	hash := crypto.Keccak256Hash(code)
	m.updater.stageCode(hash, code)
	m.account.CodeHash = hash
}

// GetStorage returns the staged value of a storage slot.
func (m *MutableAccount) GetStorage(key types.Hash) types.Hash {
	return m.updater.GetStorage(m.addr, key)
}

// SetStorage stages a storage slot write.
func (m *MutableAccount) SetStorage(key, value types.Hash) {
	m.updater.stageStorage(m.addr, key, value)
}

// IsEmpty reports whether the staged account is empty per EIP-161.
func (m *MutableAccount) IsEmpty() bool { return m.account.IsEmpty() }

// Account returns a copy of the staged consensus fields.
func (m *MutableAccount) Account() *types.Account { return m.account.Copy() }

// snapshot returns the staged consensus fields.
func (m *MutableAccount) snapshot() *types.Account { return m.account }
