package state

import (
	"sort"

	"github.com/Sparrow2025/besu/core/types"
)

// Updater stages world-state mutations for one transaction (or one nested
// execution scope). Reads fall through staged deltas to the parent view;
// writes stay private until Commit publishes them to the parent in program
// order. Revert discards everything.
type Updater struct {
	world  MutableWorld // non-nil on the root updater only
	parent *Updater     // non-nil on nested updaters only

	accounts map[types.Address]*MutableAccount
	deleted  map[types.Address]bool
	storage  map[types.Address]map[types.Hash]types.Hash
	code     map[types.Hash][]byte
	touched  map[types.Address]bool
	order    []types.Address // program order of first mutation per address
}

// NewUpdater builds the root updater over a mutable world.
func NewUpdater(world MutableWorld) *Updater {
	u := newUpdater()
	u.world = world
	return u
}

func newUpdater() *Updater {
	return &Updater{
		accounts: make(map[types.Address]*MutableAccount),
		deleted:  make(map[types.Address]bool),
		storage:  make(map[types.Address]map[types.Hash]types.Hash),
		code:     make(map[types.Hash][]byte),
		touched:  make(map[types.Address]bool),
	}
}

// Updater returns a nested child updater. Its Commit folds the child
// deltas into this updater; its Revert discards them.
func (u *Updater) Updater() *Updater {
	child := newUpdater()
	child.parent = u
	return child
}

// GetAccount reads an account through the staged deltas.
func (u *Updater) GetAccount(addr types.Address) (*types.Account, bool) {
	if u.deleted[addr] {
		return nil, false
	}
	if m, ok := u.accounts[addr]; ok {
		return m.snapshot().Copy(), true
	}
	return u.parentView().GetAccount(addr)
}

// GetCode reads code through the staged deltas.
func (u *Updater) GetCode(codeHash types.Hash) []byte {
	if code, ok := u.code[codeHash]; ok {
		return code
	}
	return u.parentView().GetCode(codeHash)
}

// GetStorage reads a storage slot through the staged deltas.
func (u *Updater) GetStorage(addr types.Address, key types.Hash) types.Hash {
	if u.deleted[addr] {
		return types.Hash{}
	}
	if slots, ok := u.storage[addr]; ok {
		if v, ok := slots[key]; ok {
			return v
		}
	}
	return u.parentView().GetStorage(addr, key)
}

// GetOrCreate returns the write handle for addr, creating an empty staged
// account when none exists.
func (u *Updater) GetOrCreate(addr types.Address) *MutableAccount {
	if m, ok := u.accounts[addr]; ok {
		return m
	}
	var acct *types.Account
	if existing, ok := u.parentView().GetAccount(addr); ok && !u.deleted[addr] {
		acct = existing.Copy()
	} else {
		acct = types.NewAccount()
	}
	delete(u.deleted, addr)
	m := &MutableAccount{addr: addr, account: acct, updater: u}
	u.accounts[addr] = m
	u.touch(addr)
	return m
}

// GetSenderAccount is GetOrCreate with the sender-specific read path. It
// exists so tracing and logging can distinguish sender resolution.
func (u *Updater) GetSenderAccount(addr types.Address) *MutableAccount {
	return u.GetOrCreate(addr)
}

// Delete marks an account for deletion.
func (u *Updater) Delete(addr types.Address) {
	delete(u.accounts, addr)
	delete(u.storage, addr)
	u.deleted[addr] = true
	u.touch(addr)
}

// Touched returns every address read-created or written through this
// updater, in first-touch order.
func (u *Updater) Touched() []types.Address {
	out := make([]types.Address, len(u.order))
	copy(out, u.order)
	return out
}

// DeleteEmptyTouched removes touched accounts that are empty per EIP-161.
func (u *Updater) DeleteEmptyTouched() {
	for _, addr := range u.Touched() {
		if u.deleted[addr] {
			continue
		}
		if acct, ok := u.GetAccount(addr); ok && acct.IsEmpty() {
			u.Delete(addr)
		}
	}
}

// Commit publishes the staged deltas to the parent. For a nested updater
// the deltas fold into the parent updater; for the root updater they are
// applied to the world. Deltas apply in program order.
func (u *Updater) Commit() {
	if u.parent != nil {
		u.commitToParent()
		return
	}
	u.commitToWorld()
}

// Revert discards all staged deltas.
func (u *Updater) Revert() {
	u.accounts = make(map[types.Address]*MutableAccount)
	u.deleted = make(map[types.Address]bool)
	u.storage = make(map[types.Address]map[types.Hash]types.Hash)
	u.code = make(map[types.Hash][]byte)
	u.touched = make(map[types.Address]bool)
	u.order = nil
}

func (u *Updater) commitToParent() {
	p := u.parent
	for _, addr := range u.order {
		if u.deleted[addr] {
			p.Delete(addr)
			continue
		}
		if m, ok := u.accounts[addr]; ok {
			target := p.GetOrCreate(addr)
			target.account = m.snapshot().Copy()
		}
		if slots, ok := u.storage[addr]; ok {
			for _, kv := range sortedSlots(slots) {
				p.stageStorage(addr, kv.key, kv.value)
			}
		}
	}
	for hash, code := range u.code {
		p.stageCode(hash, code)
	}
}

func (u *Updater) commitToWorld() {
	w := u.world
	for hash, code := range u.code {
		w.SetCode(hash, code)
	}
	for _, addr := range u.order {
		if u.deleted[addr] {
			w.DeleteAccount(addr)
			continue
		}
		if m, ok := u.accounts[addr]; ok {
			w.SetAccount(addr, m.snapshot().Copy())
		}
		if slots, ok := u.storage[addr]; ok {
			for _, kv := range sortedSlots(slots) {
				w.SetStorage(addr, kv.key, kv.value)
			}
		}
	}
}

// parentView returns the view reads fall through to.
func (u *Updater) parentView() World {
	if u.parent != nil {
		return u.parent
	}
	return u.world
}

func (u *Updater) stageStorage(addr types.Address, key, value types.Hash) {
	slots, ok := u.storage[addr]
	if !ok {
		slots = make(map[types.Hash]types.Hash)
		u.storage[addr] = slots
	}
	slots[key] = value
	u.touch(addr)
}

func (u *Updater) stageCode(hash types.Hash, code []byte) {
	u.code[hash] = code
}

func (u *Updater) touch(addr types.Address) {
	if !u.touched[addr] {
		u.touched[addr] = true
		u.order = append(u.order, addr)
	}
}

type slotKV struct {
	key, value types.Hash
}

// sortedSlots orders staged slot writes deterministically.
func sortedSlots(slots map[types.Hash]types.Hash) []slotKV {
	out := make([]slotKV, 0, len(slots))
	for k, v := range slots {
		out = append(out, slotKV{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		return string(out[i].key[:]) < string(out[j].key[:])
	})
	return out
}
