package trie

import (
	"fmt"

	"github.com/Sparrow2025/besu/core/types"
	"github.com/Sparrow2025/besu/rlp"
)

// Trie is an immutable handle on a Merkle Patricia Trie root. Mutating
// operations return a new handle; the receiver keeps reading the old root.
// Keys are raw byte strings; see SecureTrie for the hashed-key facade used
// by the world state.
type Trie struct {
	root node
}

// NewEmpty returns a handle on the empty trie.
func NewEmpty() *Trie {
	return &Trie{root: theNullNode}
}

// Get returns the value bound to key, or false when the key is absent.
func (t *Trie) Get(key []byte) ([]byte, bool) {
	return getVisitor{}.visit(t.root, keyToNibbles(key))
}

// Put returns a new trie with key bound to value. The receiver is
// unchanged.
func (t *Trie) Put(key, value []byte) *Trie {
	v := putVisitor{value: append([]byte(nil), value...)}
	return &Trie{root: v.visit(t.root, keyToNibbles(key))}
}

// Remove returns a new trie with key unbound. Removing an absent key is a
// no-op.
func (t *Trie) Remove(key []byte) *Trie {
	v := removeVisitor{allowFlatten: true}
	return &Trie{root: v.visit(t.root, keyToNibbles(key))}
}

// RemoveNoFlatten removes key without collapsing branches afterwards.
// Proof generation relies on the stable shape.
func (t *Trie) RemoveNoFlatten(key []byte) *Trie {
	v := removeVisitor{allowFlatten: false}
	return &Trie{root: v.visit(t.root, keyToNibbles(key))}
}

// RootHash returns the Keccak-256 identity of the root node. The empty
// trie hashes to the well-known empty root.
func (t *Trie) RootHash() types.Hash {
	return types.BytesToHash(hashNode(t.root))
}

// IsEmpty reports whether the trie holds no bindings.
func (t *Trie) IsEmpty() bool {
	_, isNull := t.root.(*nullNode)
	return isNull
}

// CorruptionError signals unreadable or inconsistent trie data coming out
// of the underlying store. Callers treat it as recoverable: it is
// re-raised past the transaction layer so the owner of the store can
// trigger a heal.
type CorruptionError struct {
	Key    []byte
	Reason string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("trie: corrupt entry at key %x: %s", e.Key, e.Reason)
}

// SecureTrie wraps a Trie with the consensus key schema: external keys are
// Keccak-256 hashes of the RLP encoding of the original key, and the trie
// path is the nibble expansion of that hash.
type SecureTrie struct {
	inner *Trie
}

// NewSecure returns a handle on an empty secure trie.
func NewSecure() *SecureTrie {
	return &SecureTrie{inner: NewEmpty()}
}

// hashKey derives the trie key for an external key.
func hashKey(key []byte) []byte {
	enc, err := rlp.EncodeToBytes(key)
	if err != nil {
		// []byte always encodes; keep the signature clean.
		enc = key
	}
	return keccak(enc)
}

// Get returns the value bound to key, or false when absent.
func (t *SecureTrie) Get(key []byte) ([]byte, bool) {
	return t.inner.Get(hashKey(key))
}

// Put returns a new secure trie with key bound to value.
func (t *SecureTrie) Put(key, value []byte) *SecureTrie {
	return &SecureTrie{inner: t.inner.Put(hashKey(key), value)}
}

// Remove returns a new secure trie with key unbound.
func (t *SecureTrie) Remove(key []byte) *SecureTrie {
	return &SecureTrie{inner: t.inner.Remove(hashKey(key))}
}

// RootHash returns the root identity hash.
func (t *SecureTrie) RootHash() types.Hash {
	return t.inner.RootHash()
}

// IsEmpty reports whether the trie holds no bindings.
func (t *SecureTrie) IsEmpty() bool {
	return t.inner.IsEmpty()
}
