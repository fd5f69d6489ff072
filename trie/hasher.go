package trie

import (
	"golang.org/x/crypto/sha3"

	"github.com/Sparrow2025/besu/rlp"
)

// Node identity is value-based: the Keccak-256 hash of the canonical RLP
// encoding. Nodes shorter than 32 bytes are embedded in their parent
// instead of being referenced by hash, per the Yellow Paper.

// encodeNode returns the canonical RLP encoding of a node:
//
//	leaf      => [hex-prefix(path, leaf), value]
//	extension => [hex-prefix(path), childRef]
//	branch    => [ref(child0) ... ref(child15), value|""]
//	null      => ""
func encodeNode(n node) []byte {
	switch n := n.(type) {
	case *nullNode:
		return nullNodeRLP

	case *leafNode:
		payload := rlp.AppendString(nil, hexToCompact(n.path))
		payload = rlp.AppendString(payload, n.value)
		return rlp.WrapList(payload)

	case *extensionNode:
		payload := rlp.AppendString(nil, hexToCompact(n.path))
		payload = append(payload, nodeRef(n.child)...)
		return rlp.WrapList(payload)

	case *branchNode:
		var payload []byte
		for _, c := range n.children {
			payload = append(payload, nodeRef(c)...)
		}
		if n.hasValue {
			payload = rlp.AppendString(payload, n.value)
		} else {
			payload = append(payload, rlp.EmptyString)
		}
		return rlp.WrapList(payload)

	default:
		return nullNodeRLP
	}
}

// nodeRef returns the bytes splicing a child into its parent's payload:
// the node encoding itself when shorter than 32 bytes, otherwise the RLP
// string of its Keccak-256 hash. The result is memoized on the node.
func nodeRef(n node) []byte {
	if cached := n.cachedHash(); cached != nil {
		return cached
	}
	enc := encodeNode(n)
	var ref []byte
	if len(enc) < 32 {
		ref = enc
	} else {
		ref = rlp.AppendString(nil, keccak(enc))
	}
	n.setCachedHash(ref)
	return ref
}

// hashNode returns the 32-byte identity hash of a node.
func hashNode(n node) []byte {
	return keccak(encodeNode(n))
}

func keccak(data []byte) []byte {
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	return d.Sum(nil)
}
