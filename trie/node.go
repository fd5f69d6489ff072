package trie

// node is the tagged variant over the four MPT node kinds. Nodes are
// immutable after construction: visitors build new graphs sharing
// unchanged subtrees with the old ones.
type node interface {
	// cachedHash returns the memoized hash reference, or nil before the
	// first hashing pass. Node immutability keeps the cache valid.
	cachedHash() []byte
	setCachedHash(h []byte)
}

// nullNode is the terminal sentinel. A single shared instance stands for
// every absent child.
type nullNode struct{}

var theNullNode = &nullNode{}

func (n *nullNode) cachedHash() []byte  { return nullNodeRLP }
func (n *nullNode) setCachedHash([]byte) {}

// nullNodeRLP is the encoding of the absent node: the empty string.
var nullNodeRLP = []byte{0x80}

// leafNode binds a value to the remainder of a key. Its path always ends
// with the leaf terminator.
type leafNode struct {
	path  []byte
	value []byte
	hash  []byte
}

func (n *leafNode) cachedHash() []byte   { return n.hash }
func (n *leafNode) setCachedHash(h []byte) { n.hash = h }

// extensionNode carries a shared non-empty path prefix. Its child is always
// a branch.
type extensionNode struct {
	path  []byte
	child node
	hash  []byte
}

func (n *extensionNode) cachedHash() []byte   { return n.hash }
func (n *extensionNode) setCachedHash(h []byte) { n.hash = h }

// branchNode fans out on the next nibble. The value is present when a key
// terminates at this node.
type branchNode struct {
	children [16]node
	value    []byte // nil when absent
	hasValue bool
	hash     []byte
}

func (n *branchNode) cachedHash() []byte   { return n.hash }
func (n *branchNode) setCachedHash(h []byte) { n.hash = h }

// liveChildren returns the number of non-null children and the index of
// the last live one.
func (n *branchNode) liveChildren() (count, lastIndex int) {
	lastIndex = -1
	for i, c := range n.children {
		if _, isNull := c.(*nullNode); !isNull {
			count++
			lastIndex = i
		}
	}
	return count, lastIndex
}

// nodeFactory centralizes node construction so invariants (non-empty
// extension paths, terminator arms stored as the branch value) live in one
// place. Branch collapse after a remove is done by removeVisitor.
type nodeFactory struct{}

func (f nodeFactory) newLeaf(path, value []byte) node {
	return &leafNode{path: path, value: value}
}

// newExtension builds an extension over child, flattening the degenerate
// empty-path case to the child itself.
func (f nodeFactory) newExtension(path []byte, child node) node {
	if len(path) == 0 {
		return child
	}
	return &extensionNode{path: path, child: child}
}

// newBranch builds a two-armed branch. An arm indexed by the leaf
// terminator contributes its value to the branch instead of occupying a
// child slot.
func (f nodeFactory) newBranch(leftIndex byte, left node, rightIndex byte, right node) node {
	b := &branchNode{}
	for i := range b.children {
		b.children[i] = theNullNode
	}
	switch {
	case leftIndex == leafTerminator:
		b.children[rightIndex] = right
		b.value, b.hasValue = nodeValue(left)
	case rightIndex == leafTerminator:
		b.children[leftIndex] = left
		b.value, b.hasValue = nodeValue(right)
	default:
		b.children[leftIndex] = left
		b.children[rightIndex] = right
	}
	return b
}

// replaceChild returns a copy of the branch with slot i replaced.
func (f nodeFactory) replaceChild(b *branchNode, i byte, child node) *branchNode {
	nb := &branchNode{children: b.children, value: b.value, hasValue: b.hasValue}
	nb.children[i] = child
	return nb
}

// nodeValue extracts the terminal value carried by a zero-path leaf.
func nodeValue(n node) ([]byte, bool) {
	if leaf, ok := n.(*leafNode); ok {
		return leaf.value, true
	}
	return nil, false
}
