package trie

// The three path visitors below dispatch on the node tag and produce new
// node graphs by structural sharing. Paths handed to them are nibble
// sequences ending with the leaf terminator.

// getVisitor walks the trie without modifying it.
type getVisitor struct{}

func (v getVisitor) visit(n node, path []byte) ([]byte, bool) {
	switch n := n.(type) {
	case *nullNode:
		return nil, false

	case *leafNode:
		common := commonPrefixLength(n.path, path)
		if common == len(n.path) && common == len(path) {
			return n.value, true
		}
		return nil, false

	case *extensionNode:
		common := commonPrefixLength(n.path, path)
		if common < len(n.path) {
			return nil, false
		}
		return v.visit(n.child, path[common:])

	case *branchNode:
		if path[0] == leafTerminator {
			if n.hasValue {
				return n.value, true
			}
			return nil, false
		}
		return v.visit(n.children[path[0]], path[1:])

	default:
		return nil, false
	}
}

// putVisitor binds a value to a path, splitting leaves and extensions at
// the point of divergence.
type putVisitor struct {
	factory nodeFactory
	value   []byte
}

func (v putVisitor) visit(n node, path []byte) node {
	switch n := n.(type) {
	case *nullNode:
		return v.factory.newLeaf(path, v.value)

	case *leafNode:
		common := commonPrefixLength(n.path, path)
		if common == len(n.path) && common == len(path) {
			// Equal keys overwrite.
			return v.factory.newLeaf(n.path, v.value)
		}
		// The paths diverge at index common. Where one of them ends
		// there, its terminator arm becomes the value of the new branch.
		updatedLeaf := v.factory.newLeaf(n.path[common+1:], n.value)
		newLeaf := v.factory.newLeaf(path[common+1:], v.value)
		branch := v.factory.newBranch(n.path[common], updatedLeaf, path[common], newLeaf)
		return v.factory.newExtension(path[:common], branch)

	case *extensionNode:
		common := commonPrefixLength(n.path, path)
		if common == len(n.path) {
			newChild := v.visit(n.child, path[common:])
			return v.factory.newExtension(n.path, newChild)
		}
		// Split the extension at the divergence point. The tail of the
		// extension (if any) keeps pointing at the original child.
		updated := v.factory.newExtension(n.path[common+1:], n.child)
		newLeaf := v.factory.newLeaf(path[common+1:], v.value)
		branch := v.factory.newBranch(n.path[common], updated, path[common], newLeaf)
		return v.factory.newExtension(path[:common], branch)

	case *branchNode:
		if path[0] == leafTerminator {
			nb := &branchNode{children: n.children, value: v.value, hasValue: true}
			return nb
		}
		newChild := v.visit(n.children[path[0]], path[1:])
		return v.factory.replaceChild(n, path[0], newChild)

	default:
		return n
	}
}

// removeVisitor unbinds a path. Removing an absent key returns the node
// unchanged. After a child is removed from a branch, the branch flattens
// when it no longer justifies its fan-out (unless flattening is disabled,
// as proof generation requires stable shapes).
type removeVisitor struct {
	factory      nodeFactory
	allowFlatten bool
}

func (v removeVisitor) visit(n node, path []byte) node {
	switch n := n.(type) {
	case *nullNode:
		return theNullNode

	case *leafNode:
		common := commonPrefixLength(n.path, path)
		if common == len(n.path) {
			return theNullNode
		}
		return n

	case *extensionNode:
		common := commonPrefixLength(n.path, path)
		if common < len(n.path) {
			// Diverges inside the extension: nothing to remove.
			return n
		}
		newChild := v.visit(n.child, path[common:])
		return v.mergeExtension(n.path, newChild)

	case *branchNode:
		if path[0] == leafTerminator {
			if !n.hasValue {
				return n
			}
			nb := &branchNode{children: n.children}
			return v.maybeFlatten(nb)
		}
		newChild := v.visit(n.children[path[0]], path[1:])
		nb := v.factory.replaceChild(n, path[0], newChild)
		return v.maybeFlatten(nb)

	default:
		return n
	}
}

// mergeExtension rebuilds an extension over its updated child, merging
// with the child when the child itself collapsed to a short node.
func (v removeVisitor) mergeExtension(path []byte, child node) node {
	switch child := child.(type) {
	case *nullNode:
		return theNullNode
	case *leafNode:
		return v.factory.newLeaf(concatPaths(path, child.path), child.value)
	case *extensionNode:
		return v.factory.newExtension(concatPaths(path, child.path), child.child)
	default:
		return v.factory.newExtension(path, child)
	}
}

// maybeFlatten collapses a branch left with fewer than two live outgoing
// references: zero references yield null (or a terminator leaf when only
// the value remains), a single reference folds the branch into its child
// prefixed by the child index.
func (v removeVisitor) maybeFlatten(b *branchNode) node {
	if !v.allowFlatten {
		return b
	}
	count, last := b.liveChildren()
	switch {
	case count == 0 && !b.hasValue:
		return theNullNode
	case count == 0:
		return v.factory.newLeaf([]byte{leafTerminator}, b.value)
	case count == 1 && !b.hasValue:
		return v.mergeExtension([]byte{byte(last)}, b.children[last])
	default:
		return b
	}
}
